package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"discovery/internal/config"
	"discovery/pkg/domain"
	"discovery/pkg/logger"
)

// discoverCommand constructs the 'discover' subcommand that runs one
// discovery request from the command line and prints the result as JSON.
func discoverCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Runs a one-shot discovery for an entity",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			name, _ := cmd.Flags().GetString("name")
			site, _ := cmd.Flags().GetString("domain")
			categoryNames, _ := cmd.Flags().GetStringSlice("categories")
			threshold, _ := cmd.Flags().GetFloat64("threshold")
			rankingLLM, _ := cmd.Flags().GetString("ranking-llm")
			selectionLLM, _ := cmd.Flags().GetString("selection-llm")

			categories := make([]domain.Category, 0, len(categoryNames))
			for _, n := range categoryNames {
				c, err := domain.ParseCategory(n)
				if err != nil {
					logger.Fatal(ctx, "unknown category", zap.String("category", n))
				}
				categories = append(categories, c)
			}
			if len(categories) == 0 {
				categories = domain.Categories()
			}

			req := domain.DiscoveryRequest{
				Name:              name,
				BaseDomain:        site,
				Categories:        categories,
				RankingProvider:   rankingLLM,
				SelectionProvider: selectionLLM,
			}
			if cmd.Flags().Changed("threshold") {
				req.MinConfidence = &threshold
			}

			res, err := buildDiscoverer(ctx, cfg).Discover(ctx, req)
			if err != nil {
				logger.Fatal(ctx, "discovery failed", zap.Error(err))
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				logger.Fatal(ctx, "could not encode result", zap.Error(err))
			}
			if !res.Brand.Recognized {
				fmt.Fprintln(os.Stderr, "brand not recognized:", res.Brand.Reason)
			}
		},
	}

	cmd.Flags().String("name", "", "Entity (company/brand) name")
	cmd.Flags().String("domain", "", "Entity site authority, e.g. acme.com")
	cmd.Flags().StringSlice("categories", nil, "Categories to discover (default: all)")
	cmd.Flags().Float64("threshold", 0, "Minimum confidence threshold (default: 0.6)")
	cmd.Flags().String("ranking-llm", "", "Preferred provider for ranking judgments")
	cmd.Flags().String("selection-llm", "", "Preferred provider for selection judgments")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("domain")

	return cmd
}
