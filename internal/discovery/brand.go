package discovery

import (
	"context"

	"discovery/pkg/domain"
	"discovery/pkg/llmjudge"
)

// BrandValidator runs the brand-recognition gate. It is the first step of
// every discovery run: a brand the judge does not recognize stops the whole
// request before any search is issued.
type BrandValidator struct {
	router *Router
}

// NewBrandValidator constructs a BrandValidator over the router.
func NewBrandValidator(router *Router) *BrandValidator {
	return &BrandValidator{router: router}
}

// Validate asks the provider chain whether the entity plausibly exists as a
// real, sufficiently well-known brand with a site consistent with its name.
// The judgment always uses the configured default provider order.
//
// When every model provider fails, the terminal pattern judge answers and it
// always answers unrecognized with zero confidence, so a total provider
// outage fails closed.
func (v *BrandValidator) Validate(ctx context.Context, name, site string) (domain.BrandValidation, error) {
	prompt := llmjudge.Prompt{
		Role:   llmjudge.RoleBrand,
		Entity: name,
		Domain: site,
	}

	var judgment llmjudge.BrandJudgment
	used, err := v.router.Invoke(ctx, "", prompt, func(raw string) error {
		parsed, err := llmjudge.ParseBrandJudgment(raw)
		if err != nil {
			return err
		}
		judgment = parsed

		return nil
	})
	if err != nil {
		return domain.BrandValidation{}, err
	}

	return domain.BrandValidation{
		Recognized: judgment.Recognized,
		Confidence: judgment.Confidence,
		Reason:     judgment.Reason,
		LLMUsed:    used,
	}, nil
}
