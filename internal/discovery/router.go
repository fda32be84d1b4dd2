package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"discovery/pkg/llmjudge"
	"discovery/pkg/llmjudge/pattern"
	"discovery/pkg/logger"
	"discovery/pkg/metrics"
	"discovery/pkg/serrors"
)

const (
	// DefaultCallTimeout bounds a single provider completion call.
	DefaultCallTimeout = 30 * time.Second
	// DefaultRetryBackoff is the pause before the single transport retry.
	DefaultRetryBackoff = 500 * time.Millisecond
)

// RouterOptions configure the provider fallback router.
type RouterOptions struct {
	// CallTimeout bounds each individual provider call.
	CallTimeout time.Duration
	// RetryBackoff is the constant backoff before the one transport retry.
	RetryBackoff time.Duration
}

// Router walks a judgment through the provider chain until one provider
// yields a parseable response.
//
// The chain is the configured provider order, optionally reordered so a
// request-preferred provider goes first, always terminated by the
// deterministic pattern judge. Failure handling per provider:
//   - quota exceeded or rate limited: switch to the next provider
//     immediately, without retrying the failing one in this request
//   - transport failure: one retry after a constant backoff, then switch
//   - malformed response (including a response the caller's parse rejects):
//     switch without retry
//
// Context cancellation stops the walk; the pattern judge is infallible, so a
// completed walk always yields a judgment.
type Router struct {
	providers []llmjudge.Client
	terminal  llmjudge.Client
	opts      RouterOptions
}

// NewRouter constructs a Router over the given providers in fallback order.
// The deterministic pattern judge is appended as the terminal provider; it
// must not appear in providers.
func NewRouter(providers []llmjudge.Client, opts RouterOptions) *Router {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = DefaultRetryBackoff
	}

	return &Router{
		providers: providers,
		terminal:  pattern.New(),
		opts:      opts,
	}
}

// Knows reports whether name identifies a provider the router can prefer.
func (r *Router) Knows(name string) bool {
	if name == pattern.Name {
		return true
	}
	for _, p := range r.providers {
		if p.Name() == name {
			return true
		}
	}

	return false
}

// Invoke walks the chain for one prompt. parse is called with each raw
// completion and must reject responses that do not match the expected
// judgment schema; a rejection moves the walk to the next provider. The
// returned string names the provider whose response was accepted.
func (r *Router) Invoke(ctx context.Context,
	preference string,
	p llmjudge.Prompt,
	parse func(raw string) error) (string, error) {
	chain, err := r.chainFor(preference)
	if err != nil {
		return "", err
	}

	for i, client := range chain {
		if ctx.Err() != nil {
			return "", serrors.Wrap(serrors.ErrCancelled, ctx.Err(), "%s judgment cancelled", p.Role)
		}

		raw, err := r.complete(ctx, client, p)
		if err == nil {
			err = parse(raw)
			if err == nil {
				r.recordAccepted(p.Role, client, i)

				return client.Name(), nil
			}
		}
		if ctx.Err() != nil {
			return "", serrors.Wrap(serrors.ErrCancelled, ctx.Err(), "%s judgment cancelled", p.Role)
		}

		class := failureClass(err)
		metrics.ProviderFailures.WithLabelValues(client.Name(), class).Inc()
		logger.Warn(ctx, "judgment provider failed, moving to next",
			zap.String("provider", client.Name()),
			zap.String("role", string(p.Role)),
			zap.String("class", class),
			zap.Error(err))
	}

	// unreachable while the pattern judge terminates the chain
	return "", serrors.With(serrors.ErrInternal, "no provider could service %s judgment", p.Role)
}

// chainFor builds the provider walk order for one request. An empty
// preference keeps the configured order; a known preference moves that
// provider to the front; preferring the pattern judge pins the walk to it
// alone; an unknown preference rejects the request.
func (r *Router) chainFor(preference string) ([]llmjudge.Client, error) {
	if preference == pattern.Name {
		return []llmjudge.Client{r.terminal}, nil
	}

	chain := make([]llmjudge.Client, 0, len(r.providers)+1)
	if preference != "" {
		found := false
		for _, p := range r.providers {
			if p.Name() == preference {
				chain = append(chain, p)
				found = true

				break
			}
		}
		if !found {
			return nil, serrors.With(serrors.ErrBadRequest, "unknown provider %q", preference)
		}
	}
	for _, p := range r.providers {
		if len(chain) > 0 && p.Name() == chain[0].Name() {
			continue
		}
		chain = append(chain, p)
	}
	chain = append(chain, r.terminal)

	return chain, nil
}

// complete calls one provider, retrying exactly once on transport failures.
func (r *Router) complete(ctx context.Context, client llmjudge.Client, p llmjudge.Prompt) (string, error) {
	var raw string
	backoff := retry.WithMaxRetries(1, retry.NewConstant(r.opts.RetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, r.opts.CallTimeout)
		defer cancel()

		out, err := client.Complete(callCtx, p)
		if err != nil {
			if errors.Is(err, serrors.ErrTransport) && ctx.Err() == nil {
				return retry.RetryableError(err)
			}

			return err
		}
		raw = out

		return nil
	})
	if err != nil {
		return "", err
	}

	return raw, nil
}

func (r *Router) recordAccepted(role llmjudge.Role, client llmjudge.Client, position int) {
	if position > 0 {
		metrics.FallbackActivations.WithLabelValues(string(role)).Inc()
	}
	if client.Name() == pattern.Name {
		metrics.PatternFallbacks.WithLabelValues(string(role)).Inc()
	}
}

// failureClass maps a provider failure onto its metric label. Responses the
// schema parser rejected count as malformed.
func failureClass(err error) string {
	var se *serrors.Error
	if errors.As(err, &se) {
		return se.Kind().Error()
	}

	return "UNKNOWN"
}
