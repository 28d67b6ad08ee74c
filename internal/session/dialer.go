package session

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/api/kbin"
	"github.com/glabrego/lemmy-cli/internal/api/lemmy"
)

type DialerConfig struct {
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond <= 0 disables client-side throttling.
	RequestsPerSecond float64
	Logger            *slog.Logger
}

// NewDialer returns a Dialer for the built-in flavors. All backends it opens
// share one rate limiter.
func NewDialer(cfg DialerConfig) Dialer {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return func(flavor api.Flavor, baseURL, token string) (api.Backend, error) {
		switch flavor {
		case api.FlavorLemmy:
			return lemmy.New(baseURL, lemmy.Options{
				Token:     token,
				UserAgent: cfg.UserAgent,
				Timeout:   cfg.Timeout,
				Limiter:   limiter,
				Logger:    cfg.Logger,
			}), nil
		case api.FlavorKbin:
			return kbin.New(baseURL), nil
		default:
			return nil, fmt.Errorf("%w: %q", api.ErrUnsupportedFlavor, flavor)
		}
	}
}
