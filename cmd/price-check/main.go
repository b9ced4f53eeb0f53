// Command price-check verifies that every configured Stripe price ID
// exists and is active. Run it after editing the apps section of the
// config file, before deploying.
package main

import (
	"log"
	"os"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/price"
	"go.uber.org/zap"

	"github.com/onsiteclub/account-service/internal/config"
	"github.com/onsiteclub/account-service/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger := logger.DefaultZapLogger()
	defer zapLogger.Sync()

	stripe.Key = cfg.Service.Stripe.SecretKey

	failed := 0
	for i := range cfg.Apps {
		app := &cfg.Apps[i]
		p, err := price.Get(app.StripePriceID, nil)
		if err != nil {
			zapLogger.Error("price lookup failed",
				zap.String("app", app.Name),
				zap.String("price_id", app.StripePriceID),
				zap.Error(err),
			)
			failed++
			continue
		}
		if !p.Active {
			zapLogger.Error("price is inactive",
				zap.String("app", app.Name),
				zap.String("price_id", app.StripePriceID),
			)
			failed++
			continue
		}
		if p.Recurring == nil {
			zapLogger.Error("price is not recurring",
				zap.String("app", app.Name),
				zap.String("price_id", app.StripePriceID),
			)
			failed++
			continue
		}
		zapLogger.Info("price ok",
			zap.String("app", app.Name),
			zap.String("price_id", app.StripePriceID),
			zap.String("currency", string(p.Currency)),
			zap.Int64("unit_amount", p.UnitAmount),
			zap.String("interval", string(p.Recurring.Interval)),
		)
	}

	if failed > 0 {
		zapLogger.Error("price check failed", zap.Int("failures", failed))
		os.Exit(1)
	}
	zapLogger.Info("all prices verified", zap.Int("apps", len(cfg.Apps)))
}
