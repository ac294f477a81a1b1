package observability

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commishbot/internal/config"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
)

// Init starts tracing and profiling. The returned shutdown stops them in
// reverse order and joins their errors.
func Init(cfg config.Config, logger *logging.Logger) (ShutdownFunc, error) {
	stopTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "init uptrace")
	}
	stopProfiling, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = stopTracing(context.Background())
		return nil, errors.Wrap(err, "init pyroscope")
	}

	return func(ctx context.Context) error {
		var errs error
		if err := stopProfiling(ctx); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "stop pyroscope"))
		}
		if err := stopTracing(ctx); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "stop uptrace"))
		}
		return errs
	}, nil
}
