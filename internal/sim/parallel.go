package sim

import (
	"context"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sdmsim/internal/config"
)

// Ensemble repeats one configuration with consecutive seeds, the usual way
// of estimating the statistical spread of a stochastic SDM run.
type Ensemble struct {
	cfg     *config.Config
	numRuns int
	logger  logr.Logger
}

func NewEnsemble(cfg *config.Config, numRuns int, logger logr.Logger) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, logger: logger}
}

// Run executes every member concurrently. Results are ordered by seed
// offset.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfgCopy := *e.cfg
			cfgCopy.Seed = e.cfg.Seed + uint64(i)

			sim, gbxs, err := Setup(&cfgCopy, e.logger.WithValues("member", i))
			if err != nil {
				return err
			}
			results[i], err = sim.Run(ctx, gbxs, RunConfig(&cfgCopy))
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
