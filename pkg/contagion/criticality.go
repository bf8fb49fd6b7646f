package contagion

import (
	"errors"
	"sort"
	"sync"

	"github.com/cascadelab/contagion/pkg/parallel"
)

// CriticalityOptions configures a criticality ranking.
type CriticalityOptions struct {
	// TopK limits the report to the K highest-impact entities. Zero or a
	// value above the entity count returns all of them.
	TopK int
	// Workers sets how many cascade runs execute concurrently. Each run
	// is read-only over the shared network and writes only its own slot,
	// so no locking is needed beyond the pool itself. One or less runs
	// sequentially.
	Workers int
	// MaxSteps is passed through to each cascade run; zero means the
	// per-network default.
	MaxSteps int
}

// DefaultCriticalityOptions returns the default ranking configuration.
func DefaultCriticalityOptions() CriticalityOptions {
	return CriticalityOptions{Workers: 1}
}

// EntityImpact is one entry of a criticality report: the number of
// entities (including the seed itself) that end up failed when this
// entity alone is the initial failure.
type EntityImpact struct {
	ID     string `json:"id"`
	Impact int    `json:"impact"`
}

// CriticalityReport ranks entities by induced-failure impact, highest
// first. Ties are broken by ascending entity id, never left unspecified.
type CriticalityReport struct {
	Impacts []EntityImpact `json:"impacts"`
	Runs    int            `json:"runs"` // cascade runs performed
}

// RankCriticality runs one independent cascade per entity and ranks the
// entities by the size of the resulting failed set. The brute force is
// deliberate: the ranking is a correctness requirement of its consumers,
// so it is never approximated or computed incrementally. Total cost is
// EntityCount cascade runs, each bounded as in Cascade.
func RankCriticality(net *Network, opts CriticalityOptions) (*CriticalityReport, error) {
	if net == nil {
		return nil, errors.New("criticality: nil network")
	}

	ids := net.EntityIDs()
	impacts := make([]EntityImpact, len(ids))
	cascadeOpts := CascadeOptions{MaxSteps: opts.MaxSteps}

	if opts.Workers > 1 {
		pool, err := parallel.NewWorkerPool(opts.Workers)
		if err != nil {
			return nil, err
		}

		var mu sync.Mutex
		var firstErr error
		for i, id := range ids {
			i, id := i, id
			pool.Submit(func() {
				result, runErr := Cascade(net, []string{id}, cascadeOpts)
				if runErr != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = runErr
					}
					mu.Unlock()
					return
				}
				impacts[i] = EntityImpact{ID: id, Impact: len(result.Failed)}
			})
		}
		pool.Wait()

		if firstErr != nil {
			return nil, firstErr
		}
	} else {
		for i, id := range ids {
			result, err := Cascade(net, []string{id}, cascadeOpts)
			if err != nil {
				return nil, err
			}
			impacts[i] = EntityImpact{ID: id, Impact: len(result.Failed)}
		}
	}

	sort.Slice(impacts, func(i, j int) bool {
		if impacts[i].Impact != impacts[j].Impact {
			return impacts[i].Impact > impacts[j].Impact
		}
		return impacts[i].ID < impacts[j].ID
	})

	if opts.TopK > 0 && opts.TopK < len(impacts) {
		impacts = impacts[:opts.TopK]
	}

	return &CriticalityReport{Impacts: impacts, Runs: len(ids)}, nil
}
