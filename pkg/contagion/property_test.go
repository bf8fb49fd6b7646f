package contagion_test

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/cascadelab/contagion/pkg/contagion"
	"github.com/cascadelab/contagion/pkg/generator"
)

// propertyNetwork builds a seeded generator network for invariant checks.
func propertyNetwork(t *testing.T, seed int64, entities int) *contagion.Network {
	t.Helper()

	opts := generator.DefaultOptions()
	opts.Seed = seed
	opts.Entities = entities
	if opts.CoreSize > entities {
		opts.CoreSize = entities
	}

	net, err := generator.Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return net
}

// TestCascadeInvariants uses property-based testing to verify engine
// invariants that must hold for every network and every initial shock.
func TestCascadeInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	seedGen := gen.Int64Range(0, 1<<30)
	sizeGen := gen.IntRange(2, 16)
	indexGen := gen.IntRange(0, 1<<30)

	// Property 1: the failed set is monotone, no entity ever fails twice,
	// and the trace fully accounts for the final failed set.
	properties.Property("failed set is monotone and fully traced", prop.ForAll(
		func(seed int64, size, shock int) bool {
			net := propertyNetwork(t, seed, size)
			seedID := net.EntityIDs()[shock%net.EntityCount()]

			result, err := contagion.Cascade(net, []string{seedID}, contagion.DefaultCascadeOptions())
			if err != nil {
				return false
			}

			seen := map[string]bool{seedID: true}
			for _, step := range result.Steps {
				for _, id := range step.Failed {
					if seen[id] {
						return false // resurrection or double failure
					}
					seen[id] = true
				}
			}
			if len(seen) != len(result.Failed) {
				return false
			}
			for _, id := range result.Failed {
				if !seen[id] {
					return false
				}
			}
			return true
		},
		seedGen, sizeGen, indexGen,
	))

	// Property 2: the final failed set is a fixed point; rerunning from it
	// newly fails nobody.
	properties.Property("final failed set is a fixed point", prop.ForAll(
		func(seed int64, size, shock int) bool {
			net := propertyNetwork(t, seed, size)
			seedID := net.EntityIDs()[shock%net.EntityCount()]

			first, err := contagion.Cascade(net, []string{seedID}, contagion.DefaultCascadeOptions())
			if err != nil {
				return false
			}
			second, err := contagion.Cascade(net, first.Failed, contagion.DefaultCascadeOptions())
			if err != nil {
				return false
			}
			return len(second.Steps) == 1 && len(second.Steps[0].Failed) == 0
		},
		seedGen, sizeGen, indexGen,
	))

	// Property 3: identical inputs produce byte-identical results.
	properties.Property("cascade is deterministic", prop.ForAll(
		func(seed int64, size, shock int) bool {
			net := propertyNetwork(t, seed, size)
			seedID := net.EntityIDs()[shock%net.EntityCount()]

			first, err := contagion.Cascade(net, []string{seedID}, contagion.DefaultCascadeOptions())
			if err != nil {
				return false
			}
			second, err := contagion.Cascade(net, []string{seedID}, contagion.DefaultCascadeOptions())
			if err != nil {
				return false
			}

			a, errA := json.Marshal(first)
			b, errB := json.Marshal(second)
			return errA == nil && errB == nil && string(a) == string(b)
		},
		seedGen, sizeGen, indexGen,
	))

	// Property 4: every converged trace ends with an empty confirmation step.
	properties.Property("trace ends with the fixed-point confirmation", prop.ForAll(
		func(seed int64, size, shock int) bool {
			net := propertyNetwork(t, seed, size)
			seedID := net.EntityIDs()[shock%net.EntityCount()]

			result, err := contagion.Cascade(net, []string{seedID}, contagion.DefaultCascadeOptions())
			if err != nil {
				return false
			}
			last := result.Steps[len(result.Steps)-1]
			return len(last.Failed) == 0
		},
		seedGen, sizeGen, indexGen,
	))

	// Property 5: criticality reports are sorted by impact descending with
	// ascending-id tie-break, and every impact counts at least the seed.
	properties.Property("criticality report ordering is total", prop.ForAll(
		func(seed int64, size int) bool {
			net := propertyNetwork(t, seed, size)

			report, err := contagion.RankCriticality(net, contagion.DefaultCriticalityOptions())
			if err != nil {
				return false
			}
			for i, impact := range report.Impacts {
				if impact.Impact < 1 || impact.Impact > net.EntityCount() {
					return false
				}
				if i == 0 {
					continue
				}
				prev := report.Impacts[i-1]
				if prev.Impact < impact.Impact {
					return false
				}
				if prev.Impact == impact.Impact && prev.ID >= impact.ID {
					return false
				}
			}
			return true
		},
		seedGen, sizeGen,
	))

	properties.TestingRun(t)
}
