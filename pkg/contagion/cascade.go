package contagion

import "errors"

// CascadeOptions configures a cascade run.
type CascadeOptions struct {
	// MaxSteps bounds the number of propagation rounds. Zero means
	// "entity count", which is a tight bound: the failed set is monotone
	// and can grow at most once per round, so a valid cascade always
	// converges within EntityCount rounds plus one confirmation step.
	MaxSteps int
}

// DefaultCascadeOptions returns the default cascade configuration.
func DefaultCascadeOptions() CascadeOptions {
	return CascadeOptions{MaxSteps: 0}
}

// EntityState is the final state of one entity after a cascade.
type EntityState struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Alive bool   `json:"alive"`
	// FailedStep is the trace step at which the entity newly failed.
	// It is -1 for entities that survived and for the initial failure
	// set, which failed before step 0.
	FailedStep int `json:"failed_step"`
}

// TraceStep records one propagation round. A converged cascade always ends
// with a step whose Failed list is empty: the round that confirmed the
// fixed point.
type TraceStep struct {
	Step   int                `json:"step"`
	Failed []string           `json:"failed"` // newly failed this step, ascending id
	Losses map[string]float64 `json:"losses"` // unpaid incoming loss per recipient
}

// CascadeResult is the outcome of a converged cascade. It is a derived,
// read-only artifact: the engine never mutates it after the run, and the
// input network and failure set are untouched.
type CascadeResult struct {
	Entities []EntityState `json:"entities"` // ascending id
	Failed   []string      `json:"failed"`   // ascending id
	Steps    []TraceStep   `json:"steps"`
}

// Cascade runs the deterministic failure-propagation fixed point.
//
// Each round recomputes every entity's unpaid incoming loss from the full
// current failed set, then evaluates all still-alive entities against that
// snapshot: an entity fails when capital minus loss drops strictly below
// its buffer. Entities that fail mid-round do not contribute outgoing
// losses until the next round, so the result is independent of entity
// iteration order. The failed set is monotonically non-decreasing; no
// entity resurrects.
//
// Unknown ids in initialFailed return an *UnknownEntityError before any
// round runs. Duplicates collapse to a set. If the step bound is exhausted
// while entities are still pending failure, Cascade returns a
// *NonConvergenceError instead of a partial result.
func Cascade(net *Network, initialFailed []string, opts CascadeOptions) (*CascadeResult, error) {
	if net == nil {
		return nil, errors.New("cascade: nil network")
	}

	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = net.EntityCount()
	}

	failed := make(map[string]bool, len(initialFailed))
	for _, id := range initialFailed {
		if _, ok := net.Entity(id); !ok {
			return nil, &UnknownEntityError{ID: id}
		}
		failed[id] = true
	}

	steps := make([]TraceStep, 0, 4)
	failedStep := make(map[string]int)

	for step := 0; ; step++ {
		losses := unpaidLosses(net, failed)

		newly := make([]string, 0)
		for _, id := range net.order {
			if failed[id] {
				continue
			}
			e := net.entities[id]
			if e.Capital-losses[id] < e.Buffer {
				newly = append(newly, id)
			}
		}

		steps = append(steps, TraceStep{Step: step, Failed: newly, Losses: losses})

		if len(newly) == 0 {
			break // fixed point reached
		}
		if step >= maxSteps {
			return nil, &NonConvergenceError{MaxSteps: maxSteps, Pending: newly}
		}
		for _, id := range newly {
			failed[id] = true
			failedStep[id] = step
		}
	}

	entities := make([]EntityState, 0, net.EntityCount())
	failedIDs := make([]string, 0, len(failed))
	for _, id := range net.order {
		e := net.entities[id]
		state := EntityState{ID: id, Name: e.Name, Alive: !failed[id], FailedStep: -1}
		if s, ok := failedStep[id]; ok {
			state.FailedStep = s
		}
		entities = append(entities, state)
		if failed[id] {
			failedIDs = append(failedIDs, id)
		}
	}

	return &CascadeResult{Entities: entities, Failed: failedIDs, Steps: steps}, nil
}

// unpaidLosses accumulates obligation amounts owed by currently failed
// debtors into a per-recipient total. It is recomputed fresh every round
// from the full failed set, never incrementally: an obligation stays
// unpaid for as long as its debtor stays failed, and the computation must
// be idempotent across rounds.
func unpaidLosses(net *Network, failed map[string]bool) map[string]float64 {
	losses := make(map[string]float64)
	for _, ob := range net.obligations {
		if failed[ob.From] {
			losses[ob.To] += ob.Amount
		}
	}
	return losses
}
