// Package contagion implements deterministic failure propagation over a
// network of financially coupled entities. The core is a fixed-point
// cascade engine plus a brute-force criticality analyzer that ranks
// entities by the damage their individual failure would cause.
package contagion

import "sort"

// Entity is a participant in the network: a pool of capital guarded by a
// minimum-solvency buffer. The buffer may exceed the capital; an entity
// created that way fails in the first propagation step of any cascade.
type Entity struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Capital float64 `json:"capital"`
	Buffer  float64 `json:"buffer"`
}

// Obligation is a directed debt: From owes Amount to To. Multiple
// obligations between the same ordered pair are kept separate, and each
// counts independently as unpaid loss once the debtor fails.
type Obligation struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Network is an immutable snapshot of entities and obligations. All
// structural invariants are checked once in NewNetwork, so the cascade
// engine never rediscovers them mid-run.
type Network struct {
	entities    map[string]Entity
	obligations []Obligation
	outgoing    map[string][]Obligation
	order       []string // entity ids in ascending order
}

// NewNetwork validates and builds a network. It returns a *StructuralError
// if any entity carries a negative capital or buffer, an id is empty or
// duplicated, or an obligation is negative, self-referencing, or points at
// an entity not in the set.
func NewNetwork(entities []Entity, obligations []Obligation) (*Network, error) {
	n := &Network{
		entities:    make(map[string]Entity, len(entities)),
		obligations: make([]Obligation, 0, len(obligations)),
		outgoing:    make(map[string][]Obligation, len(entities)),
		order:       make([]string, 0, len(entities)),
	}

	for _, e := range entities {
		if e.ID == "" {
			return nil, entityError(e.Name, ErrEmptyEntityID)
		}
		if _, exists := n.entities[e.ID]; exists {
			return nil, entityError(e.ID, ErrDuplicateEntity)
		}
		if e.Capital < 0 {
			return nil, entityError(e.ID, ErrNegativeCapital)
		}
		if e.Buffer < 0 {
			return nil, entityError(e.ID, ErrNegativeBuffer)
		}
		n.entities[e.ID] = e
		n.order = append(n.order, e.ID)
	}
	sort.Strings(n.order)

	for _, ob := range obligations {
		if ob.Amount < 0 {
			return nil, obligationError(ob, ErrNegativeAmount)
		}
		if ob.From == ob.To {
			return nil, obligationError(ob, ErrSelfObligation)
		}
		if _, ok := n.entities[ob.From]; !ok {
			return nil, obligationError(ob, ErrDanglingObligation)
		}
		if _, ok := n.entities[ob.To]; !ok {
			return nil, obligationError(ob, ErrDanglingObligation)
		}
		n.obligations = append(n.obligations, ob)
		n.outgoing[ob.From] = append(n.outgoing[ob.From], ob)
	}

	return n, nil
}

// Entity returns the entity with the given id.
func (n *Network) Entity(id string) (Entity, bool) {
	e, ok := n.entities[id]
	return e, ok
}

// EntityIDs returns all entity ids in ascending order. The returned slice
// is a copy; callers may reorder it freely.
func (n *Network) EntityIDs() []string {
	ids := make([]string, len(n.order))
	copy(ids, n.order)
	return ids
}

// EntityCount returns the number of entities in the network.
func (n *Network) EntityCount() int {
	return len(n.order)
}

// Obligations returns a copy of all obligations.
func (n *Network) Obligations() []Obligation {
	obs := make([]Obligation, len(n.obligations))
	copy(obs, n.obligations)
	return obs
}

// ObligationCount returns the number of obligations in the network.
func (n *Network) ObligationCount() int {
	return len(n.obligations)
}

// Outgoing returns the obligations owed by the given entity.
func (n *Network) Outgoing(id string) []Obligation {
	obs := n.outgoing[id]
	out := make([]Obligation, len(obs))
	copy(out, obs)
	return out
}
