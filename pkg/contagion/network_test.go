package contagion

import (
	"errors"
	"testing"
)

// buildTestNetwork constructs a network or fails the test.
func buildTestNetwork(t *testing.T, entities []Entity, obligations []Obligation) *Network {
	t.Helper()

	net, err := NewNetwork(entities, obligations)
	if err != nil {
		t.Fatalf("NewNetwork failed: %v", err)
	}
	return net
}

func TestNewNetwork_Valid(t *testing.T) {
	net := buildTestNetwork(t,
		[]Entity{
			{ID: "B", Name: "Bank B", Capital: 50, Buffer: 40},
			{ID: "A", Name: "Bank A", Capital: 100, Buffer: 20},
		},
		[]Obligation{
			{From: "A", To: "B", Amount: 70},
			{From: "A", To: "B", Amount: 5}, // parallel obligations are kept separate
		},
	)

	if net.EntityCount() != 2 {
		t.Errorf("Expected 2 entities, got %d", net.EntityCount())
	}
	if net.ObligationCount() != 2 {
		t.Errorf("Expected 2 obligations, got %d", net.ObligationCount())
	}

	ids := net.EntityIDs()
	if ids[0] != "A" || ids[1] != "B" {
		t.Errorf("Expected ids in ascending order, got %v", ids)
	}

	if out := net.Outgoing("A"); len(out) != 2 {
		t.Errorf("Expected 2 outgoing obligations for A, got %d", len(out))
	}
	if out := net.Outgoing("B"); len(out) != 0 {
		t.Errorf("Expected 0 outgoing obligations for B, got %d", len(out))
	}
}

func TestNewNetwork_BufferMayExceedCapital(t *testing.T) {
	// An entity may start below its own threshold; only negative numerics
	// are structural errors.
	_, err := NewNetwork([]Entity{{ID: "A", Capital: 10, Buffer: 50}}, nil)
	if err != nil {
		t.Fatalf("Buffer above capital should be valid, got: %v", err)
	}
}

func TestNewNetwork_StructuralErrors(t *testing.T) {
	valid := []Entity{{ID: "A", Capital: 10, Buffer: 5}, {ID: "B", Capital: 10, Buffer: 5}}

	tests := []struct {
		name        string
		entities    []Entity
		obligations []Obligation
		want        error
	}{
		{
			name:     "empty entity id",
			entities: []Entity{{ID: "", Capital: 1, Buffer: 1}},
			want:     ErrEmptyEntityID,
		},
		{
			name:     "duplicate entity id",
			entities: []Entity{{ID: "A", Capital: 1, Buffer: 1}, {ID: "A", Capital: 2, Buffer: 2}},
			want:     ErrDuplicateEntity,
		},
		{
			name:     "negative capital",
			entities: []Entity{{ID: "A", Capital: -1, Buffer: 0}},
			want:     ErrNegativeCapital,
		},
		{
			name:     "negative buffer",
			entities: []Entity{{ID: "A", Capital: 1, Buffer: -1}},
			want:     ErrNegativeBuffer,
		},
		{
			name:        "negative amount",
			entities:    valid,
			obligations: []Obligation{{From: "A", To: "B", Amount: -10}},
			want:        ErrNegativeAmount,
		},
		{
			name:        "self obligation",
			entities:    valid,
			obligations: []Obligation{{From: "A", To: "A", Amount: 10}},
			want:        ErrSelfObligation,
		},
		{
			name:        "dangling from",
			entities:    valid,
			obligations: []Obligation{{From: "X", To: "B", Amount: 10}},
			want:        ErrDanglingObligation,
		},
		{
			name:        "dangling to",
			entities:    valid,
			obligations: []Obligation{{From: "A", To: "X", Amount: 10}},
			want:        ErrDanglingObligation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNetwork(tt.entities, tt.obligations)
			if err == nil {
				t.Fatal("Expected a structural error, got nil")
			}
			if !IsStructural(err) {
				t.Errorf("Expected StructuralError, got %T: %v", err, err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected cause %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNetwork_CopiesAreIndependent(t *testing.T) {
	net := buildTestNetwork(t,
		[]Entity{{ID: "A", Capital: 10, Buffer: 5}, {ID: "B", Capital: 10, Buffer: 5}},
		[]Obligation{{From: "A", To: "B", Amount: 3}},
	)

	ids := net.EntityIDs()
	ids[0] = "mutated"
	if net.EntityIDs()[0] != "A" {
		t.Error("EntityIDs must return a copy")
	}

	obs := net.Obligations()
	obs[0].Amount = 999
	if net.Obligations()[0].Amount != 3 {
		t.Error("Obligations must return a copy")
	}

	out := net.Outgoing("A")
	out[0].Amount = 999
	if net.Outgoing("A")[0].Amount != 3 {
		t.Error("Outgoing must return a copy")
	}
}
