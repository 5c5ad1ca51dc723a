package graph

import (
	"context"

	"github.com/ppiankov/mutatrack/internal/model"
)

// Null is the graph-disabled store. Every write is accepted and dropped,
// every traversal comes back empty, so the rest of the pipeline degrades
// to family-less results instead of failing.
type Null struct{}

// NewNull creates a disabled graph store
func NewNull() *Null {
	return &Null{}
}

func (Null) AddClaim(context.Context, model.Claim) error {
	return nil
}

func (Null) AddMutationEdge(context.Context, string, string, float64) error {
	return nil
}

func (Null) FindFamily(context.Context, string, int, int) ([]model.FamilyMember, error) {
	return []model.FamilyMember{}, nil
}

func (Null) FindPatientZero(context.Context, string, int) (*model.Claim, error) {
	return nil, nil
}

func (Null) Close() error {
	return nil
}
