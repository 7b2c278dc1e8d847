package rxnav

import (
	"context"
	"errors"
)

// ErrDrugNotFound is returned when a name cannot be resolved to an RxCUI.
var ErrDrugNotFound = errors.New("rxnav: drug not found")

// Term types used against the related-concepts endpoint.
const (
	TTYIngredient      = "IN"
	TTYBrandName       = "BN"
	TTYIngredientsFull = "IN+MIN+PIN"
)

// Concept is an RxNorm concept as returned by RxNav.
type Concept struct {
	RxCUI   string `json:"rxcui"`
	Name    string `json:"name"`
	Synonym string `json:"synonym,omitempty"`
	TTY     string `json:"tty"`
}

// DrugClass is a drug-class membership, here always ATC.
type DrugClass struct {
	ClassID   string `json:"classId"`
	ClassName string `json:"className"`
	ClassType string `json:"classType"`
	DrugName  string `json:"drugName,omitempty"`
	DrugRxCUI string `json:"drugRxcui,omitempty"`
}

// Resolver is the terminology capability the tool layer depends on. Every
// method takes a free-text drug name or an RxCUI and returns at most limit
// results.
type Resolver interface {
	SearchDrugs(ctx context.Context, name string, limit int) ([]Concept, error)
	GenericNames(ctx context.Context, name string, limit int) ([]Concept, error)
	BrandNames(ctx context.Context, name string, limit int) ([]Concept, error)
	ATCClasses(ctx context.Context, name string, limit int) ([]DrugClass, error)
	Ingredients(ctx context.Context, name string, limit int) ([]Concept, error)
}
