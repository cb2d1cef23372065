package domain

import "fmt"

const (
	DefaultListLimit   = 6
	DefaultFilterLimit = 100

	SortAscending  = "asc"
	SortDescending = "desc"
)

// ProductFilter is the loosely-typed criteria set a client may submit.
// Every field is optional; an absent field imposes no constraint.
type ProductFilter struct {
	CategoryIDs []int
	PriceMin    *float64
	PriceMax    *float64
	Name        string
	SortBy      string
	Order       string
	Limit       int
	Skip        int
}

// QueryPlan is the compiled combination of predicate, ordering and window
// that the catalog store executes. Nil/empty criteria mean "no constraint".
type QueryPlan struct {
	CategoryIDs []int
	PriceMin    *float64
	PriceMax    *float64
	Name        string
	SortBy      string
	Descending  bool
	Limit       int
	Skip        int
}

// Compile turns the filter into a query plan. It is a pure function: no
// store access, fully testable on its own. defaultLimit applies when the
// client did not ask for a window size (6 for listing, 100 for search).
func (f ProductFilter) Compile(defaultLimit int) (*QueryPlan, error) {
	plan := &QueryPlan{
		SortBy: "id",
		Limit:  defaultLimit,
	}

	if len(f.CategoryIDs) > 0 {
		for _, id := range f.CategoryIDs {
			if id <= 0 {
				return nil, fmt.Errorf("%w: category id must be positive, got %d", ErrInvalidQuery, id)
			}
		}
		plan.CategoryIDs = f.CategoryIDs
	}

	// A price criterion is always a closed range: both bounds applied.
	if f.PriceMin != nil {
		if *f.PriceMin < 0 {
			return nil, fmt.Errorf("%w: minimum price cannot be negative", ErrInvalidQuery)
		}
		plan.PriceMin = f.PriceMin
	}
	if f.PriceMax != nil {
		if *f.PriceMax < 0 {
			return nil, fmt.Errorf("%w: maximum price cannot be negative", ErrInvalidQuery)
		}
		plan.PriceMax = f.PriceMax
	}
	if plan.PriceMin != nil && plan.PriceMax != nil && *plan.PriceMin > *plan.PriceMax {
		return nil, fmt.Errorf("%w: minimum price %.2f exceeds maximum price %.2f", ErrInvalidQuery, *plan.PriceMin, *plan.PriceMax)
	}

	plan.Name = f.Name

	if f.SortBy != "" {
		// Passed through uninterpreted; the store rejects keys it cannot
		// order by.
		plan.SortBy = f.SortBy
	}

	switch f.Order {
	case "", SortAscending:
		plan.Descending = false
	case SortDescending:
		plan.Descending = true
	default:
		return nil, fmt.Errorf("%w: sort order must be '%s' or '%s', got '%s'", ErrInvalidQuery, SortAscending, SortDescending, f.Order)
	}

	if f.Limit < 0 {
		return nil, fmt.Errorf("%w: limit cannot be negative", ErrInvalidQuery)
	}
	if f.Limit > 0 {
		plan.Limit = f.Limit
	}

	if f.Skip < 0 {
		return nil, fmt.Errorf("%w: skip cannot be negative", ErrInvalidQuery)
	}
	plan.Skip = f.Skip

	return plan, nil
}
