package repository

import (
	"testing"

	"shop_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestBuildListQueryMatchAll(t *testing.T) {
	plan := &domain.QueryPlan{SortBy: "id", Limit: 6}

	query, args, err := buildListQuery(plan)
	require.NoError(t, err)

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY p.id ASC")
	assert.Contains(t, query, "LIMIT $1")
	assert.Contains(t, query, "OFFSET $2")
	require.Len(t, args, 2)
	assert.Equal(t, 6, args[0])
	assert.Equal(t, 0, args[1])
}

func TestBuildListQueryAllCriteria(t *testing.T) {
	plan := &domain.QueryPlan{
		CategoryIDs: []int{1, 2},
		PriceMin:    floatPtr(20),
		PriceMax:    floatPtr(60),
		Name:        "shirt",
		SortBy:      "price",
		Descending:  true,
		Limit:       10,
		Skip:        5,
	}

	query, args, err := buildListQuery(plan)
	require.NoError(t, err)

	assert.Contains(t, query, "p.category_id = ANY($1)")
	assert.Contains(t, query, "p.price >= $2")
	assert.Contains(t, query, "p.price <= $3")
	assert.Contains(t, query, "p.name ILIKE '%' || $4 || '%'")
	assert.Contains(t, query, "ORDER BY p.price DESC")
	assert.Contains(t, query, "LIMIT $5")
	assert.Contains(t, query, "OFFSET $6")
	assert.Len(t, args, 6)
}

func TestBuildListQueryNeverSelectsPhoto(t *testing.T) {
	plan := &domain.QueryPlan{SortBy: "id", Limit: 6}

	query, _, err := buildListQuery(plan)
	require.NoError(t, err)
	assert.NotContains(t, query, "p.photo,")
	assert.Contains(t, query, "p.photo_content_type")
}

func TestBuildListQueryRejectsUnknownSortKey(t *testing.T) {
	plan := &domain.QueryPlan{SortBy: "popularity", Limit: 6}

	_, _, err := buildListQuery(plan)
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestBuildListQuerySortWhitelist(t *testing.T) {
	for sortBy := range sortableColumns {
		plan := &domain.QueryPlan{SortBy: sortBy, Limit: 6}
		_, _, err := buildListQuery(plan)
		assert.NoError(t, err, "expected '%s' to be sortable", sortBy)
	}
}
