// internal/utils/pagination_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSortField(t *testing.T) {
	allowed := []string{"created_at", "remix_count", "author_address"}

	assert.Equal(t, "remix_count", NormalizeSortField("remix_count", allowed))
	assert.Equal(t, "created_at", NormalizeSortField("created_at", allowed))

	// Aliases resolve to real columns
	assert.Equal(t, "created_at", NormalizeSortField("date", allowed))
	assert.Equal(t, "remix_count", NormalizeSortField("popularity", allowed))
	assert.Equal(t, "author_address", NormalizeSortField("author", allowed))

	// Unknown fields fall back instead of reaching the query
	assert.Equal(t, "created_at", NormalizeSortField("password_hash", allowed))
	assert.Equal(t, "created_at", NormalizeSortField("", allowed))
}

func TestCreatePaginationResult(t *testing.T) {
	params := PaginationParams{Page: 2, Limit: 10}
	result := CreatePaginationResult([]string{"a", "b"}, 25, params)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 10, result.Limit)
	assert.Equal(t, int64(25), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}
