// internal/services/lineage_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
)

func lineageItem(title string) *models.ContentItem {
	item := &models.ContentItem{Title: title}
	item.ID = uuid.New()
	return item
}

func TestWalkDescendantsLinearChain(t *testing.T) {
	a := lineageItem("a")
	b := lineageItem("b")
	c := lineageItem("c")

	children := map[uuid.UUID][]*models.ContentItem{
		a.ID: {b},
		b.ID: {c},
	}

	chain, err := WalkDescendants(a, children)
	require.NoError(t, err)
	require.Len(t, chain, 3)

	assert.Equal(t, "a", chain[0].Content.Title)
	assert.Equal(t, 0, chain[0].Generation)
	assert.Equal(t, "b", chain[1].Content.Title)
	assert.Equal(t, 1, chain[1].Generation)
	assert.Equal(t, "c", chain[2].Content.Title)
	assert.Equal(t, 2, chain[2].Generation)
}

func TestWalkDescendantsBranchingVisitsEachOnce(t *testing.T) {
	root := lineageItem("root")
	left := lineageItem("left")
	right := lineageItem("right")
	grandchild := lineageItem("grandchild")

	children := map[uuid.UUID][]*models.ContentItem{
		root.ID: {left, right},
		left.ID: {grandchild},
	}

	chain, err := WalkDescendants(root, children)
	require.NoError(t, err)
	require.Len(t, chain, 4)

	seen := make(map[uuid.UUID]int)
	for _, node := range chain {
		seen[node.Content.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "item %s appeared %d times", id, count)
	}

	// Depth-first: left's subtree before right
	assert.Equal(t, "left", chain[1].Content.Title)
	assert.Equal(t, "grandchild", chain[2].Content.Title)
	assert.Equal(t, "right", chain[3].Content.Title)
	assert.Equal(t, 1, chain[3].Generation)
}

func TestWalkDescendantsCycleReturnsPartialChain(t *testing.T) {
	a := lineageItem("a")
	b := lineageItem("b")

	// b points back at a
	children := map[uuid.UUID][]*models.ContentItem{
		a.ID: {b},
		b.ID: {a},
	}

	chain, err := WalkDescendants(a, children)
	assert.ErrorIs(t, err, ErrLineageCycle)
	require.Len(t, chain, 2, "partial chain up to the loop should survive")
	assert.Equal(t, "a", chain[0].Content.Title)
	assert.Equal(t, "b", chain[1].Content.Title)
}

func TestWalkDescendantsNoChildren(t *testing.T) {
	root := lineageItem("lonely")

	chain, err := WalkDescendants(root, map[uuid.UUID][]*models.ContentItem{})
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, 0, chain[0].Generation)
}
