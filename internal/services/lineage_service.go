// internal/services/lineage_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
)

// ErrLineageCycle flags a parent-pointer loop in the content forest.
// The traversal still returns the partial chain collected before the
// loop closed, so callers can render what exists and surface the
// corruption.
var ErrLineageCycle = errors.New("cycle detected in remix lineage")

type LineageService struct {
	db *gorm.DB
}

// LineageNode is one entry of a flattened descendant chain.
type LineageNode struct {
	Content    *models.ContentItem `json:"content"`
	Generation int                 `json:"generation"`
}

type LineageStats struct {
	ChainSize     int         `json:"chain_size"`
	Depth         int         `json:"depth"`
	DirectRemixes int         `json:"direct_remixes"`
	PerGeneration map[int]int `json:"per_generation"`
}

func NewLineageService(db *gorm.DB) *LineageService {
	return &LineageService{db: db}
}

// DirectRemixes lists the immediate children of a content item in
// creation order.
func (s *LineageService) DirectRemixes(contentID uuid.UUID) ([]models.ContentItem, error) {
	var remixes []models.ContentItem
	if err := s.db.Where("parent_id = ? AND status = ?", contentID, models.ContentStatusActive).
		Order("created_at ASC").
		Find(&remixes).Error; err != nil {
		return nil, fmt.Errorf("failed to load remixes: %w", err)
	}
	return remixes, nil
}

// DescendantChain returns the whole remix tree under root as a flat
// chain, root first, depth-first. A cycle yields the partial chain and
// ErrLineageCycle.
func (s *LineageService) DescendantChain(rootID uuid.UUID) ([]LineageNode, error) {
	var root models.ContentItem
	if err := s.db.First(&root, rootID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("content not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	children, err := s.loadChildrenIndex(rootID)
	if err != nil {
		return nil, err
	}

	return WalkDescendants(&root, children)
}

func (s *LineageService) LineageStats(rootID uuid.UUID) (*LineageStats, error) {
	chain, err := s.DescendantChain(rootID)
	if err != nil && !errors.Is(err, ErrLineageCycle) {
		return nil, err
	}

	stats := &LineageStats{
		ChainSize:     len(chain),
		PerGeneration: make(map[int]int),
	}
	for _, node := range chain {
		stats.PerGeneration[node.Generation]++
		if node.Generation > stats.Depth {
			stats.Depth = node.Generation
		}
	}
	stats.DirectRemixes = stats.PerGeneration[1]

	// A cycle taints the numbers; propagate it alongside the partials.
	return stats, err
}

// loadChildrenIndex pulls the subtree level by level. One query per
// generation keeps memory bounded by the actual tree instead of the
// whole table.
func (s *LineageService) loadChildrenIndex(rootID uuid.UUID) (map[uuid.UUID][]*models.ContentItem, error) {
	children := make(map[uuid.UUID][]*models.ContentItem)
	seen := map[uuid.UUID]bool{rootID: true}
	frontier := []uuid.UUID{rootID}

	for len(frontier) > 0 {
		var level []models.ContentItem
		if err := s.db.Where("parent_id IN ?", frontier).
			Order("created_at ASC").
			Find(&level).Error; err != nil {
			return nil, fmt.Errorf("failed to load lineage level: %w", err)
		}

		frontier = frontier[:0]
		for i := range level {
			item := &level[i]
			parentID := *item.ParentID
			children[parentID] = append(children[parentID], item)
			if !seen[item.ID] {
				seen[item.ID] = true
				frontier = append(frontier, item.ID)
			}
		}
	}

	return children, nil
}

// WalkDescendants flattens a children index into a depth-first chain
// with generation numbers. Exported for reuse by callers that already
// hold the index in memory.
func WalkDescendants(root *models.ContentItem, children map[uuid.UUID][]*models.ContentItem) ([]LineageNode, error) {
	chain := []LineageNode{{Content: root, Generation: 0}}
	visited := map[uuid.UUID]bool{root.ID: true}

	var cycle bool
	var walk func(id uuid.UUID, generation int)
	walk = func(id uuid.UUID, generation int) {
		for _, child := range children[id] {
			if visited[child.ID] {
				cycle = true
				continue
			}
			visited[child.ID] = true
			chain = append(chain, LineageNode{Content: child, Generation: generation})
			walk(child.ID, generation+1)
		}
	}
	walk(root.ID, 1)

	if cycle {
		return chain, ErrLineageCycle
	}
	return chain, nil
}
