// internal/services/content_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
)

func TestCreatedWithinCutoff(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cutoff, ok := createdWithinCutoff("day", now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -1), cutoff)

	cutoff, ok = createdWithinCutoff("week", now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -7), cutoff)

	cutoff, ok = createdWithinCutoff("month", now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, -1, 0), cutoff)

	_, ok = createdWithinCutoff("year", now)
	assert.False(t, ok)

	_, ok = createdWithinCutoff("", now)
	assert.False(t, ok)
}

func TestMergeMetadata(t *testing.T) {
	base := models.JSONB{"color": "red", "size": 3}
	merged := mergeMetadata(base, map[string]interface{}{"size": 5, "mint_tx": "0xabc"})

	assert.Equal(t, "red", merged["color"])
	assert.Equal(t, 5, merged["size"], "extra values override the base")
	assert.Equal(t, "0xabc", merged["mint_tx"])

	// The input map stays untouched
	assert.Equal(t, 3, base["size"])
}

func TestMergeMetadataNilBase(t *testing.T) {
	merged := mergeMetadata(nil, map[string]interface{}{"token_id": "7"})
	assert.Equal(t, "7", merged["token_id"])
}
