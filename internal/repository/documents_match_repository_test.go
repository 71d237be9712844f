package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pitch-prophet/internal/models"
)

func matchOn(day int) *models.Match {
	return &models.Match{
		ID:   uuid.New(),
		Date: time.Date(2026, 3, day, 15, 0, 0, 0, time.UTC),
	}
}

func TestMergeMatchesOrdersNewestFirst(t *testing.T) {
	older := matchOn(1)
	middle := matchOn(10)
	newest := matchOn(20)

	merged := mergeMatches(0, []*models.Match{older, newest}, []*models.Match{middle})

	assert.Len(t, merged, 3)
	assert.Equal(t, newest.ID, merged[0].ID)
	assert.Equal(t, middle.ID, merged[1].ID)
	assert.Equal(t, older.ID, merged[2].ID)
}

func TestMergeMatchesDeduplicatesAcrossSets(t *testing.T) {
	shared := matchOn(5)

	merged := mergeMatches(0, []*models.Match{shared, matchOn(6)}, []*models.Match{shared})

	assert.Len(t, merged, 2)
}

func TestMergeMatchesAppliesLimit(t *testing.T) {
	merged := mergeMatches(2, []*models.Match{matchOn(1), matchOn(2), matchOn(3)})

	assert.Len(t, merged, 2)
	// kept matches are the most recent two
	assert.True(t, merged[0].Date.After(merged[1].Date))
	assert.Equal(t, 3, merged[0].Date.Day())
}
