package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorozov/showcase-backend/internal/models"
)

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"saas", "ai", "fintech"}, SplitTags("saas, ai ,fintech"))
	assert.Equal(t, []string{"solo"}, SplitTags("solo"))
	assert.Empty(t, SplitTags("  "))
	assert.Empty(t, SplitTags(",,,"))
}

func TestParseMetrics(t *testing.T) {
	metrics, err := ParseMetrics(`{"roi":"40%","users":"10k"}`)
	require.NoError(t, err)
	assert.Equal(t, models.Metrics{"roi": "40%", "users": "10k"}, metrics)

	metrics, err = ParseMetrics("")
	require.NoError(t, err)
	assert.Empty(t, metrics)

	_, err = ParseMetrics("{broken")
	assert.Error(t, err)
}
