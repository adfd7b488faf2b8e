// pkg/ingest/dates_test.go
package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateFilter(t *testing.T) {
	t.Run("empty from accepts everything", func(t *testing.T) {
		filter, err := NewDateFilter("", "")
		require.NoError(t, err)
		assert.Nil(t, filter)
		assert.True(t, filter.Accepts("15/03/2025"))
	})

	t.Run("empty to collapses to a single day", func(t *testing.T) {
		filter, err := NewDateFilter("15/03/2025", "")
		require.NoError(t, err)
		assert.True(t, filter.Accepts("15/03/2025"))
		assert.False(t, filter.Accepts("16/03/2025"))
	})

	t.Run("range is inclusive on both ends", func(t *testing.T) {
		filter, err := NewDateFilter("30/03/2025", "02/04/2025")
		require.NoError(t, err)

		assert.Len(t, filter, 4)
		assert.True(t, filter.Accepts("30/03/2025"))
		assert.True(t, filter.Accepts("31/03/2025"))
		assert.True(t, filter.Accepts("01/04/2025"))
		assert.True(t, filter.Accepts("02/04/2025"))
		assert.False(t, filter.Accepts("29/03/2025"))
		assert.False(t, filter.Accepts("03/04/2025"))
	})

	t.Run("rejects inverted ranges", func(t *testing.T) {
		_, err := NewDateFilter("02/04/2025", "30/03/2025")
		assert.Error(t, err)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		_, err := NewDateFilter("2025-03-15", "")
		assert.Error(t, err)
	})
}
