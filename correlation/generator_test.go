package correlation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomID_CanonicalForm(t *testing.T) {
	id := RandomID()
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRandomID_Unique(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		id := RandomID()
		require.False(t, seen[id], "duplicate identifier %q", id)
		seen[id] = true
	}
}

func TestResolveID(t *testing.T) {
	t.Run("adopts non-empty supplied value verbatim", func(t *testing.T) {
		assert.Equal(t, "abc-123", ResolveID("abc-123"))
	})

	t.Run("generates for empty supplied value", func(t *testing.T) {
		first := ResolveID("")
		second := ResolveID("")
		require.NotEmpty(t, first)
		require.NotEmpty(t, second)
		assert.NotEqual(t, first, second)
	})
}
