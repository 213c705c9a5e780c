package exports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{Path: "/export", Client: "host1.example.com", Options: "ro"},
		{Path: "/export", Client: "host2", Options: "rw"},
		{Path: "/srv/data", Client: "host1.example.com", Options: "rw"},
	}
}

// ============================================================================
// MatchEntry Tests
// ============================================================================

func TestMatchEntry(t *testing.T) {
	t.Run("MatchesExactPathAndClient", func(t *testing.T) {
		assert.True(t, MatchEntry(sampleEntries(), "/export", "host2"))
	})

	t.Run("ClientComparesCaseInsensitively", func(t *testing.T) {
		assert.True(t, MatchEntry(sampleEntries(), "/export", "HOST1.Example.COM"))
	})

	t.Run("PathComparesExactly", func(t *testing.T) {
		assert.False(t, MatchEntry(sampleEntries(), "/EXPORT", "host2"))
	})

	t.Run("OptionsDoNotParticipate", func(t *testing.T) {
		// Same identity, different options: still a match.
		entries := []Entry{{Path: "/export", Client: "host1", Options: "rw,sync"}}
		assert.True(t, MatchEntry(entries, "/export", "host1"))
	})

	t.Run("EmptyListNeverMatches", func(t *testing.T) {
		assert.False(t, MatchEntry(nil, "/export", "host1"))
	})
}

// ============================================================================
// FilterEntries Tests
// ============================================================================

func TestFilterEntries(t *testing.T) {
	t.Run("RemovesOnlyTheMatchingEntry", func(t *testing.T) {
		remaining, err := FilterEntries(sampleEntries(), "/export", "host1.example.com")
		require.NoError(t, err)

		require.Len(t, remaining, 2)
		assert.Equal(t, "host2", remaining[0].Client)
		assert.Equal(t, "/srv/data", remaining[1].Path)
	})

	t.Run("RemovesCaseInsensitiveDuplicates", func(t *testing.T) {
		entries := []Entry{
			{Path: "/export", Client: "Host1", Options: "ro"},
			{Path: "/export", Client: "host1", Options: "rw"},
		}

		remaining, err := FilterEntries(entries, "/export", "HOST1")
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})

	t.Run("NoMatchReturnsNotFound", func(t *testing.T) {
		_, err := FilterEntries(sampleEntries(), "/export", "unknown")
		assert.ErrorIs(t, err, ErrExportNotFound)
	})

	t.Run("EmptyListReturnsNotFound", func(t *testing.T) {
		_, err := FilterEntries(nil, "/export", "host1")
		assert.ErrorIs(t, err, ErrExportNotFound)
	})
}
