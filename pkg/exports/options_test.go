package exports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// ParseOptionList Tests
// ============================================================================

func TestParseOptionList(t *testing.T) {
	t.Run("ParsesFlagsAndValues", func(t *testing.T) {
		opts := ParseOptionList("rw,sync,sec=krb5p:sys,anonuid=65534")

		assert.Equal(t, OptionSet{
			"rw":      "rw",
			"sync":    "sync",
			"sec":     "krb5p:sys",
			"anonuid": "65534",
		}, opts)
	})

	t.Run("EmptyInputYieldsEmptySet", func(t *testing.T) {
		assert.Empty(t, ParseOptionList(""))
	})

	t.Run("SkipsEmptyTokens", func(t *testing.T) {
		opts := ParseOptionList("ro,,sync")
		assert.Equal(t, OptionSet{"ro": "ro", "sync": "sync"}, opts)
	})

	t.Run("SplitsOnFirstEquals", func(t *testing.T) {
		opts := ParseOptionList("refer=/path@host=weird")
		assert.Equal(t, OptionSet{"refer": "/path@host=weird"}, opts)
	})
}

// ============================================================================
// Format Tests
// ============================================================================

func TestOptionSetFormat(t *testing.T) {
	t.Run("SortsKeysAndRendersFlagsBare", func(t *testing.T) {
		out, ok := OptionSet{
			"sync":    "sync",
			"anonuid": "65534",
			"ro":      "ro",
		}.Format()

		require.True(t, ok)
		assert.Equal(t, "anonuid=65534,ro,sync", out)
	})

	t.Run("EmptySetReportsAbsence", func(t *testing.T) {
		out, ok := OptionSet{}.Format()
		assert.False(t, ok)
		assert.Equal(t, "", out)
	})

	t.Run("RoundTripIsSetEqual", func(t *testing.T) {
		sets := []OptionSet{
			{"ro": "ro"},
			{"rw": "rw", "no_root_squash": "no_root_squash"},
			{"sec": "krb5i:sys", "all_squash": "all_squash", "anongid": "100"},
			{"sync": "sync", "wdelay": "wdelay", "subtree_check": "subtree_check"},
		}

		for _, set := range sets {
			out, ok := set.Format()
			require.True(t, ok)
			assert.Equal(t, set, ParseOptionList(out))
		}
	})
}

// ============================================================================
// ComposeOptions Tests
// ============================================================================

func TestComposeOptions(t *testing.T) {
	t.Run("DefaultsToReadOnlyWithSquash", func(t *testing.T) {
		out := ComposeOptions(ComposeParams{ReadOnly: true, RootSquash: true})
		assert.Equal(t, "ro", out)
	})

	t.Run("ReadWriteWithoutRootSquash", func(t *testing.T) {
		out := ComposeOptions(ComposeParams{ReadOnly: false, RootSquash: false})
		assert.Equal(t, "no_root_squash,rw", out)
	})

	t.Run("AllSquashAndSecurity", func(t *testing.T) {
		out := ComposeOptions(ComposeParams{
			ReadOnly:   true,
			RootSquash: true,
			AllSquash:  true,
			Security:   "krb5p:krb5i",
		})
		assert.Equal(t, "all_squash,ro,sec=krb5p:krb5i", out)
	})

	t.Run("ExtrasAppendVerbatimByDefault", func(t *testing.T) {
		out := ComposeOptions(ComposeParams{
			ReadOnly:   true,
			RootSquash: true,
			Extra:      "wdelay,ro",
		})

		// Verbatim append can duplicate composed keys; that is the
		// documented non-merging behavior.
		assert.Equal(t, "ro,wdelay,ro", out)
	})

	t.Run("ExtrasMergeWhenRequested", func(t *testing.T) {
		out := ComposeOptions(ComposeParams{
			ReadOnly:    true,
			RootSquash:  true,
			Extra:       "wdelay,sec=sys",
			Security:    "krb5p",
			MergeExtras: true,
		})

		// Extra keys override the composed ones and the output stays
		// sorted and duplicate-free.
		assert.Equal(t, "ro,sec=sys,wdelay", out)
	})

	t.Run("ExtrasOnlyWithEmptyComposedSet", func(t *testing.T) {
		// The composed set always carries at least ro/rw, so the extras
		// separator must still be placed correctly.
		out := ComposeOptions(ComposeParams{ReadOnly: false, RootSquash: true, Extra: "async"})
		assert.Equal(t, "rw,async", out)
	})
}
