package alias

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clockIndex returns an index whose clock advances one second per Put, so
// recency ranking is deterministic.
func clockIndex() *Index {
	ix := New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	ix.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return ix
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "primary button", Normalize("  Primary Button "))
	assert.Equal(t, "", Normalize("   "))
}

func TestPutReplacesPerComponent(t *testing.T) {
	ix := clockIndex()
	ix.Put("s1", "1:0", "Button")
	ix.Put("s1", "1:0", "PrimaryButton")
	require.Equal(t, 1, ix.Len())

	exact, _ := ix.Search("Button", 0)
	assert.Empty(t, exact, "old alias must be gone after replacement")

	exact, _ = ix.Search("PrimaryButton", 0)
	require.Len(t, exact, 1)
	assert.Equal(t, Ref{SessionID: "s1", ComponentID: "1:0"}, exact[0].Ref)

	// renaming back round-trips cleanly
	ix.Put("s1", "1:0", "Button")
	exact, _ = ix.Search("primarybutton", 0)
	assert.Empty(t, exact)
	exact, _ = ix.Search("button", 0)
	require.Len(t, exact, 1)
	assert.Equal(t, "Button", exact[0].Alias)
}

func TestPutIgnoresBlankAlias(t *testing.T) {
	ix := New()
	ix.Put("s1", "1:0", "   ")
	assert.Equal(t, 0, ix.Len())
}

func TestSearchTiers(t *testing.T) {
	ix := clockIndex()
	ix.Put("s1", "1:0", "Button")
	ix.Put("s1", "1:1", "SubmitButton")
	ix.Put("s1", "1:2", "Card")

	exact, partial := ix.Search("button", 0)
	require.Len(t, exact, 1)
	assert.Equal(t, "Button", exact[0].Alias)
	require.Len(t, partial, 1)
	assert.Equal(t, "SubmitButton", partial[0].Alias, "exact hits are excluded from the partial tier")
}

func TestSearchCaseInsensitive(t *testing.T) {
	ix := clockIndex()
	ix.Put("s1", "1:0", "NavBar")

	exact, _ := ix.Search("  NAVBAR ", 0)
	require.Len(t, exact, 1)
	assert.Equal(t, "NavBar", exact[0].Alias, "display casing is preserved in results")
}

func TestSearchRanksByRecency(t *testing.T) {
	ix := clockIndex()
	ix.Put("s1", "1:0", "ButtonRow")
	ix.Put("s1", "1:1", "IconButton")
	ix.Put("s1", "1:2", "ButtonGroup")

	_, partial := ix.Search("button", 0)
	require.Len(t, partial, 3)
	assert.Equal(t, "ButtonGroup", partial[0].Alias)
	assert.Equal(t, "IconButton", partial[1].Alias)
	assert.Equal(t, "ButtonRow", partial[2].Alias)
}

func TestSearchTieBreaksByAliasThenComponent(t *testing.T) {
	ix := New()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ix.now = func() time.Time { return fixed }

	ix.Put("s1", "1:9", "button b")
	ix.Put("s1", "1:5", "button a")
	ix.Put("s1", "1:1", "button b")

	_, partial := ix.Search("button", 0)
	require.Len(t, partial, 3)
	assert.Equal(t, "button a", partial[0].Alias)
	assert.Equal(t, "1:1", partial[1].Ref.ComponentID)
	assert.Equal(t, "1:9", partial[2].Ref.ComponentID)
}

func TestSearchLimitPerTier(t *testing.T) {
	ix := clockIndex()
	ix.Put("s1", "1:0", "button")
	ix.Put("s2", "2:0", "button")
	ix.Put("s1", "1:1", "big button")
	ix.Put("s1", "1:2", "button bar")

	exact, partial := ix.Search("button", 1)
	assert.Len(t, exact, 1)
	assert.Len(t, partial, 1)

	exact, partial = ix.Search("button", 0)
	assert.Len(t, exact, 2)
	assert.Len(t, partial, 2)
}

func TestSearchBlankQuery(t *testing.T) {
	ix := clockIndex()
	ix.Put("s1", "1:0", "Button")

	exact, partial := ix.Search("  ", 0)
	assert.Nil(t, exact)
	assert.Nil(t, partial)
}

func TestRemove(t *testing.T) {
	ix := clockIndex()
	ix.Put("s1", "1:0", "Button")
	ix.Remove("s1", "1:0")
	assert.Equal(t, 0, ix.Len())

	// removing an absent ref is a no-op
	ix.Remove("s1", "1:0")
}

func TestRemoveSession(t *testing.T) {
	ix := clockIndex()
	ix.Put("s1", "1:0", "Button")
	ix.Put("s1", "1:1", "Card")
	ix.Put("s2", "2:0", "Button")

	ix.RemoveSession("s1")
	require.Equal(t, 1, ix.Len())

	exact, _ := ix.Search("button", 0)
	require.Len(t, exact, 1)
	assert.Equal(t, "s2", exact[0].Ref.SessionID)
}
