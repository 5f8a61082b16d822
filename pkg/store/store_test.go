package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figbridge/figbridge/pkg/scene"
)

func clockMemory() *Memory {
	m := NewMemory()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return m
}

func batchOf(ids ...string) *Batch {
	b := &Batch{Meta: BatchMeta{FileKey: "file-1", Name: "Page 1"}}
	for _, id := range ids {
		b.Roots = append(b.Roots, &scene.Node{ID: id, Name: "Frame", Kind: scene.KindContainer, Visible: true})
	}
	return b
}

func TestUpsertCreatesActiveSession(t *testing.T) {
	m := clockMemory()

	s := m.Upsert("s1")
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, StatusActive, s.Status)
	assert.Equal(t, s.CreatedAt, s.LastActivity)

	again := m.Upsert("s1")
	assert.Equal(t, s.CreatedAt, again.CreatedAt, "upsert of a known id must not reset creation time")
}

func TestGetReturnsSnapshot(t *testing.T) {
	m := clockMemory()
	m.AppendBatch("s1", batchOf("1:0"))

	snap, ok := m.Get("s1")
	require.True(t, ok)

	// mutating the snapshot's batch slice must not leak into the store
	snap.Batches = append(snap.Batches, batchOf("9:9"))
	fresh, ok := m.Get("s1")
	require.True(t, ok)
	assert.Len(t, fresh.Batches, 1)
}

func TestGetUnknown(t *testing.T) {
	m := clockMemory()
	_, ok := m.Get("nope")
	assert.False(t, ok)
}

func TestAppendBatchBumpsActivity(t *testing.T) {
	m := clockMemory()

	s := m.AppendBatch("s1", batchOf("1:0"))
	created := s.CreatedAt
	first := s.LastActivity

	s = m.AppendBatch("s1", batchOf("2:0", "2:1"))
	assert.Equal(t, created, s.CreatedAt)
	assert.True(t, s.LastActivity.After(first))
	assert.Len(t, s.Batches, 2)
	assert.Equal(t, 3, s.ComponentCount())
	assert.Equal(t, s.LastActivity, s.Batches[1].StoredAt)
}

func TestFindComponent(t *testing.T) {
	m := clockMemory()
	m.AppendBatch("s1", batchOf("1:0"))
	m.AppendBatch("s1", batchOf("2:0"))

	n, ok := m.FindComponent("s1", "2:0")
	require.True(t, ok)
	assert.Equal(t, "2:0", n.ID)

	_, ok = m.FindComponent("s1", "9:9")
	assert.False(t, ok)
	_, ok = m.FindComponent("nope", "1:0")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	m := clockMemory()
	m.AppendBatch("s1", batchOf("1:0"))

	assert.True(t, m.Delete("s1"))
	_, ok := m.Get("s1")
	assert.False(t, ok)
	assert.False(t, m.Delete("s1"))
}

func TestListReturnsSnapshots(t *testing.T) {
	m := clockMemory()
	m.AppendBatch("s1", batchOf("1:0"))

	listed := m.List()
	require.Len(t, listed, 1)
	before := listed[0].LastActivity

	// appending after the list must not show up in the listed copy
	m.AppendBatch("s1", batchOf("2:0"))
	assert.Len(t, listed[0].Batches, 1)
	assert.Equal(t, 1, listed[0].ComponentCount())
	assert.Equal(t, before, listed[0].LastActivity)

	// nor may mutating the listed copy leak into the store
	listed[0].Batches = append(listed[0].Batches, batchOf("9:9"))
	fresh, ok := m.Get("s1")
	require.True(t, ok)
	assert.Len(t, fresh.Batches, 2)
}

func TestListConcurrentWithAppend(t *testing.T) {
	m := NewMemory()
	m.AppendBatch("s1", batchOf("1:0"))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.AppendBatch("s1", batchOf("n"))
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for _, s := range m.List() {
					_ = s.ComponentCount()
					_ = s.LastActivity
				}
			}
		}()
	}
	wg.Wait()

	sess, ok := m.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 401, sess.ComponentCount())
}

func TestListNewestActivityFirst(t *testing.T) {
	m := clockMemory()
	m.AppendBatch("old", batchOf("1:0"))
	m.AppendBatch("mid", batchOf("2:0"))
	m.AppendBatch("new", batchOf("3:0"))
	m.AppendBatch("mid", batchOf("2:1")) // bump mid to the front

	sessions := m.List()
	require.Len(t, sessions, 3)
	assert.Equal(t, "mid", sessions[0].ID)
	assert.Equal(t, "new", sessions[1].ID)
	assert.Equal(t, "old", sessions[2].ID)
}
