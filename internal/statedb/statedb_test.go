package statedb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwatters/hilex/internal/document"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	mtime := time.Unix(1700000000, 12345)

	snap := Snapshot{
		Path:       "/src/main.cs",
		MTime:      mtime,
		Dialect:    1,
		Styles:     []byte{23, 23, 0, 8, 8, 8},
		LineStates: []int{0, 0x30, -1, 1 << 20},
		Levels:     []int{0x400, 0x2401, 0x401, 0x400},
	}
	require.NoError(t, store.Save(snap))

	got, err := store.Load("/src/main.cs", mtime)
	require.NoError(t, err)
	assert.Equal(t, snap.Styles, got.Styles)
	assert.Equal(t, snap.LineStates, got.LineStates)
	assert.Equal(t, snap.Levels, got.Levels)
	assert.Equal(t, 1, got.Dialect)
}

func TestStore_StaleMTimeMisses(t *testing.T) {
	store := openTestStore(t)
	mtime := time.Unix(1700000000, 0)
	require.NoError(t, store.Save(Snapshot{
		Path: "/a", MTime: mtime, LineStates: []int{1}, Levels: []int{0x400},
	}))

	_, err := store.Load("/a", mtime.Add(time.Second))
	var notFound *SnapshotNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestStore_MissingPath(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Load("/nope", time.Now())
	var notFound *SnapshotNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestStore_SaveReplaces(t *testing.T) {
	store := openTestStore(t)
	m1 := time.Unix(100, 0)
	m2 := time.Unix(200, 0)
	require.NoError(t, store.Save(Snapshot{Path: "/a", MTime: m1, LineStates: []int{1}, Levels: []int{2}}))
	require.NoError(t, store.Save(Snapshot{Path: "/a", MTime: m2, LineStates: []int{3}, Levels: []int{4}}))

	got, err := store.Load("/a", m2)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got.LineStates)

	_, err = store.Load("/a", m1)
	assert.Error(t, err, "old mtime no longer matches")
}

func TestStore_MismatchedLengthsRejected(t *testing.T) {
	store := openTestStore(t)
	err := store.Save(Snapshot{Path: "/a", MTime: time.Unix(1, 0), LineStates: []int{1, 2}, Levels: []int{1}})
	assert.Error(t, err)
}

func TestSnapshot_DocumentRoundTrip(t *testing.T) {
	doc := document.New([]byte("a\nb\nc\n"))
	doc.SetStyleRange(0, 2, 7)
	doc.SetLineState(0, 5)
	doc.SetLineState(1, 6)
	doc.SetLevel(2, 0x2401)

	snap := FromDocument("/x", time.Unix(9, 0), 0, doc)
	fresh := document.New([]byte("a\nb\nc\n"))
	require.True(t, snap.Apply(fresh))
	assert.Equal(t, 7, fresh.StyleAt(0))
	assert.Equal(t, 7, fresh.StyleAt(1))
	assert.Equal(t, 0, fresh.StyleAt(2))
	assert.Equal(t, 5, fresh.LineState(0))
	assert.Equal(t, 6, fresh.LineState(1))
	assert.Equal(t, 0x2401, fresh.Level(2))

	shorter := document.New([]byte("a\n"))
	assert.False(t, snap.Apply(shorter), "line count mismatch")

	sameLinesOtherLength := document.New([]byte("aa\nb\nc\n"))
	assert.False(t, snap.Apply(sameLinesOtherLength), "byte length mismatch")
}

func TestStore_Delete(t *testing.T) {
	store := openTestStore(t)
	m := time.Unix(1, 0)
	require.NoError(t, store.Save(Snapshot{Path: "/a", MTime: m, LineStates: []int{1}, Levels: []int{2}}))
	require.NoError(t, store.Delete("/a"))
	_, err := store.Load("/a", m)
	assert.Error(t, err)
}
