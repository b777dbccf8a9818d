package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	overlay "github.com/canderson402/layout-builder-sub001"
)

func sampleTemplate(id, name string, created time.Time) overlay.Template {
	n := overlay.NewText("name", "name")
	n.Size = overlay.Vec2{X: 100, Y: 30}
	return overlay.Template{
		ID:       id,
		Name:     name,
		Nodes:    []overlay.Node{n},
		SlotSize: overlay.Vec2{X: 100, Y: 30},
		Created:  created,
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, ok := s.Template("card")
	assert.False(t, ok)

	require.NoError(t, s.Save(sampleTemplate("card", "Player card", t0.Add(time.Minute))))
	require.NoError(t, s.Save(sampleTemplate("row", "Stat row", t0)))

	tm, ok := s.Template("card")
	require.True(t, ok)
	assert.Equal(t, "Player card", tm.Name)
	require.Len(t, tm.Nodes, 1)
	assert.Equal(t, "name", tm.Nodes[0].DataPath)
	assert.Equal(t, overlay.Vec2{X: 100, Y: 30}, tm.SlotSize)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "row", list[0].ID, "oldest first")
	assert.Equal(t, "card", list[1].ID)

	renamed := sampleTemplate("card", "Renamed", t0)
	require.NoError(t, s.Save(renamed))
	tm, _ = s.Template("card")
	assert.Equal(t, "Renamed", tm.Name)

	require.NoError(t, s.Delete("card"))
	assert.ErrorIs(t, s.Delete("card"), ErrNotFound)
	_, ok = s.Template("card")
	assert.False(t, ok)

	assert.ErrorIs(t, s.Save(sampleTemplate("", "x", t0)), ErrInvalidID)
	assert.ErrorIs(t, s.Save(sampleTemplate("../escape", "x", t0)), ErrInvalidID)
}

func TestMemStore(t *testing.T) {
	testStore(t, NewMemStore())
}

func TestDirStore(t *testing.T) {
	s, err := NewDirStore(filepath.Join(t.TempDir(), "templates"))
	require.NoError(t, err)
	testStore(t, s)
}

func TestDirStoreSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, s.Save(sampleTemplate("ok", "Ok", time.Now())))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ok", list[0].ID)

	_, ok := s.Template("broken")
	assert.False(t, ok)
	_, err = s.Load("broken")
	assert.Error(t, err)
}

func TestMemStoreSyncFromDir(t *testing.T) {
	dir, err := NewDirStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, dir.Save(sampleTemplate("a", "A", time.Now())))

	mem := NewMemStore()
	require.NoError(t, mem.Save(sampleTemplate("stale", "Stale", time.Now())))
	require.NoError(t, mem.Sync(dir))
	_, ok := mem.Template("a")
	assert.True(t, ok)
	_, ok = mem.Template("stale")
	assert.False(t, ok, "sync drops templates missing from the source")

	require.NoError(t, dir.Save(sampleTemplate("b", "B", time.Now())))
	_, ok = mem.Template("b")
	assert.False(t, ok, "cache does not see disk until the next sync")
	require.NoError(t, mem.Sync(dir))
	_, ok = mem.Template("b")
	assert.True(t, ok)
}

func TestStoreFeedsExpansion(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Save(sampleTemplate("card", "Card", time.Now())))

	ph := overlay.NewSlotList("slots", overlay.SlotListProps{TemplateID: "card", Count: 3, DataPrefix: "roster"})
	out, missing := overlay.ExpandAll([]overlay.Node{ph}, s, nil)
	assert.Empty(t, missing)
	assert.Len(t, out, 4)
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	layout := filepath.Join(dir, "layout.json")
	require.NoError(t, os.WriteFile(layout, []byte("{}"), 0o644))
	tplDir := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(tplDir, 0o755))

	w, err := NewWatcher(layout, tplDir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan string, 16)
	go w.Run(ctx, func(p string) { changed <- p }, nil)

	expect := func(want string) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case got := <-changed:
				if got == want {
					return
				}
			case <-deadline:
				t.Fatalf("no change event for %s", want)
			}
		}
	}

	require.NoError(t, os.WriteFile(layout, []byte(`{"version":1}`), 0o644))
	expect(layout)

	s := &DirStore{Dir: tplDir}
	require.NoError(t, s.Save(sampleTemplate("card", "Card", time.Now())))
	expect(filepath.Join(tplDir, "card.json"))
}
