package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathKeepsOnlyExtension(t *testing.T) {
	area, err := NewArea(t.TempDir())
	require.NoError(t, err)

	p := area.Path("../../etc/Holiday.MP4")
	assert.Equal(t, area.Dir(), filepath.Dir(p))
	assert.True(t, strings.HasSuffix(p, ".mp4"))

	assert.NotEqual(t, area.Path("a.png"), area.Path("a.png"))
	assert.Equal(t, "", filepath.Ext(area.Path("noext")))
}

func TestRemoveMissingFile(t *testing.T) {
	area, err := NewArea(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, area.Remove(""))
	assert.NoError(t, area.Remove(filepath.Join(area.Dir(), "missing.png")))
}

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	area, err := NewArea(dir)
	require.NoError(t, err)

	now := time.Now()
	area.now = func() time.Time { return now }

	stale := filepath.Join(dir, "stale.png")
	fresh := filepath.Join(dir, "fresh.png")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(fresh, []byte("y"), 0o600))
	require.NoError(t, os.Chtimes(stale, now.Add(-2*time.Hour), now.Add(-2*time.Hour)))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	removed, err := area.Sweep(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestNewAreaRequiresDir(t *testing.T) {
	_, err := NewArea("")
	assert.Error(t, err)
}
