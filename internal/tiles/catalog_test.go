package tiles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/layerworld/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ByIndex(t *testing.T) {
	c := NewCatalog([]Descriptor{{Name: "ground"}, {Name: "ladder"}})

	_, ok := c.ByIndex(0)
	assert.False(t, ok, "индекс 0 означает пустую клетку")

	d, ok := c.ByIndex(1)
	require.True(t, ok)
	assert.Equal(t, "ground", d.Name)

	d, ok = c.ByIndex(2)
	require.True(t, ok)
	assert.Equal(t, "ladder", d.Name)

	_, ok = c.ByIndex(3)
	assert.False(t, ok, "индекс за пределами каталога")

	_, ok = c.ByIndex(-1)
	assert.False(t, ok)
}

func TestCatalog_ByNameFirstWins(t *testing.T) {
	c := NewCatalog([]Descriptor{
		{Name: "pipe", Flags: BlocksMovement},
		{Name: "pipe", Flags: AllowsLayerTransition},
	})

	d, ok := c.ByName("pipe")
	require.True(t, ok)
	assert.True(t, d.BlocksMovement(), "должен вернуться первый дубликат")
	assert.False(t, d.AllowsLayerTransition())

	idx, ok := c.IndexOf("pipe")
	require.True(t, ok)
	assert.Equal(t, Index(1), idx)

	_, ok = c.ByName("missing")
	assert.False(t, ok)
}

func TestCatalog_MustByName(t *testing.T) {
	c := DefaultCatalog()

	marker, err := c.MustByName(MarkerTileName)
	require.NoError(t, err)
	assert.Equal(t, vec.Vec2{X: 32, Y: 0}, marker.Region.Offset)

	_, err = c.MustByName("unicorn")
	assert.True(t, errors.Is(err, ErrMissingTile), "ожидалась ErrMissingTile, получено %v", err)
}

func TestCatalog_IsImmutableCopy(t *testing.T) {
	entries := []Descriptor{{Name: "ground"}}
	c := NewCatalog(entries)
	entries[0].Name = "changed"

	d, _ := c.ByIndex(1)
	assert.Equal(t, "ground", d.Name, "каталог не должен зависеть от исходного слайса")

	list := c.Descriptors()
	list[0].Name = "changed"
	d, _ = c.ByIndex(1)
	assert.Equal(t, "ground", d.Name, "Descriptors должен возвращать копию")
}

func TestDefaultCatalog_Ladder(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 8, c.Len())

	d, ok := c.ByIndex(2)
	require.True(t, ok)
	assert.Equal(t, "ladder", d.Name)
	assert.True(t, d.AllowsLayerTransition())
	assert.NoError(t, DefaultAtlas.Validate(vec.Splat(128), c))
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
tiles:
  - name: ground
    offset: [0, 0]
    size: [16, 16]
  - name: wall
    offset: [16, 16]
    size: [16, 16]
    flags: [blocks_movement]
  - name: ladder
    offset: [16, 0]
    size: [16, 16]
    flags: [ALLOWS_LAYER_TRANSITION]
`)
	c, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	wall, ok := c.ByIndex(2)
	require.True(t, ok)
	assert.Equal(t, vec.Vec2{X: 16, Y: 16}, wall.Region.Offset)
	assert.True(t, wall.BlocksMovement())

	ladder, _ := c.ByName("ladder")
	assert.True(t, ladder.AllowsLayerTransition())
}

func TestParseCatalog_UnknownFlag(t *testing.T) {
	_, err := ParseCatalog([]byte("tiles:\n  - name: x\n    flags: [flies]\n"))
	assert.True(t, errors.Is(err, ErrUnknownFlag), "ожидалась ErrUnknownFlag, получено %v", err)
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiles:\n  - name: ground\n    size: [16, 16]\n"), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	d, ok := c.ByIndex(1)
	require.True(t, ok)
	assert.Equal(t, "ground", d.Name)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAtlas_Validate(t *testing.T) {
	c := NewCatalog([]Descriptor{
		{Name: "ok", Region: TextureRegion{Offset: vec.Vec2{X: 112, Y: 112}, Size: vec.Splat(16)}},
	})
	assert.NoError(t, DefaultAtlas.Validate(vec.Splat(128), c))

	err := DefaultAtlas.Validate(vec.Splat(64), c)
	assert.True(t, errors.Is(err, ErrAtlasSize), "получено %v", err)

	bad := NewCatalog([]Descriptor{
		{Name: "edge", Region: TextureRegion{Offset: vec.Vec2{X: 120, Y: 0}, Size: vec.Splat(16)}},
	})
	err = DefaultAtlas.Validate(vec.Splat(128), bad)
	assert.True(t, errors.Is(err, ErrRegionOutOfAtlas), "получено %v", err)
}

func TestAtlas_TileSize(t *testing.T) {
	size := DefaultAtlas.TileSize(TextureRegion{Size: vec.Vec2{X: 16, Y: 32}})
	assert.Equal(t, vec.Vec2Float{X: 1, Y: 2}, size)
}
