package render

import (
	"strings"
	"testing"

	"github.com/annel0/layerworld/internal/tiles"
	"github.com/annel0/layerworld/internal/vec"
	"github.com/annel0/layerworld/internal/view"
	"github.com/annel0/layerworld/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitQuad(region tiles.TextureRegion, x, y float64) view.Quad {
	return view.Quad{Region: region, Pos: vec.Vec2Float{X: x, Y: y}, Size: vec.SplatFloat(1)}
}

func TestGlyphsFromCatalog(t *testing.T) {
	c := tiles.DefaultCatalog()
	glyphs := GlyphsFromCatalog(c, nil)

	ground, _ := c.ByName("ground")
	marker, _ := c.ByName(tiles.MarkerTileName)
	generator, _ := c.ByName("generator")

	assert.Equal(t, 'g', glyphs[ground.Region])
	assert.Equal(t, 'p', glyphs[marker.Region], "для общей области побеждает первый тайл")
	assert.Equal(t, 'p', glyphs[generator.Region])

	glyphs = GlyphsFromCatalog(c, map[string]rune{"player_idle": '@', "ground": '#'})
	assert.Equal(t, '@', glyphs[marker.Region])
	assert.Equal(t, '#', glyphs[ground.Region])
}

func TestText_DrawQuadPlacement(t *testing.T) {
	region := tiles.TextureRegion{Size: vec.Splat(16)}
	text := NewText(Glyphs{region: '#'})

	// Экран 12x12 при zoom 6 и камере (6,6): символ (x,y) показывает клетку (x, 11-y)
	text.SetView(vec.Splat(12), 6, vec.SplatFloat(6))
	text.DrawQuad(unitQuad(region, 3, 4))

	r, ok := text.Rune(3, 7)
	require.True(t, ok)
	assert.Equal(t, '#', r)

	filled := strings.Count(text.String(), "#")
	assert.Equal(t, 1, filled, "квад 1x1 занимает ровно один символ")
}

func TestText_ClipsAndResets(t *testing.T) {
	region := tiles.TextureRegion{Size: vec.Splat(16)}
	text := NewText(Glyphs{region: '#'})

	text.SetView(vec.Splat(12), 6, vec.SplatFloat(6))
	text.DrawQuad(unitQuad(region, -3, -3))
	text.DrawQuad(unitQuad(tiles.TextureRegion{Offset: vec.Splat(64)}, 0, 0))
	assert.NotContains(t, text.String(), "#", "квад вне экрана отсекается")
	assert.Contains(t, text.String(), string(UnknownGlyph))

	text.SetView(vec.Vec2{X: 4, Y: 2}, 6, vec.Vec2Float{})
	assert.Equal(t, "....\n....", text.String(), "новый кадр очищает буфер")

	_, ok := text.Rune(4, 0)
	assert.False(t, ok)
}

func TestRecorder_WithProjector(t *testing.T) {
	w, err := world.NewDense(tiles.DefaultCatalog(), 2, 2)
	require.NoError(t, err)
	w.SetTile(vec.Vec2{X: 2, Y: 2}, 2)

	opts := view.DefaultOptions()
	opts.EaseRate = 0
	p, err := view.NewProjector(tiles.DefaultCatalog(), tiles.DefaultAtlas, opts)
	require.NoError(t, err)

	rec := NewRecorder()
	stats := p.Render(w, rec)

	assert.Equal(t, 1, rec.Frames)
	assert.Equal(t, view.LayerBackground(1), rec.Background)
	assert.Equal(t, stats.DrawCalls(), len(rec.Quads))

	at := rec.QuadsAt(vec.Vec2Float{X: 2, Y: 2})
	require.Len(t, at, 2)
	ladder, _ := tiles.DefaultCatalog().ByName("ladder")
	marker, _ := tiles.DefaultCatalog().ByName(tiles.MarkerTileName)
	assert.Equal(t, ladder.Region, at[0].Region)
	assert.Equal(t, marker.Region, at[1].Region)

	p.Render(w, rec)
	assert.Equal(t, 2, rec.Frames)
	assert.Equal(t, stats.DrawCalls(), len(rec.Quads), "кадр начинается заново")
	assert.Equal(t, 2*stats.DrawCalls(), rec.TotalQuads)
}

func TestText_RendersWorldFrame(t *testing.T) {
	c := tiles.DefaultCatalog()
	w, err := world.NewSparse(c, 1, 2)
	require.NoError(t, err)
	w.SetTile(vec.Vec2{X: 0, Y: 0}, 1)

	opts := view.DefaultOptions()
	opts.EaseRate = 0
	opts.Screen = vec.Splat(12)
	opts.Camera = vec.SplatFloat(6)
	opts.Zoom = 6
	p, err := view.NewProjector(c, tiles.DefaultAtlas, opts)
	require.NoError(t, err)

	text := NewText(GlyphsFromCatalog(c, map[string]rune{"player_idle": '@'}))
	p.Render(w, text)

	frame := text.String()
	// Слой 4x4 на экране 12x12 повторяется трижды по каждой оси
	assert.Equal(t, 9, strings.Count(frame, "g"))
	assert.Equal(t, 9, strings.Count(frame, "@"))
}
