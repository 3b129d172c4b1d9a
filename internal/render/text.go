package render

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/annel0/layerworld/internal/tiles"
	"github.com/annel0/layerworld/internal/vec"
	"github.com/annel0/layerworld/internal/view"
)

const (
	// DefaultBlank — символ пустой клетки
	DefaultBlank = '.'
	// UnknownGlyph — символ области текстуры без глифа
	UnknownGlyph = '?'
)

// Glyphs сопоставляет области текстуры символам
type Glyphs map[tiles.TextureRegion]rune

// GlyphsFromCatalog строит глифы по каталогу: первая буква имени, для общих
// областей побеждает первый тайл. overrides задаёт символ по имени тайла
// и имеет приоритет.
func GlyphsFromCatalog(c *tiles.Catalog, overrides map[string]rune) Glyphs {
	descriptors := c.Descriptors()
	glyphs := make(Glyphs, len(descriptors))

	for _, d := range descriptors {
		if _, ok := glyphs[d.Region]; ok {
			continue
		}
		r, _ := utf8.DecodeRuneInString(d.Name)
		if r == utf8.RuneError {
			r = UnknownGlyph
		}
		glyphs[d.Region] = r
	}

	for _, d := range descriptors {
		if r, ok := overrides[d.Name]; ok {
			glyphs[d.Region] = r
		}
	}
	return glyphs
}

// Text растеризует квады в сетку символов: один пиксель экрана — один символ.
// Строка 0 соответствует верхнему краю экрана.
type Text struct {
	Blank rune

	glyphs     Glyphs
	screen     vec.Vec2
	zoom       float64
	camera     vec.Vec2Float
	background view.Color
	cells      [][]rune
}

// NewText создаёт текстовый отрисовщик
func NewText(glyphs Glyphs) *Text {
	return &Text{Blank: DefaultBlank, glyphs: glyphs}
}

// SetView очищает буфер под размер экрана
func (t *Text) SetView(screen vec.Vec2, zoom float64, camera vec.Vec2Float) {
	t.screen = screen
	t.zoom = zoom
	t.camera = camera

	w, h := max(screen.X, 0), max(screen.Y, 0)
	if len(t.cells) != h || (h > 0 && len(t.cells[0]) != w) {
		t.cells = make([][]rune, h)
		for y := range t.cells {
			t.cells[y] = make([]rune, w)
		}
	}
	for _, row := range t.cells {
		for x := range row {
			row[x] = t.Blank
		}
	}
}

// SetBackground запоминает цвет фона. В текстовом кадре фон не виден.
func (t *Text) SetBackground(c view.Color) {
	t.background = c
}

// Background возвращает последний заданный цвет фона
func (t *Text) Background() view.Color { return t.background }

// toScreen переводит точку сетки в дробные координаты пикселей
func (t *Text) toScreen(p vec.Vec2Float) vec.Vec2Float {
	aspect := float64(t.screen.X) / float64(t.screen.Y)
	norm := p.Sub(t.camera).Mul(1 / t.zoom)
	return vec.Vec2Float{
		X: (norm.X/aspect + 1) / 2 * float64(t.screen.X),
		Y: (1 - norm.Y) / 2 * float64(t.screen.Y),
	}
}

// DrawQuad закрашивает символы, центры которых попадают в квад
func (t *Text) DrawQuad(q view.Quad) {
	if len(t.cells) == 0 || t.zoom == 0 {
		return
	}

	glyph, ok := t.glyphs[q.Region]
	if !ok {
		glyph = UnknownGlyph
	}

	topLeft := t.toScreen(vec.Vec2Float{X: q.Pos.X, Y: q.Pos.Y + q.Size.Y})
	bottomRight := t.toScreen(vec.Vec2Float{X: q.Pos.X + q.Size.X, Y: q.Pos.Y})

	x0 := max(int(math.Ceil(topLeft.X-0.5)), 0)
	x1 := min(int(math.Ceil(bottomRight.X-0.5)), t.screen.X)
	y0 := max(int(math.Ceil(topLeft.Y-0.5)), 0)
	y1 := min(int(math.Ceil(bottomRight.Y-0.5)), t.screen.Y)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			t.cells[y][x] = glyph
		}
	}
}

// Rune возвращает символ в позиции экрана
func (t *Text) Rune(x, y int) (rune, bool) {
	if y < 0 || y >= len(t.cells) || x < 0 || x >= len(t.cells[y]) {
		return 0, false
	}
	return t.cells[y][x], true
}

// String возвращает кадр построчно
func (t *Text) String() string {
	var sb strings.Builder
	for i, row := range t.cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}
