package view

import (
	"math"

	"github.com/annel0/layerworld/internal/tiles"
	"github.com/annel0/layerworld/internal/vec"
)

// Renderer — внешний отрисовщик, которому проектор передаёт кадр
type Renderer interface {
	// SetView задаёт преобразование вида для текущего кадра
	SetView(screen vec.Vec2, zoom float64, camera vec.Vec2Float)

	// DrawQuad рисует квад с областью текстуры в координатах сетки
	DrawQuad(q Quad)
}

// BackgroundSetter реализуется отрисовщиками, умеющими заливать фон
type BackgroundSetter interface {
	SetBackground(c Color)
}

// Quad — один тайл для отрисовки
type Quad struct {
	Region   tiles.TextureRegion
	Pos      vec.Vec2Float // Левый нижний угол в единицах сетки
	Size     vec.Vec2Float // Размер в единицах сетки
	Rotation int           // Сдвиг начала обхода UV, 0..3
}

// Corners возвращает углы квада в порядке vec.QuadWinding
func (q Quad) Corners() [4]vec.Vec2Float {
	var out [4]vec.Vec2Float
	for i, c := range vec.QuadWinding {
		out[i] = q.Pos.Add(c.ToFloat().MulVec(q.Size))
	}
	return out
}

// UVs возвращает текстурные координаты углов с учётом поворота.
// Отступы 0.01/0.98 не дают соседним тайлам атласа просачиваться на края.
func (q Quad) UVs(atlas tiles.Atlas) [4]vec.Vec2Float {
	factor := atlas.TexelFactor()
	base := q.Region.Offset.ToFloat().MulVec(factor)
	size := q.Region.Size.ToFloat().MulVec(factor)

	uvs := [4]vec.Vec2Float{
		base.Add(vec.Vec2Float{X: 0.01, Y: 0.98}.MulVec(size)),
		base.Add(vec.Vec2Float{X: 0.01, Y: 0.01}.MulVec(size)),
		base.Add(vec.Vec2Float{X: 0.98, Y: 0.01}.MulVec(size)),
		base.Add(vec.Vec2Float{X: 0.98, Y: 0.98}.MulVec(size)),
	}

	rot := vec.FloorMod(q.Rotation, 4)
	var out [4]vec.Vec2Float
	for i := range out {
		out[i] = uvs[(rot+i)%4]
	}
	return out
}

// Color — цвет RGBA с компонентами в [0,1]
type Color struct {
	R, G, B, A float64
}

// Grey создаёт серый цвет
func Grey(v float64) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// HSV создаёт цвет из оттенка в градусах, насыщенности и яркости
func HSV(h, s, v float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return Color{R: r + m, G: g + m, B: b + m, A: 1}
}

// layerBackgrounds — фон для каждого из шести стандартных слоёв
var layerBackgrounds = []Color{
	HSV(0, 0.6, 0.1),
	HSV(10, 0.5, 0.1),
	HSV(20, 0.3, 0.1),
	Grey(0.1),
	HSV(90, 0.3, 0.1),
	HSV(130, 0.5, 0.1),
}

// LayerBackground возвращает цвет фона слоя; палитра повторяется для лишних слоёв
func LayerBackground(layer int) Color {
	return layerBackgrounds[vec.FloorMod(layer, len(layerBackgrounds))]
}
