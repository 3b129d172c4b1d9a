// Package view проецирует активный слой мира на экран.
//
// Projector хранит только положение камеры и её масштаб. Каждый кадр
// видимое окно пересчитывается полностью, и для каждой клетки окна
// выдаётся вызов отрисовщику.
package view

import (
	"github.com/annel0/layerworld/internal/logging"
	"github.com/annel0/layerworld/internal/tiles"
	"github.com/annel0/layerworld/internal/vec"
)

const (
	// DefaultZoom — половина высоты видимой области в клетках
	DefaultZoom = 6.0
	// DefaultEaseRate — доля расстояния до цели, проходимая камерой за кадр при 60 кадрах/с
	DefaultEaseRate = 1.0 / 60.0
)

// Source — то, что проектор читает из мира
type Source interface {
	Focus() vec.Vec2Float
	ActiveLayer() int
	Wrap(c vec.Vec2) vec.Vec2
	TileDescriptor(c vec.Vec2) (tiles.Descriptor, bool)
}

// Window — видимая область сетки, полуоткрытая: [Min, Max)
type Window struct {
	Min vec.Vec2
	Max vec.Vec2
}

// Contains проверяет попадание клетки в окно
func (w Window) Contains(c vec.Vec2) bool {
	return c.X >= w.Min.X && c.X < w.Max.X && c.Y >= w.Min.Y && c.Y < w.Max.Y
}

// Cells возвращает количество клеток окна
func (w Window) Cells() int {
	dx, dy := w.Max.X-w.Min.X, w.Max.Y-w.Min.Y
	if dx <= 0 || dy <= 0 {
		return 0
	}
	return dx * dy
}

// Options задаёт начальное состояние проектора
type Options struct {
	Screen   vec.Vec2
	Zoom     float64
	EaseRate float64
	Camera   vec.Vec2Float
	Marker   string // Имя спрайта маркера фокуса
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		Screen:   vec.Splat(1),
		Zoom:     DefaultZoom,
		EaseRate: DefaultEaseRate,
		Camera:   vec.SplatFloat(2.5),
		Marker:   tiles.MarkerTileName,
	}
}

// FrameStats описывает результат одного кадра
type FrameStats struct {
	Window      Window
	TerrainQuad int
	MarkerQuads int
}

// DrawCalls возвращает общее число вызовов DrawQuad за кадр
func (s FrameStats) DrawCalls() int {
	return s.TerrainQuad + s.MarkerQuads
}

// Projector — камера мира
type Projector struct {
	Screen   vec.Vec2
	Zoom     float64
	EaseRate float64
	Camera   vec.Vec2Float

	atlas  tiles.Atlas
	marker tiles.Descriptor
}

// NewProjector создаёт проектор. Отсутствие спрайта маркера в каталоге —
// ошибка конфигурации, без которой нельзя входить в цикл кадров.
func NewProjector(catalog *tiles.Catalog, atlas tiles.Atlas, opts Options) (*Projector, error) {
	marker, err := catalog.MustByName(opts.Marker)
	if err != nil {
		return nil, err
	}

	logging.GetViewLogger().Debug("Камера: zoom %.1f, экран %dx%d, маркер %q",
		opts.Zoom, opts.Screen.X, opts.Screen.Y, marker.Name)

	return &Projector{
		Screen:   opts.Screen,
		Zoom:     opts.Zoom,
		EaseRate: opts.EaseRate,
		Camera:   opts.Camera,
		atlas:    atlas,
		marker:   marker,
	}, nil
}

// Atlas возвращает раскладку атласа, по которой считаются размеры квадов
func (p *Projector) Atlas() tiles.Atlas { return p.atlas }

// QuadFor строит квад для тайла в клетке c
func (p *Projector) QuadFor(d tiles.Descriptor, c vec.Vec2) Quad {
	return Quad{
		Region: d.Region,
		Pos:    c.ToFloat(),
		Size:   p.atlas.TileSize(d.Region),
	}
}

func aspect(screen vec.Vec2) float64 {
	if screen.X <= 0 || screen.Y <= 0 {
		return 1
	}
	return float64(screen.X) / float64(screen.Y)
}

// ScreenToGrid переводит пиксель экрана в координаты сетки
func ScreenToGrid(screen, point vec.Vec2, zoom float64, camera vec.Vec2Float) vec.Vec2Float {
	if screen.X <= 0 || screen.Y <= 0 {
		return camera
	}

	size := screen.ToFloat()
	norm := point.ToFloat().DivVec(size).Mul(2).Sub(vec.SplatFloat(1))
	norm = norm.MulVec(vec.Vec2Float{X: aspect(screen), Y: -1})

	return norm.Mul(zoom).Add(camera)
}

// VisibleWindow вычисляет окно клеток, видимых камерой, с запасом в одну клетку
func VisibleWindow(screen vec.Vec2, camera vec.Vec2Float, zoom float64) Window {
	extent := vec.Vec2Float{X: zoom*aspect(screen) + 1, Y: zoom + 1}
	return Window{
		Min: camera.Sub(extent).Floor(),
		Max: camera.Add(extent).Ceil(),
	}
}

// ScreenToGrid переводит пиксель экрана в координаты сетки для текущей камеры
func (p *Projector) ScreenToGrid(point vec.Vec2) vec.Vec2Float {
	return ScreenToGrid(p.Screen, point, p.Zoom, p.Camera)
}

// CellAt возвращает клетку под пикселем экрана
func (p *Projector) CellAt(point vec.Vec2) vec.Vec2 {
	return p.ScreenToGrid(point).Floor()
}

// Window возвращает текущее видимое окно
func (p *Projector) Window() Window {
	return VisibleWindow(p.Screen, p.Camera, p.Zoom)
}

// ViewMatrix возвращает матрицу вида (масштаб 1/zoom после сдвига на -camera)
// в порядке столбцов
func (p *Projector) ViewMatrix() [16]float64 {
	s := 1 / p.Zoom
	return [16]float64{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, s, 0,
		-p.Camera.X * s, -p.Camera.Y * s, 0, 1,
	}
}

// Render подтягивает камеру к фокусу и отрисовывает видимое окно построчно.
// Маркер рисуется после тайла своей клетки и оказывается поверх него.
func (p *Projector) Render(src Source, r Renderer) FrameStats {
	focus := src.Focus()
	p.Camera = p.Camera.Lerp(focus, p.EaseRate)

	if bg, ok := r.(BackgroundSetter); ok {
		bg.SetBackground(LayerBackground(src.ActiveLayer()))
	}
	r.SetView(p.Screen, p.Zoom, p.Camera)

	stats := FrameStats{Window: p.Window()}
	focusCell := src.Wrap(focus.Floor())

	for y := stats.Window.Min.Y; y < stats.Window.Max.Y; y++ {
		for x := stats.Window.Min.X; x < stats.Window.Max.X; x++ {
			c := vec.Vec2{X: x, Y: y}

			if d, ok := src.TileDescriptor(c); ok {
				r.DrawQuad(p.QuadFor(d, c))
				stats.TerrainQuad++
			}

			if src.Wrap(c) == focusCell {
				r.DrawQuad(p.QuadFor(p.marker, c))
				stats.MarkerQuads++
			}
		}
	}

	return stats
}
