// Package render содержит отрисовщики кадров без графического окна:
// Recorder запоминает вызовы, Text растеризует кадр в символы.
package render

import (
	"github.com/annel0/layerworld/internal/vec"
	"github.com/annel0/layerworld/internal/view"
)

// Recorder запоминает все вызовы последнего кадра
type Recorder struct {
	Screen     vec.Vec2
	Zoom       float64
	Camera     vec.Vec2Float
	Background view.Color
	Quads      []view.Quad

	Frames     int // Сколько раз вызывался SetView
	TotalQuads int // Сколько квадов нарисовано за всё время
}

// NewRecorder создаёт пустой Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetView начинает новый кадр
func (r *Recorder) SetView(screen vec.Vec2, zoom float64, camera vec.Vec2Float) {
	r.Screen = screen
	r.Zoom = zoom
	r.Camera = camera
	r.Quads = r.Quads[:0]
	r.Frames++
}

// DrawQuad добавляет квад в текущий кадр
func (r *Recorder) DrawQuad(q view.Quad) {
	r.Quads = append(r.Quads, q)
	r.TotalQuads++
}

// SetBackground запоминает цвет фона
func (r *Recorder) SetBackground(c view.Color) {
	r.Background = c
}

// QuadsAt возвращает квады, нарисованные в позиции pos, в порядке отрисовки
func (r *Recorder) QuadsAt(pos vec.Vec2Float) []view.Quad {
	var out []view.Quad
	for _, q := range r.Quads {
		if q.Pos == pos {
			out = append(out, q)
		}
	}
	return out
}
