package grid

import "github.com/annel0/layerworld/internal/vec"

// Dense хранит side*side значений построчно: index = x + y*side
type Dense[T comparable] struct {
	side int
	data []T
}

// NewDense создаёт плотную сетку, заполненную нулевыми значениями
func NewDense[T comparable](side int) *Dense[T] {
	mustPositive(side)
	return &Dense[T]{
		side: side,
		data: make([]T, side*side),
	}
}

// Side возвращает длину стороны
func (d *Dense[T]) Side() int { return d.side }

// Len возвращает количество клеток (side*side)
func (d *Dense[T]) Len() int { return len(d.data) }

// InBounds проверяет попадание координат в сетку
func (d *Dense[T]) InBounds(c vec.Vec2) bool { return c.InRange(d.side) }

// Wrap приводит координаты в [0, side)
func (d *Dense[T]) Wrap(c vec.Vec2) vec.Vec2 { return c.Wrap(d.side) }

// Get возвращает значение клетки
func (d *Dense[T]) Get(c vec.Vec2) (T, bool) {
	if !d.InBounds(c) {
		var zero T
		return zero, false
	}
	return d.data[c.X+c.Y*d.side], true
}

// Set записывает значение клетки
func (d *Dense[T]) Set(c vec.Vec2, v T) {
	if !d.InBounds(c) {
		return
	}
	d.data[c.X+c.Y*d.side] = v
}

// Fill перезаписывает все клетки построчно
func (d *Dense[T]) Fill(f func(vec.Vec2) T) {
	for y := 0; y < d.side; y++ {
		for x := 0; x < d.side; x++ {
			d.data[x+y*d.side] = f(vec.Vec2{X: x, Y: y})
		}
	}
}
