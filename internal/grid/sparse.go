package grid

import (
	"slices"

	"github.com/annel0/layerworld/internal/vec"
)

// entry — записанная клетка разреженной сетки
type entry[T comparable] struct {
	pos   vec.Vec2
	value T
}

// Sparse хранит только записанные клетки, отсортированные по ключу x + y*side.
// На каждую координату приходится не более одной записи; отсутствие записи
// означает нулевое значение.
type Sparse[T comparable] struct {
	side    int
	entries []entry[T]
}

// NewSparse создаёт пустую разреженную сетку
func NewSparse[T comparable](side int) *Sparse[T] {
	mustPositive(side)
	return &Sparse[T]{side: side}
}

// Side возвращает длину стороны
func (s *Sparse[T]) Side() int { return s.side }

// Len возвращает количество записей
func (s *Sparse[T]) Len() int { return len(s.entries) }

// InBounds проверяет попадание координат в сетку
func (s *Sparse[T]) InBounds(c vec.Vec2) bool { return c.InRange(s.side) }

// Wrap приводит координаты в [0, side)
func (s *Sparse[T]) Wrap(c vec.Vec2) vec.Vec2 { return c.Wrap(s.side) }

func (s *Sparse[T]) key(c vec.Vec2) int {
	return c.X + c.Y*s.side
}

// search возвращает позицию записи или точку вставки для координаты
func (s *Sparse[T]) search(c vec.Vec2) (int, bool) {
	k := s.key(c)
	return slices.BinarySearchFunc(s.entries, k, func(e entry[T], target int) int {
		return s.key(e.pos) - target
	})
}

// Get возвращает значение клетки
func (s *Sparse[T]) Get(c vec.Vec2) (T, bool) {
	var zero T
	if !s.InBounds(c) {
		return zero, false
	}
	if i, found := s.search(c); found {
		return s.entries[i].value, true
	}
	return zero, true
}

// Set записывает значение клетки. Запись нулевого значения удаляет запись.
func (s *Sparse[T]) Set(c vec.Vec2, v T) {
	if !s.InBounds(c) {
		return
	}

	var zero T
	i, found := s.search(c)
	switch {
	case found && v == zero:
		s.entries = slices.Delete(s.entries, i, i+1)
	case found:
		s.entries[i].value = v
	case v != zero:
		s.entries = slices.Insert(s.entries, i, entry[T]{pos: c, value: v})
	}
}

// Fill перезаписывает все клетки построчно. Построчный обход совпадает
// с порядком ключей, поэтому список собирается уже отсортированным.
func (s *Sparse[T]) Fill(f func(vec.Vec2) T) {
	var zero T
	var entries []entry[T]
	for y := 0; y < s.side; y++ {
		for x := 0; x < s.side; x++ {
			pos := vec.Vec2{X: x, Y: y}
			if v := f(pos); v != zero {
				entries = append(entries, entry[T]{pos: pos, value: v})
			}
		}
	}
	s.entries = entries
}
