// Package grid содержит тороидальные квадратные сетки значений.
//
// Dense хранит каждую клетку и даёт доступ O(1); Sparse хранит только
// записанные клетки в отсортированном списке и даёт доступ O(log n).
// Обе реализации выполняют один и тот же контракт Store, выбор делается
// статически при создании мира.
//
// Сетки не потокобезопасны: ими владеет один мир и один цикл кадров.
package grid

import "github.com/annel0/layerworld/internal/vec"

// Store — общий контракт квадратной сетки со стороной Side()
type Store[T comparable] interface {
	// Side возвращает длину стороны сетки
	Side() int

	// Get возвращает значение клетки; false только для координат вне [0, Side)
	Get(c vec.Vec2) (T, bool)

	// Set записывает значение; координаты вне сетки молча игнорируются
	Set(c vec.Vec2, v T)

	// Wrap приводит координаты в [0, Side) по модулю
	Wrap(c vec.Vec2) vec.Vec2

	// InBounds проверяет попадание координат в сетку
	InBounds(c vec.Vec2) bool

	// Fill перезаписывает все клетки построчно значениями f
	Fill(f func(vec.Vec2) T)

	// Len возвращает число реально хранимых клеток
	Len() int
}

func mustPositive(side int) {
	if side <= 0 {
		panic("grid: сторона сетки должна быть положительной")
	}
}
