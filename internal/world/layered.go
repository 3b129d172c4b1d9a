package world

import (
	"math"

	"github.com/annel0/layerworld/internal/grid"
	"github.com/annel0/layerworld/internal/logging"
	"github.com/annel0/layerworld/internal/tiles"
	"github.com/annel0/layerworld/internal/vec"
)

// DefaultFocus — начальная позиция фокуса: центр клетки (2,2)
var DefaultFocus = vec.Vec2Float{X: 2.5, Y: 2.5}

// Store — сетка индексов тайлов, которой может владеть мир
type Store = grid.Store[tiles.Index]

type (
	// DenseStore — плотный слой
	DenseStore = grid.Dense[tiles.Index]
	// SparseStore — разреженный слой
	SparseStore = grid.Sparse[tiles.Index]
)

// World — набор вложенных тороидальных слоёв с фокусом и активным слоем.
// Тип хранилища S выбирается при создании и не меняется.
type World[S Store] struct {
	layers  []S
	catalog *tiles.Catalog
	scale   int

	focus  vec.Vec2Float // Фокус в единицах сетки активного слоя
	active int           // Индекс активного слоя
}

// New создаёт мир из layerCount слоёв со сторонами scale^(i+2).
// Все слои выделяются сразу; активным становится последний (самый большой) слой.
func New[S Store](catalog *tiles.Catalog, layerCount, scale int, newStore func(side int) S) (*World[S], error) {
	if err := validateLayout(layerCount, scale); err != nil {
		return nil, err
	}

	layers := make([]S, layerCount)
	for i := range layers {
		side, _ := LayerSide(scale, i)
		layers[i] = newStore(side)
	}

	return &World[S]{
		layers:  layers,
		catalog: catalog,
		scale:   scale,
		focus:   DefaultFocus,
		active:  layerCount - 1,
	}, nil
}

// NewDense создаёт мир на плотных сетках
func NewDense(catalog *tiles.Catalog, layerCount, scale int) (*World[*DenseStore], error) {
	return New(catalog, layerCount, scale, grid.NewDense[tiles.Index])
}

// NewSparse создаёт мир на разреженных сетках
func NewSparse(catalog *tiles.Catalog, layerCount, scale int) (*World[*SparseStore], error) {
	return New(catalog, layerCount, scale, grid.NewSparse[tiles.Index])
}

// Catalog возвращает общий каталог тайлов
func (w *World[S]) Catalog() *tiles.Catalog { return w.catalog }

// LayerCount возвращает количество слоёв
func (w *World[S]) LayerCount() int { return len(w.layers) }

// Scale возвращает отношение сторон соседних слоёв
func (w *World[S]) Scale() int { return w.scale }

// ActiveLayer возвращает индекс активного слоя
func (w *World[S]) ActiveLayer() int { return w.active }

// Focus возвращает позицию фокуса
func (w *World[S]) Focus() vec.Vec2Float { return w.focus }

// LayerSide возвращает сторону слоя layer.
// Для индексов вне [0, LayerCount) возвращает 0.
func (w *World[S]) LayerSide(layer int) int {
	if layer < 0 || layer >= len(w.layers) {
		return 0
	}
	return w.layers[layer].Side()
}

// Layer возвращает хранилище слоя для чтения
func (w *World[S]) Layer(layer int) (S, bool) {
	if layer < 0 || layer >= len(w.layers) {
		var zero S
		return zero, false
	}
	return w.layers[layer], true
}

// StoredCells возвращает суммарное число хранимых клеток всех слоёв
func (w *World[S]) StoredCells() int {
	total := 0
	for _, l := range w.layers {
		total += l.Len()
	}
	return total
}

func (w *World[S]) activeStore() S {
	return w.layers[w.active]
}

// Wrap приводит координаты к активному слою
func (w *World[S]) Wrap(c vec.Vec2) vec.Vec2 {
	return w.activeStore().Wrap(c)
}

// Tile возвращает индекс тайла активного слоя в приведённых координатах
func (w *World[S]) Tile(c vec.Vec2) (tiles.Index, bool) {
	return w.activeStore().Get(w.Wrap(c))
}

// SetTile записывает индекс тайла активного слоя в приведённых координатах
func (w *World[S]) SetTile(c vec.Vec2, v tiles.Index) {
	w.activeStore().Set(w.Wrap(c), v)
}

// TileDescriptor возвращает описание тайла под координатами.
// Пустая клетка и неизвестный индекс дают false.
func (w *World[S]) TileDescriptor(c vec.Vec2) (tiles.Descriptor, bool) {
	idx, ok := w.Tile(c)
	if !ok || idx == tiles.Empty {
		return tiles.Descriptor{}, false
	}
	return w.catalog.ByIndex(int(idx))
}

// TileBelow читает клетку слоя с индексом active-1, содержащую клетку c.
// На слое 0 всегда возвращает false.
func (w *World[S]) TileBelow(c vec.Vec2) (tiles.Index, bool) {
	if w.active <= 0 {
		return tiles.Empty, false
	}

	pos := w.Wrap(c).Div(w.scale)
	return w.layers[w.active-1].Get(pos)
}

// TilesAbove читает блок scale x scale клеток слоя active+1, покрывающий клетку c.
// При scale=2 порядок совпадает с vec.QuadWinding, иначе построчный.
// Если хотя бы одна клетка не читается, возвращает false.
func (w *World[S]) TilesAbove(c vec.Vec2) ([]tiles.Index, bool) {
	if w.active+1 >= len(w.layers) {
		return nil, false
	}

	origin := w.Wrap(c).Scale(w.scale)
	layer := w.layers[w.active+1]

	out := make([]tiles.Index, 0, w.scale*w.scale)
	for _, off := range blockOffsets(w.scale) {
		v, ok := layer.Get(origin.Add(off))
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func blockOffsets(scale int) []vec.Vec2 {
	if scale == 2 {
		return vec.QuadWinding[:]
	}

	offsets := make([]vec.Vec2, 0, scale*scale)
	for dy := 0; dy < scale; dy++ {
		for dx := 0; dx < scale; dx++ {
			offsets = append(offsets, vec.Vec2{X: dx, Y: dy})
		}
	}
	return offsets
}

// MoveFocus сдвигает фокус на delta и заворачивает каждую ось в [0, side).
// Возвращает true, если хотя бы одна ось вышла за пределы слоя.
// Сдвиг с NaN или бесконечностью отклоняется, фокус не меняется.
func (w *World[S]) MoveFocus(delta vec.Vec2Float) bool {
	if !delta.IsFinite() {
		return false
	}

	from := w.focus
	side := float64(w.LayerSide(w.active))

	next := w.focus.Add(delta)
	wrappedX := wrapAxis(&next.X, side)
	wrappedY := wrapAxis(&next.Y, side)
	w.focus = next

	didWrap := wrappedX || wrappedY
	logging.LogFocusMovement(w.active, from.X, from.Y, next.X, next.Y, didWrap)
	return didWrap
}

func wrapAxis(v *float64, side float64) bool {
	if *v >= 0 && *v < side {
		return false
	}

	r := math.Mod(*v, side)
	if r < 0 {
		r += side
	}
	if r >= side || r == 0 {
		r = 0 // также убирает -0
	}
	*v = r
	return true
}

// ShiftLayer меняет активный слой на dir (-1 или +1) и пересчитывает фокус
// в координаты нового слоя. Фокус после смены слоя не заворачивается.
func (w *World[S]) ShiftLayer(dir int) bool {
	if dir != -1 && dir != 1 {
		return false
	}

	next := w.active + dir
	if next < 0 || next >= len(w.layers) {
		return false
	}

	from := w.focus
	if dir > 0 {
		w.focus = w.focus.Mul(float64(w.scale))
	} else {
		w.focus = vec.Vec2Float{X: w.focus.X / float64(w.scale), Y: w.focus.Y / float64(w.scale)}
	}

	logging.LogLayerShift(w.active, next, from.X, from.Y, w.focus.X, w.focus.Y)
	w.active = next
	return true
}
