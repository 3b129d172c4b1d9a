package world

import "errors"

// Слои нумеруются от 0. Слой i имеет сторону scale^(i+2):
// при scale=2 и шести слоях это 4, 8, 16, 32, 64, 128.
// Клетка (x,y) слоя i соответствует блоку scale x scale клеток
// (x*scale+dx, y*scale+dy) слоя i+1 и клетке (x/scale, y/scale) слоя i-1.

const (
	// DefaultLayerCount — количество слоёв по умолчанию
	DefaultLayerCount = 6
	// DefaultScale — отношение сторон соседних слоёв
	DefaultScale = 2

	// maxSide ограничивает сторону слоя, чтобы side*side помещалось в int
	maxSide = 1 << 15
)

var (
	ErrInvalidLayerCount = errors.New("количество слоёв должно быть не меньше 1")
	ErrInvalidScale      = errors.New("масштаб слоёв должен быть не меньше 2")
	ErrLayerTooLarge     = errors.New("сторона слоя слишком велика")
)

// LayerSide возвращает сторону слоя layer для масштаба scale: scale^(layer+2).
// Возвращает false при переполнении допустимого размера.
func LayerSide(scale, layer int) (int, bool) {
	side := 1
	for i := 0; i < layer+2; i++ {
		if side > maxSide/scale {
			return 0, false
		}
		side *= scale
	}
	return side, true
}

func validateLayout(layerCount, scale int) error {
	if layerCount < 1 {
		return ErrInvalidLayerCount
	}
	if scale < 2 {
		return ErrInvalidScale
	}
	if _, ok := LayerSide(scale, layerCount-1); !ok {
		return ErrLayerTooLarge
	}
	return nil
}
