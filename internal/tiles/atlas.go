package tiles

import (
	"errors"
	"fmt"

	"github.com/annel0/layerworld/internal/vec"
)

var (
	// ErrAtlasSize — размер атласа не совпадает с ожидаемым
	ErrAtlasSize = errors.New("атлас тайлов имеет неверный размер")
	// ErrRegionOutOfAtlas — область тайла выходит за пределы атласа
	ErrRegionOutOfAtlas = errors.New("область тайла выходит за пределы атласа")
)

// Atlas описывает раскладку исходной текстуры, на которую опирается каталог
type Atlas struct {
	Size          vec.Vec2
	TexelsPerTile int
}

// DefaultAtlas — атлас 128x128 с тайлами 16x16
var DefaultAtlas = Atlas{Size: vec.Splat(128), TexelsPerTile: 16}

// Validate проверяет реальный размер атласа и все области каталога
func (a Atlas) Validate(actual vec.Vec2, c *Catalog) error {
	if actual != a.Size {
		return fmt.Errorf("%w: %dx%d, ожидалось %dx%d",
			ErrAtlasSize, actual.X, actual.Y, a.Size.X, a.Size.Y)
	}

	for i, d := range c.descriptors {
		r := d.Region
		end := r.Offset.Add(r.Size)
		if r.Offset.X < 0 || r.Offset.Y < 0 || r.Size.X <= 0 || r.Size.Y <= 0 ||
			end.X > a.Size.X || end.Y > a.Size.Y {
			return fmt.Errorf("%w: #%d %q", ErrRegionOutOfAtlas, i+1, d.Name)
		}
	}
	return nil
}

// TileSize возвращает размер квада области в единицах сетки
func (a Atlas) TileSize(r TextureRegion) vec.Vec2Float {
	return r.Size.ToFloat().Mul(1.0 / float64(a.TexelsPerTile))
}

// TexelFactor переводит тексели в UV координаты [0,1]
func (a Atlas) TexelFactor() vec.Vec2Float {
	return vec.Vec2Float{X: 1.0 / float64(a.Size.X), Y: 1.0 / float64(a.Size.Y)}
}
