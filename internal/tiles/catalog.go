package tiles

import (
	"errors"
	"fmt"

	"github.com/annel0/layerworld/internal/vec"
)

// Index представляет значение, хранимое в клетке слоя.
// 0 означает пустую клетку; индексы каталога начинаются с 1.
type Index uint8

// Empty — пустая клетка
const Empty Index = 0

// Flags — битовый набор возможностей тайла
type Flags uint32

const (
	// AllowsLayerTransition разрешает переход между слоями с этого тайла
	AllowsLayerTransition Flags = 1 << 0
	// BlocksMovement запрещает вход фокуса на тайл
	BlocksMovement Flags = 1 << 1
)

// ErrMissingTile возвращается, когда обязательный тайл отсутствует в каталоге
var ErrMissingTile = errors.New("тайл отсутствует в каталоге")

// TextureRegion описывает область исходной текстуры в текселях
type TextureRegion struct {
	Offset vec.Vec2
	Size   vec.Vec2
}

// Descriptor неизменяемое описание тайла
type Descriptor struct {
	Name   string
	Region TextureRegion
	Flags  Flags
}

// Has проверяет наличие всех указанных флагов
func (d Descriptor) Has(f Flags) bool {
	return d.Flags&f == f
}

// AllowsLayerTransition сообщает, можно ли сменить слой, стоя на тайле
func (d Descriptor) AllowsLayerTransition() bool {
	return d.Has(AllowsLayerTransition)
}

// BlocksMovement сообщает, блокирует ли тайл перемещение
func (d Descriptor) BlocksMovement() bool {
	return d.Has(BlocksMovement)
}

// Catalog — реестр описаний тайлов. Строится один раз и далее только читается.
type Catalog struct {
	descriptors []Descriptor
}

// NewCatalog создаёт каталог из упорядоченного списка описаний.
// Дубликаты имён допустимы: при поиске по имени побеждает первый.
func NewCatalog(entries []Descriptor) *Catalog {
	descriptors := make([]Descriptor, len(entries))
	copy(descriptors, entries)
	return &Catalog{descriptors: descriptors}
}

// Len возвращает количество описаний
func (c *Catalog) Len() int {
	return len(c.descriptors)
}

// ByIndex возвращает описание по индексу клетки (с 1).
// Индекс 0 и индексы за пределами каталога дают false.
func (c *Catalog) ByIndex(i int) (Descriptor, bool) {
	if i <= 0 || i > len(c.descriptors) {
		return Descriptor{}, false
	}
	return c.descriptors[i-1], true
}

// ByName ищет описание по имени линейным проходом
func (c *Catalog) ByName(name string) (Descriptor, bool) {
	for _, d := range c.descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// IndexOf возвращает индекс клетки для первого описания с этим именем
func (c *Catalog) IndexOf(name string) (Index, bool) {
	for i, d := range c.descriptors {
		if d.Name == name {
			if i+1 > int(^Index(0)) {
				return Empty, false
			}
			return Index(i + 1), true
		}
	}
	return Empty, false
}

// MustByName возвращает описание, без которого система не может стартовать
func (c *Catalog) MustByName(name string) (Descriptor, error) {
	d, ok := c.ByName(name)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrMissingTile, name)
	}
	return d, nil
}

// Descriptors возвращает копию всех описаний в порядке каталога
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Имена тайлов, от которых зависит отображение мира
const (
	MarkerTileName = "player_idle"
	CursorTileName = "cursor"
)

// DefaultCatalog возвращает стандартный набор тайлов (атлас 128x128, тайл 16x16)
func DefaultCatalog() *Catalog {
	size := vec.Splat(16)
	region := func(x int) TextureRegion {
		return TextureRegion{Offset: vec.Vec2{X: x, Y: 0}, Size: size}
	}

	return NewCatalog([]Descriptor{
		{Name: "ground", Region: region(0)},
		{Name: "ladder", Region: region(16), Flags: AllowsLayerTransition},
		{Name: MarkerTileName, Region: region(32)},
		{Name: CursorTileName, Region: region(48)},
		{Name: "generator", Region: region(32)},
		{Name: "storage", Region: region(32)},
		{Name: "pipe_base", Region: region(32)},
		{Name: "pipe_connector", Region: region(32)},
	})
}
