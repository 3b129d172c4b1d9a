package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/annel0/layerworld/internal/vec"
)

// ErrUnknownKey — имя клавиши не распознано
var ErrUnknownKey = errors.New("неизвестная клавиша")

// Key — клавиша управления
type Key int

const (
	KeyNone Key = iota
	KeyMoveUp
	KeyMoveDown
	KeyMoveRight
	KeyMoveLeft
	KeyLayerDown
	KeyLayerUp
)

var keyNames = map[Key]string{
	KeyMoveUp:    "w",
	KeyMoveDown:  "s",
	KeyMoveRight: "d",
	KeyMoveLeft:  "a",
	KeyLayerDown: "q",
	KeyLayerUp:   "e",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "none"
}

// ParseKey разбирает имя клавиши (W/A/S/D/Q/E, регистр не важен)
func ParseKey(s string) (Key, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range keyNames {
		if name == s {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// moveDelta возвращает шаг фокуса для клавиши движения
func (k Key) moveDelta() (vec.Vec2, bool) {
	switch k {
	case KeyMoveUp:
		return vec.Vec2{X: 0, Y: 1}, true
	case KeyMoveDown:
		return vec.Vec2{X: 0, Y: -1}, true
	case KeyMoveRight:
		return vec.Vec2{X: 1, Y: 0}, true
	case KeyMoveLeft:
		return vec.Vec2{X: -1, Y: 0}, true
	}
	return vec.Vec2{}, false
}

// layerDir возвращает направление смены слоя для Q/E
func (k Key) layerDir() (int, bool) {
	switch k {
	case KeyLayerDown:
		return -1, true
	case KeyLayerUp:
		return 1, true
	}
	return 0, false
}

// Event — входное событие кадра
type Event interface {
	isEvent()
}

// Resize — изменение размера экрана
type Resize struct {
	Size vec.Vec2
}

// PointerDown — нажатие указателя в пикселях экрана
type PointerDown struct {
	Pos vec.Vec2
}

// PointerMove — перемещение указателя
type PointerMove struct {
	Pos vec.Vec2
}

// KeyDown — нажатие клавиши
type KeyDown struct {
	Key Key
}

func (Resize) isEvent()      {}
func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (KeyDown) isEvent()     {}
