package session

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/annel0/layerworld/internal/vec"
	"gopkg.in/yaml.v3"
)

// ErrInvalidStep — шаг сценария не описывает ровно одно событие
var ErrInvalidStep = errors.New("некорректный шаг сценария")

// Step — одна запись сценария ввода
//
//	steps:
//	  - frame: 0
//	    resize: [96, 48]
//	  - frame: 3
//	    key: e
//	  - frame: 5
//	    click: [40, 20]
type Step struct {
	Frame  uint64  `yaml:"frame"`
	Key    string  `yaml:"key,omitempty"`
	Click  *[2]int `yaml:"click,omitempty"`
	Move   *[2]int `yaml:"move,omitempty"`
	Resize *[2]int `yaml:"resize,omitempty"`
}

// Script — события, привязанные к номерам кадров
type Script struct {
	byFrame map[uint64][]Event
	last    uint64
}

type scriptFile struct {
	Steps []Step `yaml:"steps"`
}

// LoadScript читает сценарий из YAML файла
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать сценарий %s: %w", path, err)
	}
	return ParseScript(data)
}

// ParseScript разбирает сценарий из YAML
func ParseScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("не удалось разобрать сценарий: %w", err)
	}
	return NewScript(f.Steps)
}

// NewScript строит сценарий из шагов. Шаги одного кадра сохраняют порядок записи.
func NewScript(steps []Step) (*Script, error) {
	s := &Script{byFrame: make(map[uint64][]Event)}

	sorted := make([]Step, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })

	for i, st := range sorted {
		e, err := st.event()
		if err != nil {
			return nil, fmt.Errorf("шаг %d (кадр %d): %w", i, st.Frame, err)
		}
		s.byFrame[st.Frame] = append(s.byFrame[st.Frame], e)
		s.last = max(s.last, st.Frame)
	}
	return s, nil
}

func (st Step) event() (Event, error) {
	var events []Event

	if st.Key != "" {
		k, err := ParseKey(st.Key)
		if err != nil {
			return nil, err
		}
		events = append(events, KeyDown{Key: k})
	}
	if st.Click != nil {
		events = append(events, PointerDown{Pos: vec.Vec2{X: st.Click[0], Y: st.Click[1]}})
	}
	if st.Move != nil {
		events = append(events, PointerMove{Pos: vec.Vec2{X: st.Move[0], Y: st.Move[1]}})
	}
	if st.Resize != nil {
		events = append(events, Resize{Size: vec.Vec2{X: st.Resize[0], Y: st.Resize[1]}})
	}

	if len(events) != 1 {
		return nil, fmt.Errorf("%w: ожидалось одно событие, получено %d", ErrInvalidStep, len(events))
	}
	return events[0], nil
}

// EventsFor возвращает события кадра frame
func (s *Script) EventsFor(frame uint64) []Event {
	if s == nil {
		return nil
	}
	return s.byFrame[frame]
}

// LastFrame возвращает номер последнего кадра, в котором есть события
func (s *Script) LastFrame() uint64 {
	if s == nil {
		return 0
	}
	return s.last
}
