package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/layerworld/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `
steps:
  - frame: 2
    key: E
  - frame: 0
    resize: [96, 48]
  - frame: 2
    click: [10, 20]
  - frame: 5
    move: [1, 2]
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(sampleScript))
	require.NoError(t, err)

	assert.Equal(t, []Event{Resize{Size: vec.Vec2{X: 96, Y: 48}}}, s.EventsFor(0))
	assert.Empty(t, s.EventsFor(1))
	assert.Equal(t, []Event{
		KeyDown{Key: KeyLayerUp},
		PointerDown{Pos: vec.Vec2{X: 10, Y: 20}},
	}, s.EventsFor(2), "события одного кадра сохраняют порядок записи")
	assert.Equal(t, []Event{PointerMove{Pos: vec.Vec2{X: 1, Y: 2}}}, s.EventsFor(5))
	assert.Equal(t, uint64(5), s.LastFrame())
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown key", "steps:\n  - frame: 1\n    key: z\n", ErrUnknownKey},
		{"two events", "steps:\n  - frame: 1\n    key: w\n    click: [1, 1]\n", ErrInvalidStep},
		{"no events", "steps:\n  - frame: 1\n", ErrInvalidStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "ошибка: %v", err)
		})
	}

	_, err := ParseScript([]byte("steps: [oops"))
	assert.Error(t, err)
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Len(t, s.EventsFor(2), 2)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNilScript(t *testing.T) {
	var s *Script
	assert.Nil(t, s.EventsFor(0))
	assert.Equal(t, uint64(0), s.LastFrame())
}

func TestParseKey(t *testing.T) {
	for _, k := range []Key{KeyMoveUp, KeyMoveDown, KeyMoveRight, KeyMoveLeft, KeyLayerDown, KeyLayerUp} {
		got, err := ParseKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKey(" Q ")
	require.NoError(t, err)
	assert.Equal(t, KeyLayerDown, got)
}
