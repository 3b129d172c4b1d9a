package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		err  bool
	}{
		{"trace", TRACE, false},
		{"DEBUG", DEBUG, false},
		{"", INFO, false},
		{"warning", WARN, false},
		{" error ", ERROR, false},
		{"loud", INFO, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if tc.err {
			assert.Error(t, err, "уровень %q должен быть отклонён", tc.in)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got, "уровень для %q", tc.in)
	}
}

func TestLogger_ConsoleThreshold(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLoggerWithOptions("test", Options{ConsoleLevel: WARN, Console: &buf})
	require.NoError(t, err)

	l.Info("не должно попасть")
	l.Warn("предупреждение %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "не должно попасть")
	assert.Contains(t, out, "[WARN] [test] предупреждение 1")
	assert.False(t, l.Enabled(DEBUG), "DEBUG не должен быть включён без файла")
}

func TestLogger_FileSink(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l, err := NewLoggerWithOptions("world", Options{
		Dir:          dir,
		ConsoleLevel: ERROR,
		FileLevel:    DEBUG,
		Console:      &buf,
	})
	require.NoError(t, err)

	l.Debug("отладка")
	require.NoError(t, l.Close())

	files, err := filepath.Glob(filepath.Join(dir, "world_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1, "должен быть создан один файл логов")

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [world] отладка")
	assert.Empty(t, buf.String(), "консоль не должна получать DEBUG")
}

func TestDefaultLogger_NoopBeforeInit(t *testing.T) {
	CloseDefaultLogger()
	assert.NotPanics(t, func() {
		Info("ничего не произойдёт")
		Error("и здесь тоже")
	})
}

func TestLoggerManager_Components(t *testing.T) {
	Configure(Options{ConsoleLevel: INFO, FileLevel: DEBUG})
	lm := &LoggerManager{loggers: make(map[Component]*Logger)}

	world, err := lm.GetLogger(ComponentWorld)
	require.NoError(t, err)
	again, err := lm.GetLogger(ComponentWorld)
	require.NoError(t, err)
	assert.Same(t, world, again, "логгер компонента создаётся один раз")

	session := lm.MustGetLogger(ComponentSession)
	assert.Equal(t, []Component{ComponentSession, ComponentWorld}, lm.ListComponents())

	require.NoError(t, lm.SetLogLevel(ComponentWorld, TRACE, TRACE))
	assert.True(t, world.Enabled(TRACE))
	assert.False(t, session.Enabled(TRACE))
	assert.Error(t, lm.SetLogLevel(ComponentView, INFO, INFO))

	// Уровни из конфигурации доходят до уже созданных логгеров
	lm.ApplyLevels(ERROR, ERROR)
	assert.False(t, world.Enabled(WARN))
	assert.False(t, session.Enabled(INFO))
	assert.True(t, session.Enabled(ERROR))

	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}
