package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/annel0/layerworld/internal/logging"
	"github.com/annel0/layerworld/internal/tiles"
	"github.com/annel0/layerworld/internal/vec"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath — путь к файлу конфигурации, если он не задан флагом
	EnvConfigPath = "LAYERWORLD_CONFIG"
	// EnvMetricsAddr — адрес /metrics, если он не задан в файле
	EnvMetricsAddr = "LAYERWORLD_METRICS_ADDR"
	// EnvLogLevel — уровень консольного лога, если он не задан в файле
	EnvLogLevel = "LAYERWORLD_LOG_LEVEL"

	BackingDense  = "dense"
	BackingSparse = "sparse"

	defaultMetricsAddr = ":2112"
	defaultLogLevel    = "INFO"
)

// ErrInvalidConfig — значение конфигурации вне допустимого диапазона
var ErrInvalidConfig = errors.New("некорректная конфигурация")

// Config корневая структура конфигурации приложения
type Config struct {
	World     WorldConfig     `yaml:"world"`
	View      ViewConfig      `yaml:"view"`
	Session   SessionConfig   `yaml:"session"`
	Atlas     AtlasConfig     `yaml:"atlas"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type WorldConfig struct {
	Layers  int    `yaml:"layers"`
	Scale   int    `yaml:"scale"`
	Backing string `yaml:"backing"` // dense | sparse
	Catalog string `yaml:"catalog"` // YAML каталог тайлов; пусто — встроенный
}

type ViewConfig struct {
	Zoom     float64           `yaml:"zoom"`
	EaseRate float64           `yaml:"ease_rate"`
	Screen   [2]int            `yaml:"screen"`
	Glyphs   map[string]string `yaml:"glyphs"` // Символы текстового кадра по имени тайла
}

type SessionConfig struct {
	TileCycle int    `yaml:"tile_cycle"`
	Marker    string `yaml:"marker"`
	Cursor    string `yaml:"cursor"`
	Script    string `yaml:"script"`
}

type AtlasConfig struct {
	Size          [2]int `yaml:"size"`
	TexelsPerTile int    `yaml:"texels_per_tile"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Layers:  6,
			Scale:   2,
			Backing: BackingDense,
		},
		View: ViewConfig{
			Zoom:     6,
			EaseRate: 1.0 / 60.0,
			Screen:   [2]int{96, 48},
		},
		Session: SessionConfig{
			TileCycle: 3,
			Marker:    tiles.MarkerTileName,
			Cursor:    tiles.CursorTileName,
		},
		Atlas: AtlasConfig{
			Size:          [2]int{tiles.DefaultAtlas.Size.X, tiles.DefaultAtlas.Size.Y},
			TexelsPerTile: tiles.DefaultAtlas.TexelsPerTile,
		},
		Logging: LoggingConfig{
			Dir:       "logs",
			FileLevel: "DEBUG",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "layerworld",
		},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV LAYERWORLD_CONFIG; если и он пуст,
// возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
		if path == "" {
			return cfg, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфигурацию %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать конфигурацию %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет диапазоны значений
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.World.Layers < 1:
		return invalid("world.layers = %d, нужно >= 1", c.World.Layers)
	case c.World.Scale < 2:
		return invalid("world.scale = %d, нужно >= 2", c.World.Scale)
	case c.World.Backing != BackingDense && c.World.Backing != BackingSparse:
		return invalid("world.backing = %q, ожидалось dense или sparse", c.World.Backing)
	case c.View.Zoom <= 0:
		return invalid("view.zoom = %g, нужно > 0", c.View.Zoom)
	case c.View.EaseRate < 0 || c.View.EaseRate > 1:
		return invalid("view.ease_rate = %g, нужно в [0, 1]", c.View.EaseRate)
	case c.View.Screen[0] <= 0 || c.View.Screen[1] <= 0:
		return invalid("view.screen = %v, нужны положительные размеры", c.View.Screen)
	case c.Session.TileCycle < 1 || c.Session.TileCycle > 256:
		return invalid("session.tile_cycle = %d, нужно в [1, 256]", c.Session.TileCycle)
	case c.Atlas.Size[0] <= 0 || c.Atlas.Size[1] <= 0 || c.Atlas.TexelsPerTile <= 0:
		return invalid("atlas = %v/%d, нужны положительные размеры", c.Atlas.Size, c.Atlas.TexelsPerTile)
	}

	for name, glyph := range c.View.Glyphs {
		if len([]rune(glyph)) != 1 {
			return invalid("view.glyphs[%s] = %q, нужен ровно один символ", name, glyph)
		}
	}

	if _, err := c.Logging.GetConsoleLevel(); err != nil {
		return invalid("logging.console_level: %v", err)
	}
	if c.Logging.FileLevel != "" {
		if _, err := logging.ParseLevel(c.Logging.FileLevel); err != nil {
			return invalid("logging.file_level: %v", err)
		}
	}
	return nil
}

// ScreenSize возвращает размер экрана как вектор
func (v *ViewConfig) ScreenSize() vec.Vec2 {
	return vec.Vec2{X: v.Screen[0], Y: v.Screen[1]}
}

// GlyphRunes возвращает переопределения символов текстового кадра
func (v *ViewConfig) GlyphRunes() map[string]rune {
	out := make(map[string]rune, len(v.Glyphs))
	for name, glyph := range v.Glyphs {
		if r := []rune(glyph); len(r) > 0 {
			out[name] = r[0]
		}
	}
	return out
}

// Layout возвращает раскладку атласа
func (a *AtlasConfig) Layout() tiles.Atlas {
	return tiles.Atlas{
		Size:          vec.Vec2{X: a.Size[0], Y: a.Size[1]},
		TexelsPerTile: a.TexelsPerTile,
	}
}

// GetAddr возвращает адрес /metrics с приоритетом: config -> env -> default
func (m *MetricsConfig) GetAddr() string {
	return getStringWithEnvFallback(m.Addr, EnvMetricsAddr, defaultMetricsAddr)
}

// GetConsoleLevel возвращает уровень консольного лога с приоритетом: config -> env -> default
func (l *LoggingConfig) GetConsoleLevel() (logging.LogLevel, error) {
	return logging.ParseLevel(getStringWithEnvFallback(l.ConsoleLevel, EnvLogLevel, defaultLogLevel))
}

// GetFileLevel возвращает уровень файлового лога; пусто — DEBUG
func (l *LoggingConfig) GetFileLevel() logging.LogLevel {
	if lvl, err := logging.ParseLevel(l.FileLevel); err == nil {
		return lvl
	}
	return logging.DEBUG
}

// getStringWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getStringWithEnvFallback(configValue, envVar, defaultValue string) string {
	if v := strings.TrimSpace(configValue); v != "" {
		return v
	}

	if envVal := strings.TrimSpace(os.Getenv(envVar)); envVal != "" {
		return envVal
	}

	return defaultValue
}
