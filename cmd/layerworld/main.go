package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/layerworld/internal/config"
	"github.com/annel0/layerworld/internal/logging"
	"github.com/annel0/layerworld/internal/metrics"
	"github.com/annel0/layerworld/internal/observability"
	"github.com/annel0/layerworld/internal/render"
	"github.com/annel0/layerworld/internal/session"
	"github.com/annel0/layerworld/internal/tiles"
	"github.com/annel0/layerworld/internal/vec"
	"github.com/annel0/layerworld/internal/view"
	"github.com/annel0/layerworld/internal/world"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	frameInterval   = time.Second / 60
	diagnosticEvery = 10 * time.Second
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (или env LAYERWORLD_CONFIG)")
	frames := flag.Uint64("frames", 0, "количество кадров; 0 — до сигнала завершения")
	scriptPath := flag.String("script", "", "YAML сценарий ввода")
	atlasSize := flag.Int("atlas-size", tiles.DefaultAtlas.Size.X, "реальный размер атласа в текселях")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := initLogging(cfg); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *scriptPath == "" {
		*scriptPath = cfg.Session.Script
	}

	if err := run(ctx, cfg, *frames, *scriptPath, vec.Splat(*atlasSize)); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		log.Fatalf("❌ %v", err)
	}
}

func initLogging(cfg *config.Config) error {
	consoleLevel, err := cfg.Logging.GetConsoleLevel()
	if err != nil {
		return err
	}

	fileLevel := cfg.Logging.GetFileLevel()
	logging.Configure(logging.Options{
		Dir:          cfg.Logging.Dir,
		ConsoleLevel: consoleLevel,
		FileLevel:    fileLevel,
	})
	logging.GetLoggerManager().ApplyLevels(consoleLevel, fileLevel)
	return logging.InitDefaultLogger("layerworld")
}

func loadCatalog(path string) (*tiles.Catalog, error) {
	if path == "" {
		return tiles.DefaultCatalog(), nil
	}
	return tiles.LoadCatalog(path)
}

func buildWorld(cfg config.WorldConfig, catalog *tiles.Catalog) (session.World, error) {
	if cfg.Backing == config.BackingSparse {
		w, err := world.NewSparse(catalog, cfg.Layers, cfg.Scale)
		if err != nil {
			return nil, err
		}
		return w, nil
	}

	w, err := world.NewDense(catalog, cfg.Layers, cfg.Scale)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func run(ctx context.Context, cfg *config.Config, frames uint64, scriptPath string, atlasSize vec.Vec2) error {
	logging.Info("🌍 Запуск layerworld: слоёв %d, масштаб %d, хранилище %s",
		cfg.World.Layers, cfg.World.Scale, cfg.World.Backing)

	// === КАТАЛОГ И АТЛАС ===
	catalog, err := loadCatalog(cfg.World.Catalog)
	if err != nil {
		return fmt.Errorf("каталог тайлов: %w", err)
	}

	atlas := cfg.Atlas.Layout()
	if err := atlas.Validate(atlasSize, catalog); err != nil {
		return err
	}
	logging.Debug("Каталог: %d тайлов, атлас %dx%d", catalog.Len(), atlas.Size.X, atlas.Size.Y)

	// === ТЕЛЕМЕТРИЯ И МЕТРИКИ ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, observability.Settings{
			ServiceName: cfg.Telemetry.ServiceName,
			Layers:      cfg.World.Layers,
			Scale:       cfg.World.Scale,
			Backing:     cfg.World.Backing,
		})
		if err != nil {
			return fmt.Errorf("телеметрия: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logging.Warn("Ошибка остановки телеметрии: %v", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	collectors, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("метрики: %w", err)
	}
	if cfg.Metrics.Enabled {
		srv := metrics.StartHTTP(cfg.Metrics.GetAddr(), registry)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// === МИР, КАМЕРА, СЕССИЯ ===
	w, err := buildWorld(cfg.World, catalog)
	if err != nil {
		return fmt.Errorf("мир: %w", err)
	}

	popts := view.DefaultOptions()
	popts.Screen = cfg.View.ScreenSize()
	popts.Zoom = cfg.View.Zoom
	popts.EaseRate = cfg.View.EaseRate
	popts.Marker = cfg.Session.Marker
	projector, err := view.NewProjector(catalog, atlas, popts)
	if err != nil {
		return fmt.Errorf("камера: %w", err)
	}

	sopts := session.DefaultOptions(catalog)
	sopts.Cursor = cfg.Session.Cursor
	sopts.TileCycle = cfg.Session.TileCycle
	sopts.Metrics = collectors
	sess, err := session.New(w, projector, sopts)
	if err != nil {
		return fmt.Errorf("сессия: %w", err)
	}

	var script *session.Script
	if scriptPath != "" {
		if script, err = session.LoadScript(scriptPath); err != nil {
			return err
		}
		logging.Info("📜 Сценарий %s: последний кадр %d", scriptPath, script.LastFrame())
	}

	text := render.NewText(render.GlyphsFromCatalog(catalog, cfg.View.GlyphRunes()))

	// === ЦИКЛ КАДРОВ ===
	stats := metrics.NewProcessStats()
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	lastDiag := time.Now()

	logging.Info("✅ Сессия %s запущена", sess.ID)

loop:
	for {
		select {
		case <-ctx.Done():
			logging.Info("📡 Получен сигнал завершения, остановка...")
			break loop

		case <-ticker.C:
			res := sess.Tick(ctx, script.EventsFor(sess.Frame()), text)
			if res.Wraps > 0 || res.LayerShifts > 0 {
				logging.Debug("Кадр %d: переходов через край %d, смен слоя %d",
					res.Frame, res.Wraps, res.LayerShifts)
			}

			if time.Since(lastDiag) >= diagnosticEvery {
				logging.Info("📊 Кадр %d, слой %d, клеток %d, %s",
					res.Frame, w.ActiveLayer(), w.StoredCells(), stats.Snapshot())
				lastDiag = time.Now()
			}

			if frames > 0 && sess.Frame() >= frames {
				break loop
			}
		}
	}

	fmt.Fprintln(os.Stdout, text.String())
	logging.Info("👋 Остановлено после %d кадров (%s)", sess.Frame(), stats.Uptime())
	return nil
}
