// Package metrics экспортирует счётчики цикла кадров в Prometheus
// и собирает диагностику процесса.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/annel0/layerworld/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "layerworld"

// Collectors — набор метрик сессии. Нулевой указатель допустим:
// все методы тогда ничего не делают.
type Collectors struct {
	frames       prometheus.Counter
	wraps        prometheus.Counter
	layerShifts  prometheus.Counter
	tileEdits    prometheus.Counter
	blockedMoves prometheus.Counter

	drawCalls     prometheus.Histogram
	frameDuration prometheus.Histogram

	activeLayer prometheus.Gauge
	storedCells prometheus.Gauge
}

// New создаёт метрики и регистрирует их в reg.
// Если reg == nil, используется глобальный регистр Prometheus.
func New(reg prometheus.Registerer) (*Collectors, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collectors{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Общее число отрисованных кадров.",
		}),
		wraps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_wraps_total",
			Help:      "Сколько раз фокус переходил через край слоя.",
		}),
		layerShifts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layer_shifts_total",
			Help:      "Успешные переходы между слоями.",
		}),
		tileEdits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_edits_total",
			Help:      "Изменения тайлов по нажатию указателя.",
		}),
		blockedMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocked_moves_total",
			Help:      "Шаги, отклонённые непроходимым тайлом.",
		}),
		drawCalls: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_draw_calls",
			Help:      "Количество вызовов DrawQuad за кадр.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 8),
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Длительность обработки кадра.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.033, 0.1},
		}),
		activeLayer: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_layer",
			Help:      "Индекс активного слоя.",
		}),
		storedCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_cells",
			Help:      "Хранимые клетки всех слоёв.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.frames, c.wraps, c.layerShifts, c.tileEdits, c.blockedMoves,
		c.drawCalls, c.frameDuration, c.activeLayer, c.storedCells,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveFrame учитывает один кадр
func (c *Collectors) ObserveFrame(drawCalls int, d time.Duration) {
	if c == nil {
		return
	}
	c.frames.Inc()
	c.drawCalls.Observe(float64(drawCalls))
	c.frameDuration.Observe(d.Seconds())
}

// IncWrap учитывает переход фокуса через край слоя
func (c *Collectors) IncWrap() {
	if c != nil {
		c.wraps.Inc()
	}
}

// IncLayerShift учитывает смену слоя
func (c *Collectors) IncLayerShift() {
	if c != nil {
		c.layerShifts.Inc()
	}
}

// IncTileEdit учитывает изменение тайла
func (c *Collectors) IncTileEdit() {
	if c != nil {
		c.tileEdits.Inc()
	}
}

// IncBlockedMove учитывает отклонённый шаг
func (c *Collectors) IncBlockedMove() {
	if c != nil {
		c.blockedMoves.Inc()
	}
}

// SetWorldState обновляет индикаторы состояния мира
func (c *Collectors) SetWorldState(activeLayer, storedCells int) {
	if c == nil {
		return
	}
	c.activeLayer.Set(float64(activeLayer))
	c.storedCells.Set(float64(storedCells))
}

// StartHTTP запускает HTTP-эндпоинт /metrics на указанном адресе (например, ":2112").
// Метод неблокирующий: сервер работает в отдельной горутине до Shutdown.
func StartHTTP(addr string, g prometheus.Gatherer) *http.Server {
	if g == nil {
		g = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger := logging.GetMetricsLogger()
		logger.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return srv
}
