// Package session связывает мир, проектор и ввод в один цикл кадров.
//
// Всё состояние кадра хранится в Session; каждый вызов Tick применяет
// накопленные события и рисует ровно один кадр.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/layerworld/internal/logging"
	"github.com/annel0/layerworld/internal/metrics"
	"github.com/annel0/layerworld/internal/observability"
	"github.com/annel0/layerworld/internal/tiles"
	"github.com/annel0/layerworld/internal/vec"
	"github.com/annel0/layerworld/internal/view"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultTileCycle — нажатие переключает тайл по кругу 0 → 1 → 2 → 0
	DefaultTileCycle = 3
	// MaxTileCycle — все значения tiles.Index
	MaxTileCycle = 256
)

// ErrInvalidTileCycle — длина цикла не помещается в tiles.Index
var ErrInvalidTileCycle = errors.New("некорректная длина цикла тайлов")

// World — операции мира, которые нужны сессии
type World interface {
	view.Source

	LayerCount() int
	LayerSide(layer int) int
	StoredCells() int
	Tile(c vec.Vec2) (tiles.Index, bool)
	SetTile(c vec.Vec2, v tiles.Index)
	MoveFocus(delta vec.Vec2Float) bool
	ShiftLayer(dir int) bool
}

// Options задаёт параметры сессии
type Options struct {
	Catalog   *tiles.Catalog
	Cursor    string // Имя спрайта курсора
	TileCycle int

	Metrics *metrics.Collectors // nil — без метрик
	Tracer  trace.Tracer        // nil — глобальный трассировщик
}

// DefaultOptions возвращает параметры по умолчанию для каталога c
func DefaultOptions(c *tiles.Catalog) Options {
	return Options{
		Catalog:   c,
		Cursor:    tiles.CursorTileName,
		TileCycle: DefaultTileCycle,
	}
}

// TickResult — итог одного кадра
type TickResult struct {
	Frame        uint64
	Wraps        int
	LayerShifts  int
	TileEdits    int
	BlockedMoves int
	Stats        view.FrameStats
	DrawCalls    int // Вызовы DrawQuad, включая курсор
	Duration     time.Duration
}

// Session — состояние цикла кадров
type Session struct {
	ID string

	world     World
	projector *view.Projector
	cursor    tiles.Descriptor
	tileCycle int

	pointer vec.Vec2
	frame   uint64

	metrics *metrics.Collectors
	tracer  trace.Tracer
	logger  *logging.Logger
}

// New создаёт сессию. Отсутствие спрайта курсора в каталоге и цикл длиннее
// MaxTileCycle — ошибки запуска.
func New(w World, p *view.Projector, opts Options) (*Session, error) {
	cursor, err := opts.Catalog.MustByName(opts.Cursor)
	if err != nil {
		return nil, err
	}

	cycle := opts.TileCycle
	if cycle <= 0 {
		cycle = DefaultTileCycle
	}
	if cycle > MaxTileCycle {
		return nil, fmt.Errorf("%w: %d, максимум %d", ErrInvalidTileCycle, cycle, MaxTileCycle)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = observability.Tracer()
	}

	s := &Session{
		ID:        uuid.NewString(),
		world:     w,
		projector: p,
		cursor:    cursor,
		tileCycle: cycle,
		metrics:   opts.Metrics,
		tracer:    tracer,
		logger:    logging.GetSessionLogger(),
	}

	s.logger.Info("Сессия %s создана: слоёв %d, активный %d", s.ID, w.LayerCount(), w.ActiveLayer())
	return s, nil
}

// Frame возвращает номер следующего кадра
func (s *Session) Frame() uint64 { return s.frame }

// Projector возвращает проектор сессии
func (s *Session) Projector() *view.Projector { return s.projector }

// Pointer возвращает последнюю позицию указателя
func (s *Session) Pointer() vec.Vec2 { return s.pointer }

// Tick применяет события по порядку и рисует кадр в r
func (s *Session) Tick(ctx context.Context, events []Event, r view.Renderer) TickResult {
	start := time.Now()
	_, span := s.tracer.Start(ctx, "session.tick",
		trace.WithAttributes(
			attribute.String("session.id", s.ID),
			attribute.Int64("session.frame", int64(s.frame)),
			attribute.Int("session.events", len(events)),
		))
	defer span.End()

	res := TickResult{Frame: s.frame}
	for _, e := range events {
		s.apply(e, &res)
	}

	res.Stats = s.render(r)
	res.DrawCalls = res.Stats.DrawCalls() + 1
	res.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("world.active_layer", s.world.ActiveLayer()),
		attribute.Int("frame.draw_calls", res.DrawCalls),
	)

	s.metrics.ObserveFrame(res.DrawCalls, res.Duration)
	s.metrics.SetWorldState(s.world.ActiveLayer(), s.world.StoredCells())

	s.frame++
	return res
}

func (s *Session) apply(e Event, res *TickResult) {
	switch ev := e.(type) {
	case Resize:
		s.projector.Screen = ev.Size
		s.logger.Debug("Размер экрана: %dx%d", ev.Size.X, ev.Size.Y)

	case PointerMove:
		s.pointer = ev.Pos

	case PointerDown:
		s.pointer = ev.Pos
		if s.cycleTile(s.projector.CellAt(ev.Pos)) {
			res.TileEdits++
			s.metrics.IncTileEdit()
		}

	case KeyDown:
		if delta, ok := ev.Key.moveDelta(); ok {
			wrapped, blocked := s.move(delta)
			if wrapped {
				res.Wraps++
				s.metrics.IncWrap()
			}
			if blocked {
				res.BlockedMoves++
				s.metrics.IncBlockedMove()
			}
			return
		}
		if dir, ok := ev.Key.layerDir(); ok && s.shift(dir) {
			res.LayerShifts++
			s.metrics.IncLayerShift()
		}
	}
}

// cycleTile переключает значение клетки на следующее по кругу
func (s *Session) cycleTile(c vec.Vec2) bool {
	v, ok := s.world.Tile(c)
	if !ok {
		return false
	}
	next := tiles.Index((int(v) + 1) % s.tileCycle)
	s.world.SetTile(c, next)
	s.logger.Debug("Тайл %v: %d → %d", s.world.Wrap(c), v, next)
	return true
}

// move сдвигает фокус на один шаг. Непроходимый тайл в точке назначения отменяет шаг.
// При переходе через край камера переносится вместе с фокусом.
func (s *Session) move(delta vec.Vec2) (wrapped, blocked bool) {
	step := delta.ToFloat()
	prev := s.world.Focus()

	dest := prev.Add(step).Floor()
	if d, ok := s.world.TileDescriptor(dest); ok && d.BlocksMovement() {
		s.logger.Debug("Шаг в %v отклонён тайлом %q", s.world.Wrap(dest), d.Name)
		return false, true
	}

	if !s.world.MoveFocus(step) {
		return false, false
	}

	jump := s.world.Focus().Sub(prev).Sub(step)
	s.projector.Camera = s.projector.Camera.Add(jump)
	return true, false
}

// shift меняет слой, если тайл под фокусом это разрешает.
// Камера сохраняет смещение относительно клетки фокуса.
func (s *Session) shift(dir int) bool {
	prevCell := s.world.Focus().Floor()

	d, ok := s.world.TileDescriptor(prevCell)
	if !ok || !d.AllowsLayerTransition() {
		return false
	}

	offset := s.projector.Camera.Sub(prevCell.ToFloat())
	if !s.world.ShiftLayer(dir) {
		return false
	}

	s.projector.Camera = s.world.Focus().Floor().ToFloat().Add(offset)
	s.logger.Info("Сессия %s: слой %d", s.ID, s.world.ActiveLayer())
	return true
}

// render рисует мир и курсор поверх него
func (s *Session) render(r view.Renderer) view.FrameStats {
	stats := s.projector.Render(s.world, r)
	r.DrawQuad(s.projector.QuadFor(s.cursor, s.projector.CellAt(s.pointer)))
	return stats
}
