package observability

import (
	"context"
	"time"

	"github.com/annel0/layerworld/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName — имя трассировщика кадров
const InstrumentationName = "github.com/annel0/layerworld"

// Ключи атрибутов ресурса, описывающих раскладку мира
const (
	AttrWorldLayers  = attribute.Key("layerworld.world.layers")
	AttrWorldScale   = attribute.Key("layerworld.world.scale")
	AttrWorldBacking = attribute.Key("layerworld.world.backing")
)

// Shutdown завершает работу провайдера трассировки
type Shutdown func(context.Context) error

// Settings описывает процесс, чьи кадры трассируются
type Settings struct {
	ServiceName string
	Layers      int
	Scale       int
	Backing     string // dense | sparse
}

// Resource возвращает ресурс трассировки: имя сервиса и раскладка мира.
// Пустой Backing и нулевые размеры в ресурс не попадают.
func (s Settings) Resource() *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(s.ServiceName)}
	if s.Layers > 0 {
		attrs = append(attrs, AttrWorldLayers.Int(s.Layers))
	}
	if s.Scale > 0 {
		attrs = append(attrs, AttrWorldScale.Int(s.Scale))
	}
	if s.Backing != "" {
		attrs = append(attrs, AttrWorldBacking.String(s.Backing))
	}
	return resource.NewSchemaless(attrs...)
}

// InitTelemetry поднимает OTLP/HTTP экспорт спанов кадров (по умолчанию localhost:4318)
// и делает провайдер глобальным. Возвращённый Shutdown сбрасывает буфер спанов.
func InitTelemetry(ctx context.Context, s Settings) (Shutdown, error) {
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(s.Resource()),
	)
	otel.SetTracerProvider(tp)

	logging.Info("📡 Трассировка кадров: OTLP → 4318, service=%s, слоёв %d, хранилище %s",
		s.ServiceName, s.Layers, s.Backing)
	return shutdownWithTimeout(tp), nil
}

// InitLocal устанавливает провайдер без экспорта: спаны создаются, но никуда не уходят
func InitLocal(s Settings) Shutdown {
	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(s.Resource()))
	otel.SetTracerProvider(tp)
	return shutdownWithTimeout(tp)
}

func shutdownWithTimeout(tp *sdktrace.TracerProvider) Shutdown {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
}

// Tracer возвращает трассировщик кадров из глобального провайдера
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
