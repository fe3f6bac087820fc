package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/hashnav/pkg/hashroute"
)

const defaultTracerName = "hashnav"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "hashnav").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// IncludeFragment records the raw fragment as an attribute.
	// Fragments may carry user data, so this is disabled by default.
	IncludeFragment bool

	// Filter determines which events to trace. Nil traces everything.
	Filter func(ev hashroute.Event) bool

	// AttributeExtractor adds custom attributes per event.
	AttributeExtractor func(ev hashroute.Event) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider used instead of otel.GetTracerProvider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeFragment records the raw fragment on spans.
func WithIncludeFragment(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeFragment = include
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(ev hashroute.Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ev hashroute.Event) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry returns an observer that records one span per navigator
// operation.
func OpenTelemetry(opts ...OTelOption) hashroute.Observer {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return hashroute.ObserverFunc(func(ev hashroute.Event) {
		if config.Filter != nil && !config.Filter(ev) {
			return
		}

		attrs := []attribute.KeyValue{
			attribute.String("hashnav.op", string(ev.Op)),
			attribute.String("hashnav.page", ev.State.PageKey),
			attribute.Int("hashnav.var_count", ev.State.Vars.Len()),
			attribute.Int("hashnav.fragment_length", len(ev.Fragment)),
		}
		if config.IncludeFragment {
			attrs = append(attrs, attribute.String("hashnav.fragment", ev.Fragment))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ev)...)
		}

		_, span := config.tracer.Start(
			context.Background(),
			"hashnav."+string(ev.Op),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(ev.Start),
		)

		if ev.Op == hashroute.OpRead && ev.Report.Degraded() {
			span.AddEvent("hashnav.degraded", trace.WithAttributes(
				attribute.Int("hashnav.dropped_segments", ev.Report.Dropped),
				attribute.Int("hashnav.decode_fallbacks", ev.Report.DecodeFallbacks),
			))
		}
		if ev.Report.Duplicates > 0 {
			span.SetAttributes(attribute.Int("hashnav.duplicate_keys", ev.Report.Duplicates))
		}
		span.SetStatus(codes.Ok, "")
		span.End(trace.WithTimestamp(ev.Start.Add(ev.Duration)))
	})
}
