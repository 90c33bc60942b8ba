// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/labrelay/internal/cardinal"
	"github.com/jackzampolin/labrelay/internal/labs"
	"github.com/jackzampolin/labrelay/internal/metrics"
)

// Extractor forwards a document to the extraction vendor.
// *cardinal.Client satisfies it.
type Extractor interface {
	Extract(ctx context.Context, doc cardinal.Document) (*cardinal.Result, error)
}

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Extractor Extractor
	Ranges    *labs.Table
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ExtractorFrom extracts the vendor client from context.
func ExtractorFrom(ctx context.Context) Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Extractor
	}
	return nil
}

// RangesFrom extracts the reference range table from context.
func RangesFrom(ctx context.Context) *labs.Table {
	if s := ServicesFrom(ctx); s != nil {
		return s.Ranges
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// MetricsFrom extracts the request metrics recorder from context.
func MetricsFrom(ctx context.Context) *metrics.Recorder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Metrics
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID attaches a per-request identifier to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request identifier, or "" if none was set.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
