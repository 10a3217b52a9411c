package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Sink receives security incidents from the isolation pipeline. Recording is
// fire-and-forget from the caller's point of view: a failing sink must never
// fail the request that produced the incident, so callers swallow the error
// after logging it locally.
type Sink interface {
	Record(ctx context.Context, incident Incident) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, incident Incident) error

func (f SinkFunc) Record(ctx context.Context, incident Incident) error {
	return f(ctx, incident)
}

// Stamp fills the generated fields of an incident if the caller left them
// empty: a unique id and the occurrence time.
func Stamp(incident Incident) Incident {
	if incident.ID == "" {
		incident.ID = uuid.New().String()
	}
	if incident.OccurredAt.IsZero() {
		incident.OccurredAt = time.Now()
	}
	return incident
}

type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a sink that writes incidents to structured logs. It is
// the default fallback when no persistent audit backend is wired, and the
// place async sinks dump incidents they could not deliver.
func NewSlogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogSink{logger: logger}
}

func (s *slogSink) Record(ctx context.Context, incident Incident) error {
	incident = Stamp(incident)
	if err := incident.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if incident.Severity == SeverityCritical {
		level = slog.LevelError
	}

	attrs := []slog.Attr{
		slog.String("incident_id", incident.ID),
		slog.String("kind", incident.Kind),
		slog.String("severity", string(incident.Severity)),
	}
	if incident.Operation != "" {
		attrs = append(attrs, slog.String("operation", incident.Operation))
	}
	if incident.Method != "" {
		attrs = append(attrs, slog.String("method", incident.Method), slog.String("path", incident.Path))
	}
	if incident.IP != "" {
		attrs = append(attrs, slog.String("ip", incident.IP))
	}
	if incident.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", incident.RequestID))
	}
	if incident.ResolvedTenant != "" {
		attrs = append(attrs, slog.String("resolved_tenant", incident.ResolvedTenant))
	}
	if incident.PrincipalTenant != "" {
		attrs = append(attrs, slog.String("principal_tenant", incident.PrincipalTenant))
	}
	if incident.PrincipalUser != "" {
		attrs = append(attrs, slog.String("principal_user", incident.PrincipalUser))
	}
	for k, v := range incident.Details {
		attrs = append(attrs, slog.String("detail_"+k, v))
	}

	s.logger.LogAttrs(ctx, level, "security incident", attrs...)
	return nil
}
