// Package metrics exposes OpenTelemetry counters for authentication
// outcomes. All methods are safe on a nil receiver, so callers can wire
// metrics optionally.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Rejection reasons recorded on the rejections counter. Expiry, forgery and
// revocation all collapse to 401 at the HTTP boundary, so the counter is the
// only place the distinction survives.
const (
	ReasonExpired   = "expired"
	ReasonSignature = "signature"
	ReasonMalformed = "malformed"
	ReasonRevoked   = "revoked"
)

// AuthMetrics bundles the counters incremented by the session issuer and
// the guards.
type AuthMetrics struct {
	logins        metric.Int64Counter
	registrations metric.Int64Counter
	refreshes     metric.Int64Counter
	rejections    metric.Int64Counter
}

// New registers the counters on the given meter.
func New(meter metric.Meter) (*AuthMetrics, error) {
	logins, err := meter.Int64Counter("auth.logins",
		metric.WithDescription("successful logins"))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	registrations, err := meter.Int64Counter("auth.registrations",
		metric.WithDescription("successful registrations"))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	refreshes, err := meter.Int64Counter("auth.refreshes",
		metric.WithDescription("successful token rotations"))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	rejections, err := meter.Int64Counter("auth.rejections",
		metric.WithDescription("rejected credentials and tokens, by reason"))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return &AuthMetrics{
		logins:        logins,
		registrations: registrations,
		refreshes:     refreshes,
		rejections:    rejections,
	}, nil
}

func (m *AuthMetrics) LoginSucceeded(ctx context.Context) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1)
}

func (m *AuthMetrics) RegistrationSucceeded(ctx context.Context) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1)
}

func (m *AuthMetrics) TokenRotated(ctx context.Context) {
	if m == nil {
		return
	}
	m.refreshes.Add(ctx, 1)
}

func (m *AuthMetrics) Rejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
