package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew(t *testing.T) {
	m, err := New(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.LoginSucceeded(ctx)
	m.RegistrationSucceeded(ctx)
	m.TokenRotated(ctx)
	m.Rejected(ctx, ReasonExpired)
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *AuthMetrics
	ctx := context.Background()

	require.NotPanics(t, func() {
		m.LoginSucceeded(ctx)
		m.RegistrationSucceeded(ctx)
		m.TokenRotated(ctx)
		m.Rejected(ctx, ReasonRevoked)
	})
}
