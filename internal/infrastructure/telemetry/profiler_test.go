package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/shopledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	profiler, err := NewProfiler(config.ProfilingConfig{
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "shopledger",
		SpanProfiles:    true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, profiler.IsEnabled())
	assert.False(t, profiler.SpanProfilesEnabled())
	assert.NoError(t, profiler.Stop())
	assert.NoError(t, profiler.Stop(), "stop is idempotent")
}

func TestNewProfiler_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ProfilingConfig
		wantErr string
	}{
		{
			name:    "missing server address",
			cfg:     config.ProfilingConfig{Enabled: true, ApplicationName: "shopledger"},
			wantErr: "server address is required",
		},
		{
			name:    "missing application name",
			cfg:     config.ProfilingConfig{Enabled: true, ServerAddress: "http://localhost:4040"},
			wantErr: "application name is required",
		},
		{
			name: "unknown profile type",
			cfg: config.ProfilingConfig{
				Enabled:         true,
				ServerAddress:   "http://localhost:4040",
				ApplicationName: "shopledger",
				ProfileTypes:    []string{"cpu", "heap"},
			},
			wantErr: `unknown profile type "heap"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiler, err := NewProfiler(tt.cfg, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Nil(t, profiler)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseProfileTypes(t *testing.T) {
	types, err := parseProfileTypes([]string{"CPU", "alloc_space, inuse_space", "", "cpu"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseSpace,
	}, types)

	types, err = parseProfileTypes(nil)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestWithProfilingLabels(t *testing.T) {
	labels := map[string]string{
		"Route":      "/api/v1/sales",
		"method":     "POST",
		"request_id": "req-1",
		"sale_id":    "5b1c",
		"empty":      "",
	}

	var seen map[string]string
	WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {
		seen = map[string]string{}
		pprof.ForLabels(ctx, func(key, value string) bool {
			seen[key] = value
			return true
		})
	})

	assert.Equal(t, map[string]string{"route": "/api/v1/sales", "method": "POST"}, seen)
}

func TestWithProfilingLabels_NoLabelsStillRuns(t *testing.T) {
	ran := false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { ran = true })
	assert.True(t, ran)
}

func TestSanitizeLabels(t *testing.T) {
	long := strings.Repeat("x", MaxLabelValueLength+20)
	pairs := sanitizeLabels(map[string]string{
		"Payment-Mode": "MPESA",
		"route!":       long,
	})

	require.Len(t, pairs, 4)
	assert.Equal(t, "payment_mode", pairs[0])
	assert.Equal(t, "MPESA", pairs[1])
	assert.Equal(t, "route", pairs[2])
	assert.Len(t, pairs[3], MaxLabelValueLength)
}

func TestHTTPRequestLabels(t *testing.T) {
	assert.Equal(t, map[string]string{
		ProfilingLabelController: "sales",
		ProfilingLabelRoute:      "/api/v1/sales/:id",
		ProfilingLabelMethod:     "GET",
	}, HTTPRequestLabels("sales", "/api/v1/sales/:id", "GET"))
	assert.Empty(t, HTTPRequestLabels("", "", ""))
}

func TestEnableSpanProfiles(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	t.Run("no-op without tracing", func(t *testing.T) {
		p := &Providers{logger: zaptest.NewLogger(t)}
		p.EnableSpanProfiles()
		assert.Nil(t, p.profiled)
	})

	t.Run("wraps the sdk provider", func(t *testing.T) {
		tp := sdktrace.NewTracerProvider()
		t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
		p := &Providers{logger: zaptest.NewLogger(t), tracer: tp}

		p.EnableSpanProfiles()
		_, plain := p.TracerProvider().(*sdktrace.TracerProvider)
		assert.False(t, plain)

		_, span := p.Tracer().Start(context.Background(), "CreateSale")
		defer span.End()
		assert.True(t, span.SpanContext().IsValid())
	})
}
