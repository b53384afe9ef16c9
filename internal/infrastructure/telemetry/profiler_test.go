package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{ServerAddress: "http://pyroscope:4040"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())

	var nilProfiler *Profiler
	assert.False(t, nilProfiler.Enabled())
	assert.NoError(t, nilProfiler.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "farm"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{
		Enabled:         true,
		ServerAddress:   "http://pyroscope:4040",
		ApplicationName: "farm",
		ProfileTypes:    []string{"cpu", "heap"},
	}, zap.NewNop())
	assert.ErrorContains(t, err, `unknown profile type "heap"`)
}

func TestParseProfileTypes(t *testing.T) {
	types, err := parseProfileTypes([]string{"cpu", "inuse_space", "goroutines"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU, pyroscope.ProfileInuseSpace, pyroscope.ProfileGoroutines,
	}, types)
}

func TestWithProfilingLabels(t *testing.T) {
	long := strings.Repeat("x", 200)
	var route, method, origin string
	WithProfilingLabels(context.Background(), map[string]string{
		ProfilingLabelRoute:  "/api/v1/sensors/:fieldId",
		ProfilingLabelMethod: long,
		ProfilingLabelOrigin: "",
	}, func(ctx context.Context) {
		route, _ = pprof.Label(ctx, ProfilingLabelRoute)
		method, _ = pprof.Label(ctx, ProfilingLabelMethod)
		origin, _ = pprof.Label(ctx, ProfilingLabelOrigin)
	})

	assert.Equal(t, "/api/v1/sensors/:fieldId", route)
	assert.Len(t, method, maxLabelValueLength)
	assert.Empty(t, origin)

	called := false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}

func TestEnableSpanProfiles_RequiresTracing(t *testing.T) {
	p, err := Setup(context.Background(), Config{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)
	assert.Error(t, p.EnableSpanProfiles())
}
