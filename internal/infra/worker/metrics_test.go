package worker

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerMetrics_RegistersOnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkerMetrics(reg)

	m.RecordJobRun(StatusSuccess, time.Second)
	m.RecordStage("generate", StatusSuccess, time.Second)
	m.RecordConfigFallback("timezone")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Subset(t, names, []string{
		"menu_worker_job_runs_total",
		"menu_worker_job_duration_seconds",
		"menu_worker_stage_duration_seconds",
		"menu_worker_last_success_timestamp",
		"menu_worker_config_fallbacks_total",
		"menu_worker_config_fallback_active",
	})
}

func TestNewWorkerMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWorkerMetrics(reg)
	assert.Panics(t, func() { NewWorkerMetrics(reg) })
}

func TestWorkerMetrics_RecordJobRun(t *testing.T) {
	m := NewWorkerMetrics(prometheus.NewRegistry())

	m.RecordJobRun(StatusFailure, 2*time.Second)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRunsTotal.WithLabelValues(StatusFailure)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.LastSuccessTimestamp), "failure does not touch last success")

	before := float64(time.Now().Unix())
	m.RecordJobRun(StatusSuccess, 3*time.Second)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRunsTotal.WithLabelValues(StatusSuccess)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.LastSuccessTimestamp), before)

}

func TestWorkerMetrics_RecordStage(t *testing.T) {
	m := NewWorkerMetrics(prometheus.NewRegistry())

	m.RecordStage("publish", StatusSuccess, 500*time.Millisecond)
	m.RecordStage("publish", StatusFailure, time.Second)
	m.RecordStage("archive", StatusSuccess, time.Second)

	assert.Equal(t, 3, testutil.CollectAndCount(m.StageDurationSeconds))
}

func TestWorkerMetrics_SetFallbackActive(t *testing.T) {
	m := NewWorkerMetrics(prometheus.NewRegistry())

	m.SetFallbackActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConfigFallbackActive))
	m.SetFallbackActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ConfigFallbackActive))
}

func TestWorkerMetrics_ConcurrentAccess(t *testing.T) {
	m := NewWorkerMetrics(prometheus.NewRegistry())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordJobRun(StatusSuccess, time.Second)
			m.RecordStage("generate", StatusSuccess, time.Second)
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(50), testutil.ToFloat64(m.JobRunsTotal.WithLabelValues(StatusSuccess)))
}
