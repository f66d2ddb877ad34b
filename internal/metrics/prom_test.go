package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/classplanner/pkg/search"
)

func TestPromSink(t *testing.T) {
	//** Arrange
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	//** Act
	sink.RecordAttempt(search.StageGenerated, 4)
	sink.RecordAttempt(search.StageRepaired, 1)
	sink.RecordAttempt(search.StageAborted, 0)
	sink.RecordRepair(3, 1)
	sink.RecordBest(1)

	//** Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.attempts.WithLabelValues(search.StageGenerated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.attempts.WithLabelValues(search.StageAborted)))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.repairs.WithLabelValues("moved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.repairs.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.best))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.unallocated))
}

func TestPromSinkReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	first.RecordBest(7)

	assert.Equal(t, 7.0, testutil.ToFloat64(second.best))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	sink.RecordBest(2)

	path := filepath.Join(t.TempDir(), "classplanner.prom")
	require.NoError(t, WriteTextfile(path, reg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "classplanner_best_unallocated_sessions 2")
}
