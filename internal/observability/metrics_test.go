package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWith_IsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith("test", reg)

	m.DroppedStopRefs.Add(3)
	m.DaySelections.WithLabelValues("accepted").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.DroppedStopRefs))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DaySelections.WithLabelValues("accepted")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRecordDaySelection(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.DaySelections.WithLabelValues("rejected"))

	RecordDaySelection(0, errors.New("out of range"))
	RecordDaySelection(7, nil)

	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.DaySelections.WithLabelValues("rejected")))
	assert.Equal(t, 7.0, testutil.ToFloat64(DefaultMetrics.SelectedDay))
}

func TestRecordDroppedStops_IgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.DroppedStopRefs)

	RecordDroppedStops(0)
	RecordDroppedStops(-2)
	RecordDroppedStops(2)

	assert.Equal(t, before+2, testutil.ToFloat64(DefaultMetrics.DroppedStopRefs))
}
