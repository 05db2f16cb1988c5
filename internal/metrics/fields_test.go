package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterFieldMetrics_Idempotent(t *testing.T) {
	RegisterFieldMetrics()
	RegisterFieldMetrics()

	QueriesTotal.WithLabelValues("point", "float64").Inc()
	if v := testutil.ToFloat64(QueriesTotal.WithLabelValues("point", "float64")); v < 1 {
		t.Errorf("queries_total = %f, want >= 1", v)
	}
}

func TestRepresentationsTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(RepresentationsTotal.WithLabelValues("stored", "int32"))
	RepresentationsTotal.WithLabelValues("stored", "int32").Add(2)
	after := testutil.ToFloat64(RepresentationsTotal.WithLabelValues("stored", "int32"))
	if after-before != 2 {
		t.Errorf("representations_total delta = %f, want 2", after-before)
	}
}
