package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInit(t *testing.T) {
	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if fetchesTotal == nil || fetchRetriesTotal == nil || recordsTotal == nil ||
		resolutionMissesTotal == nil || httpRequestsTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveFetchOutcomes(t *testing.T) {
	Init()

	before := testutil.ToFloat64(fetchesTotal.WithLabelValues("json", "error"))
	ObserveFetch("json", errors.New("boom"))
	after := testutil.ToFloat64(fetchesTotal.WithLabelValues("json", "error"))
	if after != before+1 {
		t.Errorf("error outcome counter = %f, want %f", after, before+1)
	}

	before = testutil.ToFloat64(fetchesTotal.WithLabelValues("document", "ok"))
	ObserveFetch("document", nil)
	after = testutil.ToFloat64(fetchesTotal.WithLabelValues("document", "ok"))
	if after != before+1 {
		t.Errorf("ok outcome counter = %f, want %f", after, before+1)
	}
}

func TestObserveRecordsSkipsZero(t *testing.T) {
	Init()

	before := testutil.ToFloat64(recordsTotal.WithLabelValues("news"))
	ObserveRecords("news", 0)
	ObserveRecords("news", 3)
	after := testutil.ToFloat64(recordsTotal.WithLabelValues("news"))
	if after != before+3 {
		t.Errorf("records counter = %f, want %f", after, before+3)
	}
}
