package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRenderReflectsCounters(t *testing.T) {
	before := extractionStartedTotal.Load()

	IncExtractionStarted()
	IncExtractionStarted()
	IncExtractionCompleted()
	IncExtractionFailed()
	ObserveExtractionDurationMs(120)

	out := Render()
	for _, name := range []string{
		"extraction_started_total",
		"extraction_completed_total",
		"extraction_failed_total",
		"extraction_duration_ms_bucket",
		"extraction_duration_ms_sum",
		"extraction_duration_ms_count",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("render output missing %s:\n%s", name, out)
		}
	}
	if extractionStartedTotal.Load() != before+2 {
		t.Fatalf("expected started counter to advance by 2")
	}
}

func TestObserveClampsNegativeDurations(t *testing.T) {
	snapBefore := extractionDuration.Snapshot()
	ObserveExtractionDurationMs(-50)
	snapAfter := extractionDuration.Snapshot()

	if snapAfter.count != snapBefore.count+1 {
		t.Fatalf("expected one new observation")
	}
	if snapAfter.sum != snapBefore.sum {
		t.Fatalf("negative duration should record as zero, sum moved by %v", snapAfter.sum-snapBefore.sum)
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100, 1000})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)
	h.Observe(5000)

	snap := h.Snapshot()
	if snap.count != 4 {
		t.Fatalf("expected 4 observations, got %d", snap.count)
	}
	// counts are per-bucket at observe time; rendering accumulates.
	if snap.counts[0] != 1 || snap.counts[1] != 1 || snap.counts[2] != 1 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}

	var buf bytes.Buffer
	writeHistogram(&buf, "sample_ms", "Sample durations", snap)
	out := buf.String()
	for _, line := range []string{
		`sample_ms_bucket{le="10"} 1`,
		`sample_ms_bucket{le="100"} 2`,
		`sample_ms_bucket{le="1000"} 3`,
		`sample_ms_bucket{le="+Inf"} 4`,
		"sample_ms_count 4",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("rendered histogram missing %q:\n%s", line, out)
		}
	}
}

func TestHandlerServesPrometheusText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "# TYPE extraction_started_total counter") {
		t.Fatalf("body missing counter type line:\n%s", rec.Body.String())
	}
}
