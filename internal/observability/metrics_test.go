package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsTextExposition(t *testing.T) {
	m := New(0)
	m.ObserveAPI("GET", "/api/dashboard", "200", 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/progress/attempts", "500", time.Second)
	m.IncAttempt(true)
	m.IncAttempt(true)
	m.IncAttempt(false)
	m.IncAchievementAwarded("words_learned")
	m.IncBlockTestSubmitted(false)
	m.ObserveAggregateOperation("Progress.RecordAttempt", "success", 3*time.Millisecond)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`lp_api_requests_total{method="GET",route="/api/dashboard",status="200"} 1`,
		`lp_api_requests_error_total 1`,
		`lp_word_attempts_total{result="correct"} 2`,
		`lp_word_attempts_total{result="incorrect"} 1`,
		`lp_achievements_awarded_total{type="words_learned"} 1`,
		`lp_block_tests_submitted_total{result="failed"} 1`,
		`lp_aggregate_operation_duration_seconds_bucket{operation="Progress.RecordAttempt",status="success",le="0.005"} 1`,
		`lp_aggregate_operation_duration_seconds_count{operation="Progress.RecordAttempt",status="success"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.IncAttempt(true)
	m.ApiInflightInc()

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if Init(nil, false, 0) != nil {
		t.Fatalf("disabled Init should return nil")
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString = %s", got)
	}
	if withLe("", "+Inf") != `{le="+Inf"}` {
		t.Fatalf("withLe empty labels")
	}
}
