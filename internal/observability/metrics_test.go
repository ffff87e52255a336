package observability

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/cigi/internal/testutil/testlog"
	"github.com/danmuck/cigi/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("host", "GET", "/metrics", 200, 12*time.Millisecond)
	rec := NewSessionRecorder("host")
	rec.RecordWritten(1)
	rec.RecordsFlushed(3)
	rec.DatagramReceived(64)
	rec.RecordReceived(101)
}

func scrape(t *testing.T, r http.Handler, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(w.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return w.Code, string(body)
}

func TestMetricsRouterExposesSessionAndTransport(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	rec := NewSessionRecorder("metrics-test")
	rec.RecordDropped(101, "truncated")
	rec.RecordReceived(12)
	rec.RecordReceived(12)

	stats := transport.Stats{DatagramsSent: 3, BytesSent: 96}
	if err := RegisterTransportStats(prometheus.DefaultRegisterer, "metrics-test", func() transport.Stats { return stats }); err != nil {
		t.Fatalf("register transport stats: %v", err)
	}

	r := MetricsRouter("metrics-test", zerolog.Nop())
	status, body := scrape(t, r, "/metrics")
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	for _, want := range []string{
		`cigi_session_records_dropped_total{reason="truncated",role="metrics-test",tag="101"} 1`,
		`cigi_session_records_received_total{role="metrics-test",tag="12"} 2`,
		`cigi_transport_datagrams_sent_total{role="metrics-test"} 3`,
		`cigi_transport_bytes_sent_total{role="metrics-test"} 96`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}

	if status, _ := scrape(t, r, "/nope"); status != http.StatusNotFound {
		t.Fatalf("unexpected status for unknown path: %d", status)
	}
	_, body = scrape(t, r, "/metrics")
	for _, want := range []string{
		`cigi_http_requests_total{method="GET",path="/metrics",role="metrics-test",status="200"} 1`,
		`cigi_http_requests_total{method="GET",path="/nope",role="metrics-test",status="404"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	scrape(t, r, "/ok")
	scrape(t, r, "/fail")
	scrape(t, r, "/missing")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %q", len(lines), buf.String())
	}
	for i, want := range []string{
		`"level":"debug","method":"GET","path":"/ok","status":200`,
		`"level":"error","method":"GET","path":"/fail","status":500`,
		`"level":"warn","method":"GET","path":"/missing","status":404`,
	} {
		if !strings.Contains(lines[i], want) {
			t.Fatalf("line %d = %s, want %s", i, lines[i], want)
		}
	}
}

func TestRegisterTransportStatsRejectsDuplicateRole(t *testing.T) {
	testlog.Start(t)
	reg := prometheus.NewRegistry()
	stats := func() transport.Stats { return transport.Stats{} }
	if err := RegisterTransportStats(reg, "ig", stats); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := RegisterTransportStats(reg, "ig", stats); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := RegisterTransportStats(reg, "host", stats); err != nil {
		t.Fatalf("second role: %v", err)
	}
}
