package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	productAnalysisStartedTotal   atomic.Uint64
	productAnalysisCompletedTotal atomic.Uint64
	productAnalysisFailedTotal    atomic.Uint64
	inferenceFailuresTotal        atomic.Uint64
	metadataFallbackTotal         atomic.Uint64

	productAnalysisDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000})
)

// IncProductAnalysisStarted increments the started counter.
func IncProductAnalysisStarted() {
	productAnalysisStartedTotal.Add(1)
}

// IncProductAnalysisCompleted increments the completed counter.
func IncProductAnalysisCompleted() {
	productAnalysisCompletedTotal.Add(1)
}

// IncProductAnalysisFailed increments the failed counter.
func IncProductAnalysisFailed() {
	productAnalysisFailedTotal.Add(1)
}

// IncInferenceFailures counts analyses stored with the default insight.
func IncInferenceFailures() {
	inferenceFailuresTotal.Add(1)
}

// IncMetadataFallback counts analyses scored without image metadata.
func IncMetadataFallback() {
	metadataFallbackTotal.Add(1)
}

// ObserveProductAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveProductAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	productAnalysisDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "product_analysis_started_total", "Total product analyses started", productAnalysisStartedTotal.Load())
	writeCounter(&buf, "product_analysis_completed_total", "Total product analyses completed", productAnalysisCompletedTotal.Load())
	writeCounter(&buf, "product_analysis_failed_total", "Total product analyses failed", productAnalysisFailedTotal.Load())
	writeCounter(&buf, "inference_failures_total", "Analyses stored without an inference result", inferenceFailuresTotal.Load())
	writeCounter(&buf, "metadata_fallback_total", "Analyses scored without image metadata", metadataFallbackTotal.Load())
	writeHistogram(&buf, "product_analysis_duration_ms", "Product analysis duration in milliseconds", productAnalysisDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe adds value to the first bucket whose upper bound contains it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

// writeHistogram emits cumulative bucket counts.
func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
