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
	documentsIngestedTotal  atomic.Uint64
	extractionFallbackTotal atomic.Uint64
	metadataFailedTotal     atomic.Uint64
	uploadFailedTotal       atomic.Uint64
	eventsReceivedTotal     atomic.Uint64
	eventsCompletedTotal    atomic.Uint64
	eventsFailedTotal       atomic.Uint64
	eventsDiscardedTotal    atomic.Uint64

	uploadDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncDocumentsIngested counts a persisted document.
func IncDocumentsIngested() {
	documentsIngestedTotal.Add(1)
}

// IncExtractionFallback counts an escalation to remote document reading.
func IncExtractionFallback() {
	extractionFallbackTotal.Add(1)
}

// IncMetadataFailed counts a summary or metadata call that left the tender untouched.
func IncMetadataFailed() {
	metadataFailedTotal.Add(1)
}

// IncUploadFailed counts an upload request that ended in a 500.
func IncUploadFailed() {
	uploadFailedTotal.Add(1)
}

// IncEventsReceived counts a queue message picked up by the worker.
func IncEventsReceived() {
	eventsReceivedTotal.Add(1)
}

// IncEventsCompleted counts a processed and deleted queue message.
func IncEventsCompleted() {
	eventsCompletedTotal.Add(1)
}

// IncEventsFailed counts a message left on the queue for redelivery.
func IncEventsFailed() {
	eventsFailedTotal.Add(1)
}

// IncEventsDiscarded counts an unreadable message deleted without processing.
func IncEventsDiscarded() {
	eventsDiscardedTotal.Add(1)
}

// ObserveUploadDurationMs records the wall time of one upload request.
func ObserveUploadDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	uploadDuration.Observe(value)
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
	writeCounter(&buf, "documents_ingested_total", "Documents persisted by the upload pipeline", documentsIngestedTotal.Load())
	writeCounter(&buf, "extraction_fallback_total", "Remote document reads triggered by weak local extraction", extractionFallbackTotal.Load())
	writeCounter(&buf, "metadata_failed_total", "Summary or metadata calls that left the tender unchanged", metadataFailedTotal.Load())
	writeCounter(&buf, "upload_failed_total", "Upload requests that failed", uploadFailedTotal.Load())
	writeCounter(&buf, "events_received_total", "Queue messages received by the worker", eventsReceivedTotal.Load())
	writeCounter(&buf, "events_completed_total", "Queue messages processed and deleted", eventsCompletedTotal.Load())
	writeCounter(&buf, "events_failed_total", "Queue messages left for redelivery", eventsFailedTotal.Load())
	writeCounter(&buf, "events_discarded_total", "Unreadable queue messages deleted", eventsDiscardedTotal.Load())
	writeHistogram(&buf, "upload_duration_ms", "Upload request duration in milliseconds", uploadDuration.Snapshot())
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe already counts a value in every bucket whose bound it fits under.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
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

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
