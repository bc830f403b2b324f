package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	applicationSubmittedTotal atomic.Uint64
	applicationRejectedTotal  atomic.Uint64
	documentUploadedTotal     atomic.Uint64

	uploadSizeBytes = newHistogram([]float64{64 << 10, 256 << 10, 1 << 20, 2 << 20, 4 << 20, 8 << 20})
)

// IncApplicationSubmitted increments the accepted submissions counter.
func IncApplicationSubmitted() {
	applicationSubmittedTotal.Add(1)
}

// IncApplicationRejected increments the rejected submissions counter.
func IncApplicationRejected() {
	applicationRejectedTotal.Add(1)
}

// IncDocumentUploaded increments the stored documents counter.
func IncDocumentUploaded() {
	documentUploadedTotal.Add(1)
}

// ObserveUploadSizeBytes records the size of a stored document.
func ObserveUploadSizeBytes(value float64) {
	if value < 0 {
		value = 0
	}
	uploadSizeBytes.Observe(value)
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
	writeCounter(&buf, "application_submitted_total", "Total applications accepted", applicationSubmittedTotal.Load())
	writeCounter(&buf, "application_rejected_total", "Total applications rejected", applicationRejectedTotal.Load())
	writeCounter(&buf, "document_uploaded_total", "Total documents stored", documentUploadedTotal.Load())
	writeHistogram(&buf, "upload_size_bytes", "Stored document size in bytes", uploadSizeBytes.Snapshot())
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
	snap := histogramSnapshot{
		buckets: h.buckets,
		counts:  make([]uint64, len(h.counts)),
		sum:     h.sum,
		count:   h.count,
	}
	copy(snap.counts, h.counts)
	return snap
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=%q} %d\n", name, strconv.FormatFloat(bound, 'f', -1, 64), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %g\n", name, snap.sum)
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}
