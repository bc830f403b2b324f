package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	IncApplicationSubmitted()
	IncApplicationRejected()
	IncDocumentUploaded()
	ObserveUploadSizeBytes(128 << 10)

	out := Render()

	for _, want := range []string{
		"# TYPE application_submitted_total counter",
		"# TYPE application_rejected_total counter",
		"# TYPE document_uploaded_total counter",
		"# TYPE upload_size_bytes histogram",
		"upload_size_bytes_bucket{le=\"+Inf\"}",
		"upload_size_bytes_sum",
		"upload_size_bytes_count",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected rendered metrics to contain %q\n%s", want, out)
		}
	}
}

func TestHistogramBucketCounts(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.sum != 555 {
		t.Fatalf("expected sum 555, got %g", snap.sum)
	}
	if snap.counts[0] != 1 {
		t.Fatalf("expected 1 observation <= 10, got %d", snap.counts[0])
	}
	if snap.counts[1] != 2 {
		t.Fatalf("expected 2 observations <= 100, got %d", snap.counts[1])
	}
}

func TestObserveClampsNegativeValues(t *testing.T) {
	before := uploadSizeBytes.Snapshot()
	ObserveUploadSizeBytes(-1)
	after := uploadSizeBytes.Snapshot()

	if after.count != before.count+1 {
		t.Fatalf("expected one more observation")
	}
	if after.sum != before.sum {
		t.Fatalf("negative values must be clamped to zero")
	}
}
