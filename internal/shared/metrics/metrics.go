package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	uploadsTotal         atomic.Uint64
	generateTotal        = newCounterVec()
	deployTotal          = newCounterVec()
	deployDuration       = newHistogram([]float64{500, 1000, 2500, 5000, 10000, 30000, 60000})
	generateArchiveBytes = newHistogram([]float64{4096, 16384, 65536, 262144, 1048576})
)

// IncUpload counts a parsed upload.
func IncUpload() {
	uploadsTotal.Add(1)
}

// IncGenerate counts a generation attempt by result ("ok", "invalid", "render_error", ...).
func IncGenerate(result string) {
	generateTotal.Inc(result)
}

// IncDeploy counts a deployment attempt by result.
func IncDeploy(result string) {
	deployTotal.Inc(result)
}

// ObserveDeployDurationMs records end-to-end deploy latency.
func ObserveDeployDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	deployDuration.Observe(value)
}

// ObserveArchiveBytes records the size of a generated archive.
func ObserveArchiveBytes(n int) {
	generateArchiveBytes.Observe(float64(n))
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
	writeCounter(&buf, "portfolio_uploads_total", "Resumes uploaded and parsed", uploadsTotal.Load())
	writeCounterVec(&buf, "portfolio_generate_total", "Portfolio generations by result", generateTotal.Snapshot())
	writeCounterVec(&buf, "portfolio_deploy_total", "Portfolio deployments by result", deployTotal.Snapshot())
	writeHistogram(&buf, "portfolio_deploy_duration_ms", "Deployment duration in milliseconds", deployDuration.Snapshot())
	writeHistogram(&buf, "portfolio_archive_bytes", "Generated archive size in bytes", generateArchiveBytes.Snapshot())
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func newCounterVec() *counterVec {
	return &counterVec{counts: make(map[string]uint64)}
}

func (v *counterVec) Inc(label string) {
	v.mu.Lock()
	v.counts[label]++
	v.mu.Unlock()
}

func (v *counterVec) Snapshot() map[string]uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.counts))
	for k, n := range v.counts {
		out[k] = n
	}
	return out
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

// Observe adds value to the first bucket that holds it; writeHistogram
// accumulates buckets on output.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
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

func writeCounterVec(buf *bytes.Buffer, name, help string, counts map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(buf, "%s{result=%q} %d\n", name, label, counts[label])
	}
}

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

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
