package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Bucket is one histogram row. Count is the number of samples falling in
// (previous UpperBound, UpperBound]; Cumulative is the fraction at or below
// UpperBound.
type Bucket struct {
	UpperBound float64
	Count      uint64
	Cumulative float64
}

// MarshalJSON writes the upper bound as a string, since JSON has no +Inf.
func (b Bucket) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UpperBound string  `json:"upper_bound"`
		Count      uint64  `json:"count"`
		Cumulative float64 `json:"cumulative"`
	}{
		UpperBound: strconv.FormatFloat(b.UpperBound, 'g', -1, 64),
		Count:      b.Count,
		Cumulative: b.Cumulative,
	})
}

type Histogram struct {
	Name    string   `json:"name"`
	Total   uint64   `json:"total"`
	Buckets []Bucket `json:"buckets"`
}

// GatherHistogram reads the named histogram from the gatherer and converts its
// cumulative buckets into per-bucket counts. Samples above the last bound end
// up in a +Inf bucket.
func GatherHistogram(g prometheus.Gatherer, name string) (*Histogram, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	var metric *dto.Metric
	for _, mf := range families {
		if mf.GetName() == name && mf.GetType() == dto.MetricType_HISTOGRAM && len(mf.GetMetric()) > 0 {
			metric = mf.GetMetric()[0]
			break
		}
	}
	if metric == nil {
		return nil, fmt.Errorf("histogram %q not found", name)
	}

	h := metric.GetHistogram()
	out := &Histogram{Name: name, Total: h.GetSampleCount()}

	var previous uint64
	for _, b := range h.GetBucket() {
		out.Buckets = append(out.Buckets, Bucket{
			UpperBound: b.GetUpperBound(),
			Count:      b.GetCumulativeCount() - previous,
			Cumulative: fraction(b.GetCumulativeCount(), out.Total),
		})
		previous = b.GetCumulativeCount()
	}
	if out.Total > previous {
		out.Buckets = append(out.Buckets, Bucket{
			UpperBound: math.Inf(1),
			Count:      out.Total - previous,
			Cumulative: 1,
		})
	}
	return out, nil
}

func fraction(n, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func (h *Histogram) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString(fmt.Sprintf("\n[HISTOGRAM %s]\n", h.Name))
	rows := []string{"Upper bound|Count|Cumulative"}
	for _, b := range h.Buckets {
		bound := fmt.Sprintf("%g", b.UpperBound)
		if math.IsInf(b.UpperBound, 1) {
			bound = "+Inf"
		}
		rows = append(rows, fmt.Sprintf("%s|%d|%.2f%%", bound, b.Count, b.Cumulative*100))
	}
	buffer.WriteString(FormatList(rows))
	buffer.WriteString("\n")

	return buffer.String()
}
