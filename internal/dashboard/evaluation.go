package dashboard

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/tidwall/gjson"
)

const metricsPath = "metrics"

// Evaluation is an immutable evaluation payload as returned by the server.
// The body is kept opaque; only the metrics mapping is inspected.
type Evaluation struct {
	raw  []byte
	hash string
}

// NewEvaluation wraps a raw JSON body. The slice is copied.
func NewEvaluation(raw []byte) *Evaluation {
	body := make([]byte, len(raw))
	copy(body, raw)
	sum := sha256.Sum256(body)
	return &Evaluation{
		raw:  body,
		hash: hex.EncodeToString(sum[:]),
	}
}

// Raw returns the JSON body. Callers must not modify it.
func (e *Evaluation) Raw() []byte {
	if e == nil {
		return nil
	}
	return e.raw
}

// Hash returns the hex SHA-256 of the body, or "" for a nil Evaluation
func (e *Evaluation) Hash() string {
	if e == nil {
		return ""
	}
	return e.hash
}

// MetricsCount returns the number of entries in the metrics mapping
func (e *Evaluation) MetricsCount() int {
	count := 0
	e.forEachMetric(func(string) { count++ })
	return count
}

// MetricNames returns the keys of the metrics mapping in document order
func (e *Evaluation) MetricNames() []string {
	var names []string
	e.forEachMetric(func(name string) { names = append(names, name) })
	return names
}

func (e *Evaluation) forEachMetric(fn func(name string)) {
	if e == nil || len(e.raw) == 0 {
		return
	}
	metrics := gjson.GetBytes(e.raw, metricsPath)
	if !metrics.IsObject() {
		return
	}
	metrics.ForEach(func(key, _ gjson.Result) bool {
		fn(key.String())
		return true
	})
}
