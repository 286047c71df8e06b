package dashboard

import (
	"errors"
	"fmt"
)

// ListKind identifies one of the lists owned by State
type ListKind string

const (
	// KindMetric is the flat metric selector list
	KindMetric ListKind = "metric"
	// KindVersion is the flat version selector list
	KindVersion ListKind = "version"
	// KindCorpus is the corpus list at the root of the cascade
	KindCorpus ListKind = "corpus"
	// KindTopic is the per-corpus topic list
	KindTopic ListKind = "topic"
	// KindQueryGroup is the per corpus and topic query group list
	KindQueryGroup ListKind = "queryGroup"
	// KindData is the evaluation payload; it is not a list but shares refresh bookkeeping
	KindData ListKind = "data"
)

// ListKinds are the selectable list kinds in display order
var ListKinds = []ListKind{KindMetric, KindVersion, KindCorpus, KindTopic, KindQueryGroup}

var (
	// ErrNotFound is returned when a selection targets an item that is not in its list
	ErrNotFound = errors.New("item not found")

	// ErrUnknownKind is returned for a list kind that does not exist
	ErrUnknownKind = errors.New("unknown list kind")
)

// ParseListKind converts a string to a selectable ListKind
func ParseListKind(s string) (ListKind, error) {
	for _, k := range ListKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// FilterItem is a selectable metric, version or corpus
type FilterItem struct {
	Name     string `json:"name" yaml:"name"`
	Selected bool   `json:"selected" yaml:"selected"`
}

// TopicItem is a topic scoped to one corpus
type TopicItem struct {
	Name     string `json:"name" yaml:"name"`
	Corpus   string `json:"corpus" yaml:"corpus"`
	Selected bool   `json:"selected" yaml:"selected"`
	ID       string `json:"id" yaml:"id"`
}

// QueryGroupItem is a query group scoped to one corpus and topic pair
type QueryGroupItem struct {
	Name     string `json:"name" yaml:"name"`
	Corpus   string `json:"corpus" yaml:"corpus"`
	Topic    string `json:"topic" yaml:"topic"`
	Selected bool   `json:"selected" yaml:"selected"`
	ID       string `json:"id" yaml:"id"`
}

// TopicID returns the composite identifier of a topic
func TopicID(corpus, name string) string {
	return corpus + "_" + name
}

// QueryGroupID returns the composite identifier of a query group
func QueryGroupID(corpus, topic, name string) string {
	return corpus + "_" + topic + "_" + name
}

// NewTopicItem returns a freshly discovered, selected topic
func NewTopicItem(corpus, name string) TopicItem {
	return TopicItem{
		Name:     name,
		Corpus:   corpus,
		Selected: true,
		ID:       TopicID(corpus, name),
	}
}

// NewQueryGroupItem returns a freshly discovered, selected query group
func NewQueryGroupItem(corpus, topic, name string) QueryGroupItem {
	return QueryGroupItem{
		Name:     name,
		Corpus:   corpus,
		Topic:    topic,
		Selected: true,
		ID:       QueryGroupID(corpus, topic, name),
	}
}

// ItemKey addresses a single item in any list. Corpus is used by topics and
// query groups, Topic only by query groups.
type ItemKey struct {
	Name   string `json:"name"`
	Corpus string `json:"corpus,omitempty"`
	Topic  string `json:"topic,omitempty"`
}

// TopicRef identifies a topic within a corpus
type TopicRef struct {
	Corpus string
	Topic  string
}

// Lists is the set of filter lists owned by State
type Lists struct {
	Metrics     []FilterItem     `json:"metrics" yaml:"metrics"`
	Versions    []FilterItem     `json:"versions" yaml:"versions"`
	Corpora     []FilterItem     `json:"corpora" yaml:"corpora"`
	Topics      []TopicItem      `json:"topics" yaml:"topics"`
	QueryGroups []QueryGroupItem `json:"queryGroups" yaml:"queryGroups"`
}

// Len returns the number of items in the list of the given kind
func (l *Lists) Len(kind ListKind) int {
	switch kind {
	case KindMetric:
		return len(l.Metrics)
	case KindVersion:
		return len(l.Versions)
	case KindCorpus:
		return len(l.Corpora)
	case KindTopic:
		return len(l.Topics)
	case KindQueryGroup:
		return len(l.QueryGroups)
	default:
		return 0
	}
}

func (l *Lists) clone() Lists {
	return Lists{
		Metrics:     cloneOrEmpty(l.Metrics),
		Versions:    cloneOrEmpty(l.Versions),
		Corpora:     cloneOrEmpty(l.Corpora),
		Topics:      cloneOrEmpty(l.Topics),
		QueryGroups: cloneOrEmpty(l.QueryGroups),
	}
}

// cloneOrEmpty keeps JSON output as [] rather than null for empty lists
func cloneOrEmpty[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
