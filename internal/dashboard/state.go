package dashboard

import (
	"fmt"
	"sync"
)

// State is the single owner of the dashboard lists and the latest payload.
// It is safe for concurrent use.
type State struct {
	mu         sync.RWMutex
	generation uint64
	lists      Lists
	data       *Evaluation
	// applied holds the newest generation merged into each branch
	applied map[Branch]uint64
}

// Branch names one independently refreshed part of the state: the payload,
// a flat list, the topics of a corpus or the query groups of a topic
type Branch struct {
	Kind   ListKind
	Corpus string
	Topic  string
}

// ListBranch is the branch of the payload or of a flat list
func ListBranch(kind ListKind) Branch {
	return Branch{Kind: kind}
}

// TopicBranch is the topic list of one corpus
func TopicBranch(corpus string) Branch {
	return Branch{Kind: KindTopic, Corpus: corpus}
}

// QueryGroupBranch is the query group list of one topic
func QueryGroupBranch(corpus, topic string) Branch {
	return Branch{Kind: KindQueryGroup, Corpus: corpus, Topic: topic}
}

// Snapshot is a point-in-time copy of State
type Snapshot struct {
	Generation   uint64 `json:"generation" yaml:"generation"`
	Lists        `yaml:",inline"`
	MetricsCount int    `json:"metricsCount" yaml:"metricsCount"`
	DataHash     string `json:"dataHash,omitempty" yaml:"dataHash,omitempty"`
}

// NewState returns an empty State at generation 0
func NewState() *State {
	return &State{applied: make(map[Branch]uint64)}
}

// NextGeneration starts a new refresh cycle and returns its generation.
// Starting a cycle invalidates nothing; a result is only dropped once a newer
// generation has been merged into the same branch.
func (s *State) NextGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// Generation returns the current generation
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Apply runs fn against the lists unless a newer generation was already
// merged into branch. It reports whether fn ran.
func (s *State) Apply(gen uint64, branch Branch, fn func(*Lists)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.claimLocked(gen, branch) {
		return false
	}
	fn(&s.lists)
	return true
}

// ReplaceData swaps the payload wholesale unless a newer generation already
// replaced it. It reports whether the payload was replaced.
func (s *State) ReplaceData(gen uint64, e *Evaluation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.claimLocked(gen, ListBranch(KindData)) {
		return false
	}
	s.data = e
	return true
}

// AppliedGeneration returns the newest generation merged into branch, or 0
func (s *State) AppliedGeneration(branch Branch) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied[branch]
}

func (s *State) claimLocked(gen uint64, branch Branch) bool {
	if gen < s.applied[branch] {
		return false
	}
	if s.applied == nil {
		s.applied = make(map[Branch]uint64)
	}
	s.applied[branch] = gen
	return true
}

// Data returns the latest payload, or nil before the first successful fetch
func (s *State) Data() *Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Snapshot returns a deep copy of the lists with the payload summary
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Generation:   s.generation,
		Lists:        s.lists.clone(),
		MetricsCount: s.data.MetricsCount(),
		DataHash:     s.data.Hash(),
	}
}

// SetSelected changes the selection of a single item. It reports whether the
// flag actually changed and returns ErrNotFound when no item matches key.
func (s *State) SetSelected(kind ListKind, key ItemKey, selected bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flag *bool
	switch kind {
	case KindMetric:
		flag = flatFlag(s.lists.Metrics, key.Name)
	case KindVersion:
		flag = flatFlag(s.lists.Versions, key.Name)
	case KindCorpus:
		flag = flatFlag(s.lists.Corpora, key.Name)
	case KindTopic:
		if i := indexOfTopic(s.lists.Topics, key.Corpus, key.Name); i >= 0 {
			flag = &s.lists.Topics[i].Selected
		}
	case KindQueryGroup:
		if i := indexOfQueryGroup(s.lists.QueryGroups, key.Corpus, key.Topic, key.Name); i >= 0 {
			flag = &s.lists.QueryGroups[i].Selected
		}
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if flag == nil {
		return false, fmt.Errorf("%s %+v: %w", kind, key, ErrNotFound)
	}
	if *flag == selected {
		return false, nil
	}
	*flag = selected
	return true, nil
}

// SelectedNames returns the selected names of a flat list in insertion order
func (s *State) SelectedNames(kind ListKind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []FilterItem
	switch kind {
	case KindMetric:
		list = s.lists.Metrics
	case KindVersion:
		list = s.lists.Versions
	case KindCorpus:
		list = s.lists.Corpora
	default:
		return nil
	}

	var names []string
	for _, it := range list {
		if it.Selected {
			names = append(names, it.Name)
		}
	}
	return names
}

// SelectedTopics returns the selected topics of corpus. It returns nil when the
// corpus itself is unknown or not selected.
func (s *State) SelectedTopics(corpus string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOfName(s.lists.Corpora, corpus); i < 0 || !s.lists.Corpora[i].Selected {
		return nil
	}

	var names []string
	for _, t := range s.lists.Topics {
		if t.Corpus == corpus && t.Selected {
			names = append(names, t.Name)
		}
	}
	return names
}

// SelectedTopicRefs returns every (corpus, topic) pair where both sides are selected
func (s *State) SelectedTopicRefs() []TopicRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var refs []TopicRef
	for _, c := range s.lists.Corpora {
		if !c.Selected {
			continue
		}
		for _, t := range s.lists.Topics {
			if t.Corpus == c.Name && t.Selected {
				refs = append(refs, TopicRef{Corpus: c.Name, Topic: t.Name})
			}
		}
	}
	return refs
}

func flatFlag(list []FilterItem, name string) *bool {
	if i := indexOfName(list, name); i >= 0 {
		return &list[i].Selected
	}
	return nil
}
