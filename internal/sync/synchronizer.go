package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	gosync "sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/rre-dashboard/internal/dashboard"
	"github.com/stacklok/rre-dashboard/internal/gateway"
	"github.com/stacklok/rre-dashboard/internal/otel"
	"github.com/stacklok/rre-dashboard/internal/status"
	"github.com/stacklok/rre-dashboard/internal/telemetry"
)

//go:generate mockgen -destination=mocks/mock_synchronizer.go -package=mocks -source=synchronizer.go Synchronizer

const (
	defaultMaxConcurrentFetches = 4

	tracerName = "github.com/stacklok/rre-dashboard/sync"
)

// Synchronizer refreshes the dashboard state from the evaluation server
type Synchronizer interface {
	// RunCycle starts a new generation and runs one refresh cycle. The returned
	// error joins every failed branch; the state keeps whatever succeeded.
	RunCycle(ctx context.Context) error

	// OnCorpusSelectionChanged refreshes the topics and query groups below
	// corpus after it was toggled to selected. Deselecting fetches nothing.
	OnCorpusSelectionChanged(ctx context.Context, corpus string, selected bool) error

	// OnTopicSelectionChanged refreshes the query groups of a topic after it
	// was toggled to selected. Deselecting fetches nothing.
	OnTopicSelectionChanged(ctx context.Context, corpus, topic string, selected bool) error
}

// Option is a function that configures the synchronizer
type Option func(*defaultSynchronizer)

// WithSyncMetrics sets the sync metrics for the synchronizer
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(s *defaultSynchronizer) {
		s.metrics = metrics
	}
}

// WithStatusTracker sets the tracker that receives per-list refresh status
func WithStatusTracker(tracker *status.Tracker) Option {
	return func(s *defaultSynchronizer) {
		if tracker != nil {
			s.tracker = tracker
		}
	}
}

// WithTracerProvider enables cycle and branch spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *defaultSynchronizer) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithMaxConcurrentFetches bounds the parallel topic and query group fetches
func WithMaxConcurrentFetches(n int) Option {
	return func(s *defaultSynchronizer) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithFullCascade refreshes every selected branch on every cycle
func WithFullCascade(enabled bool) Option {
	return func(s *defaultSynchronizer) {
		s.fullCascade = enabled
	}
}

type defaultSynchronizer struct {
	gateway gateway.Gateway
	state   *dashboard.State
	tracker *status.Tracker
	metrics *telemetry.SyncMetrics
	tracer  trace.Tracer

	maxConcurrent int
	fullCascade   bool

	mu           gosync.Mutex
	dirtyCorpora map[string]Reason
	dirtyTopics  map[dashboard.TopicRef]Reason
	// graphHash is the payload hash the corpus graph was last refreshed for
	graphHash string
}

// cycle is the bookkeeping one RunCycle shares with its payload goroutine
type cycle struct {
	gen uint64
	// planned is set once the cascade of this cycle was planned; guarded by
	// defaultSynchronizer.mu
	planned bool
}

// New creates a synchronizer that merges gateway results into state
func New(gw gateway.Gateway, state *dashboard.State, opts ...Option) Synchronizer {
	s := &defaultSynchronizer{
		gateway:       gw,
		state:         state,
		tracker:       status.NewTracker(),
		maxConcurrent: defaultMaxConcurrentFetches,
		dirtyCorpora:  make(map[string]Reason),
		dirtyTopics:   make(map[dashboard.TopicRef]Reason),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RunCycle refreshes the payload and the flat lists in parallel. The dirty
// branches of the corpus graph are walked as soon as the corpus list merged;
// a slow payload fetch only delays the return of RunCycle.
func (s *defaultSynchronizer) RunCycle(ctx context.Context) (err error) {
	cyc := &cycle{gen: s.state.NextGeneration()}
	gen := cyc.gen
	ctx, span := otel.StartSpan(ctx, s.tracer, "sync.RunCycle",
		trace.WithAttributes(otel.AttrGeneration.Int64(int64(gen))))
	defer func() {
		otel.RecordError(span, err)
		span.End()
	}()

	start := time.Now()
	errs := &errorCollector{}

	var g errgroup.Group
	g.Go(func() error {
		errs.add(s.refreshData(ctx, cyc))
		return nil
	})
	g.Go(func() error {
		errs.add(s.refreshFlat(ctx, gen, dashboard.KindMetric, s.gateway.GetMetricNames))
		return nil
	})
	g.Go(func() error {
		errs.add(s.refreshFlat(ctx, gen, dashboard.KindVersion, s.gateway.GetVersionNames))
		return nil
	})

	errs.add(s.refreshFlat(ctx, gen, dashboard.KindCorpus, s.gateway.GetCorpusNames))
	corpora, topics := s.planCascade(ctx, cyc)
	errs.add(s.cascade(ctx, gen, corpora, topics))

	_ = g.Wait()

	err = errs.err()
	slog.DebugContext(ctx, "Refresh cycle finished",
		"generation", gen,
		"duration", time.Since(start),
		"cascaded_corpora", len(corpora),
		"cascaded_topics", len(topics),
		"failed", err != nil)
	return err
}

func (s *defaultSynchronizer) OnCorpusSelectionChanged(ctx context.Context, corpus string, selected bool) error {
	if !selected {
		slog.DebugContext(ctx, "Corpus deselected, nothing to fetch", "corpus", corpus)
		return nil
	}
	if !slices.Contains(s.state.SelectedNames(dashboard.KindCorpus), corpus) {
		return nil
	}

	s.markCorpus(corpus, ReasonSelected)
	return s.cascade(ctx, s.state.Generation(), []string{corpus}, nil)
}

func (s *defaultSynchronizer) OnTopicSelectionChanged(
	ctx context.Context, corpus, topic string, selected bool,
) error {
	if !selected {
		slog.DebugContext(ctx, "Topic deselected, nothing to fetch", "corpus", corpus, "topic", topic)
		return nil
	}

	ref := dashboard.TopicRef{Corpus: corpus, Topic: topic}
	// both the corpus and the topic must be selected for a query group fetch
	if !slices.Contains(s.state.SelectedTopicRefs(), ref) {
		return nil
	}

	s.markTopic(ref, ReasonSelected)
	return s.cascade(ctx, s.state.Generation(), nil, []dashboard.TopicRef{ref})
}

// refreshData replaces the payload wholesale; a failure keeps the previous one.
// When the new payload lands after this cycle planned its cascade, the corpora
// it invalidated are cascaded here.
func (s *defaultSynchronizer) refreshData(ctx context.Context, cyc *cycle) error {
	s.tracker.Start(dashboard.KindData)
	start := time.Now()
	eval, err := s.gateway.GetEvaluationData(ctx)
	s.metrics.RecordFetch(ctx, string(dashboard.KindData), time.Since(start), err == nil)
	if err != nil {
		s.tracker.Fail(dashboard.KindData, err)
		slog.WarnContext(ctx, "Evaluation data refresh failed, keeping previous payload", "error", err)
		return fmt.Errorf("evaluation data: %w", err)
	}

	if !s.state.ReplaceData(cyc.gen, eval) {
		s.discardStale(ctx, dashboard.ListBranch(dashboard.KindData), cyc.gen)
		return nil
	}
	s.tracker.Succeed(dashboard.KindData, eval.MetricsCount(), eval.Hash())

	late := s.noteData(ctx, cyc, eval.Hash())
	return s.cascade(ctx, cyc.gen, late, nil)
}

// noteData marks every selected corpus dirty when the payload hash moved. The
// first payload only sets the baseline. It returns the corpora the caller must
// cascade because the plan of cyc already ran without them.
func (s *defaultSynchronizer) noteData(ctx context.Context, cyc *cycle, hash string) []string {
	selected := s.state.SelectedNames(dashboard.KindCorpus)

	s.mu.Lock()
	defer s.mu.Unlock()

	if hash == "" || hash == s.graphHash {
		return nil
	}
	baseline := s.graphHash == ""
	s.graphHash = hash
	if baseline {
		return nil
	}

	var late []string
	for _, c := range selected {
		if _, dirty := s.dirtyCorpora[c]; dirty {
			continue
		}
		s.dirtyCorpora[c] = ReasonDataChanged
		if cyc.planned {
			late = append(late, c)
		}
	}
	slog.DebugContext(ctx, "Payload changed, corpus graph is stale",
		"generation", cyc.gen,
		"marked_corpora", len(selected),
		"late_corpora", len(late))
	return late
}

func (s *defaultSynchronizer) refreshFlat(
	ctx context.Context,
	gen uint64,
	kind dashboard.ListKind,
	fetch func(context.Context) ([]string, error),
) error {
	s.tracker.Start(kind)
	start := time.Now()
	names, err := fetch(ctx)
	s.metrics.RecordFetch(ctx, string(kind), time.Since(start), err == nil)
	if err != nil {
		s.tracker.Fail(kind, err)
		slog.WarnContext(ctx, "List refresh failed", "kind", kind, "error", err)
		return fmt.Errorf("%s list: %w", kind, err)
	}

	var added []dashboard.FilterItem
	var size int
	branch := dashboard.ListBranch(kind)
	applied := s.state.Apply(gen, branch, func(l *dashboard.Lists) {
		list := flatList(l, kind)
		*list, added = dashboard.MergeNames(*list, names)
		size = len(*list)
	})
	if !applied {
		s.discardStale(ctx, branch, gen)
		return nil
	}

	s.recordMerge(ctx, kind, len(added), size)
	if kind == dashboard.KindCorpus {
		for _, c := range added {
			s.markCorpus(c.Name, ReasonDiscovered)
		}
	}
	return nil
}

// planCascade picks the selected corpora and topics whose branches need a refresh
func (s *defaultSynchronizer) planCascade(ctx context.Context, cyc *cycle) ([]string, []dashboard.TopicRef) {
	selected := s.state.SelectedNames(dashboard.KindCorpus)
	selectedRefs := s.state.SelectedTopicRefs()

	s.mu.Lock()
	defer s.mu.Unlock()
	cyc.planned = true

	var corpora []string
	cascading := make(map[string]bool)
	for _, c := range selected {
		reason := s.dirtyCorpora[c]
		if reason == ReasonNone && s.fullCascade {
			reason = ReasonFullCascade
		}
		if reason == ReasonNone {
			continue
		}
		slog.DebugContext(ctx, "Refreshing corpus branch", "corpus", c, "reason", reason.String())
		corpora = append(corpora, c)
		cascading[c] = true
	}

	var topics []dashboard.TopicRef
	for _, ref := range selectedRefs {
		if cascading[ref.Corpus] {
			continue
		}
		if reason, ok := s.dirtyTopics[ref]; ok {
			slog.DebugContext(ctx, "Refreshing topic branch",
				"corpus", ref.Corpus, "topic", ref.Topic, "reason", reason.String())
			topics = append(topics, ref)
		}
	}

	return corpora, topics
}

// cascade fetches the topics of each corpus and, once a corpus merged, the
// query groups of its selected topics. Fetches run in parallel, bounded per
// stage by maxConcurrent. Branch errors never cancel siblings.
func (s *defaultSynchronizer) cascade(
	ctx context.Context, gen uint64, corpora []string, topics []dashboard.TopicRef,
) error {
	if len(corpora) == 0 && len(topics) == 0 {
		return nil
	}

	errs := &errorCollector{}
	var topicGroup, queryGroupGroup errgroup.Group
	topicGroup.SetLimit(s.maxConcurrent)
	queryGroupGroup.SetLimit(s.maxConcurrent)

	refreshQueryGroups := func(corpus, topic string) {
		queryGroupGroup.Go(func() error {
			errs.add(s.refreshQueryGroups(ctx, gen, corpus, topic))
			return nil
		})
	}

	for _, corpus := range corpora {
		topicGroup.Go(func() error {
			merged, err := s.refreshTopics(ctx, gen, corpus)
			errs.add(err)
			if !merged {
				return nil
			}
			for _, topic := range s.state.SelectedTopics(corpus) {
				refreshQueryGroups(corpus, topic)
			}
			return nil
		})
	}
	for _, ref := range topics {
		refreshQueryGroups(ref.Corpus, ref.Topic)
	}

	// every queryGroupGroup.Go call happens before topicGroup finishes
	_ = topicGroup.Wait()
	_ = queryGroupGroup.Wait()
	return errs.err()
}

// refreshTopics reports whether the fetched topics were merged
func (s *defaultSynchronizer) refreshTopics(ctx context.Context, gen uint64, corpus string) (bool, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "sync.refreshTopics",
		trace.WithAttributes(otel.AttrCorpus.String(corpus)))
	defer span.End()

	s.tracker.Start(dashboard.KindTopic)
	start := time.Now()
	names, err := s.gateway.GetTopicNames(ctx, corpus)
	s.metrics.RecordFetch(ctx, string(dashboard.KindTopic), time.Since(start), err == nil)
	if err != nil {
		otel.RecordError(span, err)
		s.tracker.Fail(dashboard.KindTopic, err)
		slog.WarnContext(ctx, "Topic refresh failed", "corpus", corpus, "error", err)
		return false, fmt.Errorf("topics of corpus %q: %w", corpus, err)
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(names)))

	var added []dashboard.TopicItem
	var size int
	branch := dashboard.TopicBranch(corpus)
	applied := s.state.Apply(gen, branch, func(l *dashboard.Lists) {
		l.Topics, added = dashboard.MergeTopics(l.Topics, corpus, names)
		size = len(l.Topics)
	})
	if !applied {
		// a newer cycle already merged this corpus and cascaded below it
		s.discardStale(ctx, branch, gen)
		return false, nil
	}

	s.clearCorpus(corpus)
	s.recordMerge(ctx, dashboard.KindTopic, len(added), size)
	return true, nil
}

// refreshQueryGroups is best-effort: failures are recorded but not logged
func (s *defaultSynchronizer) refreshQueryGroups(ctx context.Context, gen uint64, corpus, topic string) error {
	ctx, span := otel.StartSpan(ctx, s.tracer, "sync.refreshQueryGroups",
		trace.WithAttributes(otel.AttrCorpus.String(corpus), otel.AttrTopic.String(topic)))
	defer span.End()

	s.tracker.Start(dashboard.KindQueryGroup)
	start := time.Now()
	names, err := s.gateway.GetQueryGroupNames(ctx, corpus, topic)
	s.metrics.RecordFetch(ctx, string(dashboard.KindQueryGroup), time.Since(start), err == nil)
	ref := dashboard.TopicRef{Corpus: corpus, Topic: topic}
	if err != nil {
		otel.RecordError(span, err)
		s.tracker.Fail(dashboard.KindQueryGroup, err)
		s.markTopic(ref, ReasonRetry)
		return fmt.Errorf("query groups of %s/%s: %w", corpus, topic, err)
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(names)))

	var added []dashboard.QueryGroupItem
	var size int
	branch := dashboard.QueryGroupBranch(corpus, topic)
	applied := s.state.Apply(gen, branch, func(l *dashboard.Lists) {
		l.QueryGroups, added = dashboard.MergeQueryGroups(l.QueryGroups, corpus, topic, names)
		size = len(l.QueryGroups)
	})
	if !applied {
		s.discardStale(ctx, branch, gen)
		return nil
	}

	s.clearTopic(ref)
	s.recordMerge(ctx, dashboard.KindQueryGroup, len(added), size)
	return nil
}

func (s *defaultSynchronizer) recordMerge(ctx context.Context, kind dashboard.ListKind, added, size int) {
	s.metrics.RecordMerge(ctx, string(kind), added, size)
	s.tracker.Succeed(kind, size, "")
	if added > 0 {
		slog.DebugContext(ctx, "Merged new items", "kind", kind, "added", added, "size", size)
	}
}

// discardStale drops a result because a newer generation already merged branch
func (s *defaultSynchronizer) discardStale(ctx context.Context, branch dashboard.Branch, gen uint64) {
	s.metrics.RecordStaleResult(ctx, string(branch.Kind))
	s.tracker.Discard(branch.Kind)
	slog.DebugContext(ctx, "Discarding result superseded by a newer cycle",
		"kind", branch.Kind,
		"corpus", branch.Corpus,
		"topic", branch.Topic,
		"generation", gen,
		"applied_generation", s.state.AppliedGeneration(branch))
}

func (s *defaultSynchronizer) markCorpus(corpus string, reason Reason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markCorpusLocked(corpus, reason)
}

// markCorpusLocked keeps the first reason a branch became dirty
func (s *defaultSynchronizer) markCorpusLocked(corpus string, reason Reason) {
	if _, ok := s.dirtyCorpora[corpus]; !ok {
		s.dirtyCorpora[corpus] = reason
	}
}

func (s *defaultSynchronizer) clearCorpus(corpus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirtyCorpora, corpus)
}

func (s *defaultSynchronizer) markTopic(ref dashboard.TopicRef, reason Reason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dirtyTopics[ref]; !ok {
		s.dirtyTopics[ref] = reason
	}
}

func (s *defaultSynchronizer) clearTopic(ref dashboard.TopicRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirtyTopics, ref)
}

func flatList(l *dashboard.Lists, kind dashboard.ListKind) *[]dashboard.FilterItem {
	switch kind {
	case dashboard.KindMetric:
		return &l.Metrics
	case dashboard.KindVersion:
		return &l.Versions
	default:
		return &l.Corpora
	}
}

// errorCollector gathers branch errors from concurrent goroutines
type errorCollector struct {
	mu   gosync.Mutex
	errs []error
}

func (c *errorCollector) add(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func (c *errorCollector) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.errs...)
}
