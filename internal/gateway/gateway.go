// Package gateway wraps the evaluation server's REST endpoints. Each operation
// issues exactly one GET; there is no retry and no caching. Failures are logged
// with the failing URL and returned to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/stacklok/rre-dashboard/internal/config"
	"github.com/stacklok/rre-dashboard/internal/dashboard"
	"github.com/stacklok/rre-dashboard/internal/httpclient"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks -source=gateway.go Gateway

// Gateway is the set of upstream operations used by the synchronizer
type Gateway interface {
	// GetEvaluationData fetches the full evaluation payload
	GetEvaluationData(ctx context.Context) (*dashboard.Evaluation, error)

	// GetMetricNames fetches the metric name list
	GetMetricNames(ctx context.Context) ([]string, error)

	// GetVersionNames fetches the version name list
	GetVersionNames(ctx context.Context) ([]string, error)

	// GetCorpusNames fetches the corpus name list
	GetCorpusNames(ctx context.Context) ([]string, error)

	// GetTopicNames fetches the topics of one corpus
	GetTopicNames(ctx context.Context, corpus string) ([]string, error)

	// GetQueryGroupNames fetches the query groups of one corpus and topic pair
	GetQueryGroupNames(ctx context.Context, corpus, topic string) ([]string, error)

	// FilterEvaluation fetches the evaluation payload restricted by filter
	FilterEvaluation(ctx context.Context, filter Filter) (*dashboard.Evaluation, error)
}

// Filter restricts an evaluation query. Empty fields are not sent.
type Filter struct {
	Corpus     string
	Topic      string
	QueryGroup string
	Metrics    []string
	Versions   []string
}

// Values encodes the filter as query parameters; metrics and versions repeat
func (f Filter) Values() url.Values {
	q := url.Values{}
	setIfNotEmpty(q, "corpus", f.Corpus)
	setIfNotEmpty(q, "topic", f.Topic)
	setIfNotEmpty(q, "queryGroup", f.QueryGroup)
	for _, m := range f.Metrics {
		q.Add("metric", m)
	}
	for _, v := range f.Versions {
		q.Add("version", v)
	}
	return q
}

type httpGateway struct {
	client    httpclient.Client
	endpoints config.Endpoints
	schema    *jsonschema.Schema
}

// New creates a Gateway that talks to the given endpoints through client
func New(client httpclient.Client, endpoints config.Endpoints) (Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}

	schema, err := compileEvaluationSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile evaluation schema: %w", err)
	}

	return &httpGateway{
		client:    client,
		endpoints: endpoints,
		schema:    schema,
	}, nil
}

func (g *httpGateway) GetEvaluationData(ctx context.Context) (*dashboard.Evaluation, error) {
	return g.fetchEvaluation(ctx, g.endpoints.Data, nil)
}

func (g *httpGateway) GetMetricNames(ctx context.Context) ([]string, error) {
	return g.fetchNames(ctx, g.endpoints.MetricList, nil)
}

func (g *httpGateway) GetVersionNames(ctx context.Context) ([]string, error) {
	return g.fetchNames(ctx, g.endpoints.VersionList, nil)
}

func (g *httpGateway) GetCorpusNames(ctx context.Context) ([]string, error) {
	return g.fetchNames(ctx, g.endpoints.CorpusList, nil)
}

func (g *httpGateway) GetTopicNames(ctx context.Context, corpus string) ([]string, error) {
	return g.fetchNames(ctx, g.endpoints.TopicList, url.Values{"corpus": {corpus}})
}

func (g *httpGateway) GetQueryGroupNames(ctx context.Context, corpus, topic string) ([]string, error) {
	return g.fetchNames(ctx, g.endpoints.QueryGroupList, url.Values{
		"corpus": {corpus},
		"topic":  {topic},
	})
}

func (g *httpGateway) FilterEvaluation(ctx context.Context, filter Filter) (*dashboard.Evaluation, error) {
	return g.fetchEvaluation(ctx, g.endpoints.Filter, filter.Values())
}

func (g *httpGateway) fetchNames(ctx context.Context, endpoint string, query url.Values) ([]string, error) {
	target := buildURL(endpoint, query)

	body, err := g.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		err = fmt.Errorf("failed to decode name list from %s: %w", target, err)
		slog.ErrorContext(ctx, "Invalid name list response", "url", target, "error", err)
		return nil, err
	}
	return names, nil
}

func (g *httpGateway) fetchEvaluation(
	ctx context.Context, endpoint string, query url.Values,
) (*dashboard.Evaluation, error) {
	target := buildURL(endpoint, query)

	body, err := g.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	if err := g.validateEvaluation(body); err != nil {
		err = fmt.Errorf("invalid evaluation payload from %s: %w", target, err)
		slog.ErrorContext(ctx, "Invalid evaluation response", "url", target, "error", err)
		return nil, err
	}
	return dashboard.NewEvaluation(body), nil
}

func (g *httpGateway) fetch(ctx context.Context, target string) ([]byte, error) {
	body, err := g.client.Get(ctx, target)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch from evaluation server",
			"url", target,
			"status", httpclient.StatusCode(err),
			"error", err)
		return nil, err
	}
	return body, nil
}

func (g *httpGateway) validateEvaluation(body []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	return g.schema.Validate(inst)
}

// buildURL appends query to endpoint, keeping any query already present
func buildURL(endpoint string, query url.Values) string {
	if len(query) == 0 {
		return endpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + query.Encode()
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
