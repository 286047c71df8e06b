// Package v1 provides the control API handlers for the dashboard state.
package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/rre-dashboard/internal/api/common"
	"github.com/stacklok/rre-dashboard/internal/dashboard"
	"github.com/stacklok/rre-dashboard/internal/gateway"
	"github.com/stacklok/rre-dashboard/internal/httpclient"
	"github.com/stacklok/rre-dashboard/internal/status"
	pkgsync "github.com/stacklok/rre-dashboard/internal/sync"
)

// SelectionRequest is the body of PUT /api/v1/selection/{kind}.
// Corpus scopes topics and query groups; Topic scopes query groups.
type SelectionRequest struct {
	Name     string `json:"name"`
	Corpus   string `json:"corpus,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Selected *bool  `json:"selected"`
}

// SelectionResponse reports the outcome of a selection toggle
type SelectionResponse struct {
	Kind     dashboard.ListKind `json:"kind"`
	Name     string             `json:"name"`
	Corpus   string             `json:"corpus,omitempty"`
	Topic    string             `json:"topic,omitempty"`
	Selected bool               `json:"selected"`
	Changed  bool               `json:"changed"`
	// RefreshError is set when the follow-up fetch of a newly selected branch failed
	RefreshError string `json:"refreshError,omitempty"`
}

// StatusResponse lists the refresh status of every list kind
type StatusResponse struct {
	Generation uint64                 `json:"generation"`
	Lists      []status.RefreshStatus `json:"lists"`
}

// Routes holds the dependencies of the control API handlers
type Routes struct {
	state        *dashboard.State
	tracker      *status.Tracker
	synchronizer pkgsync.Synchronizer
	gateway      gateway.Gateway
}

// NewRoutes creates a new Routes instance
func NewRoutes(
	state *dashboard.State,
	tracker *status.Tracker,
	synchronizer pkgsync.Synchronizer,
	gw gateway.Gateway,
) *Routes {
	return &Routes{
		state:        state,
		tracker:      tracker,
		synchronizer: synchronizer,
		gateway:      gw,
	}
}

// Router creates the /api/v1 router
func Router(routes *Routes) http.Handler {
	r := chi.NewRouter()

	r.Get("/state", routes.getState)
	r.Get("/data", routes.getData)
	r.Get("/status", routes.getStatus)
	r.Put("/selection/{kind}", routes.putSelection)
	r.Get("/filtered", routes.getFiltered)

	return r
}

// getState handles GET /api/v1/state
func (rr *Routes) getState(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, rr.state.Snapshot(), http.StatusOK)
}

// getData handles GET /api/v1/data
func (rr *Routes) getData(w http.ResponseWriter, _ *http.Request) {
	data := rr.state.Data()
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	common.WriteRawJSON(w, data.Raw(), http.StatusOK)
}

// getStatus handles GET /api/v1/status
func (rr *Routes) getStatus(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, StatusResponse{
		Generation: rr.state.Generation(),
		Lists:      rr.tracker.All(),
	}, http.StatusOK)
}

// putSelection handles PUT /api/v1/selection/{kind}
func (rr *Routes) putSelection(w http.ResponseWriter, r *http.Request) {
	param, err := common.GetAndValidateURLParam(r, "kind")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	kind, err := dashboard.ParseListKind(param)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req SelectionRequest
	if err := common.DecodeJSONBody(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateSelection(kind, req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := dashboard.ItemKey{Name: req.Name, Corpus: req.Corpus, Topic: req.Topic}
	changed, err := rr.state.SetSelected(kind, key, *req.Selected)
	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
			return
		}
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := SelectionResponse{
		Kind:     kind,
		Name:     req.Name,
		Corpus:   req.Corpus,
		Topic:    req.Topic,
		Selected: *req.Selected,
		Changed:  changed,
	}

	if changed {
		if err := rr.fireSelectionChanged(r, kind, req); err != nil {
			slog.WarnContext(r.Context(), "Refresh after selection change failed",
				"kind", kind,
				"name", req.Name,
				"error", err)
			resp.RefreshError = err.Error()
		}
	}

	common.WriteJSONResponse(w, resp, http.StatusOK)
}

// fireSelectionChanged runs the synchronizer event for corpus and topic toggles
func (rr *Routes) fireSelectionChanged(r *http.Request, kind dashboard.ListKind, req SelectionRequest) error {
	switch kind {
	case dashboard.KindCorpus:
		return rr.synchronizer.OnCorpusSelectionChanged(r.Context(), req.Name, *req.Selected)
	case dashboard.KindTopic:
		return rr.synchronizer.OnTopicSelectionChanged(r.Context(), req.Corpus, req.Name, *req.Selected)
	default:
		return nil
	}
}

func validateSelection(kind dashboard.ListKind, req SelectionRequest) error {
	if req.Selected == nil {
		return errors.New("selected is required")
	}
	if req.Name == "" {
		return errors.New("name is required")
	}
	switch kind {
	case dashboard.KindTopic:
		if req.Corpus == "" {
			return errors.New("corpus is required for topics")
		}
	case dashboard.KindQueryGroup:
		if req.Corpus == "" || req.Topic == "" {
			return errors.New("corpus and topic are required for query groups")
		}
	}
	return nil
}

// getFiltered handles GET /api/v1/filtered
func (rr *Routes) getFiltered(w http.ResponseWriter, r *http.Request) {
	filter := gateway.Filter{
		Corpus:     common.QueryValue(r, "corpus"),
		Topic:      common.QueryValue(r, "topic"),
		QueryGroup: common.QueryValue(r, "queryGroup"),
		Metrics:    rr.state.SelectedNames(dashboard.KindMetric),
		Versions:   rr.state.SelectedNames(dashboard.KindVersion),
	}

	eval, err := rr.gateway.FilterEvaluation(r.Context(), filter)
	if err != nil {
		msg := "Failed to query the evaluation server"
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			msg = httpErr.Error()
		}
		common.WriteErrorResponse(w, msg, http.StatusBadGateway)
		return
	}

	common.WriteRawJSON(w, eval.Raw(), http.StatusOK)
}
