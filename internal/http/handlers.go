package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"policymap/internal/core"
	"policymap/internal/log"
	"policymap/internal/middleware/trace"
	"policymap/internal/services"
)

// stateOverview is a summary without its bill list.
type stateOverview struct {
	Name            string   `json:"name"`
	Code            string   `json:"usps"`
	Capital         string   `json:"capital"`
	Population      string   `json:"population"`
	BillCount       int      `json:"billCount"`
	EnactedCount    int      `json:"enactedCount"`
	IssueCategories []string `json:"issueCategories"`
}

type billView struct {
	core.Bill
	Enacted bool `json:"enacted"`
}

// stateDetail is a summary with its bills flagged for highlighting.
type stateDetail struct {
	stateOverview
	Bills []billView `json:"bills"`
}

func overviewOf(s core.StateSummary) stateOverview {
	enacted := 0
	for _, b := range s.Bills {
		if b.IsEnacted() {
			enacted++
		}
	}
	return stateOverview{
		Name:            s.Name,
		Code:            s.Code,
		Capital:         s.Capital,
		Population:      s.Population,
		BillCount:       s.BillCount,
		EnactedCount:    enacted,
		IssueCategories: s.IssueCategories,
	}
}

func detailOf(s core.StateSummary) stateDetail {
	bills := make([]billView, len(s.Bills))
	for i, b := range s.Bills {
		bills[i] = billView{Bill: b, Enacted: b.IsEnacted()}
	}
	return stateDetail{stateOverview: overviewOf(s), Bills: bills}
}

type statesResponse struct {
	Query  string          `json:"query"`
	Count  int             `json:"count"`
	States []stateOverview `json:"states"`
}

type searchResponse struct {
	Query string   `json:"query"`
	Codes []string `json:"codes"`
}

type suggestResponse struct {
	Query string   `json:"query"`
	Names []string `json:"names"`
}

type snapshotResponse struct {
	SnapshotID string            `json:"snapshotId"`
	LoadedAt   time.Time         `json:"loadedAt"`
	Source     string            `json:"source"`
	States     int               `json:"states"`
	TotalRows  int               `json:"totalRows"`
	BillsKept  int               `json:"billsKept"`
	Dropped    []core.Diagnostic `json:"dropped"`
}

func snapshotBody(snap *services.Snapshot) snapshotResponse {
	return snapshotResponse{
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Source:     snap.Source,
		States:     len(snap.Summaries),
		TotalRows:  snap.TotalRows,
		BillsKept:  snap.BillsKept,
		Dropped:    snap.Dropped,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Snapshot()
	if snap == nil {
		NewJSONResponse().
			Status(http.StatusServiceUnavailable).
			Body(map[string]string{"status": "loading"}).
			Write(w)
		return
	}
	NewJSONResponse().Body(map[string]string{"status": "ready", "snapshotId": snap.ID}).Write(w)
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r)
	if err != nil {
		ErrorResponse(http.StatusBadRequest, err.Error(), trace.RequestID(r.Context())).Write(w)
		return
	}
	states, err := s.catalog.States(q)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	out := make([]stateOverview, len(states))
	for i, st := range states {
		out[i] = overviewOf(st)
	}
	NewJSONResponse().Body(statesResponse{Query: q, Count: len(out), States: out}).Write(w)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	summary, err := s.catalog.Lookup(ParseStateCode(r))
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	NewJSONResponse().Body(detailOf(summary)).Write(w)
}

func (s *Server) handleFIPS(w http.ResponseWriter, r *http.Request) {
	summary, err := s.catalog.LookupFIPS(r.PathValue("id"))
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	NewJSONResponse().Body(detailOf(summary)).Write(w)
}

func (s *Server) handleName(w http.ResponseWriter, r *http.Request) {
	summary, err := s.catalog.LookupName(r.PathValue("name"))
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	NewJSONResponse().Body(detailOf(summary)).Write(w)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r)
	if err != nil {
		ErrorResponse(http.StatusBadRequest, err.Error(), trace.RequestID(r.Context())).Write(w)
		return
	}
	codes, err := s.catalog.Search(q)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	NewJSONResponse().Body(searchResponse{Query: q, Codes: codes}).Write(w)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	requestID := trace.RequestID(r.Context())
	q, err := ParseQuery(r)
	if err != nil {
		ErrorResponse(http.StatusBadRequest, err.Error(), requestID).Write(w)
		return
	}
	limit, err := ParseLimit(r)
	if err != nil {
		ErrorResponse(http.StatusBadRequest, err.Error(), requestID).Write(w)
		return
	}
	names, err := s.catalog.Suggest(q, limit)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	NewJSONResponse().Body(suggestResponse{Query: q, Names: names}).Write(w)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Snapshot()
	if snap == nil {
		s.writeCatalogError(w, r, services.ErrNotLoaded)
		return
	}
	NewJSONResponse().Body(snapshotBody(snap)).Write(w)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.reloadTimeout)
	defer cancel()

	snap, err := s.catalog.Reload(ctx)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Reload failed", log.FieldOperation, log.OpReload, log.FieldError, err)
		ErrorResponse(http.StatusBadGateway, "bill source unavailable", trace.RequestID(ctx)).Write(w)
		return
	}
	NewJSONResponse().Body(snapshotBody(snap)).Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded", trace.RequestID(r.Context())).Write(w)
}

func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := trace.RequestID(r.Context())
	switch {
	case errors.Is(err, services.ErrNotLoaded):
		ErrorResponse(http.StatusServiceUnavailable, "catalog not loaded", requestID).
			Header("Retry-After", "5").
			Write(w)
	case errors.Is(err, services.ErrNotFound):
		ErrorResponse(http.StatusNotFound, "state not found", requestID).Write(w)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Catalog query failed", log.FieldError, err)
		ErrorResponse(http.StatusInternalServerError, "internal error", requestID).Write(w)
	}
}
