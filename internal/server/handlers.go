package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/propsage/internal/domain"
	"github.com/aristath/propsage/internal/modules/strategies"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

type scoreRequest struct {
	Props []domain.PropRecord `json:"props"`
}

// handleScore scores a batch of props against the current snapshots.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	scored := s.service.ScoreProps(req.Props)
	s.writeJSON(w, http.StatusOK, map[string]any{"props": scored})
}

type selectRequest struct {
	Props      []domain.PropRecord    `json:"props"`
	Strategy   string                 `json:"strategy"`
	Definition *strategies.Definition `json:"definition,omitempty"`
}

// handleSelect scores the submitted props and applies either a built-in
// strategy by key or a custom definition.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	scored := s.service.ScoreProps(req.Props)

	var selection strategies.Selection
	if req.Definition != nil {
		selection = s.service.SelectWithDefinition(scored, *req.Definition)
	} else {
		var err error
		selection, err = s.service.Select(scored, req.Strategy)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, selection)
}

type backtestRequest struct {
	Strategy   string                 `json:"strategy"`
	Definition *strategies.Definition `json:"definition,omitempty"`
	Weeks      []int                  `json:"weeks"`
}

// handleBacktest replays a strategy over the stored season.
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	def := strategies.Definition{}
	if req.Definition != nil {
		def = *req.Definition
	} else {
		var ok bool
		def, ok = strategies.ByKey(req.Strategy)
		if !ok {
			s.writeError(w, http.StatusBadRequest, errUnknownStrategy(req.Strategy))
			return
		}
	}

	result, err := s.service.Backtest(r.Context(), def, req.Weeks)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleStrategies lists the built-in strategy definitions.
func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"strategies": s.service.Strategies()})
}

// handleRankings returns defensive ranks for the category opposing a stat
// type.
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	// Stat names contain spaces, so the path segment arrives percent-encoded.
	raw := chi.URLParam(r, "stat")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	stat := domain.StatType(raw)
	if !stat.Valid() {
		s.writeError(w, http.StatusBadRequest, errUnknownStat(string(stat)))
		return
	}

	ranks, err := s.service.DefensiveRanks(stat)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"stat": stat, "ranks": ranks})
}

func (s *Server) weekParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "week"))
}

type ingestStatsRequest struct {
	Records []domain.GameStatRecord `json:"records"`
}

func (s *Server) handleIngestStats(w http.ResponseWriter, r *http.Request) {
	week, err := s.weekParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req ingestStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.service.IngestWeekStats(r.Context(), week, req.Records); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"week": week, "records": len(req.Records)})
}

type ingestAggregatesRequest struct {
	Aggregates []domain.TeamDefensiveAggregate `json:"aggregates"`
}

func (s *Server) handleIngestAggregates(w http.ResponseWriter, r *http.Request) {
	var req ingestAggregatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.service.IngestAggregates(r.Context(), req.Aggregates); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"aggregates": len(req.Aggregates)})
}

type ingestPropsRequest struct {
	Props []domain.PropRecord `json:"props"`
}

func (s *Server) handleIngestLiveProps(w http.ResponseWriter, r *http.Request) {
	week, err := s.weekParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req ingestPropsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.service.IngestLiveProps(r.Context(), week, req.Props); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"week": week, "props": len(req.Props)})
}

func (s *Server) handleMergeCanonical(w http.ResponseWriter, r *http.Request) {
	week, err := s.weekParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req ingestPropsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.service.MergeCanonical(r.Context(), week, req.Props); err != nil {
		// A deferred merge is not a client error; the retry job picks it up.
		s.writeJSON(w, http.StatusAccepted, map[string]string{"status": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"week": week, "props": len(req.Props)})
}

type errUnknownStrategy string

func (e errUnknownStrategy) Error() string { return "unknown strategy " + strconv.Quote(string(e)) }

type errUnknownStat string

func (e errUnknownStat) Error() string { return "unknown stat type " + strconv.Quote(string(e)) }
