package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paycheckai/paycheck"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"cash":     s.portfolio.Cash(),
		"holdings": s.portfolio.Holdings(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"history": s.portfolio.History(),
	})
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), actionTimeout)
	defer cancel()

	snapshot, err := s.provider.Fetch(ctx, s.cfg.Tickers)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.portfolio.Deposit(paycheck.M(req.Amount, s.cfg.Currency)); err != nil {
		s.writeError(w, err)
		return
	}
	// the state changed: a previously generated recommendation is stale.
	s.pending = nil

	s.writeJSON(w, http.StatusOK, map[string]any{"cash": s.portfolio.Cash()})
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), actionTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	// by default the whole cash balance is up for investment.
	deposit := s.portfolio.Cash()
	if req.Amount > 0 {
		deposit = paycheck.M(req.Amount, s.cfg.Currency)
	}

	snapshot, err := s.provider.Fetch(ctx, s.cfg.Tickers)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.recommender.Generate(ctx, s.portfolio, snapshot, deposit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.pending = &rec
	s.pendingSnap = snapshot
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "no pending recommendation"})
		return
	}
	if req.ID != "" && req.ID != s.pending.ID {
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "recommendation " + req.ID + " is not pending"})
		return
	}

	entry, err := s.portfolio.Apply(*s.pending)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.pending = nil

	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}

// writeError maps the domain failure kinds onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, paycheck.ErrInvalidAmount), errors.Is(err, paycheck.ErrInvalidExecution):
		status = http.StatusBadRequest
	case errors.Is(err, paycheck.ErrDataUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, paycheck.ErrRecommendationFailed):
		status = http.StatusUnprocessableEntity
	}
	s.log.Warn().Err(err).Int("status", status).Msg("request failed")
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
