// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/mhutchins/ballotbox/auth"
	"github.com/mhutchins/ballotbox/cliparse"
	"github.com/mhutchins/ballotbox/middleware"
	"github.com/mhutchins/ballotbox/models"
	"github.com/mhutchins/ballotbox/vote"
)

type AdminHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	tallies *vote.Tallies
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, tallies: vote.NewTallies(db)}
}

// ReconcileTallies handles POST /polls/:id/reconcile
//
// Recounts each option's tally from committed vote rows and repairs drift.
// The cast path cannot produce drift; this exists for the aftermath of
// privileged vote deletion, which happens outside this service.
func (h *AdminHandler) ReconcileTallies(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(pollID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	// Distinguish "no drift" from "no such poll"
	checked, err := h.tallies.CountOptions(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to count options", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if checked == 0 {
		var exists bool
		if err := h.db.QueryRow("SELECT EXISTS(SELECT 1 FROM polls WHERE id = $1)", pollID).Scan(&exists); err != nil {
			slog.Error("failed to query poll", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
			return
		}
	}

	repairs, err := h.tallies.Reconcile(r.Context(), pollID)
	if err != nil {
		slog.Error("reconciliation failed", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Reconciliation failed")
		return
	}

	repaired := make([]models.TallyRepair, 0, len(repairs))
	for _, rep := range repairs {
		repaired = append(repaired, models.TallyRepair{
			OptionID: rep.OptionID,
			Stored:   rep.Stored,
			Counted:  rep.Counted,
		})
	}

	if len(repaired) > 0 {
		slog.Warn("tally drift repaired", "poll_id", pollID, "options", len(repaired))
	} else {
		slog.Info("tallies reconciled, no drift", "poll_id", pollID)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ReconcileResponse{
		OptionsChecked: checked,
		Repaired:       repaired,
	})
}

// ListVotes handles GET /polls/:id/votes
// Returns a poll's committed vote records, newest first, for moderation
// audits. Voter identities stay server-side: VoteRecord never serializes
// its user_id.
func (h *AdminHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(pollID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var exists bool
	if err := h.db.QueryRow("SELECT EXISTS(SELECT 1 FROM polls WHERE id = $1)", pollID).Scan(&exists); err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, user_id, poll_id, option_id, created_at
		FROM votes
		WHERE poll_id = $1
		ORDER BY created_at DESC, id
	`, pollID)
	if err != nil {
		slog.Error("failed to query votes", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	votes := []models.VoteRecord{}
	for rows.Next() {
		var v models.VoteRecord
		if err := rows.Scan(&v.ID, &v.UserID, &v.PollID, &v.OptionID, &v.CreatedAt); err != nil {
			slog.Error("failed to scan vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollVotesResponse{
		PollID: pollID,
		Votes:  votes,
	})
}
