// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mhutchins/ballotbox/cliparse"
	"github.com/mhutchins/ballotbox/middleware"
	"github.com/mhutchins/ballotbox/models"
	"github.com/mhutchins/ballotbox/vote"
)

type ResultsHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	tallies vote.TallyReader
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	// The cache decorates reads only; the cast path never sees it.
	return &ResultsHandler{
		db:      db,
		cfg:     cfg,
		tallies: vote.NewCachedTallies(vote.NewTallies(db), cfg.TallyCacheTTL),
	}
}

// GetPoll handles GET /polls/:id
// Returns the poll, its options, and their live tallies.
func (h *ResultsHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var poll models.Poll
	var expires sql.NullTime
	err := h.db.QueryRow(`
		SELECT id, title, expires_at, created_at
		FROM polls
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Title, &expires, &poll.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if expires.Valid {
		t := expires.Time
		poll.ExpiresAt = &t
	}

	rows, err := h.db.Query(`
		SELECT id, poll_id, label, votes
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY id
	`, poll.ID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Label, &opt.Votes); err != nil {
			slog.Error("failed to scan option", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.PollResponse{
		Poll:    poll,
		Options: options,
	}
	if poll.ExpiresAt != nil {
		resp.Expired = !poll.ExpiresAt.After(time.Now().UTC())
		if !resp.Expired {
			resp.ExpiresIn = humanize.Time(*poll.ExpiresAt)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetOptionTally handles GET /options/:id/tally
// Reads the stored counter (through the TTL cache when enabled), never a
// recount of vote rows.
func (h *ResultsHandler) GetOptionTally(w http.ResponseWriter, r *http.Request) {
	optionID := r.PathValue("id")
	if optionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option id is required")
		return
	}

	count, err := h.tallies.GetOptionTally(r.Context(), optionID)
	if errors.Is(err, vote.ErrOptionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Option not found")
		return
	}
	if err != nil {
		slog.Error("failed to read tally", "error", err, "option_id", optionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		OptionID: optionID,
		Votes:    count,
	})
}
