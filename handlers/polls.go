// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/mhutchins/ballotbox/auth"
	"github.com/mhutchins/ballotbox/cliparse"
	"github.com/mhutchins/ballotbox/middleware"
	"github.com/mhutchins/ballotbox/models"
)

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg}
}

// CreatePoll handles POST /polls
// Creates a poll with its initial options in one request. Polls are open
// for voting immediately; expiry is optional.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least 2 options are required")
		return
	}
	for _, label := range req.Options {
		if label == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option labels cannot be empty")
			return
		}
	}
	if req.ExpiresInSeconds != nil && *req.ExpiresInSeconds <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "expires_in_seconds must be positive")
		return
	}

	pollID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate poll ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}
	adminKey := auth.GenerateAdminKey(pollID, h.cfg.AdminKeySalt)

	now := time.Now().UTC()
	var expiresAt *time.Time
	if req.ExpiresInSeconds != nil {
		t := now.Add(time.Duration(*req.ExpiresInSeconds) * time.Second)
		expiresAt = &t
	}

	// Poll and options are created together or not at all
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO polls (id, title, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, req.Title, expiresAt, now)
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	optionIDs := make([]string, 0, len(req.Options))
	for _, label := range req.Options {
		optionID, err := auth.GenerateID(12)
		if err != nil {
			slog.Error("failed to generate option ID", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}

		_, err = tx.Exec(`
			INSERT INTO poll_options (id, poll_id, label, votes)
			VALUES ($1, $2, $3, 0)
		`, optionID, pollID, label)
		if err != nil {
			slog.Error("failed to insert option", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
		optionIDs = append(optionIDs, optionID)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit poll creation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(optionIDs))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:    pollID,
		AdminKey:  adminKey,
		OptionIDs: optionIDs,
	})
}

// AddOption handles POST /polls/:id/options
func (h *PollHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(pollID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.AddOptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Label == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "label is required")
		return
	}

	// Check poll exists and has not expired
	var expires sql.NullTime
	err := h.db.QueryRow("SELECT expires_at FROM polls WHERE id = $1", pollID).Scan(&expires)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if expires.Valid && !expires.Time.After(time.Now().UTC()) {
		middleware.ErrorResponse(w, http.StatusGone, "Poll has expired")
		return
	}

	optionID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate option ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add option")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO poll_options (id, poll_id, label, votes)
		VALUES ($1, $2, $3, 0)
	`, optionID, pollID, req.Label)
	if err != nil {
		slog.Error("failed to insert option", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add option")
		return
	}

	slog.Info("option added", "poll_id", pollID, "option_id", optionID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddOptionResponse{
		OptionID: optionID,
	})
}
