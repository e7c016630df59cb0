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

type VotingHandler struct {
	cfg      cliparse.Config
	pipeline *vote.Pipeline
	ledger   *vote.Ledger
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{
		cfg:      cfg,
		pipeline: vote.NewPipeline(db),
		ledger:   vote.NewLedger(db, cfg.CastRetries, cfg.CastBackoff),
	}
}

// RegisterVoter handles POST /voters
// Mints a fresh user ID and its signed voter token. The token is the
// caller's identity from here on; there is no recovery if it's lost.
func (h *VotingHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate user ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	token := auth.IssueVoterToken(userID, h.cfg.VoterTokenSalt)

	slog.Info("voter registered", "user_id", userID, "remote", middleware.GetClientIP(r))

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		UserID:     userID,
		VoterToken: token,
	})
}

// CastVote handles POST /polls/:id/votes
//
// The advisory pipeline rejects cheaply on the common path; the ledger's
// transaction is what actually decides. Both outcomes map onto the same
// error taxonomy, so the response shape is identical either way.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	// Resolve caller identity. An absent or invalid token means the cast is
	// anonymous, which the taxonomy reports as not_authenticated.
	var userID string
	if token := r.Header.Get("X-Voter-Token"); token != "" {
		id, err := auth.VerifyVoterToken(token, h.cfg.VoterTokenSalt)
		if err != nil {
			writeCastRejection(w, vote.KindNotAuthenticated)
			return
		}
		userID = id
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	outcome, err := h.pipeline.Validate(r.Context(), pollID, req.OptionID, userID)
	if err != nil {
		slog.Error("vote validation failed", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !outcome.OK {
		writeCastRejection(w, outcome.Kind)
		return
	}

	result, err := h.ledger.CastVote(r.Context(), pollID, req.OptionID, userID)
	if err != nil {
		slog.Error("vote cast failed", "error", err, "poll_id", pollID, "option_id", req.OptionID)
		if result.Kind == vote.KindTransientConflict {
			w.Header().Set("Retry-After", "1")
			writeCastRejection(w, result.Kind)
			return
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	if !result.Accepted {
		writeCastRejection(w, result.Kind)
		return
	}

	slog.Info("vote recorded",
		"poll_id", pollID,
		"option_id", req.OptionID,
		"new_count", result.NewCount,
	)

	newCount := result.NewCount
	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Accepted: true,
		NewCount: &newCount,
	})
}

func writeCastRejection(w http.ResponseWriter, kind vote.ErrorKind) {
	middleware.JSONResponse(w, statusForKind(kind), models.CastVoteResponse{
		Accepted:  false,
		ErrorKind: kind.String(),
	})
}

// statusForKind is the endpoint layer's translation of the stable taxonomy
// into HTTP semantics.
func statusForKind(kind vote.ErrorKind) int {
	switch kind {
	case vote.KindNotAuthenticated:
		return http.StatusUnauthorized
	case vote.KindPollNotFound:
		return http.StatusNotFound
	case vote.KindPollExpired:
		return http.StatusGone
	case vote.KindInvalidOption:
		return http.StatusUnprocessableEntity
	case vote.KindAlreadyVoted:
		return http.StatusConflict
	case vote.KindTransientConflict:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
