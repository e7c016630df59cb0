// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type CreatePollRequest struct {
	Title            string   `json:"title"`
	Options          []string `json:"options"`
	ExpiresInSeconds *int64   `json:"expires_in_seconds,omitempty"`
}

type AddOptionRequest struct {
	Label string `json:"label"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

// Response types

type CreatePollResponse struct {
	PollID    string   `json:"poll_id"`
	AdminKey  string   `json:"admin_key"`
	OptionIDs []string `json:"option_ids"`
}

type AddOptionResponse struct {
	OptionID string `json:"option_id"`
}

type RegisterVoterResponse struct {
	UserID     string `json:"user_id"`
	VoterToken string `json:"voter_token"`
}

type CastVoteResponse struct {
	Accepted  bool   `json:"accepted"`
	NewCount  *int   `json:"new_count,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

type PollResponse struct {
	Poll      Poll     `json:"poll"`
	Options   []Option `json:"options"`
	Expired   bool     `json:"expired"`
	ExpiresIn string   `json:"expires_in,omitempty"` // human phrasing, e.g. "2 hours from now"
}

type TallyResponse struct {
	OptionID string `json:"option_id"`
	Votes    int    `json:"votes"`
}

type PollVotesResponse struct {
	PollID string       `json:"poll_id"`
	Votes  []VoteRecord `json:"votes"`
}

type ReconcileResponse struct {
	OptionsChecked int           `json:"options_checked"`
	Repaired       []TallyRepair `json:"repaired"`
}

type TallyRepair struct {
	OptionID string `json:"option_id"`
	Stored   int    `json:"stored"`
	Counted  int    `json:"counted"`
}

// Domain types

type Poll struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type Option struct {
	ID     string `json:"id"`
	PollID string `json:"poll_id"`
	Label  string `json:"label"`
	Votes  int    `json:"votes"`
}

type VoteRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"` // Never expose in JSON
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
