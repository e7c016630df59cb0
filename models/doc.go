// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, options, expires_in_seconds
  - AddOptionRequest: label
  - CastVoteRequest: option_id

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll_id, admin_key, option_ids
  - AddOptionResponse: option_id
  - RegisterVoterResponse: user_id, voter_token
  - CastVoteResponse: accepted, new_count, error_kind
  - PollResponse: poll, options, expired, expires_in
  - TallyResponse: option_id, votes
  - ReconcileResponse: options_checked, repaired
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Poll: poll metadata; ExpiresAt nil means the poll never expires
  - Option: voting option with its stored tally
  - VoteRecord: one committed vote; immutable once created

VoteRecord.UserID is never serialized - vote rows tie a user to a poll
and must not leak through read endpoints.
*/
package models
