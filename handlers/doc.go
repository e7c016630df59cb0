// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballotbox API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - PollHandler: poll and option creation
  - VotingHandler: voter registration and vote casting
  - ResultsHandler: poll reads and tally reads
  - AdminHandler: tally reconciliation and vote audits

# Voting Flow

	POST /voters               → RegisterVoter (returns voter_token)
	POST /polls/{id}/votes     → CastVote

CastVote requires the X-Voter-Token header. The handler resolves the
token to a user ID, runs the advisory validation pipeline, then hands
off to the vote ledger. Rejections come back with accepted=false and a
stable error_kind:

	not_authenticated  → 401
	poll_not_found     → 404
	already_voted      → 409
	poll_expired       → 410
	invalid_option     → 422
	transient_conflict → 503 (with Retry-After)

# Poll Management

	POST /polls              → CreatePoll (returns admin_key)
	POST /polls/{id}/options → AddOption

Admin operations require the X-Admin-Key header.

# Reads

	GET /polls/{id}          → GetPoll (poll, options, live tallies)
	GET /options/{id}/tally  → GetOptionTally (stored counter, cached)

# Moderation

	POST /polls/{id}/reconcile → ReconcileTallies (admin only)
	GET  /polls/{id}/votes     → ListVotes (admin only)

ReconcileTallies recounts tallies from vote rows after out-of-band
moderation. ListVotes returns the committed vote records for audit;
voter identities are never serialized.
*/
package handlers
