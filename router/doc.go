// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ballotbox API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Poll management (admin, requires X-Admin-Key for option changes):

	POST /polls              - Create poll with options
	POST /polls/{id}/options - Add option

Voting (public, requires X-Voter-Token to cast):

	POST /voters           - Mint a voter identity
	POST /polls/{id}/votes - Cast a vote

Results (public):

	GET /polls/{id}         - Poll info, options, live tallies
	GET /options/{id}/tally - Single option tally

Admin (requires X-Admin-Key):

	POST /polls/{id}/reconcile - Recount tallies from vote rows

# Handler Initialization

The router creates handler instances with dependency injection:

	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
