// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and validation.

# Voter Tokens

A voter token is a stateless signed identity: "<userID>.<sig>" where sig
is a truncated HMAC-SHA256 of the user ID under the server's voter salt.

	token := auth.IssueVoterToken(userID, salt)
	userID, err := auth.VerifyVoterToken(token, salt)

The vote core trusts the user ID extracted here; it performs no identity
verification of its own. Losing the token means losing the identity -
there is no recovery flow.

# Admin Keys

Per-poll admin keys are deterministic HMACs and never stored:

	key := auth.GenerateAdminKey(pollID, salt)
	err := auth.ValidateAdminKey(pollID, key, salt)

# IDs

GenerateID produces random hex IDs for polls and options. Vote record
IDs use UUIDs instead (see package vote).
*/
package auth
