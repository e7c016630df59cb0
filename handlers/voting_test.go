// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mhutchins/ballotbox/models"
	"github.com/mhutchins/ballotbox/testutil"
)

func TestRegisterVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	req := testutil.MakeRequest("POST", "/voters", nil, nil)
	w := httptest.NewRecorder()
	handler.RegisterVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.RegisterVoterResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.UserID == "" {
		t.Error("Expected user_id in response")
	}
	if resp.VoterToken == "" {
		t.Error("Expected voter_token in response")
	}

	// The token must work against the cast endpoint
	pollID, _ := testutil.CreateTestPoll(t, db, cfg, nil)
	optionID := testutil.AddTestOption(t, db, pollID, "A")

	req = testutil.MakeRequest("POST", "/polls/"+pollID+"/votes", models.CastVoteRequest{
		OptionID: optionID,
	}, map[string]string{"X-Voter-Token": resp.VoterToken})
	req.SetPathValue("id", pollID)
	w = httptest.NewRecorder()
	handler.CastVote(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)
}

func castVote(t *testing.T, handler *VotingHandler, pollID, optionID, token string) *httptest.ResponseRecorder {
	t.Helper()

	headers := map[string]string{}
	if token != "" {
		headers["X-Voter-Token"] = token
	}
	req := testutil.MakeRequest("POST", "/polls/"+pollID+"/votes", models.CastVoteRequest{
		OptionID: optionID,
	}, headers)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.CastVote(w, req)
	return w
}

func TestCastVote_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, nil)
	optionID := testutil.AddTestOption(t, db, pollID, "Coffee")
	_, token := testutil.RegisterTestVoter(t, cfg)

	w := castVote(t, handler, pollID, optionID, token)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Accepted {
		t.Error("Expected accepted=true")
	}
	if resp.NewCount == nil || *resp.NewCount != 1 {
		t.Errorf("Expected new_count=1, got %v", resp.NewCount)
	}
	if resp.ErrorKind != "" {
		t.Errorf("Expected empty error_kind, got %q", resp.ErrorKind)
	}
}

func TestCastVote_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, nil)
	optA := testutil.AddTestOption(t, db, pollID, "A")
	optB := testutil.AddTestOption(t, db, pollID, "B")
	_, token := testutil.RegisterTestVoter(t, cfg)

	w := castVote(t, handler, pollID, optA, token)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Same option again
	w = castVote(t, handler, pollID, optA, token)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Accepted {
		t.Error("Duplicate vote must not be accepted")
	}
	if resp.ErrorKind != "already_voted" {
		t.Errorf("Expected error_kind=already_voted, got %q", resp.ErrorKind)
	}

	// Switching options doesn't help; one vote per voter per poll
	w = castVote(t, handler, pollID, optB, token)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var count int
	db.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1", pollID).Scan(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 vote row, got %d", count)
	}
}

func TestCastVote_NoToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, nil)
	optionID := testutil.AddTestOption(t, db, pollID, "A")

	w := castVote(t, handler, pollID, optionID, "")
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ErrorKind != "not_authenticated" {
		t.Errorf("Expected error_kind=not_authenticated, got %q", resp.ErrorKind)
	}
}

func TestCastVote_TamperedToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, nil)
	optionID := testutil.AddTestOption(t, db, pollID, "A")
	_, token := testutil.RegisterTestVoter(t, cfg)

	w := castVote(t, handler, pollID, optionID, token+"x")
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestCastVote_ExpiredPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	past := time.Now().UTC().Add(-time.Minute)
	pollID, _ := testutil.CreateTestPoll(t, db, cfg, &past)
	optionID := testutil.AddTestOption(t, db, pollID, "A")
	_, token := testutil.RegisterTestVoter(t, cfg)

	w := castVote(t, handler, pollID, optionID, token)
	testutil.AssertStatus(t, w, http.StatusGone)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ErrorKind != "poll_expired" {
		t.Errorf("Expected error_kind=poll_expired, got %q", resp.ErrorKind)
	}
}

func TestCastVote_UnknownPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)
	_, token := testutil.RegisterTestVoter(t, cfg)

	w := castVote(t, handler, "no-such-poll", "no-such-option", token)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ErrorKind != "poll_not_found" {
		t.Errorf("Expected error_kind=poll_not_found, got %q", resp.ErrorKind)
	}
}

func TestCastVote_OptionFromAnotherPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollA, _ := testutil.CreateTestPoll(t, db, cfg, nil)
	testutil.AddTestOption(t, db, pollA, "A")
	pollB, _ := testutil.CreateTestPoll(t, db, cfg, nil)
	foreignOption := testutil.AddTestOption(t, db, pollB, "B")
	_, token := testutil.RegisterTestVoter(t, cfg)

	w := castVote(t, handler, pollA, foreignOption, token)
	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ErrorKind != "invalid_option" {
		t.Errorf("Expected error_kind=invalid_option, got %q", resp.ErrorKind)
	}
}

func TestCastVote_BadRequests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, nil)
	testutil.AddTestOption(t, db, pollID, "A")
	_, token := testutil.RegisterTestVoter(t, cfg)

	// Empty body
	req := httptest.NewRequest("POST", "/polls/"+pollID+"/votes", nil)
	req.Header.Set("X-Voter-Token", token)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Missing option_id
	req = testutil.MakeRequest("POST", "/polls/"+pollID+"/votes", models.CastVoteRequest{},
		map[string]string{"X-Voter-Token": token})
	req.SetPathValue("id", pollID)
	w = httptest.NewRecorder()
	handler.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
