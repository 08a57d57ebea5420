// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/mascon/models"
	"github.com/danielhkuo/mascon/testutil"
)

// TestSessionLifecycle walks a session from creation through Q&A to the
// leaderboard
func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	cfg := testutil.GetTestConfig()
	events := NewEventHandler(env.db, cfg)
	agenda := NewAgendaHandler(env.db, cfg)
	qa := NewQAHandler(env.db, cfg)
	points := NewGamificationHandler(env.db, cfg)

	// Step 1: organizer schedules a talk
	start := time.Now().UTC().Truncate(time.Hour).Add(time.Hour)
	w := httptest.NewRecorder()
	events.CreateSession(w, request("POST", "/e/demo/sessions", models.CreateSessionRequest{
		Title:     "Scaling Postgres",
		StartTime: start,
		EndTime:   start.Add(45 * time.Minute),
	}, env.organizer))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var session models.Session
	testutil.AssertJSON(t, w, &session)
	if session.SessionType != "talk" {
		t.Errorf("Expected default session type 'talk', got %q", session.SessionType)
	}

	w = httptest.NewRecorder()
	events.ListSessions(w, request("GET", "/e/demo/sessions", nil, env.alice))
	testutil.AssertStatus(t, w, http.StatusOK)
	var sessions []models.Session
	testutil.AssertJSON(t, w, &sessions)
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Fatalf("Expected the new session listed, got %+v", sessions)
	}

	// Step 2: Alice adds it to her agenda
	w = httptest.NewRecorder()
	agenda.Add(w, request("POST", "/e/demo/agenda", models.AddAgendaRequest{SessionID: session.ID}, env.alice))
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Step 3: Alice asks anonymously, Bob upvotes
	w = httptest.NewRecorder()
	qa.Ask(w, request("POST", "/e/demo/sessions/"+session.ID+"/questions",
		models.AskQuestionRequest{Content: "How do you shard?", IsAnonymous: true}, env.alice, "sessionId", session.ID))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var question models.Question
	testutil.AssertJSON(t, w, &question)

	w = httptest.NewRecorder()
	qa.Upvote(w, request("POST", "/e/demo/questions/"+question.ID+"/upvote", nil, env.bob, "questionId", question.ID))
	testutil.AssertStatus(t, w, http.StatusOK)
	var up models.UpvoteResponse
	testutil.AssertJSON(t, w, &up)
	if !up.Recorded || up.VotesCount != 1 {
		t.Errorf("Expected first upvote recorded, got %+v", up)
	}

	w = httptest.NewRecorder()
	qa.List(w, request("GET", "/e/demo/sessions/"+session.ID+"/questions", nil, env.bob, "sessionId", session.ID))
	testutil.AssertStatus(t, w, http.StatusOK)
	var questions []models.Question
	testutil.AssertJSON(t, w, &questions)
	if len(questions) != 1 || questions[0].Author != nil {
		t.Errorf("Expected one anonymous question for Bob, got %+v", questions)
	}

	// Step 4: only the organizer can mark it answered
	answered := models.SetAnsweredRequest{Answered: true}
	w = httptest.NewRecorder()
	qa.SetAnswered(w, request("POST", "/e/demo/questions/"+question.ID+"/answered", answered, env.bob, "questionId", question.ID))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	qa.SetAnswered(w, request("POST", "/e/demo/questions/"+question.ID+"/answered", answered, env.organizer, "questionId", question.ID))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Step 5: asking earned Alice 20 points
	w = httptest.NewRecorder()
	points.Leaderboard(w, request("GET", "/e/demo/leaderboard", nil, env.bob))
	testutil.AssertStatus(t, w, http.StatusOK)
	var board []models.LeaderboardEntry
	testutil.AssertJSON(t, w, &board)
	if len(board) != 1 || board[0].UserID != env.alice || board[0].Points != 20 {
		t.Errorf("Expected Alice leading with 20, got %+v", board)
	}
}

// TestMessagingFlow covers starting a thread, messaging, and read state
func TestMessagingFlow(t *testing.T) {
	env := newTestEnv(t)
	cfg := testutil.GetTestConfig()
	h := NewMessagingHandler(env.db, cfg)
	notes := NewNotificationHandler(env.db, cfg)

	w := httptest.NewRecorder()
	h.StartThread(w, request("POST", "/e/demo/threads", models.StartThreadRequest{ParticipantID: env.bob}, env.alice))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var started models.StartThreadResponse
	testutil.AssertJSON(t, w, &started)

	w = httptest.NewRecorder()
	h.SendMessage(w, request("POST", "/e/demo/threads/"+started.ThreadID+"/messages",
		models.SendMessageRequest{Content: "Coffee after the keynote?"}, env.alice, "threadId", started.ThreadID))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	notes.Unread(w, request("GET", "/notifications/unread", nil, env.bob))
	testutil.AssertStatus(t, w, http.StatusOK)
	var unread map[string]int
	testutil.AssertJSON(t, w, &unread)
	if unread["unread"] != 1 {
		t.Errorf("Expected one unread notification for Bob, got %v", unread)
	}

	// Outsiders cannot read the thread
	w = httptest.NewRecorder()
	h.OpenThread(w, request("GET", "/e/demo/threads/"+started.ThreadID, nil, env.organizer, "threadId", started.ThreadID))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	h.OpenThread(w, request("GET", "/e/demo/threads/"+started.ThreadID, nil, env.bob, "threadId", started.ThreadID))
	testutil.AssertStatus(t, w, http.StatusOK)
	var detail models.ThreadDetail
	testutil.AssertJSON(t, w, &detail)
	if len(detail.Messages) != 1 || detail.MarkedRead != 1 || detail.OtherUser.ID != env.alice {
		t.Errorf("Unexpected thread detail %+v", detail)
	}

	w = httptest.NewRecorder()
	h.ListThreads(w, request("GET", "/e/demo/threads", nil, env.bob))
	testutil.AssertStatus(t, w, http.StatusOK)
	var threads []models.ThreadSummary
	testutil.AssertJSON(t, w, &threads)
	if len(threads) != 1 || threads[0].UnreadCount != 0 {
		t.Errorf("Expected one read thread, got %+v", threads)
	}
}
