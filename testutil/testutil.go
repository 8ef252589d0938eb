// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/niranjanbala/myavatar/cliparse"
	"github.com/niranjanbala/myavatar/db"
	"github.com/niranjanbala/myavatar/models"
)

var dbCounter atomic.Int64

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own database, so tests stay independent.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A shared-cache memory database disappears when its last
	// connection closes; pin a single connection.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            8080,
		DatabaseURL:     "file:test?mode=memory",
		DatabaseType:    "sqlite",
		HeyGenAPIURL:    "https://heygen.invalid",
		LeaderboardMode: cliparse.LeaderboardAggregate,
	}
}

// CreateTestAvatar inserts an avatar and returns its ID. createdAt
// controls feed and fallback-leaderboard ordering.
func CreateTestAvatar(t *testing.T, conn *sql.DB, persona string, createdAt time.Time) string {
	t.Helper()

	avatarID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO avatar (id, image_url, script, persona_tag, voice_type,
		                    is_approved, is_featured, created_at, updated_at)
		VALUES ($1, 'https://img.example.com/a.jpg', 'Test script', $2, 'male_confident',
		        $3, $4, $5, $6)
	`, avatarID, persona, true, false, createdAt, createdAt)
	if err != nil {
		t.Fatalf("Failed to create test avatar: %v", err)
	}

	return avatarID
}

// CreateTestVote inserts a vote row directly.
func CreateTestVote(t *testing.T, conn *sql.DB, avatarID, deviceID, voteType string) string {
	t.Helper()

	voteID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO vote (id, avatar_id, device_id, vote_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, avatarID, deviceID, voteType, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// AddTestVotes inserts up and down votes for an avatar from distinct
// generated devices.
func AddTestVotes(t *testing.T, conn *sql.DB, avatarID string, up, down int) {
	t.Helper()

	for i := 0; i < up; i++ {
		CreateTestVote(t, conn, avatarID, fmt.Sprintf("device-up-%s-%d", avatarID, i), models.VoteUp)
	}
	for i := 0; i < down; i++ {
		CreateTestVote(t, conn, avatarID, fmt.Sprintf("device-down-%s-%d", avatarID, i), models.VoteDown)
	}
}

// CountVotes returns the number of vote rows for an (avatar, device)
// pair.
func CountVotes(t *testing.T, conn *sql.DB, avatarID, deviceID string) int {
	t.Helper()

	var count int
	err := conn.QueryRow(`
		SELECT COUNT(*) FROM vote WHERE avatar_id = $1 AND device_id = $2
	`, avatarID, deviceID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return count
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
