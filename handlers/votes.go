// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/niranjanbala/myavatar/cliparse"
	"github.com/niranjanbala/myavatar/demo"
	"github.com/niranjanbala/myavatar/middleware"
	"github.com/niranjanbala/myavatar/models"
)

type VoteHandler struct {
	db        *sql.DB
	cfg       cliparse.Config
	demoVotes *demo.VoteStore
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config, demoVotes *demo.VoteStore) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, demoVotes: demoVotes}
}

// SubmitVote handles POST /vote
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.AvatarID == "" || req.DeviceID == "" || req.VoteType == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.VoteType != models.VoteUp && req.VoteType != models.VoteDown {
		middleware.ErrorResponse(w, http.StatusBadRequest, `Invalid vote type. Must be "up" or "down"`)
		return
	}

	if h.cfg.DemoMode() {
		if !h.demoVotes.AddVote(req.AvatarID, req.DeviceID, req.VoteType) {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted for this avatar")
			return
		}
		middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
			Vote: models.Vote{
				ID:        "demo-" + uuid.NewString(),
				AvatarID:  req.AvatarID,
				DeviceID:  req.DeviceID,
				VoteType:  req.VoteType,
				CreatedAt: time.Now().UTC(),
			},
		})
		return
	}

	// Lookup first for the friendly conflict message
	var existingID string
	err := h.db.QueryRow(`
		SELECT id FROM vote WHERE avatar_id = $1 AND device_id = $2
	`, req.AvatarID, req.DeviceID).Scan(&existingID)

	if err == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted for this avatar")
		return
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to check existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to check existing vote")
		return
	}

	vote := models.Vote{
		ID:        uuid.NewString(),
		AvatarID:  req.AvatarID,
		DeviceID:  req.DeviceID,
		VoteType:  req.VoteType,
		CreatedAt: time.Now().UTC(),
	}

	_, err = h.db.Exec(`
		INSERT INTO vote (id, avatar_id, device_id, vote_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.AvatarID, vote.DeviceID, vote.VoteType, vote.CreatedAt)

	if err != nil {
		// The UNIQUE (avatar_id, device_id) constraint is the real
		// duplicate guard; a concurrent vote that slipped past the
		// lookup lands here.
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted for this avatar")
			return
		}
		slog.Error("failed to insert vote", "error", err, "avatar_id", req.AvatarID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create vote")
		return
	}

	slog.Info("vote recorded", "avatar_id", vote.AvatarID, "vote_type", vote.VoteType)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{Vote: vote})
}

// GetVoteCounts handles GET /vote?avatar_id=
func (h *VoteHandler) GetVoteCounts(w http.ResponseWriter, r *http.Request) {
	avatarID := r.URL.Query().Get("avatar_id")
	if avatarID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Avatar ID is required")
		return
	}

	if h.cfg.DemoMode() {
		tally := h.demoVotes.Votes(avatarID)
		middleware.JSONResponse(w, http.StatusOK, models.VoteCountsResponse{
			AvatarID:   avatarID,
			UpVotes:    tally.Up,
			DownVotes:  tally.Down,
			TotalVotes: tally.Total(),
		})
		return
	}

	rows, err := h.db.Query(`SELECT vote_type FROM vote WHERE avatar_id = $1`, avatarID)
	if err != nil {
		slog.Error("failed to query votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch votes")
		return
	}
	defer rows.Close()

	var up, down int
	for rows.Next() {
		var voteType string
		if err := rows.Scan(&voteType); err != nil {
			slog.Error("failed to scan vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch votes")
			return
		}
		if voteType == models.VoteUp {
			up++
		} else {
			down++
		}
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteCountsResponse{
		AvatarID:   avatarID,
		UpVotes:    up,
		DownVotes:  down,
		TotalVotes: up + down,
	})
}

// isUniqueViolation matches unique constraint errors from both lib/pq
// and modernc.org/sqlite.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
