// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/niranjanbala/myavatar/cliparse"
	"github.com/niranjanbala/myavatar/demo"
	"github.com/niranjanbala/myavatar/middleware"
	"github.com/niranjanbala/myavatar/models"
)

const defaultLeaderboardLimit = 20

type LeaderboardHandler struct {
	db        *sql.DB
	cfg       cliparse.Config
	demoVotes *demo.VoteStore
}

func NewLeaderboardHandler(db *sql.DB, cfg cliparse.Config, demoVotes *demo.VoteStore) *LeaderboardHandler {
	return &LeaderboardHandler{db: db, cfg: cfg, demoVotes: demoVotes}
}

// GetLeaderboard handles GET /leaderboard
// Query params: persona (optional filter), limit (default 20).
// Entries are recomputed on every request; nothing is cached.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	persona := r.URL.Query().Get("persona")
	limit := parsePositiveInt(r.URL.Query().Get("limit"), defaultLeaderboardLimit)

	if h.cfg.DemoMode() {
		middleware.JSONResponse(w, http.StatusOK, models.LeaderboardResponse{
			Leaderboard: h.demoLeaderboard(persona, limit),
		})
		return
	}

	var entries []models.LeaderboardEntry
	var err error

	// The path is fixed at startup by configuration, not probed per
	// request.
	switch h.cfg.LeaderboardMode {
	case cliparse.LeaderboardFallback:
		entries, err = h.fallbackLeaderboard(persona, limit)
	default:
		entries, err = h.aggregateLeaderboard(persona, limit)
	}

	if err != nil {
		slog.Error("failed to compute leaderboard", "error", err, "mode", h.cfg.LeaderboardMode)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LeaderboardResponse{Leaderboard: entries})
}

// aggregateLeaderboard runs the single-query path: one LEFT JOIN
// against a per-avatar vote aggregate, ordered in SQL.
func (h *LeaderboardHandler) aggregateLeaderboard(persona string, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT a.id, a.creator_id, a.image_url, a.heygen_video_url, a.heygen_avatar_id,
		       a.script, a.persona_tag, a.voice_type, a.is_approved, a.is_featured,
		       a.submission_notes, a.created_at, a.updated_at,
		       COALESCE(v.total_votes, 0) AS vote_count,
		       COALESCE(v.up_votes, 0) AS up_votes,
		       COALESCE(v.down_votes, 0) AS down_votes
		FROM avatar a
		LEFT JOIN (
			SELECT avatar_id,
			       COUNT(*) AS total_votes,
			       COUNT(CASE WHEN vote_type = 'up' THEN 1 END) AS up_votes,
			       COUNT(CASE WHEN vote_type = 'down' THEN 1 END) AS down_votes
			FROM vote
			GROUP BY avatar_id
		) v ON a.id = v.avatar_id
	`

	var args []interface{}
	if persona != "" {
		query += ` WHERE a.persona_tag = $1`
		args = append(args, persona)
	}

	query += `
		ORDER BY vote_count DESC,
		         CASE WHEN COALESCE(v.total_votes, 0) = 0 THEN 0
		              ELSE COALESCE(v.up_votes, 0) * 100.0 / v.total_votes
		         END DESC
	`
	query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate query failed: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(
			&e.ID, &e.CreatorID, &e.ImageURL, &e.HeyGenVideoURL, &e.HeyGenAvatarID,
			&e.Script, &e.PersonaTag, &e.VoiceType, &e.IsApproved, &e.IsFeatured,
			&e.SubmissionNotes, &e.CreatedAt, &e.UpdatedAt,
			&e.VoteCount, &e.UpVotes, &e.DownVotes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		e.ApprovalRate = ApprovalRate(e.UpVotes, e.VoteCount)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// fallbackLeaderboard runs the two-step path: fetch candidate avatars,
// then their votes, and reduce in memory.
//
// Known limitation: the limit applies to the recency-ordered avatar
// fetch, before any vote counts are known. An avatar outside the
// newest N never appears here no matter how many votes it has, so this
// path is not guaranteed to return the true top N.
func (h *LeaderboardHandler) fallbackLeaderboard(persona string, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT id, creator_id, image_url, heygen_video_url, heygen_avatar_id,
		       script, persona_tag, voice_type, is_approved, is_featured,
		       submission_notes, created_at, updated_at
		FROM avatar
	`
	var args []interface{}
	if persona != "" {
		query += ` WHERE persona_tag = $1`
		args = append(args, persona)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("avatar fetch failed: %w", err)
	}
	defer rows.Close()

	avatars := []models.Avatar{}
	for rows.Next() {
		var a models.Avatar
		if err := rows.Scan(
			&a.ID, &a.CreatorID, &a.ImageURL, &a.HeyGenVideoURL, &a.HeyGenAvatarID,
			&a.Script, &a.PersonaTag, &a.VoiceType, &a.IsApproved, &a.IsFeatured,
			&a.SubmissionNotes, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan avatar: %w", err)
		}
		avatars = append(avatars, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(avatars) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	votes, err := h.votesForAvatars(avatars)
	if err != nil {
		return nil, err
	}

	totals := ReduceVotes(votes)

	entries := make([]models.LeaderboardEntry, len(avatars))
	for i, a := range avatars {
		t := totals[a.ID]
		entries[i] = models.LeaderboardEntry{
			Avatar:       a,
			VoteCount:    t.Total,
			UpVotes:      t.Up,
			DownVotes:    t.Down,
			ApprovalRate: ApprovalRate(t.Up, t.Total),
		}
	}

	SortLeaderboard(entries)
	return entries, nil
}

// votesForAvatars fetches all votes for exactly the given avatars.
func (h *LeaderboardHandler) votesForAvatars(avatars []models.Avatar) ([]models.Vote, error) {
	placeholders := make([]string, len(avatars))
	args := make([]interface{}, len(avatars))
	for i, a := range avatars {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = a.ID
	}

	query := `
		SELECT avatar_id, vote_type FROM vote
		WHERE avatar_id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("vote fetch failed: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.AvatarID, &v.VoteType); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// demoLeaderboard applies the identical formula and ordering over the
// fixture avatars and the in-memory tally.
func (h *LeaderboardHandler) demoLeaderboard(persona string, limit int) []models.LeaderboardEntry {
	entries := []models.LeaderboardEntry{}
	for _, a := range demo.Avatars() {
		if persona != "" && a.PersonaTag != persona {
			continue
		}
		tally := h.demoVotes.Votes(a.ID)
		entries = append(entries, models.LeaderboardEntry{
			Avatar:       a,
			VoteCount:    tally.Total(),
			UpVotes:      tally.Up,
			DownVotes:    tally.Down,
			ApprovalRate: ApprovalRate(tally.Up, tally.Total()),
		})
	}

	SortLeaderboard(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// parsePositiveInt parses a query parameter, falling back to def for
// missing or invalid values.
func parsePositiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
