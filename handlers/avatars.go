// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/niranjanbala/myavatar/cliparse"
	"github.com/niranjanbala/myavatar/demo"
	"github.com/niranjanbala/myavatar/middleware"
	"github.com/niranjanbala/myavatar/models"
)

const defaultFeedLimit = 10

type AvatarHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAvatarHandler(db *sql.DB, cfg cliparse.Config) *AvatarHandler {
	return &AvatarHandler{db: db, cfg: cfg}
}

// GetAvatars handles GET /avatars
// Query params: persona (optional filter), limit (default 10),
// offset (default 0). Ordered by creation time descending; no ranking.
func (h *AvatarHandler) GetAvatars(w http.ResponseWriter, r *http.Request) {
	persona := r.URL.Query().Get("persona")
	limit := parsePositiveInt(r.URL.Query().Get("limit"), defaultFeedLimit)
	offset := parseOffset(r.URL.Query().Get("offset"))

	if h.cfg.DemoMode() {
		middleware.JSONResponse(w, http.StatusOK, models.AvatarsResponse{
			Avatars: demoFeedPage(persona, limit, offset),
		})
		return
	}

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
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query avatars", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch avatars")
		return
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
			slog.Error("failed to scan avatar", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch avatars")
			return
		}
		avatars = append(avatars, a)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read avatars", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch avatars")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AvatarsResponse{Avatars: avatars})
}

// CreateAvatar handles POST /avatars
func (h *AvatarHandler) CreateAvatar(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAvatarRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ImageURL == "" || req.VoiceType == "" || req.PersonaTag == "" || req.Script == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !models.ValidPersonaTag(req.PersonaTag) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid persona tag")
		return
	}

	if h.cfg.DemoMode() {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database not configured")
		return
	}

	now := time.Now().UTC()
	avatar := models.Avatar{
		ID:         uuid.NewString(),
		ImageURL:   req.ImageURL,
		Script:     req.Script,
		PersonaTag: req.PersonaTag,
		VoiceType:  req.VoiceType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.HeyGenVideoURL != "" {
		avatar.HeyGenVideoURL = &req.HeyGenVideoURL
	}

	_, err := h.db.Exec(`
		INSERT INTO avatar (id, image_url, heygen_video_url, script, persona_tag, voice_type,
		                    is_approved, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, avatar.ID, avatar.ImageURL, avatar.HeyGenVideoURL, avatar.Script, avatar.PersonaTag,
		avatar.VoiceType, avatar.IsApproved, avatar.IsFeatured, avatar.CreatedAt, avatar.UpdatedAt)

	if err != nil {
		slog.Error("failed to insert avatar", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create avatar")
		return
	}

	slog.Info("avatar created", "avatar_id", avatar.ID, "persona_tag", avatar.PersonaTag)

	middleware.JSONResponse(w, http.StatusCreated, models.AvatarResponse{Avatar: avatar})
}

// demoFeedPage slices the fixture set the same way the store query
// pages real rows.
func demoFeedPage(persona string, limit, offset int) []models.Avatar {
	filtered := []models.Avatar{}
	for _, a := range demo.Avatars() {
		if persona != "" && a.PersonaTag != persona {
			continue
		}
		filtered = append(filtered, a)
	}

	if offset >= len(filtered) {
		return []models.Avatar{}
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end]
}

func parseOffset(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
