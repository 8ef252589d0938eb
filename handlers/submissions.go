// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/niranjanbala/myavatar/cliparse"
	"github.com/niranjanbala/myavatar/heygen"
	"github.com/niranjanbala/myavatar/middleware"
	"github.com/niranjanbala/myavatar/models"
)

// Anonymous placeholder until accounts exist.
const defaultUserID = "550e8400-e29b-41d4-a716-446655440000"

// Image used when the video API returns no thumbnail.
const fallbackImageURL = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=400&h=400&fit=crop&crop=face"

type SubmissionHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	videos heygen.VideoGenerator
}

func NewSubmissionHandler(db *sql.DB, cfg cliparse.Config, videos heygen.VideoGenerator) *SubmissionHandler {
	return &SubmissionHandler{db: db, cfg: cfg, videos: videos}
}

// SubmitAvatar handles POST /submit-avatar
//
// Orchestration: create submission (processing) → generate video with
// the caller's key → create avatar (unapproved) → mark submission
// pending → log usage. A failed step marks the submission rejected with
// a reason and ends the request; rows already written stay as they are.
// There is no compensating rollback.
func (h *SubmissionHandler) SubmitAvatar(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAvatarRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Script == "" || req.PersonaTag == "" || req.VoiceType == "" || req.HeyGenAPIKey == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"Missing required fields: script, persona_tag, voice_type, heygen_api_key")
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

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	// Step 1: submission record
	submissionID := uuid.NewString()
	var notes *string
	if req.SubmissionNotes != "" {
		notes = &req.SubmissionNotes
	}
	_, err := h.db.Exec(`
		INSERT INTO avatar_submission (id, user_id, status, script, persona_tag, voice_type, submission_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, submissionID, userID, models.SubmissionProcessing, req.Script, req.PersonaTag,
		req.VoiceType, notes, time.Now().UTC())
	if err != nil {
		slog.Error("failed to create submission", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create submission record")
		return
	}

	// Step 2: generate the video with the caller's key
	videoResp, err := h.videos.GenerateVideo(r.Context(), req.HeyGenAPIKey, heygen.VideoRequest{
		Script:    req.Script,
		VoiceType: req.VoiceType,
	})
	if err != nil {
		slog.Error("video generation failed", "error", err, "submission_id", submissionID)
		h.rejectSubmission(submissionID, "HeyGen video generation failed")
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"Failed to generate HeyGen video. Please check your API key and try again.")
		return
	}

	// The API may accept the job without finishing it; poll until it
	// leaves processing, bounded by the request context.
	if videoResp.Status == heygen.StatusProcessing {
		videoResp, err = heygen.WaitForVideo(r.Context(), h.videos, req.HeyGenAPIKey, videoResp.VideoID)
		if err != nil {
			slog.Error("video status polling failed", "error", err, "submission_id", submissionID)
			h.rejectSubmission(submissionID, "HeyGen video generation failed")
			middleware.ErrorResponse(w, http.StatusBadRequest,
				"Failed to generate HeyGen video. Please check your API key and try again.")
			return
		}
	}
	if videoResp.Status == heygen.StatusFailed {
		slog.Error("video generation reported failure", "submission_id", submissionID, "video_id", videoResp.VideoID)
		h.rejectSubmission(submissionID, "HeyGen video generation failed")
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"Failed to generate HeyGen video. Please check your API key and try again.")
		return
	}

	// Step 3: avatar record, unapproved until moderated
	imageURL := videoResp.ThumbnailURL
	if imageURL == "" {
		imageURL = fallbackImageURL
	}

	now := time.Now().UTC()
	avatarID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO avatar (id, creator_id, image_url, heygen_video_url, heygen_avatar_id,
		                    script, persona_tag, voice_type, is_approved, is_featured,
		                    submission_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, avatarID, userID, imageURL, videoResp.VideoURL, videoResp.VideoID,
		req.Script, req.PersonaTag, req.VoiceType, false, false,
		notes, now, now)
	if err != nil {
		slog.Error("failed to create avatar", "error", err, "submission_id", submissionID)
		h.rejectSubmission(submissionID, "Failed to create avatar record")
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create avatar record")
		return
	}

	// Step 4: link avatar and mark pending approval
	_, err = h.db.Exec(`
		UPDATE avatar_submission
		SET avatar_id = $1, status = $2, processed_at = $3
		WHERE id = $4
	`, avatarID, models.SubmissionPending, time.Now().UTC(), submissionID)
	if err != nil {
		slog.Error("failed to update submission", "error", err, "submission_id", submissionID)
		h.rejectSubmission(submissionID, "Failed to finalize submission")
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to finalize submission")
		return
	}

	// Step 5: usage log
	responseData, _ := json.Marshal(videoResp)
	_, err = h.db.Exec(`
		INSERT INTO heygen_usage (id, user_id, avatar_id, api_call_type, tokens_used, cost_usd, response_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), userID, avatarID, "generate_video", 1, 0.10, string(responseData), time.Now().UTC())
	if err != nil {
		slog.Error("failed to record usage", "error", err, "submission_id", submissionID)
		h.rejectSubmission(submissionID, "Failed to record API usage")
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record API usage")
		return
	}

	slog.Info("avatar submitted", "submission_id", submissionID, "avatar_id", avatarID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitAvatarResponse{
		SubmissionID: submissionID,
		AvatarID:     avatarID,
		Status:       models.SubmissionPending,
		Message:      "Avatar submitted successfully! It will be reviewed before going live.",
	})
}

// rejectSubmission records a failure reason. Best effort: a failed
// update is logged, not surfaced, because the request is already on an
// error path.
func (h *SubmissionHandler) rejectSubmission(submissionID, reason string) {
	_, err := h.db.Exec(`
		UPDATE avatar_submission SET status = $1, rejection_reason = $2 WHERE id = $3
	`, models.SubmissionRejected, reason, submissionID)
	if err != nil {
		slog.Error("failed to mark submission rejected", "error", err, "submission_id", submissionID)
	}
}

// GetSubmissions handles GET /submit-avatar?user_id=&status=
// Returns the user's submissions newest first with joined avatar data.
func (h *SubmissionHandler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	if h.cfg.DemoMode() {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database not configured")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = defaultUserID
	}
	status := r.URL.Query().Get("status")

	query := `
		SELECT s.id, s.user_id, s.avatar_id, s.status, s.script, s.persona_tag, s.voice_type,
		       s.submission_notes, s.rejection_reason, s.processed_at, s.created_at,
		       a.id, a.image_url, a.heygen_video_url, a.script, a.persona_tag, a.voice_type,
		       a.is_approved, a.is_featured, a.created_at, a.updated_at
		FROM avatar_submission s
		LEFT JOIN avatar a ON s.avatar_id = a.id
		WHERE s.user_id = $1
	`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND s.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY s.created_at DESC`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query submissions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	defer rows.Close()

	submissions := []models.SubmissionWithAvatar{}
	for rows.Next() {
		var s models.SubmissionWithAvatar
		var (
			avatarID       sql.NullString
			imageURL       sql.NullString
			videoURL       sql.NullString
			script         sql.NullString
			personaTag     sql.NullString
			voiceType      sql.NullString
			isApproved     sql.NullBool
			isFeatured     sql.NullBool
			avatarCreated  sql.NullTime
			avatarUpdated  sql.NullTime
		)

		if err := rows.Scan(
			&s.ID, &s.UserID, &s.AvatarID, &s.Status, &s.Script, &s.PersonaTag, &s.VoiceType,
			&s.SubmissionNotes, &s.RejectionReason, &s.ProcessedAt, &s.CreatedAt,
			&avatarID, &imageURL, &videoURL, &script, &personaTag, &voiceType,
			&isApproved, &isFeatured, &avatarCreated, &avatarUpdated,
		); err != nil {
			slog.Error("failed to scan submission", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch submissions")
			return
		}

		if avatarID.Valid {
			avatar := models.Avatar{
				ID:         avatarID.String,
				ImageURL:   imageURL.String,
				Script:     script.String,
				PersonaTag: personaTag.String,
				VoiceType:  voiceType.String,
				IsApproved: isApproved.Bool,
				IsFeatured: isFeatured.Bool,
				CreatedAt:  avatarCreated.Time,
				UpdatedAt:  avatarUpdated.Time,
			}
			if videoURL.Valid {
				avatar.HeyGenVideoURL = &videoURL.String
			}
			s.Avatar = &avatar
		}

		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read submissions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmissionsResponse{Submissions: submissions})
}
