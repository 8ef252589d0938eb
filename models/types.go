// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Persona tag constants
const (
	PersonaHacker  = "hacker"
	PersonaDiva    = "diva"
	PersonaFunny   = "funny"
	PersonaSerious = "serious"
	PersonaQuirky  = "quirky"
	PersonaTechy   = "techy"
)

// PersonaTags lists every valid persona tag.
var PersonaTags = []string{
	PersonaHacker, PersonaDiva, PersonaFunny,
	PersonaSerious, PersonaQuirky, PersonaTechy,
}

// ValidPersonaTag reports whether tag is one of the fixed persona tags.
func ValidPersonaTag(tag string) bool {
	for _, t := range PersonaTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Vote type constants
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Submission status constants
const (
	SubmissionProcessing = "processing"
	SubmissionPending    = "pending"
	SubmissionApproved   = "approved"
	SubmissionRejected   = "rejected"
)

// Request types

type CreateAvatarRequest struct {
	ImageURL       string `json:"image_url"`
	VoiceType      string `json:"voice_type"`
	PersonaTag     string `json:"persona_tag"`
	Script         string `json:"script"`
	HeyGenVideoURL string `json:"heygen_video_url,omitempty"`
}

type VoteRequest struct {
	AvatarID string `json:"avatar_id"`
	DeviceID string `json:"device_id"`
	VoteType string `json:"vote_type"`
}

type SubmitAvatarRequest struct {
	Script          string `json:"script"`
	PersonaTag      string `json:"persona_tag"`
	VoiceType       string `json:"voice_type"`
	HeyGenAPIKey    string `json:"heygen_api_key"`
	SubmissionNotes string `json:"submission_notes,omitempty"`
	UserID          string `json:"user_id,omitempty"`
}

type GenerateScriptRequest struct {
	Persona string `json:"persona"`
}

// Response types

type AvatarsResponse struct {
	Avatars []Avatar `json:"avatars"`
}

type AvatarResponse struct {
	Avatar Avatar `json:"avatar"`
}

type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type VoteResponse struct {
	Vote Vote `json:"vote"`
}

type VoteCountsResponse struct {
	AvatarID   string `json:"avatar_id"`
	UpVotes    int    `json:"up_votes"`
	DownVotes  int    `json:"down_votes"`
	TotalVotes int    `json:"total_votes"`
}

type SubmitAvatarResponse struct {
	SubmissionID string `json:"submission_id"`
	AvatarID     string `json:"avatar_id"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}

type SubmissionsResponse struct {
	Submissions []SubmissionWithAvatar `json:"submissions"`
}

type GenerateScriptResponse struct {
	Script  string `json:"script"`
	Persona string `json:"persona"`
}

// Domain types

type Avatar struct {
	ID              string    `json:"id"`
	CreatorID       *string   `json:"creator_id,omitempty"`
	ImageURL        string    `json:"image_url"`
	HeyGenVideoURL  *string   `json:"heygen_video_url,omitempty"`
	HeyGenAvatarID  *string   `json:"heygen_avatar_id,omitempty"`
	Script          string    `json:"script"`
	PersonaTag      string    `json:"persona_tag"`
	VoiceType       string    `json:"voice_type"`
	IsApproved      bool      `json:"is_approved"`
	IsFeatured      bool      `json:"is_featured"`
	SubmissionNotes *string   `json:"submission_notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Vote struct {
	ID        string    `json:"id"`
	AvatarID  string    `json:"avatar_id"`
	DeviceID  string    `json:"device_id"`
	VoteType  string    `json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardEntry is an avatar enriched with derived vote aggregates.
// Recomputed on every leaderboard request, never persisted.
type LeaderboardEntry struct {
	Avatar
	VoteCount    int     `json:"vote_count"`
	UpVotes      int     `json:"up_votes"`
	DownVotes    int     `json:"down_votes"`
	ApprovalRate float64 `json:"approval_rate"`
}

type Submission struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	AvatarID        *string    `json:"avatar_id,omitempty"`
	Status          string     `json:"status"`
	Script          string     `json:"script"`
	PersonaTag      string     `json:"persona_tag"`
	VoiceType       string     `json:"voice_type"`
	SubmissionNotes *string    `json:"submission_notes,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type SubmissionWithAvatar struct {
	Submission
	Avatar *Avatar `json:"avatar,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
