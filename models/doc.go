// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateAvatarRequest: image_url, voice_type, persona_tag, script
  - VoteRequest: avatar_id, device_id, vote_type
  - SubmitAvatarRequest: script, persona_tag, voice_type, heygen_api_key
  - GenerateScriptRequest: persona

# Response Types

Types for JSON responses:

  - AvatarsResponse: avatars
  - LeaderboardResponse: leaderboard
  - VoteResponse: vote
  - VoteCountsResponse: avatar_id, up_votes, down_votes, total_votes
  - SubmitAvatarResponse: submission_id, avatar_id, status, message
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Avatar: avatar metadata, media references, moderation flags
  - Vote: one vote from one device on one avatar
  - LeaderboardEntry: avatar plus derived vote aggregates (never persisted)
  - Submission: avatar submission lifecycle record

# Constants

Persona tags:

	hacker, diva, funny, serious, quirky, techy

Vote types:

	VoteUp   = "up"
	VoteDown = "down"

Submission statuses:

	processing → pending → approved | rejected
*/
package models
