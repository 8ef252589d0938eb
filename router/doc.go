// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the avatar voting API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, videos)

# Endpoints

Health:

	GET /health

Avatar feed:

	GET  /avatars - Paginated feed, optional persona filter
	POST /avatars - Create an avatar directly

Voting:

	POST /vote - Submit a vote (one per device per avatar)
	GET  /vote - Per-avatar vote counts

Leaderboard:

	GET /leaderboard - Ranked avatars, optional persona filter

Avatar submission:

	POST /submit-avatar - Generate a video and queue for moderation
	GET  /submit-avatar - List a user's submissions

Script suggestions:

	POST /generate-script - Canned script for a persona

# Handler Initialization

The router creates handler instances with dependency injection:

	avatarHandler := handlers.NewAvatarHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg, demoVotes)

db may be nil when running in demo mode; handlers then serve fixture
data and a shared in-memory vote store. videos is the heygen client in
production and a mock in tests.
*/
package router
