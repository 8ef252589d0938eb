// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/niranjanbala/myavatar/cliparse"
	"github.com/niranjanbala/myavatar/demo"
	"github.com/niranjanbala/myavatar/handlers"
	"github.com/niranjanbala/myavatar/heygen"
	"github.com/niranjanbala/myavatar/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, videos heygen.VideoGenerator) *http.ServeMux {
	mux := http.NewServeMux()

	// One vote store serves every handler in demo mode
	demoVotes := demo.NewVoteStore()

	// Initialize handlers
	avatarHandler := handlers.NewAvatarHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg, demoVotes)
	leaderboardHandler := handlers.NewLeaderboardHandler(db, cfg, demoVotes)
	submissionHandler := handlers.NewSubmissionHandler(db, cfg, videos)
	scriptHandler := handlers.NewScriptHandler()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Avatar feed
	mux.HandleFunc("GET /avatars", middleware.WithLogging(avatarHandler.GetAvatars))
	mux.HandleFunc("POST /avatars", middleware.WithLogging(avatarHandler.CreateAvatar))

	// Voting
	mux.HandleFunc("POST /vote", middleware.WithLogging(voteHandler.SubmitVote))
	mux.HandleFunc("GET /vote", middleware.WithLogging(voteHandler.GetVoteCounts))

	// Leaderboard
	mux.HandleFunc("GET /leaderboard", middleware.WithLogging(leaderboardHandler.GetLeaderboard))

	// Avatar submission
	mux.HandleFunc("POST /submit-avatar", middleware.WithLogging(submissionHandler.SubmitAvatar))
	mux.HandleFunc("GET /submit-avatar", middleware.WithLogging(submissionHandler.GetSubmissions))

	// Script suggestions
	mux.HandleFunc("POST /generate-script", middleware.WithLogging(scriptHandler.GenerateScript))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("myavatar API v1"))
	})

	return mux
}
