// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the myavatar API server.

Myavatar is an anonymous swipe-voting service for AI-generated avatar
videos: clients swipe through an avatar feed, vote up or down (one vote
per device per avatar), read a ranked leaderboard, and submit new
avatars through the HeyGen video generation API.

# Starting the Server

The server reads environment variables (optionally from a .env file)
or CLI flags:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 8080 -d "postgres://..." -t postgres

With no DATABASE_URL the server runs in demo mode over a fixed
in-memory avatar set and a process-local vote tally.

# Configuration

Optional settings:

  - PORT (-p): Server port (default: 8080)
  - DATABASE_URL (-d): connection string; empty runs demo mode
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - HEYGEN_API_URL (-heygen-url): video API base URL
  - LEADERBOARD_MODE (-leaderboard-mode): aggregate or fallback

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (avatars, votes, leaderboard, submissions)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - db: Schema creation
  - cliparse: Configuration parsing
  - heygen: External video generation client
  - demo: Fixture data and in-memory votes for demo mode

See package documentation for each component.
*/
package main
