// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8080)
  - DatabaseURL: connection string; empty runs demo mode
  - DatabaseType: sqlite or postgres (default: sqlite)
  - HeyGenAPIURL: video generation API base URL
  - LeaderboardMode: aggregate or fallback (default: aggregate)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-heygen-url       HeyGen API base URL
	-leaderboard-mode Leaderboard aggregation mode

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	HEYGEN_API_URL   → -heygen-url
	LEADERBOARD_MODE → -leaderboard-mode

CLI flags take precedence over environment variables.

# Demo Mode

An empty DATABASE_URL is not an error: the server runs over the fixed
in-memory avatar set with a process-local vote tally. Config.DemoMode
reports this state.

# Leaderboard Mode

The leaderboard has two aggregation paths. Which one runs is decided
here, once, instead of probing the store for aggregate-query support on
every request:

	aggregate - single JOIN query (default)
	fallback  - two-step fetch-and-reduce
*/
package cliparse
