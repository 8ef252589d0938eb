// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the avatar voting
API.

# Handler Types

Each handler is a struct with its dependencies injected through a
constructor:

  - AvatarHandler: avatar feed and direct avatar creation
  - VoteHandler: vote submission and per-avatar counts
  - LeaderboardHandler: ranked leaderboard computation
  - SubmissionHandler: multi-step avatar submission via the video API
  - ScriptHandler: canned per-persona script suggestions

Handlers receive *sql.DB, config, and where relevant the demo vote
store or a heygen.VideoGenerator:

	voteHandler := handlers.NewVoteHandler(db, cfg, demoVotes)

# Leaderboard Aggregation

The ranking math lives in ranking.go as pure functions:

	rate := handlers.ApprovalRate(up, total)      // 2 dp, 0 for no votes
	totals := handlers.ReduceVotes(votes)         // per-avatar up/down/total
	handlers.SortLeaderboard(entries)             // count desc, rate desc

Two execution paths compute the same result shape, selected once at
startup via cfg.LeaderboardMode:

  - aggregate: one LEFT JOIN query with per-avatar vote counts
  - fallback: recency-limited avatar fetch, then votes, reduced in
    memory (candidates are limited before ranking; see
    fallbackLeaderboard for the consequence)

# Vote Uniqueness

One vote per (avatar, device). The handler looks up an existing vote
for a friendly 409, and the store's UNIQUE constraint converts any
concurrent duplicate insert into the same 409.

# Submission Flow

SubmitAvatar walks submission record → video generation → avatar
record → status update → usage log. A generation call that reports
processing is polled via heygen.WaitForVideo before the avatar record
is written. Failures mark the submission rejected and stop; nothing
already written is rolled back.

# Demo Mode

With no database configured, feed, vote, and leaderboard handlers run
against the demo package's fixtures and in-memory tally with identical
validation and ordering.
*/
package handlers
