// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the database schema.

CreateSchema applies the full DDL and is safe to call at every startup:

	if err := db.CreateSchema(conn); err != nil { ... }

# Tables

  - avatar: avatar metadata, media references, moderation flags
  - vote: one row per (avatar, device), UNIQUE constrained
  - avatar_submission: submission lifecycle records
  - heygen_usage: external API usage log

The UNIQUE (avatar_id, device_id) constraint on vote is the authority
for the one-vote-per-device-per-avatar rule; handler-level duplicate
checks exist only to produce a friendly conflict message first.

The DDL works unchanged on both PostgreSQL and SQLite, which keeps the
test suite free of any external database daemon.
*/
package db
