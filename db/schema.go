// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is kept portable across PostgreSQL and SQLite: timestamps are
// always bound explicitly by the application, never defaulted in SQL.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Avatars
CREATE TABLE IF NOT EXISTS avatar (
    id TEXT PRIMARY KEY,
    creator_id TEXT,
    image_url TEXT NOT NULL,
    heygen_video_url TEXT,
    heygen_avatar_id TEXT,
    script TEXT NOT NULL,
    persona_tag TEXT NOT NULL CHECK (persona_tag IN ('hacker', 'diva', 'funny', 'serious', 'quirky', 'techy')),
    voice_type TEXT NOT NULL,
    is_approved BOOLEAN NOT NULL DEFAULT FALSE,
    is_featured BOOLEAN NOT NULL DEFAULT FALSE,
    submission_notes TEXT,
    moderation_notes TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_avatar_persona_tag ON avatar(persona_tag);
CREATE INDEX IF NOT EXISTS idx_avatar_created_at ON avatar(created_at);

-- Votes: at most one vote per (avatar, device), enforced by the store
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    avatar_id TEXT NOT NULL REFERENCES avatar(id) ON DELETE CASCADE,
    device_id TEXT NOT NULL,
    vote_type TEXT NOT NULL CHECK (vote_type IN ('up', 'down')),
    created_at TIMESTAMP NOT NULL,
    UNIQUE (avatar_id, device_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_avatar_id ON vote(avatar_id);

-- Avatar submissions
CREATE TABLE IF NOT EXISTS avatar_submission (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    avatar_id TEXT REFERENCES avatar(id) ON DELETE SET NULL,
    status TEXT NOT NULL DEFAULT 'processing' CHECK (status IN ('processing', 'pending', 'approved', 'rejected')),
    script TEXT NOT NULL,
    persona_tag TEXT NOT NULL,
    voice_type TEXT NOT NULL,
    submission_notes TEXT,
    rejection_reason TEXT,
    processed_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_avatar_submission_user_id ON avatar_submission(user_id);
CREATE INDEX IF NOT EXISTS idx_avatar_submission_status ON avatar_submission(status);

-- HeyGen usage log
CREATE TABLE IF NOT EXISTS heygen_usage (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    avatar_id TEXT,
    api_call_type TEXT NOT NULL,
    tokens_used INTEGER NOT NULL DEFAULT 0,
    cost_usd REAL NOT NULL DEFAULT 0,
    response_data TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_heygen_usage_user_id ON heygen_usage(user_id);
`
