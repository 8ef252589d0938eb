// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package demo provides the offline mode used when no database is
configured.

Avatars returns a fixed set of ten persona-tagged avatars; VoteStore is
a process-local, mutex-guarded vote tally keyed by (avatar, device).
Handlers apply the same validation, duplicate rejection, aggregation
formula, and ordering against this store as against the real one.

Nothing here survives a restart, and nothing is shared between server
instances.
*/
package demo
