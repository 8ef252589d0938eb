// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package demo

import (
	"sync"
	"time"

	"github.com/niranjanbala/myavatar/models"
)

// Tally holds per-avatar vote counts.
type Tally struct {
	Up   int
	Down int
}

// Total returns the combined vote count.
func (t Tally) Total() int {
	return t.Up + t.Down
}

// VoteStore is the in-memory vote tally used when no database is
// configured. Check and insert happen under one lock, so the
// one-vote-per-(avatar, device) rule holds even for concurrent votes.
type VoteStore struct {
	mu      sync.Mutex
	tallies map[string]Tally
	voted   map[string]map[string]bool // avatar id -> device ids
}

// NewVoteStore creates an empty vote store.
func NewVoteStore() *VoteStore {
	return &VoteStore{
		tallies: make(map[string]Tally),
		voted:   make(map[string]map[string]bool),
	}
}

// HasVoted reports whether the device already voted on the avatar.
func (s *VoteStore) HasVoted(avatarID, deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voted[avatarID][deviceID]
}

// AddVote records a vote. Returns false without recording anything if
// the device already voted on the avatar.
func (s *VoteStore) AddVote(avatarID, deviceID, voteType string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.voted[avatarID][deviceID] {
		return false
	}

	if s.voted[avatarID] == nil {
		s.voted[avatarID] = make(map[string]bool)
	}
	s.voted[avatarID][deviceID] = true

	tally := s.tallies[avatarID]
	if voteType == models.VoteUp {
		tally.Up++
	} else {
		tally.Down++
	}
	s.tallies[avatarID] = tally

	return true
}

// Votes returns the current tally for an avatar.
func (s *VoteStore) Votes(avatarID string) Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tallies[avatarID]
}

var fixtureBase = time.Now()

// Avatars returns the fixed demo avatar set, newest first. Callers get
// a fresh slice each time.
func Avatars() []models.Avatar {
	fixtures := []struct {
		id      string
		image   string
		voice   string
		persona string
		script  string
	}{
		{"1", "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop&crop=face", "male_confident", models.PersonaHacker,
			"I've just breached the firewalls of three rogue AIs — swipe right if you want in."},
		{"2", "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=400&h=400&fit=crop&crop=face", "female_elegant", models.PersonaDiva,
			"Darling, I'm too glamorous to be swiped left. Prove your taste."},
		{"3", "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400&h=400&fit=crop&crop=face", "male_friendly", models.PersonaFunny,
			"I'm 90% caffeine and 10% bad decisions. Swipe accordingly."},
		{"4", "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=400&h=400&fit=crop&crop=face", "female_professional", models.PersonaSerious,
			"Excellence isn't a skill, it's an attitude. Are you ready to elevate?"},
		{"5", "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400&h=400&fit=crop&crop=face", "male_quirky", models.PersonaQuirky,
			"I collect vintage rubber ducks and existential thoughts. Interested?"},
		{"6", "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=400&h=400&fit=crop&crop=face", "female_tech", models.PersonaTechy,
			"I debug code by day and debug my life by night. Both need work."},
		{"7", "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=400&h=400&fit=crop&crop=face", "male_mysterious", models.PersonaHacker,
			"Zero-day exploits are my morning coffee. Care to join the dark side?"},
		{"8", "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=400&h=400&fit=crop&crop=face", "female_glamorous", models.PersonaDiva,
			"I don't do ordinary, sweetie. My aura is premium subscription only."},
		{"9", "https://images.unsplash.com/photo-1507591064344-4c6ce005b128?w=400&h=400&fit=crop&crop=face", "male_casual", models.PersonaFunny,
			"My life is like a romantic comedy, except it's more comedy than romance."},
		{"10", "https://images.unsplash.com/photo-1487412720507-e7ab37603c6f?w=400&h=400&fit=crop&crop=face", "female_confident", models.PersonaSerious,
			"I believe in meaningful connections and purposeful conversations. You?"},
	}

	avatars := make([]models.Avatar, len(fixtures))
	for i, f := range fixtures {
		created := fixtureBase.Add(-time.Duration(i) * time.Minute)
		avatars[i] = models.Avatar{
			ID:         f.id,
			ImageURL:   f.image,
			VoiceType:  f.voice,
			PersonaTag: f.persona,
			Script:     f.script,
			IsApproved: true,
			CreatedAt:  created,
			UpdatedAt:  created,
		}
	}
	return avatars
}
