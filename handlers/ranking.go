// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"sort"

	"github.com/niranjanbala/myavatar/models"
)

// VoteTotals holds reduced per-avatar vote counts.
type VoteTotals struct {
	Up    int
	Down  int
	Total int
}

// ApprovalRate returns the share of up votes as a percentage rounded
// to two decimal places. Zero total votes yields 0, never NaN.
func ApprovalRate(up, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(up)/float64(total)*100*100) / 100
}

// ReduceVotes folds individual votes into per-avatar totals keyed by
// avatar id.
func ReduceVotes(votes []models.Vote) map[string]VoteTotals {
	totals := make(map[string]VoteTotals)
	for _, v := range votes {
		t := totals[v.AvatarID]
		if v.VoteType == models.VoteUp {
			t.Up++
		} else {
			t.Down++
		}
		t.Total++
		totals[v.AvatarID] = t
	}
	return totals
}

// SortLeaderboard orders entries by vote count descending, ties broken
// by approval rate descending. Zero-vote avatars stay in the output
// and rank last under the tiebreak.
func SortLeaderboard(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].VoteCount != entries[j].VoteCount {
			return entries[i].VoteCount > entries[j].VoteCount
		}
		return entries[i].ApprovalRate > entries[j].ApprovalRate
	})
}
