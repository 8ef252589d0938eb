// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niranjanbala/myavatar/models"
	"github.com/niranjanbala/myavatar/testutil"
)

// TestConcurrentDuplicateVotes fires many simultaneous votes from the
// same device at the same avatar. The lookup-then-insert sequence in
// SubmitVote races with itself; the UNIQUE(avatar_id, device_id)
// constraint must hold the line so exactly one vote lands.
func TestConcurrentDuplicateVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	avatarID := testutil.CreateTestAvatar(t, conn, models.PersonaHacker, time.Now())
	handler := NewVoteHandler(conn, testutil.GetTestConfig(), nil)

	numAttempts := 20

	var created atomic.Int32
	var conflicts atomic.Int32
	var other atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/vote",
				models.VoteRequest{AvatarID: avatarID, DeviceID: "device-race", VoteType: "up"})
			w := httptest.NewRecorder()

			handler.SubmitVote(w, req)

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			default:
				other.Add(1)
			}
		}()
	}

	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly 1 created vote, got %d", created.Load())
	}
	if conflicts.Load() != int32(numAttempts-1) {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflicts.Load())
	}
	if other.Load() != 0 {
		t.Errorf("Got %d responses that were neither 201 nor 409", other.Load())
	}

	if n := testutil.CountVotes(t, conn, avatarID, "device-race"); n != 1 {
		t.Errorf("Expected exactly 1 persisted vote row, got %d", n)
	}
}

// TestConcurrentVotesFromDistinctDevices is the happy-path counterpart:
// distinct devices voting at once must all succeed and all be counted.
func TestConcurrentVotesFromDistinctDevices(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	avatarID := testutil.CreateTestAvatar(t, conn, models.PersonaDiva, time.Now())
	handler := NewVoteHandler(conn, testutil.GetTestConfig(), nil)

	numDevices := 10

	var created atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numDevices; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			voteType := models.VoteUp
			if idx%2 == 1 {
				voteType = models.VoteDown
			}
			req := testutil.MakeRequest("POST", "/vote",
				models.VoteRequest{AvatarID: avatarID, DeviceID: fmt.Sprintf("device-%d", idx), VoteType: voteType})
			w := httptest.NewRecorder()

			handler.SubmitVote(w, req)

			if w.Code == http.StatusCreated {
				created.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if created.Load() != int32(numDevices) {
		t.Errorf("Expected %d successful votes, got %d", numDevices, created.Load())
	}

	w := httptest.NewRecorder()
	handler.GetVoteCounts(w, testutil.MakeRequest("GET", "/vote?avatar_id="+avatarID, nil))
	testutil.AssertStatus(t, w, 200)

	var counts models.VoteCountsResponse
	testutil.AssertJSON(t, w, &counts)
	if counts.TotalVotes != numDevices {
		t.Errorf("Expected %d total votes, got %d", numDevices, counts.TotalVotes)
	}
	if counts.UpVotes+counts.DownVotes != counts.TotalVotes {
		t.Errorf("Counts do not add up: %d + %d != %d", counts.UpVotes, counts.DownVotes, counts.TotalVotes)
	}
}
