// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/niranjanbala/myavatar/models"
	"github.com/niranjanbala/myavatar/testutil"
)

func TestGetAvatars(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	now := time.Now()
	newest := testutil.CreateTestAvatar(t, conn, models.PersonaHacker, now)
	middle := testutil.CreateTestAvatar(t, conn, models.PersonaDiva, now.Add(-time.Minute))
	oldest := testutil.CreateTestAvatar(t, conn, models.PersonaHacker, now.Add(-2*time.Minute))

	handler := NewAvatarHandler(conn, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	handler.GetAvatars(w, testutil.MakeRequest("GET", "/avatars", nil))
	testutil.AssertStatus(t, w, 200)

	var resp models.AvatarsResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Avatars) != 3 {
		t.Fatalf("Expected 3 avatars, got %d", len(resp.Avatars))
	}
	// Newest first
	if resp.Avatars[0].ID != newest || resp.Avatars[1].ID != middle || resp.Avatars[2].ID != oldest {
		t.Errorf("Expected creation-time descending order, got %s, %s, %s",
			resp.Avatars[0].ID, resp.Avatars[1].ID, resp.Avatars[2].ID)
	}
}

func TestGetAvatars_PersonaFilterAndPagination(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	now := time.Now()
	var hackers []string
	for i := 0; i < 4; i++ {
		hackers = append(hackers, testutil.CreateTestAvatar(t, conn, models.PersonaHacker, now.Add(-time.Duration(i)*time.Minute)))
	}
	testutil.CreateTestAvatar(t, conn, models.PersonaDiva, now)

	handler := NewAvatarHandler(conn, testutil.GetTestConfig())

	// Page 1
	w := httptest.NewRecorder()
	handler.GetAvatars(w, testutil.MakeRequest("GET", "/avatars?persona=hacker&limit=2&offset=0", nil))
	testutil.AssertStatus(t, w, 200)

	var page1 models.AvatarsResponse
	testutil.AssertJSON(t, w, &page1)
	if len(page1.Avatars) != 2 {
		t.Fatalf("Expected 2 avatars on page 1, got %d", len(page1.Avatars))
	}
	if page1.Avatars[0].ID != hackers[0] || page1.Avatars[1].ID != hackers[1] {
		t.Error("Page 1 should hold the two newest hackers")
	}

	// Page 2
	w = httptest.NewRecorder()
	handler.GetAvatars(w, testutil.MakeRequest("GET", "/avatars?persona=hacker&limit=2&offset=2", nil))
	testutil.AssertStatus(t, w, 200)

	var page2 models.AvatarsResponse
	testutil.AssertJSON(t, w, &page2)
	if len(page2.Avatars) != 2 {
		t.Fatalf("Expected 2 avatars on page 2, got %d", len(page2.Avatars))
	}
	if page2.Avatars[0].ID != hackers[2] || page2.Avatars[1].ID != hackers[3] {
		t.Error("Page 2 should hold the two older hackers")
	}

	for _, a := range append(page1.Avatars, page2.Avatars...) {
		if a.PersonaTag != models.PersonaHacker {
			t.Errorf("Persona filter leaked %s avatar %s", a.PersonaTag, a.ID)
		}
	}
}

func TestCreateAvatar(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := NewAvatarHandler(conn, testutil.GetTestConfig())

	tests := []struct {
		name           string
		body           models.CreateAvatarRequest
		expectedStatus int
	}{
		{
			name: "valid avatar",
			body: models.CreateAvatarRequest{
				ImageURL:   "https://img.example.com/x.jpg",
				VoiceType:  "female_confident",
				PersonaTag: "diva",
				Script:     "Darling, prove your taste.",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "with video url",
			body: models.CreateAvatarRequest{
				ImageURL:       "https://img.example.com/y.jpg",
				VoiceType:      "male_tech",
				PersonaTag:     "techy",
				Script:         "I debug code by day.",
				HeyGenVideoURL: "https://cdn.example.com/y.mp4",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing image_url",
			body: models.CreateAvatarRequest{
				VoiceType:  "male_tech",
				PersonaTag: "techy",
				Script:     "Hi",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing script",
			body: models.CreateAvatarRequest{
				ImageURL:   "https://img.example.com/z.jpg",
				VoiceType:  "male_tech",
				PersonaTag: "techy",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid persona",
			body: models.CreateAvatarRequest{
				ImageURL:   "https://img.example.com/z.jpg",
				VoiceType:  "male_tech",
				PersonaTag: "villain",
				Script:     "Hi",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.CreateAvatar(w, testutil.MakeRequest("POST", "/avatars", tt.body))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.AvatarResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Avatar.ID == "" {
					t.Error("Expected avatar id")
				}
				if resp.Avatar.IsApproved {
					t.Error("New avatars must not be pre-approved")
				}

				var exists bool
				err := conn.QueryRow(`SELECT EXISTS(SELECT 1 FROM avatar WHERE id = $1)`, resp.Avatar.ID).Scan(&exists)
				if err != nil {
					t.Fatalf("Failed to check avatar: %v", err)
				}
				if !exists {
					t.Error("Avatar was not persisted")
				}
			}
		})
	}
}

func TestGetAvatars_DemoMode(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.DatabaseURL = "" // demo mode

	handler := NewAvatarHandler(nil, cfg)

	w := httptest.NewRecorder()
	handler.GetAvatars(w, testutil.MakeRequest("GET", "/avatars?limit=4&offset=2", nil))
	testutil.AssertStatus(t, w, 200)

	var resp models.AvatarsResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Avatars) != 4 {
		t.Fatalf("Expected 4 fixture avatars, got %d", len(resp.Avatars))
	}
	if resp.Avatars[0].ID != "3" {
		t.Errorf("Expected offset to skip the first two fixtures, got %s", resp.Avatars[0].ID)
	}
}

func TestCreateAvatar_DemoMode(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.DatabaseURL = ""

	handler := NewAvatarHandler(nil, cfg)

	w := httptest.NewRecorder()
	handler.CreateAvatar(w, testutil.MakeRequest("POST", "/avatars", models.CreateAvatarRequest{
		ImageURL:   "https://img.example.com/x.jpg",
		VoiceType:  "female_confident",
		PersonaTag: "diva",
		Script:     "Hello",
	}))
	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}
