// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Video status values reported by the HeyGen API.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var ErrStillProcessing = errors.New("video is still processing")

// VideoRequest describes a video generation call.
type VideoRequest struct {
	Script    string
	VoiceType string
	AvatarID  string
}

// VideoResponse is the normalized API result.
type VideoResponse struct {
	VideoID      string `json:"video_id"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Status       string `json:"status"`
}

// VideoGenerator is the surface handlers depend on. The real Client
// implements it; tests use Mock.
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, apiKey string, req VideoRequest) (*VideoResponse, error)
	VideoStatus(ctx context.Context, apiKey, videoID string) (*VideoResponse, error)
}

// Client calls the HeyGen video generation API. API keys are supplied
// per call, not stored: every submission carries its caller's own key.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateVideo issues one generation call. It is never retried: a
// failure is the caller's to report.
func (c *Client) GenerateVideo(ctx context.Context, apiKey string, req VideoRequest) (*VideoResponse, error) {
	avatarID := req.AvatarID
	if avatarID == "" {
		avatarID = "default"
	}

	payload := map[string]interface{}{
		"script": req.Script,
		"voice": map[string]string{
			"type": req.VoiceType,
		},
		"avatar":  avatarID,
		"quality": "high",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/video/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq)
}

// VideoStatus fetches the current state of a generation job.
func (c *Client) VideoStatus(ctx context.Context, apiKey, videoID string) (*VideoResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/video/status/"+videoID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (*VideoResponse, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("heygen request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("heygen API error: %s", resp.Status)
	}

	var raw struct {
		VideoID      string `json:"video_id"`
		JobID        string `json:"job_id"`
		VideoURL     string `json:"video_url"`
		ThumbnailURL string `json:"thumbnail_url"`
		Status       string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode heygen response: %w", err)
	}

	out := VideoResponse{
		VideoID:      raw.VideoID,
		VideoURL:     raw.VideoURL,
		ThumbnailURL: raw.ThumbnailURL,
		Status:       raw.Status,
	}
	// Older API responses name the job id differently
	if out.VideoID == "" {
		out.VideoID = raw.JobID
	}
	if out.Status == "" {
		out.Status = StatusProcessing
	}

	return &out, nil
}

// WaitForVideo polls a generation job under exponential backoff until
// it leaves the processing state, the context is cancelled, or the
// retry budget runs out. Status lookup errors are terminal; only a
// still-processing result is polled again.
func WaitForVideo(ctx context.Context, g VideoGenerator, apiKey, videoID string) (*VideoResponse, error) {
	var result *VideoResponse

	op := func() error {
		resp, err := g.VideoStatus(ctx, apiKey, videoID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if resp.Status == StatusProcessing {
			return ErrStillProcessing
		}
		result = resp
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}

	return result, nil
}
