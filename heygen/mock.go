// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package heygen

import "context"

// Mock implements VideoGenerator for tests.
type Mock struct {
	GenerateResponse *VideoResponse
	GenerateErr      error
	StatusResponses  []*VideoResponse
	StatusErr        error

	GenerateCalls []VideoRequest
	statusCalls   int
}

func (m *Mock) GenerateVideo(ctx context.Context, apiKey string, req VideoRequest) (*VideoResponse, error) {
	m.GenerateCalls = append(m.GenerateCalls, req)
	if m.GenerateErr != nil {
		return nil, m.GenerateErr
	}
	return m.GenerateResponse, nil
}

func (m *Mock) VideoStatus(ctx context.Context, apiKey, videoID string) (*VideoResponse, error) {
	if m.StatusErr != nil {
		return nil, m.StatusErr
	}
	// Replay queued responses, then keep returning the last one
	if m.statusCalls < len(m.StatusResponses)-1 {
		resp := m.StatusResponses[m.statusCalls]
		m.statusCalls++
		return resp, nil
	}
	if len(m.StatusResponses) == 0 {
		return &VideoResponse{VideoID: videoID, Status: StatusCompleted}, nil
	}
	return m.StatusResponses[len(m.StatusResponses)-1], nil
}
