// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package heygen is the client for the external HeyGen video generation
API.

The API is an opaque collaborator: the submission flow passes the
caller's own API key, issues exactly one generation call, and treats
any failure as terminal for that request. No automatic retry of failed
generations.

	client := heygen.NewClient(cfg.HeyGenAPIURL)
	resp, err := client.GenerateVideo(ctx, apiKey, heygen.VideoRequest{
		Script:    "...",
		VoiceType: "male_confident",
	})

WaitForVideo polls a job's status under exponential backoff until it
leaves "processing"; polling paces the status reads only and never
re-submits generation.

Handlers depend on the VideoGenerator interface; Mock implements it for
tests.
*/
package heygen
