// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math/rand/v2"
	"net/http"

	"github.com/niranjanbala/myavatar/middleware"
	"github.com/niranjanbala/myavatar/models"
)

// scriptPrompts holds the canned scripts offered per persona.
var scriptPrompts = map[string][]string{
	models.PersonaHacker: {
		"I've just breached the firewalls of three rogue AIs — swipe right if you want in.",
		"Zero-day exploits are my morning coffee. Care to join the dark side?",
		"I speak fluent binary and broken English. 01001000 01101001 there!",
	},
	models.PersonaDiva: {
		"Darling, I'm too glamorous to be swiped left. Prove your taste.",
		"I don't do ordinary, sweetie. My aura is premium subscription only.",
		"Honey, I'm not high maintenance, I'm just worth it. Swipe accordingly.",
	},
	models.PersonaFunny: {
		"I'm 90% caffeine and 10% bad decisions. Swipe accordingly.",
		"My life is like a romantic comedy, except it's more comedy than romance.",
		"I put the 'fun' in dysfunctional. Ready for this adventure?",
	},
	models.PersonaSerious: {
		"Excellence isn't a skill, it's an attitude. Are you ready to elevate?",
		"I believe in meaningful connections and purposeful conversations. You?",
		"Quality over quantity, always. Let's make this interaction count.",
	},
	models.PersonaQuirky: {
		"I collect vintage rubber ducks and existential thoughts. Interested?",
		"My superpower is making awkward situations even more awkward. Cool, right?",
		"I name my plants and they judge my life choices. We're all friends here.",
	},
	models.PersonaTechy: {
		"I debug code by day and debug my life by night. Both need work.",
		"My relationship status: It's complicated with JavaScript. You understand?",
		"I speak Python, Java, and sarcasm fluently. Pick your favorite.",
	},
}

type ScriptHandler struct{}

func NewScriptHandler() *ScriptHandler {
	return &ScriptHandler{}
}

// GenerateScript handles POST /generate-script
func (h *ScriptHandler) GenerateScript(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateScriptRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	prompts, ok := scriptPrompts[req.Persona]
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid persona tag")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GenerateScriptResponse{
		Script:  prompts[rand.IntN(len(prompts))],
		Persona: req.Persona,
	})
}
