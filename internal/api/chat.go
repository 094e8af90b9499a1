package api

import (
	"errors"
	"net/http"

	"github.com/nyashahama/dengue-assessment-console/internal/orchestrator"
)

// ─── POST /api/session/:sessionID/chat ────────────────────────────────────────

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	// Reply is display-ready HTML.
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	o := operatorFrom(r)

	var req chatRequest
	if !decode(w, r, &req) {
		return
	}

	reply, err := o.chats.Send(r.Context(), req.Message)
	if errors.Is(err, orchestrator.ErrEmptyMessage) {
		respondErr(w, http.StatusBadRequest, "message is required")
		return
	}
	if err != nil {
		// The apology is already in the feed.
		respondErr(w, http.StatusBadGateway, orchestrator.ApologyMessage)
		return
	}

	respond(w, http.StatusOK, chatResponse{Reply: reply})
}
