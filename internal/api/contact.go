package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/meur/athletefolio/internal/mail"
)

// handleContact relays a contact-form message by email
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var msg mail.Message
	if err := decodeJSON(r, &msg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := msg.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.mailer.Send(r.Context(), msg); err != nil {
		s.log.Error("contact mail failed", zap.Error(err), zap.String("topic", msg.Topic))
		respondError(w, http.StatusBadGateway, "Failed to send message, please try again later")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
