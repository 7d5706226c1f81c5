// internal/handlers/agent_auth.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/lunchtable/ltcg-service/internal/auth"
)

// CredentialStore persists agent API secret hashes.
type CredentialStore interface {
	InsertAgentCredential(ctx context.Context, agentID uuid.UUID, secretHash string) error
	GetAgentSecretHash(ctx context.Context, agentID uuid.UUID) (string, error)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})
}

// RegisterAgentHandler provisions credentials for a new agent: a fresh agent
// id, the Argon2id hash of the supplied secret, and an initial session token.
func RegisterAgentHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Secret string `json:"secret"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Secret == "" {
			writeError(w, http.StatusBadRequest, "secret is required")
			return
		}

		agentID := uuid.New()
		hash, err := auth.HashSecret(body.Secret, auth.Params)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to hash secret")
			return
		}
		if err := s.Credentials.InsertAgentCredential(r.Context(), agentID, hash); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		token, err := auth.CreateJWT(agentID.String())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
		setSessionCookie(w, token)
		writeJSON(w, http.StatusOK, map[string]string{
			"agentId": agentID.String(),
			"token":   token,
		})
	}
}

// AgentLoginHandler verifies an agent id and API secret against the stored
// Argon2id hash and mints a session token.
func AgentLoginHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			AgentID string `json:"agentId"`
			Secret  string `json:"secret"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AgentID == "" || body.Secret == "" {
			writeError(w, http.StatusBadRequest, "agentId and secret are required")
			return
		}

		agentID, err := uuid.Parse(body.AgentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid agentId")
			return
		}

		hash, err := s.Credentials.GetAgentSecretHash(r.Context(), agentID)
		if err != nil {
			s.Logger.Warnf("agent login lookup failed: %v", err)
			writeError(w, http.StatusForbidden, "authentication failed")
			return
		}
		match, err := auth.CompareSecretAndHash(body.Secret, hash)
		if err != nil || !match {
			writeError(w, http.StatusForbidden, "authentication failed")
			return
		}

		token, err := auth.CreateJWT(agentID.String())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
		setSessionCookie(w, token)
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}
