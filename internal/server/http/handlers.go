package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scholarlens/discovery-service/internal/discovery"
	"github.com/scholarlens/discovery-service/internal/interest"
	"github.com/scholarlens/discovery-service/internal/observability"
)

const maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies

// createInterestRequest is the JSON request body for building an interest profile.
type createInterestRequest struct {
	Interests      []string `json:"interests" validate:"max=50,dive,max=200"`
	Countries      []string `json:"countries" validate:"max=50,dive,max=100"`
	Provider       string   `json:"provider" validate:"omitempty,oneof=openai groq gemini huggingface ollama"`
	Model          string   `json:"model" validate:"max=200"`
	APIKey         string   `json:"api_key" validate:"max=500"`
	BackgroundText string   `json:"background_text" validate:"max=100000"`
	Website        string   `json:"website" validate:"omitempty,url"`
}

// runDiscoveryRequest is the JSON request body for running a discovery.
type runDiscoveryRequest struct {
	SessionID string   `json:"session_id" validate:"omitempty,uuid4"`
	Interests []string `json:"interests" validate:"required,min=1,max=50,dive,max=200"`
	Countries []string `json:"countries" validate:"max=50,dive,max=100"`
}

// draftEmailRequest is the JSON request body for drafting a cold email.
type draftEmailRequest struct {
	Professor string   `json:"professor" validate:"required,max=300"`
	Topics    []string `json:"topics" validate:"max=50,dive,max=200"`
	Provider  string   `json:"provider" validate:"omitempty,oneof=openai groq gemini huggingface ollama"`
	Model     string   `json:"model" validate:"max=200"`
	APIKey    string   `json:"api_key" validate:"max=500"`
}

// decodeAndValidate reads the request body into v and validates it.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

// createInterestProfile handles POST /api/v1/interests.
// It builds an interest profile from the user's background, optionally asks
// the configured model for clarifying questions and a refined interest
// vector, and records a session.
func (s *Server) createInterestProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createInterestRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	interests := make([]string, 0, len(req.Interests))
	for _, item := range req.Interests {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			interests = append(interests, trimmed)
		}
	}

	text := req.BackgroundText
	if req.Website != "" {
		text += fmt.Sprintf("\nWebsite: %s", req.Website)
	}

	profile := s.svc.BuildInterestProfile(text, interests)

	pctx := interest.ProviderContext{
		Provider: req.Provider,
		Model:    req.Model,
		APIKey:   req.APIKey,
	}
	questions := s.svc.AskQuestions(ctx, pctx, text)
	refined, err := s.svc.RefineInterests(ctx, pctx, profile)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sessionID, err := s.store.SaveSession(ctx, refined, req.Countries, req.Provider, req.Model)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	slogger := observability.WithSessionContext(s.logger, sessionID, req.Provider)
	slogger.Info().
		Int("interests", len(refined)).
		Msg("session created")

	writeJSON(w, http.StatusCreated, createInterestResponse{
		SessionID: sessionID,
		Profile:   domainProfileToResponse(profile),
		Questions: questions,
		Refined:   refined,
	})
}

// runDiscovery handles POST /api/v1/discoveries.
// It runs the search, enrichment, and ranking pipeline for the given
// interest vector and returns researchers ordered by match score.
func (s *Server) runDiscovery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req runDiscoveryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	ranked, err := s.svc.DiscoverAndRank(ctx, discovery.DiscoverParams{
		SessionID: req.SessionID,
		Interests: req.Interests,
		Countries: req.Countries,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	researchers := make([]researcherResponse, len(ranked))
	for i, researcher := range ranked {
		researchers[i] = domainResearcherToResponse(researcher)
	}
	writeJSON(w, http.StatusOK, discoveryResponse{
		SessionID:   req.SessionID,
		Researchers: researchers,
	})
}

// getDiscoveryResults handles GET /api/v1/discoveries/{sessionID}.
func (s *Server) getDiscoveryResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	stored, err := s.store.Results(ctx, sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	researchers := make([]researcherResponse, len(stored))
	for i, researcher := range stored {
		researchers[i] = domainResearcherToResponse(researcher)
	}
	writeJSON(w, http.StatusOK, discoveryResponse{
		SessionID:   sessionID,
		Researchers: researchers,
	})
}

// draftEmail handles POST /api/v1/email-drafts.
// Drafting never fails from the caller's perspective: without a usable
// provider a static fallback message is returned.
func (s *Server) draftEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req draftEmailRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	email := s.svc.DraftEmail(ctx, interest.ProviderContext{
		Provider: req.Provider,
		Model:    req.Model,
		APIKey:   req.APIKey,
	}, req.Professor, req.Topics)

	writeJSON(w, http.StatusOK, emailDraftResponse{Email: email})
}

// listSessions handles GET /api/v1/sessions.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, len(sessions))}
	for i, sess := range sessions {
		resp.Sessions[i] = domainSessionToResponse(sess)
	}
	writeJSON(w, http.StatusOK, resp)
}
