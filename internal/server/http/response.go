package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/store"
)

// Response types for JSON serialization.

type interestProfileResponse struct {
	Skills  []string `json:"skills"`
	Methods []string `json:"methods"`
	Topics  []string `json:"topics"`
}

type createInterestResponse struct {
	SessionID string                  `json:"session_id"`
	Profile   interestProfileResponse `json:"profile"`
	Questions string                  `json:"questions"`
	Refined   []string                `json:"refined"`
}

type paperResponse struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Source  string   `json:"source"`
	URL     string   `json:"url,omitempty"`
}

type researcherResponse struct {
	Name          string          `json:"name"`
	Papers        []paperResponse `json:"papers"`
	Topics        []string        `json:"topics"`
	Homepage      string          `json:"homepage,omitempty"`
	Scholar       string          `json:"scholar,omitempty"`
	LinkedIn      string          `json:"linkedin,omitempty"`
	Email         string          `json:"email,omitempty"`
	Country       string          `json:"country,omitempty"`
	Institution   string          `json:"institution,omitempty"`
	ResearchAreas []string        `json:"research_areas,omitempty"`
	TopPapers     []string        `json:"top_papers,omitempty"`
	MatchScore    *float64        `json:"match_score,omitempty"`
}

type discoveryResponse struct {
	SessionID   string               `json:"session_id,omitempty"`
	Researchers []researcherResponse `json:"researchers"`
}

type emailDraftResponse struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Interests []string  `json:"interests"`
	Countries []string  `json:"countries"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

// Converter functions

func domainProfileToResponse(p domain.InterestProfile) interestProfileResponse {
	return interestProfileResponse{
		Skills:  p.Skills,
		Methods: p.Methods,
		Topics:  p.Topics,
	}
}

func domainResearcherToResponse(r *domain.ResearcherProfile) researcherResponse {
	papers := make([]paperResponse, len(r.Papers))
	for i, p := range r.Papers {
		papers[i] = paperResponse{
			Title:   p.Title,
			Summary: p.Summary,
			Authors: p.Authors,
			Source:  string(p.Source),
			URL:     p.URL,
		}
	}
	return researcherResponse{
		Name:          r.Name,
		Papers:        papers,
		Topics:        r.Topics,
		Homepage:      r.Link.Homepage,
		Scholar:       r.Link.Scholar,
		LinkedIn:      r.Link.LinkedIn,
		Email:         r.Email,
		Country:       r.Country,
		Institution:   r.Institution,
		ResearchAreas: r.ResearchAreas,
		TopPapers:     r.TopPapers,
		MatchScore:    r.MatchScore,
	}
}

func domainSessionToResponse(s store.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Interests: s.Interests,
		Countries: s.Countries,
		Provider:  s.Provider,
		Model:     s.Model,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort log; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// writeDomainError maps a pipeline error to an HTTP status code.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAuthentication):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUnsupportedProvider):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
