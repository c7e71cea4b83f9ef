package rest

import (
	"net/http"

	"github.com/bwise1/phishblock/internal/phishing"
	"github.com/bwise1/phishblock/util"
	"github.com/bwise1/phishblock/util/tracing"
	"github.com/bwise1/phishblock/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) AnalyzerRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Method(http.MethodPost, "/analyze", Handler(api.AnalyzeURL))
	mux.Method(http.MethodGet, "/intel", Handler(api.ThreatIntel))
	return mux
}

type PhishingAnalysisRequest struct {
	URL string `json:"url" validate:"required"`
}

type PhishingAnalysisResponse struct {
	URL                 string            `json:"url"`
	PhishingProbability float64           `json:"phishing_probability"`
	RiskLevel           string            `json:"risk_level"`
	Features            phishing.Features `json:"features"`
}

// AnalyzeURL runs the rule-based scorer. Deterministic: analyzing the
// same URL twice returns the same probability and risk level.
func (api *API) AnalyzeURL(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req PhishingAnalysisRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	assessment, err := phishing.Analyze(req.URL)
	if err != nil {
		return respondWithError(err, "Invalid URL or address", values.BadRequestBody, &tc)
	}

	return &ServerResponse{
		Message:    "URL analyzed successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: PhishingAnalysisResponse{
			URL:                 req.URL,
			PhishingProbability: assessment.Probability,
			RiskLevel:           string(assessment.RiskLevel),
			Features:            assessment.Features,
		},
	}
}

// ThreatIntel looks the URL up in Google Safe Browsing. Supplementary
// signal only; the scorer above never depends on it.
func (api *API) ThreatIntel(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		return respondWithError(nil, "url query parameter is required", values.BadRequestBody, &tc)
	}

	if api.Deps.SafeBrowsing == nil {
		return respondWithError(nil, "threat intel lookups are not configured", values.NotAllowed, &tc)
	}

	matches, err := api.Deps.SafeBrowsing.Lookup(r.Context(), rawURL)
	if err != nil {
		return respondWithError(err, "threat intel lookup failed", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Threat intel fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"url":     rawURL,
			"listed":  len(matches) > 0,
			"matches": matches,
		},
	}
}
