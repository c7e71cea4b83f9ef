package rest

import (
	"net/http"
	"strconv"

	"github.com/bwise1/phishblock/internal/model"
	"github.com/bwise1/phishblock/util"
	"github.com/bwise1/phishblock/util/tracing"
	"github.com/bwise1/phishblock/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) ReportRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		if api.Config.AuthRequired {
			r.Use(api.RequireWallet)
		}
		r.Method(http.MethodPost, "/", Handler(api.CreateReport))
		r.Method(http.MethodPost, "/vote", Handler(api.VoteOnReport))
	})

	mux.Method(http.MethodGet, "/", Handler(api.GetReports))
	mux.Method(http.MethodGet, "/{reportID}", Handler(api.GetReportByID))
	mux.Method(http.MethodGet, "/{reportID}/votes", Handler(api.GetVotes))

	return mux
}

func (api *API) CreateReport(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateReportRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	// When auth is on, the session wallet is the reporter of record.
	if api.Config.AuthRequired {
		address, err := util.GetWalletFromContext(r.Context())
		if err != nil {
			return respondWithError(err, "unable to get wallet from context", values.NotAuthorised, &tc)
		}
		req.ReporterAddress = address
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	newReport, status, message, err := api.CreateReportHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       newReport,
	}
}

func (api *API) GetReports(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	params := model.ListReportsParams{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}

	reports, status, message, err := api.ListReportsHelper(r.Context(), params)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	if reports == nil {
		reports = []model.Report{}
	}
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       reports,
	}
}

func (api *API) GetReportByID(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	reportID := chi.URLParam(r, "reportID")
	id, err := strconv.ParseInt(reportID, 10, 64)
	if err != nil {
		return respondWithError(err, "invalid report ID", values.BadRequestBody, &tc)
	}

	report, status, message, err := api.GetReportByIDHelper(r.Context(), id)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       report,
	}
}

func (api *API) VoteOnReport(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.VoteRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if api.Config.AuthRequired {
		address, err := util.GetWalletFromContext(r.Context())
		if err != nil {
			return respondWithError(err, "unable to get wallet from context", values.NotAuthorised, &tc)
		}
		req.VoterAddress = address
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	result, status, message, err := api.CastVoteHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       result,
	}
}

func (api *API) GetVotes(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	reportID := chi.URLParam(r, "reportID")
	id, err := strconv.ParseInt(reportID, 10, 64)
	if err != nil {
		return respondWithError(err, "invalid report ID", values.BadRequestBody, &tc)
	}

	votes, status, message, err := api.GetVotesHelper(r.Context(), id)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	if votes == nil {
		votes = []model.Vote{}
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       votes,
	}
}
