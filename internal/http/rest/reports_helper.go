package rest

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bwise1/phishblock/internal/consensus"
	"github.com/bwise1/phishblock/internal/events"
	"github.com/bwise1/phishblock/internal/model"
	"github.com/bwise1/phishblock/internal/phishing"
	"github.com/bwise1/phishblock/util/values"
)

const retryBackoff = 200 * time.Millisecond

// withStoreRetry runs a store operation under a bounded context. Timeout
// is the one transient condition retried, once, before surfacing; every
// other error kind surfaces immediately.
func (api *API) withStoreRetry(ctx context.Context, fn func(context.Context) error) error {
	err := api.runBounded(ctx, fn)
	if !errors.Is(err, ErrTimeout) {
		return err
	}
	time.Sleep(retryBackoff)
	return api.runBounded(ctx, fn)
}

func (api *API) runBounded(ctx context.Context, fn func(context.Context) error) error {
	timeout := time.Duration(api.Config.StoreTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	bounded, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(bounded)
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// statusForError maps the error taxonomy to response statuses so the
// boundary renders distinct feedback per kind.
func statusForError(err error) (string, string) {
	switch {
	case errors.Is(err, phishing.ErrInvalidInput):
		return values.BadRequestBody, "Invalid URL or address"
	case errors.Is(err, ErrDuplicateReport):
		return values.Conflict, "This URL has already been reported"
	case errors.Is(err, ErrReportNotFound):
		return values.NotFound, "Report not found"
	case errors.Is(err, ErrAlreadyVoted):
		return values.Conflict, "You have already voted on this report"
	case errors.Is(err, consensus.ErrReportClosed):
		return values.NotAllowed, "Voting is closed on this report"
	case errors.Is(err, ErrTimeout):
		return values.Timeout, "The report store did not respond in time"
	default:
		return values.Error, "Something went wrong"
	}
}

func (api *API) CreateReportHelper(ctx context.Context, req model.CreateReportRequest) (model.Report, string, string, error) {
	ident, err := phishing.Normalize(req.URL)
	if err != nil {
		return model.Report{}, values.BadRequestBody, "Invalid URL or address", err
	}

	// Risk score is attached at creation and never changes afterwards.
	assessment := phishing.Score(ident)
	score := assessment.Probability

	report := model.Report{
		URL:             req.URL,
		Fingerprint:     ident.Fingerprint,
		ReporterAddress: req.ReporterAddress,
		PhishingScore:   &score,
	}
	if req.Description != "" {
		report.Description = &req.Description
	}

	if req.EvidenceImage != "" {
		evidenceURL, upErr := api.Deps.Cloudinary.UploadImage(ctx, req.EvidenceImage, "reports")
		if upErr != nil {
			log.Printf("⚠️ evidence upload failed, creating report without it: %v", upErr)
		} else {
			report.EvidenceURL = &evidenceURL
		}
	}

	var created model.Report
	err = api.withStoreRetry(ctx, func(c context.Context) error {
		var repoErr error
		created, repoErr = api.CreateReportRepo(c, report)
		return repoErr
	})
	if err != nil {
		status, message := statusForError(err)
		return model.Report{}, status, message, err
	}

	api.Deps.Events.Publish(events.Event{
		Type: events.TypeReportSubmitted,
		Payload: events.ReportSubmitted{
			ReportID:    created.ID,
			Fingerprint: created.Fingerprint,
			Reporter:    created.ReporterAddress,
			Timestamp:   created.CreatedAt,
		},
	})

	return created, values.Created, "Report created successfully", nil
}

func (api *API) GetReportByIDHelper(ctx context.Context, id int64) (model.Report, string, string, error) {
	var report model.Report
	err := api.withStoreRetry(ctx, func(c context.Context) error {
		var repoErr error
		report, repoErr = api.GetReportByIDRepo(c, id)
		return repoErr
	})
	if err != nil {
		status, message := statusForError(err)
		return model.Report{}, status, message, err
	}
	return report, values.Success, "Report fetched successfully", nil
}

func (api *API) ListReportsHelper(ctx context.Context, params model.ListReportsParams) ([]model.Report, string, string, error) {
	var reports []model.Report
	err := api.withStoreRetry(ctx, func(c context.Context) error {
		var repoErr error
		reports, repoErr = api.ListReportsRepo(c, params)
		return repoErr
	})
	if err != nil {
		status, message := statusForError(err)
		return nil, status, message, err
	}
	return reports, values.Success, "Reports fetched successfully", nil
}

// CastVoteHelper records a vote and evaluates confirmation synchronously,
// so the returned snapshot already reflects any pending -> confirmed
// transition caused by this vote.
func (api *API) CastVoteHelper(ctx context.Context, req model.VoteRequest) (model.VoteResult, string, string, error) {
	vote := model.Vote{
		ReportID:     req.ReportID,
		VoterAddress: req.VoterAddress,
		IsScam:       *req.IsScam,
	}

	var (
		result       model.VoteResult
		fingerprint  string
		confirmedNow bool
	)
	err := api.withStoreRetry(ctx, func(c context.Context) error {
		var repoErr error
		result, fingerprint, confirmedNow, repoErr = api.CastVoteRepo(c, vote)
		return repoErr
	})
	if err != nil {
		status, message := statusForError(err)
		return model.VoteResult{}, status, message, err
	}

	api.Deps.Events.Publish(events.Event{
		Type: events.TypeVoteCasted,
		Payload: events.VoteCasted{
			ReportID: vote.ReportID,
			Voter:    vote.VoterAddress,
			IsScam:   vote.IsScam,
		},
	})
	if confirmedNow {
		api.Deps.Events.Publish(events.Event{
			Type: events.TypeReportConfirmed,
			Payload: events.ReportConfirmed{
				ReportID:    vote.ReportID,
				Fingerprint: fingerprint,
			},
		})
	}

	return result, values.Success, "Vote recorded successfully", nil
}

func (api *API) GetVotesHelper(ctx context.Context, reportID int64) ([]model.Vote, string, string, error) {
	var votes []model.Vote
	err := api.withStoreRetry(ctx, func(c context.Context) error {
		var repoErr error
		votes, repoErr = api.GetVotesRepo(c, reportID)
		return repoErr
	})
	if err != nil {
		status, message := statusForError(err)
		return nil, status, message, err
	}
	return votes, values.Success, "Votes fetched successfully", nil
}

func (api *API) GetStatsHelper(ctx context.Context) (model.DashboardStats, string, string, error) {
	var stats model.DashboardStats
	err := api.withStoreRetry(ctx, func(c context.Context) error {
		var repoErr error
		stats, repoErr = api.GetStatsRepo(c)
		return repoErr
	})
	if err != nil {
		status, message := statusForError(err)
		return model.DashboardStats{}, status, message, err
	}
	return stats, values.Success, "Stats fetched successfully", nil
}
