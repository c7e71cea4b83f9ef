package rest

import (
	"context"
	"errors"

	"github.com/bwise1/phishblock/internal/consensus"
	"github.com/bwise1/phishblock/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/google/uuid"
)

var ErrAlreadyVoted = errors.New("voter has already voted on this report")

// CastVoteRepo persists one vote and updates the report tally in a single
// transaction. The report row is locked for the duration, so concurrent
// votes on the same report serialize: the duplicate check, the tally
// increment, and the threshold evaluation all observe one snapshot.
// Returns the resulting tally, the report fingerprint, and whether this
// vote confirmed the report.
func (api *API) CastVoteRepo(ctx context.Context, vote model.Vote) (model.VoteResult, string, bool, error) {
	tx, err := api.DB.Begin(ctx)
	if err != nil {
		return model.VoteResult{}, "", false, err
	}
	defer tx.Rollback(ctx)

	var fingerprint string
	tally := consensus.Tally{}
	err = tx.QueryRow(ctx,
		`SELECT fingerprint, upvotes_count, downvotes_count, confirmed_scam FROM reports WHERE id = $1 FOR UPDATE`,
		vote.ReportID,
	).Scan(&fingerprint, &tally.Upvotes, &tally.Downvotes, &tally.Confirmed)
	if err == pgx.ErrNoRows {
		return model.VoteResult{}, "", false, ErrReportNotFound
	}
	if err != nil {
		return model.VoteResult{}, "", false, err
	}

	var alreadyVoted bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM votes WHERE report_id = $1 AND voter_address = $2)`,
		vote.ReportID, vote.VoterAddress,
	).Scan(&alreadyVoted)
	if err != nil {
		return model.VoteResult{}, "", false, err
	}
	if alreadyVoted {
		return model.VoteResult{}, "", false, ErrAlreadyVoted
	}

	confirmedNow, err := tally.Apply(vote.IsScam)
	if err != nil {
		return model.VoteResult{}, "", false, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO votes (id, report_id, voter_address, is_scam) VALUES ($1, $2, $3, $4)`,
		uuid.New(), vote.ReportID, vote.VoterAddress, vote.IsScam,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.VoteResult{}, "", false, ErrAlreadyVoted
		}
		return model.VoteResult{}, "", false, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE reports SET upvotes_count = $1, downvotes_count = $2, confirmed_scam = $3 WHERE id = $4`,
		tally.Upvotes, tally.Downvotes, tally.Confirmed, vote.ReportID,
	)
	if err != nil {
		return model.VoteResult{}, "", false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.VoteResult{}, "", false, err
	}

	result := model.VoteResult{
		Upvotes:       tally.Upvotes,
		Downvotes:     tally.Downvotes,
		ConfirmedScam: tally.Confirmed,
	}
	return result, fingerprint, confirmedNow, nil
}

// GetVotesRepo retrieves the votes cast on a report.
func (api *API) GetVotesRepo(ctx context.Context, reportID int64) ([]model.Vote, error) {
	rows, err := api.DB.Query(ctx,
		`SELECT id, report_id, voter_address, is_scam, created_at FROM votes WHERE report_id = $1 ORDER BY created_at`,
		reportID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []model.Vote
	for rows.Next() {
		var vote model.Vote
		if err := rows.Scan(&vote.ID, &vote.ReportID, &vote.VoterAddress, &vote.IsScam, &vote.CreatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, vote)
	}
	return votes, rows.Err()
}

// HasVotedRepo checks whether a voter has a vote on a report.
func (api *API) HasVotedRepo(ctx context.Context, reportID int64, voter string) (bool, error) {
	var voted bool
	err := api.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM votes WHERE report_id = $1 AND voter_address = $2)`,
		reportID, voter,
	).Scan(&voted)
	return voted, err
}
