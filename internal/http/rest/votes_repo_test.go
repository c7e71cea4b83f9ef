package rest

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/bwise1/phishblock/internal/consensus"
	"github.com/bwise1/phishblock/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockReportQuery     = `SELECT fingerprint, upvotes_count, downvotes_count, confirmed_scam FROM reports WHERE id = $1 FOR UPDATE`
	duplicateVoteQuery  = `SELECT EXISTS (SELECT 1 FROM votes WHERE report_id = $1 AND voter_address = $2)`
	insertVoteQuery     = `INSERT INTO votes (id, report_id, voter_address, is_scam) VALUES ($1, $2, $3, $4)`
	updateTallyQuery    = `UPDATE reports SET upvotes_count = $1, downvotes_count = $2, confirmed_scam = $3 WHERE id = $4`
	voterAddressFixture = "0xabc1234567890123456789012345678901234567"
)

func sampleVote(isScam bool) model.Vote {
	return model.Vote{
		ReportID:     1,
		VoterAddress: voterAddressFixture,
		IsScam:       isScam,
	}
}

func expectLockedReport(mock pgxmock.PgxPoolIface, upvotes, downvotes int, confirmed bool) {
	mock.ExpectQuery(regexp.QuoteMeta(lockReportQuery)).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(
			[]string{"fingerprint", "upvotes_count", "downvotes_count", "confirmed_scam"},
		).AddRow("fp1", upvotes, downvotes, confirmed))
}

func expectDuplicateCheck(mock pgxmock.PgxPoolIface, voted bool) {
	mock.ExpectQuery(regexp.QuoteMeta(duplicateVoteQuery)).
		WithArgs(int64(1), voterAddressFixture).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(voted))
}

func TestCastVoteRepo(t *testing.T) {
	api, mock := newMockAPI(t)

	mock.ExpectBegin()
	expectLockedReport(mock, 0, 0, false)
	expectDuplicateCheck(mock, false)
	mock.ExpectExec(regexp.QuoteMeta(insertVoteQuery)).
		WithArgs(pgxmock.AnyArg(), int64(1), voterAddressFixture, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(updateTallyQuery)).
		WithArgs(1, 0, false, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	result, fingerprint, confirmedNow, err := api.CastVoteRepo(context.Background(), sampleVote(true))
	require.NoError(t, err)

	assert.Equal(t, model.VoteResult{Upvotes: 1}, result)
	assert.Equal(t, "fp1", fingerprint)
	assert.False(t, confirmedNow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVoteRepoThirdScamVoteConfirms(t *testing.T) {
	api, mock := newMockAPI(t)

	mock.ExpectBegin()
	expectLockedReport(mock, 2, 1, false)
	expectDuplicateCheck(mock, false)
	mock.ExpectExec(regexp.QuoteMeta(insertVoteQuery)).
		WithArgs(pgxmock.AnyArg(), int64(1), voterAddressFixture, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(updateTallyQuery)).
		WithArgs(3, 1, true, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	result, _, confirmedNow, err := api.CastVoteRepo(context.Background(), sampleVote(true))
	require.NoError(t, err)

	assert.True(t, confirmedNow)
	assert.Equal(t, model.VoteResult{Upvotes: 3, Downvotes: 1, ConfirmedScam: true}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVoteRepoSafeVoteNeverConfirms(t *testing.T) {
	api, mock := newMockAPI(t)

	mock.ExpectBegin()
	expectLockedReport(mock, 2, 4, false)
	expectDuplicateCheck(mock, false)
	mock.ExpectExec(regexp.QuoteMeta(insertVoteQuery)).
		WithArgs(pgxmock.AnyArg(), int64(1), voterAddressFixture, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(updateTallyQuery)).
		WithArgs(2, 5, false, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	result, _, confirmedNow, err := api.CastVoteRepo(context.Background(), sampleVote(false))
	require.NoError(t, err)

	assert.False(t, confirmedNow)
	assert.False(t, result.ConfirmedScam)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVoteRepoReportNotFound(t *testing.T) {
	api, mock := newMockAPI(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockReportQuery)).
		WithArgs(int64(1)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, _, _, err := api.CastVoteRepo(context.Background(), sampleVote(true))
	assert.ErrorIs(t, err, ErrReportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVoteRepoAlreadyVoted(t *testing.T) {
	api, mock := newMockAPI(t)

	mock.ExpectBegin()
	expectLockedReport(mock, 1, 0, false)
	expectDuplicateCheck(mock, true)
	mock.ExpectRollback()

	_, _, _, err := api.CastVoteRepo(context.Background(), sampleVote(true))
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVoteRepoClosedReport(t *testing.T) {
	api, mock := newMockAPI(t)

	mock.ExpectBegin()
	expectLockedReport(mock, 3, 0, true)
	expectDuplicateCheck(mock, false)
	mock.ExpectRollback()

	_, _, _, err := api.CastVoteRepo(context.Background(), sampleVote(true))
	assert.ErrorIs(t, err, consensus.ErrReportClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVotesRepo(t *testing.T) {
	api, mock := newMockAPI(t)

	mock.ExpectQuery(`SELECT id, report_id, voter_address, is_scam, created_at FROM votes`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "report_id", "voter_address", "is_scam", "created_at"},
		).AddRow(uuid.New(), int64(1), voterAddressFixture, true, time.Now()))

	votes, err := api.GetVotesRepo(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, votes, 1)
	assert.True(t, votes[0].IsScam)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasVotedRepo(t *testing.T) {
	api, mock := newMockAPI(t)

	mock.ExpectQuery(regexp.QuoteMeta(duplicateVoteQuery)).
		WithArgs(int64(1), voterAddressFixture).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	voted, err := api.HasVotedRepo(context.Background(), 1, voterAddressFixture)
	require.NoError(t, err)
	assert.True(t, voted)
}
