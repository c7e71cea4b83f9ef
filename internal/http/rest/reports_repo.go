package rest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwise1/phishblock/internal/model"
	"github.com/bwise1/phishblock/internal/phishing"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrDuplicateReport = errors.New("report already exists for this url")
	ErrTimeout         = errors.New("store operation timed out")
)

const uniqueViolation = "23505"

// CreateReportRepo inserts a new report. The fingerprint uniqueness check
// runs in the same transaction as the insert, with the unique index as a
// backstop against concurrent submissions.
func (api *API) CreateReportRepo(ctx context.Context, report model.Report) (model.Report, error) {
	tx, err := api.DB.Begin(ctx)
	if err != nil {
		return model.Report{}, err
	}
	defer tx.Rollback(ctx)

	var existingID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM reports WHERE fingerprint = $1`,
		report.Fingerprint,
	).Scan(&existingID)
	if err == nil {
		return model.Report{}, ErrDuplicateReport
	}
	if err != pgx.ErrNoRows {
		return model.Report{}, err
	}

	query := `
        INSERT INTO reports (
            url, fingerprint, reporter_address, description, evidence_url, phishing_score
        ) VALUES (
            $1, $2, $3, $4, $5, $6
        ) RETURNING id, upvotes_count, downvotes_count, confirmed_scam, created_at
    `
	err = tx.QueryRow(ctx, query,
		report.URL, report.Fingerprint, report.ReporterAddress,
		report.Description, report.EvidenceURL, report.PhishingScore,
	).Scan(
		&report.ID, &report.UpvotesCount, &report.DownvotesCount,
		&report.ConfirmedScam, &report.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Report{}, ErrDuplicateReport
		}
		log.Println(err)
		return model.Report{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Report{}, err
	}

	setRiskLevel(&report)
	return report, nil
}

// GetReportByIDRepo retrieves a report by ID
func (api *API) GetReportByIDRepo(ctx context.Context, id int64) (model.Report, error) {
	query := `
        SELECT
            id, url, fingerprint, reporter_address, description, evidence_url,
            phishing_score, upvotes_count, downvotes_count, confirmed_scam, created_at
        FROM reports
        WHERE id = $1
    `
	var report model.Report
	err := api.DB.QueryRow(ctx, query, id).Scan(
		&report.ID, &report.URL, &report.Fingerprint, &report.ReporterAddress,
		&report.Description, &report.EvidenceURL, &report.PhishingScore,
		&report.UpvotesCount, &report.DownvotesCount, &report.ConfirmedScam,
		&report.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.Report{}, ErrReportNotFound
	}
	if err != nil {
		return model.Report{}, err
	}
	setRiskLevel(&report)
	return report, nil
}

// GetReportByFingerprintRepo checks whether a fingerprint is already reported.
func (api *API) GetReportByFingerprintRepo(ctx context.Context, fingerprint string) (model.Report, error) {
	query := `
        SELECT
            id, url, fingerprint, reporter_address, description, evidence_url,
            phishing_score, upvotes_count, downvotes_count, confirmed_scam, created_at
        FROM reports
        WHERE fingerprint = $1
    `
	var report model.Report
	err := api.DB.QueryRow(ctx, query, fingerprint).Scan(
		&report.ID, &report.URL, &report.Fingerprint, &report.ReporterAddress,
		&report.Description, &report.EvidenceURL, &report.PhishingScore,
		&report.UpvotesCount, &report.DownvotesCount, &report.ConfirmedScam,
		&report.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.Report{}, ErrReportNotFound
	}
	if err != nil {
		return model.Report{}, err
	}
	setRiskLevel(&report)
	return report, nil
}

// ListReportsRepo retrieves reports, most recent first, with optional
// status filter and case-insensitive search on url or reporter.
func (api *API) ListReportsRepo(ctx context.Context, params model.ListReportsParams) ([]model.Report, error) {
	baseQuery := `
        SELECT
            id, url, fingerprint, reporter_address, description, evidence_url,
            phishing_score, upvotes_count, downvotes_count, confirmed_scam, created_at
        FROM reports
        WHERE 1 = 1
    `

	args := []interface{}{}
	argCount := 0

	whereClause := ""
	switch params.Status {
	case "confirmed":
		whereClause += " AND confirmed_scam = TRUE"
	case "pending":
		whereClause += " AND confirmed_scam = FALSE"
	}

	if params.Search != "" {
		argCount++
		whereClause += fmt.Sprintf(" AND (url ILIKE $%d OR reporter_address ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+params.Search+"%")
	}

	query := fmt.Sprintf(`%s %s ORDER BY created_at DESC`, baseQuery, whereClause)

	rows, err := api.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var report model.Report
		err := rows.Scan(
			&report.ID, &report.URL, &report.Fingerprint, &report.ReporterAddress,
			&report.Description, &report.EvidenceURL, &report.PhishingScore,
			&report.UpvotesCount, &report.DownvotesCount, &report.ConfirmedScam,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		setRiskLevel(&report)
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// GetStatsRepo aggregates the dashboard counters in one pass.
func (api *API) GetStatsRepo(ctx context.Context) (model.DashboardStats, error) {
	query := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE confirmed_scam),
            COUNT(*) FILTER (WHERE NOT confirmed_scam),
            COALESCE(SUM(upvotes_count + downvotes_count), 0),
            COUNT(DISTINCT reporter_address)
        FROM reports
    `
	var stats model.DashboardStats
	err := api.DB.QueryRow(ctx, query).Scan(
		&stats.TotalReports, &stats.ConfirmedScams, &stats.PendingReports,
		&stats.TotalVotes, &stats.UniqueReporters,
	)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return stats, nil
}

func setRiskLevel(report *model.Report) {
	if report.PhishingScore != nil {
		report.RiskLevel = string(phishing.Bucket(*report.PhishingScore))
	}
}
