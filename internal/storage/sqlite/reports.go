package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewledger/crewledger/internal/models"
	"github.com/crewledger/crewledger/internal/storage"
)

// CreateReport persists a verification report and its settlement plan.
func (s *SQLiteStore) CreateReport(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.CreatedAt == 0 {
		report.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (id, user_id, title, currency, document,
		                      expense_count, invalid_count, skipped_count, total_cost, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.UserID, report.Title, report.Currency, string(report.Document),
		report.ExpenseCount, report.InvalidCount, report.SkippedCount, report.TotalCost, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	for i, settlement := range report.Settlements {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO report_settlements (report_id, position, from_id, to_id, from_name, to_name, amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.ID, i, settlement.FromID, settlement.ToID,
			settlement.FromName, settlement.ToName, settlement.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetReport retrieves a report by ID, including its document and settlements.
func (s *SQLiteStore) GetReport(ctx context.Context, reportID string) (*models.Report, error) {
	report := &models.Report{}
	var document string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, currency, document,
		        expense_count, invalid_count, skipped_count, total_cost, created_at
		 FROM reports WHERE id = ?`,
		reportID,
	).Scan(
		&report.ID, &report.UserID, &report.Title, &report.Currency, &document,
		&report.ExpenseCount, &report.InvalidCount, &report.SkippedCount,
		&report.TotalCost, &report.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report %s: %w", reportID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	report.Document = []byte(document)

	rows, err := s.db.QueryContext(ctx,
		`SELECT from_id, to_id, from_name, to_name, amount
		 FROM report_settlements WHERE report_id = ? ORDER BY position`,
		reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var settlement models.StoredSettlement
		if err := rows.Scan(&settlement.FromID, &settlement.ToID,
			&settlement.FromName, &settlement.ToName, &settlement.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		report.Settlements = append(report.Settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return report, nil
}

// ListReportsByUser returns a user's reports, newest first. Documents and
// settlements are omitted from the listing.
func (s *SQLiteStore) ListReportsByUser(ctx context.Context, userID string) ([]*models.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, currency,
		        expense_count, invalid_count, skipped_count, total_cost, created_at
		 FROM reports WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		report := &models.Report{}
		if err := rows.Scan(
			&report.ID, &report.UserID, &report.Title, &report.Currency,
			&report.ExpenseCount, &report.InvalidCount, &report.SkippedCount,
			&report.TotalCost, &report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}
