// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/crewledger/crewledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines persistence for user accounts and verification reports.
// The abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateReport persists a verification report and its settlement plan.
	CreateReport(ctx context.Context, report *models.Report) error

	// GetReport retrieves a report, including its settlements and document.
	// Returns an error wrapping ErrNotFound when the report does not exist.
	GetReport(ctx context.Context, reportID string) (*models.Report, error)

	// ListReportsByUser returns a user's reports, newest first, without the
	// stored documents or settlements.
	ListReportsByUser(ctx context.Context, userID string) ([]*models.Report, error)

	// Close releases any resources held by the store.
	Close() error
}
