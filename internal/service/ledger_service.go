// Package service implements the Connect RPC services of the CrewLedger
// server: ledger verification and account management.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/crewledger/crewledger/internal/middleware"
	"github.com/crewledger/crewledger/internal/models"
	"github.com/crewledger/crewledger/internal/report"
	"github.com/crewledger/crewledger/internal/rpc"
	"github.com/crewledger/crewledger/internal/storage"
	"github.com/crewledger/crewledger/internal/verifier"
)

// LedgerService verifies submitted ledgers and serves stored reports.
type LedgerService struct {
	store           storage.Store
	defaultCurrency string
}

// NewLedgerService creates a LedgerService backed by the given store.
func NewLedgerService(store storage.Store, defaultCurrency string) *LedgerService {
	return &LedgerService{store: store, defaultCurrency: defaultCurrency}
}

// VerifyLedger runs one verification pass over the submitted document,
// persists the outcome, and returns the full report.
func (s *LedgerService) VerifyLedger(ctx context.Context, req *connect.Request[rpc.VerifyLedgerRequest]) (*connect.Response[rpc.VerifyLedgerResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	doc := &req.Msg.Document
	currency := req.Msg.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	result := verifier.Verify(doc)
	rendered := report.Render(result, currency)

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("encode document: %w", err))
	}

	record := &models.Report{
		UserID:       userID,
		Title:        titleOrDefault(req.Msg.Title),
		Currency:     currency,
		Document:     raw,
		ExpenseCount: len(result.Results),
		InvalidCount: result.StatusCount(verifier.StatusInvalid),
		SkippedCount: result.StatusCount(verifier.StatusSkipped),
		TotalCost:    result.TotalCost,
		Settlements:  toStoredSettlements(result),
	}
	if err := s.store.CreateReport(ctx, record); err != nil {
		slog.Error("Failed to persist report", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("persist report"))
	}

	slog.Info("Ledger verified",
		"report_id", record.ID,
		"user_id", userID,
		"expenses", record.ExpenseCount,
		"invalid", record.InvalidCount,
		"settlements", len(record.Settlements),
	)

	resp := &rpc.VerifyLedgerResponse{
		ReportID:    record.ID,
		Results:     toRPCResults(result),
		TotalCost:   result.TotalCost,
		Balances:    result.Balances,
		Settlements: toRPCSettlements(result),
		Rendered:    rendered,
	}
	return connect.NewResponse(resp), nil
}

// GetReport returns a stored report. Reports are private to their owner.
func (s *LedgerService) GetReport(ctx context.Context, req *connect.Request[rpc.GetReportRequest]) (*connect.Response[rpc.GetReportResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	record, err := s.store.GetReport(ctx, req.Msg.ReportID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		slog.Error("Failed to load report", "report_id", req.Msg.ReportID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load report"))
	}
	if record.UserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("report belongs to another user"))
	}

	var doc models.Document
	if err := json.Unmarshal(record.Document, &doc); err != nil {
		slog.Error("Stored document is unreadable", "report_id", record.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("decode stored document"))
	}

	settlements := make([]rpc.Settlement, len(record.Settlements))
	for i, settlement := range record.Settlements {
		settlements[i] = rpc.Settlement{
			FromID:   settlement.FromID,
			ToID:     settlement.ToID,
			FromName: settlement.FromName,
			ToName:   settlement.ToName,
			Amount:   settlement.Amount,
		}
	}

	resp := &rpc.GetReportResponse{
		Report:      toSummary(record),
		Document:    doc,
		Settlements: settlements,
	}
	return connect.NewResponse(resp), nil
}

// ListReports returns summaries of the caller's reports, newest first.
func (s *LedgerService) ListReports(ctx context.Context, req *connect.Request[rpc.ListReportsRequest]) (*connect.Response[rpc.ListReportsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	records, err := s.store.ListReportsByUser(ctx, userID)
	if err != nil {
		slog.Error("Failed to list reports", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("list reports"))
	}

	summaries := make([]rpc.ReportSummary, len(records))
	for i, record := range records {
		summaries[i] = toSummary(record)
	}
	return connect.NewResponse(&rpc.ListReportsResponse{Reports: summaries}), nil
}

func titleOrDefault(title string) string {
	if title != "" {
		return title
	}
	return fmt.Sprintf("Verification - %s", time.Now().Format("Jan 2, 2006"))
}

func toSummary(record *models.Report) rpc.ReportSummary {
	return rpc.ReportSummary{
		ReportID:     record.ID,
		Title:        record.Title,
		Currency:     record.Currency,
		ExpenseCount: record.ExpenseCount,
		InvalidCount: record.InvalidCount,
		SkippedCount: record.SkippedCount,
		TotalCost:    record.TotalCost,
		CreatedAt:    record.CreatedAt,
	}
}

func toRPCResults(result *verifier.Report) []rpc.ExpenseResult {
	results := make([]rpc.ExpenseResult, len(result.Results))
	for i, r := range result.Results {
		results[i] = rpc.ExpenseResult{
			ExpenseID:   r.ExpenseID,
			Date:        r.Date,
			Description: r.Description,
			ShareType:   r.ShareType,
			Status:      string(r.Status),
			Shares:      r.Shares,
			Delta:       r.Delta,
			Error:       r.Err,
		}
	}
	return results
}

func toRPCSettlements(result *verifier.Report) []rpc.Settlement {
	settlements := make([]rpc.Settlement, len(result.Settlements))
	for i, s := range result.Settlements {
		settlements[i] = rpc.Settlement{
			FromID:   s.FromID,
			ToID:     s.ToID,
			FromName: s.FromName,
			ToName:   s.ToName,
			Amount:   s.Amount,
		}
	}
	return settlements
}

func toStoredSettlements(result *verifier.Report) []models.StoredSettlement {
	settlements := make([]models.StoredSettlement, len(result.Settlements))
	for i, s := range result.Settlements {
		settlements[i] = models.StoredSettlement{
			FromID:   s.FromID,
			ToID:     s.ToID,
			FromName: s.FromName,
			ToName:   s.ToName,
			Amount:   s.Amount,
		}
	}
	return settlements
}
