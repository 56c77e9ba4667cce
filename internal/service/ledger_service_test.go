package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"connectrpc.com/connect"

	"github.com/crewledger/crewledger/internal/middleware"
	"github.com/crewledger/crewledger/internal/models"
	"github.com/crewledger/crewledger/internal/rpc"
	"github.com/crewledger/crewledger/internal/storage/sqlite"
)

const testUserID = "u-alice"

// testAuthInterceptor stamps a fixed user ID into the context, standing in
// for the JWT middleware.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx = context.WithValue(ctx, middleware.UserIDKey, testUserID)
			return next(ctx, req)
		}
	}
}

// setupLedgerServer starts an httptest server with the LedgerService mounted
// behind the test auth interceptor, returning the base URL and the store.
func setupLedgerServer(t *testing.T) (string, *sqlite.SQLiteStore) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "crewledger-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	svc := NewLedgerService(store, "USD")
	codec := connect.WithCodec(rpc.Codec{})
	interceptors := connect.WithInterceptors(testAuthInterceptor())

	mux := http.NewServeMux()
	mux.Handle(rpc.LedgerVerifyProcedure,
		connect.NewUnaryHandler(rpc.LedgerVerifyProcedure, svc.VerifyLedger, codec, interceptors))
	mux.Handle(rpc.LedgerGetReportProcedure,
		connect.NewUnaryHandler(rpc.LedgerGetReportProcedure, svc.GetReport, codec, interceptors))
	mux.Handle(rpc.LedgerListReportsProcedure,
		connect.NewUnaryHandler(rpc.LedgerListReportsProcedure, svc.ListReports, codec, interceptors))

	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})
	return server.URL, store
}

func verifyClient(baseURL string) *connect.Client[rpc.VerifyLedgerRequest, rpc.VerifyLedgerResponse] {
	return connect.NewClient[rpc.VerifyLedgerRequest, rpc.VerifyLedgerResponse](
		http.DefaultClient, baseURL+rpc.LedgerVerifyProcedure, connect.WithCodec(rpc.Codec{}))
}

func getReportClient(baseURL string) *connect.Client[rpc.GetReportRequest, rpc.GetReportResponse] {
	return connect.NewClient[rpc.GetReportRequest, rpc.GetReportResponse](
		http.DefaultClient, baseURL+rpc.LedgerGetReportProcedure, connect.WithCodec(rpc.Codec{}))
}

func listReportsClient(baseURL string) *connect.Client[rpc.ListReportsRequest, rpc.ListReportsResponse] {
	return connect.NewClient[rpc.ListReportsRequest, rpc.ListReportsResponse](
		http.DefaultClient, baseURL+rpc.LedgerListReportsProcedure, connect.WithCodec(rpc.Codec{}))
}

func testDocument() models.Document {
	cents := func(v int64) *int64 { return &v }
	return models.Document{
		Participants: []models.Participant{
			{ID: "p-alice", Name: "Alice"},
			{ID: "p-bob", Name: "Bob"},
			{ID: "p-carol", Name: "Carol"},
		},
		Expenses: []models.Expense{
			{ID: "e1", Amount: 9000, PaidBy: "p-alice", Date: "2025-07-01", Description: "Cabin"},
			{ID: "e2", Amount: 1000, PaidBy: "p-bob", Date: "2025-07-02", Description: "Ferry"},
		},
		ExpenseSplits: []models.Split{
			{ExpenseID: "e1", ParticipantID: "p-alice", ShareType: "equal"},
			{ExpenseID: "e1", ParticipantID: "p-bob", ShareType: "equal"},
			{ExpenseID: "e1", ParticipantID: "p-carol", ShareType: "equal"},
			// Invalid on purpose: sums to 900, not 1000.
			{ExpenseID: "e2", ParticipantID: "p-alice", ShareType: "amount", Amount: cents(500)},
			{ExpenseID: "e2", ParticipantID: "p-carol", ShareType: "amount", Amount: cents(400)},
		},
	}
}

func TestVerifyLedgerAndGetReport(t *testing.T) {
	baseURL, _ := setupLedgerServer(t)
	ctx := context.Background()

	resp, err := verifyClient(baseURL).CallUnary(ctx, connect.NewRequest(&rpc.VerifyLedgerRequest{
		Title:    "Summer trip",
		Document: testDocument(),
	}))
	if err != nil {
		t.Fatalf("VerifyLedger failed: %v", err)
	}

	if resp.Msg.ReportID == "" {
		t.Error("expected a report ID")
	}
	if resp.Msg.TotalCost != 10000 {
		t.Errorf("TotalCost = %d, want 10000", resp.Msg.TotalCost)
	}
	if len(resp.Msg.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Msg.Results))
	}
	if resp.Msg.Results[0].Status != "ok" || resp.Msg.Results[1].Status != "invalid" {
		t.Errorf("unexpected statuses: %+v", resp.Msg.Results)
	}
	if resp.Msg.Rendered == "" {
		t.Error("expected rendered report text")
	}
	// Only e1 accumulates: Alice +9000 -3000, Bob and Carol -3000 each.
	if got := resp.Msg.Balances["p-alice"]; got != 6000 {
		t.Errorf("Alice balance = %d, want 6000", got)
	}
	if len(resp.Msg.Settlements) != 2 {
		t.Fatalf("expected 2 settlements, got %+v", resp.Msg.Settlements)
	}

	got, err := getReportClient(baseURL).CallUnary(ctx, connect.NewRequest(&rpc.GetReportRequest{
		ReportID: resp.Msg.ReportID,
	}))
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.Msg.Report.Title != "Summer trip" || got.Msg.Report.ExpenseCount != 2 || got.Msg.Report.InvalidCount != 1 {
		t.Errorf("summary mismatch: %+v", got.Msg.Report)
	}
	if len(got.Msg.Document.Expenses) != 2 {
		t.Errorf("stored document lost expenses: %+v", got.Msg.Document)
	}
	if len(got.Msg.Settlements) != 2 {
		t.Errorf("stored settlements mismatch: %+v", got.Msg.Settlements)
	}
}

func TestGetReportNotFound(t *testing.T) {
	baseURL, _ := setupLedgerServer(t)

	_, err := getReportClient(baseURL).CallUnary(context.Background(),
		connect.NewRequest(&rpc.GetReportRequest{ReportID: "missing"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", err)
	}
}

func TestGetReportOfAnotherUser(t *testing.T) {
	baseURL, store := setupLedgerServer(t)
	ctx := context.Background()

	record := &models.Report{
		UserID:   "u-someone-else",
		Title:    "Private",
		Currency: "USD",
		Document: []byte(`{}`),
	}
	if err := store.CreateReport(ctx, record); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	_, err := getReportClient(baseURL).CallUnary(ctx,
		connect.NewRequest(&rpc.GetReportRequest{ReportID: record.ID}))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("expected CodePermissionDenied, got %v", err)
	}
}

func TestListReports(t *testing.T) {
	baseURL, _ := setupLedgerServer(t)
	ctx := context.Background()

	client := verifyClient(baseURL)
	for _, title := range []string{"First", "Second"} {
		if _, err := client.CallUnary(ctx, connect.NewRequest(&rpc.VerifyLedgerRequest{
			Title:    title,
			Document: testDocument(),
		})); err != nil {
			t.Fatalf("VerifyLedger(%s) failed: %v", title, err)
		}
	}

	resp, err := listReportsClient(baseURL).CallUnary(ctx, connect.NewRequest(&rpc.ListReportsRequest{}))
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(resp.Msg.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(resp.Msg.Reports))
	}
	for _, summary := range resp.Msg.Reports {
		if summary.ExpenseCount != 2 || summary.InvalidCount != 1 {
			t.Errorf("summary mismatch: %+v", summary)
		}
	}
}
