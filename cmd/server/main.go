// Command server runs the CrewLedger verification service: a Connect RPC
// server backed by SQLite, with JWT-authenticated ledger verification.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/crewledger/crewledger/internal/auth"
	"github.com/crewledger/crewledger/internal/config"
	"github.com/crewledger/crewledger/internal/middleware"
	"github.com/crewledger/crewledger/internal/rpc"
	"github.com/crewledger/crewledger/internal/service"
	"github.com/crewledger/crewledger/internal/storage/sqlite"
	"github.com/crewledger/crewledger/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	authService := service.NewAuthService(authenticator, jwtManager)
	ledgerService := service.NewLedgerService(store, cfg.Currency)

	codec := connect.WithCodec(rpc.Codec{})
	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.LoggingInterceptor(),
	)
	authed := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(rpc.AuthRegisterProcedure,
		connect.NewUnaryHandler(rpc.AuthRegisterProcedure, authService.Register, codec, public))
	mux.Handle(rpc.AuthLoginProcedure,
		connect.NewUnaryHandler(rpc.AuthLoginProcedure, authService.Login, codec, public))

	mux.Handle(rpc.LedgerVerifyProcedure,
		connect.NewUnaryHandler(rpc.LedgerVerifyProcedure, ledgerService.VerifyLedger, codec, authed))
	mux.Handle(rpc.LedgerGetReportProcedure,
		connect.NewUnaryHandler(rpc.LedgerGetReportProcedure, ledgerService.GetReport, codec, authed))
	mux.Handle(rpc.LedgerListReportsProcedure,
		connect.NewUnaryHandler(rpc.LedgerListReportsProcedure, ledgerService.ListReports, codec, authed))

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// h2c allows HTTP/2 without TLS, which Connect clients expect in dev.
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("Server starting", "address", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
