package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashu-pos/config"
	httpHandler "cashu-pos/internal/adapter/http/handler"
	"cashu-pos/internal/adapter/mint"
	"cashu-pos/internal/adapter/relay"
	"cashu-pos/internal/adapter/storage/sqlite"
	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports"
	"cashu-pos/internal/service"
	"cashu-pos/pkg/logger"

	"github.com/google/uuid"
	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command, which runs the terminal daemon.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the terminal daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.Config)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("role", cfg.Terminal.Role).
		Str("merchant_id", cfg.Terminal.MerchantID).
		Str("addr", cfg.HTTP.Addr()).
		Msg("Starting Cashu POS terminal")

	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Storage.Path).Msg("Failed to open local storage")
		return err
	}
	defer db.Close()

	identityStore := sqlite.NewIdentityStore(db)
	sk, terminalID, err := bootstrapIdentity(ctx, identityStore, log)
	if err != nil {
		return err
	}

	transport, err := relay.New(cfg.Relay.URLs, sk, cfg.Relay.PublishTimeout, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize relay transport")
		return err
	}
	defer transport.Close()
	probe := relay.NewProbe(transport)

	mintClient := mint.NewClient(nil, log)
	cipher := service.NewEnvelopeCipher(sk)

	trustSvc := service.NewTrustService(
		cfg.Terminal, transport, identityStore, sqlite.NewDeviceStore(db), terminalID, log,
	)
	syncSvc := service.NewSyncService(
		cfg.Terminal, cfg.Sync, transport, trustSvc, sqlite.NewSyncStore(db), terminalID, log,
	)
	forwardSvc := service.NewForwardService(
		cfg.Terminal, cfg.Forward, transport, trustSvc, cipher, mintClient,
		sqlite.NewForwardStore(db), terminalID, log,
	)
	queueSvc := service.NewOfflineQueueService(
		cfg.Queue, cfg.Mints, mintClient, sqlite.NewQueueStore(db), probe, syncSvc,
		terminalID, cfg.Terminal.MerchantID, log,
	)

	if err := trustSvc.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to start trust service")
		return err
	}
	defer trustSvc.Close()
	waitForTrust(ctx, trustSvc, log)

	if err := syncSvc.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to start sync service")
		return err
	}
	defer syncSvc.Close()

	if err := forwardSvc.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to start forward service")
		return err
	}
	defer forwardSvc.Close()

	if err := queueSvc.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to start offline queue")
		return err
	}
	defer queueSvc.Close()

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Terminal:     cfg.Terminal,
		TerminalID:   terminalID,
		Pubkey:       transport.PublicKey(),
		TrustSvc:     trustSvc,
		SyncSvc:      syncSvc,
		ForwardSvc:   forwardSvc,
		QueueSvc:     queueSvc,
		Reachability: probe,
		HealthCheckers: []ports.HealthChecker{
			sqlite.NewHealthCheck(db),
			probe,
		},
		Mode:   cfg.HTTP.Mode,
		Logger: log,
	})

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down terminal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Terminal exited")
	return nil
}

// bootstrapIdentity loads the terminal keypair and id, generating both on
// first run. The keypair is never rotated; sub-terminals present its public
// half in their join request.
func bootstrapIdentity(ctx context.Context, store ports.IdentityStore, log zerolog.Logger) (sk, terminalID string, err error) {
	sk, err = store.GetPrivateKey(ctx)
	if err != nil {
		return "", "", err
	}
	if sk == "" {
		sk = nostr.GeneratePrivateKey()
		if err = store.SavePrivateKey(ctx, sk); err != nil {
			return "", "", err
		}
		log.Info().Msg("Generated terminal keypair")
	}

	terminalID, err = store.GetTerminalID(ctx)
	if err != nil {
		return "", "", err
	}
	if terminalID == "" {
		terminalID = uuid.NewString()
		if err = store.SaveTerminalID(ctx, terminalID); err != nil {
			return "", "", err
		}
		log.Info().Str("terminal_id", terminalID).Msg("Generated terminal id")
	}
	return sk, terminalID, nil
}

// waitForTrust gives the trust subscription a moment to replay the
// handshake history so the local standing is known before the API opens.
// An unapproved terminal still serves; its operator uses POST /api/v1/join.
func waitForTrust(ctx context.Context, trustSvc *service.TrustServiceImpl, log zerolog.Logger) {
	readyCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := trustSvc.Ready(readyCtx); err != nil {
		log.Warn().Err(err).Msg("Trust handshake replay timed out, continuing with persisted standing")
	}
	if trustSvc.LocalStatus() != domain.ApprovalApproved {
		log.Warn().
			Str("status", string(trustSvc.LocalStatus())).
			Msg("Terminal is not approved yet, sync and forwards are disabled until the main terminal approves it")
	}
}
