package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GaurishMcK/HR-Nexus/internal/api/handlers"
	"github.com/GaurishMcK/HR-Nexus/internal/jobs"
	"github.com/GaurishMcK/HR-Nexus/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HR Nexus API server: employee inquiries, the HR ticket desk and the compliance monitor",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("rebuild-index", false, "Rebuild the policy index from the document source before serving")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	a, err := openApp(ctx, !noMigrate)
	if err != nil {
		return err
	}
	defer a.Close()

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		a.cfg.Port = portFlag
	}

	if rebuild, _ := cmd.Flags().GetBool("rebuild-index"); rebuild {
		res, err := a.indexSvc.Rebuild(ctx)
		if err != nil {
			a.logger.Warn("startup index rebuild failed", zap.Error(err))
		} else {
			a.logger.Info("startup index rebuild",
				zap.String("status", string(res.Status)),
				zap.Int("chunks", res.Chunks))
		}
	} else {
		n, err := a.indexSvc.Load(ctx)
		if err != nil {
			a.logger.Warn("policy index not loaded, inquiries will fall back until it is rebuilt", zap.Error(err))
		} else {
			a.logger.Info("policy index loaded", zap.Int("chunks", n))
		}
	}

	if a.cfg.PolicySyncInterval > 0 {
		syncer := jobs.NewPolicySync(a.source, jobs.RebuilderFunc(func(ctx context.Context) (int, error) {
			res, err := a.indexSvc.Rebuild(ctx)
			if err != nil {
				return 0, err
			}
			return res.Chunks, nil
		}), a.logger.Named("policy-sync"))
		worker := jobs.NewWorker("policy-sync", syncer, a.cfg.PolicySyncInterval, a.logger)
		go worker.Start(ctx)
		defer worker.Stop()
	}

	router := server.NewRouter(server.RouterConfig{
		Logger:            a.logger,
		Users:             a.userSvc,
		Sessions:          a.sessions,
		InquiryHandler:    handlers.NewInquiryHandler(a.helpdeskSvc),
		MeHandler:         handlers.NewMeHandler(a.userSvc),
		TicketHandler:     handlers.NewTicketHandler(a.ticketSvc),
		AdminHandler:      handlers.NewAdminHandler(a.indexSvc),
		ComplianceHandler: handlers.NewComplianceHandler(a.complianceSvc),
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", zap.String("port", a.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.logger.Info("server exited")
	return nil
}
