package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "enrolinvitation/docs"
	"enrolinvitation/internal/adapters/auth"
	"enrolinvitation/internal/adapters/email"
	"enrolinvitation/internal/adapters/i18n"
	"enrolinvitation/internal/adapters/token"
	deliveryhttp "enrolinvitation/internal/delivery/http"
	"enrolinvitation/internal/delivery/http/controllers"
	"enrolinvitation/internal/delivery/http/middleware"
	"enrolinvitation/internal/repository/cache"
	"enrolinvitation/internal/repository/postgres"
	"enrolinvitation/internal/services"
)

func newServeCommand() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, logger, db, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if !skipMigrations {
				if err := postgres.RunMigrations(db, logger); err != nil {
					return err
				}
			}

			mailer, err := email.NewMailer(email.MailerConfig{
				Provider:    cfg.Email.Provider,
				FromAddress: cfg.Email.FromAddress,
				FromName:    cfg.Email.FromName,
				SES: email.SESConfig{
					Region:             cfg.Email.Region,
					AccessKeyID:        cfg.Email.AccessKeyID,
					SecretAccessKey:    cfg.Email.SecretAccessKey,
					InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
				},
			})
			if err != nil {
				return fmt.Errorf("create mailer: %w", err)
			}

			translator := i18n.NewTranslator(cfg.Locale)
			events := services.NewEventRecorder(postgres.NewAuditRepository(db), translator, cfg.SiteURL)
			manager := services.NewInvitationService(services.InvitationDeps{
				Invitations:  postgres.NewInvitationRepository(db),
				Courses:      postgres.NewCourseRepository(db),
				Users:        postgres.NewUserRepository(db),
				Roles:        cache.NewRoleCache(postgres.NewRoleRepository(db), cfg.RoleCacheSize, cfg.RoleCacheTTL),
				Enrolments:   postgres.NewEnrolmentRepository(db),
				Capabilities: postgres.NewCapabilityRepository(db),
				Notices:      postgres.NewPrivacyNoticeProvider(db),
				Tokens:       token.NewGenerator(token.DefaultLength),
				Email:        services.NewEmailService(mailer, email.NewTemplateRenderer()),
				Events:       events,
				Translator:   translator,
			}, services.InvitationConfig{
				SiteURL:          cfg.SiteURL,
				Period:           cfg.InvitationPeriod,
				MaxTokenAttempts: cfg.TokenMaxAttempts,
				SupportName:      cfg.SupportName,
				SupportEmail:     cfg.SupportEmail,
				Timeout:          cfg.RequestTimeout,
			}, logger)

			router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
				Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
				Limiter:        middleware.NewClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
				AllowedOrigins: cfg.CORSAllowedOrigins,
				Logger:         logger,
			}, controllers.NewInvitationController(logger, manager))

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on startup")
	return cmd
}
