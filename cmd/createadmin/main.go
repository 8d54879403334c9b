// Command createadmin seeds an active admin account. Credentials come from
// ADMIN_EMAIL and ADMIN_PASSWORD; --email and --password override them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/service-bay/ticket-service/internal/config"
	"github.com/service-bay/ticket-service/internal/observability"
	"github.com/service-bay/ticket-service/internal/persistence"
	"github.com/service-bay/ticket-service/internal/repository"
	"github.com/service-bay/ticket-service/internal/service"
)

type options struct {
	email    string
	password string
	migrate  bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "createadmin: %v\n", err)
		os.Exit(1)
	}
}

// parseOptions resolves credentials, letting flags win over cfg.
func parseOptions(args []string, cfg config.AdminConfig, stderr io.Writer) (options, error) {
	opts := options{email: cfg.Email, password: cfg.Password}

	flagSet := pflag.NewFlagSet("createadmin", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.email, "email", opts.email, "admin email (default $ADMIN_EMAIL)")
	flagSet.StringVar(&opts.password, "password", opts.password, "admin password (default $ADMIN_PASSWORD)")
	flagSet.BoolVar(&opts.migrate, "migrate", true, "apply schema migrations before seeding")
	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if opts.email == "" || opts.password == "" {
		return opts, errors.New("admin email and password are required (set ADMIN_EMAIL/ADMIN_PASSWORD or pass --email/--password)")
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts, err := parseOptions(args, cfg.Admin, os.Stderr)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	if !pg.Enabled() {
		return errors.New("POSTGRES_DSN is required; the in-memory store does not outlive this command")
	}
	if opts.migrate {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	users := service.NewUserService(service.UserDependencies{
		UserRepo:   repository.NewUserRepository(pg.Pool),
		BcryptCost: cfg.Auth.BcryptCost,
		Pagination: cfg.Pagination,
		Logger:     logger,
	})
	return seed(ctx, users, opts, stdout, logger)
}

func seed(ctx context.Context, users *service.UserService, opts options, stdout io.Writer, logger *zap.Logger) error {
	created, err := users.EnsureAdmin(ctx, opts.email, opts.password)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	if !created {
		logger.Warn("admin already exists", zap.String("email", opts.email))
		fmt.Fprintf(stdout, "User with email %s already exists.\n", opts.email)
		return nil
	}
	fmt.Fprintf(stdout, "Admin user %s created.\n", opts.email)
	return nil
}
