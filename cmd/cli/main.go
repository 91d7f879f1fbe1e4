package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/floroz/gavel-marketplace/internal/adapters/database"
	"github.com/floroz/gavel-marketplace/internal/domain/users"
	"github.com/floroz/gavel-marketplace/migrations"
	"github.com/floroz/gavel-marketplace/pkg/auth"
	"github.com/floroz/gavel-marketplace/pkg/config"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
)

const usage = `usage: marketplace <command> [flags]

commands:
  migrate [up|down|status]   apply or inspect schema migrations
  add-user -handle NAME      create a user and print a bearer token when a signing key is configured
  token -handle NAME         print a bearer token for an existing user
`

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "migrate":
		err = runMigrate(cfg, args)
	case "add-user":
		err = runAddUser(ctx, cfg, args)
	case "token":
		err = runToken(ctx, cfg, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func runMigrate(cfg *config.Config, args []string) error {
	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch direction {
	case "up":
		return goose.Up(db, ".")
	case "down":
		return goose.Down(db, ".")
	case "status":
		return goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
}

func parseHandle(name string, args []string) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	handle := fs.String("handle", "", "user handle")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *handle == "" {
		return "", errors.New("-handle is required")
	}
	return *handle, nil
}

func runAddUser(ctx context.Context, cfg *config.Config, args []string) error {
	handle, err := parseHandle("add-user", args)
	if err != nil {
		return err
	}

	pool, err := pkgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	user, err := users.NewService(database.NewPostgresUserRepository(pool)).CreateUser(ctx, handle)
	if err != nil {
		return err
	}
	fmt.Printf("user %s created with id %s\n", user.Handle, user.ID)

	if cfg.JWTPrivateKeyPath == "" {
		return nil
	}
	return printToken(cfg, user)
}

func runToken(ctx context.Context, cfg *config.Config, args []string) error {
	handle, err := parseHandle("token", args)
	if err != nil {
		return err
	}

	pool, err := pkgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	user, err := users.NewService(database.NewPostgresUserRepository(pool)).GetUserByHandle(ctx, handle)
	if err != nil {
		return err
	}
	return printToken(cfg, user)
}

func printToken(cfg *config.Config, user *users.User) error {
	privateKey, err := cfg.ReadPrivateKey()
	if err != nil {
		return err
	}
	publicKey, err := cfg.ReadPublicKey()
	if err != nil {
		return err
	}
	signer, err := auth.NewSigner(privateKey, publicKey, cfg.JWTIssuer)
	if err != nil {
		return err
	}

	token, err := signer.GenerateToken(user.ID, user.Handle)
	if err != nil {
		return err
	}
	fmt.Printf("token (expires %s):\n%s\n", token.ExpiresAt.Format("2006-01-02 15:04:05 MST"), token.AccessToken)
	return nil
}
