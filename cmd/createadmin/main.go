// Command createadmin bootstraps the first platform administrator.
//
// It is idempotent on email: an existing account is reported and left
// untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
	"github.com/bookmystyle/user-accounts/internal/core/service"
	"github.com/bookmystyle/user-accounts/internal/infrastructure/config"
	"github.com/bookmystyle/user-accounts/internal/infrastructure/db/memory"
	mongodb "github.com/bookmystyle/user-accounts/internal/infrastructure/db/mongo"
	"github.com/bookmystyle/user-accounts/pkg/logger"
)

const adminPortalPath = "/accounts/admin_portal/"

func main() {
	email := flag.String("email", "admin@bookmystyle.com", "admin email")
	password := flag.String("password", "admin123", "admin password")
	firstName := flag.String("first-name", "Admin", "admin first name")
	lastName := flag.String("last-name", "User", "admin last name")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, ports.RegisterInput{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  *password,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in ports.RegisterInput) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: "warn", Pretty: true})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	// No sessions are opened here; the store only satisfies the service.
	accounts := service.NewAccountService(users, memory.NewSessionStore(), nil, log)

	return bootstrap(ctx, accounts, in, os.Stdout)
}

type adminBootstrapper interface {
	ListAdmins(ctx context.Context) ([]*domain.User, error)
	BootstrapAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, bool, error)
}

// bootstrap reports the existing admins and creates the requested one. An
// email that is already taken is left untouched and only warned about.
func bootstrap(ctx context.Context, accounts adminBootstrapper, in ports.RegisterInput, out io.Writer) error {
	admins, err := accounts.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	if len(admins) > 0 {
		fmt.Fprintln(out, "Existing admin accounts:")
		for _, u := range admins {
			fmt.Fprintf(out, "  - %s (role=%s, staff=%t, superuser=%t)\n", u.Email, u.Role, u.IsStaff, u.IsSuperuser)
		}
	}

	user, created, err := accounts.BootstrapAdmin(ctx, in)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	if !created {
		fmt.Fprintf(out, "Warning: an account with email %s already exists (role=%s).\n", user.Email, user.Role)
		if user.Role != domain.RoleAdmin && !user.IsSuperuser {
			fmt.Fprintln(out, "Warning: that account has no admin access; nothing was changed.")
		}
		return nil
	}

	fmt.Fprintln(out, "Admin account created.")
	fmt.Fprintf(out, "  Email:    %s\n", user.Email)
	fmt.Fprintf(out, "  Password: %s\n", in.Password)
	fmt.Fprintf(out, "  Sign in at %s\n", adminPortalPath)
	return nil
}
