// Command bootstrap seeds a deployment: it can create a tenant and create
// the first admin user inside a tenant (or the host scope) directly against
// the database. The password is prompted without echo.
//
// Usage:
//
//	bootstrap -d <dsn> tenant <name>
//	bootstrap -d <dsn> admin <username> [tenant-id]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tenauth/tenauth/internal/server/config"
	"github.com/tenauth/tenauth/internal/server/models"
	"github.com/tenauth/tenauth/internal/server/password"
	"github.com/tenauth/tenauth/internal/server/repositories/repomanager"
	"github.com/tenauth/tenauth/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	args := nonFlagArgs(os.Args[1:])
	if len(args) < 2 {
		usage()
	}

	ctx := context.Background()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	switch args[0] {
	case "tenant":
		createTenant(ctx, db, repos, args[1])
	case "admin":
		tenantID := ""
		if len(args) > 2 {
			tenantID = args[2]
		}
		createAdmin(ctx, db, repos, args[1], tenantID)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bootstrap tenant <name> | bootstrap admin <username> [tenant-id]")
	os.Exit(2)
}

// nonFlagArgs strips flag pairs handled by config.LoadConfig, leaving the
// positional subcommand arguments.
func nonFlagArgs(args []string) []string {
	out := make([]string, 0, len(args))
	skip := false
	for _, a := range args {
		if skip {
			skip = false
			continue
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") {
				skip = true
			}
			continue
		}
		out = append(out, a)
	}
	return out
}

func createTenant(ctx context.Context, db *sql.DB, repos *repomanager.PostgresRepositoryManager, name string) {
	svc := services.NewTenantService(db, repos)
	tenant, err := svc.Create(ctx, name)
	if err != nil {
		log.Fatalf("tenant create error: %v", err)
	}
	fmt.Printf("tenant created: id=%s name=%s\n", tenant.ID, tenant.Name)
}

func createAdmin(ctx context.Context, db *sql.DB, repos *repomanager.PostgresRepositoryManager, username, tenantID string) {
	tenant := models.HostTenant()
	if tenantID != "" {
		svc := services.NewTenantService(db, repos)
		ref, err := svc.Resolve(ctx, tenantID, true)
		if err != nil {
			log.Fatalf("tenant resolve error: %v", err)
		}
		tenant = ref
	}

	fmt.Print("Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("password read error: %v", err)
	}
	if len(pw) == 0 {
		log.Fatal("password must not be empty")
	}

	hasher, err := password.NewBcryptHasher(0)
	if err != nil {
		log.Fatalf("hasher init error: %v", err)
	}

	hash, err := hasher.Hash(string(pw))
	if err != nil {
		log.Fatalf("hash error: %v", err)
	}

	user, err := repos.Users(db).Create(ctx, &models.User{
		TenantID:     tenant.ID,
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("user create error: %v", err)
	}

	fmt.Printf("admin created: id=%s username=%s scope=%s\n", user.ID, user.Username, tenant.Key())
}
