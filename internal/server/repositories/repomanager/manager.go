package repomanager

import (
	"context"
	"database/sql"

	"github.com/tenauth/tenauth/internal/dbx"
	"github.com/tenauth/tenauth/internal/server/repositories/loginattempts"
	"github.com/tenauth/tenauth/internal/server/repositories/resettokens"
	"github.com/tenauth/tenauth/internal/server/repositories/tenants"
	"github.com/tenauth/tenauth/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tenants(db dbx.DBTX) tenants.Repository
	LoginAttempts(db dbx.DBTX) loginattempts.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
}
