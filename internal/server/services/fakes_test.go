package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/dbx"
	"github.com/tenauth/tenauth/internal/server/config"
	"github.com/tenauth/tenauth/internal/server/models"
	"github.com/tenauth/tenauth/internal/server/notification"
	loginattemptsrepo "github.com/tenauth/tenauth/internal/server/repositories/loginattempts"
	resettokensrepo "github.com/tenauth/tenauth/internal/server/repositories/resettokens"
	tenantsrepo "github.com/tenauth/tenauth/internal/server/repositories/tenants"
	usersrepo "github.com/tenauth/tenauth/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.MaxLoginAttempts = 3
	cfg.LockoutDuration = 5 * time.Minute
	return cfg
}

// --- in-memory fakes ---

type fakeUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // by (tenantID + "/" + username)
	byID  map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) add(u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.TenantID+"/"+u.Username] = u
	f.byID[u.ID] = u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := u.TenantID + "/" + u.Username
	if _, ok := f.users[key]; ok {
		return nil, common.ErrUserExists
	}
	if u.ID == "" {
		u.ID = "id-" + u.Username
	}
	u.CreatedAt = time.Now()
	f.users[key] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByLogin(ctx context.Context, tenantID, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[tenantID+"/"+username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeTenantsRepo struct {
	tenants map[string]*models.Tenant
}

func newFakeTenantsRepo() *fakeTenantsRepo {
	return &fakeTenantsRepo{tenants: map[string]*models.Tenant{}}
}

func (f *fakeTenantsRepo) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	if tenant.ID == "" {
		tenant.ID = "tenant-" + tenant.Name
	}
	tenant.CreatedAt = time.Now()
	f.tenants[tenant.ID] = tenant
	return tenant, nil
}

func (f *fakeTenantsRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	tenant, ok := f.tenants[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return tenant, nil
}

type fakeAttemptsRepo struct {
	mu       sync.Mutex
	attempts map[string]*models.LoginAttempt
}

func newFakeAttemptsRepo() *fakeAttemptsRepo {
	return &fakeAttemptsRepo{attempts: map[string]*models.LoginAttempt{}}
}

func (f *fakeAttemptsRepo) Get(ctx context.Context, tenantKey, userID string) (*models.LoginAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[tenantKey+"/"+userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptsRepo) Upsert(ctx context.Context, attempt *models.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *attempt
	cp.UpdatedAt = time.Now()
	f.attempts[attempt.TenantKey+"/"+attempt.UserID] = &cp
	return nil
}

func (f *fakeAttemptsRepo) Delete(ctx context.Context, tenantKey, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.attempts, tenantKey+"/"+userID)
	return nil
}

type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.ResetToken // by token value
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]*models.ResetToken{}}
}

func (f *fakeResetRepo) Create(ctx context.Context, token *models.ResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token.ID == "" {
		token.ID = "rt-" + token.Token[:8]
	}
	token.CreatedAt = time.Now()
	cp := *token
	f.tokens[token.Token] = &cp
	return nil
}

func (f *fakeResetRepo) Find(ctx context.Context, token string) (*models.ResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeResetRepo) MarkConsumed(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.ID == id {
			if rt.Consumed {
				return common.ErrTokenAlreadyUsed
			}
			rt.Consumed = true
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeResetRepo) InvalidateForUser(ctx context.Context, tenantKey, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.TenantKey == tenantKey && rt.UserID == userID {
			rt.Consumed = true
		}
	}
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTenantsRepo
	a *fakeAttemptsRepo
	r *fakeResetRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		t: newFakeTenantsRepo(),
		a: newFakeAttemptsRepo(),
		r: newFakeResetRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }
func (m *fakeRepoManager) Tenants(db dbx.DBTX) tenantsrepo.Repository { return m.t }
func (m *fakeRepoManager) LoginAttempts(db dbx.DBTX) loginattemptsrepo.Repository { return m.a }
func (m *fakeRepoManager) ResetTokens(db dbx.DBTX) resettokensrepo.Repository { return m.r }

// fakeHasher compares plaintext so tests avoid bcrypt cost; it records how
// the service touched it.
type fakeHasher struct {
	mu           sync.Mutex
	compareCalls int
	dummyCalls   int
}

func (f *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hash, password string) bool {
	f.mu.Lock()
	f.compareCalls++
	f.mu.Unlock()
	return hash == "hashed:"+password
}

func (f *fakeHasher) DummyCompare(password string) {
	f.mu.Lock()
	f.dummyCalls++
	f.mu.Unlock()
}

// fakeNotifier records reset notifications.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification.ResetNotification
	err  error
}

func (f *fakeNotifier) SendPasswordReset(ctx context.Context, n notification.ResetNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}
