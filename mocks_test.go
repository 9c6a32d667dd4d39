package credentials_test

import (
	"context"
	"database/sql"
	"time"

	credentials "github.com/goliatone/go-credentials"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockIdentity implements credentials.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements credentials.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// testConfig implements credentials.Config for testing
type testConfig struct {
	signingKey  string
	contextKey  string
	ttl         time.Duration
	tokenLookup string
	authScheme  string
	issuer      string
	audience    []string
}

func (c testConfig) GetSigningKey() string      { return c.signingKey }
func (c testConfig) GetSigningMethod() string   { return "HS256" }
func (c testConfig) GetContextKey() string      { return c.contextKey }
func (c testConfig) GetTokenTTL() time.Duration { return c.ttl }
func (c testConfig) GetTokenLookup() string     { return c.tokenLookup }
func (c testConfig) GetAuthScheme() string      { return c.authScheme }
func (c testConfig) GetIssuer() string          { return c.issuer }
func (c testConfig) GetAudience() []string      { return c.audience }

// MockUserStore implements credentials.UserStore for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*credentials.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*credentials.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetByEmailTx(ctx context.Context, tx bun.IDB, email string, criteria ...repository.SelectCriteria) (*credentials.User, error) {
	args := m.Called(ctx, tx, email)
	if u := args.Get(0); u != nil {
		return u.(*credentials.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*credentials.User, error) {
	args := m.Called(ctx, tx, username)
	if u := args.Get(0); u != nil {
		return u.(*credentials.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) RegisterTx(ctx context.Context, tx bun.IDB, user *credentials.User) (*credentials.User, error) {
	args := m.Called(ctx, tx, user)
	if u := args.Get(0); u != nil {
		return u.(*credentials.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) ListPublic(ctx context.Context) ([]credentials.PublicUser, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]credentials.PublicUser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTokenService implements credentials.TokenService for testing
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(identity credentials.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *credentials.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (credentials.AuthClaims, error) {
	args := m.Called(tokenString)
	if c := args.Get(0); c != nil {
		return c.(credentials.AuthClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeTxManager runs the transactional callback inline with a zero value
// transaction so service flows can be tested without a database.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}
