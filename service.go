package credentials

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// Response messages surfaced to API clients.
const (
	MsgUserRegistered  = "User Registered Successfully"
	MsgLoginSuccessful = "Login successful"
	MsgLogoutSuccess   = "Logout successful"
)

// Acknowledgment is the body returned by operations that only confirm success.
type Acknowledgment struct {
	Message string `json:"message"`
}

// LoginResult carries the outcome of a successful credential verification.
type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"access_token"`
}

// UserStore is the subset of Users the service needs. Keeping it narrow lets
// tests swap the persistence layer without standing up a database.
type UserStore interface {
	GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string, criteria ...repository.SelectCriteria) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	ListPublic(ctx context.Context) ([]PublicUser, error)
}

// Service implements account registration, credential verification, and
// token issuance on top of a UserStore and a TokenService.
type Service struct {
	store            UserStore
	tm               repository.TransactionManager
	tokens           TokenService
	logger           Logger
	deterministicIDs bool
}

// NewService creates a Service backed by the repository manager's user store.
func NewService(repo RepositoryManager, tokens TokenService) *Service {
	return NewServiceWithStore(repo.Users(), repo, tokens)
}

// NewServiceWithStore creates a Service with an explicit store and
// transaction manager.
func NewServiceWithStore(store UserStore, tm repository.TransactionManager, tokens TokenService) *Service {
	return &Service{
		store:  store,
		tm:     tm,
		tokens: tokens,
		logger: defLogger{},
	}
}

// WithLogger sets the logger
func (s *Service) WithLogger(logger Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithDeterministicIDs derives user IDs from the email address instead of
// generating random UUIDs. Re-registering the same email after a hard delete
// yields the same ID.
func (s *Service) WithDeterministicIDs(enabled bool) *Service {
	s.deterministicIDs = enabled
	return s
}

// Signup registers a new account. Uniqueness checks and the insert run in a
// single transaction; the email check runs before the username check so a
// payload violating both reports the email conflict.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*Acknowledgment, error) {
	err := s.tm.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.store.GetByEmailTx(ctx, tx, req.Email); err == nil {
			return ErrDuplicateEmail
		} else if !goerrors.IsNotFound(err) {
			return err
		}

		if _, err := s.store.GetByUsernameTx(ctx, tx, req.Username); err == nil {
			return ErrDuplicateUsername
		} else if !goerrors.IsNotFound(err) {
			return err
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user := &User{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Username:     req.Username,
			Email:        req.Email,
			CountryCode:  req.CountryCode,
			MobileNumber: req.MobileNumber,
			PasswordHash: hash,
		}

		if s.deterministicIDs {
			if id, err := hashid.NewUUID(req.Email); err == nil {
				user.ID = id
			}
		}

		if _, err := s.store.RegisterTx(ctx, tx, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	s.logger.Info("Service registered user", "email", req.Email)

	return &Acknowledgment{Message: MsgUserRegistered}, nil
}

// Login verifies the presented credentials and issues a signed token. An
// unknown email and a failed password comparison return the same error so
// callers cannot tell registered addresses apart.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if err := ComparePasswordAndHash(req.Password, user.PasswordHash); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(NewIdentityFromUser(user))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue token")
	}

	s.logger.Debug("Service issued token", "user_id", user.ID.String())

	return &LoginResult{
		Message: MsgLoginSuccessful,
		Token:   token,
	}, nil
}

// Logout acknowledges the logout. Tokens are stateless, so the client
// discards its copy; nothing is tracked server side.
func (s *Service) Logout(ctx context.Context) *Acknowledgment {
	return &Acknowledgment{Message: MsgLogoutSuccess}
}

// ListUsers returns the public projection of every registered user.
func (s *Service) ListUsers(ctx context.Context) ([]PublicUser, error) {
	return s.store.ListPublic(ctx)
}
