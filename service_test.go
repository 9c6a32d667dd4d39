package credentials_test

import (
	"context"
	"testing"

	credentials "github.com/goliatone/go-credentials"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(store *MockUserStore, tokens *MockTokenService) *credentials.Service {
	return credentials.NewServiceWithStore(store, fakeTxManager{}, tokens)
}

func validSignup() credentials.SignupRequest {
	return credentials.SignupRequest{
		FirstName:    "Tony",
		LastName:     "Stark",
		Username:     "ironman",
		Email:        "tony@mail.com",
		Password:     "secret-password",
		CountryCode:  "+91",
		MobileNumber: "9876543210",
	}
}

func TestService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new user", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens)

		req := validSignup()

		store.On("GetByEmailTx", mock.Anything, mock.Anything, req.Email).
			Return(nil, repository.NewRecordNotFound())
		store.On("GetByUsernameTx", mock.Anything, mock.Anything, req.Username).
			Return(nil, repository.NewRecordNotFound())
		store.On("RegisterTx", mock.Anything, mock.Anything, mock.MatchedBy(func(u *credentials.User) bool {
			return u.Email == req.Email && u.Username == req.Username
		})).Return(&credentials.User{Email: req.Email}, nil)

		ack, err := svc.Signup(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "User Registered Successfully", ack.Message)
		store.AssertExpectations(t)
	})

	t.Run("stores a hash instead of the password", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens)

		req := validSignup()

		var persisted *credentials.User
		store.On("GetByEmailTx", mock.Anything, mock.Anything, req.Email).
			Return(nil, repository.NewRecordNotFound())
		store.On("GetByUsernameTx", mock.Anything, mock.Anything, req.Username).
			Return(nil, repository.NewRecordNotFound())
		store.On("RegisterTx", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				persisted = args.Get(2).(*credentials.User)
			}).
			Return(&credentials.User{}, nil)

		_, err := svc.Signup(ctx, req)
		require.NoError(t, err)

		require.NotNil(t, persisted)
		assert.NotEqual(t, req.Password, persisted.PasswordHash)
		assert.NoError(t, credentials.ComparePasswordAndHash(req.Password, persisted.PasswordHash))
	})

	t.Run("reports duplicate email before touching username", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens)

		req := validSignup()

		store.On("GetByEmailTx", mock.Anything, mock.Anything, req.Email).
			Return(&credentials.User{Email: req.Email}, nil)

		ack, err := svc.Signup(ctx, req)

		assert.Nil(t, ack)
		assert.Equal(t, credentials.ErrDuplicateEmail, err)
		assert.True(t, credentials.IsConflictError(err))
		store.AssertNotCalled(t, "GetByUsernameTx", mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "RegisterTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reports duplicate username", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens)

		req := validSignup()

		store.On("GetByEmailTx", mock.Anything, mock.Anything, req.Email).
			Return(nil, repository.NewRecordNotFound())
		store.On("GetByUsernameTx", mock.Anything, mock.Anything, req.Username).
			Return(&credentials.User{Username: req.Username}, nil)

		ack, err := svc.Signup(ctx, req)

		assert.Nil(t, ack)
		assert.Equal(t, credentials.ErrDuplicateUsername, err)
		store.AssertNotCalled(t, "RegisterTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("derives deterministic IDs from the email", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens).WithDeterministicIDs(true)

		req := validSignup()

		var first, second *credentials.User
		store.On("GetByEmailTx", mock.Anything, mock.Anything, req.Email).
			Return(nil, repository.NewRecordNotFound())
		store.On("GetByUsernameTx", mock.Anything, mock.Anything, req.Username).
			Return(nil, repository.NewRecordNotFound())
		store.On("RegisterTx", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				u := args.Get(2).(*credentials.User)
				if first == nil {
					first = u
				} else {
					second = u
				}
			}).
			Return(&credentials.User{}, nil)

		_, err := svc.Signup(ctx, req)
		require.NoError(t, err)
		_, err = svc.Signup(ctx, req)
		require.NoError(t, err)

		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, first.ID, second.ID)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	password := "secret-password"
	hash, err := credentials.HashPassword(password)
	require.NoError(t, err)

	user := &credentials.User{
		Username:     "ironman",
		Email:        "tony@mail.com",
		PasswordHash: hash,
	}

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens)

		store.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
		tokens.On("Generate", mock.Anything).Return("signed-token", nil)

		res, err := svc.Login(ctx, credentials.LoginRequest{
			Email:    user.Email,
			Password: password,
		})

		require.NoError(t, err)
		assert.Equal(t, "Login successful", res.Message)
		assert.Equal(t, "signed-token", res.Token)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens)

		store.On("GetByEmail", mock.Anything, "nobody@mail.com").
			Return(nil, repository.NewRecordNotFound())
		store.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		_, errUnknown := svc.Login(ctx, credentials.LoginRequest{
			Email:    "nobody@mail.com",
			Password: password,
		})
		_, errWrongPwd := svc.Login(ctx, credentials.LoginRequest{
			Email:    user.Email,
			Password: "not-the-password",
		})

		assert.Equal(t, credentials.ErrMismatchedHashAndPassword, errUnknown)
		assert.Equal(t, credentials.ErrMismatchedHashAndPassword, errWrongPwd)
		assert.Equal(t, errUnknown, errWrongPwd)
		tokens.AssertNotCalled(t, "Generate", mock.Anything)
	})

	t.Run("propagates token issuance failures", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens)

		store.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
		tokens.On("Generate", mock.Anything).Return("", assert.AnError)

		res, err := svc.Login(ctx, credentials.LoginRequest{
			Email:    user.Email,
			Password: password,
		})

		assert.Nil(t, res)
		assert.Error(t, err)
	})
}

func TestService_Logout(t *testing.T) {
	store := &MockUserStore{}
	tokens := &MockTokenService{}
	svc := newTestService(store, tokens)

	ack := svc.Logout(context.Background())

	assert.Equal(t, "Logout successful", ack.Message)
}

func TestService_ListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("returns public projections", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens)

		expected := []credentials.PublicUser{
			{Username: "ironman", Email: "tony@mail.com"},
		}
		store.On("ListPublic", mock.Anything).Return(expected, nil)

		users, err := svc.ListUsers(ctx)

		require.NoError(t, err)
		assert.Equal(t, expected, users)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		store := &MockUserStore{}
		tokens := &MockTokenService{}
		svc := newTestService(store, tokens)

		store.On("ListPublic", mock.Anything).Return(nil, assert.AnError)

		users, err := svc.ListUsers(ctx)

		assert.Nil(t, users)
		assert.Error(t, err)
	})
}
