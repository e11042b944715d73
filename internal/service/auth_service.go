// Package service holds the credential-verification and token-issuance
// logic behind the register and login endpoints.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iliyamo/credential-service/internal/model"
	"github.com/iliyamo/credential-service/internal/queue"
	"github.com/iliyamo/credential-service/internal/repository"
	"github.com/iliyamo/credential-service/internal/utils"
)

const (
	defaultStoreTimeout = 5 * time.Second
	eventPublishTimeout = 5 * time.Second
)

// UserStore is the credential store.  The repository must report a missing
// user with repository.ErrNotFound.
type UserStore interface {
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	FindByLogin(ctx context.Context, login string) (model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// PasswordHasher hashes passwords and checks candidates against a hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// TokenIssuer signs an access token over a user's id and username.
type TokenIssuer interface {
	Issue(userID uint64, username string) (utils.AccessToken, error)
}

// RegisterInput is the body of a registration request.  Values are stored
// exactly as given; no case folding or trimming happens.
type RegisterInput struct {
	Username string `json:"username" validate:"required,notblank,nonul,max=50"`
	Email    string `json:"email" validate:"required,nonul,email,max=255"`
	Password string `json:"password" validate:"required,nonul,pwbytes"`
}

// LoginInput is the body of a login request.  Login is matched against
// both email and username.  Input no stored user could match (a NUL byte, a
// password longer than bcrypt reads) fails as invalid credentials rather
// than as a validation error.
type LoginInput struct {
	Login    string `json:"login" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

// PublicUser is the client-visible part of a user.
type PublicUser struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResult is returned by a successful Register or Login.
type AuthResult struct {
	User  PublicUser
	Token utils.AccessToken
}

// Deps bundles AuthService collaborators.
type Deps struct {
	Users        UserStore
	Hasher       PasswordHasher
	Tokens       TokenIssuer
	Events       queue.Publisher     // optional; NopPublisher when nil
	Validate     *validator.Validate // optional; NewValidator() when nil
	Log          *zap.Logger         // optional; zap.NewNop() when nil
	StoreTimeout time.Duration       // optional; 5s when zero
}

// AuthService registers users and authenticates logins.
type AuthService struct {
	users    UserStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	events   queue.Publisher
	validate *validator.Validate
	log      *zap.Logger
	timeout  time.Duration

	// dummyHash is verified against when a login matches no user so that
	// unknown and known logins cost roughly the same.
	dummyHash string

	wg sync.WaitGroup
}

// NewAuthService wires an AuthService.
func NewAuthService(d Deps) (*AuthService, error) {
	if d.Users == nil || d.Hasher == nil || d.Tokens == nil {
		return nil, errors.New("auth service: users, hasher and tokens are required")
	}
	s := &AuthService{
		users:    d.Users,
		hasher:   d.Hasher,
		tokens:   d.Tokens,
		events:   d.Events,
		validate: d.Validate,
		log:      d.Log,
		timeout:  d.StoreTimeout,
	}
	if s.events == nil {
		s.events = queue.NopPublisher{}
	}
	if s.validate == nil {
		s.validate = NewValidator()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.timeout <= 0 {
		s.timeout = defaultStoreTimeout
	}
	h, err := s.hasher.Hash("credential-service:no-such-user")
	if err != nil {
		return nil, fmt.Errorf("auth service: dummy hash: %w", err)
	}
	s.dummyHash = h
	return s, nil
}

// Register creates a user when neither the email nor the username is taken
// and returns the user together with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return AuthResult{}, validationError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return AuthResult{}, s.internal("check existing user", err)
	}
	if exists {
		return AuthResult{}, ErrConflict
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, s.internal("hash password", err)
	}

	u := model.User{Username: in.Username, Email: in.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, &u); err != nil {
		// A unique violation here means a concurrent registration won the
		// race past the existence check; the store constraint rejected it.
		return AuthResult{}, s.internal("create user", err)
	}

	res, err := s.issue(u)
	if err != nil {
		return AuthResult{}, err
	}
	s.log.Info("user registered", zap.Uint64("user_id", u.ID))
	s.emit(queue.AuthEvent{Type: queue.EventUserRegistered, UserID: u.ID, Username: u.Username, Email: u.Email})
	return res, nil
}

// Login authenticates by username or email.  An unknown login and a wrong
// password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return AuthResult{}, validationError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.findByLogin(ctx, in.Login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(s.dummyHash, in.Password)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, s.internal("find user", err)
	}
	if !s.hasher.Verify(u.PasswordHash, in.Password) {
		return AuthResult{}, ErrInvalidCredentials
	}

	res, err := s.issue(u)
	if err != nil {
		return AuthResult{}, err
	}
	s.log.Debug("user logged in", zap.Uint64("user_id", u.ID))
	s.emit(queue.AuthEvent{Type: queue.EventUserLoggedIn, UserID: u.ID, Username: u.Username})
	return res, nil
}

// findByLogin skips the store for logins that cannot have been registered.
func (s *AuthService) findByLogin(ctx context.Context, login string) (model.User, error) {
	if strings.ContainsRune(login, 0) {
		return model.User{}, repository.ErrNotFound
	}
	return s.users.FindByLogin(ctx, login)
}

// Wait blocks until in-flight event publishes finish.
func (s *AuthService) Wait() { s.wg.Wait() }

func (s *AuthService) issue(u model.User) (AuthResult, error) {
	tok, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return AuthResult{}, s.internal("issue token", err)
	}
	return AuthResult{
		User:  PublicUser{ID: u.ID, Username: u.Username, Email: u.Email},
		Token: tok,
	}, nil
}

// emit publishes ev in the background; failures are logged only.
func (s *AuthService) emit(ev queue.AuthEvent) {
	ev.OccurredAt = time.Now().UTC()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), eventPublishTimeout)
		defer cancel()
		if err := s.events.Publish(ctx, ev); err != nil {
			s.log.Warn("publish auth event failed", zap.String("type", ev.Type), zap.Uint64("user_id", ev.UserID), zap.Error(err))
		}
	}()
}

func (s *AuthService) internal(op string, err error) error {
	s.log.Error("auth operation failed", zap.String("op", op), zap.Error(err))
	return wrapInternal(err, op)
}
