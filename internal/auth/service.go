package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goupromo/goupromo-backend/internal/users"
	pkgAuth "github.com/goupromo/goupromo-backend/pkg/auth"
	"github.com/goupromo/goupromo-backend/pkg/config"
	"github.com/goupromo/goupromo-backend/pkg/db"
	"github.com/goupromo/goupromo-backend/pkg/db/models"
	"github.com/goupromo/goupromo-backend/pkg/enums"
	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
	"github.com/goupromo/goupromo-backend/pkg/metrics"
	"github.com/goupromo/goupromo-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	unauthenticatedMessage    = "could not validate credentials"
)

// Service defines the behavior needed by the auth controllers and middleware.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*users.UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ResolveCurrentUser(ctx context.Context, token string) (*users.UserDTO, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type service struct {
	users       userRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	metrics     *metrics.AuthMetrics
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	// Metrics is optional.
	Metrics *metrics.AuthMetrics
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:       params.UserRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		metrics:     params.Metrics,
		now:         now,
	}, nil
}

// Signup registers a new account. The username pre-check only gives a
// friendlier error; the unique index on users.username is what rejects
// concurrent duplicates.
func (s *service) Signup(ctx context.Context, req SignupRequest) (*users.UserDTO, error) {
	user, err := s.signup(ctx, req)
	s.metrics.RecordEvent(metrics.AuthEventSignup, outcomeOf(err))
	return user, err
}

func (s *service) signup(ctx context.Context, req SignupRequest) (*users.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	userType, err := enums.ParseUserType(strings.TrimSpace(req.UserType))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "user_type must be customer or merchant")
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, duplicateUsername(username)
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "check username")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	created, err := s.users.Create(ctx, users.CreateUserDTO{
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		City:         strings.TrimSpace(req.City),
		UserType:     userType,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, duplicateUsername(username)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "create user")
	}
	return users.FromModel(created), nil
}

// Login verifies the credentials and issues a bearer token bound to the
// username. Unknown users and wrong passwords share one message.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, err := s.login(ctx, req)
	s.metrics.RecordEvent(metrics.AuthEventLogin, outcomeOf(err))
	return resp, err
}

func (s *service) login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "lookup user")
	}

	if !security.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		Subject: user.Username,
		JTI:     uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	s.metrics.IncTokensIssued()

	return &LoginResponse{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		User:        users.FromModel(user),
	}, nil
}

// ResolveCurrentUser maps a bearer token back to the stored user.
func (s *service) ResolveCurrentUser(ctx context.Context, token string) (*users.UserDTO, error) {
	user, err := s.resolve(ctx, token)
	s.metrics.RecordEvent(metrics.AuthEventResolve, outcomeOf(err))
	return user, err
}

func (s *service) resolve(ctx context.Context, token string) (*users.UserDTO, error) {
	claims, err := pkgAuth.ParseAccessToken(s.jwtCfg, s.now().UTC(), token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, unauthenticatedMessage)
	}

	user, err := s.users.FindByUsername(ctx, claims.Username())
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, unauthenticatedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "lookup token subject")
	}
	return users.FromModel(user), nil
}

func duplicateUsername(username string) error {
	return pkgerrors.New(pkgerrors.CodeDuplicateUsername, "username already registered").
		WithDetails(map[string]any{"username": username})
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.AuthOutcomeSuccess
	}
	if typed := pkgerrors.As(err); typed != nil && pkgerrors.MetadataFor(typed.Code()).Expected {
		return metrics.AuthOutcomeRejected
	}
	return metrics.AuthOutcomeError
}
