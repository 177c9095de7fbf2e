package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	"github.com/IgnacyBerent/biomed-kb-api/internal/repository"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
)

type credentialStore interface {
	GetCredential(ctx context.Context) (string, error)
	SetCredential(ctx context.Context, hash string) error
}

// AuthConfig defines configuration for the access gates.
type AuthConfig struct {
	SessionSecret string
	SessionExpiry time.Duration
	Issuer        string
}

// AuthService implements both gates over the single shared credential:
// session login with a signed token, and the Auth-Key check for the read
// API. There are no per-user accounts.
type AuthService struct {
	store     credentialStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(store credentialStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{store: store, validator: validate, logger: logger, config: config}
}

// SetupCredential hashes and stores the shared secret. Exactly one
// credential may ever exist; the store enforces that atomically, so a second
// call fails with CREDENTIAL_EXISTS and leaves the first hash untouched.
func (s *AuthService) SetupCredential(ctx context.Context, req models.SetupRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "password is required and must have at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.store.SetCredential(ctx, string(hash)); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to store credential")
	}

	s.logger.Info("shared credential configured")
	return nil
}

// Login compares the submitted password against the stored hash and, on
// match, issues a session token carrying the submitter's display name.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "first name, last name and password are required")
	}

	hash, err := s.loadCredential(ctx)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		s.logger.Warn("failed login attempt", zap.String("ip", req.IP))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	fullName := strings.TrimSpace(req.FirstName) + " " + strings.TrimSpace(req.LastName)
	token, issuedAt, err := s.issueSessionToken(fullName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue session token")
	}

	return &models.LoginResponse{
		SessionToken: token,
		ExpiresIn:    int64(s.config.SessionExpiry.Seconds()),
		IssuedAt:     issuedAt,
		FullName:     fullName,
	}, nil
}

// ValidateSessionToken parses a session token and returns its claims.
func (s *AuthService) ValidateSessionToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SessionSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}

	return claims, nil
}

// VerifyAPIKey checks the read-API key against the same stored credential
// hash. Session state plays no part here.
func (s *AuthService) VerifyAPIKey(ctx context.Context, key string) error {
	if key == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "missing Auth-Key header")
	}

	hash, err := s.loadCredential(ctx)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid Auth-Key header")
	}
	return nil
}

func (s *AuthService) loadCredential(ctx context.Context) (string, error) {
	hash, err := s.store.GetCredential(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "no credential configured")
		}
		return "", appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load credential")
	}
	return hash, nil
}

func (s *AuthService) issueSessionToken(fullName string) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.SessionExpiry)
	claims := &models.SessionClaims{
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   fullName,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
