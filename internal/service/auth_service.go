package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/csi-informatics/results-api/internal/models"
	appErrors "github.com/csi-informatics/results-api/pkg/errors"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

type userDirectory interface {
	List(ctx context.Context) ([]models.Lecturer, error)
}

// AuthConfig holds the token signing parameters.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService authenticates users against the Lecturers sheet and issues
// session tokens.
type AuthService struct {
	users     userDirectory
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(users userDirectory, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, validator: validate, logger: logger, config: config}
}

// Login checks the credentials against the directory and returns a signed
// token. Usernames match case-insensitively after trimming; passwords are
// trimmed but compared case-sensitively. Unknown user and wrong password
// produce the same error.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	lecturers, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load user directory")
	}

	username := sheets.Fold(req.Username)
	password := strings.TrimSpace(req.Password)
	for _, lecturer := range lecturers {
		if sheets.Fold(lecturer.Username) != username {
			continue
		}
		if !passwordMatches(strings.TrimSpace(lecturer.Password), password) {
			continue
		}

		canonical := strings.TrimSpace(lecturer.Username)
		token, issuedAt, expiresAt, err := s.issueToken(canonical, lecturer.Role)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue token")
		}

		s.logger.Info("user logged in",
			zap.String("username", canonical),
			zap.String("role", string(lecturer.Role)),
		)
		return &models.LoginResponse{
			AccessToken: token,
			ExpiresIn:   int64(expiresAt.Sub(issuedAt).Seconds()),
			IssuedAt:    issuedAt,
			User:        models.UserInfo{Username: canonical, Role: lecturer.Role},
		}, nil
	}

	s.logger.Warn("login rejected", zap.String("username", username))
	return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired token")
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issueToken(username string, role models.UserRole) (string, time.Time, time.Time, error) {
	issuedAt := time.Now()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := models.JWTClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	return token, issuedAt, expiresAt, err
}

// passwordMatches compares a stored credential with the supplied password.
// Sheet cells holding a bcrypt hash are compared as hashes; anything else
// is treated as a plaintext credential.
func passwordMatches(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return stored == supplied
}
