package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type AuthConfig struct {
	JWTSecret      []byte
	GoogleClientID string
	// AdminEmails lists who may sign in. Comparison ignores case.
	AdminEmails []string
}

type AuthService struct {
	adminRepo           ports.AdminRepository
	authRepo            ports.AuthRepository
	googleTokenVerifier ports.TokenVerifier
	jwtSecret           []byte
	googleClientID      string
	adminEmails         map[string]struct{}
	now                 func() time.Time
}

func NewAuthService(adminRepo ports.AdminRepository, authRepo ports.AuthRepository, verifier ports.TokenVerifier, cfg AuthConfig) *AuthService {
	emails := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails[e] = struct{}{}
		}
	}
	return &AuthService{
		adminRepo:           adminRepo,
		authRepo:            authRepo,
		googleTokenVerifier: verifier,
		jwtSecret:           cfg.JWTSecret,
		googleClientID:      cfg.GoogleClientID,
		adminEmails:         emails,
		now:                 time.Now,
	}
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, googleToken string) (string, string, error) {
	payload, err := s.googleTokenVerifier.Verify(ctx, googleToken, s.googleClientID)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid google token: %v", domain.ErrUnauthorized, err)
	}

	if _, ok := s.adminEmails[strings.ToLower(payload.Email)]; !ok {
		return "", "", fmt.Errorf("%w: %s is not an administrator", domain.ErrUnauthorized, payload.Email)
	}

	return s.login(ctx, payload.Email, payload.Name)
}

func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return "", "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return "", "", fmt.Errorf("%w: refresh token not found", domain.ErrUnauthorized)
	}
	if rtEntity.Revoked {
		return "", "", fmt.Errorf("%w: refresh token revoked", domain.ErrUnauthorized)
	}
	if rtEntity.ExpiresAt.Before(s.now()) {
		return "", "", fmt.Errorf("%w: refresh token expired", domain.ErrUnauthorized)
	}

	admin, err := s.adminRepo.GetByID(ctx, rtEntity.AdminID)
	if err != nil {
		return "", "", fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		return "", "", fmt.Errorf("%w: admin not found", domain.ErrUnauthorized)
	}
	if _, ok := s.adminEmails[strings.ToLower(admin.Email)]; !ok {
		if err := s.authRepo.RevokeRefreshToken(ctx, rtEntity.ID); err != nil {
			return "", "", fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		return "", "", fmt.Errorf("%w: email not allowed", domain.ErrUnauthorized)
	}

	accessToken, err := s.generateAccessToken(admin)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	// The refresh token is not rotated; it lives until it expires or is revoked.
	return accessToken, refreshToken, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return nil
	}

	return s.authRepo.RevokeRefreshToken(ctx, rtEntity.ID)
}

// ParseAccessToken validates an access token and returns the admin id it was
// issued for.
func (s *AuthService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("%w: invalid access token", domain.ErrUnauthorized)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: missing subject", domain.ErrUnauthorized)
	}
	adminID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", domain.ErrUnauthorized)
	}
	return adminID, nil
}

func (s *AuthService) login(ctx context.Context, email, name string) (string, string, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to get admin: %w", err)
	}

	if admin == nil {
		admin = &domain.Admin{
			Email: email,
			Name:  name,
		}
		if err := s.adminRepo.Create(ctx, admin); err != nil {
			return "", "", fmt.Errorf("failed to create admin: %w", err)
		}
	}

	accessToken, err := s.generateAccessToken(admin)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rtEntity := &domain.RefreshToken{
		AdminID:   admin.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: s.now().Add(RefreshTokenTTL),
	}
	if err := s.authRepo.StoreRefreshToken(ctx, rtEntity); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *AuthService) generateAccessToken(admin *domain.Admin) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   admin.ID.String(),
		"email": admin.Email,
		"exp":   now.Add(AccessTokenTTL).Unix(),
		"iat":   now.Unix(),
		"jti":   uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
