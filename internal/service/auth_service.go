package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/maisoncms/backend/internal/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAdminNotFound      = errors.New("admin account not found")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// Claims is the JWT payload issued for admin sessions.
type Claims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair bundles the two tokens returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService issues and validates admin session tokens.
type AuthService struct {
	db            *gorm.DB
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		db:            gdb,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Login checks the credentials and issues a fresh token pair. A disabled
// account is rejected even with a correct password.
func (s *AuthService) Login(email, password string) (*db.Admin, TokenPair, error) {
	var admin db.Admin
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, TokenPair{}, ErrAccountDisabled
	}

	now := time.Now()
	admin.LastLogin = &now
	if err := s.db.Model(&admin).Update("last_login", now).Error; err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issueTokens(&admin)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &admin, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The account is
// re-checked so a disabled admin cannot keep refreshing.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		return TokenPair{}, err
	}

	var admin db.Admin
	if err := s.db.First(&admin, "id = ?", claims.AdminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, err
	}
	if !admin.IsActive {
		return TokenPair{}, ErrAccountDisabled
	}

	return s.issueTokens(&admin)
}

// Verify validates an access token and returns its claims.
func (s *AuthService) Verify(accessToken string) (*Claims, error) {
	return s.parse(accessToken, s.accessSecret)
}

// ChangePassword rotates an admin's password after checking the current one.
func (s *AuthService) ChangePassword(adminID, currentPassword, newPassword string) error {
	if len(strings.TrimSpace(newPassword)) < 8 {
		return ErrPasswordTooShort
	}

	var admin db.Admin
	if err := s.db.First(&admin, "id = ?", adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.Model(&admin).Update("password_hash", string(hashed)).Error
}

func (s *AuthService) issueTokens(admin *db.Admin) (TokenPair, error) {
	access, err := s.sign(admin, s.accessSecret, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(admin, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *AuthService) sign(admin *db.Admin, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *AuthService) parse(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
