package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const AdminCookieName = "admin_token"

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrMalformedCredential = errors.New("admin credentials must be user:bcrypt-hash pairs")
)

// dummyHash keeps Authorize's timing similar for unknown usernames.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("stepboard-unknown-admin"), bcrypt.DefaultCost)
	return hash
})

type AuthService struct {
	credentials  map[string]string
	jwtSecret    string
	isProduction bool
	jwtExpiry    time.Duration
	now          Clock
}

func NewAuthService(credentials map[string]string, jwtSecret string, isProduction bool, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		credentials:  credentials,
		jwtSecret:    jwtSecret,
		isProduction: isProduction,
		jwtExpiry:    jwtExpiry,
		now:          time.Now,
	}
}

// ParseCredentials reads "user:hash,user2:hash2". Blank input yields an empty
// set, which means nobody can log in as admin.
func ParseCredentials(raw string) (map[string]string, error) {
	credentials := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		username, hash, ok := strings.Cut(pair, ":")
		username = strings.TrimSpace(username)
		hash = strings.TrimSpace(hash)
		if !ok || username == "" || hash == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCredential, username)
		}
		_, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			return nil, fmt.Errorf("%w: hash for %q: %v", ErrMalformedCredential, username, err)
		}

		credentials[username] = hash
	}
	return credentials, nil
}

// Authorize reports whether the pair matches a configured admin
func (s *AuthService) Authorize(username, password string) bool {
	hash, ok := s.credentials[strings.TrimSpace(username)]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) HasAdmins() bool {
	return len(s.credentials) > 0
}

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Login checks the credentials and returns a signed admin token with its expiry
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	if !s.Authorize(username, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expiry := s.now().Add(s.jwtExpiry)
	token, err := s.GenerateJWT(strings.TrimSpace(username), expiry)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign admin token: %w", err)
	}
	return token, expiry, nil
}

func (s *AuthService) GenerateJWT(username string, expiry time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":      username,
		"is_admin": true,
		"exp":      expiry.Unix(),
		"iat":      s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// IsAdminToken is true for a valid token issued to a user that is still configured
func (s *AuthService) IsAdminToken(tokenString string) bool {
	if tokenString == "" {
		return false
	}
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return false
	}

	isAdmin, _ := claims["is_admin"].(bool)
	username, _ := claims["sub"].(string)
	_, known := s.credentials[username]
	return isAdmin && known
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
