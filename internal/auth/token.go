package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Sentinel errors returned by Verify. Expired-but-authentic and tampered
// tokens are distinguishable so callers can give precise feedback.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenKind selects which signing secret verifies a token.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// TokenService issues and verifies the three token kinds: opaque email
// verification tokens, and signed access/refresh JWTs. Access and refresh
// secrets must differ so a leaked refresh secret cannot forge access tokens.
type TokenService struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessTTL       time.Duration
	refreshTTL      time.Duration
	verificationTTL time.Duration
}

// NewTokenService builds a service with the given secrets and lifetimes.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL, verificationTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	if verificationTTL <= 0 {
		verificationTTL = 24 * time.Hour
	}
	return &TokenService{
		accessSecret:    []byte(accessSecret),
		refreshSecret:   []byte(refreshSecret),
		accessTTL:       accessTTL,
		refreshTTL:      refreshTTL,
		verificationTTL: verificationTTL,
	}
}

// IssueVerificationToken generates an opaque random token and its expiry.
// Validity is checked by exact stored-value match plus expiry, not by decoding.
func (ts *TokenService) IssueVerificationToken() (string, time.Time, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, err
	}
	return hex.EncodeToString(buf), time.Now().Add(ts.verificationTTL), nil
}

// IssueAccessToken mints a short-lived signed token for the account.
func (ts *TokenService) IssueAccessToken(accountID string) (string, error) {
	return ts.sign(accountID, ts.accessSecret, ts.accessTTL)
}

// IssueRefreshToken mints a longer-lived signed token for the account.
func (ts *TokenService) IssueRefreshToken(accountID string) (string, error) {
	return ts.sign(accountID, ts.refreshSecret, ts.refreshTTL)
}

func (ts *TokenService) sign(accountID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		// Unique per token so rotation always yields a pair distinct from
		// the one presented, even within the same second.
		ID: uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks signature integrity then expiry and returns the account ID
// the token was issued to.
func (ts *TokenService) Verify(tokenStr string, kind TokenKind) (string, error) {
	secret := ts.accessSecret
	if kind == KindRefresh {
		secret = ts.refreshSecret
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
