package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrChallengeFailed covers every way a challenge token can be unusable:
	// bad signature, expired, malformed, or already redeemed.
	ErrChallengeFailed = errors.New("challenge verification failed or expired")
	ErrInvalidCode     = errors.New("invalid challenge code")
)

type sessionClaims struct {
	jwt.RegisteredClaims
}

type challengeClaims struct {
	CodeDigest string          `json:"cd"`
	Payload    json.RawMessage `json:"payload"`
	jwt.RegisteredClaims
}

// Challenge is a signed token plus the numeric code that unlocks it. The code
// is sent out of band (mail); only the token goes back to the client.
type Challenge struct {
	Token     string
	Code      string
	ExpiresAt time.Time
}

// TokenService signs and verifies every token the API hands out: access and
// refresh tokens for user sessions, and the short-lived challenge tokens used
// for email activation and admin OTP login.
type TokenService struct {
	cfg   *config.Config
	now   func() time.Time
	guard ReplayGuard
}

func NewTokenService(cfg *config.Config, guard ReplayGuard) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now, guard: guard}
}

func (s *TokenService) IssueAccessToken(id uuid.UUID) (string, error) {
	return s.issueSession(id, s.cfg.AccessTokenSecret, s.cfg.AccessTokenExpiry)
}

// IssueRefreshToken carries a random jti so that two refresh tokens minted
// for the same account within one second still differ.
func (s *TokenService) IssueRefreshToken(id uuid.UUID) (string, error) {
	return s.issueSession(id, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiry)
}

func (s *TokenService) ParseAccessToken(token string) (uuid.UUID, error) {
	return s.parseSession(token, s.cfg.AccessTokenSecret)
}

func (s *TokenService) ParseRefreshToken(token string) (uuid.UUID, error) {
	return s.parseSession(token, s.cfg.RefreshTokenSecret)
}

func (s *TokenService) issueSession(id uuid.UUID, secret string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := sessionClaims{jwt.RegisteredClaims{
		Subject:   id.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parseSession(token, secret string) (uuid.UUID, error) {
	var claims sessionClaims
	if _, err := s.parse(token, secret, &claims); err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (s *TokenService) parse(token, secret string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
}

// IssueChallenge generates a digits-long numeric code and a token that binds
// payload to it. The token stores an HMAC of the code, never the code itself.
func (s *TokenService) IssueChallenge(payload interface{}, secret string, ttl time.Duration, digits int) (*Challenge, error) {
	code, err := generateCode(digits)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode challenge payload: %w", err)
	}

	now := s.now()
	jti := uuid.NewString()
	claims := challengeClaims{
		CodeDigest: codeDigest(secret, jti, code),
		Payload:    raw,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("sign challenge: %w", err)
	}
	return &Challenge{Token: signed, Code: code, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// VerifyChallenge checks token and code and decodes the payload into out.
// With a replay guard configured a challenge can be redeemed only once.
func (s *TokenService) VerifyChallenge(ctx context.Context, token, code, secret string, out interface{}) error {
	var claims challengeClaims
	if _, err := s.parse(token, secret, &claims); err != nil {
		return ErrChallengeFailed
	}
	if claims.ID == "" || claims.CodeDigest == "" {
		return ErrChallengeFailed
	}

	want, err := hex.DecodeString(claims.CodeDigest)
	if err != nil {
		return ErrChallengeFailed
	}
	got, _ := hex.DecodeString(codeDigest(secret, claims.ID, code))
	if !hmac.Equal(want, got) {
		return ErrInvalidCode
	}

	if s.guard != nil {
		ttl := claims.ExpiresAt.Time.Sub(s.now())
		fresh, err := s.guard.Consume(ctx, claims.ID, ttl)
		if err != nil {
			return fmt.Errorf("replay guard: %w", err)
		}
		if !fresh {
			return ErrChallengeFailed
		}
	}

	if out != nil {
		if err := json.Unmarshal(claims.Payload, out); err != nil {
			return ErrChallengeFailed
		}
	}
	return nil
}

func codeDigest(secret, jti, code string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(jti))
	mac.Write([]byte{':'})
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// generateCode returns a uniformly random number with exactly digits digits
// and no leading zero, e.g. 100000-999999 for six digits.
func generateCode(digits int) (string, error) {
	if digits < 2 || digits > 9 {
		return "", fmt.Errorf("unsupported code length %d", digits)
	}
	low := int64(1)
	for i := 1; i < digits; i++ {
		low *= 10
	}
	n, err := rand.Int(rand.Reader, big.NewInt(9*low))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", low+n.Int64()), nil
}
