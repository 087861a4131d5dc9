package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "profileauth/internal/errors"
)

// TokenLifetime is the duration for which issued tokens are valid.
const TokenLifetime = 3 * time.Hour

// Claims represents JWT claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignedToken is an encoded token together with its expiry.
type SignedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiration"`
}

// Option customizes a JWTService.
type Option func(*JWTService)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

// JWTService handles JWT token generation and validation. It is safe for
// concurrent use; its fields are never modified after construction.
type JWTService struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewJWTService creates a new JWT service with the given secret, issuer and audience.
func NewJWTService(secret, issuer, audience string, opts ...Option) *JWTService {
	s := &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue mints a signed token for username that expires TokenLifetime from now.
func (s *JWTService) Issue(username string) (*SignedToken, error) {
	now := s.now()
	expiresAt := now.Add(TokenLifetime)

	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &SignedToken{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Validate verifies signature, expiry, issuer and audience, in that order, and
// returns the claims. A token with a bad signature never reports the other checks.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
		jwt.WithTimeFunc(s.now),
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, keyFunc, opts...)
	if err != nil {
		return nil, classify(err)
	}
	if claims.Username == "" {
		return nil, apperrors.ErrInvalidSignature
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return apperrors.ErrWrongIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return apperrors.ErrWrongAudience
	default:
		return apperrors.ErrInvalidSignature
	}
}
