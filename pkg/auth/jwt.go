package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeAccess is the only token type accepted by this service.
const TokenTypeAccess = "access"

var (
	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidSubject is returned when the subject claim is not a user UUID.
	ErrInvalidSubject = errors.New("invalid token subject")
)

// Claims extends jwt.RegisteredClaims with the token type.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

// Manager verifies HS256 access tokens issued by the account service.
type Manager struct {
	signingKey []byte
	issuer     string
	accessTTL  time.Duration
	now        func() time.Time
}

// NewManager creates a Manager for the given shared secret and issuer.
func NewManager(signingKey, issuer string, accessTTL time.Duration) *Manager {
	return &Manager{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		now:        time.Now,
	}
}

// GenerateAccessToken signs an access token for userID.
// Issuance belongs to the account service; this exists for tooling and tests.
func (m *Manager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			ID:        uuid.NewString(),
		},
		TokenType: TokenTypeAccess,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
}

// Authenticate verifies tokenStr and returns the user id in its subject.
func (m *Manager) Authenticate(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.signingKey, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != TokenTypeAccess {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, ErrInvalidSubject
	}
	return userID, nil
}
