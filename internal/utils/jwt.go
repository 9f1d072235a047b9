package utils

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of every gateway token.
const Issuer = "bizeyes-admin"

var (
	jwtMu     sync.RWMutex
	jwtSecret []byte
)

// Claims identifies the console operator behind a bearer token.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	// Upstream is the core API token this gateway token was exchanged for.
	Upstream string `json:"upstream,omitempty"`
	jwt.RegisteredClaims
}

func SetJWTSecret(secret string) {
	jwtMu.Lock()
	jwtSecret = []byte(secret)
	jwtMu.Unlock()
}

func secret() []byte {
	jwtMu.RLock()
	defer jwtMu.RUnlock()
	return jwtSecret
}

func GenerateToken(userID int64, username, role string, expireHours int) (string, error) {
	return sign(Claims{UserID: userID, Username: username, Role: role}, expireHours)
}

// GenerateExchangeToken signs a gateway token for an operator the core API
// authenticated, carrying the core API token for forwarding.
func GenerateExchangeToken(userID int64, username, role, upstreamToken string, expireHours int) (string, error) {
	return sign(Claims{UserID: userID, Username: username, Role: role, Upstream: upstreamToken}, expireHours)
}

func sign(claims Claims, expireHours int) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(claims.UserID, 10),
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
