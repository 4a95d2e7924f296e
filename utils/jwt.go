package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"vehiclecare/config"
	"vehiclecare/models"

	"github.com/golang-jwt/jwt"
)

// devSecret is only used outside production when JWT_SECRET is unset.
const devSecret = "vehiclecare-dev-secret"

func secretKey() []byte {
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	return []byte(devSecret)
}

// TokenClaims is what the API needs from a principal token.
type TokenClaims struct {
	Subject string
	Role    models.Role
	Email   string
}

// GenerateToken creates a signed JWT for a principal. Tokens are issued by the
// identity service; this is used by tooling and tests.
func GenerateToken(subject string, role models.Role, email string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"role":  string(role),
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractClaims validates tokenString and returns its subject and role.
func ExtractClaims(tokenString string) (*TokenClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)
	if !models.Role(role).IsValid() {
		return nil, errors.New("token does not contain a valid 'role' claim")
	}
	email, _ := claims["email"].(string)

	return &TokenClaims{Subject: sub, Role: models.Role(role), Email: email}, nil
}
