package utils

import (
	"errors"
	"time"

	"homeserve/config"
	"homeserve/models"

	"github.com/golang-jwt/jwt"
)

const fallbackSecret = "homeserve-dev-secret"

func secretKey() []byte {
	if s := config.AppConfig.JWTSecret; s != "" {
		return []byte(s)
	}
	return []byte(fallbackSecret)
}

// GenerateToken creates a signed JWT for the principal that expires after duration.
func GenerateToken(p models.Principal, duration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(duration)
	claims := jwt.MapClaims{
		"sub":   p.ID,
		"role":  p.Role,
		"phone": p.Phone,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secretKey())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
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

// ParsePrincipal validates the token and extracts the caller it was issued to.
func ParsePrincipal(tokenString string) (models.Principal, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Principal{}, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleClient
	}
	phone, _ := claims["phone"].(string)

	return models.Principal{ID: sub, Role: role, Phone: phone}, nil
}
