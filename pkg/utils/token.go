package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func tokenDuration(envKey string, fallbackHours int) time.Duration {
	hours, err := strconv.Atoi(os.Getenv(envKey))
	if err != nil || hours <= 0 {
		hours = fallbackHours
	}
	return time.Duration(hours) * time.Hour
}

// SignToken issues the access token carried on every authenticated request.
func SignToken(memberID, email, role string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"uid":   memberID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(tokenDuration("JWT_EXPIRE_HOURS", 24)).Unix(),
		"iat":   time.Now().Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// SignRefreshToken issues the longer-lived token accepted only by /auth/refresh.
func SignRefreshToken(memberID string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"uid":     memberID,
		"refresh": true,
		"exp":     time.Now().Add(tokenDuration("REFRESH_EXPIRE_HOURS", 168)).Unix(),
		"iat":     time.Now().Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyRefreshToken validates a refresh token and returns the member id it
// was issued for.
func VerifyRefreshToken(tokenString string) (string, error) {
	secret := os.Getenv("JWT_SECRET")

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid refresh token")
	}

	if isRefresh, _ := claims["refresh"].(bool); !isRefresh {
		return "", errors.New("not a refresh token")
	}

	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", fmt.Errorf("refresh token has no subject")
	}
	return uid, nil
}
