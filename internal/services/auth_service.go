package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AuthService issues and validates HS256 tokens carrying the caller identity.
type AuthService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	UserID   string
	Username string
}

func (s *AuthService) GenerateAccessToken(userID, username string) (string, error) {
	return s.sign(userID, username, tokenTypeAccess, s.accessTTL)
}

func (s *AuthService) GenerateRefreshToken(userID, username string) (string, error) {
	return s.sign(userID, username, tokenTypeRefresh, s.refreshTTL)
}

func (s *AuthService) ValidateAccessToken(tokenString string) (*Identity, error) {
	return s.validate(tokenString, tokenTypeAccess)
}

func (s *AuthService) ValidateRefreshToken(tokenString string) (*Identity, error) {
	return s.validate(tokenString, tokenTypeRefresh)
}

func (s *AuthService) sign(userID, username, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"type":     tokenType,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) validate(tokenString, tokenType string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if t, _ := claims["type"].(string); t != tokenType {
		return nil, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}
	username, _ := claims["username"].(string)

	return &Identity{UserID: userID, Username: username}, nil
}
