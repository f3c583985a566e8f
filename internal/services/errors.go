package services

import (
	"errors"
	"fmt"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrForbidden     = errors.New("photo belongs to another user")
	ErrAlreadyLiked  = errors.New("user already liked this photo")
	ErrPersistence   = errors.New("persistence failure")
	ErrDirectory     = errors.New("user directory failure")

	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// persistenceError keeps both ErrPersistence and the store's cause matchable.
func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

func directoryError(userID string, err error) error {
	return fmt.Errorf("resolve user %s: %w: %w", userID, ErrDirectory, err)
}
