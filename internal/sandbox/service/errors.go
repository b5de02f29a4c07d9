package service

import (
	"errors"

	"github.com/mehrbod2002/fxmobile/internal/models"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidOTP          = errors.New("invalid or expired OTP")
	ErrInvalidPassword     = errors.New("password must be between 8-15 characters")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrMinimumDeposit      = errors.New("minimum deposit is $10")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRequestNotFound     = errors.New("request not found")
	ErrAlreadyReviewed     = errors.New("already reviewed")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrAnotherBotRunning   = errors.New("another bot is already running")
	ErrBotNotRunning       = errors.New("bot is not running")
	ErrSwitchPending       = errors.New("a switch request is already pending")
	ErrInvalidDob          = errors.New("invalid date of birth")
	ErrMissingDocuments    = errors.New("both proof of identity and proof of address are required")
)

// EventPublisher delivers a push event to every connection of one user.
type EventPublisher interface {
	Publish(userID string, eventType models.EventType, data any) error
}
