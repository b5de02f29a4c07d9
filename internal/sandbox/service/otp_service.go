package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"time"

	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/repository"
)

var mobilePattern = regexp.MustCompile(`^[0-9+]{6,15}$`)

type OTPService interface {
	Send(ctx context.Context, target string) error
	Verify(ctx context.Context, target, code string) (*models.UserAccount, error)
}

type otpService struct {
	store       repository.OTPStore
	userService UserService
	logService  LogService
	ttl         time.Duration
	demoCode    string
}

// NewOTPService issues codes with the given lifetime. A non-empty demoCode
// replaces every generated code.
func NewOTPService(store repository.OTPStore, userService UserService, logService LogService, ttl time.Duration, demoCode string) OTPService {
	return &otpService{store: store, userService: userService, logService: logService, ttl: ttl, demoCode: demoCode}
}

func (s *otpService) Send(ctx context.Context, target string) error {
	user, err := s.userService.GetUserByLogin(target)
	if err != nil {
		return err
	}

	code := s.demoCode
	if code == "" {
		if code, err = generateCode(); err != nil {
			return err
		}
	}
	if err := s.store.Save(ctx, target, code, s.ttl); err != nil {
		return fmt.Errorf("store OTP: %w", err)
	}

	// No delivery channel in the sandbox; the code goes to the server log.
	log.Printf("OTP for %s (%s): %s", target, channel(target), code)
	if err := s.logService.LogAction(user.ID, "SendOTP", "OTP issued", "", map[string]interface{}{"channel": channel(target)}); err != nil {
		log.Printf("error: %v", err)
	}
	return nil
}

func (s *otpService) Verify(ctx context.Context, target, code string) (*models.UserAccount, error) {
	ok, err := s.store.Consume(ctx, target, code)
	if err != nil {
		return nil, fmt.Errorf("check OTP: %w", err)
	}
	if !ok {
		return nil, ErrInvalidOTP
	}

	user, err := s.userService.GetUserByLogin(target)
	if err != nil {
		return nil, err
	}
	if err := s.userService.MarkVerified(user.ID, channel(target)); err != nil {
		log.Printf("Failed to mark %s verified: %v", target, err)
	}
	return user, nil
}

func channel(target string) string {
	if mobilePattern.MatchString(target) {
		return "mobile"
	}
	return "email"
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
