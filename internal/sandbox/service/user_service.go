package service

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Signup(email, password, country string) (*models.UserAccount, error)
	Authenticate(identifier, password string) (*models.UserAccount, error)
	GetUser(id string) (*models.UserAccount, error)
	GetUserByLogin(identifier string) (*models.UserAccount, error)
	GetAllUsers() ([]*models.UserAccount, error)
	UpdateProfile(id string, update ProfileUpdate) (*models.UserAccount, error)
	SubmitDocuments(id string, poi, poa Document) (*models.UserAccount, error)
	ResetPassword(id, newPassword string) error
	MarkVerified(id, channel string) error
}

// ProfileUpdate carries the profile form; empty fields are left alone.
type ProfileUpdate struct {
	Name        string
	Mobile      string
	CountryCode string
	Dob         string
	Gender      string
	Address     string
}

// Document describes one uploaded KYC file.
type Document struct {
	Name string
	Size int64
}

type userService struct {
	userRepo   repository.UserRepository
	logService LogService
	events     EventPublisher
	mu         sync.Mutex
}

func NewUserService(userRepo repository.UserRepository, logService LogService, events EventPublisher) UserService {
	return &userService{userRepo: userRepo, logService: logService, events: events}
}

func (s *userService) Signup(email, password, country string) (*models.UserAccount, error) {
	email = strings.TrimSpace(email)
	existing, err := s.userRepo.GetUserByLogin(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &models.UserAccount{
		UserData: models.UserData{
			ID:       uuid.New().String(),
			UserName: email,
			Email:    email,
			Country:  country,
		},
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.SaveUser(user); err != nil {
		if err == repository.ErrDuplicate {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.audit(user.ID, "Signup", "User registered", map[string]interface{}{"email": email, "country": country})
	return user, nil
}

func (s *userService) Authenticate(identifier, password string) (*models.UserAccount, error) {
	user, err := s.userRepo.GetUserByLogin(strings.TrimSpace(identifier))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetUser(id string) (*models.UserAccount, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetUserByLogin(identifier string) (*models.UserAccount, error) {
	user, err := s.userRepo.GetUserByLogin(strings.TrimSpace(identifier))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetAllUsers() ([]*models.UserAccount, error) {
	return s.userRepo.GetAllUsers()
}

// UpdateProfile applies the update and grants KYC level 1 once name, date
// of birth and country are all on file.
func (s *userService) UpdateProfile(id string, update ProfileUpdate) (*models.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if update.Dob != "" {
		dob, err := parseDob(update.Dob)
		if err != nil {
			return nil, err
		}
		user.Dob = dob
	}
	assign(&user.Name, update.Name)
	assign(&user.Mobile, update.Mobile)
	assign(&user.Country, update.CountryCode)
	assign(&user.Gender, update.Gender)
	assign(&user.Address, update.Address)

	if user.Name != "" && user.Dob != "" && user.Country != "" {
		user.ApplyLevel(models.KYCLevelBasic)
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}

	s.audit(user.ID, "UpdateProfile", "Profile updated", map[string]interface{}{"level": user.Level})
	s.publishProfile(user)
	return user, nil
}

func (s *userService) SubmitDocuments(id string, poi, poa Document) (*models.UserAccount, error) {
	if poi.Size == 0 || poa.Size == 0 {
		return nil, ErrMissingDocuments
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.Level < models.KYCLevelBasic {
		return nil, fmt.Errorf("complete KYC level 1 first: %w", ErrInvalidStatus)
	}

	user.ApplyLevel(models.KYCLevelApproved)
	user.UpdatedAt = time.Now()
	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}

	s.audit(user.ID, "SubmitDocuments", "KYC documents uploaded", map[string]interface{}{
		"poi": poi.Name,
		"poa": poa.Name,
	})
	s.publishProfile(user)
	return user, nil
}

func (s *userService) ResetPassword(id, newPassword string) error {
	if n := len(newPassword); n < 8 || n > 15 {
		return ErrInvalidPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	if err := s.userRepo.UpdateUser(user); err != nil {
		return err
	}

	s.audit(user.ID, "ResetPassword", "Password reset", nil)
	return nil
}

// MarkVerified records that the user proved ownership of an email or mobile.
func (s *userService) MarkVerified(id, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	switch channel {
	case "mobile":
		user.IsMobileVerified = true
	default:
		user.IsEmailVerified = true
	}
	return s.userRepo.UpdateUser(user)
}

func (s *userService) audit(userID, action, description string, metadata map[string]interface{}) {
	if err := s.logService.LogAction(userID, action, description, "", metadata); err != nil {
		log.Printf("error: %v", err)
	}
}

func (s *userService) publishProfile(user *models.UserAccount) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(user.ID, models.EventProfile, user.UserData); err != nil {
		log.Printf("Failed to publish profile event: %v", err)
	}
}

func assign(dst *string, val string) {
	if v := strings.TrimSpace(val); v != "" {
		*dst = v
	}
}

// parseDob accepts a date or an RFC 3339 timestamp and stores it as a UTC
// midnight timestamp.
func parseDob(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDob, raw)
	}
	return t.UTC().Format(time.RFC3339), nil
}
