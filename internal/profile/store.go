// Package profile holds the signed-in user's profile and permission snapshot.
package profile

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/shopspring/decimal"
)

const subscriberBuffer = 16

// Reader is the read side of the profile store.
type Reader interface {
	Snapshot() models.UserProfile
}

// Store is owned by the app and passed to whatever needs the profile.
// Every mutation publishes the resulting snapshot to subscribers; concurrent
// writers are serialized and the last one wins.
type Store struct {
	mu      sync.RWMutex
	profile models.UserProfile

	subsMu sync.Mutex
	subs   map[string]chan models.UserProfile
}

func NewStore() *Store {
	return &Store{subs: make(map[string]chan models.UserProfile)}
}

func (s *Store) Snapshot() models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetUser replaces every field with the login payload. Level and balance are
// kept apart: the level comes from the payload, the balance is reset until
// the wallet is fetched.
func (s *Store) SetUser(data models.UserData) {
	if strings.TrimSpace(data.Name) == "" {
		data.Name = models.DefaultUserName
	}
	data.Dob = NormalizeDob(data.Dob)

	s.mu.Lock()
	s.profile = models.UserProfile{UserData: data, Balance: decimal.Zero}
	snap := s.profile
	s.mu.Unlock()

	s.publish(snap)
}

// UpdateProfile applies a profile-update response. Only non-empty identity
// fields overwrite; flags and level are left alone.
func (s *Store) UpdateProfile(data models.UserData) {
	s.mu.Lock()
	p := &s.profile
	setIfPresent(&p.Name, data.Name)
	setIfPresent(&p.Mobile, data.Mobile)
	setIfPresent(&p.Gender, data.Gender)
	setIfPresent(&p.Address, data.Address)
	setIfPresent(&p.ProfileImage, data.ProfileImage)
	setIfPresent(&p.Email, data.Email)
	setIfPresent(&p.Country, data.Country)
	if data.Dob != "" {
		p.Dob = NormalizeDob(data.Dob)
	}
	snap := s.profile
	s.mu.Unlock()

	s.publish(snap)
}

// RaiseLevel applies the level from a KYC submission response. The level
// never goes down.
func (s *Store) RaiseLevel(level int) bool {
	s.mu.Lock()
	if level <= s.profile.Level {
		s.mu.Unlock()
		return false
	}
	s.profile.Level = level
	if level >= models.KYCLevelApproved {
		s.profile.IsKycVerified = true
	}
	snap := s.profile
	s.mu.Unlock()

	s.publish(snap)
	return true
}

// ApplyServerFlags copies verification and permission flags from a fresh
// server record without touching identity fields.
func (s *Store) ApplyServerFlags(data models.UserData) {
	s.mu.Lock()
	p := &s.profile
	p.IsEmailVerified = data.IsEmailVerified
	p.IsMobileVerified = data.IsMobileVerified
	p.IsKycVerified = data.IsKycVerified
	p.IsBankVerified = data.IsBankVerified
	p.IsWithdrawalAllowed = data.IsWithdrawalAllowed
	p.IsDepositAllowed = data.IsDepositAllowed
	p.IsPromotionalAllowed = data.IsPromotionalAllowed
	p.IsTransferAllowed = data.IsTransferAllowed
	p.IsMt5DepositAllowed = data.IsMt5DepositAllowed
	p.IsMt5WithdrawalAllowed = data.IsMt5WithdrawalAllowed
	if data.Level > p.Level {
		p.Level = data.Level
	}
	snap := s.profile
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Store) SetBalance(balance decimal.Decimal) {
	s.mu.Lock()
	s.profile.Balance = balance
	snap := s.profile
	s.mu.Unlock()

	s.publish(snap)
}

// Reset clears the profile back to its defaults.
func (s *Store) Reset() {
	s.mu.Lock()
	s.profile = models.UserProfile{Balance: decimal.Zero}
	snap := s.profile
	s.mu.Unlock()

	s.publish(snap)
}

// Subscribe returns a channel of snapshots and a function that cancels the
// subscription and closes the channel.
func (s *Store) Subscribe() (<-chan models.UserProfile, func()) {
	id := uuid.New().String()
	ch := make(chan models.UserProfile, subscriberBuffer)

	s.subsMu.Lock()
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) publish(snap models.UserProfile) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			log.Printf("Profile subscriber %s buffer full, skipping update", id)
		}
	}
}

func setIfPresent(dst *string, val string) {
	if strings.TrimSpace(val) != "" {
		*dst = val
	}
}

var dobLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeDob reduces a timestamp to its calendar date as written, so an
// offset never shifts the day.
func NormalizeDob(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if len(raw) >= 10 {
		if t, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
