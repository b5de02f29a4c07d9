package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserAccount is the server side user record.
type UserAccount struct {
	UserData     `bson:",inline"`
	PasswordHash string          `json:"-" bson:"password_hash"`
	Balance      decimal.Decimal `json:"balance" bson:"balance"`
	CreatedAt    time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updated_at"`
}

// ApplyLevel sets the permission flags that follow from a KYC level.
func (u *UserAccount) ApplyLevel(level int) {
	if level > u.Level {
		u.Level = level
	}
	u.IsDepositAllowed = u.Level >= KYCLevelBasic
	u.IsTransferAllowed = u.Level >= KYCLevelBasic
	u.IsMt5DepositAllowed = u.Level >= KYCLevelBasic
	u.IsWithdrawalAllowed = u.Level >= KYCLevelApproved
	u.IsMt5WithdrawalAllowed = u.Level >= KYCLevelApproved
	u.IsKycVerified = u.Level >= KYCLevelApproved
}

// Profile is the view of the account a client keeps.
func (u *UserAccount) Profile() UserProfile {
	return UserProfile{UserData: u.UserData, Balance: u.Balance}
}
