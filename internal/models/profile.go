package models

import "github.com/shopspring/decimal"

// DefaultUserName replaces a blank name in a login payload.
const DefaultUserName = "User Name"

// KYC tiers.
const (
	KYCLevelNone     = 0
	KYCLevelBasic    = 1
	KYCLevelApproved = 2
)

// UserData is the user record as the API returns it in login and profile responses.
type UserData struct {
	ID           string `json:"id" bson:"_id"`
	UserName     string `json:"userName" bson:"user_name"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	Mobile       string `json:"mobile" bson:"mobile"`
	Country      string `json:"country" bson:"country"`
	ProfileImage string `json:"profileImage" bson:"profile_image"`
	Dob          string `json:"dob" bson:"dob"`
	Gender       string `json:"gender" bson:"gender"`
	Address      string `json:"address" bson:"address"`

	IsEmailVerified  bool `json:"isEmailVerified" bson:"is_email_verified"`
	IsMobileVerified bool `json:"isMobileVerified" bson:"is_mobile_verified"`
	IsKycVerified    bool `json:"isKycVerified" bson:"is_kyc_verified"`
	IsBankVerified   bool `json:"isBankVerified" bson:"is_bank_verified"`

	IsWithdrawalAllowed    bool `json:"isWithdrawalAllowed" bson:"is_withdrawal_allowed"`
	IsDepositAllowed       bool `json:"isDepositAllowed" bson:"is_deposit_allowed"`
	IsPromotionalAllowed   bool `json:"isPromotionalAllowed" bson:"is_promotional_allowed"`
	IsTransferAllowed      bool `json:"isTransferAllowed" bson:"is_transfer_allowed"`
	IsMt5DepositAllowed    bool `json:"isMt5DepositAllowed" bson:"is_mt5_deposit_allowed"`
	IsMt5WithdrawalAllowed bool `json:"isMt5WithdrawalAllowed" bson:"is_mt5_withdrawal_allowed"`

	Level int `json:"level" bson:"level"`
}

// UserProfile is the client's snapshot of the signed-in user.
type UserProfile struct {
	UserData
	Balance decimal.Decimal `json:"balance"`
}

// LoginData is the data section of a login or signup response.
type LoginData struct {
	Token    string   `json:"token"`
	UserData UserData `json:"userData"`
}

// TokenData carries a short-lived token, as returned by OTP verification.
type TokenData struct {
	Token string `json:"token"`
}

// KYCResult is the data section of a KYC submission response.
type KYCResult struct {
	Level    int      `json:"level"`
	UserData UserData `json:"userData"`
}

type Balance struct {
	Available decimal.Decimal `json:"available"`
	Currency  string          `json:"currency"`
}
