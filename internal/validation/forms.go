package validation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinDeposit is the smallest deposit, in dollars, the client will submit.
const MinDeposit = 10

type LoginForm struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required"`
}

type SignupForm struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,password_policy"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	Country         string `validate:"required"`
}

type OTPForm struct {
	Target string `validate:"required"`
	Code   string `validate:"required,numeric,min=4,max=6"`
}

type ResetPasswordForm struct {
	NewPassword     string `validate:"required,password_policy"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}

type ProfileForm struct {
	Name        string `validate:"required"`
	Mobile      string `validate:"omitempty,min=6,max=15"`
	CountryCode string `validate:"omitempty"`
	Dob         string `validate:"omitempty,datetime=2006-01-02"`
	Gender      string `validate:"omitempty,oneof=male female other"`
	Address     string `validate:"omitempty,max=200"`
}

type KYCLevel1Form struct {
	Name        string `validate:"required"`
	Dob         string `validate:"required,datetime=2006-01-02"`
	CountryCode string `validate:"required"`
}

// KYCLevel2Form names the two documents; both must be attached.
type KYCLevel2Form struct {
	POI string `validate:"required"`
	POA string `validate:"required"`
}

type DepositForm struct {
	Amount string `validate:"required,amount,min_deposit"`
}

type WithdrawForm struct {
	Amount  string `validate:"required,amount,positive_amount"`
	Address string `validate:"required"`
}

type TransferForm struct {
	Amount    string `validate:"required,amount,positive_amount"`
	AccountID string `validate:"required"`
}

type MT5AccountForm struct {
	GroupID  string `validate:"required"`
	Leverage string `validate:"required,numeric"`
	Password string `validate:"required,min=8,max=15"`
}

// ValidateFunds checks a validated amount against what the user holds.
func ValidateFunds(amount string, available decimal.Decimal) error {
	if Amount(amount).GreaterThan(available) {
		return &Error{Field: "Amount", Tag: "funds", Message: "Insufficient balance"}
	}
	return nil
}

var messages = map[string]string{
	"LoginForm.Identifier.required": "Please enter your email or username",
	"LoginForm.Password.required":   "Please enter your password",

	"SignupForm.Email.required":           "Please enter your email",
	"SignupForm.Email.email":              "Please enter a valid email address",
	"SignupForm.Password.required":        "Please enter a password",
	"SignupForm.Password.password_policy": "Password must be 8-15 characters and include upper and lower case letters, a number and a special character",
	"SignupForm.ConfirmPassword.required": "Please confirm your password",
	"SignupForm.ConfirmPassword.eqfield":  "Passwords do not match",
	"SignupForm.Country.required":         "Please select your country",

	"OTPForm.Target.required": "Please enter your email or mobile number",
	"OTPForm.Code.required":   "Please enter the OTP",
	"OTPForm.Code.numeric":    "OTP must contain digits only",
	"OTPForm.Code.min":        "OTP must be 4-6 digits",
	"OTPForm.Code.max":        "OTP must be 4-6 digits",

	"ResetPasswordForm.NewPassword.required":        "Please enter a new password",
	"ResetPasswordForm.NewPassword.password_policy": "Password must be 8-15 characters and include upper and lower case letters, a number and a special character",
	"ResetPasswordForm.ConfirmPassword.required":    "Please confirm your password",
	"ResetPasswordForm.ConfirmPassword.eqfield":     "Passwords do not match",

	"ProfileForm.Name.required": "Please enter your name",
	"ProfileForm.Mobile.min":    "Please enter a valid mobile number",
	"ProfileForm.Mobile.max":    "Please enter a valid mobile number",
	"ProfileForm.Dob.datetime":  "Date of birth must be in YYYY-MM-DD format",
	"ProfileForm.Gender.oneof":  "Please select a gender",
	"ProfileForm.Address.max":   "Address is too long",

	"KYCLevel1Form.Name.required":        "Please enter your full name",
	"KYCLevel1Form.Dob.required":         "Please enter your date of birth",
	"KYCLevel1Form.Dob.datetime":         "Date of birth must be in YYYY-MM-DD format",
	"KYCLevel1Form.CountryCode.required": "Please select your country",

	"KYCLevel2Form.POI.required": "Please upload a proof of identity",
	"KYCLevel2Form.POA.required": "Please upload a proof of address",

	"DepositForm.Amount.required":    "Please enter an amount",
	"DepositForm.Amount.amount":      "Please enter a valid amount",
	"DepositForm.Amount.min_deposit": fmt.Sprintf("Minimum deposit is $%d", MinDeposit),

	"WithdrawForm.Amount.required":        "Please enter an amount",
	"WithdrawForm.Amount.amount":          "Please enter a valid amount",
	"WithdrawForm.Amount.positive_amount": "Amount must be greater than zero",
	"WithdrawForm.Address.required":       "Please enter a withdrawal address",

	"TransferForm.Amount.required":        "Please enter an amount",
	"TransferForm.Amount.amount":          "Please enter a valid amount",
	"TransferForm.Amount.positive_amount": "Amount must be greater than zero",
	"TransferForm.AccountID.required":     "Please select an account",

	"MT5AccountForm.GroupID.required":  "Please select an account type",
	"MT5AccountForm.Leverage.required": "Please select a leverage",
	"MT5AccountForm.Leverage.numeric":  "Please select a valid leverage",
	"MT5AccountForm.Password.required": "Please enter a password",
	"MT5AccountForm.Password.min":      "Password must be between 8-15 characters",
	"MT5AccountForm.Password.max":      "Password must be between 8-15 characters",
}
