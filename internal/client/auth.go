package client

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
)

var mobilePattern = regexp.MustCompile(`^[0-9+]{6,15}$`)

// OTPKey picks the form key for an OTP target: "mobile" for phone-like
// input, otherwise "email".
func OTPKey(target string) string {
	if mobilePattern.MatchString(target) {
		return "mobile"
	}
	return "email"
}

type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// Login data decodes into models.LoginData.
func (c *Client) Login(ctx context.Context, req LoginRequest) *Result {
	return c.sendJSON(ctx, http.MethodPost, "/user/auth/login", "", req)
}

type SignupRequest struct {
	Email    string
	Password string
	Country  string
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) *Result {
	form := url.Values{}
	form.Set("email", req.Email)
	form.Set("password", req.Password)
	form.Set("country", req.Country)
	return c.sendForm(ctx, http.MethodPost, "/user/auth/signup", "", form)
}

func (c *Client) SendOTP(ctx context.Context, target string) *Result {
	form := url.Values{}
	form.Set(OTPKey(target), target)
	return c.sendForm(ctx, http.MethodPost, "/user/auth/send/otp", "", form)
}

// VerifyOTP data decodes into models.TokenData; the token authorizes a
// password reset.
func (c *Client) VerifyOTP(ctx context.Context, target, otp string) *Result {
	form := url.Values{}
	form.Set(OTPKey(target), target)
	form.Set("otp", otp)
	return c.sendForm(ctx, http.MethodPatch, "/user/auth/verify/otp", "", form)
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword, cnfPassword string) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("newPassword", newPassword)
	form.Set("cnfPassword", cnfPassword)
	return c.sendForm(ctx, http.MethodPut, "/user/auth/reset/password", token, form)
}
