package app

import (
	"context"
	"log"
	"strings"

	"github.com/mehrbod2002/fxmobile/internal/client"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/router"
	"github.com/mehrbod2002/fxmobile/internal/session"
	"github.com/mehrbod2002/fxmobile/internal/validation"
)

func (a *App) Login(ctx context.Context, identifier, password string) error {
	done := a.begin("login")
	defer done()

	if err := validation.Validate(validation.LoginForm{Identifier: strings.TrimSpace(identifier), Password: password}); err != nil {
		return a.invalid(err)
	}
	res := a.api.Login(ctx, client.LoginRequest{UserName: strings.TrimSpace(identifier), Password: password})
	return a.signIn(ctx, res, "Login successful")
}

func (a *App) Signup(ctx context.Context, form validation.SignupForm) error {
	done := a.begin("signup")
	defer done()

	form.Email = strings.TrimSpace(form.Email)
	if err := validation.Validate(form); err != nil {
		return a.invalid(err)
	}
	res := a.api.Signup(ctx, client.SignupRequest{Email: form.Email, Password: form.Password, Country: form.Country})
	return a.signIn(ctx, res, "Account created successfully")
}

// signIn commits a login or signup response: the token is persisted first,
// and only then do the profile and screen change.
func (a *App) signIn(ctx context.Context, res *client.Result, fallback string) error {
	if !res.OK {
		return a.failed(res)
	}
	var data models.LoginData
	if err := res.Decode(&data); err != nil {
		return a.decodeFailed(err)
	}
	if data.Token == "" {
		return a.decodeFailed(session.ErrEmptyToken)
	}
	if err := a.Session.Login(data.Token); err != nil {
		a.toast(ToastError, "Could not save your session. Please try again.")
		return err
	}

	a.Profile.SetUser(data.UserData)
	a.Bots.Clear()
	a.toast(ToastSuccess, successMessage(res, fallback))
	a.RefreshBalance(ctx)
	return a.Router.Reset(router.Home)
}

// Logout clears the token, then every piece of per-user state. Calling it
// while signed out is harmless.
func (a *App) Logout() error {
	if err := a.Session.Logout(); err != nil {
		a.toast(ToastError, "Could not sign out. Please try again.")
		return err
	}
	a.Profile.Reset()
	a.Bots.Clear()

	a.mu.Lock()
	a.plans, a.accounts, a.botPlans = nil, nil, nil
	a.otpTarget, a.resetToken = "", ""
	a.mu.Unlock()

	return a.Router.Reset(router.Welcome)
}

// SendOTP starts the forgot-password flow for an email or mobile number.
func (a *App) SendOTP(ctx context.Context, target string) error {
	done := a.begin("otp")
	defer done()

	target = strings.TrimSpace(target)
	if target == "" {
		return a.invalid(&validation.Error{Field: "Target", Tag: "required", Message: "Please enter your email or mobile number"})
	}
	res := a.api.SendOTP(ctx, target)
	if !res.OK {
		return a.failed(res)
	}

	a.mu.Lock()
	a.otpTarget = target
	a.mu.Unlock()

	a.toast(ToastSuccess, successMessage(res, "OTP sent"))
	return a.Router.Navigate(router.VerifyPassword)
}

func (a *App) VerifyOTP(ctx context.Context, code string) error {
	done := a.begin("otp")
	defer done()

	a.mu.Lock()
	target := a.otpTarget
	a.mu.Unlock()

	if err := validation.Validate(validation.OTPForm{Target: target, Code: strings.TrimSpace(code)}); err != nil {
		return a.invalid(err)
	}
	res := a.api.VerifyOTP(ctx, target, strings.TrimSpace(code))
	if !res.OK {
		return a.failed(res)
	}
	var data models.TokenData
	if err := res.Decode(&data); err != nil {
		return a.decodeFailed(err)
	}

	a.mu.Lock()
	a.resetToken = data.Token
	a.mu.Unlock()

	a.toast(ToastSuccess, successMessage(res, "OTP verified"))
	return a.Router.Navigate(router.ResetPassword)
}

// ResetPassword uses the token from VerifyOTP, or the session token when
// a signed-in user changes their password.
func (a *App) ResetPassword(ctx context.Context, newPassword, confirm string) error {
	done := a.begin("resetPassword")
	defer done()

	if err := validation.Validate(validation.ResetPasswordForm{NewPassword: newPassword, ConfirmPassword: confirm}); err != nil {
		return a.invalid(err)
	}

	a.mu.Lock()
	token := a.resetToken
	a.mu.Unlock()
	if token == "" {
		token = a.Session.Token()
	}

	res := a.api.ResetPassword(ctx, token, newPassword, confirm)
	if !res.OK {
		return a.failed(res)
	}

	a.mu.Lock()
	a.resetToken, a.otpTarget = "", ""
	a.mu.Unlock()

	a.toast(ToastSuccess, successMessage(res, "Password reset successful"))
	if a.Session.Authenticated() {
		if !a.Router.Back() {
			log.Printf("No screen to return to after password change")
		}
		return nil
	}
	return a.Router.Reset(router.Login)
}
