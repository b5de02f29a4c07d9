package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/middleware"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/service"
)

type AuthHandler struct {
	handlerBase
	userService service.UserService
	otpService  service.OTPService
	secret      string
}

func NewAuthHandler(userService service.UserService, otpService service.OTPService, logService service.LogService, secret string) *AuthHandler {
	return &AuthHandler{
		handlerBase: handlerBase{logService: logService},
		userService: userService,
		otpService:  otpService,
		secret:      secret,
	}
}

type LoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credentials"
// @Success 200 {object} models.LoginData
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /user/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "User name and password are required")
		return
	}

	user, err := h.userService.Authenticate(req.UserName, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	token, err := middleware.GenerateJWT(user.ID, h.secret)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.Set("user_id", user.ID)
	h.audit(c, "Login", "User logged in", nil)
	respond(c, http.StatusOK, "Login successful", models.LoginData{Token: token, UserData: user.UserData})
}

type SignupRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8,max=15"`
	Country  string `form:"country" binding:"required"`
}

// @Summary Register a user
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 201 {object} models.LoginData
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /user/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email, password (8-15 characters) and country are required")
		return
	}

	user, err := h.userService.Signup(req.Email, req.Password, req.Country)
	if err != nil {
		failErr(c, err)
		return
	}
	token, err := middleware.GenerateJWT(user.ID, h.secret)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	respond(c, http.StatusCreated, "Signup successful", models.LoginData{Token: token, UserData: user.UserData})
}

func otpTarget(c *gin.Context) string {
	if mobile := strings.TrimSpace(c.PostForm("mobile")); mobile != "" {
		return mobile
	}
	return strings.TrimSpace(c.PostForm("email"))
}

// @Summary Send a one-time password
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Router /user/auth/send/otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	target := otpTarget(c)
	if target == "" {
		fail(c, http.StatusBadRequest, "Email or mobile is required")
		return
	}
	if err := h.otpService.Send(c.Request.Context(), target); err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "OTP sent", nil)
}

// @Summary Verify a one-time password
// @Description Returns a short-lived token that authorizes a password reset
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} models.TokenData
// @Router /user/auth/verify/otp [patch]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	target := otpTarget(c)
	code := strings.TrimSpace(c.PostForm("otp"))
	if target == "" || code == "" {
		fail(c, http.StatusBadRequest, "OTP and email or mobile are required")
		return
	}

	user, err := h.otpService.Verify(c.Request.Context(), target, code)
	if err != nil {
		failErr(c, err)
		return
	}
	token, err := middleware.GenerateResetJWT(user.ID, h.secret)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	respond(c, http.StatusOK, "OTP verified", models.TokenData{Token: token})
}

// @Summary Reset password
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Router /user/auth/reset/password [put]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	newPassword := c.PostForm("newPassword")
	if newPassword == "" {
		fail(c, http.StatusBadRequest, "New password is required")
		return
	}
	if newPassword != c.PostForm("cnfPassword") {
		fail(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	if err := h.userService.ResetPassword(c.GetString("user_id"), newPassword); err != nil {
		failErr(c, err)
		return
	}
	h.audit(c, "ResetPassword", "Password reset", nil)
	respond(c, http.StatusOK, "Password reset successful", nil)
}
