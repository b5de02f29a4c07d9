package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/internal/gating"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/service"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"status": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": false, "message": message})
}

var serviceErrors = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrEmailTaken, http.StatusConflict, "Email already registered"},
	{service.ErrInvalidOTP, http.StatusBadRequest, "Invalid or expired OTP"},
	{service.ErrInvalidPassword, http.StatusBadRequest, "Password must be between 8-15 characters"},
	{service.ErrInvalidAmount, http.StatusBadRequest, "Amount must be greater than zero"},
	{service.ErrMinimumDeposit, http.StatusBadRequest, "Minimum deposit is $10"},
	{service.ErrInsufficientBalance, http.StatusBadRequest, "Insufficient balance"},
	{service.ErrPlanNotFound, http.StatusNotFound, "Plan not found"},
	{service.ErrAccountNotFound, http.StatusNotFound, "Account not found"},
	{service.ErrTransactionNotFound, http.StatusNotFound, "Transaction not found"},
	{service.ErrRequestNotFound, http.StatusNotFound, "Request not found"},
	{service.ErrAlreadyReviewed, http.StatusConflict, "Already reviewed"},
	{service.ErrAnotherBotRunning, http.StatusConflict, "Another bot is already running"},
	{service.ErrBotNotRunning, http.StatusConflict, "Bot is not running"},
	{service.ErrSwitchPending, http.StatusConflict, "A switch request is already pending"},
	{service.ErrMissingDocuments, http.StatusBadRequest, "Both proof of identity and proof of address are required"},
	{service.ErrInvalidDob, http.StatusBadRequest, "Date of birth must be in YYYY-MM-DD format"},
	{service.ErrInvalidStatus, http.StatusBadRequest, "Invalid request"},
}

// failErr maps a service error onto a status and user facing message.
func failErr(c *gin.Context, err error) {
	var locked *gating.LockedError
	if errors.As(err, &locked) {
		message := "KYC level 2 approval required"
		if locked.Decision.Reason == gating.ReasonKYCLevel1Required {
			message = "Please complete KYC level 1 first"
		}
		fail(c, http.StatusForbidden, message)
		return
	}
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			fail(c, e.status, e.message)
			return
		}
	}
	log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	fail(c, http.StatusInternalServerError, "Internal server error")
}

// pageParams reads page and sizePerPage with defaults 1 and 10.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("sizePerPage", "10"))
	if err != nil || size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func (h *handlerBase) audit(c *gin.Context, action, description string, metadata map[string]interface{}) {
	if err := h.logService.LogAction(c.GetString("user_id"), action, description, c.ClientIP(), metadata); err != nil {
		log.Printf("error: %v", err)
	}
}

type handlerBase struct {
	logService service.LogService
}
