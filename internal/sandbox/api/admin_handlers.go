package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/middleware"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/service"

	"golang.org/x/crypto/bcrypt"
)

type AdminHandler struct {
	handlerBase
	adminUser     string
	adminPassHash []byte
	secret        string
	userService   service.UserService
	walletService service.WalletService
	botService    service.BotService
}

func NewAdminHandler(adminUser, adminPass, secret string, userService service.UserService, walletService service.WalletService, botService service.BotService, logService service.LogService) *AdminHandler {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password, admin login disabled: %v", err)
	}
	return &AdminHandler{
		handlerBase:   handlerBase{logService: logService},
		adminUser:     adminUser,
		adminPassHash: hash,
		secret:        secret,
		userService:   userService,
		walletService: walletService,
		botService:    botService,
	}
}

type AdminLoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param login body AdminLoginRequest true "Admin credentials"
// @Success 200 {object} models.TokenData
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /admin/login [post]
func (h *AdminHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(h.adminPassHash) == 0 || req.UserName != h.adminUser {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword(h.adminPassHash, []byte(req.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := middleware.GenerateAdminJWT(req.UserName, h.secret)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	respond(c, http.StatusOK, "Login successful", models.TokenData{Token: token})
}

// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Users retrieved", users)
}

// @Summary List all transactions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Router /admin/transactions [get]
func (h *AdminHandler) GetAllTransactions(c *gin.Context) {
	transactions, err := h.walletService.GetAllTransactions()
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Transactions retrieved", transactions)
}

type TransactionReviewRequest struct {
	Status models.TransactionStatus `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	Note   string                   `json:"note"`
}

// @Summary Approve or reject a deposit or withdrawal
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param review body TransactionReviewRequest true "Decision"
// @Router /admin/transactions/{id} [put]
func (h *AdminHandler) ReviewTransaction(c *gin.Context) {
	var req TransactionReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Status must be APPROVED or REJECTED")
		return
	}

	id := c.Param("id")
	transaction, err := h.walletService.ReviewTransaction(id, req.Status, req.Note)
	if err != nil {
		failErr(c, err)
		return
	}

	h.audit(c, "ReviewTransaction", "Transaction "+string(req.Status), map[string]interface{}{
		"transaction_id": id,
		"amount":         transaction.Amount.String(),
	})
	respond(c, http.StatusOK, "Transaction reviewed", transaction)
}

// @Summary List pending bot switch requests
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Router /admin/bot/requests [get]
func (h *AdminHandler) GetPendingBotRequests(c *gin.Context) {
	requests, err := h.botService.GetPendingRequests()
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Requests retrieved", requests)
}

type BotRequestReview struct {
	Status models.RequestStatus `json:"status" binding:"required,oneof=APPROVED DENIED"`
	Note   string               `json:"note"`
}

// @Summary Approve or deny a bot switch request
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Router /admin/bot/requests/{id} [put]
func (h *AdminHandler) ReviewBotRequest(c *gin.Context) {
	var req BotRequestReview
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Status must be APPROVED or DENIED")
		return
	}

	request, err := h.botService.ReviewRequest(c.Param("id"), req.Status, req.Note)
	if err != nil {
		failErr(c, err)
		return
	}
	h.audit(c, "ReviewBotRequest", "Bot switch "+string(req.Status), map[string]interface{}{"request_id": request.ID})
	respond(c, http.StatusOK, "Request reviewed", request)
}

// @Summary Audit log
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Router /admin/logs [get]
func (h *AdminHandler) GetAllLogs(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}

	var logs []*models.LogEntry
	if userID := c.Query("user_id"); userID != "" {
		logs, err = h.logService.GetLogsByUserID(userID, page, limit)
	} else {
		logs, err = h.logService.GetAllLogs(page, limit)
	}
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Logs retrieved", logs)
}
