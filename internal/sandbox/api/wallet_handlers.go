package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/service"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService service.WalletService
}

func NewWalletHandler(walletService service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func amountParam(c *gin.Context) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("amount")))
	if err != nil {
		fail(c, http.StatusBadRequest, "Please enter a valid amount")
		return decimal.Zero, false
	}
	return amount, true
}

// @Summary Wallet balance
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Balance
// @Router /user/wallet/balance [get]
func (h *WalletHandler) Balance(c *gin.Context) {
	balance, err := h.walletService.Balance(c.GetString("user_id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Balance retrieved", balance)
}

// @Summary Request a deposit
// @Tags Wallet
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Transaction
// @Router /user/wallet/deposit [post]
func (h *WalletHandler) Deposit(c *gin.Context) {
	amount, ok := amountParam(c)
	if !ok {
		return
	}
	transaction, err := h.walletService.Deposit(c.GetString("user_id"), amount)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Deposit requested", transaction)
}

// @Summary Request a withdrawal
// @Tags Wallet
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Transaction
// @Router /user/wallet/withdraw [post]
func (h *WalletHandler) Withdraw(c *gin.Context) {
	amount, ok := amountParam(c)
	if !ok {
		return
	}
	address := strings.TrimSpace(c.PostForm("address"))
	if address == "" {
		fail(c, http.StatusBadRequest, "Please enter a withdrawal address")
		return
	}
	transaction, err := h.walletService.Withdraw(c.GetString("user_id"), amount, address)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Withdrawal requested", transaction)
}

// @Summary Transfer wallet funds to an MT5 account
// @Tags Wallet
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Transaction
// @Router /user/wallet/transfer [post]
func (h *WalletHandler) Transfer(c *gin.Context) {
	amount, ok := amountParam(c)
	if !ok {
		return
	}
	transaction, err := h.walletService.Transfer(c.GetString("user_id"), amount, strings.TrimSpace(c.PostForm("accountId")))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Transfer completed", transaction)
}

// @Summary List the user's transactions
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Router /user/wallet/transactions [get]
func (h *WalletHandler) Transactions(c *gin.Context) {
	transactions, err := h.walletService.GetTransactionsByUserID(c.GetString("user_id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Transactions retrieved", transactions)
}
