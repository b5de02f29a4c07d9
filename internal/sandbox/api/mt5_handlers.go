package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/service"
)

type MT5Handler struct {
	mt5Service service.MT5Service
}

func NewMT5Handler(mt5Service service.MT5Service) *MT5Handler {
	return &MT5Handler{mt5Service: mt5Service}
}

// @Summary List MT5 groups
// @Tags MT5
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param sizePerPage query int false "Page size"
// @Router /user/mt5/group/list [get]
func (h *MT5Handler) ListGroups(c *gin.Context) {
	page, size := pageParams(c)
	plans, err := h.mt5Service.ListPlans(page, size)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Groups retrieved", plans)
}

// @Summary List the user's MT5 accounts
// @Tags MT5
// @Produce json
// @Security BearerAuth
// @Router /user/mt5/account/list [get]
func (h *MT5Handler) ListAccounts(c *gin.Context) {
	page, size := pageParams(c)
	accounts, err := h.mt5Service.ListAccounts(c.GetString("user_id"), page, size)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Accounts retrieved", accounts)
}

// @Summary Open an MT5 account
// @Tags MT5
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Router /user/mt5/create/account [post]
func (h *MT5Handler) CreateAccount(c *gin.Context) {
	groupID := strings.TrimSpace(c.PostForm("groupId"))
	if groupID == "" {
		fail(c, http.StatusBadRequest, "Group is required")
		return
	}
	leverage := 0
	if raw := strings.TrimSpace(c.PostForm("Leverage")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid leverage")
			return
		}
		leverage = n
	}

	account, err := h.mt5Service.CreateAccount(c.GetString("user_id"), groupID, leverage, c.PostForm("PassMain"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Account created", account)
}
