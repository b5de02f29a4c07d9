package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/service"
)

type BotHandler struct {
	botService service.BotService
}

func NewBotHandler(botService service.BotService) *BotHandler {
	return &BotHandler{botService: botService}
}

func planParam(c *gin.Context, key string) (string, bool) {
	id := strings.TrimSpace(c.PostForm(key))
	if id == "" {
		fail(c, http.StatusBadRequest, "Plan is required")
		return "", false
	}
	return id, true
}

// @Summary Bot plans with the user's run statuses
// @Tags Bots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.BotOverview
// @Router /user/bot/plans [get]
func (h *BotHandler) Plans(c *gin.Context) {
	overview, err := h.botService.Overview(c.GetString("user_id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Plans retrieved", overview)
}

// @Summary Activate a bot
// @Tags Bots
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.BotStatus
// @Router /user/bot/activate [post]
func (h *BotHandler) Activate(c *gin.Context) {
	planID, ok := planParam(c, "planId")
	if !ok {
		return
	}
	status, err := h.botService.Activate(c.GetString("user_id"), planID)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Bot activated", status)
}

// @Summary Request a switch to another bot plan
// @Tags Bots
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.BotSwitchRequest
// @Router /user/bot/switch [post]
func (h *BotHandler) Switch(c *gin.Context) {
	fromPlanID, ok := planParam(c, "fromPlanId")
	if !ok {
		return
	}
	toPlanID, ok := planParam(c, "toPlanId")
	if !ok {
		return
	}
	request, err := h.botService.RequestSwitch(c.GetString("user_id"), fromPlanID, toPlanID)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Switch request submitted for approval", request)
}

// @Summary Stop a bot
// @Tags Bots
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.BotStatus
// @Router /user/bot/stop [post]
func (h *BotHandler) Stop(c *gin.Context) {
	planID, ok := planParam(c, "planId")
	if !ok {
		return
	}
	status, err := h.botService.Stop(c.GetString("user_id"), planID)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Bot stopped", status)
}
