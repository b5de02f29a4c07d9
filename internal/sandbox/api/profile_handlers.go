package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/service"
)

type ProfileHandler struct {
	handlerBase
	userService service.UserService
}

func NewProfileHandler(userService service.UserService, logService service.LogService) *ProfileHandler {
	return &ProfileHandler{handlerBase: handlerBase{logService: logService}, userService: userService}
}

// @Summary Get the signed-in user's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserProfile
// @Router /user/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetUser(c.GetString("user_id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile retrieved", user.Profile())
}

// @Summary Update profile or submit KYC level 1
// @Description Name, date of birth and country together grant KYC level 1
// @Tags Profile
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.KYCResult
// @Router /user/profile/update [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	update := service.ProfileUpdate{
		Name:        c.PostForm("name"),
		Mobile:      c.PostForm("mobile"),
		CountryCode: c.PostForm("countryCode"),
		Dob:         c.PostForm("dob"),
		Gender:      c.PostForm("gender"),
		Address:     c.PostForm("address"),
	}

	user, err := h.userService.UpdateProfile(c.GetString("user_id"), update)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated", models.KYCResult{Level: user.Level, UserData: user.UserData})
}

// @Summary Upload KYC documents
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param poi formData file true "Proof of identity"
// @Param poa formData file true "Proof of address"
// @Success 200 {object} models.KYCResult
// @Router /user/compliance/upload/doc [post]
func (h *ProfileHandler) UploadDocuments(c *gin.Context) {
	poi, errPOI := c.FormFile("poi")
	poa, errPOA := c.FormFile("poa")
	if errPOI != nil || errPOA != nil {
		fail(c, http.StatusBadRequest, "Both proof of identity and proof of address are required")
		return
	}

	user, err := h.userService.SubmitDocuments(c.GetString("user_id"),
		service.Document{Name: poi.Filename, Size: poi.Size},
		service.Document{Name: poa.Filename, Size: poa.Size})
	if err != nil {
		failErr(c, err)
		return
	}

	h.audit(c, "UploadDocuments", "KYC documents received", map[string]interface{}{
		"poi_size": poi.Size,
		"poa_size": poa.Size,
	})
	respond(c, http.StatusOK, "Documents submitted", models.KYCResult{Level: user.Level, UserData: user.UserData})
}
