package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lead-crm/internal/httperr"
	"github.com/BruksfildServices01/lead-crm/internal/httpresp"
	"github.com/BruksfildServices01/lead-crm/internal/middleware"
	ucAccount "github.com/BruksfildServices01/lead-crm/internal/usecase/account"
)

type ProfileHandler struct {
	get    *ucAccount.GetProfile
	update *ucAccount.UpdateProfile
	avatar *ucAccount.UploadAvatar
}

func NewProfileHandler(
	get *ucAccount.GetProfile,
	update *ucAccount.UpdateProfile,
	avatar *ucAccount.UploadAvatar,
) *ProfileHandler {
	return &ProfileHandler{get: get, update: update, avatar: avatar}
}

// Absent fields are left untouched.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	City     *string `json:"city"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`
	Language *string `json:"language"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	user, err := h.get.Execute(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"user": user})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	user, err := h.update.Execute(c.Request.Context(), userID, ucAccount.ProfileInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		City:     req.City,
		Address:  req.Address,
		Timezone: req.Timezone,
		Language: req.Language,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "Profile updated successfully", gin.H{"user": user})
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	fh, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_avatar", "Send the image in the \"avatar\" field.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	user, err := h.avatar.Execute(c.Request.Context(), userID, f)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "Avatar updated successfully", gin.H{"user": user})
}
