package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lead-crm/internal/httpresp"
	ucAccount "github.com/BruksfildServices01/lead-crm/internal/usecase/account"
)

type PasswordHandler struct {
	forgot *ucAccount.ForgotPassword
	reset  *ucAccount.ResetPassword
}

func NewPasswordHandler(forgot *ucAccount.ForgotPassword, reset *ucAccount.ResetPassword) *PasswordHandler {
	return &PasswordHandler{forgot: forgot, reset: reset}
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h *PasswordHandler) Forgot(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if err := h.forgot.Execute(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "If an account exists for this email, a verification code has been sent.", nil)
}

func (h *PasswordHandler) Reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	err := h.reset.Execute(c.Request.Context(), ucAccount.ResetPasswordInput{
		Email:       req.Email,
		OTP:         req.OTP,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "Password reset successfully", nil)
}
