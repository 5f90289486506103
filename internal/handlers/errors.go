package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lead-crm/internal/httperr"
)

type errorInfo struct {
	status  int
	message string
}

var businessErrors = map[string]errorInfo{
	"invalid_name":     {http.StatusBadRequest, "Name must be at least 2 characters."},
	"invalid_phone":    {http.StatusBadRequest, "Phone number must have at least 10 digits."},
	"missing_problem":  {http.StatusBadRequest, "Problem description is required."},
	"invalid_date":     {http.StatusBadRequest, "Date must be DD/MM/YYYY or YYYY-MM-DD."},
	"invalid_time":     {http.StatusBadRequest, "Time must be HH:MM."},
	"invalid_status":   {http.StatusBadRequest, "Unknown status."},
	"invalid_source":   {http.StatusBadRequest, "Unknown source."},
	"invalid_priority": {http.StatusBadRequest, "Priority must be Low, Medium or High."},
	"agent_not_found":  {http.StatusBadRequest, "Agent not found."},

	"booking_not_found": {http.StatusNotFound, "Booking not found."},
	"user_not_found":    {http.StatusNotFound, "User not found."},

	"invalid_email":        {http.StatusBadRequest, "Email address is not valid."},
	"invalid_email_domain": {http.StatusBadRequest, "The email domain does not look valid."},
	"email_already_exists": {http.StatusBadRequest, "An account with this email already exists."},
	"weak_password":        {http.StatusBadRequest, "Password must be at least 6 characters."},
	"invalid_credentials":  {http.StatusUnauthorized, "Invalid email or password."},
	"invalid_timezone":     {http.StatusBadRequest, "Unknown timezone."},

	"invalid_otp":           {http.StatusBadRequest, "The code is invalid or has expired."},
	"otp_attempts_exceeded": {http.StatusBadRequest, "Too many attempts. Request a new code."},
	"otp_cooldown":          {http.StatusTooManyRequests, "Please wait before requesting a new code."},

	"avatar_too_large":        {http.StatusRequestEntityTooLarge, "Image must be 5 MB or smaller."},
	"unsupported_image":       {http.StatusUnsupportedMediaType, "Image must be JPEG, PNG or WebP."},
	"avatar_storage_disabled": {http.StatusServiceUnavailable, "Avatar uploads are not available."},
}

// writeError answers a use case error. Business errors keep their code;
// anything else is logged and reported as internal_error.
func writeError(c *gin.Context, err error) {
	code := httperr.BusinessCode(err)
	if code == "" {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		httperr.Internal(c, "internal_error", "Something went wrong. Please try again.")
		return
	}

	info, ok := businessErrors[code]
	if !ok {
		info = errorInfo{http.StatusBadRequest, code}
	}
	httperr.Write(c, info.status, code, info.message)
}

func invalidRequest(c *gin.Context, err error) {
	httperr.BadRequest(c, "invalid_request", err.Error())
}
