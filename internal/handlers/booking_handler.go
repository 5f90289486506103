package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/lead-crm/internal/domain/booking"
	"github.com/BruksfildServices01/lead-crm/internal/httpresp"
	"github.com/BruksfildServices01/lead-crm/internal/middleware"
	ucBooking "github.com/BruksfildServices01/lead-crm/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create  *ucBooking.CreateBooking
	list    *ucBooking.ListBookings
	get     *ucBooking.GetBooking
	status  *ucBooking.UpdateBookingStatus
	details *ucBooking.UpdateBookingDetails
	remove  *ucBooking.DeleteBooking
	agents  *ucBooking.ListAgents
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	list *ucBooking.ListBookings,
	get *ucBooking.GetBooking,
	status *ucBooking.UpdateBookingStatus,
	details *ucBooking.UpdateBookingDetails,
	remove *ucBooking.DeleteBooking,
	agents *ucBooking.ListAgents,
) *BookingHandler {
	return &BookingHandler{
		create:  create,
		list:    list,
		get:     get,
		status:  status,
		details: details,
		remove:  remove,
		agents:  agents,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookingRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Problem  string `json:"problem"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Status   string `json:"status"`
	Source   string `json:"source"`
	Priority string `json:"priority"`
	AgentID  string `json:"agentId"`
}

func (r BookingRequest) fields() domain.Fields {
	return domain.Fields{
		Name:     r.Name,
		Phone:    r.Phone,
		Problem:  r.Problem,
		Date:     r.Date,
		Time:     r.Time,
		Status:   r.Status,
		Source:   r.Source,
		Priority: r.Priority,
		AgentID:  r.AgentID,
	}
}

type StatusRequest struct {
	Status string `json:"status"`
}

// ======================================================
// LIST / GET
// ======================================================

func (h *BookingHandler) ShowAll(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	list, err := h.list.Execute(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"bookings": list,
		"total":    len(list),
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	b, err := h.get.Execute(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"booking": b})
}

// ======================================================
// MUTATIONS
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID: userID,
		Fields: req.fields(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.RecordLeadCreated(b.Source)
	httpresp.Message(c, http.StatusCreated, "Booking created successfully", gin.H{"booking": b})
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.status.Execute(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "Booking status updated successfully", gin.H{"booking": b})
}

func (h *BookingHandler) UpdateDetails(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.details.Execute(c.Request.Context(), userID, c.Param("id"), req.fields())
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "Booking updated successfully", gin.H{"booking": b})
}

func (h *BookingHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.remove.Execute(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "Booking deleted successfully", nil)
}

// ======================================================
// AGENTS
// ======================================================

func (h *BookingHandler) ListAgents(c *gin.Context) {
	agents, err := h.agents.Execute(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, agents)
}
