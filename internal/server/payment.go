package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	paymentdomain "github.com/vecinohq/vecino/internal/payment/domain"
)

type createPaymentRequest struct {
	UnitID    string          `json:"unit_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Reference string          `json:"reference"`
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalTime(req.Date, false)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}
	if date == nil {
		now := time.Now().UTC()
		date = &now
	}

	condominiumID := strings.TrimSpace(c.Param("id"))
	resp, err := s.paymentSvc.Create(c.Request.Context(), condominiumID, paymentdomain.CreatePaymentRequest{
		UnitID:    strings.TrimSpace(req.UnitID),
		Amount:    req.Amount,
		Date:      *date,
		Reference: strings.TrimSpace(req.Reference),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		UnitID   string `form:"unit_id"`
		Status   string `form:"status"`
		DateFrom string `form:"date_from"`
		DateTo   string `form:"date_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dateFrom, err := parseOptionalTime(query.DateFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("date_from", "invalid_date_from", "invalid date_from"))
		return
	}

	dateTo, err := parseOptionalTime(query.DateTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("date_to", "invalid_date_to", "invalid date_to"))
		return
	}

	var unitID *string
	if trimmed := strings.TrimSpace(query.UnitID); trimmed != "" {
		unitID = &trimmed
	}

	var status *paymentdomain.PaymentStatus
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		parsed := paymentdomain.PaymentStatus(trimmed)
		status = &parsed
	}

	condominiumID := strings.TrimSpace(c.Param("id"))
	resp, err := s.paymentSvc.List(c.Request.Context(), condominiumID, paymentdomain.ListPaymentRequest{
		UnitID:   unitID,
		Status:   status,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	condominiumID := strings.TrimSpace(c.Param("id"))
	paymentID := strings.TrimSpace(c.Param("paymentId"))
	resp, err := s.paymentSvc.GetByID(c.Request.Context(), condominiumID, paymentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmPayment(c *gin.Context) {
	condominiumID := strings.TrimSpace(c.Param("id"))
	paymentID := strings.TrimSpace(c.Param("paymentId"))
	resp, err := s.paymentSvc.Confirm(c.Request.Context(), condominiumID, paymentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RejectPayment(c *gin.Context) {
	condominiumID := strings.TrimSpace(c.Param("id"))
	paymentID := strings.TrimSpace(c.Param("paymentId"))
	resp, err := s.paymentSvc.Reject(c.Request.Context(), condominiumID, paymentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidID,
		paymentdomain.ErrInvalidAmount:
		return true
	default:
		return false
	}
}
