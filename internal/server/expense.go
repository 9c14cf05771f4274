package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	expensedomain "github.com/vecinohq/vecino/internal/expense/domain"
	"github.com/vecinohq/vecino/pkg/db/pagination"
)

type createExpenseRequest struct {
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	AllocationClass string          `json:"allocation_class"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`
	PaymentMethod   string          `json:"payment_method"`
	Metadata        map[string]any  `json:"metadata"`
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
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
	resp, err := s.expenseSvc.Create(c.Request.Context(), condominiumID, expensedomain.CreateExpenseRequest{
		Description:     strings.TrimSpace(req.Description),
		Category:        strings.TrimSpace(req.Category),
		AllocationClass: expensedomain.AllocationClass(strings.TrimSpace(req.AllocationClass)),
		Amount:          req.Amount,
		Date:            *date,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		Metadata:        req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenses(c *gin.Context) {
	var query struct {
		pagination.Pagination
		AllocationClass string `form:"allocation_class"`
		DateFrom        string `form:"date_from"`
		DateTo          string `form:"date_to"`
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

	var class *expensedomain.AllocationClass
	if trimmed := strings.TrimSpace(query.AllocationClass); trimmed != "" {
		parsed := expensedomain.AllocationClass(trimmed)
		if !expensedomain.ValidAllocationClass(parsed) {
			AbortWithError(c, expensedomain.ErrInvalidAllocationClass)
			return
		}
		class = &parsed
	}

	condominiumID := strings.TrimSpace(c.Param("id"))
	resp, err := s.expenseSvc.List(c.Request.Context(), condominiumID, expensedomain.ListExpenseRequest{
		AllocationClass: class,
		DateFrom:        dateFrom,
		DateTo:          dateTo,
		Page:            query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetExpenseByID(c *gin.Context) {
	condominiumID := strings.TrimSpace(c.Param("id"))
	expenseID := strings.TrimSpace(c.Param("expenseId"))
	resp, err := s.expenseSvc.GetByID(c.Request.Context(), condominiumID, expenseID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteExpense(c *gin.Context) {
	condominiumID := strings.TrimSpace(c.Param("id"))
	expenseID := strings.TrimSpace(c.Param("expenseId"))
	if err := s.expenseSvc.Delete(c.Request.Context(), condominiumID, expenseID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isExpenseValidationError(err error) bool {
	switch err {
	case expensedomain.ErrInvalidID,
		expensedomain.ErrInvalidAmount,
		expensedomain.ErrInvalidAllocationClass,
		expensedomain.ErrInvalidDescription:
		return true
	default:
		return false
	}
}
