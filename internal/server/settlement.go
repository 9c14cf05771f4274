package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	settlementdomain "github.com/vecinohq/vecino/internal/settlement/domain"
)

type settlementRequest struct {
	Month           int              `json:"month"`
	Year            int              `json:"year"`
	InterestRate    *decimal.Decimal `json:"interest_rate"`
	ReserveFundRate *decimal.Decimal `json:"reserve_fund_rate"`
}

// toDraftRequest fills omitted rates from the hot-reloadable defaults.
func (s *Server) toDraftRequest(c *gin.Context, req settlementRequest) settlementdomain.DraftRequest {
	defaults := s.settlementDefaults.Get()

	interestRate := defaults.InterestRateDecimal()
	if req.InterestRate != nil {
		interestRate = *req.InterestRate
	}

	reserveFundRate := defaults.ReserveFundRateDecimal()
	if req.ReserveFundRate != nil {
		reserveFundRate = *req.ReserveFundRate
	}

	return settlementdomain.DraftRequest{
		CondominiumID:   strings.TrimSpace(c.Param("id")),
		Month:           req.Month,
		Year:            req.Year,
		InterestRate:    interestRate,
		ReserveFundRate: reserveFundRate,
	}
}

func (s *Server) DraftSettlement(c *gin.Context) {
	var req settlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settlementSvc.ComputeDraft(c.Request.Context(), s.toDraftRequest(c, req))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmSettlement(c *gin.Context) {
	var req settlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settlementSvc.Confirm(c.Request.Context(), s.toDraftRequest(c, req))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSettlements(c *gin.Context) {
	condominiumID := strings.TrimSpace(c.Param("id"))
	resp, err := s.settlementSvc.List(c.Request.Context(), condominiumID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSettlementByPeriod(c *gin.Context) {
	condominiumID := strings.TrimSpace(c.Param("id"))
	period := strings.TrimSpace(c.Param("period"))
	resp, err := s.settlementSvc.GetByPeriod(c.Request.Context(), condominiumID, period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSettlementValidationError(err error) bool {
	switch err {
	case settlementdomain.ErrInvalidPeriod,
		settlementdomain.ErrInvalidRate,
		settlementdomain.ErrNoUnits:
		return true
	default:
		return false
	}
}
