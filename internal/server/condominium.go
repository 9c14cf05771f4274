package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
)

type createCondominiumRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (s *Server) CreateCondominium(c *gin.Context) {
	var req createCondominiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.condominiumSvc.Create(c.Request.Context(), condominiumdomain.CreateCondominiumRequest{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCondominiums(c *gin.Context) {
	resp, err := s.condominiumSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCondominiumByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.condominiumSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCondominiumRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

func (s *Server) UpdateCondominium(c *gin.Context) {
	var req updateCondominiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.condominiumSvc.Update(c.Request.Context(), id, condominiumdomain.UpdateCondominiumRequest{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createUnitRequest struct {
	Number       string          `json:"number"`
	OwnerName    string          `json:"owner_name"`
	ContactEmail string          `json:"contact_email"`
	Coefficient  decimal.Decimal `json:"coefficient"`
}

func (s *Server) CreateUnit(c *gin.Context) {
	var req createUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	condominiumID := strings.TrimSpace(c.Param("id"))
	resp, err := s.condominiumSvc.CreateUnit(c.Request.Context(), condominiumID, condominiumdomain.CreateUnitRequest{
		Number:       strings.TrimSpace(req.Number),
		OwnerName:    strings.TrimSpace(req.OwnerName),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		Coefficient:  req.Coefficient,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListUnits(c *gin.Context) {
	condominiumID := strings.TrimSpace(c.Param("id"))
	resp, err := s.condominiumSvc.ListUnits(c.Request.Context(), condominiumID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetUnitByID(c *gin.Context) {
	condominiumID := strings.TrimSpace(c.Param("id"))
	unitID := strings.TrimSpace(c.Param("unitId"))
	resp, err := s.condominiumSvc.GetUnitByID(c.Request.Context(), condominiumID, unitID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateUnitRequest struct {
	OwnerName    *string          `json:"owner_name"`
	ContactEmail *string          `json:"contact_email"`
	Coefficient  *decimal.Decimal `json:"coefficient"`
}

func (s *Server) UpdateUnit(c *gin.Context) {
	var req updateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	condominiumID := strings.TrimSpace(c.Param("id"))
	unitID := strings.TrimSpace(c.Param("unitId"))
	resp, err := s.condominiumSvc.UpdateUnit(c.Request.Context(), condominiumID, unitID, condominiumdomain.UpdateUnitRequest{
		OwnerName:    req.OwnerName,
		ContactEmail: req.ContactEmail,
		Coefficient:  req.Coefficient,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCondominiumValidationError(err error) bool {
	switch err {
	case condominiumdomain.ErrInvalidID,
		condominiumdomain.ErrInvalidName,
		condominiumdomain.ErrInvalidNumber,
		condominiumdomain.ErrInvalidCoefficient:
		return true
	default:
		return false
	}
}
