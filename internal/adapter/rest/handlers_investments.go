package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

type investmentRequest struct {
	ID          int64   `json:"id"`
	Tipo        string  `json:"tipo" binding:"required"`
	Descripcion string  `json:"descripcion"`
	Monto       float64 `json:"monto"`
	Fecha       string  `json:"fecha"`
}

func (s *Server) handleListInvestments(c *gin.Context) {
	investments, err := s.InvestmentRepo.List(c.Request.Context())
	if err != nil {
		respondStorageError(c, err, "failed to list investments")
		return
	}

	out := make([]investmentDTO, 0, len(investments))
	for _, inv := range investments {
		out = append(out, toInvestmentDTO(inv))
	}
	c.JSON(http.StatusOK, gin.H{"inversiones": out})
}

func (s *Server) handleCreateInvestment(c *gin.Context) {
	var req investmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv := &domain.Investment{
		Type:        req.Tipo,
		Description: req.Descripcion,
		Amount:      decimal.NewFromFloat(req.Monto),
		Date:        parseDate(req.Fecha, s.NetWorth.Now()),
	}

	if err := s.InvestmentRepo.Create(c.Request.Context(), inv); err != nil {
		respondStorageError(c, err, "failed to create investment")
		return
	}

	s.syncAfterMutation(c)
	c.JSON(http.StatusCreated, toInvestmentDTO(inv))
}

func (s *Server) handleUpdateInvestment(c *gin.Context) {
	var req investmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	inv := &domain.Investment{
		ID:          req.ID,
		Type:        req.Tipo,
		Description: req.Descripcion,
		Amount:      decimal.NewFromFloat(req.Monto),
		Date:        parseDate(req.Fecha, s.NetWorth.Now()),
	}

	if err := s.InvestmentRepo.Update(c.Request.Context(), inv); err != nil {
		respondStorageError(c, err, "failed to update investment")
		return
	}

	s.syncAfterMutation(c)
	c.JSON(http.StatusOK, toInvestmentDTO(inv))
}

func (s *Server) handleDeleteInvestment(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.InvestmentRepo.Delete(c.Request.Context(), req.ID); err != nil {
		respondStorageError(c, err, "failed to delete investment")
		return
	}

	s.syncAfterMutation(c)
	c.JSON(http.StatusOK, gin.H{"deleted": req.ID})
}
