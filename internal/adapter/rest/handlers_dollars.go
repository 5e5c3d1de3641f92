package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

type dollarRequest struct {
	ID        int64   `json:"id"`
	Ubicacion string  `json:"ubicacion" binding:"required"`
	Detalle   string  `json:"detalle"`
	Monto     float64 `json:"monto"`
}

func (s *Server) handleListDollars(c *gin.Context) {
	holdings, err := s.DollarRepo.List(c.Request.Context())
	if err != nil {
		respondStorageError(c, err, "failed to list dollar holdings")
		return
	}

	out := make([]dollarDTO, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, toDollarDTO(h))
	}
	c.JSON(http.StatusOK, gin.H{"dolares": out})
}

func (s *Server) handleCreateDollar(c *gin.Context) {
	var req dollarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holding := &domain.DollarHolding{
		Location:  req.Ubicacion,
		Detail:    req.Detalle,
		AmountUSD: decimal.NewFromFloat(req.Monto),
	}

	if err := s.DollarRepo.Create(c.Request.Context(), holding); err != nil {
		respondStorageError(c, err, "failed to create dollar holding")
		return
	}

	s.syncAfterMutation(c)
	c.JSON(http.StatusCreated, toDollarDTO(holding))
}

func (s *Server) handleUpdateDollar(c *gin.Context) {
	var req dollarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	holding := &domain.DollarHolding{
		ID:        req.ID,
		Location:  req.Ubicacion,
		Detail:    req.Detalle,
		AmountUSD: decimal.NewFromFloat(req.Monto),
	}

	if err := s.DollarRepo.Update(c.Request.Context(), holding); err != nil {
		respondStorageError(c, err, "failed to update dollar holding")
		return
	}

	s.syncAfterMutation(c)
	c.JSON(http.StatusOK, toDollarDTO(holding))
}

func (s *Server) handleDeleteDollar(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.DollarRepo.Delete(c.Request.Context(), req.ID); err != nil {
		respondStorageError(c, err, "failed to delete dollar holding")
		return
	}

	s.syncAfterMutation(c)
	c.JSON(http.StatusOK, gin.H{"deleted": req.ID})
}
