package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
)

type configRequest struct {
	Clave string `json:"clave" binding:"required"`
	Valor string `json:"valor" binding:"required"`
}

func (s *Server) handleGetConfig(c *gin.Context) {
	key := c.Query("clave")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clave is required"})
		return
	}

	value, err := s.ConfigRepo.Get(c.Request.Context(), key)
	if err != nil {
		respondStorageError(c, err, "failed to read config")
		return
	}

	c.JSON(http.StatusOK, gin.H{"clave": key, "valor": value})
}

func (s *Server) handleSetConfig(c *gin.Context) {
	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.ConfigRepo.Set(c.Request.Context(), req.Clave, req.Valor); err != nil {
		respondStorageError(c, err, "failed to write config")
		return
	}

	// A new exchange rate changes today's total, so re-snapshot immediately.
	if req.Clave == networth.ConfigKeyExchangeRate {
		s.syncAfterMutation(c)
	}

	c.JSON(http.StatusOK, gin.H{"clave": req.Clave, "valor": req.Valor})
}
