package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

type assetRequest struct {
	ID          int64   `json:"id"`
	Entidad     string  `json:"entidad" binding:"required"`
	Tipo        string  `json:"tipo" binding:"required"`
	Descripcion string  `json:"descripcion"`
	Monto       float64 `json:"monto"`
	Fecha       string  `json:"fecha"`
}

type deleteRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// syncAfterMutation recomputes today's snapshot after a write. The write
// itself already succeeded, so a sync failure is logged rather than turned
// into a client-facing error; the next mutation or report request retries it.
func (s *Server) syncAfterMutation(c *gin.Context) {
	if _, err := s.NetWorth.SyncSnapshot(c.Request.Context()); err != nil {
		log.Warn().Err(err).Str("request_id", c.GetString("request_id")).Msg("snapshot sync after mutation failed")
	}
}

func (s *Server) handleListAssets(c *gin.Context) {
	assets, err := s.AssetRepo.List(c.Request.Context())
	if err != nil {
		respondStorageError(c, err, "failed to list assets")
		return
	}

	out := make([]assetDTO, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetDTO(a))
	}
	c.JSON(http.StatusOK, gin.H{"activos": out})
}

func (s *Server) handleCreateAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset := &domain.Asset{
		Entity:      req.Entidad,
		Kind:        domain.AssetKind(req.Tipo),
		Description: req.Descripcion,
		Amount:      decimal.NewFromFloat(req.Monto),
		Date:        parseDate(req.Fecha, s.NetWorth.Now()),
	}
	if err := asset.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.AssetRepo.Create(c.Request.Context(), asset); err != nil {
		respondStorageError(c, err, "failed to create asset")
		return
	}

	s.syncAfterMutation(c)
	c.JSON(http.StatusCreated, toAssetDTO(asset))
}

func (s *Server) handleUpdateAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	asset := &domain.Asset{
		ID:          req.ID,
		Entity:      req.Entidad,
		Kind:        domain.AssetKind(req.Tipo),
		Description: req.Descripcion,
		Amount:      decimal.NewFromFloat(req.Monto),
		Date:        parseDate(req.Fecha, s.NetWorth.Now()),
	}
	if err := asset.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.AssetRepo.Update(c.Request.Context(), asset); err != nil {
		respondStorageError(c, err, "failed to update asset")
		return
	}

	s.syncAfterMutation(c)
	c.JSON(http.StatusOK, toAssetDTO(asset))
}

func (s *Server) handleDeleteAsset(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.AssetRepo.Delete(c.Request.Context(), req.ID); err != nil {
		respondStorageError(c, err, "failed to delete asset")
		return
	}

	s.syncAfterMutation(c)
	c.JSON(http.StatusOK, gin.H{"deleted": req.ID})
}
