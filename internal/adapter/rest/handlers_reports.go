package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
)

func (s *Server) handlePatrimonio(c *gin.Context) {
	report, err := s.Dashboard.Report(c.Request.Context())
	if err != nil {
		respondStorageError(c, err, "failed to build net-worth report")
		return
	}

	c.JSON(http.StatusOK, toReportDTO(report))
}

func (s *Server) handleSummary(c *gin.Context) {
	year, ok := s.yearParam(c)
	if !ok {
		return
	}

	rows, err := s.Summary.YearSummary(c.Request.Context(), year)
	if err != nil {
		respondStorageError(c, err, "failed to build year summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"anio": year, "meses": toMonthSummaryDTOs(rows)})
}

// handleExchangeRate quotes USD/ARS from the external provider, falling back
// to the stored config value when the provider is unreachable.
func (s *Server) handleExchangeRate(c *gin.Context) {
	rate, err := s.Exchange.RateARS(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"cotizacion": rate.InexactFloat64(), "fuente": "api"})
		return
	}

	log.Warn().Err(err).Str("request_id", c.GetString("request_id")).Msg("exchange rate fetch failed, using stored value")

	stored, cfgErr := s.ConfigRepo.Get(c.Request.Context(), networth.ConfigKeyExchangeRate)
	if cfgErr != nil {
		respondStorageError(c, cfgErr, "failed to read stored exchange rate")
		return
	}

	parsed, parseErr := decimal.NewFromString(stored)
	if parseErr != nil || parsed.IsZero() {
		parsed = networth.DefaultExchangeRate
	}

	c.JSON(http.StatusOK, gin.H{"cotizacion": parsed.InexactFloat64(), "fuente": "config"})
}
