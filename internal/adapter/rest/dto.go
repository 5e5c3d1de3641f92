package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/dashboard"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/metrics"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/summary"
)

const dateLayout = "2006-01-02"

// Response DTOs use Spanish field names and plain JSON numbers, matching what
// the frontend renders. Amounts leave the decimal domain only here, at the
// display boundary.

type assetDTO struct {
	ID          int64   `json:"id"`
	Entidad     string  `json:"entidad"`
	Tipo        string  `json:"tipo"`
	Descripcion string  `json:"descripcion"`
	Monto       float64 `json:"monto"`
	Fecha       string  `json:"fecha"`
}

func toAssetDTO(a *domain.Asset) assetDTO {
	return assetDTO{
		ID:          a.ID,
		Entidad:     a.Entity,
		Tipo:        string(a.Kind),
		Descripcion: a.Description,
		Monto:       a.Amount.InexactFloat64(),
		Fecha:       a.Date.Format(dateLayout),
	}
}

type investmentDTO struct {
	ID          int64   `json:"id"`
	Tipo        string  `json:"tipo"`
	Descripcion string  `json:"descripcion"`
	Monto       float64 `json:"monto"`
	Fecha       string  `json:"fecha"`
}

func toInvestmentDTO(i *domain.Investment) investmentDTO {
	return investmentDTO{
		ID:          i.ID,
		Tipo:        i.Type,
		Descripcion: i.Description,
		Monto:       i.Amount.InexactFloat64(),
		Fecha:       i.Date.Format(dateLayout),
	}
}

type dollarDTO struct {
	ID        int64   `json:"id"`
	Ubicacion string  `json:"ubicacion"`
	Detalle   string  `json:"detalle"`
	Monto     float64 `json:"monto"`
}

func toDollarDTO(d *domain.DollarHolding) dollarDTO {
	return dollarDTO{
		ID:        d.ID,
		Ubicacion: d.Location,
		Detalle:   d.Detail,
		Monto:     d.AmountUSD.InexactFloat64(),
	}
}

type expenseDTO struct {
	ID           int64   `json:"id"`
	Anio         int     `json:"anio"`
	Mes          int     `json:"mes"`
	Categoria    string  `json:"categoria"`
	Subcategoria string  `json:"subcategoria"`
	Monto        float64 `json:"monto"`
}

func toExpenseDTO(e *domain.ExpenseRow) expenseDTO {
	return expenseDTO{
		ID:           e.ID,
		Anio:         e.Year,
		Mes:          e.Month,
		Categoria:    e.Category,
		Subcategoria: e.Subcategory,
		Monto:        e.Amount.InexactFloat64(),
	}
}

type incomeDTO struct {
	ID        int64   `json:"id"`
	Anio      int     `json:"anio"`
	Mes       int     `json:"mes"`
	Categoria string  `json:"categoria"`
	Monto     float64 `json:"monto"`
}

func toIncomeDTO(i *domain.IncomeRow) incomeDTO {
	return incomeDTO{
		ID:        i.ID,
		Anio:      i.Year,
		Mes:       i.Month,
		Categoria: i.Category,
		Monto:     i.Amount.InexactFloat64(),
	}
}

type snapshotDTO struct {
	Fecha    string  `json:"fecha"`
	TotalARS float64 `json:"total_ars"`
}

func toSnapshotDTOs(snapshots []*domain.Snapshot) []snapshotDTO {
	out := make([]snapshotDTO, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, snapshotDTO{
			Fecha:    s.Date.Format(dateLayout),
			TotalARS: s.Total.InexactFloat64(),
		})
	}
	return out
}

type breakdownDTO struct {
	ActivosARS                    float64 `json:"activos_ars"`
	InversionesCocosSinCaucionARS float64 `json:"inversiones_cocos_sin_cauciones_ars"`
	UltimaCaucionARS              float64 `json:"ultima_caucion_ars"`
	UltimaCaucionFecha            *string `json:"ultima_caucion_fecha"`
	DolaresUSD                    float64 `json:"dolares_usd"`
	CotizacionDolar               float64 `json:"cotizacion_dolar"`
	DolaresARS                    float64 `json:"dolares_ars"`
	TotalARS                      float64 `json:"total_ars"`
}

func toBreakdownDTO(b networth.Breakdown) breakdownDTO {
	var caucionFecha *string
	if b.LatestCaucionDate != nil {
		f := b.LatestCaucionDate.Format(dateLayout)
		caucionFecha = &f
	}
	return breakdownDTO{
		ActivosARS:                    b.AssetsARS.InexactFloat64(),
		InversionesCocosSinCaucionARS: b.InvestmentsExCaucionARS.InexactFloat64(),
		UltimaCaucionARS:              b.LatestCaucionARS.InexactFloat64(),
		UltimaCaucionFecha:            caucionFecha,
		DolaresUSD:                    b.DollarsUSD.InexactFloat64(),
		CotizacionDolar:               b.ExchangeRate.InexactFloat64(),
		DolaresARS:                    b.DollarsARS.InexactFloat64(),
		TotalARS:                      b.TotalARS.InexactFloat64(),
	}
}

type comparisonDTO struct {
	HoyFecha      string   `json:"hoy_fecha"`
	AyerFecha     string   `json:"ayer_fecha"`
	HoyTotalARS   float64  `json:"hoy_total_ars"`
	AyerTotalARS  float64  `json:"ayer_total_ars"`
	VariacionARS  float64  `json:"variacion_ars"`
	VariacionPct  *float64 `json:"variacion_pct"`
	TieneDatoAyer bool     `json:"tiene_dato_ayer"`
}

func toComparisonDTO(c networth.Comparison) comparisonDTO {
	return comparisonDTO{
		HoyFecha:      c.TodayDate.Format(dateLayout),
		AyerFecha:     c.YesterdayDate.Format(dateLayout),
		HoyTotalARS:   c.TodayTotalARS.InexactFloat64(),
		AyerTotalARS:  c.YesterdayTotalARS.InexactFloat64(),
		VariacionARS:  c.VariationARS.InexactFloat64(),
		VariacionPct:  c.VariationPct,
		TieneDatoAyer: c.HasYesterdayData,
	}
}

type metricsDTO struct {
	AhorroMensualPct    *float64 `json:"ahorro_mensual_pct"`
	RunwayMeses         *float64 `json:"runway_meses"`
	IngresosMesActual   float64  `json:"ingresos_mes_actual_ars"`
	EgresosMesActual    float64  `json:"egresos_mes_actual_ars"`
	EgresoPromedio3mARS float64  `json:"egreso_promedio_3m_ars"`
	ScoreFinanciero100  float64  `json:"score_financiero_100"`
}

func toMetricsDTO(m metrics.Metrics) metricsDTO {
	return metricsDTO{
		AhorroMensualPct:    m.SavingsRatePct,
		RunwayMeses:         m.RunwayMonths,
		IngresosMesActual:   m.IncomeThisMonthARS.InexactFloat64(),
		EgresosMesActual:    m.ExpenseThisMonthARS.InexactFloat64(),
		EgresoPromedio3mARS: m.AvgExpenseARS.InexactFloat64(),
		ScoreFinanciero100:  m.Score,
	}
}

type concentrationDTO struct {
	ActivosEntidadesPct  float64 `json:"activos_e_inversiones_entidades_pct"`
	CocosSinCaucionesPct float64 `json:"cocos_sin_cauciones_pct"`
	UltimaCaucionPct     float64 `json:"ultima_caucion_pct"`
	DolaresPct           float64 `json:"dolares_pct"`
}

func toConcentrationDTO(c metrics.Concentration) concentrationDTO {
	return concentrationDTO{
		ActivosEntidadesPct:  c.AssetsPct,
		CocosSinCaucionesPct: c.InvestmentsExCaucionPct,
		UltimaCaucionPct:     c.LatestCaucionPct,
		DolaresPct:           c.DollarsPct,
	}
}

type reportDTO struct {
	Breakdown     breakdownDTO     `json:"breakdown"`
	Comparacion   comparisonDTO    `json:"comparacion"`
	Historial     []snapshotDTO    `json:"historial"`
	Metricas      metricsDTO       `json:"metricas"`
	Concentracion concentrationDTO `json:"concentracion"`
}

func toReportDTO(r *dashboard.Report) reportDTO {
	return reportDTO{
		Breakdown:     toBreakdownDTO(r.Breakdown),
		Comparacion:   toComparisonDTO(r.Comparison),
		Historial:     toSnapshotDTOs(r.History),
		Metricas:      toMetricsDTO(r.Metrics),
		Concentracion: toConcentrationDTO(r.Concentration),
	}
}

type monthSummaryDTO struct {
	Mes        int     `json:"mes"`
	Ingresos   float64 `json:"ingresos"`
	Egresos    float64 `json:"egresos"`
	Diferencia float64 `json:"diferencia"`
}

func toMonthSummaryDTOs(rows []summary.MonthSummary) []monthSummaryDTO {
	out := make([]monthSummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, monthSummaryDTO{
			Mes:        row.Month,
			Ingresos:   row.IncomeARS.InexactFloat64(),
			Egresos:    row.ExpenseARS.InexactFloat64(),
			Diferencia: row.DifferenceARS.InexactFloat64(),
		})
	}
	return out
}

// respondStorageError maps a repository error to 404 or 500, logging the
// cause so "could not read data" is distinguishable from "no data" in logs.
func respondStorageError(c *gin.Context, err error, msg string) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// parseDate parses an optional YYYY-MM-DD value, defaulting to now
func parseDate(value string, now time.Time) time.Time {
	if value == "" {
		return domain.DateOnly(now)
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return domain.DateOnly(now)
	}
	return parsed
}
