package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/normalizer"
)

type incomeRequest struct {
	Anio      int     `json:"anio" binding:"required"`
	Mes       int     `json:"mes" binding:"required"`
	Categoria string  `json:"categoria" binding:"required"`
	Monto     float64 `json:"monto"`
}

type expenseRequest struct {
	Anio         int     `json:"anio" binding:"required"`
	Mes          int     `json:"mes" binding:"required"`
	Categoria    string  `json:"categoria" binding:"required"`
	Subcategoria string  `json:"subcategoria"`
	Monto        float64 `json:"monto"`
}

// yearParam reads the ?anio= query parameter, defaulting to the current year
func (s *Server) yearParam(c *gin.Context) (int, bool) {
	raw := c.Query("anio")
	if raw == "" {
		return s.NetWorth.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid anio"})
		return 0, false
	}
	return year, true
}

func validMonth(month int) bool {
	return month >= 1 && month <= 12
}

func (s *Server) handleListIncome(c *gin.Context) {
	year, ok := s.yearParam(c)
	if !ok {
		return
	}

	rows, err := s.IncomeRepo.ListByYear(c.Request.Context(), year)
	if err != nil {
		respondStorageError(c, err, "failed to list income")
		return
	}

	out := make([]incomeDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toIncomeDTO(row))
	}
	c.JSON(http.StatusOK, gin.H{"anio": year, "ingresos": out})
}

func (s *Server) handleUpsertIncome(c *gin.Context) {
	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validMonth(req.Mes) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mes must be between 1 and 12"})
		return
	}

	row := &domain.IncomeRow{
		Year:     req.Anio,
		Month:    req.Mes,
		Category: req.Categoria,
		Amount:   decimal.NewFromFloat(req.Monto),
	}

	if err := s.IncomeRepo.Upsert(c.Request.Context(), row); err != nil {
		respondStorageError(c, err, "failed to upsert income")
		return
	}

	c.JSON(http.StatusOK, toIncomeDTO(row))
}

func (s *Server) handleDeleteIncome(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.IncomeRepo.Delete(c.Request.Context(), req.ID); err != nil {
		respondStorageError(c, err, "failed to delete income")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": req.ID})
}

// handleListExpenses returns the year's expense rows with category labels
// normalized and near-duplicate rows collapsed.
func (s *Server) handleListExpenses(c *gin.Context) {
	year, ok := s.yearParam(c)
	if !ok {
		return
	}

	rows, err := s.ExpenseRepo.ListByYear(c.Request.Context(), year)
	if err != nil {
		respondStorageError(c, err, "failed to list expenses")
		return
	}

	deduped := normalizer.Dedupe(rows)
	out := make([]expenseDTO, 0, len(deduped))
	for _, row := range deduped {
		out = append(out, toExpenseDTO(row))
	}
	c.JSON(http.StatusOK, gin.H{"anio": year, "egresos": out})
}

func (s *Server) handleUpsertExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validMonth(req.Mes) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mes must be between 1 and 12"})
		return
	}

	row := &domain.ExpenseRow{
		Year:        req.Anio,
		Month:       req.Mes,
		Category:    req.Categoria,
		Subcategory: req.Subcategoria,
		Amount:      decimal.NewFromFloat(req.Monto),
	}

	if err := s.ExpenseRepo.Upsert(c.Request.Context(), row); err != nil {
		respondStorageError(c, err, "failed to upsert expense")
		return
	}

	c.JSON(http.StatusOK, toExpenseDTO(row))
}

func (s *Server) handleDeleteExpense(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.ExpenseRepo.Delete(c.Request.Context(), req.ID); err != nil {
		respondStorageError(c, err, "failed to delete expense")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": req.ID})
}
