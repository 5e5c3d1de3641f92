package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/dmaldonado/patrimonio-backend/internal/adapter/exchange"
	"github.com/dmaldonado/patrimonio-backend/internal/domain"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/dashboard"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/summary"
)

// AuthConfig holds the shared-password login settings
type AuthConfig struct {
	// PasswordHash is the bcrypt hash of the shared password. When set it
	// takes precedence over Password.
	PasswordHash string
	// Password is the plain shared password, compared in constant time.
	// Intended for local development only.
	Password  string
	JWTSecret []byte
}

// Server wires the usecase services and repositories into the REST surface
type Server struct {
	NetWorth  *networth.Service
	Dashboard *dashboard.Service
	Summary   *summary.Service

	AssetRepo      domain.AssetRepository
	InvestmentRepo domain.InvestmentRepository
	DollarRepo     domain.DollarRepository
	ConfigRepo     domain.ConfigRepository
	ExpenseRepo    domain.ExpenseRepository
	IncomeRepo     domain.IncomeRepository

	Exchange *exchange.Client
	Auth     AuthConfig

	loginLimiter *loginLimiter
}

// NewServer creates a new REST server instance
func NewServer(
	netWorth *networth.Service,
	dashboardSvc *dashboard.Service,
	summarySvc *summary.Service,
	assetRepo domain.AssetRepository,
	investmentRepo domain.InvestmentRepository,
	dollarRepo domain.DollarRepository,
	configRepo domain.ConfigRepository,
	expenseRepo domain.ExpenseRepository,
	incomeRepo domain.IncomeRepository,
	exchangeClient *exchange.Client,
	auth AuthConfig,
) *Server {
	return &Server{
		NetWorth:       netWorth,
		Dashboard:      dashboardSvc,
		Summary:        summarySvc,
		AssetRepo:      assetRepo,
		InvestmentRepo: investmentRepo,
		DollarRepo:     dollarRepo,
		ConfigRepo:     configRepo,
		ExpenseRepo:    expenseRepo,
		IncomeRepo:     incomeRepo,
		Exchange:       exchangeClient,
		Auth:           auth,
		loginLimiter:   newLoginLimiter(),
	}
}

// Router builds the gin engine with all routes and middleware registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger())

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	api.POST("/auth/login", s.handleLogin)
	api.GET("/auth/verify", s.handleVerify)

	authed := api.Group("")
	authed.Use(AuthRequired(s.Auth.JWTSecret))

	authed.GET("/activos", s.handleListAssets)
	authed.POST("/activos", s.handleCreateAsset)
	authed.PUT("/activos", s.handleUpdateAsset)
	authed.DELETE("/activos", s.handleDeleteAsset)

	authed.GET("/inversiones", s.handleListInvestments)
	authed.POST("/inversiones", s.handleCreateInvestment)
	authed.PUT("/inversiones", s.handleUpdateInvestment)
	authed.DELETE("/inversiones", s.handleDeleteInvestment)

	authed.GET("/dolares", s.handleListDollars)
	authed.POST("/dolares", s.handleCreateDollar)
	authed.PUT("/dolares", s.handleUpdateDollar)
	authed.DELETE("/dolares", s.handleDeleteDollar)

	authed.GET("/config", s.handleGetConfig)
	authed.PUT("/config", s.handleSetConfig)

	authed.GET("/ingresos", s.handleListIncome)
	authed.POST("/ingresos", s.handleUpsertIncome)
	authed.DELETE("/ingresos", s.handleDeleteIncome)

	authed.GET("/egresos", s.handleListExpenses)
	authed.POST("/egresos", s.handleUpsertExpense)
	authed.DELETE("/egresos", s.handleDeleteExpense)

	authed.GET("/patrimonio", s.handlePatrimonio)
	authed.GET("/resumen", s.handleSummary)
	authed.GET("/cotizacion-dolar", s.handleExchangeRate)

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
