package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmaldonado/patrimonio-backend/internal/adapter/exchange"
	"github.com/dmaldonado/patrimonio-backend/internal/domain"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/dashboard"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/summary"
)

var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	server *Server
	router *gin.Engine

	assetRepo      *MockAssetRepository
	investmentRepo *MockInvestmentRepository
	dollarRepo     *MockDollarRepository
	configRepo     *MockConfigRepository
	snapshotRepo   *MockSnapshotRepository
	expenseRepo    *MockExpenseRepository
	incomeRepo     *MockIncomeRepository
}

func newTestEnv(auth AuthConfig) *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		assetRepo:      new(MockAssetRepository),
		investmentRepo: new(MockInvestmentRepository),
		dollarRepo:     new(MockDollarRepository),
		configRepo:     new(MockConfigRepository),
		snapshotRepo:   new(MockSnapshotRepository),
		expenseRepo:    new(MockExpenseRepository),
		incomeRepo:     new(MockIncomeRepository),
	}

	netWorth := networth.NewService(env.assetRepo, env.investmentRepo, env.dollarRepo, env.configRepo, env.snapshotRepo)
	netWorth.Now = func() time.Time { return testNow }

	dashboardSvc := dashboard.NewService(netWorth, env.incomeRepo, env.expenseRepo)
	dashboardSvc.Now = func() time.Time { return testNow }

	summarySvc := summary.NewService(env.incomeRepo, env.expenseRepo)

	env.server = NewServer(
		netWorth, dashboardSvc, summarySvc,
		env.assetRepo, env.investmentRepo, env.dollarRepo,
		env.configRepo, env.expenseRepo, env.incomeRepo,
		exchange.NewClient(), auth,
	)
	env.router = env.server.Router()
	return env
}

func defaultAuth() AuthConfig {
	return AuthConfig{Password: "secret", JWTSecret: []byte("test-secret")}
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.RemoteAddr = "192.0.2.1:5000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	w := e.do(http.MethodPost, "/api/auth/login", `{"password":"secret"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	return body.Token
}

// stubBreakdownReads primes every repository read the net-worth engine
// performs when computing a breakdown.
func (e *testEnv) stubBreakdownReads() {
	e.assetRepo.On("List", mock.Anything).Return([]*domain.Asset{}, nil)
	e.investmentRepo.On("List", mock.Anything).Return([]*domain.Investment{}, nil)
	e.dollarRepo.On("List", mock.Anything).Return([]*domain.DollarHolding{}, nil)
	e.configRepo.On("Get", mock.Anything, networth.ConfigKeyExchangeRate).Return("1000", nil)
	e.snapshotRepo.On("UpsertByDate", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestLogin(t *testing.T) {
	t.Run("valid password issues token and verify accepts it", func(t *testing.T) {
		env := newTestEnv(defaultAuth())
		token := env.login(t)

		w := env.do(http.MethodGet, "/api/auth/verify", "", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":true`)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		env := newTestEnv(defaultAuth())

		w := env.do(http.MethodPost, "/api/auth/login", `{"password":"wrong"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing password is a bad request", func(t *testing.T) {
		env := newTestEnv(defaultAuth())

		w := env.do(http.MethodPost, "/api/auth/login", `{}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bcrypt hash takes precedence over plain password", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
		assert.NoError(t, err)

		env := newTestEnv(AuthConfig{
			PasswordHash: string(hash),
			Password:     "ignored",
			JWTSecret:    []byte("test-secret"),
		})

		w := env.do(http.MethodPost, "/api/auth/login", `{"password":"hunter2"}`, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(http.MethodPost, "/api/auth/login", `{"password":"ignored"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("attempts beyond the burst are throttled", func(t *testing.T) {
		env := newTestEnv(defaultAuth())

		for i := 0; i < 5; i++ {
			w := env.do(http.MethodPost, "/api/auth/login", `{"password":"wrong"}`, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		}

		w := env.do(http.MethodPost, "/api/auth/login", `{"password":"wrong"}`, "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name  string
		token func(env *testEnv, t *testing.T) string
		want  int
	}{
		{
			name:  "missing token",
			token: func(*testEnv, *testing.T) string { return "" },
			want:  http.StatusUnauthorized,
		},
		{
			name:  "garbage token",
			token: func(*testEnv, *testing.T) string { return "not-a-jwt" },
			want:  http.StatusUnauthorized,
		},
		{
			name: "token signed with another secret",
			token: func(*testEnv, *testing.T) string {
				token, _ := signSessionToken([]byte("other-secret"))
				return token
			},
			want: http.StatusUnauthorized,
		},
		{
			name:  "valid token",
			token: func(env *testEnv, t *testing.T) string { return env.login(t) },
			want:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(defaultAuth())
			env.assetRepo.On("List", mock.Anything).Return([]*domain.Asset{}, nil)

			w := env.do(http.MethodGet, "/api/activos", "", tt.token(env, t))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAssets(t *testing.T) {
	t.Run("list returns the stored records", func(t *testing.T) {
		env := newTestEnv(defaultAuth())
		env.assetRepo.On("List", mock.Anything).Return([]*domain.Asset{
			{
				ID:          1,
				Entity:      "Banco Galicia",
				Kind:        domain.AssetKindAsset,
				Description: "Caja de ahorro",
				Amount:      decimal.NewFromInt(500000),
				Date:        testNow,
			},
		}, nil)

		w := env.do(http.MethodGet, "/api/activos", "", env.login(t))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"entidad":"Banco Galicia"`)
		assert.Contains(t, w.Body.String(), `"monto":500000`)
		assert.Contains(t, w.Body.String(), `"fecha":"2025-06-15"`)
	})

	t.Run("create persists and resyncs the daily snapshot", func(t *testing.T) {
		env := newTestEnv(defaultAuth())
		env.assetRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Asset) bool {
			return a.Entity == "Brubank" && a.Kind == domain.AssetKindAsset
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Asset).ID = 42
		}).Return(nil)
		env.stubBreakdownReads()

		body := `{"entidad":"Brubank","tipo":"ACTIVO","descripcion":"CA USD","monto":120000.50}`
		w := env.do(http.MethodPost, "/api/activos", body, env.login(t))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":42`)
		env.snapshotRepo.AssertCalled(t, "UpsertByDate", mock.Anything, domain.DateOnly(testNow), mock.Anything)
	})

	t.Run("create rejects an unknown kind", func(t *testing.T) {
		env := newTestEnv(defaultAuth())

		body := `{"entidad":"Brubank","tipo":"PLAZO_FIJO","monto":1}`
		w := env.do(http.MethodPost, "/api/activos", body, env.login(t))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.assetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("update of a missing record is a 404", func(t *testing.T) {
		env := newTestEnv(defaultAuth())
		env.assetRepo.On("Update", mock.Anything, mock.Anything).Return(domain.ErrNotFound)

		body := `{"id":99,"entidad":"Brubank","tipo":"ACTIVO","monto":1}`
		w := env.do(http.MethodPut, "/api/activos", body, env.login(t))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete removes by id and resyncs", func(t *testing.T) {
		env := newTestEnv(defaultAuth())
		env.assetRepo.On("Delete", mock.Anything, int64(7)).Return(nil)
		env.stubBreakdownReads()

		w := env.do(http.MethodDelete, "/api/activos", `{"id":7}`, env.login(t))

		assert.Equal(t, http.StatusOK, w.Code)
		env.snapshotRepo.AssertCalled(t, "UpsertByDate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestExpenses(t *testing.T) {
	t.Run("list collapses near-duplicate rows", func(t *testing.T) {
		env := newTestEnv(defaultAuth())
		env.expenseRepo.On("ListByYear", mock.Anything, 2025).Return([]*domain.ExpenseRow{
			{ID: 1, Year: 2025, Month: 3, Category: "Educación", Subcategory: "Pestalozzi Primaria", Amount: decimal.NewFromInt(100), UpdatedAt: testNow.Add(-time.Hour)},
			{ID: 2, Year: 2025, Month: 3, Category: "educacion", Subcategory: "pestalozzi", Amount: decimal.NewFromInt(250), UpdatedAt: testNow},
		}, nil)

		w := env.do(http.MethodGet, "/api/egresos?anio=2025", "", env.login(t))

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Egresos []expenseDTO `json:"egresos"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Egresos, 1)
		assert.Equal(t, int64(2), body.Egresos[0].ID)
		assert.Equal(t, "Educacion", body.Egresos[0].Categoria)
		assert.Equal(t, float64(250), body.Egresos[0].Monto)
	})

	t.Run("upsert validates the month", func(t *testing.T) {
		env := newTestEnv(defaultAuth())

		body := `{"anio":2025,"mes":13,"categoria":"Super","monto":10}`
		w := env.do(http.MethodPost, "/api/egresos", body, env.login(t))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.expenseRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestPatrimonio(t *testing.T) {
	env := newTestEnv(defaultAuth())

	env.assetRepo.On("List", mock.Anything).Return([]*domain.Asset{
		{ID: 1, Entity: "Galicia", Kind: domain.AssetKindAsset, Amount: decimal.NewFromInt(1000000), Date: testNow},
	}, nil)
	env.investmentRepo.On("List", mock.Anything).Return([]*domain.Investment{
		{ID: 1, Type: domain.InvestmentTypeCauciones, Amount: decimal.NewFromInt(200000), Date: testNow},
		{ID: 2, Type: domain.InvestmentTypeAcciones, Amount: decimal.NewFromInt(300000), Date: testNow},
	}, nil)
	env.dollarRepo.On("List", mock.Anything).Return([]*domain.DollarHolding{
		{ID: 1, Location: "Caja fuerte", AmountUSD: decimal.NewFromInt(500)},
	}, nil)
	env.configRepo.On("Get", mock.Anything, networth.ConfigKeyExchangeRate).Return("1000", nil)
	env.snapshotRepo.On("UpsertByDate", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	env.snapshotRepo.On("GetByDate", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	env.snapshotRepo.On("History", mock.Anything, networth.DefaultHistoryLimit).Return([]*domain.Snapshot{
		{ID: 1, Date: domain.DateOnly(testNow), Total: decimal.NewFromInt(2000000)},
	}, nil)
	env.incomeRepo.On("MonthlyTotals", mock.Anything, 2025).Return(map[int]decimal.Decimal{6: decimal.NewFromInt(1000000)}, nil)
	env.expenseRepo.On("ListByYears", mock.Anything, []int{2025}).Return([]*domain.ExpenseRow{
		{ID: 1, Year: 2025, Month: 6, Category: "Super", Amount: decimal.NewFromInt(750000)},
	}, nil)

	w := env.do(http.MethodGet, "/api/patrimonio", "", env.login(t))

	assert.Equal(t, http.StatusOK, w.Code)

	var body reportDTO
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	// 1,000,000 + 300,000 + 200,000 + 500*1000
	assert.Equal(t, float64(2000000), body.Breakdown.TotalARS)
	assert.Equal(t, float64(200000), body.Breakdown.UltimaCaucionARS)
	assert.False(t, body.Comparacion.TieneDatoAyer)
	assert.Len(t, body.Historial, 1)
	assert.NotNil(t, body.Metricas.AhorroMensualPct)
	assert.InDelta(t, 25.0, *body.Metricas.AhorroMensualPct, 0.0001)
	assert.InDelta(t, 100.0, body.Concentracion.ActivosEntidadesPct+
		body.Concentracion.CocosSinCaucionesPct+
		body.Concentracion.UltimaCaucionPct+
		body.Concentracion.DolaresPct, 0.0001)
}

func TestSummary(t *testing.T) {
	env := newTestEnv(defaultAuth())
	env.incomeRepo.On("MonthlyTotals", mock.Anything, 2024).Return(map[int]decimal.Decimal{
		1: decimal.NewFromInt(900000),
	}, nil)
	env.expenseRepo.On("ListByYear", mock.Anything, 2024).Return([]*domain.ExpenseRow{
		{ID: 1, Year: 2024, Month: 1, Category: "Super", Amount: decimal.NewFromInt(400000)},
	}, nil)

	w := env.do(http.MethodGet, "/api/resumen?anio=2024", "", env.login(t))

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Anio  int               `json:"anio"`
		Meses []monthSummaryDTO `json:"meses"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2024, body.Anio)
	assert.Len(t, body.Meses, 12)
	assert.Equal(t, float64(500000), body.Meses[0].Diferencia)
	assert.Equal(t, float64(0), body.Meses[11].Ingresos)
}

func TestExchangeRate(t *testing.T) {
	t.Run("quotes from the provider", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"rates":{"ARS":1234.567}}`)
		}))
		defer provider.Close()

		env := newTestEnv(defaultAuth())
		env.server.Exchange = exchange.NewClientWithEndpoint(provider.URL, time.Hour)

		w := env.do(http.MethodGet, "/api/cotizacion-dolar", "", env.login(t))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"cotizacion":1234.57`)
		assert.Contains(t, w.Body.String(), `"fuente":"api"`)
	})

	t.Run("falls back to the stored value when the provider is down", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		provider.Close()

		env := newTestEnv(defaultAuth())
		env.server.Exchange = exchange.NewClientWithEndpoint(provider.URL, time.Hour)
		env.configRepo.On("Get", mock.Anything, networth.ConfigKeyExchangeRate).Return("1185.50", nil)

		w := env.do(http.MethodGet, "/api/cotizacion-dolar", "", env.login(t))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"cotizacion":1185.5`)
		assert.Contains(t, w.Body.String(), `"fuente":"config"`)
	})
}

func TestSetConfig(t *testing.T) {
	t.Run("exchange rate update resyncs the snapshot", func(t *testing.T) {
		env := newTestEnv(defaultAuth())
		env.configRepo.On("Set", mock.Anything, networth.ConfigKeyExchangeRate, "1500").Return(nil)
		env.stubBreakdownReads()

		body := `{"clave":"cotizacion_dolar","valor":"1500"}`
		w := env.do(http.MethodPut, "/api/config", body, env.login(t))

		assert.Equal(t, http.StatusOK, w.Code)
		env.snapshotRepo.AssertCalled(t, "UpsertByDate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("other keys do not resync", func(t *testing.T) {
		env := newTestEnv(defaultAuth())
		env.configRepo.On("Set", mock.Anything, "moneda_display", "USD").Return(nil)

		body := `{"clave":"moneda_display","valor":"USD"}`
		w := env.do(http.MethodPut, "/api/config", body, env.login(t))

		assert.Equal(t, http.StatusOK, w.Code)
		env.snapshotRepo.AssertNotCalled(t, "UpsertByDate", mock.Anything, mock.Anything, mock.Anything)
	})
}
