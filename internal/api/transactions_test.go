package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"khmerdownload-api/internal/config"
	"khmerdownload-api/internal/database"
	"khmerdownload-api/internal/models"
	"khmerdownload-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type fakeMailer struct{}

func (fakeMailer) SendOTPEmail(ctx context.Context, to, code string, expireMinutes int) error {
	return nil
}

type confirmProbe struct{}

func (confirmProbe) CheckSettlement(ctx context.Context, billNumber string) (services.SettlementResult, error) {
	return services.SettlementConfirmed, nil
}

// setupRouter wires the full route table against a fresh in-memory database.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	require.NoError(t, config.InitConfig())
	config.AppConfig.UploadDir = t.TempDir()
	config.AppConfig.BakongAccountID = "pong_chiva@bkrt"
	config.AppConfig.MerchantName = "PONG CHIVA"

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Program{},
		&models.Video{},
		&models.Transaction{},
		&models.Feedback{},
	))
	database.DB = db

	Probe = confirmProbe{}
	Mailer = fakeMailer{}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r)
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()

	claims := jwt.MapClaims{
		"id":       float64(1),
		"username": "admin",
		"role":     models.RoleAdmin,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.AppConfig.JWTSecret))
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Test_TransactionEndpoints(t *testing.T) {
	t.Run("InitListUpdateScenario", func(t *testing.T) {
		r := setupRouter(t)
		token := adminToken(t)

		// Record a $10.99 intent for program 42.
		w := doJSON(r, http.MethodPost, "/api/transactions/init", "", gin.H{
			"amount":     10.99,
			"program_id": 42,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created struct {
			Data models.Transaction `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, models.StatusPending, created.Data.Status)
		assert.Equal(t, uint(42), created.Data.ProgramID)
		assert.NotEmpty(t, created.Data.BillNumber)

		// Admin listing shows exactly that record.
		w = doJSON(r, http.MethodGet, "/api/transactions", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var listed struct {
			Data []models.Transaction `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
		require.Len(t, listed.Data, 1)
		assert.Equal(t, created.Data.BillNumber, listed.Data[0].BillNumber)
		assert.True(t, listed.Data[0].Amount.Equal(decimal.NewFromFloat(10.99)))

		// Settlement callback flips it to SUCCESS.
		w = doJSON(r, http.MethodPatch, "/api/transactions/status/"+created.Data.BillNumber, "", gin.H{
			"status": "SUCCESS",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(r, http.MethodGet, "/api/transactions", token, nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
		require.Len(t, listed.Data, 1)
		assert.Equal(t, models.StatusSuccess, listed.Data[0].Status)
	})

	t.Run("ListingIsAdminOnly", func(t *testing.T) {
		r := setupRouter(t)

		w := doJSON(r, http.MethodGet, "/api/transactions", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidAmountCreatesNoRecord", func(t *testing.T) {
		r := setupRouter(t)
		token := adminToken(t)

		for _, amount := range []float64{0, -5} {
			w := doJSON(r, http.MethodPost, "/api/transactions/init", "", gin.H{
				"amount":     amount,
				"program_id": 42,
			})
			assert.Equal(t, http.StatusBadRequest, w.Code, "amount %v", amount)
		}

		w := doJSON(r, http.MethodGet, "/api/transactions", token, nil)
		var listed struct {
			Data []models.Transaction `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
		assert.Empty(t, listed.Data)
	})

	t.Run("DuplicateBillNumberConflicts", func(t *testing.T) {
		r := setupRouter(t)

		body := gin.H{"bill_number": "KH-DUP-1", "amount": 5, "program_id": 1}
		w := doJSON(r, http.MethodPost, "/api/transactions/init", "", body)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(r, http.MethodPost, "/api/transactions/init", "", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("UpdateUnknownBillNumber", func(t *testing.T) {
		r := setupRouter(t)

		w := doJSON(r, http.MethodPatch, "/api/transactions/status/KH-MISSING", "", gin.H{
			"status": "SUCCESS",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("VerifyConfirmsAndReturnsLocator", func(t *testing.T) {
		r := setupRouter(t)

		program := models.Program{
			Title:               "Khmer Keyboard Pro",
			Price:               decimal.NewFromFloat(10.99),
			IsPaid:              true,
			ExternalDownloadURL: "https://cdn.example.com/keyboard-pro.zip",
		}
		require.NoError(t, database.DB.Create(&program).Error)

		w := doJSON(r, http.MethodPost, "/api/transactions/checkout", "", gin.H{
			"program_id": program.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var checkout struct {
			Data services.CheckoutResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkout))
		assert.NotEmpty(t, checkout.Data.QR)
		assert.Equal(t, 120, checkout.Data.ExpiresIn)

		w = doJSON(r, http.MethodPost, "/api/transactions/verify/"+checkout.Data.BillNumber, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var verified struct {
			Data services.VerificationResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verified))
		assert.Equal(t, services.OutcomeConfirmed, verified.Data.Outcome)
		assert.Equal(t, "https://cdn.example.com/keyboard-pro.zip", verified.Data.DownloadLocator)
	})

	t.Run("VerifyUnknownBillNumber", func(t *testing.T) {
		r := setupRouter(t)

		w := doJSON(r, http.MethodPost, "/api/transactions/verify/KH-MISSING", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
