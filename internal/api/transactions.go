package api

import (
	"net/http"
	"time"

	"khmerdownload-api/internal/config"
	"khmerdownload-api/internal/database"
	"khmerdownload-api/internal/khqr"
	"khmerdownload-api/internal/middleware"
	"khmerdownload-api/internal/response"
	"khmerdownload-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Probe is the settlement probe used by the verify endpoint. SetupRoutes
// installs the configured one; tests may substitute a scripted probe.
var Probe services.SettlementProbe

// InitTransactionRequest records a payment attempt. The bill number and
// checksum are accepted for clients that build the QR themselves (the
// reference frontend does); when absent the bill number is minted here.
type InitTransactionRequest struct {
	BillNumber   string          `json:"bill_number"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	ProgramID    uint            `json:"program_id" binding:"required"`
	UserID       *uint           `json:"user_id"`
	CustomerName string          `json:"customer_name"`
	MD5          string          `json:"md5"`
}

// InitTransaction creates a PENDING transaction for a payment attempt
func InitTransaction(c *gin.Context) {
	var req InitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	if err := khqr.ValidateAmount(req.Amount); err != nil {
		fail(c, err)
		return
	}

	billNumber := req.BillNumber
	if billNumber == "" {
		billNumber = khqr.NewBillNumber()
	}

	userID := req.UserID
	if userID == nil {
		userID = middleware.UserID(c)
	}

	txService := services.NewTransactionService(database.GetDB())
	tx, err := txService.RecordIntent(billNumber, req.Amount, config.AppConfig.Currency,
		req.ProgramID, userID, req.CustomerName, req.MD5)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(tx))
}

// CheckoutRequest starts a server-built checkout for one program
type CheckoutRequest struct {
	ProgramID    uint   `json:"program_id" binding:"required"`
	CustomerName string `json:"customer_name"`
}

// Checkout builds the KHQR payload for a program and records the intent
func Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	paymentService := services.NewPaymentService(
		database.GetDB(),
		merchantFromConfig(),
		config.AppConfig.Currency,
		config.AppConfig.PaymentExpireSeconds,
	)

	result, err := paymentService.Checkout(req.ProgramID, middleware.UserID(c), req.CustomerName)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// UpdateStatusRequest sets a transaction status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTransactionStatus applies a status to the referenced transaction.
// In production this path belongs to the settlement callback; every call is
// audited either way.
func UpdateTransactionStatus(c *gin.Context) {
	billNumber := c.Param("billNumber")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	txService := services.NewTransactionService(database.GetDB())
	tx, err := txService.UpdateStatus(billNumber, req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, tx)
}

// ListTransactions returns all transactions, newest first. Admin only.
func ListTransactions(c *gin.Context) {
	txService := services.NewTransactionService(database.GetDB())
	txs, err := txService.GetAll()
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessJSON(c, txs)
}

// VerifyTransaction asks the settlement probe about one bill reference and
// settles the row accordingly
func VerifyTransaction(c *gin.Context) {
	billNumber := c.Param("billNumber")

	verifier := services.NewVerificationService(
		database.GetDB(),
		Probe,
		time.Duration(config.AppConfig.PaymentExpireSeconds)*time.Second,
	)

	result, err := verifier.Verify(c.Request.Context(), billNumber)
	if err != nil {
		fail(c, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == services.OutcomeExpired {
		status = http.StatusGone
	}
	c.JSON(status, response.Success(result))
}

func merchantFromConfig() khqr.Merchant {
	return khqr.Merchant{
		BakongAccountID: config.AppConfig.BakongAccountID,
		MerchantName:    config.AppConfig.MerchantName,
		MerchantCity:    config.AppConfig.MerchantCity,
		AcquiringBank:   config.AppConfig.AcquiringBank,
		StoreLabel:      config.AppConfig.StoreLabel,
		TerminalLabel:   config.AppConfig.TerminalLabel,
	}
}
