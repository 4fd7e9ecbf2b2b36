package api

import (
	"net/http"

	"khmerdownload-api/internal/database"
	"khmerdownload-api/internal/response"
	"khmerdownload-api/internal/services"

	"github.com/gin-gonic/gin"
)

// Mailer delivers OTP codes; SetupRoutes installs the Brevo one and tests
// substitute their own.
var Mailer services.OTPMailer

// LoginRequest is the admin username/password login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an admin and returns a token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	userService := newUserService()
	result, err := userService.Login(req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, result)
}

// RequestOTPRequest asks for a sign-in code by email
type RequestOTPRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
}

// RequestOTP emails a sign-in code, registering the account if needed
func RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	userService := newUserService()
	if err := userService.RequestOTP(c.Request.Context(), req.Email, req.Username); err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, gin.H{"message": "OTP sent to your email", "email": req.Email})
}

// VerifyOTPRequest completes the OTP sign-in
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyOTP checks the emailed code and returns a token
func VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	userService := newUserService()
	result, err := userService.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessJSON(c, result)
}

func newUserService() *services.UserService {
	return services.NewUserService(
		database.GetDB(),
		services.NewRedisService(database.GetRedis()),
		Mailer,
	)
}
