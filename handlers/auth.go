package handlers

import (
	"net/http"

	"homeserve/services/user"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves phone OTP and admin login.
type AuthHandler struct {
	UserService user.UserService
}

func NewAuthHandler(us user.UserService) *AuthHandler {
	return &AuthHandler{UserService: us}
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	OTP         string `json:"otp" binding:"required,numeric"`
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SendOTP handles POST /api/auth/send-otp.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	phone, err := h.UserService.SendOTP(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("OTP sent", zap.String("phone", utils.MaskPhone(phone)))
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully", "phoneNumber": phone})
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.UserService.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdminLogin handles POST /api/auth/admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.UserService.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
