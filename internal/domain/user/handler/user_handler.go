package handler

import (
	"errors"
	"net/http"

	"cube_market/internal/domain/user/model"
	"cube_market/internal/domain/user/service"
	"cube_market/internal/pkg/otp"
	"cube_market/pkg/response"
	"cube_market/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	Role        int     `json:"role" binding:"omitempty,oneof=1 2 3"`
	CorporateID *string `json:"corporateId"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailInput 邮箱验证输入
type VerifyEmailInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// EmailInput 仅邮箱
type EmailInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput 重置密码输入
type ResetPasswordInput struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdateProfileInput 更新资料输入
type UpdateProfileInput struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatarUrl"`
}

// AdminUpdateUserInput 管理端更新输入
type AdminUpdateUserInput struct {
	Role        int     `json:"role" binding:"omitempty,oneof=1 2 3"`
	CorporateID *string `json:"corporateId"`
	IsVerified  *bool   `json:"isVerified"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 注册：创建未验证用户并发送验证码
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	role := input.Role
	if role == 0 {
		role = model.RoleUser
	}

	user, token, err := h.service.Register(c.Request.Context(), input.Name, input.Email, input.Password, role, input.CorporateID)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, response.ErrUserExists, "Email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, authResponse{Token: token, User: user})
}

// VerifyEmail 提交 6 位验证码
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	var input VerifyEmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), input.Email, input.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			response.Fail(c, response.ErrOTPInvalid, "Invalid or expired verification code")
		case errors.Is(err, service.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, "Email verified")
}

// ResendVerification 重发验证码
func (h *UserHandler) ResendVerification(c *gin.Context) {
	var input EmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.ResendVerification(c.Request.Context(), input.Email); err != nil {
		switch {
		case errors.Is(err, otp.ErrTooFrequent):
			response.Fail(c, response.ErrOTPTooFrequent, "Please wait before requesting another code")
		case errors.Is(err, service.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, "Verification code sent")
}

// Login 登录
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, token, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid email or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, authResponse{Token: token, User: user})
}

// ForgotPassword 发送重置密码验证码
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var input EmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		if errors.Is(err, otp.ErrTooFrequent) {
			response.Fail(c, response.ErrOTPTooFrequent, "Please wait before requesting another code")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, "If the email is registered, a reset code has been sent")
}

// ResetPassword 用验证码重置密码
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), input.Email, input.Code, input.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			response.Fail(c, response.ErrOTPInvalid, "Invalid or expired reset code")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, "Password has been reset")
}

// GetProfile 当前用户资料
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := h.service.GetUser(userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
		return
	}
	response.Success(c, user)
}

// UpdateProfile 更新当前用户资料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	userID := c.GetString("userID")
	user, err := h.service.UpdateProfile(userID, input.Name, input.Phone, input.AvatarURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// ListUsers 管理端用户列表
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filters := map[string]interface{}{}
	if v := c.Query("role"); v != "" {
		filters["role"] = v
	}
	if v := c.Query("corporate_id"); v != "" {
		filters["corporate_id"] = v
	}
	if v := c.Query("is_verified"); v != "" {
		filters["is_verified"] = v == "true"
	}

	users, total, err := h.service.ListUsers(&q, filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{List: users, Total: total, Page: q.Page, Limit: q.Limit})
}

// GetUser 管理端获取单个用户
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// UpdateUser 管理端更新用户
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var input AdminUpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.UpdateUser(c.Param("id"), input.Role, input.CorporateID, input.IsVerified)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// DeleteUser 管理端删除用户
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.service.DeleteUser(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "User deleted")
}
