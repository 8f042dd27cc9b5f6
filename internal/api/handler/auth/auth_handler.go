package auth

import (
	"errors"
	"net/http"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/Lidan4315/Ideku-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService *service.AuthService
	userRepo    *repository.UserRepository
}

func NewAuthHandler(authService *service.AuthService, userRepo *repository.UserRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	resp, err := h.authService.Login(&req, c.ClientIP())
	if err != nil {
		model.HandleError(c, http.StatusUnauthorized, err, "登录失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(resp))
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "注册失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(user))
}

// SetupTwoFactor 为当前用户生成双因素密钥与二维码
func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	username := c.GetString("username")
	secret, qrCode, err := h.authService.SetupTwoFactor(username)
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "生成双因素密钥失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(gin.H{"secret": secret, "qr_code": qrCode}))
}

type twoFactorCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// EnableTwoFactor 校验验证码后启用双因素认证
func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	var req twoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if err := h.authService.EnableTwoFactor(c.GetString("username"), req.Code); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "启用双因素认证失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// DisableTwoFactor 关闭双因素认证
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	var req twoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if err := h.authService.DisableTwoFactor(c.GetString("username"), req.Code); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "关闭双因素认证失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// Me 当前登录用户信息
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	user, err := h.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			model.HandleError(c, http.StatusNotFound, err, "用户不存在")
			return
		}
		model.HandleError(c, http.StatusInternalServerError, err, "查询用户失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(user))
}
