package system

import (
	"errors"
	"net/http"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler 用户与角色维护
type UserHandler struct {
	userRepo *repository.UserRepository
	roleRepo *repository.RoleRepository
}

func NewUserHandler(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func statusFor(err error) int {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ListUsers 用户列表
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.ListUsers()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询用户失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(users))
}

// CreateUser 管理员创建用户，可指定角色
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Password string `json:"password" binding:"required,min=6"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		RoleName string `json:"role_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	roleName := model.RoleName(req.RoleName)
	if !roleName.Valid() {
		model.HandleError(c, http.StatusBadRequest, nil, "非法的角色名")
		return
	}
	role, err := h.roleRepo.FindByName(roleName)
	if err != nil {
		model.HandleError(c, statusFor(err), err, "查找角色失败")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "密码加密失败")
		return
	}

	user := &model.User{
		ID:       uuid.New().String(),
		Username: req.Username,
		Password: string(hashedPassword),
		Email:    req.Email,
		FullName: req.FullName,
		RoleID:   role.ID,
		Status:   "active",
	}
	if err := h.userRepo.CreateUser(user); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "创建用户失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(user))
}

// UpdateUser 管理员更新用户状态或角色
func (h *UserHandler) UpdateUser(c *gin.Context) {
	user, err := h.userRepo.FindUserByID(c.Param("id"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "查询用户失败")
		return
	}

	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Status   string `json:"status"`
		RoleName string `json:"role_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	if req.RoleName != "" {
		roleName := model.RoleName(req.RoleName)
		if !roleName.Valid() {
			model.HandleError(c, http.StatusBadRequest, nil, "非法的角色名")
			return
		}
		role, err := h.roleRepo.FindByName(roleName)
		if err != nil {
			model.HandleError(c, statusFor(err), err, "查找角色失败")
			return
		}
		user.RoleID = role.ID
		user.Role = nil
	}

	if err := h.userRepo.UpdateUser(user); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "更新用户失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(user))
}

// DeleteUser 删除用户
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userRepo.DeleteUser(c.Param("id")); err != nil {
		model.HandleError(c, statusFor(err), err, "删除用户失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// ListRoles 内置角色列表
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleRepo.FindAll()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询角色失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(roles))
}
