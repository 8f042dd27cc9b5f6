package master

import (
	"net/http"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApproverHandler 审批人与审批级别维护
type ApproverHandler struct {
	approverRepo *repository.ApproverRepository
	levelRepo    *repository.LevelRepository
}

func NewApproverHandler(approverRepo *repository.ApproverRepository, levelRepo *repository.LevelRepository) *ApproverHandler {
	return &ApproverHandler{
		approverRepo: approverRepo,
		levelRepo:    levelRepo,
	}
}

// ===== 审批人 =====

func (h *ApproverHandler) CreateApprover(c *gin.Context) {
	var a model.Approver
	if err := c.ShouldBindJSON(&a); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if err := h.approverRepo.Create(&a); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "创建审批人失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(a))
}

func (h *ApproverHandler) UpdateApprover(c *gin.Context) {
	var a model.Approver
	if err := c.ShouldBindJSON(&a); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	a.ID = c.Param("id")
	if err := h.approverRepo.Update(&a); err != nil {
		model.HandleError(c, statusFor(err), err, "更新审批人失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(a))
}

func (h *ApproverHandler) DeleteApprover(c *gin.Context) {
	if err := h.approverRepo.Delete(c.Param("id")); err != nil {
		model.HandleError(c, statusFor(err), err, "删除审批人失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

func (h *ApproverHandler) ListApprovers(c *gin.Context) {
	approvers, err := h.approverRepo.FindAll()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询审批人失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(approvers))
}

// AddApproverRole 绑定审批人与审批角色
func (h *ApproverHandler) AddApproverRole(c *gin.Context) {
	var req struct {
		RoleName string `json:"role_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if !model.RoleName(req.RoleName).Valid() {
		model.HandleError(c, http.StatusBadRequest, nil, "非法的审批角色")
		return
	}

	role := &model.ApproverRole{
		ID:         uuid.New().String(),
		ApproverID: c.Param("id"),
		RoleName:   req.RoleName,
	}
	if err := h.approverRepo.AddRole(role); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "绑定审批角色失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(role))
}

// RemoveApproverRole 解绑审批角色
func (h *ApproverHandler) RemoveApproverRole(c *gin.Context) {
	if err := h.approverRepo.RemoveRole(c.Param("id"), c.Param("roleName")); err != nil {
		model.HandleError(c, statusFor(err), err, "解绑审批角色失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// ===== 审批级别 =====

func (h *ApproverHandler) CreateLevel(c *gin.Context) {
	var l model.Level
	if err := c.ShouldBindJSON(&l); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if err := h.levelRepo.Create(&l); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "创建审批级别失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(l))
}

func (h *ApproverHandler) UpdateLevel(c *gin.Context) {
	var l model.Level
	if err := c.ShouldBindJSON(&l); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	l.ID = c.Param("id")
	if err := h.levelRepo.Update(&l); err != nil {
		model.HandleError(c, statusFor(err), err, "更新审批级别失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(l))
}

func (h *ApproverHandler) DeleteLevel(c *gin.Context) {
	if err := h.levelRepo.Delete(c.Param("id")); err != nil {
		model.HandleError(c, statusFor(err), err, "删除审批级别失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

func (h *ApproverHandler) ListLevels(c *gin.Context) {
	levels, err := h.levelRepo.FindAll()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询审批级别失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(levels))
}

// AssignLevelApprover 将审批人分配到级别
func (h *ApproverHandler) AssignLevelApprover(c *gin.Context) {
	var req struct {
		ApproverID string `json:"approver_id" binding:"required"`
		RoleName   string `json:"role_name" binding:"required"`
		IsPrimary  *bool  `json:"is_primary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	isPrimary := true
	if req.IsPrimary != nil {
		isPrimary = *req.IsPrimary
	}
	la := &model.LevelApprover{
		ID:         uuid.New().String(),
		LevelID:    c.Param("id"),
		ApproverID: req.ApproverID,
		RoleName:   req.RoleName,
		IsPrimary:  isPrimary,
	}
	if err := h.levelRepo.AssignApprover(la); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "分配审批人失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(la))
}

// UnassignLevelApprover 从级别移除审批人
func (h *ApproverHandler) UnassignLevelApprover(c *gin.Context) {
	if err := h.levelRepo.UnassignApprover(c.Param("id"), c.Param("approverId")); err != nil {
		model.HandleError(c, statusFor(err), err, "移除审批人失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// ListLevelApprovers 级别下的审批人列表
func (h *ApproverHandler) ListLevelApprovers(c *gin.Context) {
	approvers, err := h.levelRepo.ListApprovers(c.Param("id"))
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询级别审批人失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(approvers))
}
