package idea

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/Lidan4315/Ideku-sub000/internal/service"
	"github.com/Lidan4315/Ideku-sub000/internal/workflow"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// IdeaHandler 提案处理器
type IdeaHandler struct {
	ideaService *service.IdeaService
}

func NewIdeaHandler(ideaService *service.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideaService: ideaService}
}

// statusFor 把领域错误映射为HTTP状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrPermissionDenied), errors.Is(err, workflow.ErrRoleMismatch):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrNoWorkflowMatched),
		errors.Is(err, workflow.ErrIdeaTerminal),
		errors.Is(err, workflow.ErrIdeaNotTerminal),
		errors.Is(err, workflow.ErrStageOutOfRange),
		errors.Is(err, workflow.ErrStageNotConfigured),
		errors.Is(err, workflow.ErrWorkflowStageConflict):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Create 提交提案
func (h *IdeaHandler) Create(c *gin.Context) {
	var req model.CreateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	idea, err := h.ideaService.CreateIdea(&req, c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "提交提案失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(idea))
}

// List 分页查询提案列表
func (h *IdeaHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.IdeaFilter{
		Status:     c.Query("status"),
		Category:   c.Query("category"),
		DivisionID: c.Query("division_id"),
		Initiator:  c.Query("initiator"),
		Page:       page,
		PageSize:   pageSize,
	}

	items, total, err := h.ideaService.List(filter)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询提案列表失败")
		return
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, model.Success(model.PaginatedResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}))
}

// Detail 提案详情（含审批历史、执行团队与里程碑）
func (h *IdeaHandler) Detail(c *gin.Context) {
	detail, err := h.ideaService.Detail(c.Param("code"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "查询提案详情失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(detail))
}

// Update 编辑提案内容
func (h *IdeaHandler) Update(c *gin.Context) {
	var req model.UpdateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	idea, err := h.ideaService.Update(c.Param("code"), &req, c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "编辑提案失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(idea))
}

// Delete 逻辑删除提案
func (h *IdeaHandler) Delete(c *gin.Context) {
	if err := h.ideaService.Delete(c.Param("code"), c.GetString("username")); err != nil {
		model.HandleError(c, statusFor(err), err, "删除提案失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// AddImplementor 添加执行团队成员
func (h *IdeaHandler) AddImplementor(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	impl, err := h.ideaService.AddImplementor(c.Param("code"), req.Username, req.Role, c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "添加执行团队成员失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(impl))
}

// AddMilestone 添加里程碑
func (h *IdeaHandler) AddMilestone(c *gin.Context) {
	var m model.IdeaMilestone
	if err := c.ShouldBindJSON(&m); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	milestone, err := h.ideaService.AddMilestone(c.Param("code"), &m, c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "添加里程碑失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(milestone))
}
