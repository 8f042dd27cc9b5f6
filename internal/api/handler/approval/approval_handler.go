package approval

import (
	"errors"
	"net/http"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/service"
	"github.com/Lidan4315/Ideku-sub000/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApprovalHandler 审批处理器
type ApprovalHandler struct {
	approvalService *service.ApprovalService
}

func NewApprovalHandler(approvalService *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrPermissionDenied), errors.Is(err, workflow.ErrRoleMismatch):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrIdeaTerminal),
		errors.Is(err, workflow.ErrIdeaNotTerminal),
		errors.Is(err, workflow.ErrStageOutOfRange),
		errors.Is(err, workflow.ErrStageNotConfigured),
		errors.Is(err, workflow.ErrWorkflowStageConflict):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Pending 待我审批的提案列表
func (h *ApprovalHandler) Pending(c *gin.Context) {
	ideas, err := h.approvalService.PendingForApprover(c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "查询待审批列表失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(ideas))
}

// Approve 通过审批
func (h *ApprovalHandler) Approve(c *gin.Context) {
	var req struct {
		Comments            string           `json:"comments"`
		ValidatedSavingCost *decimal.Decimal `json:"validated_saving_cost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	idea, err := h.approvalService.Approve(c.Param("code"), c.GetString("username"), req.Comments, req.ValidatedSavingCost)
	if err != nil {
		model.HandleError(c, statusFor(err), err, "审批失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(idea))
}

// Reject 拒绝提案
func (h *ApprovalHandler) Reject(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	idea, err := h.approvalService.Reject(c.Param("code"), c.GetString("username"), req.Reason)
	if err != nil {
		model.HandleError(c, statusFor(err), err, "拒绝提案失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(idea))
}

// Bypass 越级调整提案阶段
func (h *ApprovalHandler) Bypass(c *gin.Context) {
	var req struct {
		TargetStage *int   `json:"target_stage" binding:"required"`
		Reason      string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	idea, err := h.approvalService.BypassStage(c.Param("code"), *req.TargetStage, req.Reason, c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "阶段调整失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(idea))
}

// Reactivate 重新激活被拒绝/失活的提案
func (h *ApprovalHandler) Reactivate(c *gin.Context) {
	idea, err := h.approvalService.Reactivate(c.Param("code"), c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "重新激活失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(idea))
}

// ChangeWorkflow 切换提案工作流
func (h *ApprovalHandler) ChangeWorkflow(c *gin.Context) {
	var req struct {
		WorkflowID uint `json:"workflow_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	idea, err := h.approvalService.ChangeWorkflow(c.Param("code"), req.WorkflowID, c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "切换工作流失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(idea))
}

// History 提案审批历史
func (h *ApprovalHandler) History(c *gin.Context) {
	history, err := h.approvalService.History(c.Param("code"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "查询审批历史失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(history))
}
