package monitoring

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/service"
	"github.com/Lidan4315/Ideku-sub000/internal/workflow"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MonitoringHandler 成本跟踪处理器
type MonitoringHandler struct {
	monitoringService *service.MonitoringService
}

func NewMonitoringHandler(monitoringService *service.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitoringService: monitoringService}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrPermissionDenied):
		return http.StatusForbidden
	}
	return http.StatusBadRequest
}

// Create 创建成本跟踪
func (h *MonitoringHandler) Create(c *gin.Context) {
	var req model.CreateMonitoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	rows, err := h.monitoringService.CreateMonitoring(&req)
	if err != nil {
		model.HandleError(c, statusFor(err), err, "创建成本跟踪失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(rows))
}

// Extend 延长跟踪周期
func (h *MonitoringHandler) Extend(c *gin.Context) {
	var req model.ExtendMonitoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	rows, err := h.monitoringService.ExtendDuration(&req)
	if err != nil {
		model.HandleError(c, statusFor(err), err, "延长成本跟踪失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(rows))
}

// ListByIdea 提案的全部跟踪记录
func (h *MonitoringHandler) ListByIdea(c *gin.Context) {
	rows, err := h.monitoringService.ListByIdea(c.Param("code"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "查询成本跟踪失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(rows))
}

func monitoringID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}

// UpdateSavings 更新计划/实际节约金额
func (h *MonitoringHandler) UpdateSavings(c *gin.Context) {
	id, err := monitoringID(c)
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "ID格式错误")
		return
	}

	var req model.UpdateCostSavingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	record, err := h.monitoringService.UpdateCostSavings(id, &req, c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "更新节约金额失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(record))
}

// UpdateValidated 核定实际节约金额
func (h *MonitoringHandler) UpdateValidated(c *gin.Context) {
	id, err := monitoringID(c)
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "ID格式错误")
		return
	}

	var req model.UpdateCostSaveValidatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	record, err := h.monitoringService.UpdateCostSaveValidated(id, req.CostSaveValidated, c.GetString("username"))
	if err != nil {
		model.HandleError(c, statusFor(err), err, "核定节约金额失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(record))
}

// Delete 删除跟踪记录
func (h *MonitoringHandler) Delete(c *gin.Context) {
	id, err := monitoringID(c)
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "ID格式错误")
		return
	}

	if err := h.monitoringService.DeleteMonitoring(id, c.GetString("username")); err != nil {
		model.HandleError(c, statusFor(err), err, "删除成本跟踪失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}
