package workflow

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WorkflowHandler 工作流定义维护处理器
type WorkflowHandler struct {
	workflowService *service.WorkflowService
}

func NewWorkflowHandler(workflowService *service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "ID格式错误")
		return 0, false
	}
	return uint(id), true
}

// Create 创建工作流
func (h *WorkflowHandler) Create(c *gin.Context) {
	var wf model.Workflow
	if err := c.ShouldBindJSON(&wf); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if err := h.workflowService.CreateWorkflow(&wf); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "创建工作流失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(wf))
}

// Update 更新工作流
func (h *WorkflowHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var wf model.Workflow
	if err := c.ShouldBindJSON(&wf); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	wf.ID = id
	if err := h.workflowService.UpdateWorkflow(&wf); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "更新工作流失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(wf))
}

// Delete 删除工作流
func (h *WorkflowHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.workflowService.DeleteWorkflow(id); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "删除工作流失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// Get 工作流详情（含阶段与条件）
func (h *WorkflowHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	wf, err := h.workflowService.GetWorkflow(id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, gorm.ErrRecordNotFound) {
			code = http.StatusNotFound
		}
		model.HandleError(c, code, err, "查询工作流失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(wf))
}

// List 工作流列表
func (h *WorkflowHandler) List(c *gin.Context) {
	workflows, err := h.workflowService.ListWorkflows()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询工作流列表失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(workflows))
}

// AddStage 添加阶段
func (h *WorkflowHandler) AddStage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var stage model.WorkflowStage
	if err := c.ShouldBindJSON(&stage); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	stage.WorkflowID = id
	if err := h.workflowService.AddStage(&stage); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "添加阶段失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(stage))
}

// UpdateStage 更新阶段
func (h *WorkflowHandler) UpdateStage(c *gin.Context) {
	stageID, ok := parseID(c, "stageId")
	if !ok {
		return
	}
	var stage model.WorkflowStage
	if err := c.ShouldBindJSON(&stage); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	stage.ID = stageID
	if err := h.workflowService.UpdateStage(&stage); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "更新阶段失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(stage))
}

// DeleteStage 删除阶段（仅最后一个）
func (h *WorkflowHandler) DeleteStage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stageID, ok := parseID(c, "stageId")
	if !ok {
		return
	}
	if err := h.workflowService.DeleteStage(id, stageID); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "删除阶段失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// AddCondition 添加适用条件
func (h *WorkflowHandler) AddCondition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var cond model.WorkflowCondition
	if err := c.ShouldBindJSON(&cond); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	cond.WorkflowID = id
	if err := h.workflowService.AddCondition(&cond); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "添加条件失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(cond))
}

// UpdateCondition 更新适用条件
func (h *WorkflowHandler) UpdateCondition(c *gin.Context) {
	condID, ok := parseID(c, "condId")
	if !ok {
		return
	}
	var cond model.WorkflowCondition
	if err := c.ShouldBindJSON(&cond); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	cond.ID = condID
	if err := h.workflowService.UpdateCondition(&cond); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "更新条件失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(cond))
}

// DeleteCondition 删除适用条件
func (h *WorkflowHandler) DeleteCondition(c *gin.Context) {
	condID, ok := parseID(c, "condId")
	if !ok {
		return
	}
	if err := h.workflowService.DeleteCondition(condID); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "删除条件失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}
