package master

import (
	"errors"
	"net/http"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MasterHandler 主数据维护：事业部、部门、分类、活动
type MasterHandler struct {
	masterRepo *repository.MasterRepository
}

func NewMasterHandler(masterRepo *repository.MasterRepository) *MasterHandler {
	return &MasterHandler{masterRepo: masterRepo}
}

func statusFor(err error) int {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ===== 事业部 =====

func (h *MasterHandler) CreateDivision(c *gin.Context) {
	var d model.Division
	if err := c.ShouldBindJSON(&d); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if err := h.masterRepo.CreateDivision(&d); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "创建事业部失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(d))
}

func (h *MasterHandler) UpdateDivision(c *gin.Context) {
	var d model.Division
	if err := c.ShouldBindJSON(&d); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	d.ID = c.Param("id")
	if err := h.masterRepo.UpdateDivision(&d); err != nil {
		model.HandleError(c, statusFor(err), err, "更新事业部失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(d))
}

func (h *MasterHandler) DeleteDivision(c *gin.Context) {
	if err := h.masterRepo.DeleteDivision(c.Param("id")); err != nil {
		model.HandleError(c, statusFor(err), err, "删除事业部失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

func (h *MasterHandler) ListDivisions(c *gin.Context) {
	divisions, err := h.masterRepo.ListDivisions()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询事业部失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(divisions))
}

// ===== 部门 =====

func (h *MasterHandler) CreateDepartment(c *gin.Context) {
	var d model.Department
	if err := c.ShouldBindJSON(&d); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if err := h.masterRepo.CreateDepartment(&d); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "创建部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(d))
}

func (h *MasterHandler) UpdateDepartment(c *gin.Context) {
	var d model.Department
	if err := c.ShouldBindJSON(&d); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	d.ID = c.Param("id")
	if err := h.masterRepo.UpdateDepartment(&d); err != nil {
		model.HandleError(c, statusFor(err), err, "更新部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(d))
}

func (h *MasterHandler) DeleteDepartment(c *gin.Context) {
	if err := h.masterRepo.DeleteDepartment(c.Param("id")); err != nil {
		model.HandleError(c, statusFor(err), err, "删除部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// ListDepartments 部门列表，可按事业部过滤
func (h *MasterHandler) ListDepartments(c *gin.Context) {
	departments, err := h.masterRepo.ListDepartments(c.Query("division_id"))
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(departments))
}

// ===== 分类 =====

func (h *MasterHandler) CreateCategory(c *gin.Context) {
	var cat model.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if cat.ID == "" {
		cat.ID = uuid.New().String()
	}
	if err := h.masterRepo.CreateCategory(&cat); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "创建分类失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(cat))
}

func (h *MasterHandler) UpdateCategory(c *gin.Context) {
	var cat model.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	cat.ID = c.Param("id")
	if err := h.masterRepo.UpdateCategory(&cat); err != nil {
		model.HandleError(c, statusFor(err), err, "更新分类失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(cat))
}

func (h *MasterHandler) DeleteCategory(c *gin.Context) {
	if err := h.masterRepo.DeleteCategory(c.Param("id")); err != nil {
		model.HandleError(c, statusFor(err), err, "删除分类失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

func (h *MasterHandler) ListCategories(c *gin.Context) {
	categories, err := h.masterRepo.ListCategories()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询分类失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(categories))
}

// ===== 活动 =====

func (h *MasterHandler) CreateEvent(c *gin.Context) {
	var e model.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if err := h.masterRepo.CreateEvent(&e); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "创建活动失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(e))
}

func (h *MasterHandler) UpdateEvent(c *gin.Context) {
	var e model.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}
	e.ID = c.Param("id")
	if err := h.masterRepo.UpdateEvent(&e); err != nil {
		model.HandleError(c, statusFor(err), err, "更新活动失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(e))
}

func (h *MasterHandler) DeleteEvent(c *gin.Context) {
	if err := h.masterRepo.DeleteEvent(c.Param("id")); err != nil {
		model.HandleError(c, statusFor(err), err, "删除活动失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

func (h *MasterHandler) ListEvents(c *gin.Context) {
	events, err := h.masterRepo.ListEvents()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询活动失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(events))
}
