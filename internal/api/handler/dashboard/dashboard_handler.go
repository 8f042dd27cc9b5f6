package dashboard

import (
	"net/http"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler 仪表盘处理器
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats 汇总指标
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询仪表盘指标失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(stats))
}

// Charts 图表数据
func (h *DashboardHandler) Charts(c *gin.Context) {
	charts, err := h.dashboardService.Charts(c.Request.Context())
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询仪表盘图表失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(charts))
}
