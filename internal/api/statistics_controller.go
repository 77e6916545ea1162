package api

import (
	"context"

	"github.com/ecis/inspection-gin/internal/service"
	"github.com/gin-gonic/gin"
)

// StatisticsController 统计控制器
type StatisticsController struct {
	statisticsService service.StatisticsService
}

// NewStatisticsController 创建统计控制器
func NewStatisticsController(statisticsService service.StatisticsService) *StatisticsController {
	return &StatisticsController{statisticsService: statisticsService}
}

// Summary 总览
// @Summary      检验和报价总览
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response{data=service.Summary}
// @Router       /statistics/summary [get]
// @Security     APIKey
func (sc *StatisticsController) Summary(c *gin.Context) {
	summary, err := sc.statisticsService.GetSummary(c)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, summary)
}

// ByEquipmentType 按设备类别统计
// @Summary      按设备类别统计检验单
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response{data=[]service.CountByKey}
// @Router       /statistics/inspections/by-equipment-type [get]
// @Security     APIKey
func (sc *StatisticsController) ByEquipmentType(c *gin.Context) {
	sc.counts(c, sc.statisticsService.GetInspectionsByEquipmentType)
}

// ByResult 按结论统计
// @Summary      按总体结论统计已完成的检验单
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response{data=[]service.CountByKey}
// @Router       /statistics/inspections/by-result [get]
// @Security     APIKey
func (sc *StatisticsController) ByResult(c *gin.Context) {
	sc.counts(c, sc.statisticsService.GetInspectionsByResult)
}

// ByMonth 按月统计
// @Summary      按月统计检验单
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response{data=[]service.CountByKey}
// @Router       /statistics/inspections/by-month [get]
// @Security     APIKey
func (sc *StatisticsController) ByMonth(c *gin.Context) {
	sc.counts(c, sc.statisticsService.GetInspectionsByMonth)
}

func (sc *StatisticsController) counts(c *gin.Context, fetch func(ctx context.Context) ([]*service.CountByKey, error)) {
	counts, err := fetch(c)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, counts, len(counts))
}
