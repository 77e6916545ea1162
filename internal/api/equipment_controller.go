package api

import (
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/gin-gonic/gin"
)

// EquipmentController 设备控制器
type EquipmentController struct {
	equipmentService service.EquipmentService
}

// NewEquipmentController 创建设备控制器
func NewEquipmentController(equipmentService service.EquipmentService) *EquipmentController {
	return &EquipmentController{equipmentService: equipmentService}
}

// List 设备列表
// @Summary      设备列表
// @Tags         设备
// @Produce      json
// @Param        equipment_type query string false "设备类别"
// @Param        client_id query string false "客户 ID"
// @Param        limit query int false "条数"
// @Param        offset query int false "偏移"
// @Success      200  {object}  Response{data=[]EquipmentResponse}
// @Router       /equipment [get]
// @Security     APIKey
func (ec *EquipmentController) List(c *gin.Context) {
	var query service.EquipmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	items, err := ec.equipmentService.List(c, &query)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]*EquipmentResponse, 0, len(items))
	for _, em := range items {
		out = append(out, newEquipmentResponse(em))
	}
	List(c, out, len(out))
}

// Create 登记设备
// @Summary      登记设备
// @Tags         设备
// @Accept       json
// @Produce      json
// @Param        request body service.CreateEquipmentRequest true "设备信息"
// @Success      201  {object}  Response{data=EquipmentResponse}
// @Failure      400  {object}  Response
// @Failure      404  {object}  Response
// @Router       /equipment [post]
// @Security     APIKey
func (ec *EquipmentController) Create(c *gin.Context) {
	// 必填字段由服务层校验,返回缺失的字段列表
	var req service.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	em, err := ec.equipmentService.Create(c, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	Created(c, newEquipmentResponse(em))
}

// Get 设备详情
// @Summary      设备详情
// @Tags         设备
// @Produce      json
// @Param        id path string true "设备 ID"
// @Success      200  {object}  Response{data=EquipmentResponse}
// @Failure      404  {object}  Response
// @Router       /equipment/{id} [get]
// @Security     APIKey
func (ec *EquipmentController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	em, err := ec.equipmentService.Get(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, newEquipmentResponse(em))
}

// ScheduleInspection 安排检验
// @Summary      为设备安排定期检验
// @Tags         设备
// @Accept       json
// @Produce      json
// @Param        id path string true "设备 ID"
// @Param        request body service.ScheduleInspectionRequest false "检验日期和检验员"
// @Success      201  {object}  Response{data=InspectionResponse}
// @Failure      400  {object}  Response
// @Failure      404  {object}  Response
// @Router       /equipment/{id}/schedule-inspection [post]
// @Security     APIKey
func (ec *EquipmentController) ScheduleInspection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.ScheduleInspectionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	rec, err := ec.equipmentService.ScheduleInspection(c, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	Created(c, newInspectionResponse(rec, true))
}
