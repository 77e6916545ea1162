package api

import (
	"encoding/base64"
	"net/http"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/ecis/inspection-gin/internal/utils"
	"github.com/gin-gonic/gin"
)

// InspectionController 检验单控制器
type InspectionController struct {
	inspectionService service.InspectionService
}

// NewInspectionController 创建检验单控制器
func NewInspectionController(inspectionService service.InspectionService) *InspectionController {
	return &InspectionController{
		inspectionService: inspectionService,
	}
}

// pathID 读取并校验路径参数,无效时已写入响应
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if err := utils.ValidateID(id); err != nil {
		handleError(c, err)
		return "", false
	}
	return id, true
}

// List 查询检验单
// @Summary      检验单列表
// @Description  按状态、日期范围和设备过滤检验单,不含检查项
// @Tags         检验单
// @Produce      json
// @Param        state query string false "状态" Enums(draft, in_progress, completed, sent, cancelled)
// @Param        date_from query string false "起始日期 YYYY-MM-DD"
// @Param        date_to query string false "结束日期 YYYY-MM-DD"
// @Param        equipment_id query string false "设备 ID"
// @Param        client_id query string false "客户 ID"
// @Param        limit query int false "条数" default(50)
// @Param        offset query int false "偏移"
// @Success      200  {object}  Response{data=[]InspectionResponse}
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Router       /inspections [get]
// @Security     APIKey
func (ic *InspectionController) List(c *gin.Context) {
	var query service.InspectionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	recs, err := ic.inspectionService.List(c, &query)
	if err != nil {
		handleError(c, err)
		return
	}

	List(c, newInspectionList(recs), len(recs))
}

// Create 创建检验单
// @Summary      创建检验单
// @Description  为设备创建草稿检验单,未提供 checklist 时按设备类别从模板生成
// @Tags         检验单
// @Accept       json
// @Produce      json
// @Param        request body service.CreateInspectionRequest true "检验单信息"
// @Success      201  {object}  Response{data=InspectionResponse}
// @Failure      400  {object}  Response
// @Failure      404  {object}  Response
// @Router       /inspections [post]
// @Security     APIKey
func (ic *InspectionController) Create(c *gin.Context) {
	var req service.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rec, err := ic.inspectionService.Create(c, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	Created(c, newInspectionResponse(rec, true))
}

// Get 获取检验单
// @Summary      检验单详情
// @Tags         检验单
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Param        include_checklist query bool false "是否返回检查项"
// @Success      200  {object}  Response{data=InspectionResponse}
// @Failure      404  {object}  Response
// @Router       /inspections/{id} [get]
// @Security     APIKey
func (ic *InspectionController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	rec, err := ic.inspectionService.Get(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, newInspectionResponse(rec, c.Query("include_checklist") == "true"))
}

// Update 更新检验单
// @Summary      更新检验单
// @Description  只更新提供的字段,仅草稿和进行中的检验单可修改
// @Tags         检验单
// @Accept       json
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Param        request body service.UpdateInspectionRequest true "更新字段"
// @Success      200  {object}  Response{data=InspectionResponse}
// @Failure      400  {object}  Response
// @Failure      404  {object}  Response
// @Failure      409  {object}  Response
// @Router       /inspections/{id} [patch]
// @Security     APIKey
func (ic *InspectionController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rec, err := ic.inspectionService.Update(c, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, newInspectionResponse(rec, true))
}

// SetSignature 设置签名
// @Summary      设置签名
// @Description  上传检验员或客户签名（base64 图片）
// @Tags         检验单
// @Accept       json
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Param        request body service.SignatureRequest true "签名"
// @Success      200  {object}  Response{data=InspectionResponse}
// @Failure      400  {object}  Response
// @Failure      409  {object}  Response
// @Router       /inspections/{id}/signature [put]
// @Security     APIKey
func (ic *InspectionController) SetSignature(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rec, err := ic.inspectionService.SetSignature(c, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, newInspectionResponse(rec, false))
}

// transition 执行状态操作并返回最新的检验单
func (ic *InspectionController) transition(c *gin.Context, action func(c *gin.Context, id string) (*lifecycle.Inspection, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	rec, err := action(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, newInspectionResponse(rec, false))
}

// Start 开始检验
// @Summary      开始检验
// @Tags         检验单
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Success      200  {object}  Response{data=InspectionResponse}
// @Failure      409  {object}  Response
// @Router       /inspections/{id}/start [post]
// @Security     APIKey
func (ic *InspectionController) Start(c *gin.Context) {
	ic.transition(c, func(c *gin.Context, id string) (*lifecycle.Inspection, error) {
		return ic.inspectionService.Start(c, id)
	})
}

// Complete 完成检验
// @Summary      完成检验
// @Description  需要总体结论和检验员签名,完成后更新设备的最近检验日期
// @Tags         检验单
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Success      200  {object}  Response{data=InspectionResponse}
// @Failure      400  {object}  Response
// @Failure      409  {object}  Response
// @Router       /inspections/{id}/complete [post]
// @Security     APIKey
func (ic *InspectionController) Complete(c *gin.Context) {
	ic.transition(c, func(c *gin.Context, id string) (*lifecycle.Inspection, error) {
		return ic.inspectionService.Complete(c, id)
	})
}

// Send 发送给客户
// @Summary      发送检验报告给客户
// @Tags         检验单
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Success      200  {object}  Response{data=InspectionResponse}
// @Failure      409  {object}  Response
// @Router       /inspections/{id}/send [post]
// @Security     APIKey
func (ic *InspectionController) Send(c *gin.Context) {
	ic.transition(c, func(c *gin.Context, id string) (*lifecycle.Inspection, error) {
		return ic.inspectionService.SendToClient(c, id)
	})
}

// Cancel 取消检验
// @Summary      取消检验
// @Tags         检验单
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Success      200  {object}  Response{data=InspectionResponse}
// @Failure      409  {object}  Response
// @Router       /inspections/{id}/cancel [post]
// @Security     APIKey
func (ic *InspectionController) Cancel(c *gin.Context) {
	ic.transition(c, func(c *gin.Context, id string) (*lifecycle.Inspection, error) {
		return ic.inspectionService.Cancel(c, id)
	})
}

// Reset 重置为草稿
// @Summary      重置为草稿
// @Tags         检验单
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Success      200  {object}  Response{data=InspectionResponse}
// @Failure      409  {object}  Response
// @Router       /inspections/{id}/reset [post]
// @Security     APIKey
func (ic *InspectionController) Reset(c *gin.Context) {
	ic.transition(c, func(c *gin.Context, id string) (*lifecycle.Inspection, error) {
		return ic.inspectionService.ResetToDraft(c, id)
	})
}

// Report 生成检验报告
// @Summary      检验报告 PDF
// @Description  仅已完成或已发送的检验单可生成报告
// @Tags         检验单
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Success      200  {object}  Response{data=ReportResponse}
// @Failure      409  {object}  Response
// @Router       /inspections/{id}/report [get]
// @Security     APIKey
func (ic *InspectionController) Report(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	doc, err := ic.inspectionService.Report(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, ReportResponse{
		Filename:      doc.Filename,
		ContentBase64: base64.StdEncoding.EncodeToString(doc.Content),
	})
}

// Stats 检查项统计
// @Summary      检查项统计
// @Tags         检验单
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Success      200  {object}  Response{data=lifecycle.ChecklistStats}
// @Failure      404  {object}  Response
// @Router       /inspections/{id}/stats [get]
// @Security     APIKey
func (ic *InspectionController) Stats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	stats, err := ic.inspectionService.Stats(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, stats)
}

// History 状态历史和审计记录
// @Summary      检验单历史
// @Tags         检验单
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Success      200  {object}  Response{data=service.InspectionHistory}
// @Failure      404  {object}  Response
// @Router       /inspections/{id}/history [get]
// @Security     APIKey
func (ic *InspectionController) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	history, err := ic.inspectionService.History(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, history)
}

// Checklist 检查项列表
// @Summary      检查项列表
// @Tags         检查项
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Success      200  {object}  Response{data=[]ChecklistItemResponse}
// @Failure      404  {object}  Response
// @Router       /inspections/{id}/checklist [get]
// @Security     APIKey
func (ic *InspectionController) Checklist(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := ic.inspectionService.Checklist(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	List(c, newChecklistResponse(items), len(items))
}

// AddChecklistItem 新增检查项
// @Summary      新增检查项
// @Tags         检查项
// @Accept       json
// @Produce      json
// @Param        id path string true "检验单 ID"
// @Param        request body service.ChecklistItemInput true "检查项"
// @Success      201  {object}  Response{data=ChecklistItemResponse}
// @Failure      400  {object}  Response
// @Failure      409  {object}  Response
// @Router       /inspections/{id}/checklist [post]
// @Security     APIKey
func (ic *InspectionController) AddChecklistItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.ChecklistItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := ic.inspectionService.AddChecklistItem(c, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	Created(c, newChecklistItemResponse(*item))
}

// UpdateChecklistItem 更新检查项
// @Summary      更新检查项
// @Tags         检查项
// @Accept       json
// @Produce      json
// @Param        item_id path string true "检查项 ID"
// @Param        request body service.UpdateChecklistItemRequest true "更新字段"
// @Success      200  {object}  Response{data=ChecklistItemResponse}
// @Failure      400  {object}  Response
// @Failure      409  {object}  Response
// @Router       /checklist/{item_id} [patch]
// @Security     APIKey
func (ic *InspectionController) UpdateChecklistItem(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req service.UpdateChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := ic.inspectionService.UpdateChecklistItem(c, itemID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, newChecklistItemResponse(*item))
}

// DeleteChecklistItem 删除检查项
// @Summary      删除检查项
// @Tags         检查项
// @Produce      json
// @Param        item_id path string true "检查项 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Failure      409  {object}  Response
// @Router       /checklist/{item_id} [delete]
// @Security     APIKey
func (ic *InspectionController) DeleteChecklistItem(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	if err := ic.inspectionService.DeleteChecklistItem(c, itemID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}
