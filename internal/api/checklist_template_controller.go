package api

import (
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/gin-gonic/gin"
)

// ChecklistTemplateController 检查项模板控制器
type ChecklistTemplateController struct {
	templateService service.ChecklistTemplateService
}

// NewChecklistTemplateController 创建检查项模板控制器
func NewChecklistTemplateController(templateService service.ChecklistTemplateService) *ChecklistTemplateController {
	return &ChecklistTemplateController{templateService: templateService}
}

// List 模板列表
// @Summary      检查项模板列表
// @Description  指定设备类别时只返回启用的模板,按 sequence 排序
// @Tags         检查项模板
// @Produce      json
// @Param        equipment_type query string false "设备类别"
// @Success      200  {object}  Response{data=[]ChecklistTemplateResponse}
// @Failure      400  {object}  Response
// @Router       /checklist-templates [get]
// @Security     APIKey
func (tc *ChecklistTemplateController) List(c *gin.Context) {
	templates, err := tc.templateService.List(c, c.Query("equipment_type"))
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]ChecklistTemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, newChecklistTemplateResponse(t))
	}
	List(c, out, len(out))
}

// Create 新增模板
// @Summary      新增检查项模板
// @Tags         检查项模板
// @Accept       json
// @Produce      json
// @Param        request body service.CreateChecklistTemplateRequest true "模板"
// @Success      201  {object}  Response{data=ChecklistTemplateResponse}
// @Failure      400  {object}  Response
// @Router       /checklist-templates [post]
// @Security     APIKey
func (tc *ChecklistTemplateController) Create(c *gin.Context) {
	var req service.CreateChecklistTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	t, err := tc.templateService.Create(c, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	Created(c, newChecklistTemplateResponse(*t))
}
