package api

import (
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/gin-gonic/gin"
)

// ClientController 客户控制器
type ClientController struct {
	clientService service.ClientService
}

// NewClientController 创建客户控制器
func NewClientController(clientService service.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

// List 客户列表
// @Summary      客户列表
// @Tags         客户
// @Produce      json
// @Param        is_company query bool false "只看公司或只看联系人"
// @Param        parent_id query string false "所属公司 ID"
// @Param        search query string false "按名称或邮箱搜索"
// @Param        limit query int false "条数"
// @Param        offset query int false "偏移"
// @Success      200  {object}  Response{data=[]ClientResponse}
// @Router       /clients [get]
// @Security     APIKey
func (cc *ClientController) List(c *gin.Context) {
	var query service.ClientQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	partners, err := cc.clientService.List(c, &query)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]*ClientResponse, 0, len(partners))
	for _, pm := range partners {
		out = append(out, newClientResponse(pm))
	}
	List(c, out, len(out))
}

// Create 创建客户
// @Summary      创建客户
// @Tags         客户
// @Accept       json
// @Produce      json
// @Param        request body service.CreateClientRequest true "客户信息"
// @Success      201  {object}  Response{data=ClientResponse}
// @Failure      400  {object}  Response
// @Router       /clients [post]
// @Security     APIKey
func (cc *ClientController) Create(c *gin.Context) {
	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pm, err := cc.clientService.Create(c, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	Created(c, newClientResponse(pm))
}

// Get 客户详情
// @Summary      客户详情
// @Tags         客户
// @Produce      json
// @Param        id path string true "客户 ID"
// @Success      200  {object}  Response{data=ClientResponse}
// @Failure      404  {object}  Response
// @Router       /clients/{id} [get]
// @Security     APIKey
func (cc *ClientController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	pm, err := cc.clientService.Get(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, newClientResponse(pm))
}
