package api

import (
	"net/http"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/ecis/inspection-gin/internal/utils"
	"github.com/gin-gonic/gin"
)

// QuoteController 报价请求控制器
type QuoteController struct {
	quoteService service.QuoteService
}

// NewQuoteController 创建报价请求控制器
func NewQuoteController(quoteService service.QuoteService) *QuoteController {
	return &QuoteController{quoteService: quoteService}
}

// 公开表单字段的长度上限
var submitLimits = []struct {
	field string
	value func(*service.SubmitQuoteRequest) *string
	max   int
}{
	{"name", func(r *service.SubmitQuoteRequest) *string { return &r.Name }, 255},
	{"email", func(r *service.SubmitQuoteRequest) *string { return &r.Email }, 255},
	{"phone", func(r *service.SubmitQuoteRequest) *string { return &r.Phone }, 64},
	{"company_name", func(r *service.SubmitQuoteRequest) *string { return &r.CompanyName }, 255},
	{"location", func(r *service.SubmitQuoteRequest) *string { return &r.Location }, 255},
	{"message", func(r *service.SubmitQuoteRequest) *string { return &r.Message }, 5000},
}

// Submit 网站提交报价请求
// @Summary      提交报价请求
// @Description  公开接口,按 IP 限流。创建报价请求、客户、设备和初检检验单
// @Tags         报价请求
// @Accept       json
// @Produce      json
// @Param        request body service.SubmitQuoteRequest true "报价请求"
// @Success      201  {object}  Response{data=service.SubmitQuoteResult}
// @Failure      400  {object}  Response
// @Failure      429  {object}  Response
// @Router       /quote-request [post]
func (qc *QuoteController) Submit(c *gin.Context) {
	var req service.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	for _, limit := range submitLimits {
		value := limit.value(&req)
		*value = utils.StripControl(*value)
		if err := utils.ValidateText(limit.field, *value, limit.max); err != nil {
			handleError(c, err)
			return
		}
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := qc.quoteService.Submit(c, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: T(c, "quote.submitted"),
		Data:    result,
	})
}

// List 报价请求列表
// @Summary      报价请求列表
// @Tags         报价请求
// @Produce      json
// @Param        state query string false "状态" Enums(new, contacted, quoted, converted, lost)
// @Param        assigned_to query string false "负责人"
// @Param        limit query int false "条数"
// @Param        offset query int false "偏移"
// @Success      200  {object}  Response{data=[]QuoteRequestResponse}
// @Failure      400  {object}  Response
// @Router       /quote-requests [get]
// @Security     APIKey
func (qc *QuoteController) List(c *gin.Context) {
	var query service.QuoteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	reqs, err := qc.quoteService.List(c, &query)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]*QuoteRequestResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, newQuoteRequestResponse(req))
	}
	List(c, out, len(out))
}

// Get 报价请求详情
// @Summary      报价请求详情
// @Tags         报价请求
// @Produce      json
// @Param        id path string true "报价请求 ID"
// @Success      200  {object}  Response{data=QuoteRequestResponse}
// @Failure      404  {object}  Response
// @Router       /quote-requests/{id} [get]
// @Security     APIKey
func (qc *QuoteController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, err := qc.quoteService.Get(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, newQuoteRequestResponse(req))
}

func (qc *QuoteController) transition(c *gin.Context, action func(c *gin.Context, id string) (*lifecycle.QuoteRequest, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, err := action(c, id)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, newQuoteRequestResponse(req))
}

// Contact 标记已联系
// @Summary      标记已联系
// @Tags         报价请求
// @Produce      json
// @Param        id path string true "报价请求 ID"
// @Success      200  {object}  Response{data=QuoteRequestResponse}
// @Failure      409  {object}  Response
// @Router       /quote-requests/{id}/contact [post]
// @Security     APIKey
func (qc *QuoteController) Contact(c *gin.Context) {
	qc.transition(c, func(c *gin.Context, id string) (*lifecycle.QuoteRequest, error) {
		return qc.quoteService.Contact(c, id)
	})
}

// SendQuote 标记已报价
// @Summary      标记已报价
// @Tags         报价请求
// @Produce      json
// @Param        id path string true "报价请求 ID"
// @Success      200  {object}  Response{data=QuoteRequestResponse}
// @Failure      409  {object}  Response
// @Router       /quote-requests/{id}/send-quote [post]
// @Security     APIKey
func (qc *QuoteController) SendQuote(c *gin.Context) {
	qc.transition(c, func(c *gin.Context, id string) (*lifecycle.QuoteRequest, error) {
		return qc.quoteService.SendQuote(c, id)
	})
}

// Convert 转为客户
// @Summary      转为客户
// @Description  未关联客户时创建客户,重复调用不会重复创建
// @Tags         报价请求
// @Produce      json
// @Param        id path string true "报价请求 ID"
// @Success      200  {object}  Response{data=QuoteRequestResponse}
// @Failure      409  {object}  Response
// @Router       /quote-requests/{id}/convert [post]
// @Security     APIKey
func (qc *QuoteController) Convert(c *gin.Context) {
	qc.transition(c, func(c *gin.Context, id string) (*lifecycle.QuoteRequest, error) {
		return qc.quoteService.ConvertToClient(c, id)
	})
}

// MarkLost 标记丢单
// @Summary      标记丢单
// @Tags         报价请求
// @Produce      json
// @Param        id path string true "报价请求 ID"
// @Success      200  {object}  Response{data=QuoteRequestResponse}
// @Failure      409  {object}  Response
// @Router       /quote-requests/{id}/lost [post]
// @Security     APIKey
func (qc *QuoteController) MarkLost(c *gin.Context) {
	qc.transition(c, func(c *gin.Context, id string) (*lifecycle.QuoteRequest, error) {
		return qc.quoteService.MarkLost(c, id)
	})
}
