package service_test

import (
	"context"
	"testing"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func websiteRequest() *service.SubmitQuoteRequest {
	return &service.SubmitQuoteRequest{
		Name:           "Amina Benali",
		Email:          "amina@sonatrach-logistique.dz",
		Phone:          "+213 21 12 34 56",
		CompanyName:    "Sonatrach Logistique",
		EquipmentType:  "crane",
		EquipmentCount: 2,
		Message:        "Two mobile cranes due for annual inspection",
		Location:       "Arzew",
		IPAddress:      "192.0.2.10",
		UserAgent:      "Mozilla/5.0",
	}
}

// TestSubmitQuoteRequest 测试网站报价请求创建全部关联记录
func TestSubmitQuoteRequest(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	result, err := f.quotes.Submit(ctx, websiteRequest())
	require.NoError(t, err)
	assert.Contains(t, result.Reference, "QR/")
	assert.NotEmpty(t, result.CompanyID)
	assert.NotEmpty(t, result.ContactID)
	assert.NotEqual(t, result.CompanyID, result.ContactID)

	quote, err := f.quotes.Get(ctx, result.QuoteRequestID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.QuoteNew, quote.State)
	assert.Equal(t, result.CompanyID, quote.ClientID)
	assert.Equal(t, "sales-001", quote.AssignedTo)
	assert.Equal(t, lifecycle.SourceWebsite, quote.Source)
	assert.Equal(t, "192.0.2.10", quote.IPAddress)

	company, err := f.clients.Get(ctx, result.CompanyID)
	require.NoError(t, err)
	assert.True(t, company.IsCompany)
	assert.Equal(t, "Sonatrach Logistique", company.Name)
	assert.Equal(t, "Created from website quote request.", company.Comment)

	contact, err := f.clients.Get(ctx, result.ContactID)
	require.NoError(t, err)
	require.NotNil(t, contact.ParentID)
	assert.Equal(t, company.ID, *contact.ParentID)
	assert.False(t, contact.IsCompany)

	eq, err := f.equipment.Get(ctx, result.EquipmentID)
	require.NoError(t, err)
	assert.Equal(t, "Crane - Sonatrach Logistique", eq.Name)
	assert.Equal(t, company.ID, eq.ClientID)
	assert.Contains(t, eq.Notes, "Quote request reference: "+result.Reference)
	assert.Contains(t, eq.Notes, "Equipment count: 2")

	rec, err := f.inspections.Get(ctx, result.InspectionID)
	require.NoError(t, err)
	assert.Equal(t, result.InspectionReference, rec.Reference)
	assert.Equal(t, lifecycle.TypeInitial, rec.Type)
	assert.Equal(t, lifecycle.StateDraft, rec.State)
	assert.NotEmpty(t, rec.Checklist)
	assert.Contains(t, rec.InspectorNotes, "Created from quote request "+result.Reference)

	// 通知在提交后发给默认负责人
	require.Equal(t, []string{lifecycle.TemplateQuoteRequestNew}, f.notifier.templates())
	assert.Equal(t, "sales-001", f.notifier.sent[0].recipient)
}

// TestSubmitQuoteRequestReusesPartners 测试同一邮箱再次提交时复用公司和联系人
func TestSubmitQuoteRequestReusesPartners(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	first, err := f.quotes.Submit(ctx, websiteRequest())
	require.NoError(t, err)

	req := websiteRequest()
	req.EquipmentType = "forklift"
	second, err := f.quotes.Submit(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.CompanyID, second.CompanyID)
	assert.Equal(t, first.ContactID, second.ContactID)
	assert.NotEqual(t, first.EquipmentID, second.EquipmentID)
	assert.NotEqual(t, first.Reference, second.Reference)

	// 按公司名称匹配
	req = websiteRequest()
	req.Email = "other.person@example.dz"
	third, err := f.quotes.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.CompanyID, third.CompanyID)
	assert.NotEqual(t, first.ContactID, third.ContactID)
}

// TestSubmitQuoteRequestWithoutCompany 测试没有公司名时以联系人姓名建公司
func TestSubmitQuoteRequestWithoutCompany(t *testing.T) {
	f := setupFixture(t)
	req := websiteRequest()
	req.CompanyName = ""

	result, err := f.quotes.Submit(context.Background(), req)
	require.NoError(t, err)

	company, err := f.clients.Get(context.Background(), result.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "Amina Benali", company.Name)
}

// TestSubmitQuoteRequestValidation 测试报价请求校验和回滚
func TestSubmitQuoteRequestValidation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.quotes.Submit(ctx, &service.SubmitQuoteRequest{Name: "Amina"})
	require.ErrorIs(t, err, lifecycle.ErrValidation)
	assert.Contains(t, err.Error(), "Missing required fields: email, phone, equipment_type")

	req := websiteRequest()
	req.Email = "not-an-email"
	_, err = f.quotes.Submit(ctx, req)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidContactInfo)

	req = websiteRequest()
	req.Phone = "123"
	_, err = f.quotes.Submit(ctx, req)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidContactInfo)

	req = websiteRequest()
	req.Urgency = "yesterday"
	_, err = f.quotes.Submit(ctx, req)
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	// 失败的提交不留下任何记录,也不占用编号
	quotes, err := f.quotes.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
	clients, err := f.clients.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, clients)
	assert.Empty(t, f.notifier.sent)

	result, err := f.quotes.Submit(ctx, websiteRequest())
	require.NoError(t, err)
	assert.Contains(t, result.Reference, "/00001")
}

// TestQuotePipeline 测试报价请求状态流转
func TestQuotePipeline(t *testing.T) {
	f := setupFixture(t)
	ctx := userContext("sales-001")

	result, err := f.quotes.Submit(context.Background(), websiteRequest())
	require.NoError(t, err)
	id := result.QuoteRequestID

	quote, err := f.quotes.Contact(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.QuoteContacted, quote.State)

	quote, err = f.quotes.SendQuote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.QuoteQuoted, quote.State)

	_, err = f.quotes.Contact(ctx, id)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	// 已关联公司时转换不会新建客户
	quote, err = f.quotes.ConvertToClient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.QuoteConverted, quote.State)
	assert.Equal(t, result.CompanyID, quote.ClientID)

	clients, err := f.clients.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, clients, 2)

	// 重复转换直接返回
	_, err = f.quotes.ConvertToClient(ctx, id)
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 3)
	assert.Equal(t, "converted", f.publisher.events[2].To)
	assert.Equal(t, "sales-001", f.publisher.events[2].Actor)

	converted, err := f.quotes.List(context.Background(), &service.QuoteQuery{State: "converted"})
	require.NoError(t, err)
	assert.Len(t, converted, 1)

	// 已转化的报价仍可标记为丢单
	quote, err = f.quotes.MarkLost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.QuoteLost, quote.State)
	require.Len(t, f.publisher.events, 4)
	assert.Equal(t, "converted", f.publisher.events[3].From)
	assert.Equal(t, "lost", f.publisher.events[3].To)

	_, err = f.quotes.Contact(ctx, "missing")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

// TestQuoteMarkLost 测试丢单
func TestQuoteMarkLost(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	result, err := f.quotes.Submit(ctx, websiteRequest())
	require.NoError(t, err)

	quote, err := f.quotes.MarkLost(ctx, result.QuoteRequestID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.QuoteLost, quote.State)
	events := len(f.publisher.events)

	// 重复标记直接返回,不再发布事件
	quote, err = f.quotes.MarkLost(ctx, result.QuoteRequestID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.QuoteLost, quote.State)
	assert.Len(t, f.publisher.events, events)

	_, err = f.quotes.ConvertToClient(ctx, result.QuoteRequestID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}
