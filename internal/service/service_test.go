package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/ecis/inspection-gin/internal/database"
	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/stretchr/testify/require"
)

type sentNotification struct {
	recipient string
	template  string
	data      map[string]interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, recipient string, template string, data map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{recipient: recipient, template: template, data: data})
	return nil
}

func (n *recordingNotifier) templates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	templates := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		templates = append(templates, s.template)
	}
	return templates
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.TransitionEvent
}

func (p *recordingPublisher) Publish(event interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := event.(service.TransitionEvent); ok {
		p.events = append(p.events, e)
	}
}

type fixture struct {
	store       *repository.Store
	notifier    *recordingNotifier
	publisher   *recordingPublisher
	inspections service.InspectionService
	quotes      service.QuoteService
	clients     service.ClientService
	equipment   service.EquipmentService
	templates   service.ChecklistTemplateService
	statistics  service.StatisticsService
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	store := repository.NewStore(db)
	f := &fixture{
		store:     store,
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	f.inspections = service.NewInspectionService(store, f.notifier, f.publisher, nil)
	f.quotes = service.NewQuoteService(store, f.notifier, f.publisher, "sales-001")
	f.clients = service.NewClientService(store)
	f.equipment = service.NewEquipmentService(store, f.inspections)
	f.templates = service.NewChecklistTemplateService(store)
	f.statistics = service.NewStatisticsService(store)

	_, err = f.templates.SeedDefaults(context.Background())
	require.NoError(t, err)
	return f
}

func userContext(userID string) context.Context {
	return context.WithValue(context.Background(), "user_id", userID)
}

// seedEquipment 创建客户和一台起重机
func (f *fixture) seedEquipment(t *testing.T, periodicity int) (*model.PartnerModel, *model.EquipmentModel) {
	t.Helper()
	ctx := context.Background()
	client, err := f.clients.Create(ctx, &service.CreateClientRequest{
		Name:      "Sonatrach Logistique",
		Email:     "contact@sonatrach-logistique.dz",
		IsCompany: true,
	})
	require.NoError(t, err)

	eq, err := f.equipment.Create(ctx, &service.CreateEquipmentRequest{
		Name:              "Grue mobile LTM 1090",
		EquipmentType:     string(lifecycle.CategoryCrane),
		ClientID:          client.ID,
		SerialNumber:      "LH-090-2211",
		PeriodicityMonths: periodicity,
	})
	require.NoError(t, err)
	return client, eq
}
