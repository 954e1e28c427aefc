package service

import (
	"context"
	"vex-storefront/internal/client"
	"vex-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// MockCatalogRepository implements repository.CatalogRepository in memory.
type MockCatalogRepository struct {
	Working      []model.Product
	HasWorking   bool
	Published    []model.Product
	HasPublished bool
	Prov         *model.Provenance
	Cleared      int
	SaveErr      error
}

func (m *MockCatalogRepository) LoadWorking(_ context.Context) ([]model.Product, bool, error) {
	return m.Working, m.HasWorking, nil
}

func (m *MockCatalogRepository) LoadPublished(_ context.Context) ([]model.Product, bool, error) {
	return m.Published, m.HasPublished, nil
}

func (m *MockCatalogRepository) SaveWorking(_ context.Context, products []model.Product) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Working = products
	m.HasWorking = true
	return nil
}

func (m *MockCatalogRepository) Publish(_ context.Context, products []model.Product) error {
	m.Published = products
	m.HasPublished = true
	return nil
}

func (m *MockCatalogRepository) Provenance(_ context.Context) (*model.Provenance, error) {
	return m.Prov, nil
}

func (m *MockCatalogRepository) SetProvenance(_ context.Context, p model.Provenance) error {
	m.Prov = &p
	return nil
}

func (m *MockCatalogRepository) ClearAll(_ context.Context) error {
	m.Working = nil
	m.HasWorking = false
	m.Published = nil
	m.HasPublished = false
	m.Prov = nil
	m.Cleared++
	return nil
}

// MockCatalogClient implements client.CatalogClient for testing.
type MockCatalogClient struct {
	Products []model.Product
	Err      error
	Calls    int
}

func (m *MockCatalogClient) FetchCatalog(_ context.Context) ([]model.Product, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Products, nil
}

// MockOrderRepository implements repository.OrderRepository in memory.
type MockOrderRepository struct {
	Orders    []model.Order
	AppendErr error
}

func (m *MockOrderRepository) List(_ context.Context) ([]model.Order, error) {
	return m.Orders, nil
}

func (m *MockOrderRepository) Append(_ context.Context, order model.Order) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Orders = append(m.Orders, order)
	return nil
}

// MockCartRepository implements repository.CartRepository in memory.
type MockCartRepository struct {
	Items   []model.CartItem
	Cleared int
}

func (m *MockCartRepository) Load(_ context.Context) ([]model.CartItem, error) {
	return m.Items, nil
}

func (m *MockCartRepository) Save(_ context.Context, items []model.CartItem) error {
	m.Items = items
	return nil
}

func (m *MockCartRepository) Clear(_ context.Context) error {
	m.Items = nil
	m.Cleared++
	return nil
}

// MockGateway implements client.PaymentGateway with a fixed verdict.
type MockGateway struct {
	Approved   bool
	Refusal    string
	Err        error
	Calls      int
	LastMethod model.PaymentMethod
	LastAmount decimal.Decimal
}

func (m *MockGateway) Charge(_ context.Context, method model.PaymentMethod, amount decimal.Decimal) (*client.ChargeResult, error) {
	m.Calls++
	m.LastMethod = method
	m.LastAmount = amount
	if m.Err != nil {
		return nil, m.Err
	}
	return &client.ChargeResult{
		Approved:      m.Approved,
		TransactionID: "TXN-test",
		Refusal:       m.Refusal,
	}, nil
}

// RecordingNotifier captures notifications for assertions.
type RecordingNotifier struct {
	Messages   []string
	Severities []Severity
}

func (n *RecordingNotifier) Notify(message string, severity Severity) {
	n.Messages = append(n.Messages, message)
	n.Severities = append(n.Severities, severity)
}

func (n *RecordingNotifier) LastSeverity() Severity {
	if len(n.Severities) == 0 {
		return ""
	}
	return n.Severities[len(n.Severities)-1]
}
