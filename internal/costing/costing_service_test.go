package costing

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	custom_error "solarstock/pkg/errors"
	"solarstock/pkg/models"
)

type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) GetSnapshot(clientID int) (*models.CostingSnapshot, error) {
	args := m.Called(clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CostingSnapshot), args.Error(1)
}

func (m *MockSnapshotStore) UpsertSnapshot(snapshot models.CostingSnapshot) error {
	args := m.Called(snapshot)
	return args.Error(0)
}

func (m *MockSnapshotStore) UpsertSnapshotTx(tx *goqu.TxDatabase, snapshot models.CostingSnapshot) error {
	args := m.Called(tx, snapshot)
	return args.Error(0)
}

type MockTransactionStore struct {
	mock.Mock
}

func (m *MockTransactionStore) GetTransactionsByClient(clientID int) (*[]models.ClientTransaction, error) {
	args := m.Called(clientID)
	return args.Get(0).(*[]models.ClientTransaction), args.Error(1)
}

type MockMaterialStore struct {
	mock.Mock
}

func (m *MockMaterialStore) GetMaterials() (*[]models.Material, error) {
	args := m.Called()
	return args.Get(0).(*[]models.Material), args.Error(1)
}

type MockClientStore struct {
	mock.Mock
}

func (m *MockClientStore) GetClientByID(id int) (*models.Client, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func boltLedger() *[]models.ClientTransaction {
	return &[]models.ClientTransaction{
		{
			ClientID:  1,
			Direction: models.DirectionOut,
			Items:     []models.TransactionItem{{MaterialID: 1, MaterialName: "Bolt", Quantity: 10}},
		},
	}
}

func boltCatalog() *[]models.Material {
	price := 2.00
	gst := 18.0
	return &[]models.Material{
		{ID: 1, Name: "Bolt", UnitPrice: &price, GSTPercent: &gst},
	}
}

func TestGetCostingReturnsCachedSnapshot(t *testing.T) {
	mockCs := new(MockSnapshotStore)
	mockCr := new(MockClientStore)
	service := NewCostingService(mockCs, nil, nil, mockCr)

	cached := &models.CostingSnapshot{ClientID: 1, Grand: 23.60}
	mockCr.On("GetClientByID", 1).Return(&models.Client{ID: 1, Name: "Acme Solar"}, nil).Once()
	mockCs.On("GetSnapshot", 1).Return(cached, nil).Once()

	snapshot, err := service.GetCosting(1)

	assert.NoError(t, err)
	assert.Same(t, cached, snapshot)
}

func TestGetCostingComputesWithoutPersisting(t *testing.T) {
	mockCs := new(MockSnapshotStore)
	mockTr := new(MockTransactionStore)
	mockMr := new(MockMaterialStore)
	mockCr := new(MockClientStore)
	service := NewCostingService(mockCs, mockTr, mockMr, mockCr)

	mockCr.On("GetClientByID", 1).Return(&models.Client{ID: 1, Name: "Acme Solar"}, nil).Once()
	mockCs.On("GetSnapshot", 1).Return(nil, nil).Once()
	mockTr.On("GetTransactionsByClient", 1).Return(boltLedger(), nil).Once()
	mockMr.On("GetMaterials").Return(boltCatalog(), nil).Once()

	snapshot, err := service.GetCosting(1)

	assert.NoError(t, err)
	assert.Len(t, snapshot.Items, 1)
	assert.InDelta(t, 20.00, snapshot.BeforeTax, 1e-6)
	assert.InDelta(t, 3.60, snapshot.GST, 1e-6)
	assert.InDelta(t, 23.60, snapshot.Grand, 1e-6)

	// A plain read never writes a snapshot.
	mockCs.AssertNotCalled(t, "UpsertSnapshot", mock.Anything)
}

func TestGetCostingUnknownClient(t *testing.T) {
	mockCr := new(MockClientStore)
	service := NewCostingService(nil, nil, nil, mockCr)

	mockCr.On("GetClientByID", 99).Return(nil, custom_error.NewNotFound("client", 99)).Once()

	_, err := service.GetCosting(99)

	var notFound *custom_error.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRecomputePersistsLedgerView(t *testing.T) {
	mockCs := new(MockSnapshotStore)
	mockTr := new(MockTransactionStore)
	mockMr := new(MockMaterialStore)
	mockCr := new(MockClientStore)
	service := NewCostingService(mockCs, mockTr, mockMr, mockCr)

	mockCr.On("GetClientByID", 1).Return(&models.Client{ID: 1, Name: "Acme Solar"}, nil).Once()
	mockTr.On("GetTransactionsByClient", 1).Return(boltLedger(), nil).Once()
	mockMr.On("GetMaterials").Return(boltCatalog(), nil).Once()
	mockCs.On("UpsertSnapshot", mock.MatchedBy(func(s models.CostingSnapshot) bool {
		return s.ClientID == 1 && len(s.Items) == 1
	})).Return(nil).Once()

	snapshot, err := service.Recompute(1)

	assert.NoError(t, err)
	assert.InDelta(t, 23.60, snapshot.Grand, 1e-6)

	mockCs.AssertExpectations(t)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	mockCs := new(MockSnapshotStore)
	mockTr := new(MockTransactionStore)
	mockMr := new(MockMaterialStore)
	mockCr := new(MockClientStore)
	service := NewCostingService(mockCs, mockTr, mockMr, mockCr)

	mockCr.On("GetClientByID", 1).Return(&models.Client{ID: 1, Name: "Acme Solar"}, nil)
	mockTr.On("GetTransactionsByClient", 1).Return(boltLedger(), nil)
	mockMr.On("GetMaterials").Return(boltCatalog(), nil)
	mockCs.On("UpsertSnapshot", mock.Anything).Return(nil)

	first, err := service.Recompute(1)
	assert.NoError(t, err)
	second, err := service.Recompute(1)
	assert.NoError(t, err)

	assert.Equal(t, first.Items, second.Items)
	assert.InDelta(t, first.Grand, second.Grand, 1e-6)
}

func TestSaveRederivesTotals(t *testing.T) {
	mockCs := new(MockSnapshotStore)
	mockCr := new(MockClientStore)
	service := NewCostingService(mockCs, nil, nil, mockCr)

	mockCr.On("GetClientByID", 1).Return(&models.Client{ID: 1, Name: "Acme Solar"}, nil).Once()
	mockCs.On("UpsertSnapshot", mock.Anything).Return(nil).Once()

	snapshot, err := service.Save(1, SaveCostingRequest{
		Items: []SaveCostingLine{
			// Supplied base/total figures are ignored in favor of qty*rate.
			{MaterialID: 1, Name: "Bolt", Qty: 10, Rate: 2.00, GSTPercent: 18},
		},
	})

	assert.NoError(t, err)
	assert.InDelta(t, 20.00, snapshot.Items[0].Base, 1e-6)
	assert.InDelta(t, 3.60, snapshot.Items[0].GST, 1e-6)
	assert.InDelta(t, 23.60, snapshot.Grand, 1e-6)
}

func TestSaveValidation(t *testing.T) {
	service := NewCostingService(nil, nil, nil, nil)

	_, err := service.Save(1, SaveCostingRequest{
		Items: []SaveCostingLine{
			{MaterialID: 1, Name: "Bolt", Qty: -2, Rate: 2.00, GSTPercent: 18},
		},
	})

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
