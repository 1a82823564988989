package ledger

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	custom_error "solarstock/pkg/errors"
	"solarstock/pkg/models"
)

type MockTransactionStore struct {
	mock.Mock
}

func (m *MockTransactionStore) InsertTransaction(tx *goqu.TxDatabase, record models.ClientTransaction) (int, error) {
	args := m.Called(tx, record)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionStore) GetTransactionsByClient(clientID int) (*[]models.ClientTransaction, error) {
	args := m.Called(clientID)
	return args.Get(0).(*[]models.ClientTransaction), args.Error(1)
}

func (m *MockTransactionStore) GetTransactionsByClientTx(tx *goqu.TxDatabase, clientID int) (*[]models.ClientTransaction, error) {
	args := m.Called(tx, clientID)
	return args.Get(0).(*[]models.ClientTransaction), args.Error(1)
}

func (m *MockTransactionStore) LockClient(tx *goqu.TxDatabase, clientID int) error {
	args := m.Called(tx, clientID)
	return args.Error(0)
}

type MockStockStore struct {
	mock.Mock
}

func (m *MockStockStore) AdjustQuantity(tx *goqu.TxDatabase, materialID int, delta int, guardNonNegative bool) (int, bool, error) {
	args := m.Called(tx, materialID, delta, guardNonNegative)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockStockStore) QuantityTx(tx *goqu.TxDatabase, materialID int) (int, bool, error) {
	args := m.Called(tx, materialID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockStockStore) InsertMovement(tx *goqu.TxDatabase, items []models.StockMovementItem, totalItems int, reason string) (int, error) {
	args := m.Called(tx, items, totalItems, reason)
	return args.Int(0), args.Error(1)
}

type MockMaterialStore struct {
	mock.Mock
}

func (m *MockMaterialStore) GetMaterialByID(id int) (*models.Material, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
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

func newTestService(tr TransactionStore, sr StockStore, mr MaterialStore, cr ClientStore) *TransactionService {
	return &TransactionService{
		tr: tr,
		sr: sr,
		mr: mr,
		cr: cr,
		runTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
	}
}

func TestRecordTransactionDispatch(t *testing.T) {
	mockTr := new(MockTransactionStore)
	mockSr := new(MockStockStore)
	mockMr := new(MockMaterialStore)
	mockCr := new(MockClientStore)

	service := newTestService(mockTr, mockSr, mockMr, mockCr)

	mockCr.On("GetClientByID", 1).Return(&models.Client{ID: 1, Name: "Acme Solar"}, nil).Once()
	mockMr.On("GetMaterialByID", 7).Return(&models.Material{ID: 7, Name: "Widget", Quantity: 50}, nil).Once()
	mockTr.On("GetTransactionsByClientTx", (*goqu.TxDatabase)(nil), 1).Return(&[]models.ClientTransaction{}, nil).Once()
	mockSr.On("AdjustQuantity", (*goqu.TxDatabase)(nil), 7, -20, true).Return(30, true, nil).Once()
	mockSr.On("InsertMovement", (*goqu.TxDatabase)(nil), mock.Anything, -20, "dispatch to Acme Solar").Return(11, nil).Once()
	mockTr.On("InsertTransaction", (*goqu.TxDatabase)(nil), mock.Anything).Return(42, nil).Once()

	transaction, err := service.RecordTransaction(1, RecordTransactionRequest{
		MaterialID: 7,
		Quantity:   20,
		Direction:  models.DirectionOut,
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, transaction.ID)
	assert.Equal(t, models.DirectionOut, transaction.Direction)
	assert.Equal(t, 20, transaction.Items[0].Quantity)

	// Only returns serialize on the client row.
	mockTr.AssertNotCalled(t, "LockClient", mock.Anything, mock.Anything)

	mockTr.AssertExpectations(t)
	mockSr.AssertExpectations(t)
}

func TestRecordTransactionInsufficientStock(t *testing.T) {
	mockTr := new(MockTransactionStore)
	mockSr := new(MockStockStore)
	mockMr := new(MockMaterialStore)
	mockCr := new(MockClientStore)

	service := newTestService(mockTr, mockSr, mockMr, mockCr)

	mockCr.On("GetClientByID", 1).Return(&models.Client{ID: 1, Name: "Acme Solar"}, nil).Once()
	mockMr.On("GetMaterialByID", 7).Return(&models.Material{ID: 7, Name: "Widget", Quantity: 30}, nil).Once()
	mockTr.On("GetTransactionsByClientTx", (*goqu.TxDatabase)(nil), 1).Return(&[]models.ClientTransaction{}, nil).Once()
	mockSr.On("AdjustQuantity", (*goqu.TxDatabase)(nil), 7, -50, true).Return(0, false, nil).Once()
	mockSr.On("QuantityTx", (*goqu.TxDatabase)(nil), 7).Return(30, true, nil).Once()

	_, err := service.RecordTransaction(1, RecordTransactionRequest{
		MaterialID: 7,
		Quantity:   50,
		Direction:  models.DirectionOut,
	})

	var stockErr *custom_error.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 30, stockErr.Available)
	assert.Equal(t, 50, stockErr.Requested)

	// A rejected dispatch must not touch either ledger.
	mockSr.AssertNotCalled(t, "InsertMovement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockTr.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything)
}

func TestRecordTransactionOverReturn(t *testing.T) {
	mockTr := new(MockTransactionStore)
	mockSr := new(MockStockStore)
	mockMr := new(MockMaterialStore)
	mockCr := new(MockClientStore)

	service := newTestService(mockTr, mockSr, mockMr, mockCr)

	history := []models.ClientTransaction{
		{
			ClientID:  1,
			Direction: models.DirectionOut,
			Items:     []models.TransactionItem{{MaterialID: 7, MaterialName: "Widget", Quantity: 10}},
		},
		{
			ClientID:  1,
			Direction: models.DirectionOut,
			Items:     []models.TransactionItem{{MaterialID: 7, MaterialName: "Widget", Quantity: 5}},
		},
	}

	mockCr.On("GetClientByID", 1).Return(&models.Client{ID: 1, Name: "Acme Solar"}, nil)
	mockMr.On("GetMaterialByID", 7).Return(&models.Material{ID: 7, Name: "Widget", Quantity: 100}, nil)
	mockTr.On("LockClient", (*goqu.TxDatabase)(nil), 1).Return(nil)
	mockTr.On("GetTransactionsByClientTx", (*goqu.TxDatabase)(nil), 1).Return(&history, nil)

	_, err := service.RecordTransaction(1, RecordTransactionRequest{
		MaterialID: 7,
		Quantity:   20,
		Direction:  models.DirectionIn,
	})

	var overReturnErr *custom_error.OverReturnError
	assert.ErrorAs(t, err, &overReturnErr)
	assert.Equal(t, 15, overReturnErr.MaxReturnable)

	mockSr.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockTr.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything)
}

func TestRecordTransactionReturnAtCap(t *testing.T) {
	mockTr := new(MockTransactionStore)
	mockSr := new(MockStockStore)
	mockMr := new(MockMaterialStore)
	mockCr := new(MockClientStore)

	service := newTestService(mockTr, mockSr, mockMr, mockCr)

	history := []models.ClientTransaction{
		{
			ClientID:  1,
			Direction: models.DirectionOut,
			Items:     []models.TransactionItem{{MaterialID: 7, MaterialName: "Widget", Quantity: 15}},
		},
	}

	mockCr.On("GetClientByID", 1).Return(&models.Client{ID: 1, Name: "Acme Solar"}, nil).Once()
	mockMr.On("GetMaterialByID", 7).Return(&models.Material{ID: 7, Name: "Widget", Quantity: 10}, nil).Once()
	mockTr.On("LockClient", (*goqu.TxDatabase)(nil), 1).Return(nil).Once()
	mockTr.On("GetTransactionsByClientTx", (*goqu.TxDatabase)(nil), 1).Return(&history, nil).Once()
	mockSr.On("AdjustQuantity", (*goqu.TxDatabase)(nil), 7, 15, false).Return(25, true, nil).Once()
	mockSr.On("InsertMovement", (*goqu.TxDatabase)(nil), mock.Anything, 15, "return from Acme Solar").Return(12, nil).Once()
	mockTr.On("InsertTransaction", (*goqu.TxDatabase)(nil), mock.Anything).Return(43, nil).Once()

	transaction, err := service.RecordTransaction(1, RecordTransactionRequest{
		MaterialID: 7,
		Quantity:   15,
		Direction:  models.DirectionIn,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.DirectionIn, transaction.Direction)

	mockTr.AssertExpectations(t)
	mockSr.AssertExpectations(t)
}

func TestRecordTransactionValidation(t *testing.T) {
	service := newTestService(nil, nil, nil, nil)

	_, err := service.RecordTransaction(1, RecordTransactionRequest{
		MaterialID: 7,
		Quantity:   0,
		Direction:  models.DirectionOut,
	})

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "quantity")
}
