package lifecycle

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupLifecycleDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	// A single connection keeps concurrent writers serialized in SQLite.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.Product{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func createOrder(t *testing.T, db *gorm.DB, status Status) *models.Order {
	meta := Metadata{OrderNumber: "ORD-TEST-000001", Table: "4"}
	blob, err := meta.Encode()
	assert.NoError(t, err)

	order := models.Order{
		Status:    status.String(),
		Total:     98.00,
		Metadata:  blob,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	assert.NoError(t, db.Create(&order).Error)
	return &order
}

func reload(t *testing.T, db *gorm.DB, id string) models.Order {
	var order models.Order
	assert.NoError(t, db.First(&order, "id = ?", id).Error)
	return order
}

// Scenario: cashier registers a cash payment on a pending order.
func TestApplyTransitionPaidWithCash(t *testing.T) {
	db := setupLifecycleDB(t)
	manager := NewManager(NewGormStore(db))
	order := createOrder(t, db, StatusPending)

	updated, err := manager.ApplyTransition(context.Background(), TransitionRequest{
		OrderID:       order.ID,
		Target:        StatusPaid,
		Role:          RoleStaff,
		PaymentMethod: PaymentCash,
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPaid.String(), updated.Status)

	persisted := reload(t, db, order.ID)
	assert.Equal(t, StatusPaid.String(), persisted.Status)

	meta, err := DecodeMetadata(persisted.Metadata)
	assert.NoError(t, err)
	assert.Equal(t, PaymentCash, meta.PaymentMethod)
	assert.NotNil(t, meta.PaidAt)
	// the pre-existing metadata fields survive the payment update
	assert.Equal(t, "ORD-TEST-000001", meta.OrderNumber)
	assert.Equal(t, "4", meta.Table)
}

// Scenario: kitchen marks a paid order ready without passing through
// PREPARING.
func TestApplyTransitionKitchenSkipsPreparing(t *testing.T) {
	db := setupLifecycleDB(t)
	manager := NewManager(NewGormStore(db))
	order := createOrder(t, db, StatusPaid)

	updated, err := manager.ApplyTransition(context.Background(), TransitionRequest{
		OrderID: order.ID,
		Target:  StatusReady,
		Role:    RoleKitchen,
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusReady.String(), updated.Status)
}

// Scenario: kitchen tries to deliver; delivery belongs to the waiter.
func TestApplyTransitionKitchenCannotDeliver(t *testing.T) {
	db := setupLifecycleDB(t)
	manager := NewManager(NewGormStore(db))
	order := createOrder(t, db, StatusReady)

	_, err := manager.ApplyTransition(context.Background(), TransitionRequest{
		OrderID: order.ID,
		Target:  StatusDelivered,
		Role:    RoleKitchen,
	})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, StatusReady.String(), reload(t, db, order.ID).Status)
}

// Scenario: admin tries to push a delivered order back to preparing.
func TestApplyTransitionDeliveredIsTerminal(t *testing.T) {
	db := setupLifecycleDB(t)
	manager := NewManager(NewGormStore(db))
	order := createOrder(t, db, StatusDelivered)

	_, err := manager.ApplyTransition(context.Background(), TransitionRequest{
		OrderID: order.ID,
		Target:  StatusPreparing,
		Role:    RoleAdmin,
	})
	assert.True(t, IsInvalidTransition(err))
	assert.Equal(t, StatusDelivered.String(), reload(t, db, order.ID).Status)
}

// Scenario: payment with a method outside CASH/CARD/TRANSFER.
func TestApplyTransitionRejectsUnknownPaymentMethod(t *testing.T) {
	db := setupLifecycleDB(t)
	manager := NewManager(NewGormStore(db))
	order := createOrder(t, db, StatusPending)

	for _, method := range []PaymentMethod{"BITCOIN", ""} {
		_, err := manager.ApplyTransition(context.Background(), TransitionRequest{
			OrderID:       order.ID,
			Target:        StatusPaid,
			Role:          RoleStaff,
			PaymentMethod: method,
		})
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	}

	persisted := reload(t, db, order.ID)
	assert.Equal(t, StatusPending.String(), persisted.Status)
	meta, err := DecodeMetadata(persisted.Metadata)
	assert.NoError(t, err)
	assert.Empty(t, meta.PaymentMethod)
	assert.Nil(t, meta.PaidAt)
}

func TestApplyTransitionUnknownOrder(t *testing.T) {
	db := setupLifecycleDB(t)
	manager := NewManager(NewGormStore(db))

	_, err := manager.ApplyTransition(context.Background(), TransitionRequest{
		OrderID: "no-such-order",
		Target:  StatusReady,
		Role:    RoleKitchen,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Every (current, requested) pair outside the transition graph fails with
// InvalidTransition and leaves the order untouched. ADMIN is used so the
// permission check never masks the transition check.
func TestApplyTransitionRejectsEveryIllegalEdge(t *testing.T) {
	db := setupLifecycleDB(t)
	manager := NewManager(NewGormStore(db))

	settable := []Status{StatusPaid, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled}

	for _, from := range Statuses {
		for _, to := range settable {
			if CanTransition(from, to) {
				continue
			}

			order := createOrder(t, db, from)
			before := reload(t, db, order.ID)

			_, err := manager.ApplyTransition(context.Background(), TransitionRequest{
				OrderID:       order.ID,
				Target:        to,
				Role:          RoleAdmin,
				PaymentMethod: PaymentCash,
			})
			assert.Truef(t, IsInvalidTransition(err), "%s -> %s should be invalid", from, to)

			after := reload(t, db, order.ID)
			assert.Equal(t, before.Status, after.Status)
			assert.Equal(t, before.Metadata, after.Metadata)
		}
	}
}

// Calling with the same invalid input twice yields the same error twice and
// no state change either time.
func TestApplyTransitionFailureIsIdempotent(t *testing.T) {
	db := setupLifecycleDB(t)
	manager := NewManager(NewGormStore(db))
	order := createOrder(t, db, StatusPending)

	req := TransitionRequest{OrderID: order.ID, Target: StatusDelivered, Role: RoleAdmin}

	_, err1 := manager.ApplyTransition(context.Background(), req)
	_, err2 := manager.ApplyTransition(context.Background(), req)

	assert.True(t, IsInvalidTransition(err1))
	assert.True(t, IsInvalidTransition(err2))
	assert.Equal(t, err1.Error(), err2.Error())
	assert.Equal(t, StatusPending.String(), reload(t, db, order.ID).Status)
}

// recordingStore verifies the permission check runs before any store access.
type recordingStore struct {
	mu       sync.Mutex
	getCalls int
	casCalls int
	order    *models.Order
	swapped  bool
}

func (s *recordingStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.order == nil {
		return nil, ErrNotFound
	}
	o := *s.order
	return &o, nil
}

func (s *recordingStore) UpdateStatusCAS(ctx context.Context, id string, from, to Status, metadata *string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.casCalls++
	return s.swapped, nil
}

func TestForbiddenNeverTouchesStore(t *testing.T) {
	store := &recordingStore{}
	manager := NewManager(store)

	for _, role := range Roles {
		for _, target := range Statuses {
			if RoleMaySet(role, target) {
				continue
			}
			_, err := manager.ApplyTransition(context.Background(), TransitionRequest{
				OrderID: "irrelevant",
				Target:  target,
				Role:    role,
			})
			assert.ErrorIs(t, err, ErrForbidden)
		}
	}

	assert.Zero(t, store.getCalls)
	assert.Zero(t, store.casCalls)
}

func TestConflictWhenSwapLoses(t *testing.T) {
	store := &recordingStore{
		order: &models.Order{
			ID:     "order-1",
			Status: StatusPending.String(),
		},
		swapped: false, // another actor transitioned between read and write
	}
	manager := NewManager(store)

	_, err := manager.ApplyTransition(context.Background(), TransitionRequest{
		OrderID:       "order-1",
		Target:        StatusPaid,
		Role:          RoleStaff,
		PaymentMethod: PaymentCard,
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, store.casCalls)
}

// Two concurrent legal transitions on the same PENDING order: exactly one
// wins; the loser sees Conflict (write raced) or InvalidTransition (read
// already saw the winner's status). Never both succeed.
func TestConcurrentTransitionsExactlyOneWins(t *testing.T) {
	db := setupLifecycleDB(t)
	manager := NewManager(NewGormStore(db))
	order := createOrder(t, db, StatusPending)

	requests := []TransitionRequest{
		{OrderID: order.ID, Target: StatusPaid, Role: RoleStaff, PaymentMethod: PaymentCash},
		{OrderID: order.ID, Target: StatusCancelled, Role: RoleAdmin},
	}

	errs := make([]error, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req TransitionRequest) {
			defer wg.Done()
			_, errs[i] = manager.ApplyTransition(context.Background(), req)
		}(i, req)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		ok := errors.Is(err, ErrConflict) || IsInvalidTransition(err)
		assert.Truef(t, ok, "unexpected loser error: %v", err)
	}
	assert.Equal(t, 1, successes)

	final := Status(reload(t, db, order.ID).Status)
	assert.Contains(t, []Status{StatusPaid, StatusCancelled}, final)
}
