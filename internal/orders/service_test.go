package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/config"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/enums"
	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
	"github.com/gadgetbay/gadgetbay-backend/pkg/pagination"
)

type testEnv struct {
	svc  Service
	conn *gorm.DB
	ctx  context.Context
}

func newTestEnv(t *testing.T, flags config.FeatureFlagsConfig) *testEnv {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Order{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	client := db.FromGorm(conn)
	svc, err := NewService(NewRepository(conn), client, flags, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &testEnv{svc: svc, conn: conn, ctx: context.Background()}
}

func (e *testEnv) seedProduct(t *testing.T, quantity int) uuid.UUID {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Type:     enums.ProductTypeLaptop,
		Name:     "ZenBook",
		Brand:    "Asus",
		VideoURL: "/videos/" + uuid.NewString() + "/stream",
		Quantity: quantity,
	}
	if err := e.conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product.ID
}

func (e *testEnv) stockOf(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := e.conn.Where("id = ?", productID).First(&product).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return product.Quantity
}

func validInput(productID uuid.UUID) CreateInput {
	return CreateInput{
		ProductID: productID,
		UserID:    uuid.New(),
		UserPhone: "+15550001111",
		Quantity:  1,
	}
}

func TestCreateDecrementsStock(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{})
	productID := env.seedProduct(t, 5)

	input := validInput(productID)
	input.Quantity = 2
	view, err := env.svc.Create(env.ctx, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", view.Status)
	}
	if got := env.stockOf(t, productID); got != 3 {
		t.Fatalf("expected stock 3, got %d", got)
	}
}

func TestCreateExhaustsStockThenRejects(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{})
	const initial = 4
	productID := env.seedProduct(t, initial)

	for i := 0; i < initial; i++ {
		if _, err := env.svc.Create(env.ctx, validInput(productID)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	_, err := env.svc.Create(env.ctx, validInput(productID))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if got := env.stockOf(t, productID); got != 0 {
		t.Fatalf("expected stock exactly 0, got %d", got)
	}

	var count int64
	if err := env.conn.Model(&models.Order{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != initial {
		t.Fatalf("expected %d orders, got %d", initial, count)
	}
}

func TestCreateMissingProductIsNotFound(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{})

	_, err := env.svc.Create(env.ctx, validInput(uuid.New()))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateValidationPrecedesStockMutation(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{})
	productID := env.seedProduct(t, 5)

	bad := []CreateInput{
		{ProductID: productID, UserID: uuid.New(), UserPhone: "", Quantity: 1},
		{ProductID: productID, UserID: uuid.New(), UserPhone: "+1555", Quantity: 0},
		{ProductID: productID, UserID: uuid.New(), UserPhone: "+1555", Quantity: -3},
		{ProductID: uuid.Nil, UserID: uuid.New(), UserPhone: "+1555", Quantity: 1},
	}
	for i, input := range bad {
		if _, err := env.svc.Create(env.ctx, input); pkgerrors.As(err) == nil {
			t.Fatalf("case %d: expected typed error, got %v", i, err)
		}
	}

	if got := env.stockOf(t, productID); got != 5 {
		t.Fatalf("stock must be untouched by rejected requests, got %d", got)
	}
}

func TestDecideConfirm(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{})
	productID := env.seedProduct(t, 5)

	order, err := env.svc.Create(env.ctx, validInput(productID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	msg := "ships monday"
	view, err := env.svc.Decide(env.ctx, DecideInput{OrderID: order.ID, Action: enums.OrderDecisionConfirm, Message: &msg})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if view.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", view.Status)
	}
	if view.AdminMessage == nil || *view.AdminMessage != msg {
		t.Fatalf("expected admin message persisted")
	}
	if got := env.stockOf(t, productID); got != 4 {
		t.Fatalf("confirm must not restock, got %d", got)
	}
}

func TestDecideRejectRestocksExactly(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{})
	productID := env.seedProduct(t, 5)

	input := validInput(productID)
	input.Quantity = 3
	order, err := env.svc.Create(env.ctx, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := env.stockOf(t, productID); got != 2 {
		t.Fatalf("expected stock 2 after order, got %d", got)
	}

	view, err := env.svc.Decide(env.ctx, DecideInput{OrderID: order.ID, Action: enums.OrderDecisionReject})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if view.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", view.Status)
	}
	if got := env.stockOf(t, productID); got != 5 {
		t.Fatalf("expected full restock to 5, got %d", got)
	}
}

func TestRedecidingDecidedOrderConflictsWithoutRestock(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{})
	productID := env.seedProduct(t, 5)

	input := validInput(productID)
	input.Quantity = 2
	order, err := env.svc.Create(env.ctx, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.svc.Decide(env.ctx, DecideInput{OrderID: order.ID, Action: enums.OrderDecisionReject}); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	if got := env.stockOf(t, productID); got != 5 {
		t.Fatalf("expected restock to 5, got %d", got)
	}

	for _, action := range []enums.OrderDecision{enums.OrderDecisionReject, enums.OrderDecisionConfirm} {
		_, err := env.svc.Decide(env.ctx, DecideInput{OrderID: order.ID, Action: action})
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected conflict for %s, got %v", action, err)
		}
	}
	if got := env.stockOf(t, productID); got != 5 {
		t.Fatalf("re-decision must not restock again, got %d", got)
	}
}

func TestDecideUnknownOrder(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{})

	_, err := env.svc.Decide(env.ctx, DecideInput{OrderID: uuid.New(), Action: enums.OrderDecisionConfirm})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFiltersAndMeta(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{})
	productID := env.seedProduct(t, 100)
	otherProduct := env.seedProduct(t, 100)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		input := validInput(productID)
		input.UserID = userID
		if _, err := env.svc.Create(env.ctx, input); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := env.svc.Create(env.ctx, validInput(otherProduct)); err != nil {
		t.Fatalf("create other: %v", err)
	}

	list, err := env.svc.List(env.ctx, pagination.Params{Page: 1, Limit: 2}, Filters{UserID: userID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Meta.Total != 3 || list.Meta.Pages != 2 {
		t.Fatalf("unexpected meta %+v", list.Meta)
	}
	if len(list.Orders) != 2 {
		t.Fatalf("expected 2 orders on page, got %d", len(list.Orders))
	}

	status := enums.OrderStatusPending
	list, err = env.svc.List(env.ctx, pagination.Params{Page: 1, Limit: 10}, Filters{Status: &status, ProductID: otherProduct})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if list.Meta.Total != 1 {
		t.Fatalf("expected 1 pending order for product, got %d", list.Meta.Total)
	}
}

func TestSagaFallbackCreatesOrder(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{NonTransactionalStock: true})
	productID := env.seedProduct(t, 2)

	if _, err := env.svc.Create(env.ctx, validInput(productID)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := env.stockOf(t, productID); got != 1 {
		t.Fatalf("expected stock 1, got %d", got)
	}

	input := validInput(productID)
	input.Quantity = 5
	_, err := env.svc.Create(env.ctx, input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if got := env.stockOf(t, productID); got != 1 {
		t.Fatalf("failed saga attempt must not change stock, got %d", got)
	}
}

// brokenInsertRepo fails every order insert, forcing the saga's compensating
// increment. restockErr optionally breaks the compensation too.
type brokenInsertRepo struct {
	Repository
	restockErr error
	restocked  bool
}

func (r *brokenInsertRepo) Create(ctx context.Context, order *models.Order) error {
	return errors.New("insert lost connection")
}

func (r *brokenInsertRepo) IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if r.restockErr != nil {
		return r.restockErr
	}
	r.restocked = true
	return r.Repository.IncrementStock(ctx, productID, qty)
}

func TestSagaInsertFailureRestoresStock(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{NonTransactionalStock: true})
	productID := env.seedProduct(t, 3)

	repo := &brokenInsertRepo{Repository: NewRepository(env.conn)}
	svc, err := NewService(repo, db.FromGorm(env.conn), config.FeatureFlagsConfig{NonTransactionalStock: true}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := validInput(productID)
	input.Quantity = 2
	_, err = svc.Create(env.ctx, input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error from failed insert, got %v", err)
	}
	if !repo.restocked {
		t.Fatal("expected a compensating increment after the failed insert")
	}
	if got := env.stockOf(t, productID); got != 3 {
		t.Fatalf("expected stock restored to 3, got %d", got)
	}

	var count int64
	if err := env.conn.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no order rows, got %d", count)
	}
}

func TestSagaDoubleFailureSurfacesInsertError(t *testing.T) {
	env := newTestEnv(t, config.FeatureFlagsConfig{NonTransactionalStock: true})
	productID := env.seedProduct(t, 3)

	repo := &brokenInsertRepo{
		Repository: NewRepository(env.conn),
		restockErr: errors.New("restock lost connection"),
	}
	svc, err := NewService(repo, db.FromGorm(env.conn), config.FeatureFlagsConfig{NonTransactionalStock: true}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(env.ctx, validInput(productID))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	// The decrement stands because the compensation also failed; the caller
	// still sees the insert failure, never a silent success.
	if got := env.stockOf(t, productID); got != 2 {
		t.Fatalf("expected stock left at 2 after failed compensation, got %d", got)
	}
}
