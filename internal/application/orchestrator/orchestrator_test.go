package orchestrator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cleanline/cleanline/internal/application/session"
	"github.com/cleanline/cleanline/internal/application/stage1"
	"github.com/cleanline/cleanline/internal/application/stage2"
	"github.com/cleanline/cleanline/internal/application/stage3"
	"github.com/cleanline/cleanline/internal/application/stage4"
	"github.com/cleanline/cleanline/internal/domain/catalog"
	catalogmocks "github.com/cleanline/cleanline/internal/domain/catalog/mocks"
	"github.com/cleanline/cleanline/internal/domain/client"
	clientmocks "github.com/cleanline/cleanline/internal/domain/client/mocks"
	"github.com/cleanline/cleanline/internal/domain/order"
	ordermocks "github.com/cleanline/cleanline/internal/domain/order/mocks"
	"github.com/cleanline/cleanline/internal/domain/photo"
	photomocks "github.com/cleanline/cleanline/internal/domain/photo/mocks"
	"github.com/cleanline/cleanline/internal/domain/wizard"
)

type testEnv struct {
	orch    *Orchestrator
	store   *session.Store
	clients *clientmocks.MockDirectory
	orders  *ordermocks.MockRepository
	photos  *photomocks.MockStore
	engine  *catalogmocks.MockEngine

	categoryID    uuid.UUID
	catalogItemID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	logger := zerolog.Nop()
	env := &testEnv{
		store:         session.NewStore(logger),
		clients:       new(clientmocks.MockDirectory),
		orders:        new(ordermocks.MockRepository),
		photos:        new(photomocks.MockStore),
		engine:        catalogmocks.NewMockEngine(ctrl),
		categoryID:    uuid.New(),
		catalogItemID: uuid.New(),
	}
	env.orch = New(env.store, logger,
		stage1.NewService(env.clients, env.orders, logger),
		stage2.NewService(env.engine, env.orders, env.photos, logger),
		stage3.NewService(env.orders, logger),
		stage4.NewService(env.orders, logger),
	)
	return env
}

func (e *testEnv) stubCollaborators(t *testing.T, clientID uuid.UUID) {
	ctx := mock.Anything
	e.clients.On("Search", ctx, mock.AnythingOfType("client.SearchCriteria")).
		Return([]client.Summary{{ID: clientID, FullName: "Anna Weber", Phone: "+4915112345678"}}, nil)
	e.orders.On("ReceiptNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	e.orders.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(nil)
	e.orders.On("ListItems", ctx, mock.AnythingOfType("uuid.UUID")).Return([]*order.Item{}, nil)
	e.orders.On("AddItem", ctx, mock.AnythingOfType("*order.Item")).Return(nil)
	e.orders.On("UpdateParams", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("order.Params")).Return(nil)
	e.orders.On("Finalize", ctx, mock.AnythingOfType("uuid.UUID"), "customer-signature").Return(nil)
	e.photos.On("Store", ctx, mock.AnythingOfType("photo.Upload")).
		Return(&photo.Ref{ID: uuid.New(), FileName: "burn.jpg", ContentType: "image/jpeg", StoredAt: time.Now()}, nil)

	categories := []catalog.Category{{ID: e.categoryID, Code: "CLOTHING", Name: "Clothing cleaning", Active: true}}
	items := []catalog.Item{{ID: e.catalogItemID, CategoryID: e.categoryID, Name: "Wool coat", BasePrice: 1200, Active: true}}
	e.engine.EXPECT().ServiceCategories(gomock.Any()).Return(categories, nil).AnyTimes()
	e.engine.EXPECT().ItemsForCategory(gomock.Any(), e.categoryID).Return(items, nil).AnyTimes()
	e.engine.EXPECT().RecommendedModifiers(gomock.Any(), "CLOTHING", "Wool coat").Return([]catalog.Modifier{}, nil).AnyTimes()
	e.engine.EXPECT().CalculatePrice(gomock.Any(), gomock.Any()).
		Return(&catalog.PriceBreakdown{BasePrice: 1200, Total: 1200}, nil).AnyTimes()
}

func (e *testEnv) fire(t *testing.T, id uuid.UUID, ev wizard.Event, payload interface{}) wizard.Result {
	t.Helper()
	var body json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = b
	}
	res, err := e.orch.Transition(context.Background(), id, ev, body)
	require.NoError(t, err)
	require.True(t, res.Success, "event %s failed: %+v", ev, res.Errors)
	return res
}

func TestOrchestrator_FullWizardScenario(t *testing.T) {
	env := newTestEnv(t)
	clientID := uuid.New()
	env.stubCollaborators(t, clientID)

	sess := env.orch.StartSession()
	id := sess.ID
	require.Equal(t, wizard.StageClientInfo, sess.Stage)

	// Stage 1: find the client and fill in basic order info.
	env.fire(t, id, wizard.EventClientSearchRequested, map[string]string{"name": "Weber"})
	env.fire(t, id, wizard.EventClientSelected, map[string]interface{}{"clientId": clientID})
	env.fire(t, id, wizard.EventBranchSelected, map[string]string{"branchCode": "MSK01"})
	env.fire(t, id, wizard.EventReceiptNumberRequested, nil)
	env.fire(t, id, wizard.EventTagSet, map[string]string{"tag": "blue"})
	env.fire(t, id, wizard.EventOrderInfoValidated, nil)
	env.fire(t, id, wizard.EventOrderInfoCompleted, nil)
	env.fire(t, id, wizard.EventStage1Completed, nil)
	require.Equal(t, wizard.StageItems, sess.Stage)
	require.NotNil(t, sess.OrderID)

	// Stage 2: one item through all five substeps.
	env.fire(t, id, wizard.EventItemWizardStarted, nil)
	env.fire(t, id, wizard.EventItemBasicInfoSubmitted, map[string]interface{}{
		"categoryId": env.categoryID, "catalogItemId": env.catalogItemID, "quantity": 1,
	})
	env.fire(t, id, wizard.EventCharacteristicsSubmitted, map[string]interface{}{
		"material": "wool", "color": "grey", "wearLevel": 30,
	})
	env.fire(t, id, wizard.EventStainsSubmitted, map[string]interface{}{
		"stains": []map[string]string{{"code": "BURN"}},
	})
	env.fire(t, id, wizard.EventPriceCalculationRequested, nil)
	env.fire(t, id, wizard.EventPricingCompleted, nil)
	env.fire(t, id, wizard.EventPhotoAttached, map[string]interface{}{
		"fileName": "burn.jpg", "contentType": "image/jpeg", "data": []byte{0xFF, 0xD8},
	})
	env.fire(t, id, wizard.EventPhotosCompleted, nil)
	env.fire(t, id, wizard.EventItemAdded, nil)
	env.fire(t, id, wizard.EventStage2Completed, nil)
	require.Equal(t, wizard.StageOrderParams, sess.Stage)

	// Stage 3: order-level parameters.
	env.fire(t, id, wizard.EventExecutionParamsSet, map[string]interface{}{
		"urgency": wizard.UrgencyNormal, "completionDate": time.Now().UTC().Add(72 * time.Hour),
	})
	env.fire(t, id, wizard.EventDiscountConfigured, map[string]interface{}{"type": wizard.DiscountNone})
	env.fire(t, id, wizard.EventPaymentConfigured, map[string]interface{}{
		"method": wizard.PaymentCashOnCompletion, "prepayment": 0,
	})
	env.fire(t, id, wizard.EventAdditionalInfoSet, map[string]string{})
	env.fire(t, id, wizard.EventStage3Completed, nil)
	require.Equal(t, wizard.StageConfirmation, sess.Stage)

	// Stage 4: confirm, accept terms, configure the receipt, finalize.
	env.fire(t, id, wizard.EventOrderConfirmed, nil)
	env.fire(t, id, wizard.EventTermsAccepted, nil)
	env.fire(t, id, wizard.EventReceiptConfigured, map[string]interface{}{"copies": 2})
	env.fire(t, id, wizard.EventOrderFinalized, map[string]string{"signature": "customer-signature"})

	assert.False(t, sess.Active)
	env.orders.AssertCalled(t, "Finalize", mock.Anything, *sess.OrderID, "customer-signature")

	// The finished session rejects further events.
	res, err := env.orch.Transition(context.Background(), id, wizard.EventOrderConfirmed, nil)
	require.NoError(t, err)
	require.False(t, res.Success)
	assert.Equal(t, wizard.CodeIllegalTransition, res.Errors[0].Code)
}

func TestOrchestrator_StageScoping(t *testing.T) {
	env := newTestEnv(t)
	sess := env.orch.StartSession()

	res, err := env.orch.Transition(context.Background(), sess.ID, wizard.EventOrderConfirmed, nil)

	require.NoError(t, err)
	require.False(t, res.Success)
	assert.Equal(t, wizard.CodeIllegalTransition, res.Errors[0].Code)
	assert.Contains(t, res.Errors[0].Reason, string(wizard.StageConfirmation))
	assert.Equal(t, wizard.StageClientInfo, sess.Stage)
}

func TestOrchestrator_UnknownEvent(t *testing.T) {
	env := newTestEnv(t)
	sess := env.orch.StartSession()

	res, err := env.orch.Transition(context.Background(), sess.ID, wizard.Event("MAKE_COFFEE"), nil)

	require.NoError(t, err)
	require.False(t, res.Success)
	assert.Equal(t, wizard.CodeIllegalTransition, res.Errors[0].Code)
}

func TestOrchestrator_UnknownSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orch.Transition(context.Background(), uuid.New(), wizard.EventBranchSelected, nil)

	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = env.orch.Status(uuid.New())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestOrchestrator_ConcurrentTransitionRejected(t *testing.T) {
	env := newTestEnv(t)
	sess := env.orch.StartSession()

	// Simulate an in-flight transition by holding the per-session lock.
	_, release, err := env.store.Acquire(sess.ID)
	require.NoError(t, err)
	defer release()

	_, err = env.orch.Transition(context.Background(), sess.ID, wizard.EventNewClientStarted, nil)

	assert.ErrorIs(t, err, session.ErrBusy)
}

func TestOrchestrator_Status(t *testing.T) {
	env := newTestEnv(t)
	sess := env.orch.StartSession()
	env.clients.On("Search", mock.Anything, mock.AnythingOfType("client.SearchCriteria")).
		Return([]client.Summary{}, nil)
	env.fire(t, sess.ID, wizard.EventClientSearchRequested, map[string]string{"name": "Weber"})

	view, err := env.orch.Status(sess.ID)

	require.NoError(t, err)
	assert.Equal(t, sess.ID, view.SessionID)
	assert.Equal(t, wizard.StageClientInfo, view.Stage)
	assert.Equal(t, string(wizard.SearchResultsShown), view.Substate)
	assert.False(t, view.StageReady)
	assert.Len(t, view.Stages, 4)

	detail, err := env.orch.StageStatus(sess.ID, wizard.StageClientInfo)
	require.NoError(t, err)
	st1, ok := detail.(wizard.Stage1Context)
	require.True(t, ok)
	assert.Equal(t, wizard.SearchResultsShown, st1.Search.State)
}

func TestOrchestrator_AbandonSession(t *testing.T) {
	env := newTestEnv(t)
	sess := env.orch.StartSession()
	require.Equal(t, 1, env.store.Count())

	env.orch.AbandonSession(sess.ID)

	assert.Equal(t, 0, env.store.Count())
	_, err := env.orch.Status(sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
