package stage4

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanline/cleanline/internal/domain/catalog"
	ordermocks "github.com/cleanline/cleanline/internal/domain/order/mocks"
	"github.com/cleanline/cleanline/internal/domain/wizard"
)

func newTestService() (*Service, *ordermocks.MockRepository) {
	orders := new(ordermocks.MockRepository)
	return NewService(orders, zerolog.Nop()), orders
}

func newStage4Session() *wizard.Session {
	sess := wizard.NewSession()
	sess.Stage = wizard.StageConfirmation
	orderID := uuid.New()
	sess.OrderID = &orderID
	sess.Stage1.BasicInfo.ReceiptNumber = "MSK01-20260901-A1B2"
	sess.Stage2.Items = []*wizard.ItemDraft{
		{ID: uuid.New(), Price: &catalog.PriceBreakdown{Total: 1000}},
		{ID: uuid.New(), Price: &catalog.PriceBreakdown{Total: 500}},
	}
	sess.Stage3.Discount = &wizard.DiscountConfig{Type: wizard.DiscountPercent, Percent: 10}
	return sess
}

func raw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestService_ConfirmationFlow(t *testing.T) {
	ctx := context.Background()
	svc, orders := newTestService()
	sess := newStage4Session()

	res := svc.Handle(ctx, sess, wizard.EventOrderConfirmed, nil)
	require.True(t, res.Success)
	summary, ok := res.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1500.0, summary["itemsTotal"])
	assert.Equal(t, 1350.0, summary["payableTotal"])
	assert.True(t, sess.Stage4.Confirmed)

	res = svc.Handle(ctx, sess, wizard.EventTermsAccepted, nil)
	require.True(t, res.Success)
	assert.Equal(t, wizard.ConfirmationLegallyAccepted, sess.Stage4.State)
	assert.NotNil(t, sess.Stage4.TermsAcceptedAt)

	res = svc.Handle(ctx, sess, wizard.EventReceiptConfigured, raw(t, map[string]interface{}{
		"copies": 2, "emailTo": "anna@example.com",
	}))
	require.True(t, res.Success)
	assert.Equal(t, wizard.ConfirmationReceiptConfigured, sess.Stage4.State)

	orders.On("Finalize", ctx, *sess.OrderID, "sig-data").Return(nil)
	res = svc.Handle(ctx, sess, wizard.EventOrderFinalized, raw(t, map[string]string{"signature": "sig-data"}))
	require.True(t, res.Success)
	assert.Equal(t, wizard.ConfirmationCompleted, sess.Stage4.State)
	assert.True(t, svc.Ready(sess))
}

func TestService_OutOfOrderEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("terms before confirmation", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage4Session()

		res := svc.Handle(ctx, sess, wizard.EventTermsAccepted, nil)

		require.False(t, res.Success)
		assert.Equal(t, wizard.CodeIllegalTransition, res.Errors[0].Code)
		assert.Equal(t, wizard.ConfirmationConfirming, sess.Stage4.State)
	})

	t.Run("finalize before receipt configuration", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage4Session()
		require.True(t, svc.Handle(ctx, sess, wizard.EventOrderConfirmed, nil).Success)
		require.True(t, svc.Handle(ctx, sess, wizard.EventTermsAccepted, nil).Success)

		res := svc.Handle(ctx, sess, wizard.EventOrderFinalized, raw(t, map[string]string{"signature": "sig"}))

		require.False(t, res.Success)
		assert.Equal(t, wizard.CodeIllegalTransition, res.Errors[0].Code)
	})

	t.Run("receipt configuration before terms", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage4Session()

		res := svc.Handle(ctx, sess, wizard.EventReceiptConfigured, raw(t, map[string]interface{}{"copies": 1}))

		require.False(t, res.Success)
		assert.Equal(t, wizard.CodeIllegalTransition, res.Errors[0].Code)
	})
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()

	drive := func(t *testing.T, svc *Service, sess *wizard.Session) {
		t.Helper()
		require.True(t, svc.Handle(ctx, sess, wizard.EventOrderConfirmed, nil).Success)
		require.True(t, svc.Handle(ctx, sess, wizard.EventTermsAccepted, nil).Success)
	}

	t.Run("copies out of range", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage4Session()
		drive(t, svc, sess)

		res := svc.Handle(ctx, sess, wizard.EventReceiptConfigured, raw(t, map[string]interface{}{"copies": 0}))

		require.False(t, res.Success)
		assert.Equal(t, "copies", res.Errors[0].Field)
	})

	t.Run("missing signature", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage4Session()
		drive(t, svc, sess)
		require.True(t, svc.Handle(ctx, sess, wizard.EventReceiptConfigured, raw(t, map[string]interface{}{"copies": 1})).Success)

		res := svc.Handle(ctx, sess, wizard.EventOrderFinalized, raw(t, map[string]string{"signature": ""}))

		require.False(t, res.Success)
		assert.Equal(t, "signature", res.Errors[0].Field)
		assert.Equal(t, wizard.ConfirmationReceiptConfigured, sess.Stage4.State)
	})

	t.Run("storage fault keeps the stage open", func(t *testing.T) {
		svc, orders := newTestService()
		sess := newStage4Session()
		drive(t, svc, sess)
		require.True(t, svc.Handle(ctx, sess, wizard.EventReceiptConfigured, raw(t, map[string]interface{}{"copies": 1})).Success)
		orders.On("Finalize", ctx, *sess.OrderID, "sig").Return(errors.New("connection reset"))

		res := svc.Handle(ctx, sess, wizard.EventOrderFinalized, raw(t, map[string]string{"signature": "sig"}))

		require.False(t, res.Success)
		assert.Equal(t, wizard.CodeDependencyFailure, res.Errors[0].Code)
		assert.Equal(t, wizard.ConfirmationReceiptConfigured, sess.Stage4.State)
	})
}
