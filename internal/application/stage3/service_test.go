package stage3

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

	"github.com/cleanline/cleanline/internal/domain/order"
	ordermocks "github.com/cleanline/cleanline/internal/domain/order/mocks"
	"github.com/cleanline/cleanline/internal/domain/wizard"
)

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestService() (*Service, *ordermocks.MockRepository) {
	orders := new(ordermocks.MockRepository)
	svc := NewService(orders, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc, orders
}

func newStage3Session() *wizard.Session {
	sess := wizard.NewSession()
	sess.Stage = wizard.StageOrderParams
	orderID := uuid.New()
	sess.OrderID = &orderID
	return sess
}

func raw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func submitAll(t *testing.T, svc *Service, sess *wizard.Session) {
	t.Helper()
	ctx := context.Background()
	res := svc.Handle(ctx, sess, wizard.EventExecutionParamsSet, raw(t, map[string]interface{}{
		"urgency": wizard.UrgencyNormal, "completionDate": testNow.Add(72 * time.Hour),
	}))
	require.True(t, res.Success, "%+v", res.Errors)
	res = svc.Handle(ctx, sess, wizard.EventDiscountConfigured, raw(t, map[string]interface{}{
		"type": wizard.DiscountPercent, "percent": 10,
	}))
	require.True(t, res.Success, "%+v", res.Errors)
	res = svc.Handle(ctx, sess, wizard.EventPaymentConfigured, raw(t, map[string]interface{}{
		"method": wizard.PaymentCashOnCompletion, "prepayment": 0,
	}))
	require.True(t, res.Success, "%+v", res.Errors)
	res = svc.Handle(ctx, sess, wizard.EventAdditionalInfoSet, raw(t, map[string]interface{}{
		"notes": "hang to dry",
	}))
	require.True(t, res.Success, "%+v", res.Errors)
}

func TestService_SubmissionsAnyOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	sess := newStage3Session()

	// Payment first, then discount: both accepted.
	res := svc.Handle(ctx, sess, wizard.EventPaymentConfigured, raw(t, map[string]interface{}{
		"method": wizard.PaymentPrepaid, "prepayment": 500,
	}))
	require.True(t, res.Success)
	assert.Equal(t, "EXECUTION_PARAMS", res.State)

	res = svc.Handle(ctx, sess, wizard.EventDiscountConfigured, raw(t, map[string]interface{}{
		"type": wizard.DiscountNone,
	}))
	require.True(t, res.Success)
	assert.NotNil(t, sess.Stage3.Payment)
	assert.NotNil(t, sess.Stage3.Discount)
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("completion date in the past", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage3Session()
		res := svc.Handle(ctx, sess, wizard.EventExecutionParamsSet, raw(t, map[string]interface{}{
			"urgency": wizard.UrgencyExpress, "completionDate": testNow.Add(-time.Hour),
		}))
		require.False(t, res.Success)
		assert.Equal(t, "completionDate", res.Errors[0].Field)
		assert.Nil(t, sess.Stage3.Execution)
	})

	t.Run("discount percent over the cap", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage3Session()
		res := svc.Handle(ctx, sess, wizard.EventDiscountConfigured, raw(t, map[string]interface{}{
			"type": wizard.DiscountPercent, "percent": 60,
		}))
		require.False(t, res.Success)
		assert.Equal(t, "percent", res.Errors[0].Field)
	})

	t.Run("prepaid needs a positive prepayment", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage3Session()
		res := svc.Handle(ctx, sess, wizard.EventPaymentConfigured, raw(t, map[string]interface{}{
			"method": wizard.PaymentPrepaid, "prepayment": 0,
		}))
		require.False(t, res.Success)
		assert.Equal(t, "prepayment", res.Errors[0].Field)
	})

	t.Run("empty additional info is accepted", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage3Session()
		res := svc.Handle(ctx, sess, wizard.EventAdditionalInfoSet, nil)
		require.True(t, res.Success)
		assert.NotNil(t, sess.Stage3.Additional)
	})
}

func TestService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("reports every missing sub-context at once", func(t *testing.T) {
		svc, _ := newTestService()
		sess := newStage3Session()

		res := svc.Handle(ctx, sess, wizard.EventStage3Completed, nil)

		require.False(t, res.Success)
		assert.Len(t, res.Errors, 4)
	})

	t.Run("persists the collected parameters", func(t *testing.T) {
		svc, orders := newTestService()
		sess := newStage3Session()
		submitAll(t, svc, sess)
		orders.On("UpdateParams", ctx, *sess.OrderID, mock.AnythingOfType("order.Params")).Return(nil)

		res := svc.Handle(ctx, sess, wizard.EventStage3Completed, nil)

		require.True(t, res.Success)
		assert.Equal(t, "READY", res.State)
		orders.AssertCalled(t, "UpdateParams", ctx, *sess.OrderID, mock.MatchedBy(func(p order.Params) bool {
			return p.Urgency == wizard.UrgencyNormal && p.DiscountPercent == 10 && p.Notes == "hang to dry"
		}))
	})

	t.Run("resubmission replaces an earlier value before completion", func(t *testing.T) {
		svc, orders := newTestService()
		sess := newStage3Session()
		submitAll(t, svc, sess)

		res := svc.Handle(ctx, sess, wizard.EventDiscountConfigured, raw(t, map[string]interface{}{
			"type": wizard.DiscountNone,
		}))
		require.True(t, res.Success)

		orders.On("UpdateParams", ctx, *sess.OrderID, mock.AnythingOfType("order.Params")).Return(nil)
		res = svc.Handle(ctx, sess, wizard.EventStage3Completed, nil)
		require.True(t, res.Success)
		orders.AssertCalled(t, "UpdateParams", ctx, *sess.OrderID, mock.MatchedBy(func(p order.Params) bool {
			return p.DiscountType == wizard.DiscountNone && p.DiscountPercent == 0
		}))
	})
}

func TestNextSubstep(t *testing.T) {
	c := &wizard.Stage3Context{}
	assert.Equal(t, "EXECUTION_PARAMS", NextSubstep(c))
	c.Execution = &wizard.ExecutionParams{}
	assert.Equal(t, "DISCOUNT", NextSubstep(c))
	c.Discount = &wizard.DiscountConfig{}
	c.Payment = &wizard.PaymentConfig{}
	assert.Equal(t, "ADDITIONAL_INFO", NextSubstep(c))
	c.Additional = &wizard.AdditionalInfo{}
	assert.Equal(t, "READY", NextSubstep(c))
}
