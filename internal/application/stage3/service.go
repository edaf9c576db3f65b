// Package stage3 implements the order-parameters stage. Its four sub-contexts
// (execution, discount, payment, additional info) accept submissions in any
// order; the stage completes once all four validate together.
package stage3

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleanline/cleanline/internal/domain/order"
	"github.com/cleanline/cleanline/internal/domain/wizard"
)

// Service drives the stage-3 parameter collection.
type Service struct {
	orders order.Repository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates the stage-3 machine.
func NewService(orders order.Repository, logger zerolog.Logger) *Service {
	return &Service{
		orders: orders,
		logger: logger.With().Str("service", "stage3").Logger(),
		now:    time.Now,
	}
}

func (s *Service) Stage() wizard.Stage { return wizard.StageOrderParams }

func (s *Service) CompletionEvent() wizard.Event { return wizard.EventStage3Completed }

func (s *Service) Ready(sess *wizard.Session) bool {
	return len(s.validateAll(sess, s.now().UTC())) == 0
}

// Status returns the aggregate stage view for status queries.
func (s *Service) Status(sess *wizard.Session) interface{} {
	return sess.Stage3
}

// substepOrder is the suggested front-end progression; submissions themselves
// are accepted in any order.
var substepOrder = []string{"EXECUTION_PARAMS", "DISCOUNT", "PAYMENT", "ADDITIONAL_INFO"}

// NextSubstep names the first sub-context not yet submitted, or "READY".
func NextSubstep(c *wizard.Stage3Context) string {
	pending := []bool{c.Execution == nil, c.Discount == nil, c.Payment == nil, c.Additional == nil}
	for i, p := range pending {
		if p {
			return substepOrder[i]
		}
	}
	return "READY"
}

// Handle applies one stage-3 event to the session.
func (s *Service) Handle(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result {
	st3 := &sess.Stage3
	state := NextSubstep(st3)

	switch ev {
	case wizard.EventExecutionParamsSet:
		var req wizard.ExecutionParams
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), state, wizard.FieldViolation("payload", err.Error()))
		}
		if errs := req.Validate(s.now().UTC()); len(errs) > 0 {
			return wizard.Fail(s.Stage(), state, errs...)
		}
		st3.Execution = &req
		return wizard.OK(s.Stage(), NextSubstep(st3), nil)

	case wizard.EventDiscountConfigured:
		var req wizard.DiscountConfig
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), state, wizard.FieldViolation("payload", err.Error()))
		}
		if errs := req.Validate(); len(errs) > 0 {
			return wizard.Fail(s.Stage(), state, errs...)
		}
		st3.Discount = &req
		return wizard.OK(s.Stage(), NextSubstep(st3), nil)

	case wizard.EventPaymentConfigured:
		var req wizard.PaymentConfig
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), state, wizard.FieldViolation("payload", err.Error()))
		}
		if errs := req.Validate(); len(errs) > 0 {
			return wizard.Fail(s.Stage(), state, errs...)
		}
		st3.Payment = &req
		return wizard.OK(s.Stage(), NextSubstep(st3), nil)

	case wizard.EventAdditionalInfoSet:
		// An empty submission is valid; it marks the sub-context ready.
		var req wizard.AdditionalInfo
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return wizard.Fail(s.Stage(), state, wizard.FieldViolation("payload", err.Error()))
			}
		}
		st3.Additional = &req
		return wizard.OK(s.Stage(), NextSubstep(st3), nil)

	case wizard.EventStage3Completed:
		return s.complete(ctx, sess)

	default:
		return wizard.IllegalTransition(s.Stage(), state, "event "+string(ev)+" is not a stage-3 event")
	}
}

// validateAll re-validates every sub-context as a whole, so completion
// reports all outstanding problems at once.
func (s *Service) validateAll(sess *wizard.Session, now time.Time) []wizard.Violation {
	var errs []wizard.Violation
	st3 := &sess.Stage3
	if st3.Execution == nil {
		errs = append(errs, wizard.FieldViolation("executionParams", "execution parameters are not set"))
	} else {
		errs = append(errs, st3.Execution.Validate(now)...)
	}
	if st3.Discount == nil {
		errs = append(errs, wizard.FieldViolation("discountConfig", "discount configuration is not set"))
	} else {
		errs = append(errs, st3.Discount.Validate()...)
	}
	if st3.Payment == nil {
		errs = append(errs, wizard.FieldViolation("paymentConfig", "payment configuration is not set"))
	} else {
		errs = append(errs, st3.Payment.Validate()...)
	}
	if st3.Additional == nil {
		errs = append(errs, wizard.FieldViolation("additionalInfo", "additional info is not submitted"))
	}
	return errs
}

// complete persists the collected parameters onto the draft order.
func (s *Service) complete(ctx context.Context, sess *wizard.Session) wizard.Result {
	state := NextSubstep(&sess.Stage3)
	if errs := s.validateAll(sess, s.now().UTC()); len(errs) > 0 {
		return wizard.Fail(s.Stage(), state, errs...)
	}
	if sess.OrderID == nil {
		return wizard.Fail(s.Stage(), state, wizard.FieldViolation("orderId", "session has no draft order"))
	}
	st3 := &sess.Stage3
	params := order.Params{
		Urgency:         st3.Execution.Urgency,
		CompletionDate:  st3.Execution.CompletionDate,
		DiscountType:    st3.Discount.Type,
		DiscountPercent: st3.Discount.Percent,
		PaymentMethod:   st3.Payment.Method,
		Prepayment:      st3.Payment.Prepayment,
		Notes:           st3.Additional.Notes,
	}
	if err := s.orders.UpdateParams(ctx, *sess.OrderID, params); err != nil {
		return wizard.DependencyFailure(s.Stage(), state, err)
	}
	s.logger.Info().Str("order_id", sess.OrderID.String()).Str("urgency", params.Urgency).Msg("order parameters saved")
	return wizard.OK(s.Stage(), "READY", nil)
}

func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return errors.New("payload is required")
	}
	return json.Unmarshal(payload, v)
}
