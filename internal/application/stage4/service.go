// Package stage4 implements the confirmation stage: final review, legal
// acceptance, receipt configuration and order finalization.
package stage4

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleanline/cleanline/internal/domain/fsm"
	"github.com/cleanline/cleanline/internal/domain/order"
	"github.com/cleanline/cleanline/internal/domain/wizard"
)

const maxReceiptCopies = 5

var confirmationTable = fsm.Table[wizard.ConfirmationState, wizard.Event]{
	wizard.ConfirmationConfirming: {
		wizard.EventOrderConfirmed: wizard.ConfirmationConfirming,
		wizard.EventTermsAccepted:  wizard.ConfirmationLegallyAccepted,
	},
	wizard.ConfirmationLegallyAccepted: {
		wizard.EventReceiptConfigured: wizard.ConfirmationReceiptConfigured,
	},
	wizard.ConfirmationReceiptConfigured: {
		wizard.EventReceiptConfigured: wizard.ConfirmationReceiptConfigured,
		wizard.EventOrderFinalized:    wizard.ConfirmationCompleted,
	},
}

// Service drives the stage-4 confirmation machine.
type Service struct {
	orders order.Repository
	logger zerolog.Logger
}

// NewService creates the stage-4 machine.
func NewService(orders order.Repository, logger zerolog.Logger) *Service {
	return &Service{
		orders: orders,
		logger: logger.With().Str("service", "stage4").Logger(),
	}
}

func (s *Service) Stage() wizard.Stage { return wizard.StageConfirmation }

func (s *Service) CompletionEvent() wizard.Event { return wizard.EventOrderFinalized }

func (s *Service) Ready(sess *wizard.Session) bool {
	return sess.Stage4.State == wizard.ConfirmationCompleted
}

// Status returns the aggregate stage view for status queries.
func (s *Service) Status(sess *wizard.Session) interface{} {
	return sess.Stage4
}

type receiptConfigRequest struct {
	Copies  int    `json:"copies"`
	EmailTo string `json:"emailTo,omitempty"`
}

type finalizeRequest struct {
	Signature string `json:"signature"`
}

// Handle applies one stage-4 event to the session.
func (s *Service) Handle(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result {
	st4 := &sess.Stage4
	next, ok := confirmationTable.Next(st4.State, ev)
	if !ok {
		return wizard.IllegalTransition(s.Stage(), string(st4.State),
			"event "+string(ev)+" is not valid from confirmation state "+string(st4.State))
	}

	switch ev {
	case wizard.EventOrderConfirmed:
		st4.Confirmed = true
		return wizard.OK(s.Stage(), string(next), s.summary(sess))

	case wizard.EventTermsAccepted:
		if !st4.Confirmed {
			return wizard.IllegalTransition(s.Stage(), string(st4.State),
				"the order summary must be confirmed before accepting terms")
		}
		now := time.Now().UTC()
		st4.TermsAcceptedAt = &now
		st4.State = next
		return wizard.OK(s.Stage(), string(next), nil)

	case wizard.EventReceiptConfigured:
		var req receiptConfigRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), string(st4.State), wizard.FieldViolation("payload", err.Error()))
		}
		if v := wizard.RequireRange("copies", float64(req.Copies), 1, maxReceiptCopies); v != nil {
			return wizard.Fail(s.Stage(), string(st4.State), *v)
		}
		st4.Receipt = &wizard.ReceiptConfig{Copies: req.Copies, EmailTo: req.EmailTo}
		st4.State = next
		return wizard.OK(s.Stage(), string(next), nil)

	default: // finalize
		return s.finalize(ctx, sess, next, payload)
	}
}

// finalize flips the persisted order to confirmed and stamps the signature.
// Only reachable from the receipt-configured state.
func (s *Service) finalize(ctx context.Context, sess *wizard.Session, next wizard.ConfirmationState, payload json.RawMessage) wizard.Result {
	st4 := &sess.Stage4
	var req finalizeRequest
	if err := decode(payload, &req); err != nil {
		return wizard.Fail(s.Stage(), string(st4.State), wizard.FieldViolation("payload", err.Error()))
	}
	if v := wizard.RequireNonEmpty("signature", req.Signature); v != nil {
		return wizard.Fail(s.Stage(), string(st4.State), *v)
	}
	if sess.OrderID == nil {
		return wizard.Fail(s.Stage(), string(st4.State), wizard.FieldViolation("orderId", "session has no draft order"))
	}
	if err := s.orders.Finalize(ctx, *sess.OrderID, req.Signature); err != nil {
		return wizard.DependencyFailure(s.Stage(), string(st4.State), err)
	}
	st4.State = next
	s.logger.Info().Str("order_id", sess.OrderID.String()).Msg("order finalized")
	return wizard.OK(s.Stage(), string(next), map[string]interface{}{"orderId": *sess.OrderID})
}

// summary builds the review payload shown before legal acceptance.
func (s *Service) summary(sess *wizard.Session) map[string]interface{} {
	var total float64
	for _, item := range sess.Stage2.Items {
		total += item.TotalPrice()
	}
	out := map[string]interface{}{
		"receiptNumber": sess.Stage1.BasicInfo.ReceiptNumber,
		"branchCode":    sess.Stage1.BasicInfo.BranchCode,
		"itemCount":     len(sess.Stage2.Items),
		"itemsTotal":    total,
	}
	if d := sess.Stage3.Discount; d != nil && d.Type == wizard.DiscountPercent {
		out["discountPercent"] = d.Percent
		out["payableTotal"] = total * (1 - d.Percent/100)
	} else {
		out["payableTotal"] = total
	}
	return out
}

func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return errors.New("payload is required")
	}
	return json.Unmarshal(payload, v)
}
