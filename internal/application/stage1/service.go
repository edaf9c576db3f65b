// Package stage1 implements the first wizard stage: resolving the client
// (search or new-client form) and the basic order info (branch, receipt
// number, tag). The stage is ready when exactly one client path reached its
// terminal success state and basic info is completed.
package stage1

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleanline/cleanline/internal/domain/client"
	"github.com/cleanline/cleanline/internal/domain/fsm"
	"github.com/cleanline/cleanline/internal/domain/order"
	"github.com/cleanline/cleanline/internal/domain/wizard"
)

const defaultReceiptAttempts = 5

var searchTable = fsm.Table[wizard.ClientSearchState, wizard.Event]{
	wizard.SearchIdle: {
		wizard.EventClientSearchRequested:      wizard.SearchResultsShown,
		wizard.EventClientPhoneSearchRequested: wizard.SearchResultsShown,
		wizard.EventClientSearchCancelled:      wizard.SearchCancelled,
	},
	wizard.SearchResultsShown: {
		wizard.EventClientSearchRequested:      wizard.SearchResultsShown,
		wizard.EventClientPhoneSearchRequested: wizard.SearchResultsShown,
		wizard.EventClientSelected:             wizard.SearchClientSelected,
		wizard.EventClientSearchCleared:        wizard.SearchIdle,
		wizard.EventClientSearchCancelled:      wizard.SearchCancelled,
	},
	wizard.SearchClientSelected: {
		wizard.EventClientSearchCleared:   wizard.SearchIdle,
		wizard.EventClientSearchCancelled: wizard.SearchCancelled,
	},
	wizard.SearchCancelled: {
		wizard.EventClientSearchCleared: wizard.SearchIdle,
	},
}

var newClientTable = fsm.Table[wizard.NewClientState, wizard.Event]{
	wizard.NewClientNotStarted: {
		wizard.EventNewClientStarted: wizard.NewClientEditing,
	},
	wizard.NewClientEditing: {
		wizard.EventNewClientEdited:    wizard.NewClientEditing,
		wizard.EventNewClientValidated: wizard.NewClientValidated,
		wizard.EventNewClientCancelled: wizard.NewClientCancelled,
	},
	wizard.NewClientValidated: {
		wizard.EventNewClientEdited:    wizard.NewClientEditing,
		wizard.EventNewClientCreated:   wizard.NewClientCreated,
		wizard.EventNewClientCancelled: wizard.NewClientCancelled,
	},
	wizard.NewClientCancelled: {
		wizard.EventNewClientStarted: wizard.NewClientEditing,
	},
}

var basicInfoTable = fsm.Table[wizard.BasicInfoState, wizard.Event]{
	wizard.BasicInfoNotStarted: {
		wizard.EventBranchSelected: wizard.BasicInfoBranchSelected,
	},
	wizard.BasicInfoBranchSelected: {
		wizard.EventBranchSelected:         wizard.BasicInfoBranchSelected,
		wizard.EventReceiptNumberRequested: wizard.BasicInfoReceiptGenerated,
	},
	wizard.BasicInfoReceiptGenerated: {
		wizard.EventBranchSelected:         wizard.BasicInfoBranchSelected,
		wizard.EventReceiptNumberRequested: wizard.BasicInfoReceiptGenerated,
		wizard.EventTagSet:                 wizard.BasicInfoTagSet,
	},
	wizard.BasicInfoTagSet: {
		wizard.EventBranchSelected:     wizard.BasicInfoBranchSelected,
		wizard.EventTagSet:             wizard.BasicInfoTagSet,
		wizard.EventOrderInfoValidated: wizard.BasicInfoValidated,
	},
	wizard.BasicInfoValidated: {
		wizard.EventBranchSelected:     wizard.BasicInfoBranchSelected,
		wizard.EventOrderInfoCompleted: wizard.BasicInfoCompleted,
	},
}

// Service drives the stage-1 sub-machines.
type Service struct {
	clients         client.Directory
	orders          order.Repository
	receiptAttempts int
	logger          zerolog.Logger
}

// NewService creates the stage-1 machine.
func NewService(clients client.Directory, orders order.Repository, logger zerolog.Logger) *Service {
	return &Service{
		clients:         clients,
		orders:          orders,
		receiptAttempts: defaultReceiptAttempts,
		logger:          logger.With().Str("service", "stage1").Logger(),
	}
}

func (s *Service) Stage() wizard.Stage { return wizard.StageClientInfo }

func (s *Service) CompletionEvent() wizard.Event { return wizard.EventStage1Completed }

func (s *Service) Ready(sess *wizard.Session) bool { return sess.Stage1.Ready() }

// Status returns the aggregate stage view for status queries.
func (s *Service) Status(sess *wizard.Session) interface{} {
	return sess.Stage1
}

type searchRequest struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	CardNumber string `json:"cardNumber,omitempty"`
}

type selectClientRequest struct {
	ClientID uuid.UUID `json:"clientId"`
}

type newClientRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
}

type branchRequest struct {
	BranchCode string `json:"branchCode"`
}

type tagRequest struct {
	Tag string `json:"tag"`
}

// Handle applies one stage-1 event to the session.
func (s *Service) Handle(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result {
	switch ev {
	case wizard.EventClientSearchRequested,
		wizard.EventClientPhoneSearchRequested,
		wizard.EventClientSelected,
		wizard.EventClientSearchCleared,
		wizard.EventClientSearchCancelled:
		return s.handleSearch(ctx, sess, ev, payload)
	case wizard.EventNewClientStarted,
		wizard.EventNewClientEdited,
		wizard.EventNewClientValidated,
		wizard.EventNewClientCreated,
		wizard.EventNewClientCancelled:
		return s.handleNewClient(ctx, sess, ev, payload)
	case wizard.EventBranchSelected,
		wizard.EventReceiptNumberRequested,
		wizard.EventTagSet,
		wizard.EventOrderInfoValidated,
		wizard.EventOrderInfoCompleted:
		return s.handleBasicInfo(ctx, sess, ev, payload)
	case wizard.EventStage1Completed:
		return s.complete(ctx, sess)
	default:
		return wizard.IllegalTransition(s.Stage(), sess.Substate, "event "+string(ev)+" is not a stage-1 event")
	}
}

func (s *Service) handleSearch(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result {
	search := &sess.Stage1.Search
	next, ok := searchTable.Next(search.State, ev)
	if !ok {
		return wizard.IllegalTransition(s.Stage(), string(search.State),
			"event "+string(ev)+" is not valid from search state "+string(search.State))
	}

	switch ev {
	case wizard.EventClientSearchRequested:
		var req searchRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), string(search.State), wizard.FieldViolation("payload", err.Error()))
		}
		criteria := client.SearchCriteria{Name: req.Name, Phone: req.Phone, CardNumber: req.CardNumber}
		if criteria.IsEmpty() {
			return wizard.Fail(s.Stage(), string(search.State), wizard.FieldViolation("criteria", "at least one search criterion is required"))
		}
		return s.runSearch(ctx, sess, criteria, func() ([]client.Summary, error) {
			return s.clients.Search(ctx, criteria)
		})

	case wizard.EventClientPhoneSearchRequested:
		var req searchRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), string(search.State), wizard.FieldViolation("payload", err.Error()))
		}
		if v := wizard.RequirePhone("phone", req.Phone); v != nil {
			return wizard.Fail(s.Stage(), string(search.State), *v)
		}
		criteria := client.SearchCriteria{Phone: req.Phone}
		return s.runSearch(ctx, sess, criteria, func() ([]client.Summary, error) {
			return s.clients.SearchByPhone(ctx, req.Phone)
		})

	case wizard.EventClientSelected:
		var req selectClientRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), string(search.State), wizard.FieldViolation("payload", err.Error()))
		}
		found := false
		for _, r := range search.Results {
			if r.ID == req.ClientID {
				found = true
				break
			}
		}
		if !found {
			return wizard.Fail(s.Stage(), string(search.State),
				wizard.FieldViolation("clientId", "client is not among the shown search results"))
		}
		id := req.ClientID
		search.SelectedID = &id
		search.State = next
		return wizard.OK(s.Stage(), string(next), map[string]interface{}{"clientId": id})

	case wizard.EventClientSearchCleared:
		search.Criteria = client.SearchCriteria{}
		search.Results = nil
		search.SelectedID = nil
		search.SearchFailed = false
		search.State = next
		return wizard.OK(s.Stage(), string(next), nil)

	default: // cancel
		search.State = next
		return wizard.OK(s.Stage(), string(next), nil)
	}
}

// runSearch executes a directory lookup. An I/O fault is surfaced as an
// empty result set with the SearchFailed flag raised, so the UI can tell a
// transient error from a definitive empty match list.
func (s *Service) runSearch(ctx context.Context, sess *wizard.Session, criteria client.SearchCriteria, lookup func() ([]client.Summary, error)) wizard.Result {
	search := &sess.Stage1.Search
	search.Criteria = criteria
	search.SelectedID = nil
	results, err := lookup()
	search.State = wizard.SearchResultsShown
	if err != nil {
		s.logger.Warn().Err(err).Msg("client search failed")
		search.Results = nil
		search.SearchFailed = true
		return wizard.DependencyFailure(s.Stage(), string(search.State), err)
	}
	search.Results = results
	search.SearchFailed = false
	return wizard.OK(s.Stage(), string(search.State), map[string]interface{}{"results": results})
}

func (s *Service) handleNewClient(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result {
	form := &sess.Stage1.NewClient
	next, ok := newClientTable.Next(form.State, ev)
	if !ok {
		return wizard.IllegalTransition(s.Stage(), string(form.State),
			"event "+string(ev)+" is not valid from form state "+string(form.State))
	}

	switch ev {
	case wizard.EventNewClientStarted:
		form.Data = client.Data{}
		form.State = next
		return wizard.OK(s.Stage(), string(next), nil)

	case wizard.EventNewClientEdited:
		var req newClientRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), string(form.State), wizard.FieldViolation("payload", err.Error()))
		}
		form.Data = client.Data{FullName: req.FullName, Phone: req.Phone, Email: req.Email, Address: req.Address}
		form.State = next
		return wizard.OK(s.Stage(), string(next), nil)

	case wizard.EventNewClientValidated:
		// Structural checks only; uniqueness is deferred to creation.
		errs := wizard.Collect(
			wizard.RequireNonEmpty("fullName", form.Data.FullName),
			wizard.RequirePhone("phone", form.Data.Phone),
		)
		if len(errs) > 0 {
			return wizard.Fail(s.Stage(), string(form.State), errs...)
		}
		form.State = next
		return wizard.OK(s.Stage(), string(next), nil)

	case wizard.EventNewClientCreated:
		created, err := s.clients.Create(ctx, form.Data)
		if err != nil {
			if errors.Is(err, client.ErrDuplicate) {
				return wizard.Fail(s.Stage(), string(form.State),
					wizard.FieldViolation("phone", "a client with this phone already exists"))
			}
			return wizard.DependencyFailure(s.Stage(), string(form.State), err)
		}
		form.CreatedID = &created.ID
		form.State = next
		s.logger.Info().Str("client_id", created.ID.String()).Msg("client created")
		return wizard.OK(s.Stage(), string(next), map[string]interface{}{"clientId": created.ID})

	default: // cancel
		form.State = next
		return wizard.OK(s.Stage(), string(next), nil)
	}
}

func (s *Service) handleBasicInfo(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result {
	info := &sess.Stage1.BasicInfo
	next, ok := basicInfoTable.Next(info.State, ev)
	if !ok {
		return wizard.IllegalTransition(s.Stage(), string(info.State),
			"event "+string(ev)+" is not valid from basic info state "+string(info.State))
	}

	switch ev {
	case wizard.EventBranchSelected:
		var req branchRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), string(info.State), wizard.FieldViolation("payload", err.Error()))
		}
		if v := wizard.RequireNonEmpty("branchCode", req.BranchCode); v != nil {
			return wizard.Fail(s.Stage(), string(info.State), *v)
		}
		info.BranchCode = req.BranchCode
		// Receipt numbers are branch-scoped; reselecting drops any number.
		info.ReceiptNumber = ""
		info.State = next
		return wizard.OK(s.Stage(), string(next), nil)

	case wizard.EventReceiptNumberRequested:
		num, res, ok := s.allocateReceiptNumber(ctx, info)
		if !ok {
			return res
		}
		info.ReceiptNumber = num
		info.State = next
		return wizard.OK(s.Stage(), string(next), map[string]interface{}{"receiptNumber": num})

	case wizard.EventTagSet:
		var req tagRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), string(info.State), wizard.FieldViolation("payload", err.Error()))
		}
		info.Tag = req.Tag
		info.State = next
		return wizard.OK(s.Stage(), string(next), nil)

	case wizard.EventOrderInfoValidated:
		errs := wizard.Collect(
			wizard.RequireNonEmpty("branchCode", info.BranchCode),
			wizard.RequireNonEmpty("receiptNumber", info.ReceiptNumber),
		)
		if len(errs) > 0 {
			return wizard.Fail(s.Stage(), string(info.State), errs...)
		}
		info.State = next
		return wizard.OK(s.Stage(), string(next), nil)

	default: // completed
		info.State = next
		return wizard.OK(s.Stage(), string(next), nil)
	}
}

// allocateReceiptNumber generates candidates until one is free of collisions
// with persisted orders, bounded by receiptAttempts.
func (s *Service) allocateReceiptNumber(ctx context.Context, info *wizard.BasicInfoContext) (string, wizard.Result, bool) {
	for i := 0; i < s.receiptAttempts; i++ {
		num := order.NewReceiptNumber(info.BranchCode, time.Now().UTC())
		exists, err := s.orders.ReceiptNumberExists(ctx, num)
		if err != nil {
			return "", wizard.DependencyFailure(s.Stage(), string(info.State), err), false
		}
		if !exists {
			return num, wizard.Result{}, true
		}
		s.logger.Debug().Str("receipt_number", num).Msg("receipt number collision, retrying")
	}
	return "", wizard.Fail(s.Stage(), string(info.State),
		wizard.FieldViolation("receiptNumber", "could not allocate a unique receipt number")), false
}

// complete creates the persisted draft order once the whole stage is ready.
func (s *Service) complete(ctx context.Context, sess *wizard.Session) wizard.Result {
	if !sess.Stage1.Ready() {
		return wizard.IllegalTransition(s.Stage(), sess.Substate,
			"stage 1 is not ready: a client must be resolved and basic order info completed")
	}
	clientID := sess.Stage1.ClientID()
	now := time.Now().UTC()
	o := &order.Order{
		ID:            uuid.New(),
		ReceiptNumber: sess.Stage1.BasicInfo.ReceiptNumber,
		BranchCode:    sess.Stage1.BasicInfo.BranchCode,
		Tag:           sess.Stage1.BasicInfo.Tag,
		ClientID:      *clientID,
		Status:        order.StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return wizard.DependencyFailure(s.Stage(), sess.Substate, err)
	}
	sess.OrderID = &o.ID
	s.logger.Info().Str("order_id", o.ID.String()).Str("receipt_number", o.ReceiptNumber).Msg("draft order created")
	return wizard.OK(s.Stage(), "READY", map[string]interface{}{"orderId": o.ID})
}

func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return errors.New("payload is required")
	}
	return json.Unmarshal(payload, v)
}
