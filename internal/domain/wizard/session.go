package wizard

import (
	"time"

	"github.com/google/uuid"

	"github.com/cleanline/cleanline/internal/domain/client"
)

// Session is one in-progress wizard instance. It is owned by the session
// store and mutated only under the store's per-session lock.
type Session struct {
	ID        uuid.UUID  `json:"id"`
	OrderID   *uuid.UUID `json:"orderId,omitempty"`
	Stage     Stage      `json:"currentStage"`
	Substate  string     `json:"currentSubstate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Active    bool       `json:"isActive"`

	Stage1 Stage1Context `json:"stage1"`
	Stage2 Stage2Context `json:"stage2"`
	Stage3 Stage3Context `json:"stage3"`
	Stage4 Stage4Context `json:"stage4"`
}

// NewSession allocates a fresh session positioned at the start of stage 1.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		Stage:     StageClientInfo,
		Substate:  "NOT_STARTED",
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
		Stage1: Stage1Context{
			Search:    ClientSearchContext{State: SearchIdle},
			NewClient: NewClientContext{State: NewClientNotStarted},
			BasicInfo: BasicInfoContext{State: BasicInfoNotStarted},
		},
		Stage4: Stage4Context{State: ConfirmationConfirming},
	}
}

// ClientSearchContext accumulates the client search sub-machine's data.
type ClientSearchContext struct {
	State        ClientSearchState     `json:"state"`
	Criteria     client.SearchCriteria `json:"criteria"`
	Results      []client.Summary      `json:"results,omitempty"`
	SelectedID   *uuid.UUID            `json:"selectedId,omitempty"`
	SearchFailed bool                  `json:"searchFailed"`
}

// NewClientContext accumulates the new-client form sub-machine's data.
type NewClientContext struct {
	State     NewClientState `json:"state"`
	Data      client.Data    `json:"data"`
	CreatedID *uuid.UUID     `json:"createdId,omitempty"`
}

// BasicInfoContext accumulates the basic order info sub-machine's data.
type BasicInfoContext struct {
	State         BasicInfoState `json:"state"`
	BranchCode    string         `json:"branchCode,omitempty"`
	ReceiptNumber string         `json:"receiptNumber,omitempty"`
	Tag           string         `json:"tag,omitempty"`
}

// Stage1Context groups the three stage-1 sub-machines.
type Stage1Context struct {
	Search    ClientSearchContext `json:"clientSearch"`
	NewClient NewClientContext    `json:"newClient"`
	BasicInfo BasicInfoContext    `json:"basicInfo"`
}

// ClientID returns the client reference produced by whichever sub-machine
// reached its terminal success state.
func (c *Stage1Context) ClientID() *uuid.UUID {
	if c.Search.State == SearchClientSelected {
		return c.Search.SelectedID
	}
	if c.NewClient.State == NewClientCreated {
		return c.NewClient.CreatedID
	}
	return nil
}

// Ready reports stage-1 readiness: exactly one client path terminal and
// basic order info completed.
func (c *Stage1Context) Ready() bool {
	selected := c.Search.State == SearchClientSelected
	created := c.NewClient.State == NewClientCreated
	if selected == created {
		return false
	}
	return c.BasicInfo.State == BasicInfoCompleted
}

// Stage3Context holds the four independent order-parameter sub-contexts,
// each nil until populated.
type Stage3Context struct {
	Execution  *ExecutionParams `json:"executionParams,omitempty"`
	Discount   *DiscountConfig  `json:"discountConfig,omitempty"`
	Payment    *PaymentConfig   `json:"paymentConfig,omitempty"`
	Additional *AdditionalInfo  `json:"additionalInfo,omitempty"`
}

// ExecutionParams configures urgency and expected completion.
type ExecutionParams struct {
	Urgency        string    `json:"urgency"`
	CompletionDate time.Time `json:"completionDate"`
}

// Urgency levels accepted by ExecutionParams.
const (
	UrgencyNormal  = "NORMAL"
	UrgencyExpress = "EXPRESS"
	UrgencyUrgent  = "URGENT"
)

// Validate checks the execution parameters against the given clock.
func (p *ExecutionParams) Validate(now time.Time) []Violation {
	var errs []Violation
	switch p.Urgency {
	case UrgencyNormal, UrgencyExpress, UrgencyUrgent:
	default:
		errs = append(errs, FieldViolation("urgency", "unknown urgency level"))
	}
	if p.CompletionDate.IsZero() {
		errs = append(errs, FieldViolation("completionDate", "completionDate is required"))
	} else if p.CompletionDate.Before(now) {
		errs = append(errs, FieldViolation("completionDate", "completionDate is in the past"))
	}
	return errs
}

// DiscountConfig configures the order-level discount.
type DiscountConfig struct {
	Type       string  `json:"type"`
	Percent    float64 `json:"percent"`
	CardNumber string  `json:"cardNumber,omitempty"`
}

// Discount types accepted by DiscountConfig.
const (
	DiscountNone    = "NONE"
	DiscountPercent = "PERCENT"
	DiscountCard    = "CARD"
)

// Validate checks the discount configuration.
func (d *DiscountConfig) Validate() []Violation {
	var errs []Violation
	switch d.Type {
	case DiscountNone:
		if d.Percent != 0 {
			errs = append(errs, FieldViolation("percent", "percent must be zero for NONE discount"))
		}
	case DiscountPercent:
		if v := RequireRange("percent", d.Percent, 0, 50); v != nil {
			errs = append(errs, *v)
		}
	case DiscountCard:
		if d.CardNumber == "" {
			errs = append(errs, FieldViolation("cardNumber", "cardNumber is required for CARD discount"))
		}
	default:
		errs = append(errs, FieldViolation("type", "unknown discount type"))
	}
	return errs
}

// PaymentConfig configures how the order will be paid.
type PaymentConfig struct {
	Method     string  `json:"method"`
	Prepayment float64 `json:"prepayment"`
}

// Payment methods accepted by PaymentConfig.
const (
	PaymentCashOnCompletion = "CASH_ON_COMPLETION"
	PaymentCardOnCompletion = "CARD_ON_COMPLETION"
	PaymentPrepaid          = "PREPAID"
)

// Validate checks the payment configuration.
func (p *PaymentConfig) Validate() []Violation {
	var errs []Violation
	switch p.Method {
	case PaymentCashOnCompletion, PaymentCardOnCompletion:
		if p.Prepayment < 0 {
			errs = append(errs, FieldViolation("prepayment", "prepayment cannot be negative"))
		}
	case PaymentPrepaid:
		if p.Prepayment <= 0 {
			errs = append(errs, FieldViolation("prepayment", "prepayment must be positive for PREPAID"))
		}
	default:
		errs = append(errs, FieldViolation("method", "unknown payment method"))
	}
	return errs
}

// AdditionalInfo carries free-form order requirements. Submitting it, even
// empty, marks the sub-context ready.
type AdditionalInfo struct {
	Notes        string   `json:"notes,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// Stage4Context accumulates confirmation data.
type Stage4Context struct {
	State           ConfirmationState `json:"state"`
	Confirmed       bool              `json:"confirmed"`
	TermsAcceptedAt *time.Time        `json:"termsAcceptedAt,omitempty"`
	Receipt         *ReceiptConfig    `json:"receiptConfig,omitempty"`
}

// ReceiptConfig configures how the printed receipt is produced.
type ReceiptConfig struct {
	Copies  int    `json:"copies"`
	EmailTo string `json:"emailTo,omitempty"`
}
