package wizard

import (
	"github.com/google/uuid"

	"github.com/cleanline/cleanline/internal/domain/catalog"
	"github.com/cleanline/cleanline/internal/domain/photo"
)

// ItemCharacteristics is the data collected by the second item substep.
type ItemCharacteristics struct {
	Material  string `json:"material"`
	Color     string `json:"color"`
	Filler    string `json:"filler,omitempty"`
	WearLevel int    `json:"wearLevel"`
}

// StainSelection is one chosen stain/defect tag with its resolved evidence
// requirements.
type StainSelection struct {
	Code                string `json:"code"`
	Name                string `json:"name"`
	PhotoRequired       bool   `json:"photoRequired"`
	ExplanationRequired bool   `json:"explanationRequired"`
	Explanation         string `json:"explanation,omitempty"`
}

// ItemDraft accumulates one item's data across the five substeps. It lives
// only in session state until the substep chain completes and the draft is
// promoted to a persisted order item.
type ItemDraft struct {
	ID                     uuid.UUID                 `json:"id"`
	CategoryID             uuid.UUID                 `json:"categoryId"`
	CategoryCode           string                    `json:"categoryCode"`
	CategoryRequiresFiller bool                      `json:"categoryRequiresFiller"`
	CatalogItemID          uuid.UUID                 `json:"catalogItemId"`
	ItemName               string                    `json:"itemName"`
	Quantity               float64                   `json:"quantity"`
	Characteristics        ItemCharacteristics       `json:"characteristics"`
	Stains                 []StainSelection          `json:"stains,omitempty"`
	StainNotes             string                    `json:"stainNotes,omitempty"`
	Modifiers              []catalog.AppliedModifier `json:"modifiers,omitempty"`
	Price                  *catalog.PriceBreakdown   `json:"price,omitempty"`
	PriceStale             bool                      `json:"priceStale"`
	Photos                 []photo.Ref               `json:"photos,omitempty"`
}

// TotalPrice returns the computed total, zero while no price exists.
func (d *ItemDraft) TotalPrice() float64 {
	if d.Price == nil {
		return 0
	}
	return d.Price.Total
}

// PhotoRequired reports whether any selected defect demands photographic
// evidence.
func (d *ItemDraft) PhotoRequired() bool {
	for _, s := range d.Stains {
		if s.PhotoRequired {
			return true
		}
	}
	return false
}

// ItemWizard is the open substep chain for one item. At most one exists per
// session at a time.
type ItemWizard struct {
	EditingItemID *uuid.UUID                    `json:"editingItemId,omitempty"`
	Draft         ItemDraft                     `json:"draft"`
	Current       SubstepKind                   `json:"currentSubstep"`
	Steps         map[SubstepKind]SubstepStatus `json:"steps"`
}

// NewItemWizard opens a substep chain for a fresh item.
func NewItemWizard() *ItemWizard {
	w := &ItemWizard{
		Draft:   ItemDraft{ID: uuid.New()},
		Current: SubstepBasicInfo,
		Steps:   make(map[SubstepKind]SubstepStatus, len(SubstepOrder)),
	}
	for _, k := range SubstepOrder {
		w.Steps[k] = SubstepNotStarted
	}
	w.Steps[SubstepBasicInfo] = SubstepInProgress
	return w
}

// NewEditItemWizard opens a substep chain over a committed item's draft.
// All substeps start completed; amending any of them cascades as usual.
func NewEditItemWizard(itemID uuid.UUID, draft ItemDraft) *ItemWizard {
	w := &ItemWizard{
		EditingItemID: &itemID,
		Draft:         draft,
		Current:       SubstepBasicInfo,
		Steps:         make(map[SubstepKind]SubstepStatus, len(SubstepOrder)),
	}
	for _, k := range SubstepOrder {
		w.Steps[k] = SubstepCompleted
	}
	return w
}

// Status returns the completion status of a substep.
func (w *ItemWizard) Status(k SubstepKind) SubstepStatus {
	return w.Steps[k]
}

// CanSubmit reports whether data may be submitted to the given substep:
// either it is the current one, or it was already completed and is being
// re-entered to amend data.
func (w *ItemWizard) CanSubmit(k SubstepKind) bool {
	if substepIndex(k) < 0 {
		return false
	}
	return k == w.Current || w.Steps[k] == SubstepCompleted
}

// Complete marks a substep completed and advances the chain. Completing an
// earlier substep again (back-navigation amend) resets every later substep
// to not-started, since later data may depend on what just changed.
func (w *ItemWizard) Complete(k SubstepKind) {
	w.invalidateAfter(k)
	w.Steps[k] = SubstepCompleted
	idx := substepIndex(k)
	if idx+1 < len(SubstepOrder) {
		next := SubstepOrder[idx+1]
		w.Current = next
		if w.Steps[next] != SubstepCompleted {
			w.Steps[next] = SubstepInProgress
		}
	} else {
		w.Current = k
	}
}

// Reopen re-enters an earlier substep without submitting data yet, resetting
// every later substep.
func (w *ItemWizard) Reopen(k SubstepKind) bool {
	if substepIndex(k) < 0 {
		return false
	}
	if w.Steps[k] == SubstepNotStarted && k != w.Current {
		return false
	}
	w.invalidateAfter(k)
	w.Current = k
	w.Steps[k] = SubstepInProgress
	return true
}

// invalidateAfter resets all substeps strictly after k and discards the data
// they produced that can no longer be trusted. The price is cleared whenever
// the pricing substep resets; attached photos are kept but must be
// re-confirmed.
func (w *ItemWizard) invalidateAfter(k SubstepKind) {
	idx := substepIndex(k)
	for i := idx + 1; i < len(SubstepOrder); i++ {
		w.Steps[SubstepOrder[i]] = SubstepNotStarted
	}
	if idx < substepIndex(SubstepPricing) {
		w.Draft.Price = nil
		w.Draft.PriceStale = false
	}
}

// ChainComplete reports whether all five substeps are completed.
func (w *ItemWizard) ChainComplete() bool {
	for _, k := range SubstepOrder {
		if w.Steps[k] != SubstepCompleted {
			return false
		}
	}
	return true
}

// Stage2Context owns the session's draft item list and the open item wizard.
type Stage2Context struct {
	Initialized bool         `json:"initialized"`
	Items       []*ItemDraft `json:"items"`
	Wizard      *ItemWizard  `json:"itemWizard,omitempty"`
}

// ItemByID finds a committed item draft by id.
func (c *Stage2Context) ItemByID(id uuid.UUID) (*ItemDraft, int) {
	for i, item := range c.Items {
		if item.ID == id {
			return item, i
		}
	}
	return nil, -1
}

// Ready reports stage-2 readiness: a non-empty item list where every item
// carries a strictly positive computed total.
func (c *Stage2Context) Ready() bool {
	if len(c.Items) == 0 {
		return false
	}
	for _, item := range c.Items {
		if item.TotalPrice() <= 0 {
			return false
		}
	}
	return true
}
