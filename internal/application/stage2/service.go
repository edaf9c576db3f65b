// Package stage2 implements the item management stage. A session holds a
// list of committed item drafts plus at most one open item wizard, a chain
// of five ordered substeps that collects one item's data before it is
// promoted to a persisted order item.
package stage2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleanline/cleanline/internal/domain/catalog"
	"github.com/cleanline/cleanline/internal/domain/order"
	"github.com/cleanline/cleanline/internal/domain/photo"
	"github.com/cleanline/cleanline/internal/domain/wizard"
)

// Service drives the stage-2 item manager and the per-item substep chain.
type Service struct {
	engine catalog.Engine
	orders order.Repository
	photos photo.Store
	logger zerolog.Logger
}

// NewService creates the stage-2 machine.
func NewService(engine catalog.Engine, orders order.Repository, photos photo.Store, logger zerolog.Logger) *Service {
	return &Service{
		engine: engine,
		orders: orders,
		photos: photos,
		logger: logger.With().Str("service", "stage2").Logger(),
	}
}

func (s *Service) Stage() wizard.Stage { return wizard.StageItems }

func (s *Service) CompletionEvent() wizard.Event { return wizard.EventStage2Completed }

func (s *Service) Ready(sess *wizard.Session) bool {
	return sess.Stage2.Wizard == nil && sess.Stage2.Ready()
}

// Status returns the aggregate stage view for status queries.
func (s *Service) Status(sess *wizard.Session) interface{} {
	return sess.Stage2
}

type itemRefRequest struct {
	ItemID uuid.UUID `json:"itemId"`
}

type basicInfoRequest struct {
	CategoryID    uuid.UUID `json:"categoryId"`
	CatalogItemID uuid.UUID `json:"catalogItemId"`
	Quantity      float64   `json:"quantity"`
}

type characteristicsRequest struct {
	Material  string `json:"material"`
	Color     string `json:"color"`
	Filler    string `json:"filler,omitempty"`
	WearLevel int    `json:"wearLevel"`
}

type stainsRequest struct {
	Stains []struct {
		Code        string `json:"code"`
		Explanation string `json:"explanation,omitempty"`
	} `json:"stains"`
	Notes string `json:"notes,omitempty"`
}

type modifierRequest struct {
	Code  string  `json:"code"`
	Value float64 `json:"value"`
}

type photoRemoveRequest struct {
	PhotoID uuid.UUID `json:"photoId"`
}

type reopenRequest struct {
	Substep wizard.SubstepKind `json:"substep"`
}

// Handle applies one stage-2 event to the session.
func (s *Service) Handle(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result {
	if err := s.ensureInitialized(ctx, sess); err != nil {
		return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
	}

	switch ev {
	case wizard.EventItemWizardStarted,
		wizard.EventItemEditStarted,
		wizard.EventItemAdded,
		wizard.EventItemDeleted,
		wizard.EventItemWizardClosed,
		wizard.EventStage2Completed:
		return s.handleManager(ctx, sess, ev, payload)
	case wizard.EventItemBasicInfoSubmitted,
		wizard.EventCharacteristicsSubmitted,
		wizard.EventStainsSubmitted,
		wizard.EventModifierApplied,
		wizard.EventModifierRemoved,
		wizard.EventPriceCalculationRequested,
		wizard.EventPricingCompleted,
		wizard.EventPhotoAttached,
		wizard.EventPhotoRemoved,
		wizard.EventPhotosCompleted,
		wizard.EventSubstepReopened:
		return s.handleSubstep(ctx, sess, ev, payload)
	default:
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "event "+string(ev)+" is not a stage-2 event")
	}
}

// ensureInitialized reloads committed items from storage on the first stage-2
// event, so a session resumed mid-order sees the items it already committed.
// A storage fault leaves the session uninitialized, so the next event retries
// instead of silently proceeding with an empty item list.
func (s *Service) ensureInitialized(ctx context.Context, sess *wizard.Session) error {
	if sess.Stage2.Initialized {
		return nil
	}
	if sess.OrderID == nil || len(sess.Stage2.Items) > 0 {
		sess.Stage2.Initialized = true
		return nil
	}
	rows, err := s.orders.ListItems(ctx, *sess.OrderID)
	if err != nil {
		return fmt.Errorf("reload committed order items: %w", err)
	}
	for _, row := range rows {
		var draft wizard.ItemDraft
		if err := json.Unmarshal(row.Details, &draft); err != nil {
			s.logger.Warn().Err(err).Str("item_id", row.ID.String()).Msg("skipping unreadable item details")
			continue
		}
		draft.ID = row.ID
		d := draft
		sess.Stage2.Items = append(sess.Stage2.Items, &d)
	}
	sess.Stage2.Initialized = true
	return nil
}

// stateOf renders the stage-2 substate: the open wizard's current substep, or
// the manager view when no wizard is open.
func (s *Service) stateOf(sess *wizard.Session) string {
	if w := sess.Stage2.Wizard; w != nil {
		return string(w.Current)
	}
	return "ITEM_MANAGER"
}

func (s *Service) handleManager(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result {
	st2 := &sess.Stage2

	switch ev {
	case wizard.EventItemWizardStarted:
		if st2.Wizard != nil {
			return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "an item wizard is already open")
		}
		st2.Wizard = wizard.NewItemWizard()
		return wizard.OK(s.Stage(), s.stateOf(sess), map[string]interface{}{"draftId": st2.Wizard.Draft.ID})

	case wizard.EventItemEditStarted:
		if st2.Wizard != nil {
			return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "an item wizard is already open")
		}
		var req itemRefRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
		}
		item, _ := st2.ItemByID(req.ItemID)
		if item == nil {
			return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("itemId", "item not found in this order"))
		}
		st2.Wizard = wizard.NewEditItemWizard(item.ID, *item)
		return wizard.OK(s.Stage(), s.stateOf(sess), nil)

	case wizard.EventItemAdded:
		return s.commitItem(ctx, sess)

	case wizard.EventItemDeleted:
		if st2.Wizard != nil {
			return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "close the open item wizard before deleting items")
		}
		var req itemRefRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
		}
		item, idx := st2.ItemByID(req.ItemID)
		if item == nil {
			return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("itemId", "item not found in this order"))
		}
		if sess.OrderID != nil {
			if err := s.orders.DeleteItem(ctx, *sess.OrderID, item.ID); err != nil {
				return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
			}
		}
		st2.Items = append(st2.Items[:idx], st2.Items[idx+1:]...)
		return wizard.OK(s.Stage(), s.stateOf(sess), nil)

	case wizard.EventItemWizardClosed:
		if st2.Wizard == nil {
			return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "no item wizard is open")
		}
		st2.Wizard = nil
		return wizard.OK(s.Stage(), s.stateOf(sess), nil)

	default: // stage completed
		if st2.Wizard != nil {
			return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "close the open item wizard before completing the stage")
		}
		if !st2.Ready() {
			return wizard.Fail(s.Stage(), s.stateOf(sess),
				wizard.FieldViolation("items", "the order needs at least one item and every item needs a positive computed price"))
		}
		return wizard.OK(s.Stage(), "READY", map[string]interface{}{"itemCount": len(st2.Items)})
	}
}

// commitItem promotes the open wizard's draft to a persisted order item once
// all five substeps are completed.
func (s *Service) commitItem(ctx context.Context, sess *wizard.Session) wizard.Result {
	st2 := &sess.Stage2
	w := st2.Wizard
	if w == nil {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "no item wizard is open")
	}
	if !w.ChainComplete() {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "the item wizard has uncompleted substeps")
	}
	if w.Draft.Price == nil || w.Draft.PriceStale {
		return wizard.Fail(s.Stage(), s.stateOf(sess),
			wizard.FieldViolation("price", "a current price calculation is required"))
	}
	if w.Draft.PhotoRequired() && len(w.Draft.Photos) == 0 {
		return wizard.Fail(s.Stage(), s.stateOf(sess),
			wizard.FieldViolation("photos", "photo required: a selected defect demands photographic evidence"))
	}
	if sess.OrderID == nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("orderId", "session has no draft order"))
	}

	details, err := json.Marshal(w.Draft)
	if err != nil {
		return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
	}
	now := time.Now().UTC()
	row := &order.Item{
		ID:            w.Draft.ID,
		OrderID:       *sess.OrderID,
		CatalogItemID: w.Draft.CatalogItemID,
		Name:          w.Draft.ItemName,
		Quantity:      w.Draft.Quantity,
		Total:         w.Draft.TotalPrice(),
		Details:       details,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if w.EditingItemID != nil {
		if err := s.orders.UpdateItem(ctx, row); err != nil {
			return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
		}
		if _, idx := st2.ItemByID(*w.EditingItemID); idx >= 0 {
			d := w.Draft
			st2.Items[idx] = &d
		}
	} else {
		if err := s.orders.AddItem(ctx, row); err != nil {
			return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
		}
		d := w.Draft
		st2.Items = append(st2.Items, &d)
	}
	st2.Wizard = nil
	s.logger.Info().Str("item_id", row.ID.String()).Float64("total", row.Total).Msg("order item committed")
	return wizard.OK(s.Stage(), s.stateOf(sess), map[string]interface{}{"itemId": row.ID, "total": row.Total})
}

func (s *Service) handleSubstep(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result {
	w := sess.Stage2.Wizard
	if w == nil {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "no item wizard is open")
	}

	switch ev {
	case wizard.EventItemBasicInfoSubmitted:
		return s.submitBasicInfo(ctx, sess, w, payload)
	case wizard.EventCharacteristicsSubmitted:
		return s.submitCharacteristics(sess, w, payload)
	case wizard.EventStainsSubmitted:
		return s.submitStains(sess, w, payload)
	case wizard.EventModifierApplied:
		return s.applyModifier(ctx, sess, w, payload)
	case wizard.EventModifierRemoved:
		return s.removeModifier(sess, w, payload)
	case wizard.EventPriceCalculationRequested:
		return s.calculatePrice(ctx, sess, w)
	case wizard.EventPricingCompleted:
		return s.completePricing(sess, w)
	case wizard.EventPhotoAttached:
		return s.attachPhoto(ctx, sess, w, payload)
	case wizard.EventPhotoRemoved:
		return s.removePhoto(ctx, sess, w, payload)
	case wizard.EventPhotosCompleted:
		return s.completePhotos(sess, w)
	default: // substep reopened
		var req reopenRequest
		if err := decode(payload, &req); err != nil {
			return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
		}
		if !w.Reopen(req.Substep) {
			return wizard.IllegalTransition(s.Stage(), s.stateOf(sess),
				"substep "+string(req.Substep)+" cannot be reopened")
		}
		return wizard.OK(s.Stage(), s.stateOf(sess), map[string]interface{}{"steps": w.Steps})
	}
}

func (s *Service) submitBasicInfo(ctx context.Context, sess *wizard.Session, w *wizard.ItemWizard, payload json.RawMessage) wizard.Result {
	if !w.CanSubmit(wizard.SubstepBasicInfo) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "basic info substep is not open for submission")
	}
	var req basicInfoRequest
	if err := decode(payload, &req); err != nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
	}
	if v := wizard.RequirePositive("quantity", req.Quantity); v != nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), *v)
	}

	categories, err := s.engine.ServiceCategories(ctx)
	if err != nil {
		return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
	}
	var category *catalog.Category
	for i := range categories {
		if categories[i].ID == req.CategoryID {
			category = &categories[i]
			break
		}
	}
	if category == nil || !category.Active {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("categoryId", "unknown or inactive service category"))
	}

	items, err := s.engine.ItemsForCategory(ctx, category.ID)
	if err != nil {
		return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
	}
	var catalogItem *catalog.Item
	for i := range items {
		if items[i].ID == req.CatalogItemID {
			catalogItem = &items[i]
			break
		}
	}
	if catalogItem == nil || !catalogItem.Active {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("catalogItemId", "unknown or inactive catalog item"))
	}

	w.Draft.CategoryID = category.ID
	w.Draft.CategoryCode = category.Code
	w.Draft.CategoryRequiresFiller = category.RequiresFiller
	w.Draft.CatalogItemID = catalogItem.ID
	w.Draft.ItemName = catalogItem.Name
	w.Draft.Quantity = req.Quantity
	w.Complete(wizard.SubstepBasicInfo)
	return wizard.OK(s.Stage(), s.stateOf(sess), nil)
}

func (s *Service) submitCharacteristics(sess *wizard.Session, w *wizard.ItemWizard, payload json.RawMessage) wizard.Result {
	if !w.CanSubmit(wizard.SubstepCharacteristics) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "characteristics substep is not open for submission")
	}
	var req characteristicsRequest
	if err := decode(payload, &req); err != nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
	}
	errs := wizard.Collect(
		wizard.RequireNonEmpty("material", req.Material),
		wizard.RequireNonEmpty("color", req.Color),
		wizard.RequireRange("wearLevel", float64(req.WearLevel), 0, 100),
	)
	if w.Draft.CategoryRequiresFiller && req.Filler == "" {
		errs = append(errs, wizard.FieldViolation("filler", "filler is required for this service category"))
	}
	if len(errs) > 0 {
		return wizard.Fail(s.Stage(), s.stateOf(sess), errs...)
	}
	w.Draft.Characteristics = wizard.ItemCharacteristics{
		Material:  req.Material,
		Color:     req.Color,
		Filler:    req.Filler,
		WearLevel: req.WearLevel,
	}
	w.Complete(wizard.SubstepCharacteristics)
	return wizard.OK(s.Stage(), s.stateOf(sess), nil)
}

func (s *Service) submitStains(sess *wizard.Session, w *wizard.ItemWizard, payload json.RawMessage) wizard.Result {
	if !w.CanSubmit(wizard.SubstepStains) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "stains substep is not open for submission")
	}
	var req stainsRequest
	if err := decode(payload, &req); err != nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
	}

	var errs []wizard.Violation
	selections := make([]wizard.StainSelection, 0, len(req.Stains))
	for _, st := range req.Stains {
		defect, ok := wizard.DefectByCode(st.Code)
		if !ok {
			errs = append(errs, wizard.FieldViolation("stains", "unknown defect code "+st.Code))
			continue
		}
		if defect.ExplanationRequired && st.Explanation == "" {
			errs = append(errs, wizard.FieldViolation("stains", "defect "+st.Code+" requires an explanation"))
			continue
		}
		selections = append(selections, wizard.StainSelection{
			Code:                defect.Code,
			Name:                defect.Name,
			PhotoRequired:       defect.PhotoRequired,
			ExplanationRequired: defect.ExplanationRequired,
			Explanation:         st.Explanation,
		})
	}
	if len(errs) > 0 {
		return wizard.Fail(s.Stage(), s.stateOf(sess), errs...)
	}
	w.Draft.Stains = selections
	w.Draft.StainNotes = req.Notes
	w.Complete(wizard.SubstepStains)
	return wizard.OK(s.Stage(), s.stateOf(sess), nil)
}

func (s *Service) applyModifier(ctx context.Context, sess *wizard.Session, w *wizard.ItemWizard, payload json.RawMessage) wizard.Result {
	if !w.CanSubmit(wizard.SubstepPricing) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "pricing substep is not open for submission")
	}
	var req modifierRequest
	if err := decode(payload, &req); err != nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
	}

	offered, err := s.engine.RecommendedModifiers(ctx, w.Draft.CategoryCode, w.Draft.ItemName)
	if err != nil {
		return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
	}
	var mod *catalog.Modifier
	for i := range offered {
		if offered[i].Code == req.Code {
			mod = &offered[i]
			break
		}
	}
	if mod == nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("code", "modifier is not offered for this item"))
	}

	applies, err := mod.AppliesTo(map[string]interface{}{
		"category":   w.Draft.CategoryCode,
		"material":   w.Draft.Characteristics.Material,
		"wear_level": float64(w.Draft.Characteristics.WearLevel),
		"quantity":   w.Draft.Quantity,
	})
	if err != nil {
		return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
	}
	if !applies {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("code", "modifier does not apply to this item"))
	}
	if req.Value < mod.MinValue || req.Value > mod.MaxValue {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("value", "value is outside the modifier's allowed range"))
	}

	applied := catalog.AppliedModifier{Code: mod.Code, Kind: mod.Kind, Value: req.Value}
	replaced := false
	mods := make([]catalog.AppliedModifier, 0, len(w.Draft.Modifiers)+1)
	for _, m := range w.Draft.Modifiers {
		if m.Code == applied.Code {
			mods = append(mods, applied)
			replaced = true
			continue
		}
		mods = append(mods, m)
	}
	if !replaced {
		mods = append(mods, applied)
	}
	w.Draft.Modifiers = mods
	s.markPriceStale(w)
	return wizard.OK(s.Stage(), s.stateOf(sess), map[string]interface{}{"modifiers": w.Draft.Modifiers})
}

func (s *Service) removeModifier(sess *wizard.Session, w *wizard.ItemWizard, payload json.RawMessage) wizard.Result {
	if !w.CanSubmit(wizard.SubstepPricing) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "pricing substep is not open for submission")
	}
	var req modifierRequest
	if err := decode(payload, &req); err != nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
	}
	mods := make([]catalog.AppliedModifier, 0, len(w.Draft.Modifiers))
	removed := false
	for _, m := range w.Draft.Modifiers {
		if m.Code == req.Code {
			removed = true
			continue
		}
		mods = append(mods, m)
	}
	if !removed {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("code", "modifier is not applied to this item"))
	}
	w.Draft.Modifiers = mods
	s.markPriceStale(w)
	return wizard.OK(s.Stage(), s.stateOf(sess), map[string]interface{}{"modifiers": w.Draft.Modifiers})
}

// markPriceStale records that the applied modifier set changed. A price
// computed before the change can no longer be trusted, so a pricing substep
// already marked completed is reopened until the price is recomputed.
func (s *Service) markPriceStale(w *wizard.ItemWizard) {
	if w.Draft.Price != nil {
		w.Draft.PriceStale = true
	}
	if w.Status(wizard.SubstepPricing) == wizard.SubstepCompleted {
		w.Reopen(wizard.SubstepPricing)
	}
}

func (s *Service) calculatePrice(ctx context.Context, sess *wizard.Session, w *wizard.ItemWizard) wizard.Result {
	if !w.CanSubmit(wizard.SubstepPricing) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "pricing substep is not open for submission")
	}
	breakdown, err := s.engine.CalculatePrice(ctx, catalog.PriceRequest{
		ItemID:    w.Draft.CatalogItemID,
		Quantity:  w.Draft.Quantity,
		Modifiers: w.Draft.Modifiers,
	})
	if err != nil {
		return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
	}
	w.Draft.Price = breakdown
	w.Draft.PriceStale = false
	return wizard.OK(s.Stage(), s.stateOf(sess), map[string]interface{}{"price": breakdown})
}

func (s *Service) completePricing(sess *wizard.Session, w *wizard.ItemWizard) wizard.Result {
	if !w.CanSubmit(wizard.SubstepPricing) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "pricing substep is not open for submission")
	}
	if w.Draft.Price == nil || w.Draft.PriceStale {
		return wizard.Fail(s.Stage(), s.stateOf(sess),
			wizard.FieldViolation("price", "a current price calculation is required"))
	}
	if w.Draft.Price.Total <= 0 {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("price", "computed total must be positive"))
	}
	w.Complete(wizard.SubstepPricing)
	return wizard.OK(s.Stage(), s.stateOf(sess), nil)
}

func (s *Service) attachPhoto(ctx context.Context, sess *wizard.Session, w *wizard.ItemWizard, payload json.RawMessage) wizard.Result {
	if !w.CanSubmit(wizard.SubstepPhotos) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "photos substep is not open for submission")
	}
	var req photo.Upload
	if err := decode(payload, &req); err != nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
	}
	errs := wizard.Collect(
		wizard.RequireNonEmpty("fileName", req.FileName),
		wizard.RequireNonEmpty("contentType", req.ContentType),
	)
	if len(req.Data) == 0 {
		errs = append(errs, wizard.FieldViolation("data", "photo data is required"))
	}
	if len(errs) > 0 {
		return wizard.Fail(s.Stage(), s.stateOf(sess), errs...)
	}
	ref, err := s.photos.Store(ctx, req)
	if err != nil {
		return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
	}
	w.Draft.Photos = append(w.Draft.Photos, *ref)
	return wizard.OK(s.Stage(), s.stateOf(sess), map[string]interface{}{"photo": ref})
}

func (s *Service) removePhoto(ctx context.Context, sess *wizard.Session, w *wizard.ItemWizard, payload json.RawMessage) wizard.Result {
	if !w.CanSubmit(wizard.SubstepPhotos) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "photos substep is not open for submission")
	}
	var req photoRemoveRequest
	if err := decode(payload, &req); err != nil {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("payload", err.Error()))
	}
	idx := -1
	for i, ref := range w.Draft.Photos {
		if ref.ID == req.PhotoID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return wizard.Fail(s.Stage(), s.stateOf(sess), wizard.FieldViolation("photoId", "photo is not attached to this item"))
	}
	if err := s.photos.Delete(ctx, req.PhotoID); err != nil {
		return wizard.DependencyFailure(s.Stage(), s.stateOf(sess), err)
	}
	w.Draft.Photos = append(w.Draft.Photos[:idx], w.Draft.Photos[idx+1:]...)
	// Shedding the last photo of a defect that demands one reopens the
	// substep; the chain stays incomplete until evidence is re-attached.
	if w.Status(wizard.SubstepPhotos) == wizard.SubstepCompleted &&
		w.Draft.PhotoRequired() && len(w.Draft.Photos) == 0 {
		w.Reopen(wizard.SubstepPhotos)
	}
	return wizard.OK(s.Stage(), s.stateOf(sess), nil)
}

func (s *Service) completePhotos(sess *wizard.Session, w *wizard.ItemWizard) wizard.Result {
	if !w.CanSubmit(wizard.SubstepPhotos) {
		return wizard.IllegalTransition(s.Stage(), s.stateOf(sess), "photos substep is not open for submission")
	}
	if w.Draft.PhotoRequired() && len(w.Draft.Photos) == 0 {
		return wizard.Fail(s.Stage(), s.stateOf(sess),
			wizard.FieldViolation("photos", "photo required: a selected defect demands photographic evidence"))
	}
	w.Complete(wizard.SubstepPhotos)
	return wizard.OK(s.Stage(), s.stateOf(sess), map[string]interface{}{"chainComplete": w.ChainComplete()})
}

func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return errors.New("payload is required")
	}
	return json.Unmarshal(payload, v)
}
