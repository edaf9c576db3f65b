package wizard

// Event advances a session's state. Events are stage-scoped: the orchestrator
// rejects an event delivered while a different stage is active.
type Event string

const (
	// Stage 1: client search
	EventClientSearchRequested      Event = "CLIENT_SEARCH_REQUESTED"
	EventClientPhoneSearchRequested Event = "CLIENT_PHONE_SEARCH_REQUESTED"
	EventClientSelected             Event = "CLIENT_SELECTED"
	EventClientSearchCleared        Event = "CLIENT_SEARCH_CLEARED"
	EventClientSearchCancelled      Event = "CLIENT_SEARCH_CANCELLED"

	// Stage 1: new client form
	EventNewClientStarted   Event = "NEW_CLIENT_STARTED"
	EventNewClientEdited    Event = "NEW_CLIENT_EDITED"
	EventNewClientValidated Event = "NEW_CLIENT_VALIDATED"
	EventNewClientCreated   Event = "NEW_CLIENT_CREATED"
	EventNewClientCancelled Event = "NEW_CLIENT_CANCELLED"

	// Stage 1: basic order info
	EventBranchSelected         Event = "BRANCH_SELECTED"
	EventReceiptNumberRequested Event = "RECEIPT_NUMBER_REQUESTED"
	EventTagSet                 Event = "TAG_SET"
	EventOrderInfoValidated     Event = "ORDER_INFO_VALIDATED"
	EventOrderInfoCompleted     Event = "ORDER_INFO_COMPLETED"
	EventStage1Completed        Event = "STAGE1_COMPLETED"

	// Stage 2: item manager and substeps
	EventItemWizardStarted         Event = "ITEM_WIZARD_STARTED"
	EventItemEditStarted           Event = "ITEM_EDIT_STARTED"
	EventItemBasicInfoSubmitted    Event = "ITEM_BASIC_INFO_SUBMITTED"
	EventCharacteristicsSubmitted  Event = "ITEM_CHARACTERISTICS_SUBMITTED"
	EventStainsSubmitted           Event = "ITEM_STAINS_SUBMITTED"
	EventModifierApplied           Event = "MODIFIER_APPLIED"
	EventModifierRemoved           Event = "MODIFIER_REMOVED"
	EventPriceCalculationRequested Event = "PRICE_CALCULATION_REQUESTED"
	EventPricingCompleted          Event = "ITEM_PRICING_COMPLETED"
	EventPhotoAttached             Event = "PHOTO_ATTACHED"
	EventPhotoRemoved              Event = "PHOTO_REMOVED"
	EventPhotosCompleted           Event = "ITEM_PHOTOS_COMPLETED"
	EventSubstepReopened           Event = "SUBSTEP_REOPENED"
	EventItemAdded                 Event = "ITEM_ADDED"
	EventItemDeleted               Event = "ITEM_DELETED"
	EventItemWizardClosed          Event = "ITEM_WIZARD_CLOSED"
	EventStage2Completed           Event = "STAGE2_COMPLETED"

	// Stage 3: order-level parameters
	EventExecutionParamsSet Event = "EXECUTION_PARAMS_SET"
	EventDiscountConfigured Event = "DISCOUNT_CONFIGURED"
	EventPaymentConfigured  Event = "PAYMENT_CONFIGURED"
	EventAdditionalInfoSet  Event = "ADDITIONAL_INFO_SET"
	EventStage3Completed    Event = "STAGE3_COMPLETED"

	// Stage 4: confirmation and finalization
	EventOrderConfirmed    Event = "ORDER_CONFIRMED"
	EventTermsAccepted     Event = "TERMS_ACCEPTED"
	EventReceiptConfigured Event = "RECEIPT_CONFIGURED"
	EventOrderFinalized    Event = "ORDER_FINALIZED"
)

var eventStages = map[Event]Stage{
	EventClientSearchRequested:      StageClientInfo,
	EventClientPhoneSearchRequested: StageClientInfo,
	EventClientSelected:             StageClientInfo,
	EventClientSearchCleared:        StageClientInfo,
	EventClientSearchCancelled:      StageClientInfo,
	EventNewClientStarted:           StageClientInfo,
	EventNewClientEdited:            StageClientInfo,
	EventNewClientValidated:         StageClientInfo,
	EventNewClientCreated:           StageClientInfo,
	EventNewClientCancelled:         StageClientInfo,
	EventBranchSelected:             StageClientInfo,
	EventReceiptNumberRequested:     StageClientInfo,
	EventTagSet:                     StageClientInfo,
	EventOrderInfoValidated:         StageClientInfo,
	EventOrderInfoCompleted:         StageClientInfo,
	EventStage1Completed:            StageClientInfo,

	EventItemWizardStarted:         StageItems,
	EventItemEditStarted:           StageItems,
	EventItemBasicInfoSubmitted:    StageItems,
	EventCharacteristicsSubmitted:  StageItems,
	EventStainsSubmitted:           StageItems,
	EventModifierApplied:           StageItems,
	EventModifierRemoved:           StageItems,
	EventPriceCalculationRequested: StageItems,
	EventPricingCompleted:          StageItems,
	EventPhotoAttached:             StageItems,
	EventPhotoRemoved:              StageItems,
	EventPhotosCompleted:           StageItems,
	EventSubstepReopened:           StageItems,
	EventItemAdded:                 StageItems,
	EventItemDeleted:               StageItems,
	EventItemWizardClosed:          StageItems,
	EventStage2Completed:           StageItems,

	EventExecutionParamsSet: StageOrderParams,
	EventDiscountConfigured: StageOrderParams,
	EventPaymentConfigured:  StageOrderParams,
	EventAdditionalInfoSet:  StageOrderParams,
	EventStage3Completed:    StageOrderParams,

	EventOrderConfirmed:    StageConfirmation,
	EventTermsAccepted:     StageConfirmation,
	EventReceiptConfigured: StageConfirmation,
	EventOrderFinalized:    StageConfirmation,
}

// StageOf returns the stage an event belongs to.
func StageOf(ev Event) (Stage, bool) {
	s, ok := eventStages[ev]
	return s, ok
}
