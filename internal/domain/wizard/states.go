package wizard

// Stage is one of the four top-level phases of the order wizard.
type Stage string

const (
	StageClientInfo   Stage = "STAGE1_CLIENT_INFO"
	StageItems        Stage = "STAGE2_ITEMS"
	StageOrderParams  Stage = "STAGE3_ORDER_PARAMS"
	StageConfirmation Stage = "STAGE4_CONFIRMATION"
)

var stageOrder = []Stage{StageClientInfo, StageItems, StageOrderParams, StageConfirmation}

// NextStage returns the stage following s, or false when s is the last one.
func NextStage(s Stage) (Stage, bool) {
	for i, st := range stageOrder {
		if st == s && i+1 < len(stageOrder) {
			return stageOrder[i+1], true
		}
	}
	return "", false
}

// Stages lists the wizard stages in order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ClientSearchState is the state of the stage-1 client search sub-machine.
type ClientSearchState string

const (
	SearchIdle           ClientSearchState = "IDLE"
	SearchSearching      ClientSearchState = "SEARCHING"
	SearchResultsShown   ClientSearchState = "RESULTS_SHOWN"
	SearchClientSelected ClientSearchState = "CLIENT_SELECTED"
	SearchCancelled      ClientSearchState = "CANCELLED"
)

// NewClientState is the state of the stage-1 new-client form sub-machine.
type NewClientState string

const (
	NewClientNotStarted NewClientState = "NOT_STARTED"
	NewClientEditing    NewClientState = "EDITING"
	NewClientValidated  NewClientState = "VALIDATED"
	NewClientCreated    NewClientState = "CREATED"
	NewClientCancelled  NewClientState = "CANCELLED"
)

// BasicInfoState is the state of the stage-1 basic order info sub-machine.
type BasicInfoState string

const (
	BasicInfoNotStarted       BasicInfoState = "NOT_STARTED"
	BasicInfoBranchSelected   BasicInfoState = "BRANCH_SELECTED"
	BasicInfoReceiptGenerated BasicInfoState = "RECEIPT_NUMBER_GENERATED"
	BasicInfoTagSet           BasicInfoState = "TAG_SET"
	BasicInfoValidated        BasicInfoState = "VALIDATED"
	BasicInfoCompleted        BasicInfoState = "COMPLETED"
)

// SubstepKind identifies one of the five ordered phases of the per-item
// wizard in stage 2.
type SubstepKind string

const (
	SubstepBasicInfo       SubstepKind = "BASIC_INFO"
	SubstepCharacteristics SubstepKind = "CHARACTERISTICS"
	SubstepStains          SubstepKind = "STAINS_DEFECTS"
	SubstepPricing         SubstepKind = "PRICE_DISCOUNTS"
	SubstepPhotos          SubstepKind = "PHOTO_DOCS"
)

// SubstepOrder is the fixed substep sequence of the per-item wizard.
var SubstepOrder = []SubstepKind{
	SubstepBasicInfo,
	SubstepCharacteristics,
	SubstepStains,
	SubstepPricing,
	SubstepPhotos,
}

func substepIndex(k SubstepKind) int {
	for i, s := range SubstepOrder {
		if s == k {
			return i
		}
	}
	return -1
}

// SubstepStatus is the completion status of one substep.
type SubstepStatus string

const (
	SubstepNotStarted SubstepStatus = "NOT_STARTED"
	SubstepInProgress SubstepStatus = "IN_PROGRESS"
	SubstepCompleted  SubstepStatus = "COMPLETED"
)

// ConfirmationState is the state of the stage-4 machine.
type ConfirmationState string

const (
	ConfirmationConfirming        ConfirmationState = "CONFIRMING"
	ConfirmationLegallyAccepted   ConfirmationState = "LEGALLY_ACCEPTED"
	ConfirmationReceiptConfigured ConfirmationState = "RECEIPT_CONFIGURED"
	ConfirmationCompleted         ConfirmationState = "COMPLETED"
)
