package wizard

import "sort"

// DefectType describes a stain/defect tag and the evidence it demands before
// the stains substep may complete.
type DefectType struct {
	Code                string `json:"code"`
	Name                string `json:"name"`
	PhotoRequired       bool   `json:"photoRequired"`
	ExplanationRequired bool   `json:"explanationRequired"`
}

var defectTypes = map[string]DefectType{
	"TORN":           {Code: "TORN", Name: "Torn fabric", PhotoRequired: true},
	"BURN":           {Code: "BURN", Name: "Burn mark", PhotoRequired: true},
	"MOTH_DAMAGE":    {Code: "MOTH_DAMAGE", Name: "Moth damage", PhotoRequired: true},
	"COLOR_FADE":     {Code: "COLOR_FADE", Name: "Color fading"},
	"MISSING_BUTTON": {Code: "MISSING_BUTTON", Name: "Missing buttons"},
	"STAIN_GREASE":   {Code: "STAIN_GREASE", Name: "Grease stain"},
	"STAIN_INK":      {Code: "STAIN_INK", Name: "Ink stain"},
	"STAIN_UNKNOWN":  {Code: "STAIN_UNKNOWN", Name: "Unidentified stain", ExplanationRequired: true},
	"ZIPPER_BROKEN":  {Code: "ZIPPER_BROKEN", Name: "Broken zipper", ExplanationRequired: true},
}

// DefectByCode looks up a defect type by its tag code.
func DefectByCode(code string) (DefectType, bool) {
	d, ok := defectTypes[code]
	return d, ok
}

// DefectTypes returns every known defect type ordered by code.
func DefectTypes() []DefectType {
	out := make([]DefectType, 0, len(defectTypes))
	for _, d := range defectTypes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
