package catalog

import (
	"errors"
	"strings"

	"github.com/Knetic/govaluate"
)

// AppliesTo evaluates the modifier's applicability condition against draft
// parameters (category, material, wear_level, quantity). An empty condition
// applies unconditionally.
func (m Modifier) AppliesTo(params map[string]interface{}) (bool, error) {
	cond := strings.TrimSpace(m.Condition)
	if cond == "" {
		return true, nil
	}
	switch strings.ToLower(cond) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	expr, err := govaluate.NewEvaluableExpression(cond)
	if err != nil {
		return false, err
	}
	result, err := expr.Evaluate(params)
	if err != nil {
		return false, err
	}
	switch v := result.(type) {
	case bool:
		return v, nil
	default:
		return false, errors.New("modifier condition did not evaluate to boolean")
	}
}
