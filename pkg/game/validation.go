package game

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cluetrail/backend/pkg/models"
)

// CustomValidator is a bespoke predicate for a step kind whose rule cannot
// be expressed by the generic rule kinds.
type CustomValidator func(answer interface{}) bool

// customValidators maps a step kind to its registered predicate. The generic
// evaluator never consults this table; callers dispatch to it explicitly via
// EvaluateStep when the rule kind is "custom".
var customValidators = map[string]CustomValidator{
	"image-analysis": imageEnhanceValidator,
}

// RegisterCustomValidator installs a predicate for a step kind, replacing
// any previous one. Not safe for concurrent use with evaluation; register
// during startup.
func RegisterCustomValidator(stepKind string, fn CustomValidator) {
	customValidators[stepKind] = fn
}

// EvaluateAnswer checks a submitted answer against a validation rule.
// It never panics: malformed rules (bad regex, unparseable numbers) fail
// closed and return false. Rules of kind "custom" always return false here.
func EvaluateAnswer(answer interface{}, rule models.ValidationRule) bool {
	submitted := stringify(answer)

	switch rule.Kind {
	case "exact":
		if rule.CaseSensitive {
			return submitted == rule.Value
		}
		return strings.EqualFold(submitted, rule.Value)

	case "contains":
		if rule.CaseSensitive {
			return strings.Contains(submitted, rule.Value)
		}
		return strings.Contains(strings.ToLower(submitted), strings.ToLower(rule.Value))

	case "regex":
		pattern := rule.Value
		if !rule.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(submitted)

	case "numeric":
		want, err1 := strconv.ParseFloat(strings.TrimSpace(rule.Value), 64)
		got, err2 := strconv.ParseFloat(strings.TrimSpace(submitted), 64)
		if err1 != nil || err2 != nil {
			return false
		}
		// NaN never equals anything, including itself.
		return want == got

	case "custom":
		return false

	default:
		return false
	}
}

// EvaluateStep checks an answer against a step, dispatching "custom" rules
// to the registered predicate for the step's kind.
func EvaluateStep(answer interface{}, step models.PuzzleStep) bool {
	if step.Validation.Kind == "custom" {
		if fn, ok := customValidators[step.Kind]; ok {
			return fn(answer)
		}
		return false
	}
	return EvaluateAnswer(answer, step.Validation)
}

// imageEnhanceValidator accepts enhancement settings within a tolerance band
// of the expected values (brightness 60, contrast 75, sharpness 80, ±10 each).
func imageEnhanceValidator(answer interface{}) bool {
	settings, ok := answer.(map[string]interface{})
	if !ok {
		return false
	}
	expected := map[string]float64{
		"brightness": 60,
		"contrast":   75,
		"sharpness":  80,
	}
	for name, want := range expected {
		raw, ok := settings[name]
		if !ok {
			return false
		}
		got, err := strconv.ParseFloat(stringify(raw), 64)
		if err != nil || math.Abs(got-want) > 10 {
			return false
		}
	}
	return true
}

// stringify turns an opaque answer payload into the string form the rule
// kinds compare against.
func stringify(answer interface{}) string {
	switch v := answer.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
