// Package prompts holds the fixed quality-check step definitions and
// their instruction templates.
package prompts

import (
	"fmt"
	"strings"
)

// Step identifies one node of the quality-check chain.
type Step int

const (
	StepNormalizeNames Step = iota
	StepLabelSpeakers
	StepCheckCompanyName
	StepCheckConduct
	StepCheckLongCall
	StepCheckCustomerReaction
	StepCheckManners
	StepToStructured
)

var stepNames = map[Step]string{
	StepNormalizeNames:        "normalize_names",
	StepLabelSpeakers:         "label_speakers",
	StepCheckCompanyName:      "check_company_name",
	StepCheckConduct:          "check_agent_conduct",
	StepCheckLongCall:         "check_long_call",
	StepCheckCustomerReaction: "check_customer_reaction",
	StepCheckManners:          "check_manners",
	StepToStructured:          "to_structured",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// definition ties a step to its template and declared parameters, so a
// missing checker list fails before any network call is made.
type definition struct {
	template      string
	needsCheckers bool
}

var definitions = map[Step]definition{
	StepNormalizeNames:        {template: normalizeNamesTemplate, needsCheckers: true},
	StepLabelSpeakers:         {template: labelSpeakersTemplate},
	StepCheckCompanyName:      {template: companyNameTemplate, needsCheckers: true},
	StepCheckConduct:          {template: conductTemplate},
	StepCheckLongCall:         {template: longCallTemplate},
	StepCheckCustomerReaction: {template: customerReactionTemplate},
	StepCheckManners:          {template: mannersTemplate},
	StepToStructured:          {template: toStructuredTemplate},
}

const checkerPlaceholder = "{checker}"

// Build returns the system prompt for a step, substituting the
// caller-supplied agent surnames where the template declares them.
func Build(s Step, checkers []string) (string, error) {
	def, ok := definitions[s]
	if !ok {
		return "", fmt.Errorf("unknown step %v", s)
	}
	if def.needsCheckers && len(checkers) == 0 {
		return "", fmt.Errorf("step %s requires the checker-name list", s)
	}
	return strings.ReplaceAll(def.template, checkerPlaceholder, strings.Join(checkers, "、")), nil
}
