package prompts

import (
	"strings"
	"testing"
)

func TestBuildSubstitutesCheckers(t *testing.T) {
	for _, step := range []Step{StepNormalizeNames, StepCheckCompanyName} {
		got, err := Build(step, []string{"田中", "鈴木"})
		if err != nil {
			t.Fatalf("Build(%s): %v", step, err)
		}
		if !strings.Contains(got, "田中、鈴木") {
			t.Errorf("Build(%s) missing joined checker names", step)
		}
		if strings.Contains(got, "{checker}") {
			t.Errorf("Build(%s) left the placeholder unsubstituted", step)
		}
	}
}

func TestBuildFailsFastWithoutCheckers(t *testing.T) {
	for _, step := range []Step{StepNormalizeNames, StepCheckCompanyName} {
		if _, err := Build(step, nil); err == nil {
			t.Errorf("Build(%s, nil) = nil error, want missing-parameter error", step)
		}
	}
}

func TestBuildStepsWithoutParameters(t *testing.T) {
	steps := []Step{
		StepLabelSpeakers, StepCheckConduct, StepCheckLongCall,
		StepCheckCustomerReaction, StepCheckManners, StepToStructured,
	}
	for _, step := range steps {
		got, err := Build(step, nil)
		if err != nil {
			t.Fatalf("Build(%s): %v", step, err)
		}
		if got == "" {
			t.Errorf("Build(%s) returned empty template", step)
		}
	}
}

func TestJudgmentLiteralsPresent(t *testing.T) {
	// every rule-check template must pin the two literal judgment labels
	for _, step := range []Step{StepCheckConduct, StepCheckLongCall, StepCheckCustomerReaction, StepCheckManners} {
		got, _ := Build(step, nil)
		if !strings.Contains(got, "問題なし") || !strings.Contains(got, "問題あり") {
			t.Errorf("Build(%s) missing binary judgment literals", step)
		}
	}
}

func TestStepString(t *testing.T) {
	if got := StepCheckLongCall.String(); got != "check_long_call" {
		t.Errorf("String = %q", got)
	}
	if got := Step(99).String(); got != "step(99)" {
		t.Errorf("unknown step String = %q", got)
	}
}
