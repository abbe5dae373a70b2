package validation

import "testing"

func TestYearBounds(t *testing.T) {
	cases := []struct {
		year int
		want bool
	}{
		{1899, false},
		{1900, true},
		{2022, true},
		{2099, true},
		{2100, false},
		{0, false},
	}

	for _, tc := range cases {
		if got := Year(tc.year); got != tc.want {
			t.Errorf("Year(%d) = %v, want %v", tc.year, got, tc.want)
		}
	}
}

func TestExamType(t *testing.T) {
	for _, valid := range []string{"", "mid-sem", "end-sem", "term-exam"} {
		if !ExamType(valid) {
			t.Errorf("ExamType(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"midsem", "final", "MID-SEM"} {
		if ExamType(invalid) {
			t.Errorf("ExamType(%q) = true, want false", invalid)
		}
	}
}

func TestStringValidation(t *testing.T) {
	if !NewStringValidation("student@example.com").WithPattern(CompiledPatterns.Email).Validate() {
		t.Error("valid email rejected")
	}
	if NewStringValidation("not-an-email").WithPattern(CompiledPatterns.Email).Validate() {
		t.Error("invalid email accepted")
	}
	if NewStringValidation("short").WithMinLength(PasswordMinLength).Validate() {
		t.Error("undersized value accepted")
	}
	if NewStringValidation("abcdef").WithMaxLength(3).Validate() {
		t.Error("oversized value accepted")
	}
	if NewStringValidation("").Validate() {
		t.Error("required empty value accepted")
	}
	if !NewStringValidation("").WithRequired(false).WithMinLength(10).Validate() {
		t.Error("optional empty value rejected")
	}
}

func TestRequiredText(t *testing.T) {
	if v, ok := RequiredText("  Algorithms  "); !ok || v != "Algorithms" {
		t.Errorf("RequiredText trimmed = %q, ok = %v", v, ok)
	}
	if _, ok := RequiredText("   "); ok {
		t.Error("RequiredText accepted whitespace-only value")
	}
}
