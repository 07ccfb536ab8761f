package validation

import (
	"strings"
	"testing"
)

func TestNewInputValidator(t *testing.T) {
	if NewInputValidator() == nil {
		t.Fatal("NewInputValidator returned nil")
	}
}

func TestValidateMedicineText(t *testing.T) {
	v := NewInputValidator()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"english", "Ginseng root extract, 200mg twice daily", ""},
		{"chinese", "人参 补气养血，每日两次", ""},
		{"mixed", "阿司匹林 aspirin 100mg; take with food & water", ""},
		{"full width", "Ｇｉｎｓｅｎｇ", ""},
		{"multiline", "ginseng\nlicorice", ""},
		{"empty", "", "cannot be empty"},
		{"blank", "   \t\n", "cannot be empty"},
		{"too long", strings.Repeat("ab", MaxTextLength), "too long"},
		{"null byte", "ginseng\x00", "control characters"},
		{"script", "<script>alert(1)</script>", "dangerous"},
		{"sql", "ginseng UNION SELECT password", "dangerous"},
		{"template", "{{.Env}}", "dangerous"},
		{"traversal", "../../etc/passwd", "dangerous"},
		{"repetition", "ginseng" + strings.Repeat("!", 30), "repetition"},
		{"invalid utf8", "ginseng\xff", "UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateMedicineText(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateMedicineTextLengthCountsRunes(t *testing.T) {
	v := NewInputValidator()

	// 500 CJK characters are 1500 bytes but still within the limit
	if err := v.ValidateMedicineText(strings.Repeat("人参甘草当归", MaxTextLength/6)); err != nil {
		t.Errorf("Expected CJK input within the rune limit to pass, got %v", err)
	}
}

func TestHasExcessiveRepetition(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"ginseng", false},
		{strings.Repeat("a", 20), false},
		{strings.Repeat("a", 21), true},
		{strings.Repeat("参", 25), true},
		{"a" + strings.Repeat(" ", 40) + "b", false},
	}

	for _, tt := range tests {
		if got := hasExcessiveRepetition(tt.input); got != tt.expected {
			t.Errorf("hasExcessiveRepetition(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
