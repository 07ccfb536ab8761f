// Package validation checks user supplied medicine descriptions before they reach the NLP service.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/medicine-compare/interfaces"
)

// MaxTextLength is the longest description accepted, in characters
const MaxTextLength = 500

// Dangerous patterns as strings (faster than regex for simple substring matching).
// Plain punctuation such as ';' or '&' is allowed since descriptions are free text.
var dangerousPatterns = []string{
	// Script injection
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "onmouseover=", "eval(", "expression(", "<iframe", "<object",
	// SQL injection
	"union select", "drop table", "delete from", "insert into", "xp_cmdshell",
	// Command and template injection
	"$(", "${", "{{", "`",
	// Path traversal
	"../", "..\\", "%2e%2e", "file://",
	// NoSQL injection
	"{$ne:", "{$gt:", "{$where:", "{$regex:",
}

// InputValidator implements interfaces.InputValidator
type InputValidator struct{}

// NewInputValidator creates a new validator
func NewInputValidator() interfaces.InputValidator {
	return &InputValidator{}
}

// ValidateMedicineText rejects blank, oversized or suspicious descriptions.
// Chinese and other non-Latin scripts are accepted.
func (v *InputValidator) ValidateMedicineText(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("medicine description cannot be empty")
	}

	if !utf8.ValidString(input) {
		return fmt.Errorf("medicine description must be valid UTF-8")
	}

	if n := utf8.RuneCountInString(input); n > MaxTextLength {
		return fmt.Errorf("medicine description too long: maximum %d characters", MaxTextLength)
	}

	for _, r := range input {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return fmt.Errorf("medicine description contains control characters")
		}
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("medicine description contains potentially dangerous content")
		}
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("medicine description contains excessive character repetition")
	}

	return nil
}

// hasExcessiveRepetition reports a rune repeated more than 20 times in a row
func hasExcessiveRepetition(input string) bool {
	var prev rune = -1
	run := 0
	for _, r := range input {
		if r == prev && !unicode.IsSpace(r) {
			run++
			if run > 20 {
				return true
			}
			continue
		}
		prev = r
		run = 1
	}
	return false
}
