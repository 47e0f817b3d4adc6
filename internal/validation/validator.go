// =============================================================================
// ABN Bulk Lookup - ABN Validation
// =============================================================================
//
// This module checks ABNs offline before they are sent to the register.
// It validates:
//   - Character set (digits and spaces only)
//   - Length (exactly 11 digits once spaces are removed)
//   - The ABN check digit algorithm
//
// CHECK DIGIT ALGORITHM:
//   1. Subtract 1 from the first (left) digit
//   2. Multiply each digit by its weight: 10, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19
//   3. Sum the products
//   4. The ABN is valid if the sum is divisible by 89
//
// ERROR HANDLING:
//   - Errors are collected, not returned on the first failure
//   - Each error carries the input row and the offending value
//   - Validation never prevents a lookup; callers decide what to do
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"
)

// ABNLength is the number of digits in an ABN.
const ABNLength = 11

var weights = [ABNLength]int{10, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}

// Rule names reported in ValidationError.Rule.
const (
	RuleCharacters = "characters"
	RuleLength     = "length"
	RuleChecksum   = "checksum"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single rejected ABN.
type ValidationError struct {
	// Row is the 1-based position of the ABN in the input list.
	Row int

	// Value is the ABN exactly as it was supplied.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("Row %d, ABN '%s': %s", e.Row, e.Value, e.Message)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validating a list of ABNs.
type ValidationResult struct {
	// Valid holds the normalised ABNs that passed, in input order.
	Valid []string

	// Passed holds the same ABNs exactly as they were supplied.
	Passed []string

	// Errors holds one entry per rejected ABN, in input order.
	Errors []*ValidationError
}

// IsValid is true when no ABN was rejected.
func (r *ValidationResult) IsValid() bool { return len(r.Errors) == 0 }

// =============================================================================
// VALIDATORS
// =============================================================================

// Normalize removes all whitespace from abn.
func Normalize(abn string) string {
	return strings.Join(strings.Fields(abn), "")
}

// ValidateABN checks a single ABN. row is only used for error reporting.
//
// RETURNS:
//   - nil if the ABN is well-formed and its check digits are correct.
//   - A ValidationError naming the first rule that failed.
func ValidateABN(abn string, row int) *ValidationError {
	digits := Normalize(abn)

	fail := func(rule, msg string) *ValidationError {
		return &ValidationError{Row: row, Value: abn, Rule: rule, Message: msg}
	}

	for _, r := range digits {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return fail(RuleCharacters, fmt.Sprintf("contains non-digit character %q", r))
		}
	}
	if len(digits) != ABNLength {
		return fail(RuleLength, fmt.Sprintf("has %d digits, expected %d", len(digits), ABNLength))
	}
	if !checksumOK(digits) {
		return fail(RuleChecksum, "fails the ABN check digit test")
	}

	return nil
}

// IsValid reports whether abn passes ValidateABN.
func IsValid(abn string) bool {
	return ValidateABN(abn, 0) == nil
}

// ValidateAll checks every ABN in abns.
func ValidateAll(abns []string) *ValidationResult {
	result := &ValidationResult{}
	for i, abn := range abns {
		if err := ValidateABN(abn, i+1); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Valid = append(result.Valid, Normalize(abn))
		result.Passed = append(result.Passed, abn)
	}
	return result
}

// checksumOK expects exactly ABNLength ASCII digits.
func checksumOK(digits string) bool {
	sum := 0
	for i := 0; i < ABNLength; i++ {
		d := int(digits[i] - '0')
		if i == 0 {
			d--
		}
		sum += d * weights[i]
	}
	return sum%89 == 0
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
//
// PARAMETERS:
//   - errors: The validation errors to format.
//
// RETURNS:
//   - A formatted string containing all errors.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes validation errors to a log file.
//
// PARAMETERS:
//   - errors: The validation errors to write.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "ABN validation report, %s\n\n", time.Now().Format(time.RFC3339))
	writer.WriteString(FormatErrors(errors))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
