package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mr-tron/base58"
	"golang.org/x/text/unicode/norm"

	"github.com/ch0002ic/creatorcoin-ai/errors"
)

var InjectionRegexp = BuildInjectionPatterns()

// BuildInjectionPatterns builds regexp for injection detection (case-insensitive)
func BuildInjectionPatterns() *regexp.Regexp {
	parts := make([]string, 0, len(InjectionPatterns))
	for _, pattern := range InjectionPatterns {
		pNorm := norm.NFC.String(pattern)
		parts = append(parts, regexp.QuoteMeta(pNorm))
	}
	// (?i) for case-insensitive
	return regexp.MustCompile("(?i)" + strings.Join(parts, "|"))
}

// ValidateShortTextLength validates short text field length
func ValidateShortTextLength(fieldName, fieldValue string) error {
	normalized := norm.NFC.String(fieldValue)

	if utf8.RuneCountInString(normalized) > MaxShortTextLength {
		return errors.NewError(
			errors.ErrCodeInvalidRequest,
			fmt.Sprintf(errors.ErrMsgShortTextTooLong, MaxShortTextLength, fieldName),
		)
	}
	return nil
}

// ValidateLongTextLength validates long text field length and screens for
// injection patterns
func ValidateLongTextLength(fieldName, fieldValue string) error {
	normalized := norm.NFC.String(fieldValue)

	if utf8.RuneCountInString(normalized) > MaxLongTextLength {
		return errors.NewError(
			errors.ErrCodeInvalidRequest,
			fmt.Sprintf(errors.ErrMsgLongTextTooLong, MaxLongTextLength, fieldName),
		)
	}

	if InjectionRegexp.MatchString(normalized) {
		return errors.NewError(
			errors.ErrCodeInvalidRequest,
			fmt.Sprintf(errors.ErrMsgInvalidCharacters, fieldName),
		)
	}

	return nil
}

// ValidateAddress reports whether address is a plausible account address:
// base58 text in the 32-byte key length range. Addresses carry no key
// material here, so no curve check is done.
func ValidateAddress(address string) bool {
	if len(address) < MinAddressLength || len(address) > MaxAddressLength {
		return false
	}
	if _, err := base58.Decode(address); err != nil {
		return false
	}
	return true
}

// ValidateMetadata bounds the metadata map and screens every entry
func ValidateMetadata(meta map[string]string) error {
	if len(meta) > MaxMetadataEntries {
		return errors.NewError(
			errors.ErrCodeInvalidMetadata,
			fmt.Sprintf("Metadata exceeds maximum of %d entries", MaxMetadataEntries),
		)
	}
	for key, value := range meta {
		if err := ValidateShortTextLength("metadata key", key); err != nil {
			return err
		}
		if err := ValidateLongTextLength("metadata value", value); err != nil {
			return err
		}
	}
	return nil
}
