package errors

import "testing"

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "vin", false},
		{"valid with digits", "m1", false},
		{"valid with underscore", "out_b", false},
		{"empty", "", true},
		{"whitespace", "v in", true},
		{"control char", "v\x00in", true},
		{"equals sign", "w=10u", true},
		{"parens", "v(out)", true},
		{"too long", string(make([]byte, 65)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidNetlist) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidNetlist)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	if err := ValidateOutputPath("out/inverter_output.png"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateOutputPath(""); err == nil {
		t.Error("expected error for empty path")
	}
	if err := ValidateOutputPath("bad\x00path"); err == nil {
		t.Error("expected error for null byte")
	}
}
