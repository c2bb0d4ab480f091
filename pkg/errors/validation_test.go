package errors

import "testing"

func TestValidateCoordinatePart(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"group", "org.eclipse.jetty", false},
		{"artifact with dash", "jetty-server", false},
		{"version qualifier", "12.0.16-beta", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"traversal", "..", true},
		{"slash", "org/eclipse", true},
		{"backslash", "org\\eclipse", true},
		{"colon", "a:b", true},
		{"space", "a b", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinatePart("groupId", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinatePart(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCoordinate) {
				t.Errorf("ValidateCoordinatePart(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateEntryName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"class entry", "com/invirgance/boot/Boot.class", false},
		{"library", "lib/jetty-server-12.0.16.jar", false},
		{"dotted file", "lib/a..b.jar", false},

		{"empty", "", true},
		{"absolute", "/lib/a.jar", true},
		{"traversal", "lib/../../etc/passwd", true},
		{"backslash", "lib\\a.jar", true},
		{"newline", "lib/a\n.jar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntryName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntryName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateClassName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"com.invirgance.convirgance.boot.ConvirganceBoot", false},
		{"Main", false},
		{"a.b$Inner", false},

		{"", true},
		{"com..Main", true},
		{"com.Main.", true},
		{"1com.Main", true},
		{"com/Main", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateClassName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClassName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
