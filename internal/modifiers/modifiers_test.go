package modifiers

import "testing"

func TestParseAccess(t *testing.T) {
	a, unknown := ParseAccess([]string{"public", "Final", "bogus"})
	if !a.IsPublic() || !a.IsFinal() {
		t.Errorf("ParseAccess = %v, want public final", a)
	}
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Errorf("unknown = %v, want [bogus]", unknown)
	}
}

func TestAccessVisibility(t *testing.T) {
	tests := []struct {
		name    string
		access  Access
		visible bool
		def     bool
	}{
		{"public", Public, true, false},
		{"protected", Protected, true, false},
		{"private", Private, false, false},
		{"package", Static | Final, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.access.IsVisible(); got != tt.visible {
				t.Errorf("IsVisible() = %v, want %v", got, tt.visible)
			}
			if got := tt.access.IsDefault(); got != tt.def {
				t.Errorf("IsDefault() = %v, want %v", got, tt.def)
			}
		})
	}
}

func TestParseVisibility(t *testing.T) {
	tests := []struct {
		in      string
		want    Visibility
		wantErr bool
	}{
		{"api", API, false},
		{"all", AllVisibilities, false},
		{"api|spi", API | SPI, false},
		{"internal", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseVisibility(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseVisibility(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseVisibility(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRestrictions(t *testing.T) {
	r, err := ParseRestrictions([]string{"noextend", "NoReference"})
	if err != nil {
		t.Fatalf("ParseRestrictions: %v", err)
	}
	if !r.IsExtendRestriction() || !r.IsReferenceRestriction() || r.IsImplementRestriction() {
		t.Errorf("restrictions = %v", r)
	}
	if r.String() != "noextend|noreference" {
		t.Errorf("String() = %q", r.String())
	}
	if !NoRestrictions.IsUnrestricted() {
		t.Error("NoRestrictions should be unrestricted")
	}
	if _, err := ParseRestrictions([]string{"nothing"}); err == nil {
		t.Error("expected error for unknown restriction")
	}
}
