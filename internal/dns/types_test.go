package dns

import "testing"

func TestNameToCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint16
	}{
		{"A", "A", 1},
		{"NS", "NS", 2},
		{"CNAME", "CNAME", 5},
		{"SOA", "SOA", 6},
		{"MX", "MX", 15},
		{"TXT", "TXT", 16},
		{"AAAA", "AAAA", 28},
		{"lowercase", "cname", 5},
		{"mixed case", "Mx", 15},
		{"unknown yields sentinel", "SRV", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameToCode(tt.in); got != tt.want {
				t.Errorf("NameToCode(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCodeToName(t *testing.T) {
	tests := []struct {
		name string
		in   uint16
		want string
	}{
		{"A", 1, "A"},
		{"NS", 2, "NS"},
		{"CNAME", 5, "CNAME"},
		{"SOA", 6, "SOA"},
		{"MX", 15, "MX"},
		{"TXT", 16, "TXT"},
		{"AAAA", 28, "AAAA"},
		{"unknown", 33, ""},
		{"zero", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeToName(tt.in); got != tt.want {
				t.Errorf("CodeToName(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Both directions of the table must stay in sync; an entry added to one
// map without the other would make lookups asymmetric.
func TestCatalogSymmetry(t *testing.T) {
	for code, name := range codeToName {
		if NameToCode(name) != code {
			t.Errorf("NameToCode(%q) = %d, want %d", name, NameToCode(name), code)
		}
	}
	for name, code := range nameToCode {
		if CodeToName(code) != name {
			t.Errorf("CodeToName(%d) = %q, want %q", code, CodeToName(code), name)
		}
	}
}
