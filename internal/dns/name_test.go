package dns

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		zone string
		code uint16
		want string
	}{
		{"apex A", "@", "example.com", TypeA, "example.com."},
		{"www A shorthand", "www", "example.com", TypeA, "www.example.com."},
		{"plain A name untouched", "mail.example.com.", "example.com", TypeA, "mail.example.com."},
		{"CNAME gets dot", "blog.example.com", "example.com", TypeCNAME, "blog.example.com."},
		// The apex rule only fires for A records, so a CNAME at "@" gets
		// the dot appended to the literal "@". Quirk, keep it.
		{"apex CNAME stays literal", "@", "example.com", TypeCNAME, "@."},
		// www shorthand is A-only as well.
		{"www CNAME not expanded", "www", "example.com", TypeCNAME, "www."},
		{"apex NS untouched", "@", "example.com", TypeNS, "@"},
		{"MX name untouched", "example.com.", "example.com", TypeMX, "example.com."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in, tt.zone, tt.code); got != tt.want {
				t.Errorf("NormalizeName(%q, %q, %d) = %q, want %q", tt.in, tt.zone, tt.code, got, tt.want)
			}
		})
	}
}
