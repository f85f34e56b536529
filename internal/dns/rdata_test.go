package dns

import "testing"

func TestAssembleRdata(t *testing.T) {
	tests := []struct {
		name string
		in   RdataInput
		want string
	}{
		{"A passes through", RdataInput{Type: TypeA, Value: "192.0.2.10"}, "192.0.2.10"},
		{"AAAA passes through", RdataInput{Type: TypeAAAA, Value: "2001:db8::1"}, "2001:db8::1"},
		{"TXT passes through", RdataInput{Type: TypeTXT, Value: "v=spf1 -all"}, "v=spf1 -all"},
		{"unknown type passes through", RdataInput{Type: 99, Value: "whatever"}, "whatever"},
		{"NS appends dot", RdataInput{Type: TypeNS, Value: "ns1.example.com"}, "ns1.example.com."},
		{"CNAME appends dot", RdataInput{Type: TypeCNAME, Value: "target.example.com"}, "target.example.com."},
		// The append is not idempotent; an already-qualified value comes
		// out double-dotted and that is what ends up in the database.
		{"NS double dot", RdataInput{Type: TypeNS, Value: "ns1.example.com."}, "ns1.example.com.."},
		{"CNAME double dot", RdataInput{Type: TypeCNAME, Value: "target.example.com."}, "target.example.com.."},
		// MX uses two spaces between preference and exchange.
		{"MX", RdataInput{Type: TypeMX, Priority: 10, Value: "mail.example.com"}, "10  mail.example.com"},
		{"MX zero priority", RdataInput{Type: TypeMX, Priority: 0, Value: "mail.example.com"}, "0  mail.example.com"},
		{
			"SOA joins seven fields",
			RdataInput{
				Type:  TypeSOA,
				MName: "ns1.example.com.", RName: "hostmaster.example.com.",
				Serial: 2024010101, Refresh: 7200, Retry: 900, Expire: 1209600, Minimum: 86400,
			},
			"ns1.example.com. hostmaster.example.com. 2024010101 7200 900 1209600 86400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssembleRdata(tt.in); got != tt.want {
				t.Errorf("AssembleRdata() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFinishRdata(t *testing.T) {
	tests := []struct {
		name string
		data string
		code uint16
		want string
	}{
		{"MX gains dot", "10  mail.example.com", TypeMX, "10  mail.example.com."},
		{"MX already dotted", "10  mail.example.com.", TypeMX, "10  mail.example.com."},
		{"NS already dotted by assembler", "ns1.example.com.", TypeNS, "ns1.example.com."},
		{"CNAME already dotted by assembler", "target.example.com.", TypeCNAME, "target.example.com."},
		{"A untouched", "192.0.2.10", TypeA, "192.0.2.10"},
		{"TXT untouched", "hello", TypeTXT, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FinishRdata(tt.data, tt.code); got != tt.want {
				t.Errorf("FinishRdata(%q, %d) = %q, want %q", tt.data, tt.code, got, tt.want)
			}
		})
	}
}
