package dns

import (
	"fmt"
	"strings"
)

// RdataInput carries the user-supplied fields a record's data value is
// built from. Value is used by every type except SOA; Priority only by MX;
// the remaining fields only by SOA.
type RdataInput struct {
	Type     uint16
	Value    string
	Priority int

	MName   string
	RName   string
	Serial  int64
	Refresh int64
	Retry   int64
	Expire  int64
	Minimum int64
}

// AssembleRdata produces the canonical data string stored for a record.
// It never fails; malformed input passes through untouched and is the
// caller's problem to validate.
//
// NS and CNAME values get a trailing dot appended unconditionally, so a
// value that already ends with a dot comes out double-dotted. Existing
// stored data depends on that, do not add an idempotency guard here.
func AssembleRdata(in RdataInput) string {
	switch in.Type {
	case TypeMX:
		// Two spaces between preference and exchange, matching the
		// format every stored MX record already uses.
		return fmt.Sprintf("%d  %s", in.Priority, in.Value)
	case TypeSOA:
		return fmt.Sprintf("%s %s %d %d %d %d %d",
			in.MName, in.RName, in.Serial, in.Refresh, in.Retry, in.Expire, in.Minimum)
	case TypeNS, TypeCNAME:
		return in.Value + "."
	default:
		// A, AAAA, TXT and anything unrecognized: raw value.
		return in.Value
	}
}

// FinishRdata is the finishing pass applied after AssembleRdata: NS, CNAME
// and MX data must end with a dot. For NS/CNAME this is a no-op given the
// unconditional append above; the visible effect is that MX data becomes
// dot-terminated too.
func FinishRdata(data string, code uint16) string {
	switch code {
	case TypeNS, TypeCNAME, TypeMX:
		if !strings.HasSuffix(data, ".") {
			return data + "."
		}
	}
	return data
}
