package dns

import "strings"

// Wire-format type codes for the record types the app manages.
const (
	TypeA     uint16 = 1
	TypeNS    uint16 = 2
	TypeCNAME uint16 = 5
	TypeSOA   uint16 = 6
	TypeMX    uint16 = 15
	TypeTXT   uint16 = 16
	TypeAAAA  uint16 = 28
)

var codeToName = map[uint16]string{
	TypeA:     "A",
	TypeNS:    "NS",
	TypeCNAME: "CNAME",
	TypeSOA:   "SOA",
	TypeMX:    "MX",
	TypeTXT:   "TXT",
	TypeAAAA:  "AAAA",
}

var nameToCode = map[string]uint16{
	"A":     TypeA,
	"NS":    TypeNS,
	"CNAME": TypeCNAME,
	"SOA":   TypeSOA,
	"MX":    TypeMX,
	"TXT":   TypeTXT,
	"AAAA":  TypeAAAA,
}

// CodeToName returns the mnemonic for a wire code, or "" for an
// unsupported code.
func CodeToName(code uint16) string {
	return codeToName[code]
}

// NameToCode returns the wire code for a mnemonic, case-insensitively.
// Unknown names yield 0, the "unsupported" sentinel.
func NameToCode(name string) uint16 {
	return nameToCode[strings.ToUpper(name)]
}
