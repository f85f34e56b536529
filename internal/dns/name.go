package dns

// NormalizeName produces the canonical fully-qualified name stored for a
// record, from the raw form input and the owning zone's name.
//
// The rules are positional and must not be reordered: the apex rule only
// matches A records, so a CNAME created at "@" falls through it and ends
// up stored as the literal "@." — a long-standing quirk that stored zones
// rely on.
func NormalizeName(nameInput, zoneName string, code uint16) string {
	name := nameInput

	if name == "@" && code == TypeA {
		name = zoneName + "."
	}
	if code == TypeCNAME {
		name += "."
	}
	if name == "www" && code == TypeA {
		name = "www." + zoneName + "."
	}

	return name
}
