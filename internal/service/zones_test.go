package service

import (
	"errors"
	"testing"

	"dinio/internal/config"
	"dinio/internal/dns"
	"dinio/internal/model"
)

const (
	ownerID    int64 = 10
	strangerID int64 = 20
)

func newTestService(store *fakeStore) *ZoneService {
	return NewZoneService(store, config.NameserverConfig{
		Primary:   "ns1.dinio.com.",
		Secondary: "ns2.dinio.com.",
	})
}

func mustCreateZone(t *testing.T, svc *ZoneService, userID int64, name string) int64 {
	t.Helper()
	zoneID, err := svc.CreateZone(userID, name)
	if err != nil {
		t.Fatalf("CreateZone(%q) failed: %v", name, err)
	}
	return zoneID
}

func TestCreateZoneAddsDefaultNSPair(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	zoneID := mustCreateZone(t, svc, ownerID, "example.com")

	records, _ := store.ListRecords(zoneID)
	if len(records) != 2 {
		t.Fatalf("new zone has %d records, want 2", len(records))
	}
	for i, want := range []string{"ns1.dinio.com.", "ns2.dinio.com."} {
		r := records[i]
		if r.Type != dns.TypeNS || r.Name != "@" || r.Data != want || r.TTL != 3600 {
			t.Errorf("NS record %d = {name %q type %d data %q ttl %d}, want {@ 2 %q 3600}",
				i, r.Name, r.Type, r.Data, r.TTL, want)
		}
	}

	// A second zone gets its own independent pair.
	otherID := mustCreateZone(t, svc, ownerID, "other.com")
	otherRecords, _ := store.ListRecords(otherID)
	if len(otherRecords) != 2 {
		t.Fatalf("second zone has %d records, want 2", len(otherRecords))
	}
}

func TestCreateZoneDuplicateName(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	mustCreateZone(t, svc, ownerID, "example.com")

	if _, err := svc.CreateZone(ownerID, "example.com"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate zone name: err = %v, want ErrConflict", err)
	}
	// Same name under another user is fine.
	if _, err := svc.CreateZone(strangerID, "example.com"); err != nil {
		t.Errorf("same name for another user: err = %v, want nil", err)
	}
	// Leading/trailing whitespace is trimmed before the uniqueness check.
	if _, err := svc.CreateZone(ownerID, "  example.com  "); !errors.Is(err, ErrConflict) {
		t.Errorf("whitespace-padded duplicate: err = %v, want ErrConflict", err)
	}
}

func TestCreateZoneEmptyName(t *testing.T) {
	svc := newTestService(newFakeStore())

	var vErr *ValidationError
	if _, err := svc.CreateZone(ownerID, "   "); !errors.As(err, &vErr) {
		t.Errorf("blank zone name: err = %v, want ValidationError", err)
	}
}

func TestCreateRecordCanonicalization(t *testing.T) {
	tests := []struct {
		name     string
		in       RecordInput
		wantName string
		wantData string
		wantTTL  int64
	}{
		{
			"apex A",
			RecordInput{Name: "@", Type: dns.TypeA, Value: "192.0.2.10", TTLHours: 1},
			"example.com.", "192.0.2.10", 3600,
		},
		{
			"www A shorthand",
			RecordInput{Name: "www", Type: dns.TypeA, Value: "192.0.2.10", TTLHours: 2},
			"www.example.com.", "192.0.2.10", 7200,
		},
		{
			"CNAME name and data get dots",
			RecordInput{Name: "blog", Type: dns.TypeCNAME, Value: "pages.example.net", TTLHours: 1},
			"blog.", "pages.example.net.", 3600,
		},
		{
			"apex CNAME stays literal",
			RecordInput{Name: "@", Type: dns.TypeCNAME, Value: "pages.example.net", TTLHours: 1},
			"@.", "pages.example.net.", 3600,
		},
		{
			"MX data dot-terminated with double space",
			RecordInput{Name: "example.com.", Type: dns.TypeMX, Value: "mail.example.com", Priority: 10, TTLHours: 1},
			"example.com.", "10  mail.example.com.", 3600,
		},
		{
			"TXT passes through",
			RecordInput{Name: "example.com.", Type: dns.TypeTXT, Value: "v=spf1 -all", TTLHours: 1},
			"example.com.", "v=spf1 -all", 3600,
		},
		{
			"NS value already dotted comes out double-dotted",
			RecordInput{Name: "sub", Type: dns.TypeNS, Value: "ns1.example.org.", TTLHours: 1},
			"sub", "ns1.example.org..", 3600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store)
			zoneID := mustCreateZone(t, svc, ownerID, "example.com")

			rec, err := svc.CreateRecord(ownerID, zoneID, tt.in)
			if err != nil {
				t.Fatalf("CreateRecord failed: %v", err)
			}
			if rec.Name != tt.wantName {
				t.Errorf("stored name = %q, want %q", rec.Name, tt.wantName)
			}
			if rec.Data != tt.wantData {
				t.Errorf("stored data = %q, want %q", rec.Data, tt.wantData)
			}
			if rec.TTL != tt.wantTTL {
				t.Errorf("stored ttl = %d, want %d", rec.TTL, tt.wantTTL)
			}
		})
	}
}

func TestCreateRecordValidation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	zoneID := mustCreateZone(t, svc, ownerID, "example.com")

	tests := []struct {
		name  string
		in    RecordInput
		field string
	}{
		{"missing name", RecordInput{Type: dns.TypeA, Value: "192.0.2.1", TTLHours: 1}, "name"},
		{"unknown type", RecordInput{Name: "x", Type: 99, Value: "v", TTLHours: 1}, "type"},
		{"zero type", RecordInput{Name: "x", Type: 0, Value: "v", TTLHours: 1}, "type"},
		{"missing data", RecordInput{Name: "x", Type: dns.TypeA, TTLHours: 1}, "data"},
		{"zero ttl", RecordInput{Name: "x", Type: dns.TypeA, Value: "v"}, "ttl"},
		{"negative ttl", RecordInput{Name: "x", Type: dns.TypeA, Value: "v", TTLHours: -1}, "ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRecord(ownerID, zoneID, tt.in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestCreateRecordDuplicate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	zoneID := mustCreateZone(t, svc, ownerID, "example.com")

	in := RecordInput{Name: "mail", Type: dns.TypeA, Value: "192.0.2.25", TTLHours: 1}
	if _, err := svc.CreateRecord(ownerID, zoneID, in); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.CreateRecord(ownerID, zoneID, in); !errors.Is(err, ErrConflict) {
		t.Errorf("second identical create: err = %v, want ErrConflict", err)
	}

	// The same tuple in a different zone is not a conflict.
	otherZone := mustCreateZone(t, svc, ownerID, "other.com")
	if _, err := svc.CreateRecord(ownerID, otherZone, in); err != nil {
		t.Errorf("same tuple in other zone: err = %v, want nil", err)
	}
}

func TestRecordOwnership(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	zoneID := mustCreateZone(t, svc, ownerID, "example.com")

	rec, err := svc.CreateRecord(ownerID, zoneID, RecordInput{
		Name: "mail", Type: dns.TypeA, Value: "192.0.2.25", TTLHours: 1,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Every operation against a foreign zone looks like a missing zone.
	if _, err := svc.CreateRecord(strangerID, zoneID, RecordInput{
		Name: "x", Type: dns.TypeA, Value: "192.0.2.1", TTLHours: 1,
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("create by stranger: err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteRecord(strangerID, zoneID, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete by stranger: err = %v, want ErrNotFound", err)
	}
	if err := svc.UpdateRecord(strangerID, zoneID, rec.ID, RecordUpdate{
		Name: "mail", Type: dns.TypeA, Data: "192.0.2.26", TTL: 3600,
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update by stranger: err = %v, want ErrNotFound", err)
	}
	if _, _, _, err := svc.ZoneDetail(strangerID, zoneID); !errors.Is(err, ErrNotFound) {
		t.Errorf("detail by stranger: err = %v, want ErrNotFound", err)
	}

	// The record is untouched.
	got, _ := store.GetRecord(zoneID, rec.ID)
	if got == nil || got.Data != "192.0.2.25" {
		t.Errorf("record mutated by stranger: %+v", got)
	}
}

func TestDeleteRecordRemovesForwarding(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	zoneID := mustCreateZone(t, svc, ownerID, "example.com")

	rec, err := svc.CreateForwarding(ownerID, zoneID, ForwardingInput{
		Subdomain:   "shop",
		TargetURL:   "store.example.net",
		Protocol:    "https",
		ForwardType: model.ForwardPermanent,
	})
	if err != nil {
		t.Fatalf("CreateForwarding failed: %v", err)
	}
	if rec.Name != "shop.example.com." {
		t.Errorf("forwarding record name = %q, want %q", rec.Name, "shop.example.com.")
	}
	if rec.Data != "https://store.example.net." {
		t.Errorf("forwarding record data = %q, want %q", rec.Data, "https://store.example.net.")
	}

	fwd, _ := store.ListForwardingForZone(zoneID)
	if _, ok := fwd[rec.ID]; !ok {
		t.Fatal("forwarding rule not created")
	}

	if err := svc.DeleteRecord(ownerID, zoneID, rec.ID); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	fwd, _ = store.ListForwardingForZone(zoneID)
	if len(fwd) != 0 {
		t.Errorf("forwarding rule orphaned after record delete: %v", fwd)
	}
}

func TestCreateForwardingValidation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	zoneID := mustCreateZone(t, svc, ownerID, "example.com")

	tests := []struct {
		name string
		in   ForwardingInput
	}{
		{"missing subdomain", ForwardingInput{TargetURL: "t", Protocol: "https", ForwardType: model.ForwardPermanent}},
		{"missing target", ForwardingInput{Subdomain: "s", Protocol: "https", ForwardType: model.ForwardPermanent}},
		{"bad protocol", ForwardingInput{Subdomain: "s", TargetURL: "t", Protocol: "ftp", ForwardType: model.ForwardPermanent}},
		{"bad redirect type", ForwardingInput{Subdomain: "s", TargetURL: "t", Protocol: "https", ForwardType: "weird"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateForwarding(ownerID, zoneID, tt.in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestNameserverCascade(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	zoneID := mustCreateZone(t, svc, ownerID, "example.com")

	if _, err := svc.CreateRecord(ownerID, zoneID, RecordInput{
		Name: "@", Type: dns.TypeA, Value: "192.0.2.10", TTLHours: 1,
	}); err != nil {
		t.Fatalf("create A record: %v", err)
	}
	if _, err := svc.CreateRecord(ownerID, zoneID, RecordInput{
		Name: "example.com.", Type: dns.TypeMX, Value: "mail.example.com", Priority: 10, TTLHours: 1,
	}); err != nil {
		t.Fatalf("create MX record: %v", err)
	}

	nsRecords, _ := store.ListNSRecords(zoneID)
	if len(nsRecords) != 2 {
		t.Fatalf("zone has %d NS records, want 2", len(nsRecords))
	}

	nonNSDisabled := func() (disabled, enabled int) {
		records, _ := store.ListRecords(zoneID)
		for _, r := range records {
			if r.Type == dns.TypeNS {
				continue
			}
			if r.Disabled {
				disabled++
			} else {
				enabled++
			}
		}
		return
	}

	// Moving both NS off the defaults disables everything else.
	err := svc.UpdateNameservers(ownerID, zoneID, nsRecords[0].ID, nsRecords[1].ID,
		"ns1.custom.example.", "ns2.custom.example.")
	if err != nil {
		t.Fatalf("UpdateNameservers failed: %v", err)
	}
	if d, e := nonNSDisabled(); d != 2 || e != 0 {
		t.Errorf("after custom NS: %d disabled, %d enabled, want 2/0", d, e)
	}

	// NS records themselves are never disabled by the cascade.
	for _, r := range mustListNS(t, store, zoneID) {
		if r.Disabled {
			t.Errorf("NS record %d disabled by cascade", r.ID)
		}
	}

	// Reverting to the exact default pair re-enables everything.
	nsRecords, _ = store.ListNSRecords(zoneID)
	err = svc.UpdateNameservers(ownerID, zoneID, nsRecords[0].ID, nsRecords[1].ID,
		"ns1.dinio.com.", "ns2.dinio.com.")
	if err != nil {
		t.Fatalf("UpdateNameservers revert failed: %v", err)
	}
	if d, e := nonNSDisabled(); d != 0 || e != 2 {
		t.Errorf("after default NS: %d disabled, %d enabled, want 0/2", d, e)
	}

	// A mixed pair (one default, one custom) changes nothing.
	err = svc.UpdateNameservers(ownerID, zoneID, nsRecords[0].ID, nsRecords[1].ID,
		"ns1.dinio.com.", "ns2.custom.example.")
	if err != nil {
		t.Fatalf("UpdateNameservers mixed failed: %v", err)
	}
	if d, e := nonNSDisabled(); d != 0 || e != 2 {
		t.Errorf("after mixed NS: %d disabled, %d enabled, want 0/2", d, e)
	}
}

func mustListNS(t *testing.T, store *fakeStore, zoneID int64) []model.Record {
	t.Helper()
	records, err := store.ListNSRecords(zoneID)
	if err != nil {
		t.Fatalf("ListNSRecords failed: %v", err)
	}
	return records
}

func TestUpdateRecordNSTriggersCascade(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	zoneID := mustCreateZone(t, svc, ownerID, "example.com")

	if _, err := svc.CreateRecord(ownerID, zoneID, RecordInput{
		Name: "@", Type: dns.TypeA, Value: "192.0.2.10", TTLHours: 1,
	}); err != nil {
		t.Fatalf("create A record: %v", err)
	}

	nsRecords, _ := store.ListNSRecords(zoneID)

	// Editing one NS record to a custom value leaves a mixed state: the
	// other NS still matches the defaults, so nothing is disabled.
	err := svc.UpdateRecord(ownerID, zoneID, nsRecords[0].ID, RecordUpdate{
		Name: "@", Type: dns.TypeNS, Data: "ns1.custom.example.", TTL: 3600,
	})
	if err != nil {
		t.Fatalf("update first NS: %v", err)
	}
	records, _ := store.ListRecords(zoneID)
	for _, r := range records {
		if r.Type != dns.TypeNS && r.Disabled {
			t.Errorf("record %d disabled in mixed NS state", r.ID)
		}
	}

	// Editing the second one completes the custom pair and disables the
	// A record.
	err = svc.UpdateRecord(ownerID, zoneID, nsRecords[1].ID, RecordUpdate{
		Name: "@", Type: dns.TypeNS, Data: "ns2.custom.example.", TTL: 3600,
	})
	if err != nil {
		t.Fatalf("update second NS: %v", err)
	}
	records, _ = store.ListRecords(zoneID)
	for _, r := range records {
		if r.Type != dns.TypeNS && !r.Disabled {
			t.Errorf("record %d still enabled with fully custom NS", r.ID)
		}
	}
}

func TestDeleteMissingRecord(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	zoneID := mustCreateZone(t, svc, ownerID, "example.com")

	if err := svc.DeleteRecord(ownerID, zoneID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing record: err = %v, want ErrNotFound", err)
	}
}
