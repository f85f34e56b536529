package service

import (
	"fmt"
	"strings"

	"dinio/internal/config"
	"dinio/internal/dns"
	"dinio/internal/model"
)

// ZoneService is the gate in front of every zone and record mutation:
// ownership checks, field validation, canonicalization and the
// nameserver-conditional disable rule all live here.
type ZoneService struct {
	store       ZoneStore
	primaryNS   string
	secondaryNS string
}

func NewZoneService(store ZoneStore, ns config.NameserverConfig) *ZoneService {
	return &ZoneService{store: store, primaryNS: ns.Primary, secondaryNS: ns.Secondary}
}

// requireZone resolves the zone through an ownership-filtered lookup, so a
// foreign zone is indistinguishable from a missing one.
func (s *ZoneService) requireZone(userID, zoneID int64) (*model.Zone, error) {
	zone, err := s.store.GetZoneForUser(zoneID, userID)
	if err != nil {
		return nil, fmt.Errorf("load zone: %w", err)
	}
	if zone == nil {
		return nil, ErrNotFound
	}
	return zone, nil
}

func (s *ZoneService) ListZones(userID int64) ([]model.Zone, error) {
	return s.store.ListZonesForUser(userID)
}

// CreateZone creates an inactive zone together with its two default NS
// records. Every run produces its own independent pair.
func (s *ZoneService) CreateZone(userID int64, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, validationErr("name", "zone name is required")
	}

	existing, err := s.store.GetZoneByName(userID, name)
	if err != nil {
		return 0, fmt.Errorf("check zone name: %w", err)
	}
	if existing != nil {
		return 0, fmt.Errorf("zone %q: %w", name, ErrConflict)
	}

	zoneID, err := s.store.CreateZoneWithNS(userID, name, s.primaryNS, s.secondaryNS)
	if err != nil {
		return 0, fmt.Errorf("create zone: %w", err)
	}
	return zoneID, nil
}

func (s *ZoneService) RenameZone(userID, zoneID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationErr("name", "zone name is required")
	}
	if _, err := s.requireZone(userID, zoneID); err != nil {
		return err
	}
	return s.store.RenameZone(zoneID, userID, name)
}

func (s *ZoneService) DeleteZone(userID, zoneID int64) error {
	if _, err := s.requireZone(userID, zoneID); err != nil {
		return err
	}
	return s.store.DeleteZone(zoneID, userID)
}

// ZoneDetail returns the zone, its records and the forwarding rules keyed
// by record id, for the zone detail page.
func (s *ZoneService) ZoneDetail(userID, zoneID int64) (*model.Zone, []model.Record, map[int64]model.Forwarding, error) {
	zone, err := s.requireZone(userID, zoneID)
	if err != nil {
		return nil, nil, nil, err
	}
	records, err := s.store.ListRecords(zoneID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list records: %w", err)
	}
	forwarding, err := s.store.ListForwardingForZone(zoneID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list forwarding: %w", err)
	}
	return zone, records, forwarding, nil
}

// RecordInput carries the raw form fields of a record creation.
// TTLHours is the form value; records store seconds.
type RecordInput struct {
	Name     string
	Type     uint16
	Value    string
	TTLHours int64
	Priority int

	MName   string
	RName   string
	Serial  int64
	Refresh int64
	Retry   int64
	Expire  int64
	Minimum int64
}

// CreateRecord validates, canonicalizes and persists a record.
//
// The duplicate check runs against the raw input tuple, before
// canonicalization, matching what existing deployments enforce.
func (s *ZoneService) CreateRecord(userID, zoneID int64, in RecordInput) (*model.Record, error) {
	zone, err := s.requireZone(userID, zoneID)
	if err != nil {
		return nil, err
	}

	if in.Name == "" {
		return nil, validationErr("name", "record name is required")
	}
	if dns.CodeToName(in.Type) == "" {
		return nil, validationErr("type", "unsupported record type")
	}
	if in.Value == "" {
		return nil, validationErr("data", "record data is required")
	}
	if in.TTLHours <= 0 {
		return nil, validationErr("ttl", "TTL must be a positive number of hours")
	}

	exists, err := s.store.RecordExists(zoneID, in.Name, in.Type, in.Value)
	if err != nil {
		return nil, fmt.Errorf("check duplicate record: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("record with the same values: %w", ErrConflict)
	}

	data := dns.AssembleRdata(dns.RdataInput{
		Type:     in.Type,
		Value:    in.Value,
		Priority: in.Priority,
		MName:    in.MName,
		RName:    in.RName,
		Serial:   in.Serial,
		Refresh:  in.Refresh,
		Retry:    in.Retry,
		Expire:   in.Expire,
		Minimum:  in.Minimum,
	})
	name := dns.NormalizeName(in.Name, zone.Name, in.Type)
	data = dns.FinishRdata(data, in.Type)

	rec := &model.Record{
		ZoneID: zoneID,
		Name:   name,
		Type:   in.Type,
		Data:   data,
		TTL:    in.TTLHours * 3600,
	}
	rec.ID, err = s.store.CreateRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	return rec, nil
}

// ForwardingInput carries the raw form fields of a forwarding creation.
type ForwardingInput struct {
	Subdomain   string
	TargetURL   string
	Protocol    string
	ForwardType string
}

// CreateForwarding synthesizes the CNAME record a forwarding rule rides on
// and persists both together.
func (s *ZoneService) CreateForwarding(userID, zoneID int64, in ForwardingInput) (*model.Record, error) {
	zone, err := s.requireZone(userID, zoneID)
	if err != nil {
		return nil, err
	}

	if in.Subdomain == "" {
		return nil, validationErr("subdomain", "subdomain is required")
	}
	if in.TargetURL == "" {
		return nil, validationErr("target_url", "destination URL is required")
	}
	if in.Protocol != "http" && in.Protocol != "https" {
		return nil, validationErr("protocol", "protocol must be http or https")
	}
	switch in.ForwardType {
	case model.ForwardPermanent, model.ForwardTemporary, model.ForwardMasking:
	default:
		return nil, validationErr("redirect_type", "redirect type is required")
	}

	name := in.Subdomain + "." + zone.Name + "."
	data := in.Protocol + "://" + in.TargetURL
	if !strings.HasSuffix(data, ".") {
		data += "."
	}

	rec := &model.Record{
		ZoneID: zoneID,
		Name:   name,
		Type:   dns.TypeCNAME,
		Data:   data,
		TTL:    3600,
	}
	fwd := &model.Forwarding{
		DestinationURL: data,
		ForwardType:    in.ForwardType,
		Disabled:       false,
	}
	rec.ID, err = s.store.CreateRecordWithForwarding(rec, fwd)
	if err != nil {
		return nil, fmt.Errorf("create forwarding: %w", err)
	}
	return rec, nil
}

// RecordUpdate carries the edited fields of an existing record. Data is
// the stored canonical form as shown in the edit form; TTL is in seconds.
type RecordUpdate struct {
	Name string
	Type uint16
	Data string
	TTL  int64
}

func (s *ZoneService) UpdateRecord(userID, zoneID, recordID int64, in RecordUpdate) error {
	if _, err := s.requireZone(userID, zoneID); err != nil {
		return err
	}

	rec, err := s.store.GetRecord(zoneID, recordID)
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}
	if rec == nil {
		return ErrNotFound
	}

	if in.Name == "" {
		return validationErr("name", "record name is required")
	}
	if dns.CodeToName(in.Type) == "" {
		return validationErr("type", "unsupported record type")
	}
	if in.Data == "" {
		return validationErr("data", "record data is required")
	}
	if in.TTL <= 0 {
		return validationErr("ttl", "TTL must be positive")
	}

	if err := s.store.UpdateRecord(zoneID, recordID, in.Name, in.Type, in.Data, in.TTL); err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	// Editing an NS record can flip the zone between hosted and
	// bring-your-own-nameserver state.
	if in.Type == dns.TypeNS {
		return s.applyNSCascade(zoneID)
	}
	return nil
}

// UpdateNameservers rewrites the zone's NS pair and re-evaluates the
// cascade over the remaining records.
func (s *ZoneService) UpdateNameservers(userID, zoneID, primaryID, secondaryID int64, primaryNS, secondaryNS string) error {
	if _, err := s.requireZone(userID, zoneID); err != nil {
		return err
	}
	if primaryNS == "" || secondaryNS == "" {
		return validationErr("nameservers", "both nameservers are required")
	}

	if err := s.store.UpdateNameserverPair(zoneID, primaryID, secondaryID, primaryNS, secondaryNS); err != nil {
		return fmt.Errorf("update nameservers: %w", err)
	}
	return s.applyNSCascade(zoneID)
}

// applyNSCascade enforces the bring-your-own-nameservers rule: when every
// NS record points away from the deployment defaults the zone's other
// records stop being served and are disabled; when the pair is back on the
// defaults they are re-enabled. A mixed state changes nothing.
func (s *ZoneService) applyNSCascade(zoneID int64) error {
	nsRecords, err := s.store.ListNSRecords(zoneID)
	if err != nil {
		return fmt.Errorf("list ns records: %w", err)
	}
	if len(nsRecords) == 0 {
		return nil
	}

	allCustom, allDefault := true, true
	for _, r := range nsRecords {
		if r.Data == s.primaryNS || r.Data == s.secondaryNS {
			allCustom = false
		} else {
			allDefault = false
		}
	}

	switch {
	case allCustom:
		return s.store.SetNonNSRecordsDisabled(zoneID, true)
	case allDefault:
		return s.store.SetNonNSRecordsDisabled(zoneID, false)
	}
	return nil
}

func (s *ZoneService) DeleteRecord(userID, zoneID, recordID int64) error {
	if _, err := s.requireZone(userID, zoneID); err != nil {
		return err
	}

	rec, err := s.store.GetRecord(zoneID, recordID)
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}
	if rec == nil {
		return ErrNotFound
	}
	return s.store.DeleteRecordCascade(zoneID, recordID)
}
