package service

import (
	"sort"
	"time"

	"dinio/internal/model"
)

// fakeStore is an in-memory ZoneStore/BillingStore used by the service
// tests.
type fakeStore struct {
	nextID     int64
	zones      map[int64]*model.Zone
	records    map[int64]*model.Record
	forwarding map[int64]*model.Forwarding // keyed by record id
	packages   map[int64]*model.Package
	orders     []*model.Order
	orderItems []*model.OrderItem
	zonePkg    map[int64]int64 // zone id -> order item id
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		zones:      make(map[int64]*model.Zone),
		records:    make(map[int64]*model.Record),
		forwarding: make(map[int64]*model.Forwarding),
		packages:   make(map[int64]*model.Package),
		zonePkg:    make(map[int64]int64),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) GetZoneForUser(zoneID, userID int64) (*model.Zone, error) {
	z, ok := f.zones[zoneID]
	if !ok || z.UserID != userID {
		return nil, nil
	}
	copy := *z
	return &copy, nil
}

func (f *fakeStore) GetZoneByName(userID int64, name string) (*model.Zone, error) {
	for _, z := range f.zones {
		if z.UserID == userID && z.Name == name {
			copy := *z
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListZonesForUser(userID int64) ([]model.Zone, error) {
	var zones []model.Zone
	for _, z := range f.zones {
		if z.UserID == userID {
			zones = append(zones, *z)
		}
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones, nil
}

func (f *fakeStore) CreateZoneWithNS(userID int64, name, primaryNS, secondaryNS string) (int64, error) {
	zoneID := f.id()
	f.zones[zoneID] = &model.Zone{ID: zoneID, Name: name, UserID: userID, CreatedAt: time.Now()}
	for _, ns := range []string{primaryNS, secondaryNS} {
		recID := f.id()
		f.records[recID] = &model.Record{
			ID: recID, ZoneID: zoneID, Name: "@", Type: 2, Data: ns, TTL: 3600,
		}
	}
	return zoneID, nil
}

func (f *fakeStore) RenameZone(zoneID, userID int64, name string) error {
	if z, ok := f.zones[zoneID]; ok && z.UserID == userID {
		z.Name = name
	}
	return nil
}

func (f *fakeStore) DeleteZone(zoneID, userID int64) error {
	if z, ok := f.zones[zoneID]; ok && z.UserID == userID {
		delete(f.zones, zoneID)
		for id, r := range f.records {
			if r.ZoneID == zoneID {
				delete(f.records, id)
				delete(f.forwarding, id)
			}
		}
	}
	return nil
}

func (f *fakeStore) zoneRecords(zoneID int64) []model.Record {
	var records []model.Record
	for _, r := range f.records {
		if r.ZoneID == zoneID {
			records = append(records, *r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

func (f *fakeStore) ListRecords(zoneID int64) ([]model.Record, error) {
	return f.zoneRecords(zoneID), nil
}

func (f *fakeStore) ListNSRecords(zoneID int64) ([]model.Record, error) {
	var records []model.Record
	for _, r := range f.zoneRecords(zoneID) {
		if r.Type == 2 {
			records = append(records, r)
		}
	}
	return records, nil
}

func (f *fakeStore) GetRecord(zoneID, recordID int64) (*model.Record, error) {
	r, ok := f.records[recordID]
	if !ok || r.ZoneID != zoneID {
		return nil, nil
	}
	copy := *r
	return &copy, nil
}

func (f *fakeStore) RecordExists(zoneID int64, name string, rtype uint16, data string) (bool, error) {
	for _, r := range f.records {
		if r.ZoneID == zoneID && r.Name == name && r.Type == rtype && r.Data == data {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateRecord(rec *model.Record) (int64, error) {
	recID := f.id()
	stored := *rec
	stored.ID = recID
	f.records[recID] = &stored
	return recID, nil
}

func (f *fakeStore) CreateRecordWithForwarding(rec *model.Record, fwd *model.Forwarding) (int64, error) {
	recID, _ := f.CreateRecord(rec)
	stored := *fwd
	stored.ID = f.id()
	stored.RecordID = recID
	f.forwarding[recID] = &stored
	return recID, nil
}

func (f *fakeStore) UpdateRecord(zoneID, recordID int64, name string, rtype uint16, data string, ttl int64) error {
	if r, ok := f.records[recordID]; ok && r.ZoneID == zoneID {
		r.Name, r.Type, r.Data, r.TTL = name, rtype, data, ttl
	}
	return nil
}

func (f *fakeStore) UpdateNameserverPair(zoneID, primaryID, secondaryID int64, primaryData, secondaryData string) error {
	for _, u := range []struct {
		id   int64
		data string
	}{{primaryID, primaryData}, {secondaryID, secondaryData}} {
		if r, ok := f.records[u.id]; ok && r.ZoneID == zoneID && r.Type == 2 {
			r.Data = u.data
		}
	}
	return nil
}

func (f *fakeStore) SetNonNSRecordsDisabled(zoneID int64, disabled bool) error {
	for _, r := range f.records {
		if r.ZoneID == zoneID && r.Type != 2 {
			r.Disabled = disabled
		}
	}
	return nil
}

func (f *fakeStore) DeleteRecordCascade(zoneID, recordID int64) error {
	if r, ok := f.records[recordID]; ok && r.ZoneID == zoneID {
		delete(f.records, recordID)
		delete(f.forwarding, recordID)
	}
	return nil
}

func (f *fakeStore) ListForwardingForZone(zoneID int64) (map[int64]model.Forwarding, error) {
	result := make(map[int64]model.Forwarding)
	for recID, fw := range f.forwarding {
		if r, ok := f.records[recID]; ok && r.ZoneID == zoneID {
			result[recID] = *fw
		}
	}
	return result, nil
}

func (f *fakeStore) ListPackages(packageType string) ([]model.Package, error) {
	var packages []model.Package
	for _, p := range f.packages {
		if packageType == "" || p.PackageType == packageType {
			packages = append(packages, *p)
		}
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].ID < packages[j].ID })
	return packages, nil
}

func (f *fakeStore) GetPackage(id int64) (*model.Package, error) {
	p, ok := f.packages[id]
	if !ok {
		return nil, nil
	}
	copy := *p
	return &copy, nil
}

func (f *fakeStore) CreateOrderForZone(order *model.Order, item *model.OrderItem, zoneID int64) error {
	stored := *order
	stored.ID = f.id()
	f.orders = append(f.orders, &stored)

	storedItem := *item
	storedItem.ID = f.id()
	storedItem.OrderID = stored.ID
	f.orderItems = append(f.orderItems, &storedItem)

	f.zonePkg[zoneID] = storedItem.ID
	if z, ok := f.zones[zoneID]; ok {
		z.IsActive = true
	}
	return nil
}
