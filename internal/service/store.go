package service

import "dinio/internal/model"

// ZoneStore is the slice of the data layer the zone service needs.
// *database.DB satisfies it; tests use an in-memory fake.
type ZoneStore interface {
	GetZoneForUser(zoneID, userID int64) (*model.Zone, error)
	GetZoneByName(userID int64, name string) (*model.Zone, error)
	ListZonesForUser(userID int64) ([]model.Zone, error)
	CreateZoneWithNS(userID int64, name, primaryNS, secondaryNS string) (int64, error)
	RenameZone(zoneID, userID int64, name string) error
	DeleteZone(zoneID, userID int64) error

	ListRecords(zoneID int64) ([]model.Record, error)
	ListNSRecords(zoneID int64) ([]model.Record, error)
	GetRecord(zoneID, recordID int64) (*model.Record, error)
	RecordExists(zoneID int64, name string, rtype uint16, data string) (bool, error)
	CreateRecord(rec *model.Record) (int64, error)
	CreateRecordWithForwarding(rec *model.Record, fwd *model.Forwarding) (int64, error)
	UpdateRecord(zoneID, recordID int64, name string, rtype uint16, data string, ttl int64) error
	UpdateNameserverPair(zoneID, primaryID, secondaryID int64, primaryData, secondaryData string) error
	SetNonNSRecordsDisabled(zoneID int64, disabled bool) error
	DeleteRecordCascade(zoneID, recordID int64) error
	ListForwardingForZone(zoneID int64) (map[int64]model.Forwarding, error)
}

// BillingStore is the data-layer slice the billing service needs.
type BillingStore interface {
	GetZoneForUser(zoneID, userID int64) (*model.Zone, error)
	ListPackages(packageType string) ([]model.Package, error)
	GetPackage(id int64) (*model.Package, error)
	CreateOrderForZone(order *model.Order, item *model.OrderItem, zoneID int64) error
}
