package service

import (
	"fmt"
	"time"

	"dinio/internal/model"
)

// BillingService handles the package catalog and the order-completion
// callback that activates a zone after a captured payment.
type BillingService struct {
	store BillingStore
}

func NewBillingService(store BillingStore) *BillingService {
	return &BillingService{store: store}
}

func (s *BillingService) ListPackages(packageType string) ([]model.Package, error) {
	return s.store.ListPackages(packageType)
}

// CompleteOrderInput is the payload of the payment-capture callback.
type CompleteOrderInput struct {
	UserID    int64
	PackageID int64
	ZoneID    int64
	Amount    float64
	Period    string // "monthly" or "yearly"
}

// CompleteOrder records a captured payment: order + order item with the
// validity window, the zone_package link, and the zone activation flag.
// Returns the computed expiry.
func (s *BillingService) CompleteOrder(in CompleteOrderInput) (time.Time, error) {
	zone, err := s.store.GetZoneForUser(in.ZoneID, in.UserID)
	if err != nil {
		return time.Time{}, fmt.Errorf("load zone: %w", err)
	}
	if zone == nil {
		return time.Time{}, ErrNotFound
	}

	pkg, err := s.store.GetPackage(in.PackageID)
	if err != nil {
		return time.Time{}, fmt.Errorf("load package: %w", err)
	}
	if pkg == nil {
		return time.Time{}, fmt.Errorf("package %d: %w", in.PackageID, ErrNotFound)
	}

	months := 1
	if in.Period == "yearly" {
		months = 12
	}
	validUntil := time.Now().AddDate(0, months, 0)

	order := &model.Order{
		UserID:          in.UserID,
		Status:          "paid",
		PaymentProvider: "paypal",
		TotalPrice:      in.Amount,
	}
	item := &model.OrderItem{
		PackageID:  in.PackageID,
		Quantity:   1,
		PriceEach:  in.Amount,
		ValidUntil: validUntil,
	}
	if err := s.store.CreateOrderForZone(order, item, in.ZoneID); err != nil {
		return time.Time{}, fmt.Errorf("record order: %w", err)
	}
	return validUntil, nil
}
