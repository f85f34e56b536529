package model

import "time"

type User struct {
	ID         int64
	Email      string
	Username   string
	FirstName  string
	LastName   string
	PassHash   string
	Verified   bool
	Admin      bool
	AuthSource string // "local" or "ldap"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Token types stored in user_tokens.
const (
	TokenVerifyEmail   = "verify_email"
	TokenResetPassword = "reset_password"
)

type UserToken struct {
	Token     string
	UserID    int64
	Type      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Zone struct {
	ID        int64
	Name      string
	UserID    int64
	IsActive  bool
	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// ValidUntil is the expiry of the newest linked order item. Zero when
	// the zone has never been paid for.
	ValidUntil time.Time
}

type Record struct {
	ID        int64
	ZoneID    int64
	Name      string
	Type      uint16
	Data      string
	TTL       int64
	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Forward types for HTTP(S) forwarding rules attached to CNAME records.
const (
	ForwardPermanent = "permanent"
	ForwardTemporary = "temporary"
	ForwardMasking   = "masking"
)

type Forwarding struct {
	ID             int64
	RecordID       int64
	DestinationURL string
	ForwardType    string
	Disabled       bool
	CreatedAt      time.Time
}

type Package struct {
	ID           int64
	Name         string
	Description  string
	PackageType  string
	PriceMonthly float64
	PriceYearly  float64
}

type Order struct {
	ID              int64
	UserID          int64
	Status          string
	PaymentProvider string
	TotalPrice      float64
	CreatedAt       time.Time
}

type OrderItem struct {
	ID         int64
	OrderID    int64
	PackageID  int64
	Quantity   int
	PriceEach  float64
	ValidUntil time.Time
}

type AuditEntry struct {
	ID         int64
	Username   string
	Action     string
	ZoneID     int64
	ZoneName   string
	RecordName string
	RecordType string
	Detail     string
	IPAddress  string
	CreatedAt  time.Time
}
