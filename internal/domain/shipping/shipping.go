package shipping

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Class selects a carrier tier. Unknown classes fall back to standard.
type Class string

const (
	ClassStandard Class = "standard"
	ClassExpress  Class = "express"
	ClassPremium  Class = "premium"
)

// Item is one line of a shipment request. Weight is in kilograms; zero means
// the default of one.
type Item struct {
	SKU    string
	Qty    int
	Weight float64
}

// Address is the optional destination. City drives delivery zone resolution.
type Address struct {
	Street  string
	City    string
	ZipCode string
	Country string
}

// Shipment is the immutable result of a creation attempt.
type Shipment struct {
	Success           bool
	ShipmentID        string
	TrackingNumber    string
	Carrier           string
	ETADays           int
	EstimatedDelivery string // YYYY-MM-DD
	Message           string
}

// TrackingInfo is a point-in-time view of a shipment in transit.
type TrackingInfo struct {
	TrackingNumber string
	Status         string
	LastUpdate     time.Time
	Location       string
}

// Carrier describes one tier of the carrier catalog.
type Carrier struct {
	Name string
	Days int
	Cost decimal.Decimal
}

// Service is the shipping collaborator port.
type Service interface {
	CreateShipment(ctx context.Context, customerID string, items []Item, address *Address, class Class) (Shipment, error)
	CancelShipment(ctx context.Context, shipmentID string) error
	Track(ctx context.Context, trackingNumber string) (TrackingInfo, error)
	Cost(items []Item, class Class) decimal.Decimal
	Carriers() map[Class]Carrier
}
