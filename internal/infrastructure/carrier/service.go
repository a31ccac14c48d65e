package carrier

import (
	"context"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/shipping"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability/logctx"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const componentCarrier = "shipping_service"

const (
	msgNoItems          = "No hay productos para enviar"
	msgCustomerRequired = "ID de cliente requerido"
)

const defaultZone = "zone_2"

// Extra ETA applies to the remote zone only.
const remoteZone = "zone_3"

var trackingStatuses = []string{
	"Paquete recibido en centro de distribución",
	"En tránsito",
	"En reparto",
	"Entregado",
}

// fallbackCities stands in for a customer address book: a customer with no
// address still ships somewhere, deterministically per customer id.
var fallbackCities = []string{"Lima", "Arequipa", "Trujillo", "Cusco", "Chiclayo"}

// Service simulates a logistics provider: three carrier tiers, city-based
// delivery zones, and tracking numbers derived from the shipment id.
type Service struct {
	carriers map[shipping.Class]shipping.Carrier
	zones    map[string]string
	log      observability.Logger
}

func NewService(tel observability.Telemetry) *Service {
	baseLog := observability.NopLogger()
	if tel != nil {
		baseLog = tel.Logger()
	}

	zones := make(map[string]string)
	for zone, cities := range map[string][]string{
		"zone_1": {"Lima", "Callao", "Miraflores"},
		"zone_2": {"Arequipa", "Trujillo", "Chiclayo"},
		"zone_3": {"Cusco", "Huancayo", "Piura"},
	} {
		for _, city := range cities {
			zones[city] = zone
		}
	}

	return &Service{
		carriers: map[shipping.Class]shipping.Carrier{
			shipping.ClassStandard: {Name: "Correos Nacionales", Days: 5, Cost: decimal.NewFromInt(10)},
			shipping.ClassExpress:  {Name: "Express Delivery", Days: 3, Cost: decimal.NewFromInt(25)},
			shipping.ClassPremium:  {Name: "Premium Logistics", Days: 1, Cost: decimal.NewFromInt(50)},
		},
		zones: zones,
		log:   baseLog.With(observability.F("component", componentCarrier)),
	}
}

func (s *Service) CreateShipment(ctx context.Context, customerID string, items []shipping.Item, address *shipping.Address, class shipping.Class) (shipping.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return shipping.Shipment{}, err
	}

	if len(items) == 0 {
		return shipping.Shipment{Success: false, Message: msgNoItems}, nil
	}
	if customerID == "" {
		return shipping.Shipment{Success: false, Message: msgCustomerRequired}, nil
	}

	carrier := s.carrierFor(class)
	shipmentID := uuid.NewString()
	trackingNumber := "TRK" + strings.ToUpper(shipmentID[:8])

	city := s.cityFor(customerID, address)
	zone := s.zoneFor(city)
	etaDays := carrier.Days
	if zone == remoteZone {
		etaDays++
	}
	estimatedDelivery := time.Now().AddDate(0, 0, etaDays).Format("2006-01-02")

	logctx.FromOr(ctx, s.log).Info("shipment_created",
		observability.F("shipment_id", shipmentID),
		observability.F("tracking_number", trackingNumber),
		observability.F("carrier", carrier.Name),
		observability.F("city", city),
		observability.F("zone", zone),
		observability.F("eta_days", etaDays),
	)

	return shipping.Shipment{
		Success:           true,
		ShipmentID:        shipmentID,
		TrackingNumber:    trackingNumber,
		Carrier:           carrier.Name,
		ETADays:           etaDays,
		EstimatedDelivery: estimatedDelivery,
		Message:           "Envío programado via " + carrier.Name,
	}, nil
}

func (s *Service) CancelShipment(ctx context.Context, shipmentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logctx.FromOr(ctx, s.log).Info("shipment_cancelled",
		observability.F("shipment_id", shipmentID),
	)
	return nil
}

// Track reports a simulated in-transit status. The provider has no real
// parcel state, so each lookup picks a plausible status.
func (s *Service) Track(ctx context.Context, trackingNumber string) (shipping.TrackingInfo, error) {
	if err := ctx.Err(); err != nil {
		return shipping.TrackingInfo{}, err
	}
	return shipping.TrackingInfo{
		TrackingNumber: trackingNumber,
		Status:         trackingStatuses[rand.Intn(len(trackingStatuses))],
		LastUpdate:     time.Now().UTC(),
		Location:       "Centro de Distribución Lima",
	}, nil
}

// Cost is the carrier base plus a surcharge of 5 per kilogram above 2 total.
// Items without a weight count as one kilogram.
func (s *Service) Cost(items []shipping.Item, class shipping.Class) decimal.Decimal {
	carrier := s.carrierFor(class)

	totalWeight := 0.0
	for _, item := range items {
		weight := item.Weight
		if weight <= 0 {
			weight = 1
		}
		totalWeight += weight
	}

	extra := (totalWeight - 2) * 5
	if extra < 0 {
		extra = 0
	}
	return carrier.Cost.Add(decimal.NewFromFloat(extra))
}

func (s *Service) Carriers() map[shipping.Class]shipping.Carrier {
	out := make(map[shipping.Class]shipping.Carrier, len(s.carriers))
	for class, carrier := range s.carriers {
		out[class] = carrier
	}
	return out
}

func (s *Service) carrierFor(class shipping.Class) shipping.Carrier {
	if carrier, ok := s.carriers[class]; ok {
		return carrier
	}
	return s.carriers[shipping.ClassStandard]
}

func (s *Service) cityFor(customerID string, address *shipping.Address) string {
	if address != nil && address.City != "" {
		return address.City
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(customerID))
	return fallbackCities[int(h.Sum32())%len(fallbackCities)]
}

func (s *Service) zoneFor(city string) string {
	if zone, ok := s.zones[city]; ok {
		return zone
	}
	return defaultZone
}
