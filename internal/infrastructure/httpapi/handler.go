package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apporder "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/order"
	domorder "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/order"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/payment"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/shipping"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

const componentHTTPHandler = "http_server"

// Handler exposes the facade over HTTP. All order state lives behind the
// facade; the handler only translates JSON and status codes.
type Handler struct {
	facade *apporder.Facade
	log    observability.Logger
}

func NewHandler(facade *apporder.Facade, tel observability.Telemetry) *Handler {
	baseLog := observability.NopLogger()
	if tel != nil {
		baseLog = tel.Logger()
	}
	return &Handler{
		facade: facade,
		log:    baseLog.With(observability.F("component", componentHTTPHandler)),
	}
}

// Router assembles the chi middleware stack and the route table.
func (h *Handler) Router(tel observability.Telemetry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(Observability(h.log, tel))

	r.Get("/healthz", h.handleHealth)
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.handlePlaceOrder)
		r.Get("/{orderID}", h.handleOrderStatus)
		r.Post("/{orderID}/cancel", h.handleCancelOrder)
	})
	r.Get("/customers/{customerID}/orders", h.handleHistory)
	r.Get("/stats", h.handleStats)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type paymentDetailsRequest struct {
	CardNumber string `json:"card_number"`
	CVV        string `json:"cvv"`
	Expiry     string `json:"expiry"`
	Cardholder string `json:"cardholder"`
}

type addressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type placeOrderRequest struct {
	CustomerID   string                `json:"customer_id"`
	SKU          string                `json:"sku"`
	Quantity     int                   `json:"qty"`
	UnitPrice    decimal.Decimal       `json:"unit_price"`
	Payment      paymentDetailsRequest `json:"payment"`
	Address      *addressRequest       `json:"shipping_address"`
	ShippingType string                `json:"shipping_type"`
}

type orderResultResponse struct {
	Success           bool            `json:"success"`
	OrderID           string          `json:"order_id"`
	Reason            string          `json:"reason,omitempty"`
	TransactionID     string          `json:"transaction_id,omitempty"`
	ShipmentID        string          `json:"shipment_id,omitempty"`
	TrackingNumber    string          `json:"tracking_number,omitempty"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	EstimatedDelivery string          `json:"estimated_delivery,omitempty"`
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, errors.New("customer_id is required"))
		return
	}
	if req.SKU == "" {
		writeError(w, http.StatusBadRequest, errors.New("sku is required"))
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("qty must be greater than zero"))
		return
	}
	if !req.UnitPrice.IsPositive() {
		writeError(w, http.StatusBadRequest, errors.New("unit_price must be greater than zero"))
		return
	}

	input := apporder.PlaceOrderInput{
		CustomerID:   req.CustomerID,
		SKU:          req.SKU,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		ShippingType: shipping.Class(req.ShippingType),
		Payment: payment.Details{
			CardNumber: req.Payment.CardNumber,
			CVV:        req.Payment.CVV,
			Expiry:     req.Payment.Expiry,
			Cardholder: req.Payment.Cardholder,
		},
	}
	if req.Address != nil {
		input.Address = &shipping.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			ZipCode: req.Address.ZipCode,
			Country: req.Address.Country,
		}
	}

	result := h.facade.PlaceOrder(r.Context(), input)

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, orderResultResponse{
		Success:           result.Success,
		OrderID:           result.OrderID,
		Reason:            result.Reason,
		TransactionID:     result.TransactionID,
		ShipmentID:        result.ShipmentID,
		TrackingNumber:    result.TrackingNumber,
		TotalAmount:       result.TotalAmount,
		EstimatedDelivery: result.EstimatedDelivery,
	})
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	customerID := r.URL.Query().Get("customer_id")

	if err := h.facade.CancelOrder(r.Context(), orderID, customerID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"order_id": orderID,
		"status":   string(domorder.StatusCancelled),
	})
}

type orderRecordResponse struct {
	OrderID           string          `json:"order_id"`
	CustomerID        string          `json:"customer_id"`
	SKU               string          `json:"sku"`
	Quantity          int             `json:"qty"`
	TransactionID     string          `json:"transaction_id"`
	ShipmentID        string          `json:"shipment_id"`
	TrackingNumber    string          `json:"tracking_number"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	EstimatedDelivery string          `json:"estimated_delivery"`
	Status            string          `json:"status"`
	PlacedAt          time.Time       `json:"placed_at"`
}

type trackingResponse struct {
	TrackingNumber string    `json:"tracking_number"`
	Status         string    `json:"status"`
	LastUpdate     time.Time `json:"last_update"`
	Location       string    `json:"location"`
}

type orderStatusResponse struct {
	Order    orderRecordResponse `json:"order"`
	Shipping *trackingResponse   `json:"shipping_status,omitempty"`
}

func (h *Handler) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	status, err := h.facade.OrderStatus(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := orderStatusResponse{Order: toRecordResponse(status.Order)}
	if status.Shipping != nil {
		resp.Shipping = &trackingResponse{
			TrackingNumber: status.Shipping.TrackingNumber,
			Status:         status.Shipping.Status,
			LastUpdate:     status.Shipping.LastUpdate,
			Location:       status.Shipping.Location,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	records, err := h.facade.History(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orders := make([]orderRecordResponse, 0, len(records))
	for _, record := range records {
		orders = append(orders, toRecordResponse(record))
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type carrierResponse struct {
	Name string          `json:"name"`
	Days int             `json:"days"`
	Cost decimal.Decimal `json:"cost"`
}

type notificationStatsResponse struct {
	Total      int            `json:"total"`
	ByChannel  map[string]int `json:"by_channel"`
	ByCustomer map[string]int `json:"by_customer"`
}

type statsResponse struct {
	TotalSuccessfulOrders int                        `json:"total_successful_orders"`
	TotalFailedOrders     int                        `json:"total_failed_orders"`
	SuccessRatePercentage float64                    `json:"success_rate_percentage"`
	InventoryStatus       map[string]int             `json:"inventory_status"`
	NotificationStats     notificationStatsResponse  `json:"notification_stats"`
	AvailableCarriers     map[string]carrierResponse `json:"available_carriers"`
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.facade.Stats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	carriers := make(map[string]carrierResponse, len(stats.AvailableCarriers))
	for class, carrier := range stats.AvailableCarriers {
		carriers[string(class)] = carrierResponse{
			Name: carrier.Name,
			Days: carrier.Days,
			Cost: carrier.Cost,
		}
	}
	byChannel := make(map[string]int, len(stats.NotificationStats.ByChannel))
	for channel, count := range stats.NotificationStats.ByChannel {
		byChannel[string(channel)] = count
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalSuccessfulOrders: stats.TotalSuccessfulOrders,
		TotalFailedOrders:     stats.TotalFailedOrders,
		SuccessRatePercentage: stats.SuccessRatePercentage,
		InventoryStatus:       stats.InventoryStatus,
		NotificationStats: notificationStatsResponse{
			Total:      stats.NotificationStats.Total,
			ByChannel:  byChannel,
			ByCustomer: stats.NotificationStats.ByCustomer,
		},
		AvailableCarriers: carriers,
	})
}

func toRecordResponse(record *domorder.Record) orderRecordResponse {
	return orderRecordResponse{
		OrderID:           record.OrderID,
		CustomerID:        record.CustomerID,
		SKU:               record.SKU,
		Quantity:          record.Quantity,
		TransactionID:     record.TransactionID,
		ShipmentID:        record.ShipmentID,
		TrackingNumber:    record.TrackingNumber,
		TotalAmount:       record.TotalAmount,
		EstimatedDelivery: record.EstimatedDelivery,
		Status:            string(record.Status),
		PlacedAt:          record.PlacedAt,
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domorder.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domorder.ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
