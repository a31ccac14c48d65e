package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appinv "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/inventory"
	appnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/notification"
	apporder "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/order"
	domnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/notification"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/carrier"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/id"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/memory"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/paymentgw"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSender struct{}

func (nopSender) Send(_ context.Context, _ domnotif.Message) error { return nil }

// newTestRouter wires the full stack against in-memory infrastructure. The
// handler is exercised through the router so URL params resolve as they do in
// production.
func newTestRouter(seed map[string]int) http.Handler {
	tel := observability.NopTelemetry()
	facade := apporder.NewFacade(
		appinv.NewService(memory.NewInventoryStore(seed), tel),
		paymentgw.NewGateway(tel),
		carrier.NewService(tel),
		appnotif.NewService(nopSender{}, tel),
		memory.NewOrderLog(),
		nil,
		id.NewUUIDGenerator(),
		tel,
	)
	return NewHandler(facade, tel).Router(tel)
}

func placeOrderBody(overrides map[string]any) *bytes.Buffer {
	body := map[string]any{
		"customer_id": "customer_001",
		"sku":         "MONITOR-27",
		"qty":         1,
		"unit_price":  299.99,
		"payment": map[string]any{
			"card_number": "4111111111111111",
			"cvv":         "123",
			"expiry":      "12/27",
			"cardholder":  "Juan Pérez",
		},
		"shipping_address": map[string]any{
			"street":   "Av. Arequipa 1234",
			"city":     "Lima",
			"zip_code": "15001",
			"country":  "Perú",
		},
		"shipping_type": "standard",
	}
	for k, v := range overrides {
		body[k] = v
	}
	buf := &bytes.Buffer{}
	_ = json.NewEncoder(buf).Encode(body)
	return buf
}

func doRequest(t *testing.T, router http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func placeOrder(t *testing.T, router http.Handler) orderResultResponse {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/orders/", placeOrderBody(nil))
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var resp orderResultResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPlaceOrderEndpoint(t *testing.T) {
	router := newTestRouter(memory.DefaultCatalog())

	rec := doRequest(t, router, http.MethodPost, "/orders/", placeOrderBody(nil))
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var resp orderResultResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.OrderID)
	assert.NotEmpty(t, resp.TransactionID)
	assert.True(t, strings.HasPrefix(resp.TrackingNumber, "TRK"))
	assert.Equal(t, "309.99", resp.TotalAmount.StringFixed(2))
	assert.NotEmpty(t, resp.EstimatedDelivery)
}

func TestPlaceOrderEndpointFailureIs422(t *testing.T) {
	router := newTestRouter(memory.DefaultCatalog())

	rec := doRequest(t, router, http.MethodPost, "/orders/", placeOrderBody(map[string]any{
		"sku": "WASHER-7KG",
		"qty": 5,
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp orderResultResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Stock insuficiente", resp.Reason)
	assert.NotEmpty(t, resp.OrderID)
}

func TestPlaceOrderEndpointDeclinedCardIs422(t *testing.T) {
	router := newTestRouter(memory.DefaultCatalog())

	rec := doRequest(t, router, http.MethodPost, "/orders/", placeOrderBody(map[string]any{
		"payment": map[string]any{
			"card_number": "3782822463100005",
			"cvv":         "1234",
			"expiry":      "12/25",
		},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp orderResultResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Reason, "Error en el pago")
}

func TestPlaceOrderEndpointValidation(t *testing.T) {
	tests := map[string]struct {
		overrides map[string]any
		wantHint  string
	}{
		"missing customer_id": {
			overrides: map[string]any{"customer_id": ""},
			wantHint:  "customer_id",
		},
		"missing sku": {
			overrides: map[string]any{"sku": ""},
			wantHint:  "sku",
		},
		"zero qty": {
			overrides: map[string]any{"qty": 0},
			wantHint:  "qty",
		},
		"negative unit_price": {
			overrides: map[string]any{"unit_price": -1},
			wantHint:  "unit_price",
		},
	}

	router := newTestRouter(memory.DefaultCatalog())
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/orders/", placeOrderBody(tt.overrides))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantHint)
		})
	}
}

func TestPlaceOrderEndpointRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(memory.DefaultCatalog())

	rec := doRequest(t, router, http.MethodPost, "/orders/", bytes.NewBufferString("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/orders/", placeOrderBody(map[string]any{
		"unexpected_field": true,
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderStatusEndpoint(t *testing.T) {
	router := newTestRouter(memory.DefaultCatalog())
	placed := placeOrder(t, router)

	rec := doRequest(t, router, http.MethodGet, "/orders/"+placed.OrderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp orderStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, placed.OrderID, resp.Order.OrderID)
	assert.Equal(t, "completed", resp.Order.Status)
	require.NotNil(t, resp.Shipping)
	assert.Equal(t, placed.TrackingNumber, resp.Shipping.TrackingNumber)
}

func TestOrderStatusEndpointNotFound(t *testing.T) {
	router := newTestRouter(memory.DefaultCatalog())

	rec := doRequest(t, router, http.MethodGet, "/orders/no-such-order", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelOrderEndpoint(t *testing.T) {
	router := newTestRouter(memory.DefaultCatalog())
	placed := placeOrder(t, router)

	rec := doRequest(t, router, http.MethodPost, "/orders/"+placed.OrderID+"/cancel?customer_id=customer_001", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, placed.OrderID, resp["order_id"])
	assert.Equal(t, "cancelled", resp["status"])

	// Second cancel conflicts, unknown order is not found.
	rec = doRequest(t, router, http.MethodPost, "/orders/"+placed.OrderID+"/cancel?customer_id=customer_001", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/orders/no-such-order/cancel", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	router := newTestRouter(memory.DefaultCatalog())
	first := placeOrder(t, router)
	second := placeOrder(t, router)

	rec := doRequest(t, router, http.MethodGet, "/customers/customer_001/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Orders []orderRecordResponse `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 2)
	assert.Equal(t, first.OrderID, resp.Orders[0].OrderID)
	assert.Equal(t, second.OrderID, resp.Orders[1].OrderID)

	rec = doRequest(t, router, http.MethodGet, "/customers/customer_999/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Orders)
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(memory.DefaultCatalog())
	placeOrder(t, router)

	rec := doRequest(t, router, http.MethodPost, "/orders/", placeOrderBody(map[string]any{
		"sku": "WASHER-7KG",
		"qty": 5,
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalSuccessfulOrders)
	assert.Equal(t, 1, resp.TotalFailedOrders)
	assert.InDelta(t, 50.0, resp.SuccessRatePercentage, 0.001)
	assert.Equal(t, 9, resp.InventoryStatus["MONITOR-27"])
	require.Contains(t, resp.AvailableCarriers, "standard")
	assert.Equal(t, "Correos Nacionales", resp.AvailableCarriers["standard"].Name)
}
