// Command demo runs a scripted tour of the order facade: successful orders,
// every failure mode, cancellation, history, statistics and notification
// preferences, printing each outcome to stdout.
package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	appinv "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/inventory"
	appnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/notification"
	apporder "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/order"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/notification"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/payment"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/shipping"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/bus"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/carrier"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/id"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/memory"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/notify"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/infrastructure/paymentgw"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"

	"github.com/shopspring/decimal"
)

// consoleSender prints deliveries instead of logging them so the demo output
// reads as one narrative.
type consoleSender struct{}

func (consoleSender) Send(_ context.Context, msg notification.Message) error {
	fmt.Printf("   [%s] para %s: %s\n", strings.ToUpper(string(msg.Channel)), msg.CustomerID, firstLine(msg.Body))
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

var (
	visaCard = payment.Details{
		CardNumber: "4111111111111111",
		CVV:        "123",
		Expiry:     "12/27",
		Cardholder: "Juan Pérez",
	}
	masterCard = payment.Details{
		CardNumber: "5555555555554444",
		CVV:        "456",
		Expiry:     "08/26",
		Cardholder: "María García",
	}
	amexCard = payment.Details{
		CardNumber: "3782822463100005",
		CVV:        "1234",
		Expiry:     "12/25",
	}
	limaAddress = &shipping.Address{
		Street:  "Av. Arequipa 1234",
		City:    "Lima",
		ZipCode: "15001",
		Country: "Perú",
	}
)

func main() {
	ctx := context.Background()
	tel := observability.NopTelemetry()

	eventBus := bus.NewBus(nil)
	eventBus.Start(ctx)
	defer eventBus.Stop(ctx)

	inventorySvc := appinv.NewService(memory.NewInventoryStore(memory.DefaultCatalog()), tel)
	notifSvc := appnotif.NewService(consoleSender{}, tel)
	notify.NewWorker(eventBus, notifSvc, tel).Start()

	facade := apporder.NewFacade(
		inventorySvc,
		paymentgw.NewGateway(tel),
		carrier.NewService(tel),
		notifSvc,
		memory.NewOrderLog(),
		eventBus,
		id.NewUUIDGenerator(),
		tel,
	)

	separator("DEMOSTRACIÓN DEL PATRÓN FACADE")

	placed := successfulOrders(ctx, facade)
	settle()
	failedOrders(ctx, facade)
	settle()
	orderManagement(ctx, facade, placed)
	settle()
	customerHistory(ctx, facade)
	notificationPreferences(ctx, notifSvc)
	settle()
	systemStats(ctx, facade)

	separator("FIN DE LA DEMOSTRACIÓN")
}

func successfulOrders(ctx context.Context, facade *apporder.Facade) []apporder.OrderResult {
	separator("DEMO 1: PEDIDOS EXITOSOS")

	fmt.Println("\nRealizando pedido estándar...")
	r1 := facade.PlaceOrder(ctx, apporder.PlaceOrderInput{
		CustomerID:   "customer_001",
		SKU:          "MONITOR-27",
		Quantity:     1,
		UnitPrice:    decimal.NewFromFloat(299.99),
		Payment:      visaCard,
		Address:      limaAddress,
		ShippingType: shipping.ClassStandard,
	})
	printResult(r1, "Pedido Estándar - Monitor 27\"")

	fmt.Println("\nRealizando pedido express...")
	r2 := facade.PlaceOrder(ctx, apporder.PlaceOrderInput{
		CustomerID:   "customer_002",
		SKU:          "LAPTOP-15",
		Quantity:     1,
		UnitPrice:    decimal.NewFromFloat(899.99),
		Payment:      masterCard,
		ShippingType: shipping.ClassExpress,
	})
	printResult(r2, "Pedido Express - Laptop 15\"")

	fmt.Println("\nRealizando pedido de múltiples unidades...")
	r3 := facade.PlaceOrder(ctx, apporder.PlaceOrderInput{
		CustomerID:   "customer_003",
		SKU:          "SMARTPHONE-X",
		Quantity:     2,
		UnitPrice:    decimal.NewFromFloat(649.99),
		Payment:      visaCard,
		ShippingType: shipping.ClassPremium,
	})
	printResult(r3, "Pedido Premium - 2x Smartphone X")

	return []apporder.OrderResult{r1, r2, r3}
}

func failedOrders(ctx context.Context, facade *apporder.Facade) {
	separator("DEMO 2: MANEJO DE ERRORES")

	fmt.Println("\nIntentando pedido con stock insuficiente...")
	r1 := facade.PlaceOrder(ctx, apporder.PlaceOrderInput{
		CustomerID: "customer_004",
		SKU:        "WASHER-7KG",
		Quantity:   5,
		UnitPrice:  decimal.NewFromFloat(499.99),
		Payment:    visaCard,
	})
	printResult(r1, "Error - Stock Insuficiente")

	fmt.Println("\nIntentando pedido con pago rechazado...")
	r2 := facade.PlaceOrder(ctx, apporder.PlaceOrderInput{
		CustomerID: "customer_005",
		SKU:        "TABLET-10",
		Quantity:   1,
		UnitPrice:  decimal.NewFromFloat(299.99),
		Payment:    amexCard,
	})
	printResult(r2, "Error - Pago Rechazado")

	fmt.Println("\nIntentando pedido de producto inexistente...")
	r3 := facade.PlaceOrder(ctx, apporder.PlaceOrderInput{
		CustomerID: "customer_006",
		SKU:        "NONEXISTENT-PRODUCT",
		Quantity:   1,
		UnitPrice:  decimal.NewFromFloat(99.99),
		Payment:    visaCard,
	})
	printResult(r3, "Error - Producto No Existe")
}

func orderManagement(ctx context.Context, facade *apporder.Facade, placed []apporder.OrderResult) {
	separator("DEMO 3: GESTIÓN DE PEDIDOS")

	if len(placed) == 0 || !placed[0].Success {
		fmt.Println("\nNo hay pedidos exitosos para gestionar")
		return
	}
	first := placed[0]

	fmt.Printf("\nConsultando estado del pedido %.8s...\n", first.OrderID)
	status, err := facade.OrderStatus(ctx, first.OrderID)
	if err != nil {
		fmt.Printf("   Error consultando el pedido: %v\n", err)
	} else {
		fmt.Println("   Cliente:  " + status.Order.CustomerID)
		fmt.Printf("   Producto: %s x %d\n", status.Order.SKU, status.Order.Quantity)
		fmt.Printf("   Total:    $%s\n", status.Order.TotalAmount.StringFixed(2))
		fmt.Printf("   Estado:   %s\n", status.Order.Status)
		if status.Shipping != nil {
			fmt.Printf("   Envío:    %s (%s)\n", status.Shipping.Status, status.Shipping.Location)
		}
	}

	fmt.Printf("\nCancelando pedido %.8s...\n", first.OrderID)
	if err := facade.CancelOrder(ctx, first.OrderID, "customer_001"); err != nil {
		fmt.Printf("   Error cancelando el pedido: %v\n", err)
	} else {
		fmt.Println("   Pedido cancelado exitosamente")
	}
}

func customerHistory(ctx context.Context, facade *apporder.Facade) {
	separator("DEMO 4: HISTORIAL DE CLIENTES")

	for _, customerID := range []string{"customer_001", "customer_002"} {
		fmt.Printf("\nHistorial de pedidos - %s:\n", customerID)
		history, err := facade.History(ctx, customerID)
		if err != nil {
			fmt.Printf("   Error consultando historial: %v\n", err)
			continue
		}
		if len(history) == 0 {
			fmt.Println("   No hay pedidos en el historial")
			continue
		}
		for i, rec := range history {
			fmt.Printf("   %d. Pedido %.8s... - %s x %d\n", i+1, rec.OrderID, rec.SKU, rec.Quantity)
			fmt.Printf("      Total: $%s - Estado: %s\n", rec.TotalAmount.StringFixed(2), rec.Status)
		}
	}
}

func notificationPreferences(ctx context.Context, notifSvc *appnotif.Service) {
	separator("DEMO 5: PREFERENCIAS DE NOTIFICACIÓN")

	fmt.Println("\nConfigurando preferencias de notificación...")
	_ = notifSvc.SetPreferences("customer_001", notification.ChannelEmail, notification.ChannelSMS)
	_ = notifSvc.SetPreferences("customer_002", notification.ChannelEmail, notification.ChannelPush)
	fmt.Println("   Preferencias configuradas para clientes")

	fmt.Println("\nEnviando notificación masiva de prueba...")
	result := notifSvc.SendBulk(
		ctx,
		[]string{"customer_001", "customer_002", "customer_003"},
		"¡Oferta especial! 20% de descuento en todos los productos electrónicos.",
		notification.ChannelEmail,
	)
	fmt.Printf("   Enviadas: %d\n", result.Sent)
	fmt.Printf("   Fallidas: %d\n", result.Failed)
}

func systemStats(ctx context.Context, facade *apporder.Facade) {
	separator("DEMO 6: ESTADÍSTICAS DEL SISTEMA")

	stats, err := facade.Stats(ctx)
	if err != nil {
		fmt.Printf("\nError consultando estadísticas: %v\n", err)
		return
	}

	fmt.Println("\nEstadísticas generales:")
	fmt.Printf("   Pedidos exitosos: %d\n", stats.TotalSuccessfulOrders)
	fmt.Printf("   Pedidos fallidos: %d\n", stats.TotalFailedOrders)
	fmt.Printf("   Tasa de éxito:    %.2f%%\n", stats.SuccessRatePercentage)

	fmt.Println("\nEstado del inventario:")
	skus := make([]string, 0, len(stats.InventoryStatus))
	for sku := range stats.InventoryStatus {
		skus = append(skus, sku)
	}
	slices.Sort(skus)
	for _, sku := range skus {
		qty := stats.InventoryStatus[sku]
		label := "DISPONIBLE"
		if qty <= 2 {
			label = "BAJO STOCK"
		}
		fmt.Printf("   %-14s %2d unidades - %s\n", sku, qty, label)
	}

	fmt.Println("\nCarriers disponibles:")
	for _, class := range []shipping.Class{shipping.ClassStandard, shipping.ClassExpress, shipping.ClassPremium} {
		c, ok := stats.AvailableCarriers[class]
		if !ok {
			continue
		}
		fmt.Printf("   %-8s %s (%d días, $%s)\n", class, c.Name, c.Days, c.Cost.StringFixed(2))
	}

	fmt.Println("\nEstadísticas de notificaciones:")
	if stats.NotificationStats.Total == 0 {
		fmt.Println("   No hay notificaciones registradas")
		return
	}
	fmt.Printf("   Total enviadas: %d\n", stats.NotificationStats.Total)
	for channel, count := range stats.NotificationStats.ByChannel {
		fmt.Printf("     %s: %d\n", channel, count)
	}
}

func printResult(r apporder.OrderResult, scenario string) {
	fmt.Println("\nEscenario: " + scenario)
	fmt.Println(strings.Repeat("-", 40))
	if r.Success {
		fmt.Println("Estado: EXITOSO")
		fmt.Printf("   ID del pedido:    %.8s...\n", r.OrderID)
		fmt.Printf("   ID transacción:   %s\n", r.TransactionID)
		fmt.Printf("   Seguimiento:      %s\n", r.TrackingNumber)
		fmt.Printf("   Total pagado:     $%s\n", r.TotalAmount.StringFixed(2))
		fmt.Printf("   Entrega estimada: %s\n", r.EstimatedDelivery)
		return
	}
	fmt.Println("Estado: FALLIDO")
	fmt.Printf("   ID del pedido: %.8s...\n", r.OrderID)
	fmt.Printf("   Razón:         %s\n", r.Reason)
	if r.TransactionID != "" {
		fmt.Printf("   ID transacción: %s\n", r.TransactionID)
	}
}

func separator(title string) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("  " + title)
	fmt.Println(strings.Repeat("=", 60))
}

// Event delivery runs on the bus goroutines; give handlers a moment so their
// output lands inside the section that triggered it.
func settle() { time.Sleep(300 * time.Millisecond) }
