// internal/models/order.go
package models

// OrderSnapshot is read-only order data supplied by the order-lookup
// collaborator. The core never mutates it.
type OrderSnapshot struct {
	OrderNumber       string          `json:"orderNumber"`
	FulfillmentStatus string          `json:"fulfillmentStatus"`
	FinancialStatus   string          `json:"financialStatus"`
	TotalPrice        string          `json:"totalPrice"`
	Items             []OrderItem     `json:"items,omitempty"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	Fulfillments      []Fulfillment   `json:"fulfillments,omitempty"`
}

type OrderItem struct {
	Quantity int    `json:"quantity"`
	Title    string `json:"title"`
}

type ShippingAddress struct {
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
}

type Fulfillment struct {
	TrackingCompany     string   `json:"trackingCompany,omitempty"`
	TrackingNumbers     []string `json:"trackingNumbers,omitempty"`
	EstimatedDeliveryAt string   `json:"estimatedDeliveryAt,omitempty"`
}
