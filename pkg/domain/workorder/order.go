// Package workorder exposes work orders supplied by the external
// order-management service. Orders are read-only here; scheduling only
// references them by ID.
package workorder

// Order is a work order that may or may not have a scheduled job.
type Order struct {
	ID           string `json:"id" yaml:"id"`
	OrderNumber  string `json:"order_number" yaml:"order_number"`
	Title        string `json:"title" yaml:"title"`
	CustomerName string `json:"customer_name" yaml:"customer_name"`
}

// Service lists the orders known to the order-management system.
type Service interface {
	ListOrders() ([]Order, error)
}

// Index builds an ID lookup over an order list.
func Index(orders []Order) map[string]Order {
	byID := make(map[string]Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	return byID
}
