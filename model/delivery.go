// model/delivery.go
package model

import "time"

type DeliveryStatus string

// Statuses move strictly forward; there is no skipping and no reverse
// transition. Casing is normalized here and in the schema.
const (
	DeliveryPending         DeliveryStatus = "Pending"
	DeliveryDriverAssigned  DeliveryStatus = "Driver Assigned"
	DeliveryPickUpConfirmed DeliveryStatus = "Pick Up Confirmed"
	DeliveryDelivered       DeliveryStatus = "Delivered"
)

type Delivery struct {
	ID          int64          `json:"id"`
	PurchaseID  int64          `json:"purchase_id"`
	DriverID    *int64         `json:"driver_id,omitempty"`
	Address     string         `json:"address"`
	Status      DeliveryStatus `json:"status"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
}

const (
	MethodPickup   = "pickup"
	MethodDelivery = "delivery"
)
