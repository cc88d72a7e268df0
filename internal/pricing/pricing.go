// Package pricing computes order totals and estimated preparation time from
// cart contents, the priority flag and the current settings snapshot. It is
// pure: no I/O, no mutation of inputs, deterministic output.
package pricing

import (
	"math"

	"neonfood/internal/models"
)

// priorityFloorMinutes is the lower bound on the expedited preparation time.
const priorityFloorMinutes = 5

// Result holds the derived checkout figures. All monetary fields are rounded
// to cents with half-up rounding; times are whole minutes.
type Result struct {
	ItemsTotal   float64 `json:"items_total"`
	PriorityFee  float64 `json:"priority_fee"`
	ServiceFee   float64 `json:"service_fee"`
	Subtotal     float64 `json:"subtotal"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
	DeliveryTime int     `json:"delivery_time"`
}

// Compute derives the checkout figures for the given cart. An empty cart
// yields the zero Result. Validation of quantities and prices is the
// caller's responsibility.
func Compute(items []models.CheckoutItem, isPriority bool, settings *models.Settings) Result {
	if len(items) == 0 {
		return Result{}
	}

	var itemsTotal float64
	for _, item := range items {
		itemsTotal += item.UnitPrice * float64(item.Quantity)
	}

	var priorityFee float64
	if isPriority {
		priorityFee = settings.PriorityUpcharge
	}

	serviceFee := settings.ServiceFee

	subtotal := itemsTotal + priorityFee + serviceFee
	tax := subtotal * settings.TaxRate / 100

	return Result{
		ItemsTotal:   round2(itemsTotal),
		PriorityFee:  round2(priorityFee),
		ServiceFee:   round2(serviceFee),
		Subtotal:     round2(subtotal),
		Tax:          round2(tax),
		Total:        round2(subtotal + tax),
		DeliveryTime: deliveryTime(items, isPriority, settings.DefaultPrepTime),
	}
}

// deliveryTime is the slowest item's prep time, halved (with a floor) for
// priority orders. Items without a prep time fall back to the default.
func deliveryTime(items []models.CheckoutItem, isPriority bool, defaultPrep int) int {
	standard := 0
	for _, item := range items {
		prep := item.PrepTime
		if prep <= 0 {
			prep = defaultPrep
		}
		if prep > standard {
			standard = prep
		}
	}

	if !isPriority {
		return standard
	}

	expedited := int(math.Ceil(float64(standard) * 0.5))
	if expedited < priorityFloorMinutes {
		expedited = priorityFloorMinutes
	}
	return expedited
}

// round2 rounds to two decimal places with half-up semantics.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
