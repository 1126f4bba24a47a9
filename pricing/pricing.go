// Package pricing derives cart and order totals. All amounts are integers in the
// smallest currency unit, so no rounding happens anywhere.
package pricing

import "pizzeria-service/models"

// BoxPrice is charged once per unit of every item that needs a box.
const BoxPrice int64 = 100

type Breakdown struct {
	Subtotal  int64 `json:"subtotal"`
	Packaging int64 `json:"packaging"`
	Delivery  int64 `json:"delivery"`
	Total     int64 `json:"total"`
}

func ExtrasTotal(item models.CartItem) int64 {
	var sum int64
	for _, e := range item.Extras {
		sum += e.Price
	}
	return sum
}

func LineTotal(item models.CartItem) int64 {
	return (item.Price + ExtrasTotal(item)) * int64(item.Quantity)
}

func Subtotal(items []models.CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += LineTotal(item)
	}
	return sum
}

func PackagingFee(items []models.CartItem) int64 {
	var sum int64
	for _, item := range items {
		if item.NeedsBox {
			sum += BoxPrice * int64(item.Quantity)
		}
	}
	return sum
}

// DeliveryFee is zero for pickup (nil zone).
func DeliveryFee(zone *models.DeliveryZone) int64 {
	if zone == nil {
		return 0
	}
	return zone.Price
}

func OrderTotal(items []models.CartItem, zone *models.DeliveryZone) int64 {
	return Subtotal(items) + PackagingFee(items) + DeliveryFee(zone)
}

// Quote computes every component of the total in one pass over the cart.
func Quote(items []models.CartItem, zone *models.DeliveryZone) Breakdown {
	b := Breakdown{
		Subtotal:  Subtotal(items),
		Packaging: PackagingFee(items),
		Delivery:  DeliveryFee(zone),
	}
	b.Total = b.Subtotal + b.Packaging + b.Delivery
	return b
}

// HalfAndHalfPrice charges the more expensive half. A side without the size counts as 0.
func HalfAndHalfPrice(left, right models.Product, size string) int64 {
	l := left.Prices[size]
	r := right.Prices[size]
	if l > r {
		return l
	}
	return r
}
