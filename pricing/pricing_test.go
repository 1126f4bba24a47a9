package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pizzeria-service/models"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name string
		item models.CartItem
		want int64
	}{
		{"plain", models.CartItem{Price: 800, Quantity: 1}, 800},
		{"quantity", models.CartItem{Price: 300, Quantity: 3}, 900},
		{"extras", models.CartItem{Price: 800, Quantity: 2, Extras: []models.Extra{{Name: "Queijo Extra", Price: 100}, {Name: "Ovo", Price: 50}}}, 1900},
		{"free item", models.CartItem{Price: 0, Quantity: 4}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineTotal(tt.item))
		})
	}
}

func TestQuoteScenario(t *testing.T) {
	items := []models.CartItem{{
		Price:    800,
		Quantity: 2,
		Extras:   []models.Extra{{Name: "Queijo Extra", Price: 100}},
		NeedsBox: true,
	}}
	zone := &models.DeliveryZone{Name: "Bela Vista", Price: 150}

	b := Quote(items, zone)
	assert.Equal(t, int64(1800), b.Subtotal)
	assert.Equal(t, int64(200), b.Packaging)
	assert.Equal(t, int64(150), b.Delivery)
	assert.Equal(t, int64(2150), b.Total)
	assert.Equal(t, b.Total, OrderTotal(items, zone))
}

func TestOrderTotalIsSumOfParts(t *testing.T) {
	carts := [][]models.CartItem{
		nil,
		{{Price: 100, Quantity: 1}},
		{{Price: 950, Quantity: 1, NeedsBox: true}, {Price: 300, Quantity: 2}},
		{{Price: 1200, Quantity: 3, NeedsBox: true, Extras: []models.Extra{{Price: 300}}}},
	}
	zones := []*models.DeliveryZone{nil, {Price: 50}, {Price: 300}}

	for _, items := range carts {
		for _, zone := range zones {
			want := Subtotal(items) + PackagingFee(items) + DeliveryFee(zone)
			assert.Equal(t, want, OrderTotal(items, zone))
		}
	}
	assert.Equal(t, int64(0), DeliveryFee(nil))
}

func TestPackagingFeeOnlyBoxedItems(t *testing.T) {
	items := []models.CartItem{
		{Price: 800, Quantity: 3, NeedsBox: true},
		{Price: 300, Quantity: 5},
	}
	assert.Equal(t, int64(300), PackagingFee(items))
}

func TestHalfAndHalfPrice(t *testing.T) {
	margherita := models.Product{Prices: map[string]int64{models.SizeFamiliar: 800, models.SizeMedium: 750}}
	seafood := models.Product{Prices: map[string]int64{models.SizeFamiliar: 1200}}

	assert.Equal(t, int64(1200), HalfAndHalfPrice(margherita, seafood, models.SizeFamiliar))
	assert.Equal(t, int64(1200), HalfAndHalfPrice(seafood, margherita, models.SizeFamiliar))
	assert.Equal(t, int64(750), HalfAndHalfPrice(margherita, seafood, models.SizeMedium))
	assert.Equal(t, int64(0), HalfAndHalfPrice(seafood, seafood, models.SizeSmall))
}
