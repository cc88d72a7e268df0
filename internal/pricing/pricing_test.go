package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neonfood/internal/models"
)

func testSettings() *models.Settings {
	s := models.DefaultSettings()
	s.DefaultPrepTime = 15
	s.PriorityUpcharge = 4.99
	s.ServiceFee = 2.50
	s.TaxRate = 8.5
	return s
}

func testCart() []models.CheckoutItem {
	return []models.CheckoutItem{
		{ItemID: 1, Name: "Neon Burger", UnitPrice: 12.99, Quantity: 2, PrepTime: 15},
		{ItemID: 2, Name: "Fries", UnitPrice: 2.99, Quantity: 1, PrepTime: 5},
	}
}

func TestCompute_StandardOrder(t *testing.T) {
	res := Compute(testCart(), false, testSettings())

	assert.InDelta(t, 28.97, res.ItemsTotal, 0.001)
	assert.InDelta(t, 0, res.PriorityFee, 0.001)
	assert.InDelta(t, 2.50, res.ServiceFee, 0.001)
	assert.InDelta(t, 31.47, res.Subtotal, 0.001)
	assert.InDelta(t, 2.67, res.Tax, 0.001)
	assert.InDelta(t, 34.14, res.Total, 0.001)
	assert.Equal(t, 15, res.DeliveryTime)
}

func TestCompute_PriorityOrder(t *testing.T) {
	res := Compute(testCart(), true, testSettings())

	assert.InDelta(t, 4.99, res.PriorityFee, 0.001)
	assert.InDelta(t, 36.46, res.Subtotal, 0.001)
	assert.InDelta(t, 3.10, res.Tax, 0.001)
	assert.InDelta(t, 39.56, res.Total, 0.001)
	assert.Equal(t, 8, res.DeliveryTime, "ceil(15*0.5)")
}

func TestCompute_EmptyCart(t *testing.T) {
	res := Compute(nil, true, testSettings())
	assert.Equal(t, Result{}, res)
}

func TestCompute_PrepTimeFallback(t *testing.T) {
	settings := testSettings()
	settings.DefaultPrepTime = 20

	items := []models.CheckoutItem{
		{ItemID: 3, Name: "Mystery Special", UnitPrice: 9.99, Quantity: 1},
		{ItemID: 2, Name: "Fries", UnitPrice: 2.99, Quantity: 1, PrepTime: 5},
	}

	res := Compute(items, false, settings)
	assert.Equal(t, 20, res.DeliveryTime, "item without prep time falls back to default")
}

func TestCompute_PriorityFloor(t *testing.T) {
	settings := testSettings()
	items := []models.CheckoutItem{
		{ItemID: 2, Name: "Fries", UnitPrice: 2.99, Quantity: 1, PrepTime: 6},
	}

	res := Compute(items, true, settings)
	assert.Equal(t, 5, res.DeliveryTime, "expedited time never drops below 5 minutes")
}

func TestCompute_PriorityNeverSlower(t *testing.T) {
	settings := testSettings()
	carts := [][]models.CheckoutItem{
		testCart(),
		{{ItemID: 1, Name: "Burger", UnitPrice: 12.99, Quantity: 1, PrepTime: 45}},
		{{ItemID: 2, Name: "Fries", UnitPrice: 2.99, Quantity: 3, PrepTime: 1}},
		{{ItemID: 3, Name: "Special", UnitPrice: 9.99, Quantity: 1}},
	}

	for _, cart := range carts {
		standard := Compute(cart, false, settings)
		priority := Compute(cart, true, settings)
		assert.GreaterOrEqual(t, priority.DeliveryTime, 5)
		assert.LessOrEqual(t, priority.DeliveryTime, standard.DeliveryTime)
	}
}

func TestCompute_TotalInvariant(t *testing.T) {
	settings := testSettings()
	carts := []struct {
		name       string
		items      []models.CheckoutItem
		isPriority bool
	}{
		{"standard", testCart(), false},
		{"priority", testCart(), true},
		{"single cheap item", []models.CheckoutItem{{ItemID: 9, Name: "Water", UnitPrice: 0.99, Quantity: 1, PrepTime: 1}}, false},
		{"large quantities", []models.CheckoutItem{{ItemID: 4, Name: "Pizza", UnitPrice: 18.45, Quantity: 7, PrepTime: 25}}, true},
	}

	for _, tc := range carts {
		t.Run(tc.name, func(t *testing.T) {
			res := Compute(tc.items, tc.isPriority, settings)
			require.NotZero(t, res.Total)
			subtotal := res.ItemsTotal + res.PriorityFee + res.ServiceFee
			assert.InDelta(t, subtotal, res.Subtotal, 0.011)
			assert.InDelta(t, res.Subtotal+res.Tax, res.Total, 0.011)
		})
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	items := testCart()
	before := make([]models.CheckoutItem, len(items))
	copy(before, items)

	Compute(items, true, testSettings())
	assert.Equal(t, before, items)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.67495, 2.67},
		{3.0991, 3.10},
		{4.126, 4.13},
		{4.124, 4.12},
		{0, 0},
		{10.994999, 10.99},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, round2(tt.in), 0.0001, "round2(%v)", tt.in)
	}
}
