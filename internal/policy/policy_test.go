package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrovia/agrovia/internal/order"
	"github.com/agrovia/agrovia/internal/product"
	"github.com/agrovia/agrovia/internal/user"
)

func actor(id string, role user.Role) *user.User {
	return &user.User{ID: id, Role: role}
}

func orderWithFarmers(buyerID string, farmerIDs ...string) *order.Order {
	o := &order.Order{ID: "o1", BuyerID: buyerID}
	for i, fid := range farmerIDs {
		o.Items = append(o.Items, order.Item{ID: string(rune('a' + i)), FarmerID: fid, ProductID: "p", Quantity: 1})
	}
	return o
}

func TestCanManageProduct(t *testing.T) {
	p := &product.Product{ID: "p1", FarmerID: "f1"}

	assert.True(t, CanManageProduct(actor("f1", user.RoleFarmer), p))
	assert.True(t, CanManageProduct(actor("someone-else", user.RoleAdmin), p))
	assert.False(t, CanManageProduct(actor("f2", user.RoleFarmer), p))
	assert.False(t, CanManageProduct(actor("b1", user.RoleBuyer), p))
}

func TestCanViewOrder(t *testing.T) {
	o := orderWithFarmers("b1", "f1", "f2")

	assert.True(t, CanViewOrder(actor("b1", user.RoleBuyer), o), "buyer sees own order")
	assert.True(t, CanViewOrder(actor("admin", user.RoleAdmin), o))
	assert.True(t, CanViewOrder(actor("f1", user.RoleFarmer), o), "member farmer")
	assert.True(t, CanViewOrder(actor("f2", user.RoleFarmer), o), "second member farmer")
	assert.False(t, CanViewOrder(actor("f3", user.RoleFarmer), o), "unrelated farmer")
	assert.False(t, CanViewOrder(actor("b2", user.RoleBuyer), o), "other buyer")
}

func TestCanMutateOrderStatus_BuyerExcluded(t *testing.T) {
	o := orderWithFarmers("b1", "f1")

	assert.False(t, CanMutateOrderStatus(actor("b1", user.RoleBuyer), o), "the buyer cannot drive fulfilment")
	assert.True(t, CanMutateOrderStatus(actor("f1", user.RoleFarmer), o))
	assert.True(t, CanMutateOrderStatus(actor("x", user.RoleAdmin), o))
	assert.False(t, CanMutateOrderStatus(actor("f9", user.RoleFarmer), o))
}

func TestCanMarkPaid(t *testing.T) {
	o := orderWithFarmers("b1", "f1")

	assert.True(t, CanMarkPaid(actor("b1", user.RoleBuyer), o))
	assert.True(t, CanMarkPaid(actor("x", user.RoleAdmin), o))
	assert.False(t, CanMarkPaid(actor("f1", user.RoleFarmer), o), "member farmer cannot mark paid")
	assert.False(t, CanMarkPaid(actor("b2", user.RoleBuyer), o))
}

func TestCanTransition_ForwardPath(t *testing.T) {
	cases := []struct {
		from, to order.Status
		want     bool
	}{
		{order.StatusPending, order.StatusConfirmed, true},
		{order.StatusConfirmed, order.StatusShipped, true},
		{order.StatusShipped, order.StatusDelivered, true},

		// no skipping ahead or moving backwards
		{order.StatusPending, order.StatusShipped, false},
		{order.StatusPending, order.StatusDelivered, false},
		{order.StatusConfirmed, order.StatusPending, false},
		{order.StatusShipped, order.StatusConfirmed, false},

		// cancel from any non-terminal state
		{order.StatusPending, order.StatusCancelled, true},
		{order.StatusConfirmed, order.StatusCancelled, true},
		{order.StatusShipped, order.StatusCancelled, true},

		// terminal states are frozen
		{order.StatusDelivered, order.StatusCancelled, false},
		{order.StatusDelivered, order.StatusPending, false},
		{order.StatusCancelled, order.StatusPending, false},
		{order.StatusCancelled, order.StatusDelivered, false},

		// self-transitions rejected
		{order.StatusPending, order.StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
