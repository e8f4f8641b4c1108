// Package policy holds the authorization decisions as pure functions. Every
// handler that gates on ownership or role goes through here so the rules live
// in exactly one place.
package policy

import (
	"github.com/agrovia/agrovia/internal/order"
	"github.com/agrovia/agrovia/internal/product"
	"github.com/agrovia/agrovia/internal/user"
)

// CanManageProduct: the owning farmer or an admin may mutate a listing.
func CanManageProduct(actor *user.User, p *product.Product) bool {
	return actor.Role == user.RoleAdmin || actor.ID == p.FarmerID
}

// isMember reports whether the actor sold at least one of the order's line
// items. Membership is decided on the denormalized snapshot farmer ID: it is
// immutable and answers "who sold this, historically" even after the product
// changed hands or was deleted.
func isMember(actor *user.User, o *order.Order) bool {
	for _, it := range o.Items {
		if it.FarmerID == actor.ID {
			return true
		}
	}
	return false
}

// CanViewOrder: admin, the buyer, or a member farmer.
func CanViewOrder(actor *user.User, o *order.Order) bool {
	if actor.Role == user.RoleAdmin || actor.ID == o.BuyerID {
		return true
	}
	return actor.Role == user.RoleFarmer && isMember(actor, o)
}

// CanMutateOrderStatus: like CanViewOrder minus the buyer clause. Buyers
// never drive the fulfilment state machine.
func CanMutateOrderStatus(actor *user.User, o *order.Order) bool {
	if actor.Role == user.RoleAdmin {
		return true
	}
	return actor.Role == user.RoleFarmer && isMember(actor, o)
}

// CanMarkPaid: the buyer who placed the order or an admin.
func CanMarkPaid(actor *user.User, o *order.Order) bool {
	return actor.Role == user.RoleAdmin || actor.ID == o.BuyerID
}

// CanTransition is the single source of truth for the order state machine:
// the forward path pending -> confirmed -> shipped -> delivered, with
// cancelled reachable from any non-terminal state. Terminal states are
// frozen and self-transitions are rejected.
func CanTransition(from, to order.Status) bool {
	if from.Terminal() {
		return false
	}
	if to == order.StatusCancelled {
		return true
	}
	switch from {
	case order.StatusPending:
		return to == order.StatusConfirmed
	case order.StatusConfirmed:
		return to == order.StatusShipped
	case order.StatusShipped:
		return to == order.StatusDelivered
	}
	return false
}
