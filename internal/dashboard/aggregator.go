// Package dashboard computes the role-scoped statistics read model: entity
// counts, revenue or spend, a monthly time series of at most six buckets, and
// a recent-orders feed.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/agrovia/agrovia/internal/user"
)

var ErrUnsupportedRole = errors.New("role has no dashboard")

const recentLimit = 5

type Aggregator struct {
	repo Repository
}

func NewAggregator(repo Repository) *Aggregator { return &Aggregator{repo: repo} }

// Stats assembles the full read model for the actor. Aggregation is
// all-or-nothing: the first failing query aborts the request, a partial
// model is never returned.
//
// Per role:
//   - admin:  all products, all orders, all users, revenue = sum of order
//     totals over non-cancelled orders
//   - farmer: own listings, distinct orders containing own items, revenue =
//     sum of own line items (price x quantity)
//   - buyer:  distinct products ever purchased, own orders, spend = sum of
//     own non-cancelled order totals
func (a *Aggregator) Stats(ctx context.Context, actor *user.User) (*Stats, error) {
	var scope Scope
	switch actor.Role {
	case user.RoleAdmin:
	case user.RoleFarmer:
		scope.FarmerID = actor.ID
	case user.RoleBuyer:
		scope.BuyerID = actor.ID
	default:
		return nil, ErrUnsupportedRole
	}

	var st Stats
	var err error

	if actor.Role == user.RoleBuyer {
		st.Counts.Products, err = a.repo.CountDistinctPurchased(ctx, actor.ID)
	} else {
		st.Counts.Products, err = a.repo.CountProducts(ctx, scope.FarmerID)
	}
	if err != nil {
		return nil, err
	}

	if st.Counts.Orders, err = a.repo.CountOrders(ctx, scope); err != nil {
		return nil, err
	}

	// Only the admin sees the user count.
	if actor.Role == user.RoleAdmin {
		if st.Counts.Users, err = a.repo.CountUsers(ctx); err != nil {
			return nil, err
		}
	}

	if st.TotalRevenue, err = a.repo.Revenue(ctx, scope); err != nil {
		return nil, err
	}

	buckets, err := a.repo.Monthly(ctx, scope)
	if err != nil {
		return nil, err
	}
	st.ChartData = Chart(buckets)

	if st.RecentOrders, err = a.repo.Recent(ctx, scope, recentLimit); err != nil {
		return nil, err
	}
	return &st, nil
}

// Chart labels raw buckets with short month names. Fewer than six months of
// history yields fewer points; there is no zero padding.
func Chart(buckets []Bucket) []ChartPoint {
	out := make([]ChartPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, ChartPoint{
			Month:   time.Month(b.Month).String()[:3],
			Revenue: b.Revenue,
			Orders:  b.Orders,
		})
	}
	return out
}
