package dashboard

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrovia/internal/user"
)

// stubRepo records the scopes it was queried with and serves canned rows.
type stubRepo struct {
	products     int
	purchased    int
	users        int
	orders       int
	revenue      decimal.Decimal
	buckets      []Bucket
	recent       []RecentOrder
	orderScope   Scope
	revenueScope Scope
	productArg   string
	purchasedArg string
	usersQueried bool
}

func (s *stubRepo) CountProducts(_ context.Context, farmerID string) (int, error) {
	s.productArg = farmerID
	return s.products, nil
}

func (s *stubRepo) CountDistinctPurchased(_ context.Context, buyerID string) (int, error) {
	s.purchasedArg = buyerID
	return s.purchased, nil
}

func (s *stubRepo) CountUsers(context.Context) (int, error) {
	s.usersQueried = true
	return s.users, nil
}

func (s *stubRepo) CountOrders(_ context.Context, sc Scope) (int, error) {
	s.orderScope = sc
	return s.orders, nil
}

func (s *stubRepo) Revenue(_ context.Context, sc Scope) (decimal.Decimal, error) {
	s.revenueScope = sc
	return s.revenue, nil
}

func (s *stubRepo) Monthly(context.Context, Scope) ([]Bucket, error) { return s.buckets, nil }

func (s *stubRepo) Recent(context.Context, Scope, int) ([]RecentOrder, error) {
	return s.recent, nil
}

func TestStats_AdminScope(t *testing.T) {
	repo := &stubRepo{products: 12, orders: 7, users: 4, revenue: decimal.RequireFromString("199.50")}
	agg := NewAggregator(repo)

	st, err := agg.Stats(context.Background(), &user.User{ID: "a1", Role: user.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, 12, st.Counts.Products)
	assert.Equal(t, 7, st.Counts.Orders)
	assert.Equal(t, 4, st.Counts.Users)
	assert.True(t, st.TotalRevenue.Equal(decimal.RequireFromString("199.50")))
	assert.Equal(t, Scope{}, repo.orderScope, "admin queries the global scope")
	assert.Equal(t, "", repo.productArg)
}

func TestStats_FarmerScope(t *testing.T) {
	repo := &stubRepo{products: 3, orders: 2, users: 99, revenue: decimal.RequireFromString("40")}
	agg := NewAggregator(repo)

	st, err := agg.Stats(context.Background(), &user.User{ID: "f1", Role: user.RoleFarmer})
	require.NoError(t, err)

	assert.Equal(t, 3, st.Counts.Products, "own listings only")
	assert.Equal(t, 2, st.Counts.Orders)
	assert.Equal(t, 0, st.Counts.Users, "farmers never see the user count")
	assert.False(t, repo.usersQueried)
	assert.Equal(t, Scope{FarmerID: "f1"}, repo.orderScope)
	assert.Equal(t, Scope{FarmerID: "f1"}, repo.revenueScope)
	assert.Equal(t, "f1", repo.productArg)
}

func TestStats_BuyerScope(t *testing.T) {
	repo := &stubRepo{products: 50, purchased: 5, orders: 6, revenue: decimal.RequireFromString("310")}
	agg := NewAggregator(repo)

	st, err := agg.Stats(context.Background(), &user.User{ID: "b1", Role: user.RoleBuyer})
	require.NoError(t, err)

	assert.Equal(t, 5, st.Counts.Products, "distinct products ever purchased, not catalog size")
	assert.Equal(t, "b1", repo.purchasedArg)
	assert.Equal(t, "", repo.productArg, "catalog count never queried for buyers")
	assert.Equal(t, 0, st.Counts.Users)
	assert.Equal(t, Scope{BuyerID: "b1"}, repo.orderScope)
}

func TestStats_UnsupportedRole(t *testing.T) {
	repo := &stubRepo{}
	agg := NewAggregator(repo)

	_, err := agg.Stats(context.Background(), &user.User{ID: "x", Role: user.Role("auditor")})
	assert.ErrorIs(t, err, ErrUnsupportedRole)
	assert.Equal(t, "", repo.productArg, "rejected before any query")
	assert.False(t, repo.usersQueried)
}

func TestChart_LabelsAndOrdering(t *testing.T) {
	buckets := []Bucket{
		{Year: 2026, Month: 3, Revenue: decimal.RequireFromString("100"), Orders: 2},
		{Year: 2026, Month: 4, Revenue: decimal.RequireFromString("250.25"), Orders: 3},
		{Year: 2026, Month: 8, Revenue: decimal.RequireFromString("75"), Orders: 1},
	}

	points := Chart(buckets)
	require.Len(t, points, 3, "no zero padding up to six")
	assert.Equal(t, "Mar", points[0].Month)
	assert.Equal(t, "Apr", points[1].Month)
	assert.Equal(t, "Aug", points[2].Month)
	assert.Equal(t, 3, points[1].Orders)
	assert.True(t, points[1].Revenue.Equal(decimal.RequireFromString("250.25")))
}

func TestChart_Empty(t *testing.T) {
	assert.Empty(t, Chart(nil))
}
