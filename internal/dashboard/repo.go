package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Scope narrows every query to the caller's visibility. The zero value is
// the admin (global) scope; exactly one of the fields is set otherwise.
type Scope struct {
	FarmerID string
	BuyerID  string
}

type Repository interface {
	CountProducts(ctx context.Context, farmerID string) (int, error) // "" = all
	CountDistinctPurchased(ctx context.Context, buyerID string) (int, error)
	CountUsers(ctx context.Context) (int, error)
	CountOrders(ctx context.Context, s Scope) (int, error)
	Revenue(ctx context.Context, s Scope) (decimal.Decimal, error)
	Monthly(ctx context.Context, s Scope) ([]Bucket, error)
	Recent(ctx context.Context, s Scope, limit int) ([]RecentOrder, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) CountProducts(ctx context.Context, farmerID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM products WHERE ($1 = '' OR farmer_id = $1)
	`, farmerID).Scan(&n)
	return n, err
}

func (r *PGRepo) CountDistinctPurchased(ctx context.Context, buyerID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT i.product_id)
		FROM order_items i JOIN orders o ON o.id = i.order_id
		WHERE o.buyer_id = $1
	`, buyerID).Scan(&n)
	return n, err
}

func (r *PGRepo) CountUsers(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *PGRepo) CountOrders(ctx context.Context, s Scope) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	var err error
	switch {
	case s.FarmerID != "":
		// Distinct orders containing the farmer's items, not line items.
		err = r.db.QueryRow(ctx, `
			SELECT COUNT(DISTINCT o.id)
			FROM orders o JOIN order_items i ON i.order_id = o.id
			WHERE i.farmer_id = $1
		`, s.FarmerID).Scan(&n)
	case s.BuyerID != "":
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE buyer_id = $1`, s.BuyerID).Scan(&n)
	default:
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	}
	return n, err
}

// Revenue sums order totals over non-cancelled orders in scope; a farmer's
// revenue sums only that farmer's line items (price x quantity).
func (r *PGRepo) Revenue(ctx context.Context, s Scope) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var sum string
	var err error
	if s.FarmerID != "" {
		err = r.db.QueryRow(ctx, `
			SELECT COALESCE(SUM(i.price * i.quantity), 0)::text
			FROM orders o JOIN order_items i ON i.order_id = o.id
			WHERE o.status <> 'cancelled' AND i.farmer_id = $1
		`, s.FarmerID).Scan(&sum)
	} else {
		err = r.db.QueryRow(ctx, `
			SELECT COALESCE(SUM(total_price), 0)::text
			FROM orders
			WHERE status <> 'cancelled' AND ($1 = '' OR buyer_id = $1)
		`, s.BuyerID).Scan(&sum)
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(sum)
}

// Monthly returns at most the six most recent calendar-month buckets in
// scope, ascending by year then month. Months without orders are absent.
func (r *PGRepo) Monthly(ctx context.Context, s Scope) ([]Bucket, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var sql string
	var arg any
	if s.FarmerID != "" {
		sql = `
			SELECT y, m, revenue, orders FROM (
				SELECT EXTRACT(YEAR FROM o.created_at)::int AS y,
				       EXTRACT(MONTH FROM o.created_at)::int AS m,
				       SUM(i.price * i.quantity)::text AS revenue,
				       COUNT(DISTINCT o.id)::int AS orders
				FROM orders o JOIN order_items i ON i.order_id = o.id
				WHERE o.status <> 'cancelled' AND i.farmer_id = $1
				GROUP BY 1, 2
				ORDER BY 1 DESC, 2 DESC
				LIMIT 6
			) b ORDER BY y, m`
		arg = s.FarmerID
	} else {
		sql = `
			SELECT y, m, revenue, orders FROM (
				SELECT EXTRACT(YEAR FROM created_at)::int AS y,
				       EXTRACT(MONTH FROM created_at)::int AS m,
				       SUM(total_price)::text AS revenue,
				       COUNT(*)::int AS orders
				FROM orders
				WHERE status <> 'cancelled' AND ($1 = '' OR buyer_id = $1)
				GROUP BY 1, 2
				ORDER BY 1 DESC, 2 DESC
				LIMIT 6
			) b ORDER BY y, m`
		arg = s.BuyerID
	}

	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bucket
	for rows.Next() {
		var b Bucket
		var revenue string
		if err := rows.Scan(&b.Year, &b.Month, &revenue, &b.Orders); err != nil {
			return nil, err
		}
		if b.Revenue, err = decimal.NewFromString(revenue); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PGRepo) Recent(ctx context.Context, s Scope, limit int) ([]RecentOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	where := `$1 = ''`
	arg := ""
	switch {
	case s.FarmerID != "":
		where = `EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.farmer_id = $1)`
		arg = s.FarmerID
	case s.BuyerID != "":
		where = `o.buyer_id = $1`
		arg = s.BuyerID
	}

	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.buyer_id, u.name, u.email, o.total_price::text, o.status, o.created_at
		FROM orders o JOIN users u ON u.id = o.buyer_id
		WHERE `+where+`
		ORDER BY o.created_at DESC
		LIMIT $2
	`, arg, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RecentOrder{}
	for rows.Next() {
		var ro RecentOrder
		var total string
		if err := rows.Scan(&ro.ID, &ro.Buyer.ID, &ro.Buyer.Name, &ro.Buyer.Email,
			&total, &ro.Status, &ro.CreatedAt); err != nil {
			return nil, err
		}
		if ro.TotalPrice, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}
