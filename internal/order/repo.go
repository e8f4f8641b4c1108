package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	// Create inserts the order and its items and decrements the stock of
	// every referenced product inside one transaction.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	// ListByFarmer matches on the denormalized line-item farmer ID, never on
	// live product ownership.
	ListByFarmer(ctx context.Context, farmerID string) ([]Order, error)
	MarkPaid(ctx context.Context, id string, res PaymentResult) error
	SetStatus(ctx context.Context, id string, status Status) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, buyer_id, shipping_address, payment_method, tax_price, shipping_price, total_price,
		                    is_paid, status, is_delivered, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,false,$8,false,NOW(),NOW())
	`, o.ID, o.BuyerID, o.ShippingAddress, o.PaymentMethod,
		o.TaxPrice.String(), o.ShippingPrice.String(), o.TotalPrice.String(), o.Status); err != nil {
		return err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, farmer_id, title, quantity, price, image)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, it.ID, o.ID, it.ProductID, it.FarmerID, it.Title, it.Quantity, it.Price.String(), it.Image); err != nil {
			return err
		}
		// Guarded decrement: two racing checkouts cannot oversell.
		tag, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND stock >= $2
		`, it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInsufficientStock
		}
	}
	return tx.Commit(ctx)
}

const orderCols = `o.id, o.buyer_id, o.shipping_address, o.payment_method, o.payment_result,
	o.tax_price::text, o.shipping_price::text, o.total_price::text,
	o.is_paid, o.paid_at, o.status, o.is_delivered, o.delivered_at, o.created_at, o.updated_at,
	u.name, u.email`

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT `+orderCols+`
		FROM orders o JOIN users u ON u.id = o.buyer_id
		WHERE o.id=$1
	`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return r.list(ctx, `o.buyer_id = $1`, buyerID)
}

func (r *PGRepo) ListByFarmer(ctx context.Context, farmerID string) ([]Order, error) {
	return r.list(ctx, `EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.farmer_id = $1)`, farmerID)
}

func (r *PGRepo) list(ctx context.Context, where string, arg any) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+`
		FROM orders o JOIN users u ON u.id = o.buyer_id
		WHERE `+where+`
		ORDER BY o.created_at DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	out := make([]Order, len(refs))
	for i, o := range refs {
		out[i] = *o
	}
	return out, nil
}

func (r *PGRepo) MarkPaid(ctx context.Context, id string, res PaymentResult) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET is_paid = true, paid_at = NOW(), payment_result = $2, updated_at = NOW()
		WHERE id = $1
	`, id, res)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetStatus(ctx context.Context, id string, status Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tag pgconn.CommandTag
	var err error
	if status == StatusDelivered {
		// Delivery implies payment for Cash on Delivery; keep an earlier
		// paid_at if the order was paid up front.
		tag, err = r.db.Exec(ctx, `
			UPDATE orders
			SET status = $2, is_delivered = true, delivered_at = NOW(),
			    is_paid = true, paid_at = COALESCE(paid_at, NOW()), updated_at = NOW()
			WHERE id = $1
		`, id, status)
	} else {
		tag, err = r.db.Exec(ctx, `
			UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
		`, id, status)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []Item{}
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, farmer_id, title, quantity, price::text, image
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.FarmerID,
			&it.Title, &it.Quantity, &price, &it.Image); err != nil {
			return err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return err
		}
		byID[it.OrderID].Items = append(byID[it.OrderID].Items, it)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var b Buyer
	var tax, shipping, total string
	if err := row.Scan(&o.ID, &o.BuyerID, &o.ShippingAddress, &o.PaymentMethod, &o.PaymentResult,
		&tax, &shipping, &total,
		&o.IsPaid, &o.PaidAt, &o.Status, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
		&b.Name, &b.Email); err != nil {
		return nil, err
	}
	var err error
	if o.TaxPrice, err = decimal.NewFromString(tax); err != nil {
		return nil, err
	}
	if o.ShippingPrice, err = decimal.NewFromString(shipping); err != nil {
		return nil, err
	}
	if o.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	b.ID = o.BuyerID
	o.Buyer = &b
	return &o, nil
}
