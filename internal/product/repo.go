// Package product holds the catalog: farmer-owned listings with filtered,
// offset-paginated retrieval.
package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

type Query struct {
	Category string
	Keyword  string
	Page     int // 1-based
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, int, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productCols = `id, farmer_id, title, description, price::text, category, images, stock, unit, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, farmer_id, title, description, price, category, images, stock, unit, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
	`, p.ID, p.FarmerID, p.Title, p.Description, p.Price.String(), p.Category, p.Images, p.Stock, p.Unit)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// List returns one catalog page plus the total match count for page math.
// Keyword is a case-insensitive substring match on the title.
func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	keyword := strings.TrimSpace(q.Keyword)

	var total int
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM products
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR title ILIKE '%'||$2||'%')
	`, q.Category, keyword).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+`
		FROM products
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR title ILIKE '%'||$2||'%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, q.Category, keyword, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectProducts(rows)
	return out, total, err
}

func (r *PGRepo) ListByFarmer(ctx context.Context, farmerID string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+` FROM products
		WHERE farmer_id=$1 ORDER BY created_at DESC
	`, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET title=$2, description=$3, price=$4, category=$5, images=$6, stock=$7, unit=$8, updated_at=NOW()
		WHERE id=$1
	`, p.ID, p.Title, p.Description, p.Price.String(), p.Category, p.Images, p.Stock, p.Unit)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var price string
	if err := row.Scan(&p.ID, &p.FarmerID, &p.Title, &p.Description, &price,
		&p.Category, &p.Images, &p.Stock, &p.Unit, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = d
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
