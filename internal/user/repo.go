package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, organization_name, email, phone, password_hash, role, address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
	`, u.ID, u.Name, u.OrganizationName, u.Email, u.Phone, u.PasswordHash, u.Role, u.Address)
	if err != nil {
		// UNIQUE on email is the only constraint this insert can trip
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, name, organization_name, email, phone, password_hash, role, address, created_at, updated_at
		FROM users WHERE id=$1
	`, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, name, organization_name, email, phone, password_hash, role, address, created_at, updated_at
		FROM users WHERE email=$1
	`, email))
}

type row interface{ Scan(dest ...any) error }

func (r *PGRepo) scanOne(rw row) (*User, error) {
	var u User
	if err := rw.Scan(&u.ID, &u.Name, &u.OrganizationName, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.Address, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}
