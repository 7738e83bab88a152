package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/binkeyit/storefront/types"
	"github.com/google/uuid"
)

const addressColumns = `id, user_id, address_line, city, state, pincode,
	country, mobile, status, created_at, updated_at`

// AddressRepository handles persistence for delivery addresses.
type AddressRepository struct {
	db *sql.DB
}

func NewAddressRepository(db *sql.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// ListByUser returns the user's addresses, active ones first.
func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]types.Address, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM addresses
		WHERE user_id = $1
		ORDER BY status DESC, created_at DESC`, addressColumns)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []types.Address
	for rows.Next() {
		var a types.Address
		err := rows.Scan(
			&a.ID, &a.UserID, &a.AddressLine, &a.City, &a.State,
			&a.Pincode, &a.Country, &a.Mobile, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *AddressRepository) Get(ctx context.Context, id string) (types.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE id = $1`, addressColumns)
	var a types.Address
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.AddressLine, &a.City, &a.State,
		&a.Pincode, &a.Country, &a.Mobile, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Address{}, ErrNotFound
		}
		return types.Address{}, err
	}
	return a, nil
}

func (r *AddressRepository) Create(ctx context.Context, address types.Address) (types.Address, error) {
	now := time.Now()
	address.ID = uuid.NewString()
	address.Status = true
	address.CreatedAt = now
	address.UpdatedAt = now

	const query = `
		INSERT INTO addresses (id, user_id, address_line, city, state, pincode,
			country, mobile, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		address.ID,
		address.UserID,
		address.AddressLine,
		address.City,
		address.State,
		address.Pincode,
		address.Country,
		address.Mobile,
		address.Status,
		address.CreatedAt,
		address.UpdatedAt,
	)
	if err != nil {
		return types.Address{}, err
	}
	return address, nil
}

// Update applies a partial address update scoped to the owning user.
func (r *AddressRepository) Update(ctx context.Context, id, userID string, update types.AddressUpdate) error {
	assignments := []string{"updated_at = NOW()"}
	args := []any{}
	position := 1

	appendSet := func(column string, value *string) {
		if value == nil {
			return
		}
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, position))
		args = append(args, *value)
		position++
	}
	appendSet("address_line", update.AddressLine)
	appendSet("city", update.City)
	appendSet("state", update.State)
	appendSet("pincode", update.Pincode)
	appendSet("country", update.Country)
	appendSet("mobile", update.Mobile)

	query := fmt.Sprintf(
		`UPDATE addresses SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(assignments, ", "),
		position,
		position+1,
	)
	args = append(args, id, userID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Disable soft-deletes an address by flipping status to false.
func (r *AddressRepository) Disable(ctx context.Context, id, userID string) error {
	const query = `
		UPDATE addresses
		SET status = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
