package types

import "time"

// Address is a delivery address owned by a user. Deleting an address only
// flips Status to false so order history keeps a valid reference.
type Address struct {
	ID          string    `json:"_id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	AddressLine string    `json:"address_line" db:"address_line"`
	City        string    `json:"city" db:"city"`
	State       string    `json:"state" db:"state"`
	Pincode     string    `json:"pincode" db:"pincode"`
	Country     string    `json:"country" db:"country"`
	Mobile      string    `json:"mobile" db:"mobile"`
	Status      bool      `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// AddressUpdate describes a partial address update; nil fields are kept.
type AddressUpdate struct {
	AddressLine *string
	City        *string
	State       *string
	Pincode     *string
	Country     *string
	Mobile      *string
}
