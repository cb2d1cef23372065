package domain

import "time"

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Sold        int       `json:"sold"`
	CategoryID  int       `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	// Photo payload is stored alongside the product but is never selected by
	// listing or search queries. Serving bytes belongs to the blob collaborator.
	Photo            []byte    `json:"-"`
	PhotoContentType string    `json:"photo_content_type,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is only the actor reference on an order here. Account management,
// credentials and sessions live with the auth collaborator.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
