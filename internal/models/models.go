package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Order lifecycle. A "cart" order is the transient shopping cart for a user;
// checkout promotes it to "pending" and admins drive it from there.
const (
	OrderStatusCart      = "cart"
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Session struct {
	Token     string    `json:"token" db:"token"`
	UserID    int       `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type MenuItem struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	DietaryType string    `json:"dietary_type" db:"dietary_type"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MealPlan is a fixed package priced per guest. Its sub-items are stored as a
// JSON array in the items column.
type MealPlan struct {
	ID            int            `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Occasion      string         `json:"occasion" db:"occasion"`
	PricePerGuest float64        `json:"price_per_guest" db:"price_per_guest"`
	DietaryType   string         `json:"dietary_type" db:"dietary_type"`
	Items         []MealPlanItem `json:"items"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

type MealPlanItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	PriceDelta  float64 `json:"price_delta,omitempty"`
	Optional    bool    `json:"optional,omitempty"`
}

type Order struct {
	ID              int         `json:"id" db:"id"`
	OrderNumber     string      `json:"order_number" db:"order_number"`
	UserID          int         `json:"user_id" db:"user_id"`
	Status          string      `json:"status" db:"status"`
	GuestCount      int         `json:"guest_count" db:"guest_count"`
	Subtotal        int64       `json:"subtotal" db:"subtotal"`
	LogisticsFee    int64       `json:"logistics_fee" db:"logistics_fee"`
	ServiceRetainer int64       `json:"service_retainer" db:"service_retainer"`
	TaxAmount       int64       `json:"tax_amount" db:"tax_amount"`
	DiscountAmount  int64       `json:"discount_amount" db:"discount_amount"`
	TotalAmount     int64       `json:"total_amount" db:"total_amount"`
	Notes           *OrderNotes `json:"notes,omitempty"`
	IdempotencyKey  string      `json:"-" db:"idempotency_key"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID             int       `json:"id" db:"id"`
	OrderID        int       `json:"order_id" db:"order_id"`
	MenuItemID     int       `json:"menu_item_id" db:"menu_item_id"`
	Quantity       int       `json:"quantity" db:"quantity"`
	UnitPrice      float64   `json:"unit_price" db:"unit_price"`
	TotalPrice     int64     `json:"total_price" db:"total_price"`
	Customizations string    `json:"customizations,omitempty" db:"customizations"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	MenuItem       *MenuItem `json:"menu_item,omitempty"`
}

// OrderNotes is the customization snapshot serialized into the order's notes
// column: contact and event details plus the meal-plan selections as priced at
// the time of ordering.
type OrderNotes struct {
	Contact    ContactInfo     `json:"contact"`
	Event      EventInfo       `json:"event"`
	Selections []SelectionLine `json:"selections,omitempty"`
}

type ContactInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type EventInfo struct {
	Date     string `json:"date"`
	Venue    string `json:"venue"`
	Occasion string `json:"occasion"`
}

// SelectionLine is one customized meal-plan package in an order.
type SelectionLine struct {
	MealPlanID int     `json:"meal_plan_id"`
	Name       string  `json:"name"`
	BasePrice  float64 `json:"base_price"`
	AddOns     []AddOn `json:"add_ons,omitempty"`
	GuestCount int     `json:"guest_count"`
	LineTotal  int64   `json:"line_total"`
}

type AddOn struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
