package database

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"basil/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	return db
}

func createTestUser(t *testing.T, db *sql.DB, name, email string) *models.User {
	user, err := CreateUser(db, name, email, "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}
	return user
}

func createTestMenuItem(t *testing.T, db *sql.DB, name string, price float64) *models.MenuItem {
	item, err := CreateMenuItem(db, models.MenuItem{
		Name:      name,
		Price:     price,
		Category:  "Mains",
		Available: true,
	})
	if err != nil {
		t.Fatal("Failed to create menu item:", err)
	}
	return item
}

func TestUserCreationAndAuthentication(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")

	if user.Name != "Test User" {
		t.Errorf("Expected name 'Test User', got %s", user.Name)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("Expected first user to be admin, got role %s", user.Role)
	}

	second := createTestUser(t, db, "Second User", "second@example.com")
	if second.Role != models.RoleUser {
		t.Errorf("Expected second user role 'user', got %s", second.Role)
	}

	authUser, err := AuthenticateUser(db, "test@example.com", "password123")
	if err != nil {
		t.Fatal("Failed to authenticate user:", err)
	}

	if authUser.ID != user.ID {
		t.Errorf("Expected user ID %d, got %d", user.ID, authUser.ID)
	}

	_, err = AuthenticateUser(db, "test@example.com", "wrongpassword")
	if err == nil {
		t.Error("Expected authentication to fail with wrong password")
	}
}

func TestSessionManagement(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")

	session, err := CreateSession(db, user.ID, 24*time.Hour)
	if err != nil {
		t.Fatal("Failed to create session:", err)
	}

	if len(session.Token) != 64 {
		t.Errorf("Expected 64-char hex token, got %d chars", len(session.Token))
	}

	validatedUser, err := ValidateSession(db, session.Token)
	if err != nil {
		t.Fatal("Failed to validate session:", err)
	}

	if validatedUser.ID != user.ID {
		t.Errorf("Expected user ID %d, got %d", user.ID, validatedUser.ID)
	}

	err = DeleteSession(db, session.Token)
	if err != nil {
		t.Fatal("Failed to delete session:", err)
	}

	_, err = ValidateSession(db, session.Token)
	if err == nil {
		t.Error("Expected session validation to fail after deletion")
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")

	session, err := CreateSession(db, user.ID, 24*time.Hour)
	if err != nil {
		t.Fatal("Failed to create session:", err)
	}

	_, err = db.Exec("UPDATE sessions SET expires_at = datetime('now', '-1 hour') WHERE token = ?", session.Token)
	if err != nil {
		t.Fatal("Failed to expire session:", err)
	}

	_, err = ValidateSession(db, session.Token)
	if err == nil {
		t.Error("Expected expired session to be rejected")
	}

	if err := CleanupExpiredSessions(db); err != nil {
		t.Fatal("Failed to cleanup expired sessions:", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatal("Failed to count sessions:", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 sessions after cleanup, got %d", count)
	}
}

func TestMenuItemOperations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	item := createTestMenuItem(t, db, "Paneer Tikka", 350)

	items, err := GetMenuItems(db, MenuFilter{})
	if err != nil {
		t.Fatal("Failed to get menu items:", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 menu item, got %d", len(items))
	}

	err = UpdateMenuItem(db, item.ID, models.MenuItem{
		Name:      "Paneer Tikka Masala",
		Price:     400,
		Category:  "Mains",
		Available: false,
	})
	if err != nil {
		t.Fatal("Failed to update menu item:", err)
	}

	updated, err := GetMenuItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to get updated menu item:", err)
	}
	if updated.Name != "Paneer Tikka Masala" {
		t.Errorf("Expected name 'Paneer Tikka Masala', got %s", updated.Name)
	}
	if updated.Available {
		t.Error("Expected menu item to be unavailable")
	}

	available, err := GetMenuItems(db, MenuFilter{AvailableOnly: true})
	if err != nil {
		t.Fatal("Failed to get available menu items:", err)
	}
	if len(available) != 0 {
		t.Errorf("Expected 0 available items, got %d", len(available))
	}

	err = DeleteMenuItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to delete menu item:", err)
	}

	_, err = GetMenuItem(db, item.ID)
	if err == nil {
		t.Error("Expected menu item retrieval to fail after deletion")
	}
}

func TestMealPlanOperations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	plan, err := CreateMealPlan(db, models.MealPlan{
		Name:          "Wedding Feast",
		Occasion:      "wedding",
		PricePerGuest: 500,
		DietaryType:   "veg",
		Items: []models.MealPlanItem{
			{Name: "Starter Platter"},
			{Name: "Dessert Counter", PriceDelta: 50, Optional: true},
		},
	})
	if err != nil {
		t.Fatal("Failed to create meal plan:", err)
	}

	fetched, err := GetMealPlan(db, plan.ID)
	if err != nil {
		t.Fatal("Failed to get meal plan:", err)
	}
	if len(fetched.Items) != 2 {
		t.Errorf("Expected 2 meal plan items, got %d", len(fetched.Items))
	}
	if fetched.Items[1].PriceDelta != 50 {
		t.Errorf("Expected price delta 50, got %v", fetched.Items[1].PriceDelta)
	}

	plans, err := GetMealPlans(db, "wedding", "")
	if err != nil {
		t.Fatal("Failed to list meal plans:", err)
	}
	if len(plans) != 1 {
		t.Errorf("Expected 1 meal plan, got %d", len(plans))
	}

	plans, err = GetMealPlans(db, "birthday", "")
	if err != nil {
		t.Fatal("Failed to list meal plans:", err)
	}
	if len(plans) != 0 {
		t.Errorf("Expected 0 meal plans for unmatched occasion, got %d", len(plans))
	}
}

func TestCartAddMergesDuplicateItems(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")
	item := createTestMenuItem(t, db, "Samosa Tray", 200)

	cart, err := AddCartItem(db, user.ID, item.ID, 2, "")
	if err != nil {
		t.Fatal("Failed to add cart item:", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("Expected 1 cart line, got %d", len(cart.Items))
	}

	cart, err = AddCartItem(db, user.ID, item.ID, 3, "")
	if err != nil {
		t.Fatal("Failed to add cart item again:", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("Expected duplicate add to merge into 1 line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("Expected merged quantity 5, got %d", cart.Items[0].Quantity)
	}
	if cart.Items[0].TotalPrice != 1000 {
		t.Errorf("Expected line total 1000, got %d", cart.Items[0].TotalPrice)
	}
}

func TestCartTotalsFollowPricingModel(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")
	item := createTestMenuItem(t, db, "Thali", 580)

	if _, err := AddCartItem(db, user.ID, item.ID, 50, ""); err != nil {
		t.Fatal("Failed to add cart item:", err)
	}

	cart, err := SetCartGuestCount(db, user.ID, 50)
	if err != nil {
		t.Fatal("Failed to set guest count:", err)
	}

	if cart.Subtotal != 29000 {
		t.Errorf("Expected subtotal 29000, got %d", cart.Subtotal)
	}
	if cart.LogisticsFee != 2400 {
		t.Errorf("Expected logistics fee 2400, got %d", cart.LogisticsFee)
	}
	if cart.ServiceRetainer != 870 {
		t.Errorf("Expected service retainer 870, got %d", cart.ServiceRetainer)
	}
	if cart.TaxAmount != 1614 {
		t.Errorf("Expected taxes 1614, got %d", cart.TaxAmount)
	}
	if cart.TotalAmount != 33884 {
		t.Errorf("Expected total 33884, got %d", cart.TotalAmount)
	}

	sum := cart.Subtotal + cart.LogisticsFee + cart.ServiceRetainer + cart.TaxAmount - cart.DiscountAmount
	if cart.TotalAmount != sum {
		t.Errorf("Total %d does not match component sum %d", cart.TotalAmount, sum)
	}
}

func TestOnlyOneActiveCartPerUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")

	first, err := EnsureActiveCart(db, user.ID)
	if err != nil {
		t.Fatal("Failed to ensure cart:", err)
	}

	second, err := EnsureActiveCart(db, user.ID)
	if err != nil {
		t.Fatal("Failed to ensure cart again:", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected the same cart row, got %d and %d", first.ID, second.ID)
	}

	// A second cart row for the same user must violate the partial index.
	_, err = db.Exec(
		"INSERT INTO orders (order_number, user_id, status) VALUES (?, ?, ?)",
		"BSL-TEST-DUP", user.ID, models.OrderStatusCart,
	)
	if err == nil {
		t.Error("Expected second cart insert to violate the unique index")
	}
}

func TestCheckoutPromotesCart(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")
	item := createTestMenuItem(t, db, "Biryani Tray", 450)

	if _, err := AddCartItem(db, user.ID, item.ID, 4, ""); err != nil {
		t.Fatal("Failed to add cart item:", err)
	}

	notes := &models.OrderNotes{
		Contact: models.ContactInfo{Name: "Test User", Phone: "9999999999"},
		Event:   models.EventInfo{Date: "2026-09-15", Venue: "Garden Hall"},
	}

	order, err := CheckoutCart(db, user.ID, notes)
	if err != nil {
		t.Fatal("Failed to checkout:", err)
	}

	if order.Status != models.OrderStatusPending {
		t.Errorf("Expected status pending, got %s", order.Status)
	}
	if order.Notes == nil || order.Notes.Contact.Name != "Test User" {
		t.Error("Expected contact snapshot in order notes")
	}

	cart, err := GetActiveCart(db, user.ID)
	if err != nil {
		t.Fatal("Failed to query cart after checkout:", err)
	}
	if cart != nil {
		t.Error("Expected no active cart after checkout")
	}

	_, err = CheckoutCart(db, user.ID, notes)
	if err == nil {
		t.Error("Expected checkout of missing cart to fail")
	}
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")

	if _, err := EnsureActiveCart(db, user.ID); err != nil {
		t.Fatal("Failed to ensure cart:", err)
	}

	_, err := CheckoutCart(db, user.ID, &models.OrderNotes{})
	if err == nil {
		t.Error("Expected checkout of empty cart to fail")
	}
}

func TestDirectOrderIdempotency(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")

	input := DirectOrderInput{
		Selections: []models.SelectionLine{
			{
				Name:       "Royal Wedding Package",
				BasePrice:  500,
				AddOns:     []models.AddOn{{Name: "Live Counter", Price: 50}, {Name: "Dessert Bar", Price: 30}},
				GuestCount: 50,
			},
		},
		Contact:        models.ContactInfo{Name: "Test User", Phone: "9999999999"},
		GuestCount:     50,
		IdempotencyKey: "retry-key-1",
	}

	first, created, err := CreateDirectOrder(db, user.ID, input)
	if err != nil {
		t.Fatal("Failed to create order:", err)
	}
	if !created {
		t.Error("Expected first submission to create an order")
	}

	if first.Subtotal != 29000 || first.TotalAmount != 33884 {
		t.Errorf("Expected totals 29000/33884, got %d/%d", first.Subtotal, first.TotalAmount)
	}

	second, created, err := CreateDirectOrder(db, user.ID, input)
	if err != nil {
		t.Fatal("Failed to replay order:", err)
	}
	if created {
		t.Error("Expected replayed submission to not create a new order")
	}
	if second.ID != first.ID {
		t.Errorf("Expected the same order row, got %d and %d", first.ID, second.ID)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&count); err != nil {
		t.Fatal("Failed to count orders:", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 order, got %d", count)
	}
}

func TestIdempotencyKeysAreScopedPerUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	input := DirectOrderInput{
		Selections: []models.SelectionLine{
			{Name: "Buffet", BasePrice: 300, GuestCount: 20},
		},
		Contact:        models.ContactInfo{Name: "Alice", Phone: "9999999999"},
		GuestCount:     20,
		IdempotencyKey: "shared-key",
	}

	aliceOrder, created, err := CreateDirectOrder(db, alice.ID, input)
	if err != nil {
		t.Fatal("Failed to create Alice's order:", err)
	}
	if !created {
		t.Error("Expected Alice's submission to create an order")
	}

	// Bob reusing Alice's key must get his own order, not her row or an error.
	input.Contact.Name = "Bob"
	bobOrder, created, err := CreateDirectOrder(db, bob.ID, input)
	if err != nil {
		t.Fatal("Failed to create Bob's order with a reused key:", err)
	}
	if !created {
		t.Error("Expected Bob's submission to create an order")
	}
	if bobOrder.ID == aliceOrder.ID {
		t.Error("Expected distinct orders for distinct users sharing a key")
	}

	replay, created, err := CreateDirectOrder(db, bob.ID, input)
	if err != nil {
		t.Fatal("Failed to replay Bob's order:", err)
	}
	if created {
		t.Error("Expected Bob's replay to not create a new order")
	}
	if replay.ID != bobOrder.ID {
		t.Errorf("Expected Bob's replay to return order %d, got %d", bobOrder.ID, replay.ID)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")

	order, _, err := CreateDirectOrder(db, user.ID, DirectOrderInput{
		Selections: []models.SelectionLine{{Name: "Buffet", BasePrice: 300, GuestCount: 20}},
		Contact:    models.ContactInfo{Name: "Test User", Phone: "9999999999"},
	})
	if err != nil {
		t.Fatal("Failed to create order:", err)
	}

	if err := UpdateOrderStatus(db, order.ID, models.OrderStatusConfirmed); err != nil {
		t.Fatal("Expected pending->confirmed to succeed:", err)
	}

	if err := UpdateOrderStatus(db, order.ID, models.OrderStatusPending); err == nil {
		t.Error("Expected confirmed->pending to be rejected")
	}

	if err := UpdateOrderStatus(db, order.ID, models.OrderStatusDelivered); err != nil {
		t.Fatal("Expected confirmed->delivered to succeed:", err)
	}

	if err := UpdateOrderStatus(db, order.ID, models.OrderStatusCancelled); err == nil {
		t.Error("Expected delivered->cancelled to be rejected")
	}
}

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Test User", "test@example.com")
	createTestMenuItem(t, db, "Kebab Platter", 320)

	_, _, err := CreateDirectOrder(db, user.ID, DirectOrderInput{
		Selections: []models.SelectionLine{{Name: "Buffet", BasePrice: 300, GuestCount: 20}},
		Contact:    models.ContactInfo{Name: "Test User", Phone: "9999999999"},
	})
	if err != nil {
		t.Fatal("Failed to create order:", err)
	}

	stats, err := GetDashboardStats(db)
	if err != nil {
		t.Fatal("Failed to get dashboard stats:", err)
	}

	if stats.TotalUsers != 1 {
		t.Errorf("Expected 1 user, got %d", stats.TotalUsers)
	}
	if stats.TotalMenuItems != 1 {
		t.Errorf("Expected 1 menu item, got %d", stats.TotalMenuItems)
	}
	if stats.PendingOrders != 1 {
		t.Errorf("Expected 1 pending order, got %d", stats.PendingOrders)
	}
	if stats.TotalRevenue == 0 {
		t.Error("Expected non-zero revenue")
	}
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
