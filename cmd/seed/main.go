package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tourdesk/internal/bookings"
	"tourdesk/internal/categories"
	"tourdesk/internal/pricing"
	"tourdesk/internal/shared/config"
	"tourdesk/internal/shared/database"
	"tourdesk/internal/tours"
	"tourdesk/internal/users"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting TourDesk Database Seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Log in as admin@tourdesk.local / tourdesk-admin")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payments",
		"bookings",
		"pricing_options",
		"tours",
		"categories",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	adminID, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	categoryIDs, err := s.SeedCategories(adminID)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	seeded, err := s.SeedTours(adminID, categoryIDs)
	if err != nil {
		return fmt.Errorf("failed to seed tours: %w", err)
	}

	if err := s.SeedBookings(seeded); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	// Cached catalogue pages would otherwise point at truncated rows
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates the back office admin and one customer account
func (s *Seeder) SeedUsers() (uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	usersData := []struct {
		firstName string
		lastName  string
		email     string
		password  string
		role      users.Role
	}{
		{"Admin", "User", "admin@tourdesk.local", "tourdesk-admin", users.RoleAdmin},
		{"Casey", "Guest", "casey@example.com", "tourdesk-guest", users.RoleUser},
	}

	var adminID uuid.UUID
	for _, userData := range usersData {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
		}

		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return uuid.Nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		if user.IsAdmin() {
			adminID = user.ID
		}
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return adminID, nil
}

// SeedCategories creates storefront categories keyed by slug
func (s *Seeder) SeedCategories(adminID uuid.UUID) (map[string]uuid.UUID, error) {
	fmt.Println("  🏷️  Seeding categories...")

	categoriesData := []struct {
		name        string
		description string
		color       string
	}{
		{"Walking Tours", "Guided walks through historic quarters", "#2563EB"},
		{"Food & Drink", "Tastings, markets and cooking classes", "#F97316"},
		{"Outdoors", "Hikes, kayaking and nature trips", "#16A34A"},
		{"Day Trips", "Full-day excursions outside the city", "#9333EA"},
	}

	ids := make(map[string]uuid.UUID)
	for _, data := range categoriesData {
		category := categories.Category{
			ID:          uuid.New(),
			Name:        data.name,
			Slug:        categories.GenerateSlug(data.name),
			Description: data.description,
			Color:       data.color,
			IsActive:    true,
			CreatedBy:   &adminID,
			UpdatedBy:   &adminID,
		}
		if err := s.db.PostgreSQL.Create(&category).Error; err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", data.name, err)
		}

		ids[category.Slug] = category.ID
		fmt.Printf("    ✅ Created category: %s\n", category.Name)
	}

	return ids, nil
}

type seedOption struct {
	name          string
	price         float64
	originalPrice *float64
	description   string
}

// SeedTours creates tours with ordered pricing options
func (s *Seeder) SeedTours(adminID uuid.UUID, categoryIDs map[string]uuid.UUID) ([]tours.Tour, error) {
	fmt.Println("  🗺️  Seeding tours...")

	toursData := []struct {
		title        string
		category     string
		description  string
		location     string
		meetingPoint string
		startTime    string
		duration     int
		price        float64
		original     *float64
		options      []seedOption
		cancel       *bookings.CancellationPolicy
	}{
		{
			title:        "Old Town Walking Tour",
			category:     "walking-tours",
			description:  "Two hours through cobbled lanes, hidden courtyards and the cathedral square.",
			location:     "Old Town",
			meetingPoint: "Main Square fountain",
			startTime:    "10:00",
			duration:     120,
			price:        25,
			original:     floatPtr(30),
			options: []seedOption{
				{name: "Standard", price: 25, originalPrice: floatPtr(30), description: "Group of up to 15"},
				{name: "Small Group", price: 40, description: "Group of up to 6"},
				{name: "Private", price: 120, description: "Just your party"},
			},
		},
		{
			title:        "Street Food Evening",
			category:     "food-drink",
			description:  "Eight tastings across the night market with a local food writer.",
			location:     "Riverside Market",
			meetingPoint: "Market east gate",
			startTime:    "18:30",
			duration:     180,
			price:        55,
			options: []seedOption{
				{name: "Tasting", price: 55},
				{name: "Tasting with drinks", price: 70, originalPrice: floatPtr(80)},
			},
		},
		{
			title:        "Sunrise Kayak",
			category:     "outdoors",
			description:  "Paddle the bay at first light. All equipment included.",
			location:     "North Bay",
			meetingPoint: "Boathouse pier 2",
			startTime:    "05:45",
			duration:     150,
			price:        65,
			cancel:       &bookings.CancellationPolicy{AllowCancellation: true, WindowHours: 24, FeeType: bookings.FeeTypeFixed, FeeAmount: 10},
		},
		{
			title:        "Wine Country Day Trip",
			category:     "day-trips",
			description:  "Three estates, lunch among the vines and hotel pickup.",
			location:     "Valley Region",
			meetingPoint: "Central Station taxi rank",
			startTime:    "08:30",
			duration:     540,
			price:        140,
			original:     floatPtr(165),
			options: []seedOption{
				{name: "Shared coach", price: 140, originalPrice: floatPtr(165)},
				{name: "Private car", price: 390},
			},
			cancel: &bookings.CancellationPolicy{AllowCancellation: true, WindowHours: 48, FeeType: bookings.FeeTypePercentage, FeeAmount: 20},
		},
	}

	var created []tours.Tour
	for _, data := range toursData {
		tour := tours.Tour{
			ID:              uuid.New(),
			Title:           data.title,
			Slug:            categories.GenerateSlug(data.title),
			Description:     data.description,
			Location:        data.location,
			MeetingPoint:    data.meetingPoint,
			StartTime:       data.startTime,
			DurationMinutes: data.duration,
			BasePrice:       data.price,
			OriginalPrice:   data.original,
			IsActive:        true,
			CreatedBy:       &adminID,
			UpdatedBy:       &adminID,
		}
		if id, ok := categoryIDs[data.category]; ok {
			tour.CategoryID = &id
		}
		if data.cancel != nil {
			tour.DisallowCancellation = !data.cancel.AllowCancellation
			tour.CancellationWindowHours = data.cancel.WindowHours
			tour.CancellationFeeType = string(data.cancel.FeeType)
			tour.CancellationFeeAmount = data.cancel.FeeAmount
		}

		for i, opt := range data.options {
			tour.PricingOptions = append(tour.PricingOptions, tours.PricingOption{
				ID:            uuid.New(),
				Name:          opt.name,
				Price:         opt.price,
				OriginalPrice: opt.originalPrice,
				Description:   opt.description,
				Position:      i,
			})
		}

		// Creates the options through the association
		if err := s.db.PostgreSQL.Create(&tour).Error; err != nil {
			return nil, fmt.Errorf("failed to create tour %s: %w", data.title, err)
		}

		created = append(created, tour)
		fmt.Printf("    ✅ Created tour: %s (%d options)\n", tour.Title, len(tour.PricingOptions))
	}

	return created, nil
}

// SeedBookings spreads sample bookings over the current month so the
// dashboard calendar and stat cards have data.
func (s *Seeder) SeedBookings(seeded []tours.Tour) error {
	fmt.Println("  🎫 Seeding bookings...")

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	customers := []struct {
		name  string
		email string
	}{
		{"Ana Souza", "ana@example.com"},
		{"Ben Okafor", "ben@example.com"},
		{"Chen Wei", "chen@example.com"},
		{"Dana Levi", "dana@example.com"},
		{"Eli Novak", "eli@example.com"},
		{"Farah Haddad", "farah@example.com"},
	}

	bookingsData := []struct {
		tour     int
		option   int
		customer int
		day      int
		adults   int
		children int
		status   bookings.Status
		paid     float64
	}{
		{tour: 0, option: 0, customer: 0, day: 3, adults: 2, children: 1, status: bookings.StatusCompleted, paid: -1},
		{tour: 0, option: 2, customer: 1, day: 9, adults: 4, status: bookings.StatusConfirmed, paid: 200},
		{tour: 1, option: 1, customer: 2, day: 12, adults: 2, status: bookings.StatusConfirmed, paid: -1},
		{tour: 1, option: -1, customer: 3, day: 15, adults: 1, status: bookings.StatusPending},
		{tour: 2, option: -1, customer: 4, day: 18, adults: 2, children: 2, status: bookings.StatusCancelled},
		{tour: 3, option: 0, customer: 5, day: 22, adults: 3, status: bookings.StatusPending, paid: 100},
		{tour: 3, option: 1, customer: 0, day: 26, adults: 2, status: bookings.StatusConfirmed},
	}

	for _, data := range bookingsData {
		if data.tour >= len(seeded) {
			continue
		}
		tour := seeded[data.tour]
		customer := customers[data.customer]

		unitPrice := tour.BasePrice
		var optionID *uuid.UUID
		if data.option >= 0 && data.option < len(tour.PricingOptions) {
			opt := tour.PricingOptions[data.option]
			unitPrice = opt.Price
			optionID = &opt.ID
		}

		total, err := pricing.Total(unitPrice, data.adults, data.children)
		if err != nil {
			return fmt.Errorf("failed to price booking for %s: %w", customer.email, err)
		}

		paid := data.paid
		if paid < 0 {
			paid = total
		}
		if paid > total {
			paid = total
		}

		createdAt := monthStart.AddDate(0, 0, data.day-8)
		booking := bookings.Booking{
			ID:              uuid.New(),
			BookingRef:      bookings.GenerateReference(),
			TourID:          tour.ID,
			PricingOptionID: optionID,
			CustomerName:    customer.name,
			CustomerEmail:   customer.email,
			TourDate:        monthStart.AddDate(0, 0, data.day-1),
			Adults:          data.adults,
			Children:        data.children,
			UnitPrice:       unitPrice,
			TotalAmount:     total,
			PaidAmount:      paid,
			Status:          data.status,
			PaymentStatus:   bookings.DerivePaymentStatus(paid, total),
			CreatedAt:       createdAt,
			UpdatedAt:       createdAt,
		}
		switch data.status {
		case bookings.StatusConfirmed:
			booking.ConfirmedAt = &createdAt
		case bookings.StatusCompleted:
			booking.ConfirmedAt = &createdAt
			booking.CompletedAt = &booking.TourDate
		case bookings.StatusCancelled:
			booking.CancelledAt = &createdAt
		}

		if paid > 0 {
			booking.Payments = []bookings.Payment{{
				ID:            uuid.New(),
				Kind:          bookings.PaymentKindPayment,
				Amount:        paid,
				Currency:      "USD",
				PaymentMethod: "card",
				TransactionID: fmt.Sprintf("TXN_SEED_%s", strings.ToUpper(uuid.NewString()[:8])),
				ProcessedAt:   createdAt,
			}}
		}

		if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking for %s: %w", customer.email, err)
		}

		fmt.Printf("    ✅ Created booking: %s %s on %s (%s, %s)\n",
			booking.BookingRef, tour.Title, booking.TourDate.Format("2006-01-02"), booking.Status, booking.PaymentStatus)
	}

	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
