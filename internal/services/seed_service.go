package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
)

// SeedService backs the development-only seeding endpoints. The handlers for
// it are only registered when seeding is enabled in configuration; nothing
// here is reachable in a normal deployment.
type SeedService struct {
	userRepo repositories.UserRepository
	gameRepo repositories.GameRepository
}

// NewSeedService creates a new SeedService.
func NewSeedService(userRepo repositories.UserRepository, gameRepo repositories.GameRepository) *SeedService {
	return &SeedService{userRepo: userRepo, gameRepo: gameRepo}
}

// SeedAdmin creates the demo admin account, or resets an existing admin's
// password to the demo one.
func (s *SeedService) SeedAdmin(ctx context.Context) (string, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return "", err
	}
	for _, user := range users {
		if user.Role.IsAdmin() {
			hash, err := bcrypt.GenerateFromPassword([]byte(demoAdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return "", fmt.Errorf("failed to hash password: %w", err)
			}
			if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
				return "", err
			}
			return "Updated admin password for: " + user.Email, nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.User{
		Username:  "admin",
		FullName:  "Administrator",
		Email:     demoAdminEmail,
		Password:  string(hash),
		Role:      models.RoleAdmin,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return "", err
	}
	return "Seeded admin: " + demoAdminEmail, nil
}

// SeedCustomer creates the demo customer account if it is missing.
func (s *SeedService) SeedCustomer(ctx context.Context) (string, error) {
	if _, err := s.userRepo.GetByEmail(ctx, demoCustomerEmail); err == nil {
		return "Customer already exists: " + demoCustomerEmail, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoCustomerPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	customer := &models.User{
		Username:  "user",
		FullName:  "Demo Customer",
		Email:     demoCustomerEmail,
		Password:  string(hash),
		Role:      models.RoleCustomer,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, customer); err != nil {
		return "", err
	}
	return "Seeded customer: " + demoCustomerEmail, nil
}

// seedGame inserts the game unless one with the same title and platform
// already exists.
func (s *SeedService) seedGame(ctx context.Context, game models.Game) (bool, error) {
	_, err := s.gameRepo.GetByTitle(ctx, game.Title, game.Platform)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}
	game.CreatedAt = time.Now()
	if err := s.gameRepo.Create(ctx, &game); err != nil {
		return false, err
	}
	return true, nil
}

// SeedDemoGame inserts one demo toy item (stored in the games collection).
func (s *SeedService) SeedDemoGame(ctx context.Context) (string, error) {
	inserted, err := s.seedGame(ctx, models.Game{
		Title:       "Robot Builder Set",
		Platform:    "Limited Edition",
		Publisher:   "HappyToys",
		Developer:   "HappyToys Factory",
		Genre:       "STEM",
		Price:       199000,
		Stock:       25,
		Description: "Set rakit robot edukatif dengan 120+ komponen. Cocok untuk usia 7+.",
		ImageURL:    "https://images.unsplash.com/photo-1601758124096-1a1c90b3f3fd?w=800&q=80",
		ReleaseDate: time.Now().AddDate(0, -1, 0),
		Rating:      "7+",
	})
	if err != nil {
		return "", err
	}
	if !inserted {
		return "Demo item already exists: Robot Builder Set", nil
	}
	return "Seeded demo item: Robot Builder Set", nil
}

// SeedPCGame inserts one demo PC game.
func (s *SeedService) SeedPCGame(ctx context.Context) (string, error) {
	inserted, err := s.seedGame(ctx, models.Game{
		Title:       "Cyber Quest PC",
		Platform:    "PC",
		Publisher:   "HyperPixel",
		Developer:   "HyperPixel Studio",
		Genre:       "Action",
		Price:       249000,
		Stock:       40,
		Description: "Petualangan aksi futuristik di kota neon. Optimized for PC.",
		ImageURL:    "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=1000&q=80",
		ReleaseDate: time.Now().AddDate(0, -2, 0),
		Rating:      "12+",
	})
	if err != nil {
		return "", err
	}
	if !inserted {
		return "PC game already exists: Cyber Quest PC", nil
	}
	return "Seeded PC game: Cyber Quest PC", nil
}

// SeedMK1 inserts Mortal Kombat 1 for PS5 and PC.
func (s *SeedService) SeedMK1(ctx context.Context) (string, error) {
	release := time.Date(2023, 9, 19, 0, 0, 0, 0, time.UTC)
	items := []models.Game{
		{
			Title:       "Mortal Kombat 1",
			Platform:    "PlayStation 5",
			Publisher:   "Warner Bros.",
			Developer:   "NetherRealm Studios",
			Genre:       "Fighting",
			Price:       799000,
			Stock:       20,
			Description: "Pertarungan sinematik brutal generasi baru di PS5.",
			ImageURL:    "/img/mk1.jpg",
			ReleaseDate: release,
			Rating:      "18+",
		},
		{
			Title:       "Mortal Kombat 1",
			Platform:    "PC",
			Publisher:   "Warner Bros.",
			Developer:   "NetherRealm Studios",
			Genre:       "Fighting",
			Price:       749000,
			Stock:       30,
			Description: "Pertarungan sinematik brutal versi PC (optimized).",
			ImageURL:    "/img/mk1.jpg",
			ReleaseDate: release,
			Rating:      "18+",
		},
	}

	inserted := 0
	for _, game := range items {
		ok, err := s.seedGame(ctx, game)
		if err != nil {
			return "", err
		}
		if ok {
			inserted++
		}
	}
	return fmt.Sprintf("Seed MK1 done. Inserted: %d", inserted), nil
}

// UpdateImage points the named game at a new image path.
func (s *SeedService) UpdateImage(ctx context.Context, title, imageURL string) error {
	return s.gameRepo.UpdateImage(ctx, title, imageURL)
}
