// Package seed loads sample theaters, movies, food items and payment methods.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var sampleData []byte

type Data struct {
	PaymentMethods []PaymentMethod `yaml:"payment_methods"`
	Theaters       []Theater       `yaml:"theaters"`
	Movies         []Movie         `yaml:"movies"`
	FoodItems      []FoodItem      `yaml:"food_items"`
}

type PaymentMethod struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Active bool   `yaml:"active"`
}

type Theater struct {
	Name      string   `yaml:"name"`
	Address   string   `yaml:"address"`
	Latitude  float64  `yaml:"latitude"`
	Longitude float64  `yaml:"longitude"`
	Amenities []string `yaml:"amenities"`
}

type Movie struct {
	Title             string `yaml:"title"`
	Description       string `yaml:"description"`
	ImageURL          string `yaml:"image_url"`
	DurationInMinutes int    `yaml:"duration_in_minutes"`
	ReleaseDate       string `yaml:"release_date"`
	ReleaseStatus     string `yaml:"release_status"`
}

type FoodItem struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
	ImageURL    string  `yaml:"image_url"`
}

// Admin is the optional bootstrap account.
type Admin struct {
	Email    string
	Password string
}

// Parse decodes seed data and rejects unknown fields.
func Parse(raw []byte) (*Data, error) {
	var data Data
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

// Default returns the embedded sample data.
func Default() (*Data, error) {
	return Parse(sampleData)
}

type Seeder struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewSeeder(repo *repository.Repository, log *zap.Logger) *Seeder {
	return &Seeder{
		repo: repo,
		log:  log.With(zap.String("component", "seed")),
		now:  time.Now,
	}
}

// PaymentMethods upserts every payment method. It runs on each start so the
// checkout always has its methods even when sample data is disabled.
func (s *Seeder) PaymentMethods(ctx context.Context, data *Data) error {
	now := s.now()
	for _, pm := range data.PaymentMethods {
		method := &entity.PaymentMethod{
			BaseNoDelete: entity.NewBaseNoDelete(now),
			Code:         pm.Code,
			Name:         pm.Name,
			IsActive:     pm.Active,
		}
		if err := s.repo.PaymentMethod.Upsert(ctx, method); err != nil {
			return fmt.Errorf("seed payment method %s: %w", pm.Code, err)
		}
	}
	s.log.Info("Payment methods seeded", zap.Int("count", len(data.PaymentMethods)))
	return nil
}

// Catalog inserts theaters, movies and food items into empty tables.
// Tables that already hold rows are left alone.
func (s *Seeder) Catalog(ctx context.Context, data *Data) error {
	if err := s.theaters(ctx, data.Theaters); err != nil {
		return err
	}
	if err := s.movies(ctx, data.Movies); err != nil {
		return err
	}
	return s.foodItems(ctx, data.FoodItems)
}

func (s *Seeder) theaters(ctx context.Context, theaters []Theater) error {
	existing, err := s.repo.Theater.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("seed theaters: %w", err)
	}
	if len(existing) > 0 {
		s.log.Debug("Theaters already present, skipping", zap.Int("count", len(existing)))
		return nil
	}

	now := s.now()
	for _, t := range theaters {
		theater := &entity.Theater{
			Base:      entity.NewBase(now),
			Name:      t.Name,
			Address:   t.Address,
			Latitude:  t.Latitude,
			Longitude: t.Longitude,
			Amenities: t.Amenities,
		}
		if err := s.repo.Theater.Create(ctx, theater); err != nil {
			return fmt.Errorf("seed theater %s: %w", t.Name, err)
		}
	}
	s.log.Info("Theaters seeded", zap.Int("count", len(theaters)))
	return nil
}

func (s *Seeder) movies(ctx context.Context, movies []Movie) error {
	count, err := s.repo.Movie.CountAll(ctx, repository.MovieFilter{})
	if err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}
	if count > 0 {
		s.log.Debug("Movies already present, skipping", zap.Int64("count", count))
		return nil
	}

	now := s.now()
	for _, m := range movies {
		releaseDate, err := time.Parse(time.DateOnly, m.ReleaseDate)
		if err != nil {
			return fmt.Errorf("seed movie %s: invalid release_date: %w", m.Title, err)
		}
		movie := &entity.Movie{
			Base:              entity.NewBase(now),
			Title:             m.Title,
			Description:       optional(m.Description),
			ImageURL:          optional(m.ImageURL),
			DurationInMinutes: m.DurationInMinutes,
			ReleaseDate:       releaseDate,
			ReleaseStatus:     entity.ReleaseStatus(m.ReleaseStatus),
		}
		if err := s.repo.Movie.Create(ctx, movie); err != nil {
			return fmt.Errorf("seed movie %s: %w", m.Title, err)
		}
	}
	s.log.Info("Movies seeded", zap.Int("count", len(movies)))
	return nil
}

func (s *Seeder) foodItems(ctx context.Context, items []FoodItem) error {
	existing, err := s.repo.FoodItem.FindAll(ctx, repository.FoodItemFilter{})
	if err != nil {
		return fmt.Errorf("seed food items: %w", err)
	}
	if len(existing) > 0 {
		s.log.Debug("Food items already present, skipping", zap.Int("count", len(existing)))
		return nil
	}

	now := s.now()
	for _, f := range items {
		item := &entity.FoodItem{
			Base:        entity.NewBase(now),
			Name:        f.Name,
			Description: optional(f.Description),
			Price:       utils.RoundMoney(f.Price),
			ImageURL:    optional(f.ImageURL),
			Category:    entity.FoodCategory(f.Category),
			IsAvailable: true,
		}
		if err := s.repo.FoodItem.Create(ctx, item); err != nil {
			return fmt.Errorf("seed food item %s: %w", f.Name, err)
		}
	}
	s.log.Info("Food items seeded", zap.Int("count", len(items)))
	return nil
}

// AdminAccount creates the bootstrap admin when no user owns the email yet.
func (s *Seeder) AdminAccount(ctx context.Context, admin Admin) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}

	existing, err := s.repo.User.FindByEmail(ctx, admin.Email)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("seed admin: hash password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		Base:          entity.NewBase(now),
		Username:      "admin",
		Email:         admin.Email,
		PasswordHash:  hash,
		Roles:         []string{string(entity.RoleCustomer), string(entity.RoleStaff), string(entity.RoleAdmin)},
		EmailVerified: true,
		IsActive:      true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info("Admin account created", zap.String("email", admin.Email))
	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
