package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FoodService interface {
	GetFoodItems(ctx context.Context, category string) ([]response.FoodItemResponse, error)
	GetFoodItemByID(ctx context.Context, itemID string) (*response.FoodItemResponse, error)
	CreateFoodItem(ctx context.Context, req *request.FoodItemRequest) (*response.FoodItemResponse, error)
	UpdateFoodItem(ctx context.Context, itemID string, req *request.FoodItemUpdateRequest) (*response.FoodItemResponse, error)
	DeleteFoodItem(ctx context.Context, itemID string) error
}

type foodService struct {
	foodRepo repository.FoodItemRepository
	log      *zap.Logger
}

func NewFoodService(foodRepo repository.FoodItemRepository, log *zap.Logger) FoodService {
	return &foodService{
		foodRepo: foodRepo,
		log:      log.With(zap.String("service", "food")),
	}
}

func (s *foodService) GetFoodItems(ctx context.Context, category string) ([]response.FoodItemResponse, error) {
	switch entity.FoodCategory(category) {
	case "", entity.FoodCategorySnack, entity.FoodCategoryDrink, entity.FoodCategoryCombo, entity.FoodCategoryDessert:
	default:
		return nil, fmt.Errorf("invalid category: %s", category)
	}

	items, err := s.foodRepo.FindAll(ctx, repository.FoodItemFilter{Category: category})
	if err != nil {
		s.log.Error("Failed to get food items", zap.Error(err), zap.String("category", category))
		return nil, fmt.Errorf("get food items: %w", err)
	}

	return response.Map(items, response.FoodItemToResponse), nil
}

func (s *foodService) GetFoodItemByID(ctx context.Context, itemID string) (*response.FoodItemResponse, error) {
	id, err := parseID(itemID, "food item")
	if err != nil {
		return nil, err
	}

	item, err := s.foodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get food item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("food item not found")
	}

	resp := response.FoodItemToResponse(item)
	return &resp, nil
}

func (s *foodService) CreateFoodItem(ctx context.Context, req *request.FoodItemRequest) (*response.FoodItemResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create food item validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	now := time.Now()
	item := &entity.FoodItem{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Description: req.Description,
		Price:       utils.RoundMoney(req.Price),
		ImageURL:    req.ImageURL,
		Category:    entity.FoodCategory(req.Category),
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.foodRepo.Create(ctx, item); err != nil {
		s.log.Error("Failed to create food item", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create food item: %w", err)
	}

	s.log.Info("Food item created", zap.String("food_item_id", item.ID.String()), zap.String("name", item.Name))

	resp := response.FoodItemToResponse(item)
	return &resp, nil
}

func (s *foodService) UpdateFoodItem(ctx context.Context, itemID string, req *request.FoodItemUpdateRequest) (*response.FoodItemResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	id, err := parseID(itemID, "food item")
	if err != nil {
		return nil, err
	}

	item, err := s.foodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find food item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("food item not found")
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Price != nil {
		item.Price = utils.RoundMoney(*req.Price)
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.Category != nil {
		item.Category = entity.FoodCategory(*req.Category)
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	item.UpdatedAt = time.Now()
	if err := s.foodRepo.Update(ctx, item); err != nil {
		s.log.Error("Failed to update food item", zap.Error(err), zap.String("food_item_id", itemID))
		return nil, err
	}

	resp := response.FoodItemToResponse(item)
	return &resp, nil
}

func (s *foodService) DeleteFoodItem(ctx context.Context, itemID string) error {
	id, err := parseID(itemID, "food item")
	if err != nil {
		return err
	}

	if err := s.foodRepo.Delete(ctx, id); err != nil {
		s.log.Warn("Failed to delete food item", zap.Error(err), zap.String("food_item_id", itemID))
		return err
	}

	s.log.Info("Food item deleted", zap.String("food_item_id", itemID))
	return nil
}
