package items

import (
	"context"
	"fmt"
)

// Service wraps item business rules on top of the owner-scoped repository.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the owner's items, optionally sliced by page/per.
func (s *Service) List(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	return s.repo.ListByOwner(ctx, req)
}

// Get fetches a single item scoped to its owner.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Item, error) {
	return s.repo.GetOwned(ctx, ownerID, id)
}

// Create persists a new item for the owner. Done defaults to false unless
// the request sets it.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateItemRequest) (*Item, error) {
	item, err := s.repo.Create(ctx, Item{
		Name:        req.Name,
		Description: req.Description,
		Done:        req.Done,
		UserID:      ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("items: create: %w", err)
	}
	return item, nil
}

// Update applies the provided fields to an owned item and returns the result.
func (s *Service) Update(ctx context.Context, ownerID, id int64, req UpdateItemRequest) (*Item, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Done != nil {
		updates["done"] = *req.Done
	}

	if len(updates) == 0 {
		return s.repo.GetOwned(ctx, ownerID, id)
	}

	if err := s.repo.Update(ctx, ownerID, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetOwned(ctx, ownerID, id)
}

// Delete removes an owned item.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	return s.repo.Delete(ctx, ownerID, id)
}
