package repository

import (
	"context"

	"github.com/martijn/clientdb/internal/core/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	Update(ctx context.Context, id int64, update domain.ClientUpdate) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Client, error)

	// Find returns the ids of clients matching every provided criterion
	Find(ctx context.Context, search domain.ClientSearch) ([]int64, error)

	AddPhone(ctx context.Context, clientID int64, number string) error
	DeletePhone(ctx context.Context, clientID int64, number string) error
}

type SchemaManager interface {
	// Create drops any existing tables and recreates them empty
	Create(ctx context.Context) error
	Drop(ctx context.Context) error
	// Ensure creates missing tables without touching existing data
	Ensure(ctx context.Context) error
}
