package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/normalization"
  "github.com/bizzdev-ai/bizzdev-backend/internal/repos"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type ProductService interface {
  CreateProduct(ctx context.Context, userID uuid.UUID, product *types.Product) (*types.Product, error)
  GetProduct(ctx context.Context, userID, productID uuid.UUID) (*types.Product, error)
  ListProducts(ctx context.Context, userID uuid.UUID) ([]*types.Product, error)
  UpdateProduct(ctx context.Context, userID, productID uuid.UUID, updates map[string]interface{}) (*types.Product, error)
  DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error
}

type productService struct {
  db          *gorm.DB
  log         *logger.Logger
  productRepo repos.ProductRepo
}

func NewProductService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo) ProductService {
  return &productService{
    db:          db,
    log:         log.With("service", "ProductService"),
    productRepo: productRepo,
  }
}

func (ps *productService) CreateProduct(ctx context.Context, userID uuid.UUID, product *types.Product) (*types.Product, error) {
  product.Name = normalization.TrimInputString(product.Name)
  if product.Name == "" {
    return nil, fmt.Errorf("product name is required")
  }
  product.ID = uuid.New()
  product.UserID = userID
  created, err := ps.productRepo.Create(ctx, nil, []*types.Product{product})
  if err != nil {
    return nil, fmt.Errorf("failed to create product: %w", err)
  }
  return created[0], nil
}

func (ps *productService) GetProduct(ctx context.Context, userID, productID uuid.UUID) (*types.Product, error) {
  products, err := ps.productRepo.GetByIDs(ctx, nil, []uuid.UUID{productID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch product: %w", err)
  }
  if len(products) == 0 || products[0].UserID != userID {
    return nil, fmt.Errorf("product not found")
  }
  return products[0], nil
}

func (ps *productService) ListProducts(ctx context.Context, userID uuid.UUID) ([]*types.Product, error) {
  return ps.productRepo.ListByUserID(ctx, nil, userID)
}

func (ps *productService) UpdateProduct(ctx context.Context, userID, productID uuid.UUID, updates map[string]interface{}) (*types.Product, error) {
  if _, err := ps.GetProduct(ctx, userID, productID); err != nil {
    return nil, err
  }
  if name, ok := updates["name"].(string); ok {
    name = normalization.TrimInputString(name)
    if name == "" {
      return nil, fmt.Errorf("product name cannot be empty")
    }
    updates["name"] = name
  }
  if err := ps.productRepo.UpdateFields(ctx, nil, productID, updates); err != nil {
    return nil, fmt.Errorf("failed to update product: %w", err)
  }
  return ps.GetProduct(ctx, userID, productID)
}

func (ps *productService) DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
  if _, err := ps.GetProduct(ctx, userID, productID); err != nil {
    return err
  }
  if err := ps.productRepo.Delete(ctx, nil, productID); err != nil {
    return fmt.Errorf("failed to delete product: %w", err)
  }
  return nil
}
