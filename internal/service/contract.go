package service

import (
	"context"

	"github.com/Abdulkaium775/product-recommendation-service/internal/domain"
	"github.com/Abdulkaium775/product-recommendation-service/internal/dto"
)

type CatalogService interface {
	GetProducts(ctx context.Context) (data []domain.Product, err error)
	GetProductByID(ctx context.Context, id string) (product domain.Product, err error)
	AddProduct(ctx context.Context, req dto.ProductRequest) (result dto.InsertResponse, err error)
	UpsertProduct(ctx context.Context, id string, req dto.ProductRequest) (result dto.UpdateResponse, err error)
	DeleteProduct(ctx context.Context, id string) (result dto.DeleteResponse, err error)
	GetRecommendationsByRecommender(ctx context.Context, email string) (data []domain.Recommendation, err error)
	AddRecommendation(ctx context.Context, req dto.RecommendationRequest) (result dto.InsertResponse, err error)
	DeleteRecommendation(ctx context.Context, id string) (result dto.DeleteResponse, err error)
	GetIncomingRecommendations(ctx context.Context, userEmail string) (data []domain.RecommendationWithProduct, err error)
	ReconcileRecommendationCounts(ctx context.Context)
}
