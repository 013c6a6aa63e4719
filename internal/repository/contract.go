package repository

import (
	"context"

	"github.com/Abdulkaium775/product-recommendation-service/internal/domain"
	"github.com/Abdulkaium775/product-recommendation-service/internal/dto"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogRepository interface {
	GetProducts(ctx context.Context) (data []domain.Product, err error)
	GetProductByID(ctx context.Context, id primitive.ObjectID) (product domain.Product, err error)
	AddProduct(ctx context.Context, doc bson.M) (id primitive.ObjectID, err error)
	UpsertProduct(ctx context.Context, id primitive.ObjectID, fields bson.M) (result dto.UpdateResponse, err error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (deleted int64, err error)
	GetProductIDsByOwner(ctx context.Context, email string) (ids []primitive.ObjectID, err error)
	SetRecommendationCount(ctx context.Context, productID primitive.ObjectID, count int64) (err error)
	AdjustRecommendationCount(ctx context.Context, productID primitive.ObjectID, delta int64) (err error)
	GetRecommendationByID(ctx context.Context, id primitive.ObjectID) (rec domain.Recommendation, err error)
	GetRecommendationsByRecommender(ctx context.Context, email string) (data []domain.Recommendation, err error)
	AddRecommendation(ctx context.Context, rec domain.Recommendation) (id primitive.ObjectID, err error)
	DeleteRecommendation(ctx context.Context, id primitive.ObjectID) (deleted int64, err error)
	DeleteRecommendationsByQueryID(ctx context.Context, queryID primitive.ObjectID) (deleted int64, err error)
	CountRecommendationsByQueryID(ctx context.Context, queryID primitive.ObjectID) (count int64, err error)
	GetIncomingRecommendations(ctx context.Context, queryIDs []primitive.ObjectID, excludeEmail string) (data []domain.RecommendationWithProduct, err error)
	HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error
}
