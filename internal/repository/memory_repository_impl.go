package repository

import (
	"context"
	"sync"

	"github.com/Abdulkaium775/product-recommendation-service/internal/domain"
	"github.com/Abdulkaium775/product-recommendation-service/internal/dto"
	"github.com/Abdulkaium775/product-recommendation-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCatalogRepositoryImpl is an in-memory CatalogRepository used as a
// test double. Transactions degrade to plain sequential execution.
type MemoryCatalogRepositoryImpl struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]domain.Product
	recs     map[primitive.ObjectID]domain.Recommendation
}

func CreateNewMemoryRepository() *MemoryCatalogRepositoryImpl {
	return &MemoryCatalogRepositoryImpl{
		products: make(map[primitive.ObjectID]domain.Product),
		recs:     make(map[primitive.ObjectID]domain.Recommendation),
	}
}

func (r *MemoryCatalogRepositoryImpl) GetProducts(ctx context.Context) (data []domain.Product, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, product := range r.products {
		data = append(data, product)
	}

	return data, nil
}

func (r *MemoryCatalogRepositoryImpl) GetProductByID(ctx context.Context, id primitive.ObjectID) (product domain.Product, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return product, errs.ErrNotFound
	}

	return product, nil
}

func (r *MemoryCatalogRepositoryImpl) AddProduct(ctx context.Context, doc bson.M) (id primitive.ObjectID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = primitive.NewObjectID()
	product := domain.Product{ID: id}

	if v, ok := doc["userEmail"].(string); ok {
		product.UserEmail = v
	}
	if v, ok := doc["productName"].(string); ok {
		product.ProductName = v
	}
	if v, ok := doc["queryTitle"].(string); ok {
		product.QueryTitle = v
	}
	if v, ok := doc["recommendationCount"].(int64); ok {
		product.RecommendationCount = v
	}

	extra := make(map[string]interface{})
	for k, v := range doc {
		switch k {
		case "userEmail", "productName", "queryTitle", "recommendationCount":
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		product.Extra = extra
	}

	r.products[id] = product
	return id, nil
}

func (r *MemoryCatalogRepositoryImpl) UpsertProduct(ctx context.Context, id primitive.ObjectID, fields bson.M) (result dto.UpdateResponse, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		product = domain.Product{ID: id}
		result.UpsertedID = id.Hex()
	} else {
		result.MatchedCount = 1
		result.ModifiedCount = 1
	}

	if v, ok := fields["userEmail"].(string); ok {
		product.UserEmail = v
	}
	if v, ok := fields["productName"].(string); ok {
		product.ProductName = v
	}
	if v, ok := fields["queryTitle"].(string); ok {
		product.QueryTitle = v
	}

	r.products[id] = product
	return result, nil
}

func (r *MemoryCatalogRepositoryImpl) DeleteProduct(ctx context.Context, id primitive.ObjectID) (deleted int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; ok {
		delete(r.products, id)
		deleted = 1
	}

	return deleted, nil
}

func (r *MemoryCatalogRepositoryImpl) GetProductIDsByOwner(ctx context.Context, email string) (ids []primitive.ObjectID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, product := range r.products {
		if product.UserEmail == email {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func (r *MemoryCatalogRepositoryImpl) SetRecommendationCount(ctx context.Context, productID primitive.ObjectID, count int64) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return errs.ErrNotFound
	}

	product.RecommendationCount = count
	r.products[productID] = product
	return nil
}

func (r *MemoryCatalogRepositoryImpl) AdjustRecommendationCount(ctx context.Context, productID primitive.ObjectID, delta int64) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return errs.ErrNotFound
	}

	product.RecommendationCount += delta
	r.products[productID] = product
	return nil
}

func (r *MemoryCatalogRepositoryImpl) GetRecommendationByID(ctx context.Context, id primitive.ObjectID) (rec domain.Recommendation, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.recs[id]
	if !ok {
		return rec, errs.ErrNotFound
	}

	return rec, nil
}

func (r *MemoryCatalogRepositoryImpl) GetRecommendationsByRecommender(ctx context.Context, email string) (data []domain.Recommendation, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.recs {
		if rec.RecommenderEmail == email {
			data = append(data, rec)
		}
	}

	return data, nil
}

func (r *MemoryCatalogRepositoryImpl) AddRecommendation(ctx context.Context, rec domain.Recommendation) (id primitive.ObjectID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = primitive.NewObjectID()
	rec.ID = id
	r.recs[id] = rec
	return id, nil
}

func (r *MemoryCatalogRepositoryImpl) DeleteRecommendation(ctx context.Context, id primitive.ObjectID) (deleted int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recs[id]; ok {
		delete(r.recs, id)
		deleted = 1
	}

	return deleted, nil
}

func (r *MemoryCatalogRepositoryImpl) DeleteRecommendationsByQueryID(ctx context.Context, queryID primitive.ObjectID) (deleted int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rec := range r.recs {
		if rec.QueryID == queryID {
			delete(r.recs, id)
			deleted++
		}
	}

	return deleted, nil
}

func (r *MemoryCatalogRepositoryImpl) CountRecommendationsByQueryID(ctx context.Context, queryID primitive.ObjectID) (count int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.recs {
		if rec.QueryID == queryID {
			count++
		}
	}

	return count, nil
}

func (r *MemoryCatalogRepositoryImpl) GetIncomingRecommendations(ctx context.Context, queryIDs []primitive.ObjectID, excludeEmail string) (data []domain.RecommendationWithProduct, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[primitive.ObjectID]bool, len(queryIDs))
	for _, id := range queryIDs {
		wanted[id] = true
	}

	for _, rec := range r.recs {
		if !wanted[rec.QueryID] || rec.RecommenderEmail == excludeEmail {
			continue
		}

		product, ok := r.products[rec.QueryID]
		if !ok {
			// inner-join semantics: orphans are dropped
			continue
		}

		data = append(data, domain.RecommendationWithProduct{
			Recommendation: rec,
			ProductName:    product.ProductName,
			QueryTitle:     product.QueryTitle,
		})
	}

	return data, nil
}

func (r *MemoryCatalogRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
