package service

import (
	"context"
	"testing"

	"github.com/Abdulkaium775/product-recommendation-service/config"
	"github.com/Abdulkaium775/product-recommendation-service/internal/domain"
	"github.com/Abdulkaium775/product-recommendation-service/internal/dto"
	"github.com/Abdulkaium775/product-recommendation-service/internal/repository"
	"github.com/Abdulkaium775/product-recommendation-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestService() (CatalogService, *repository.MemoryCatalogRepositoryImpl) {
	repo := repository.CreateNewMemoryRepository()
	svc := CreateCatalogService(repo, config.Config{}, nil)
	return svc, repo
}

func createProduct(t *testing.T, svc CatalogService, req dto.ProductRequest) string {
	t.Helper()
	result, err := svc.AddProduct(context.Background(), req)
	require.NoError(t, err)
	return result.ID
}

func Test_AddProduct(t *testing.T) {
	testCases := []struct {
		Name        string
		Request     dto.ProductRequest
		ExpectedErr error
	}{
		{
			Name:    "Valid request",
			Request: dto.ProductRequest{UserEmail: "a@x.com", ProductName: "Widget"},
		},
		{
			Name:        "Missing userEmail",
			Request:     dto.ProductRequest{ProductName: "Widget"},
			ExpectedErr: errs.ErrMissingUserEmail,
		},
		{
			Name: "Caller-supplied recommendationCount is ignored",
			Request: dto.ProductRequest{
				UserEmail: "a@x.com",
				Extra:     map[string]interface{}{"recommendationCount": int64(99)},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			svc, _ := newTestService()

			result, err := svc.AddProduct(context.Background(), tc.Request)
			if tc.ExpectedErr != nil {
				assert.ErrorIs(t, err, tc.ExpectedErr)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, result.ID)

			product, err := svc.GetProductByID(context.Background(), result.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.Request.UserEmail, product.UserEmail)
			assert.Equal(t, tc.Request.ProductName, product.ProductName)
			assert.Equal(t, int64(0), product.RecommendationCount)
		})
	}
}

func Test_GetProductByID(t *testing.T) {
	svc, _ := newTestService()

	id := createProduct(t, svc, dto.ProductRequest{UserEmail: "a@x.com", ProductName: "Widget", QueryTitle: "ethical?"})

	t.Run("Roundtrip", func(t *testing.T) {
		product, err := svc.GetProductByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", product.UserEmail)
		assert.Equal(t, "Widget", product.ProductName)
		assert.Equal(t, "ethical?", product.QueryTitle)
	})

	t.Run("Malformed id is rejected before the store", func(t *testing.T) {
		_, err := svc.GetProductByID(context.Background(), "not-a-valid-id")
		assert.ErrorIs(t, err, errs.ErrInvalidObjectID)
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := svc.GetProductByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func Test_UpsertProduct(t *testing.T) {
	svc, _ := newTestService()

	id := createProduct(t, svc, dto.ProductRequest{UserEmail: "a@x.com", ProductName: "Widget"})

	t.Run("Malformed id", func(t *testing.T) {
		_, err := svc.UpsertProduct(context.Background(), "nope", dto.ProductRequest{ProductName: "Gadget"})
		assert.ErrorIs(t, err, errs.ErrInvalidObjectID)
	})

	t.Run("Empty payload", func(t *testing.T) {
		_, err := svc.UpsertProduct(context.Background(), id, dto.ProductRequest{})
		assert.ErrorIs(t, err, errs.ErrEmptyUpdatePayload)
	})

	t.Run("Merges fields into existing document", func(t *testing.T) {
		result, err := svc.UpsertProduct(context.Background(), id, dto.ProductRequest{ProductName: "Gadget"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.MatchedCount)

		product, err := svc.GetProductByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Gadget", product.ProductName)
		assert.Equal(t, "a@x.com", product.UserEmail)
	})

	t.Run("Creates a document when none matches", func(t *testing.T) {
		newID := primitive.NewObjectID().Hex()
		result, err := svc.UpsertProduct(context.Background(), newID, dto.ProductRequest{UserEmail: "b@x.com"})
		require.NoError(t, err)
		assert.Equal(t, newID, result.UpsertedID)

		product, err := svc.GetProductByID(context.Background(), newID)
		require.NoError(t, err)
		assert.Equal(t, "b@x.com", product.UserEmail)
		assert.Equal(t, int64(0), product.RecommendationCount)
	})
}

func Test_AddRecommendation(t *testing.T) {
	svc, _ := newTestService()

	productID := createProduct(t, svc, dto.ProductRequest{UserEmail: "a@x.com", ProductName: "Widget"})

	testCases := []struct {
		Name        string
		Request     dto.RecommendationRequest
		ExpectedErr error
	}{
		{
			Name:        "Missing queryId",
			Request:     dto.RecommendationRequest{RecommenderEmail: "b@x.com"},
			ExpectedErr: errs.ErrMissingQueryID,
		},
		{
			Name:        "Malformed queryId",
			Request:     dto.RecommendationRequest{QueryID: "garbage", RecommenderEmail: "b@x.com"},
			ExpectedErr: errs.ErrInvalidObjectID,
		},
		{
			Name:        "Referenced query does not exist",
			Request:     dto.RecommendationRequest{QueryID: primitive.NewObjectID().Hex(), RecommenderEmail: "b@x.com"},
			ExpectedErr: errs.ErrReferencedQueryNotFound,
		},
		{
			Name: "Valid request",
			Request: dto.RecommendationRequest{
				QueryID:            productID,
				RecommenderEmail:   "b@x.com",
				RecommendationText: "avoid",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			result, err := svc.AddRecommendation(context.Background(), tc.Request)
			if tc.ExpectedErr != nil {
				assert.ErrorIs(t, err, tc.ExpectedErr)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, result.ID)
		})
	}

	product, err := svc.GetProductByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.RecommendationCount)
}

func Test_DeleteRecommendation(t *testing.T) {
	svc, _ := newTestService()

	productID := createProduct(t, svc, dto.ProductRequest{UserEmail: "a@x.com"})

	inserted, err := svc.AddRecommendation(context.Background(), dto.RecommendationRequest{
		QueryID:          productID,
		RecommenderEmail: "b@x.com",
	})
	require.NoError(t, err)

	t.Run("Malformed id", func(t *testing.T) {
		_, err := svc.DeleteRecommendation(context.Background(), "nope")
		assert.ErrorIs(t, err, errs.ErrInvalidObjectID)
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := svc.DeleteRecommendation(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("Deletes and decrements the counter", func(t *testing.T) {
		result, err := svc.DeleteRecommendation(context.Background(), inserted.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.DeletedCount)

		product, err := svc.GetProductByID(context.Background(), productID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), product.RecommendationCount)
	})
}

func Test_DeleteProduct(t *testing.T) {
	svc, repo := newTestService()

	productID := createProduct(t, svc, dto.ProductRequest{UserEmail: "a@x.com"})

	_, err := svc.AddRecommendation(context.Background(), dto.RecommendationRequest{
		QueryID:          productID,
		RecommenderEmail: "b@x.com",
	})
	require.NoError(t, err)

	t.Run("Malformed id", func(t *testing.T) {
		_, err := svc.DeleteProduct(context.Background(), "nope")
		assert.ErrorIs(t, err, errs.ErrInvalidObjectID)
	})

	t.Run("Cascades to referencing recommendations", func(t *testing.T) {
		result, err := svc.DeleteProduct(context.Background(), productID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.DeletedCount)
		assert.Equal(t, int64(1), result.RecommendationsDeleted)

		queryID, err := primitive.ObjectIDFromHex(productID)
		require.NoError(t, err)
		count, err := repo.CountRecommendationsByQueryID(context.Background(), queryID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func Test_GetRecommendationsByRecommender(t *testing.T) {
	svc, _ := newTestService()

	productID := createProduct(t, svc, dto.ProductRequest{UserEmail: "a@x.com"})

	_, err := svc.AddRecommendation(context.Background(), dto.RecommendationRequest{QueryID: productID, RecommenderEmail: "b@x.com"})
	require.NoError(t, err)
	_, err = svc.AddRecommendation(context.Background(), dto.RecommendationRequest{QueryID: productID, RecommenderEmail: "c@x.com"})
	require.NoError(t, err)

	t.Run("Missing email", func(t *testing.T) {
		_, err := svc.GetRecommendationsByRecommender(context.Background(), "")
		assert.ErrorIs(t, err, errs.ErrMissingEmail)
	})

	t.Run("Filters on recommenderEmail", func(t *testing.T) {
		data, err := svc.GetRecommendationsByRecommender(context.Background(), "b@x.com")
		require.NoError(t, err)
		require.Len(t, data, 1)
		assert.Equal(t, "b@x.com", data[0].RecommenderEmail)
	})
}

// spyRepo records whether the incoming-recommendations aggregation ran.
type spyRepo struct {
	repository.CatalogRepository
	incomingQueried bool
}

func (r *spyRepo) GetIncomingRecommendations(ctx context.Context, queryIDs []primitive.ObjectID, excludeEmail string) ([]domain.RecommendationWithProduct, error) {
	r.incomingQueried = true
	return r.CatalogRepository.GetIncomingRecommendations(ctx, queryIDs, excludeEmail)
}

func Test_GetIncomingRecommendations(t *testing.T) {
	t.Run("Missing email", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.GetIncomingRecommendations(context.Background(), "")
		assert.ErrorIs(t, err, errs.ErrMissingEmail)
	})

	t.Run("Short-circuits when the user owns no queries", func(t *testing.T) {
		spy := &spyRepo{CatalogRepository: repository.CreateNewMemoryRepository()}
		svc := CreateCatalogService(spy, config.Config{}, nil)

		data, err := svc.GetIncomingRecommendations(context.Background(), "nobody@x.com")
		require.NoError(t, err)
		assert.Empty(t, data)
		assert.False(t, spy.incomingQueried)
	})

	t.Run("Excludes self-recommendations and joins product fields", func(t *testing.T) {
		spy := &spyRepo{CatalogRepository: repository.CreateNewMemoryRepository()}
		svc := CreateCatalogService(spy, config.Config{}, nil)

		productID := createProduct(t, svc, dto.ProductRequest{UserEmail: "a@x.com", ProductName: "Widget"})

		_, err := svc.AddRecommendation(context.Background(), dto.RecommendationRequest{
			QueryID:            productID,
			RecommenderEmail:   "b@x.com",
			RecommendationText: "avoid",
		})
		require.NoError(t, err)

		// The owner recommending on their own query must not show up.
		_, err = svc.AddRecommendation(context.Background(), dto.RecommendationRequest{
			QueryID:          productID,
			RecommenderEmail: "a@x.com",
		})
		require.NoError(t, err)

		data, err := svc.GetIncomingRecommendations(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.True(t, spy.incomingQueried)
		require.Len(t, data, 1)
		assert.Equal(t, "b@x.com", data[0].RecommenderEmail)
		assert.Equal(t, "Widget", data[0].ProductName)
		assert.False(t, data[0].CreatedAt.IsZero())
	})
}

func Test_ReconcileRecommendationCounts(t *testing.T) {
	svc, repo := newTestService()

	productID := createProduct(t, svc, dto.ProductRequest{UserEmail: "a@x.com"})
	queryID, err := primitive.ObjectIDFromHex(productID)
	require.NoError(t, err)

	// Out-of-band insert leaves the counter behind the truth.
	_, err = repo.AddRecommendation(context.Background(), domain.Recommendation{
		QueryID:          queryID,
		RecommenderEmail: "b@x.com",
	})
	require.NoError(t, err)

	product, err := svc.GetProductByID(context.Background(), productID)
	require.NoError(t, err)
	require.Equal(t, int64(0), product.RecommendationCount)

	svc.ReconcileRecommendationCounts(context.Background())

	product, err = svc.GetProductByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.RecommendationCount)
}
