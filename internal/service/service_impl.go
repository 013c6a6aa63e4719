package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Abdulkaium775/product-recommendation-service/config"
	"github.com/Abdulkaium775/product-recommendation-service/internal/domain"
	"github.com/Abdulkaium775/product-recommendation-service/internal/dto"
	"github.com/Abdulkaium775/product-recommendation-service/internal/repository"
	"github.com/Abdulkaium775/product-recommendation-service/pkg/errs"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogServiceImpl struct {
	repo          repository.CatalogRepository
	config        config.Config
	kafkaProducer *kafka.Conn
}

func CreateCatalogService(repo repository.CatalogRepository, config config.Config, kafkaProducer *kafka.Conn) CatalogService {
	return &CatalogServiceImpl{repo: repo, config: config, kafkaProducer: kafkaProducer}
}

func (s *CatalogServiceImpl) GetProducts(ctx context.Context) (data []domain.Product, err error) {
	return s.repo.GetProducts(ctx)
}

func (s *CatalogServiceImpl) GetProductByID(ctx context.Context, id string) (product domain.Product, err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return product, errs.ErrInvalidObjectID
	}

	return s.repo.GetProductByID(ctx, productID)
}

func (s *CatalogServiceImpl) AddProduct(ctx context.Context, req dto.ProductRequest) (result dto.InsertResponse, err error) {
	if req.UserEmail == "" {
		return result, errs.ErrMissingUserEmail
	}

	doc := productDocument(req)
	doc["recommendationCount"] = int64(0)

	id, err := s.repo.AddProduct(ctx, doc)
	if err != nil {
		return
	}

	result.ID = id.Hex()
	return result, nil
}

func (s *CatalogServiceImpl) UpsertProduct(ctx context.Context, id string, req dto.ProductRequest) (result dto.UpdateResponse, err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return result, errs.ErrInvalidObjectID
	}

	fields := productDocument(req)
	if len(fields) == 0 {
		return result, errs.ErrEmptyUpdatePayload
	}

	return s.repo.UpsertProduct(ctx, productID, fields)
}

func (s *CatalogServiceImpl) DeleteProduct(ctx context.Context, id string) (result dto.DeleteResponse, err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return result, errs.ErrInvalidObjectID
	}

	// Cascade: recommendations referencing the product go with it, in the
	// same transaction, so no orphans are left behind.
	err = s.repo.HandleTrx(ctx, func(sessCtx context.Context) error {
		recsDeleted, err := s.repo.DeleteRecommendationsByQueryID(sessCtx, productID)
		if err != nil {
			return err
		}

		deleted, err := s.repo.DeleteProduct(sessCtx, productID)
		if err != nil {
			return err
		}

		result.DeletedCount = deleted
		result.RecommendationsDeleted = recsDeleted
		return nil
	})

	if err != nil {
		return dto.DeleteResponse{}, err
	}

	return result, nil
}

func (s *CatalogServiceImpl) GetRecommendationsByRecommender(ctx context.Context, email string) (data []domain.Recommendation, err error) {
	if email == "" {
		return nil, errs.ErrMissingEmail
	}

	return s.repo.GetRecommendationsByRecommender(ctx, email)
}

func (s *CatalogServiceImpl) AddRecommendation(ctx context.Context, req dto.RecommendationRequest) (result dto.InsertResponse, err error) {
	if req.QueryID == "" {
		return result, errs.ErrMissingQueryID
	}

	queryID, err := primitive.ObjectIDFromHex(req.QueryID)
	if err != nil {
		return result, errs.ErrInvalidObjectID
	}

	rec := domain.Recommendation{
		QueryID:            queryID,
		RecommenderEmail:   req.RecommenderEmail,
		BoycottingReason:   req.BoycottingReason,
		RecommendationText: req.RecommendationText,
		CreatedAt:          time.Now().UTC(),
	}

	var id primitive.ObjectID
	err = s.repo.HandleTrx(ctx, func(sessCtx context.Context) error {
		if _, err := s.repo.GetProductByID(sessCtx, queryID); err != nil {
			if err == errs.ErrNotFound {
				return errs.ErrReferencedQueryNotFound
			}
			return err
		}

		insertedID, err := s.repo.AddRecommendation(sessCtx, rec)
		if err != nil {
			return err
		}

		id = insertedID
		return s.repo.AdjustRecommendationCount(sessCtx, queryID, 1)
	})

	if err != nil {
		return
	}

	s.publishEvent("recommendation_added", dto.RecommendationEvent{
		ID:               id.Hex(),
		QueryID:          queryID.Hex(),
		RecommenderEmail: req.RecommenderEmail,
	})

	result.ID = id.Hex()
	return result, nil
}

func (s *CatalogServiceImpl) DeleteRecommendation(ctx context.Context, id string) (result dto.DeleteResponse, err error) {
	recID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return result, errs.ErrInvalidObjectID
	}

	rec, err := s.repo.GetRecommendationByID(ctx, recID)
	if err != nil {
		return
	}

	err = s.repo.HandleTrx(ctx, func(sessCtx context.Context) error {
		deleted, err := s.repo.DeleteRecommendation(sessCtx, recID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return errs.ErrNotFound
		}

		result.DeletedCount = deleted

		// The parent product may have been removed between lookup and here;
		// its counter is gone with it, nothing left to decrement.
		if err := s.repo.AdjustRecommendationCount(sessCtx, rec.QueryID, -1); err != nil && err != errs.ErrNotFound {
			return err
		}
		return nil
	})

	if err != nil {
		return dto.DeleteResponse{}, err
	}

	s.publishEvent("recommendation_removed", dto.RecommendationEvent{
		ID:               recID.Hex(),
		QueryID:          rec.QueryID.Hex(),
		RecommenderEmail: rec.RecommenderEmail,
	})

	return result, nil
}

func (s *CatalogServiceImpl) GetIncomingRecommendations(ctx context.Context, userEmail string) (data []domain.RecommendationWithProduct, err error) {
	if userEmail == "" {
		return nil, errs.ErrMissingEmail
	}

	ids, err := s.repo.GetProductIDsByOwner(ctx, userEmail)
	if err != nil {
		return
	}

	// No owned queries means no incoming recommendations; skip the
	// aggregation entirely.
	if len(ids) == 0 {
		return []domain.RecommendationWithProduct{}, nil
	}

	return s.repo.GetIncomingRecommendations(ctx, ids, userEmail)
}

// ReconcileRecommendationCounts recomputes every product's counter from the
// recommendations collection and repairs any drift. Runs on a schedule.
func (s *CatalogServiceImpl) ReconcileRecommendationCounts(ctx context.Context) {
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "ReconcileRecommendationCounts").Msg("")
		return
	}

	for _, product := range products {
		count, err := s.repo.CountRecommendationsByQueryID(ctx, product.ID)
		if err != nil {
			log.Error().Err(err).Str("component", "ReconcileRecommendationCounts").Msg("")
			continue
		}

		if count == product.RecommendationCount {
			continue
		}

		if err := s.repo.SetRecommendationCount(ctx, product.ID, count); err != nil {
			log.Error().Err(err).Str("component", "ReconcileRecommendationCounts").Msg("")
			continue
		}

		log.Info().
			Str("productId", product.ID.Hex()).
			Int64("from", product.RecommendationCount).
			Int64("to", count).
			Msg("Reconciled recommendation count")
	}
}

// productDocument flattens a request into the fields to persist. Typed fields
// win over extension-map entries with the same name.
func productDocument(req dto.ProductRequest) bson.M {
	doc := bson.M{}

	for k, v := range req.Extra {
		doc[k] = v
	}

	if req.UserEmail != "" {
		doc["userEmail"] = req.UserEmail
	}
	if req.ProductName != "" {
		doc["productName"] = req.ProductName
	}
	if req.QueryTitle != "" {
		doc["queryTitle"] = req.QueryTitle
	}

	return doc
}

func (s *CatalogServiceImpl) publishEvent(eventType string, data interface{}) {
	if s.kafkaProducer == nil {
		return
	}

	kafkaMsg := dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Error().Err(err).Str("component", "publishEvent").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err = s.writeKafkaMessage(jsonMsg)
		if err == nil {
			return
		}
		log.Error().Err(err).Str("component", "publishEvent").Msg("")
		time.Sleep(time.Second * time.Duration(i+1)) // Exponential backoff
	}

	log.Error().Err(err).Str("component", "publishEvent").Msgf("failed to write Kafka message after %d attempts", maxRetries)
}

func (s *CatalogServiceImpl) writeKafkaMessage(msg []byte) error {
	_, err := s.kafkaProducer.WriteMessages(
		kafka.Message{
			Value: msg,
		},
	)
	return err
}
