package repository

import (
	"context"

	"github.com/Abdulkaium775/product-recommendation-service/internal/domain"
	"github.com/Abdulkaium775/product-recommendation-service/internal/dto"
	"github.com/Abdulkaium775/product-recommendation-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productCollection        = "products"
	recommendationCollection = "recommendations"
)

type MongoDBCatalogRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBRepository(db *mongo.Database) CatalogRepository {
	return &MongoDBCatalogRepositoryImpl{db: db}
}

func (r *MongoDBCatalogRepositoryImpl) GetProducts(ctx context.Context) (data []domain.Product, err error) {
	cursor, err := r.db.Collection(productCollection).Find(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBCatalogRepositoryImpl) GetProductByID(ctx context.Context, id primitive.ObjectID) (product domain.Product, err error) {
	filter := bson.D{{Key: "_id", Value: id}}

	err = r.db.Collection(productCollection).FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return product, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		return product, err
	}

	return product, nil
}

func (r *MongoDBCatalogRepositoryImpl) AddProduct(ctx context.Context, doc bson.M) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(productCollection).InsertOne(ctx, doc)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), err
}

func (r *MongoDBCatalogRepositoryImpl) UpsertProduct(ctx context.Context, id primitive.ObjectID, fields bson.M) (result dto.UpdateResponse, err error) {
	filter := bson.D{{Key: "_id", Value: id}}

	// A document created by upsert still starts its counter at zero.
	update := bson.D{
		{Key: "$set", Value: fields},
		{Key: "$setOnInsert", Value: bson.D{{Key: "recommendationCount", Value: int64(0)}}},
	}
	opts := options.Update().SetUpsert(true)

	updateResult, err := r.db.Collection(productCollection).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpsertProduct").Msg("Failed to upsert product")
		return
	}

	result.MatchedCount = updateResult.MatchedCount
	result.ModifiedCount = updateResult.ModifiedCount
	if updateResult.UpsertedID != nil {
		result.UpsertedID = updateResult.UpsertedID.(primitive.ObjectID).Hex()
	}

	return result, nil
}

func (r *MongoDBCatalogRepositoryImpl) DeleteProduct(ctx context.Context, id primitive.ObjectID) (deleted int64, err error) {
	filter := bson.D{{Key: "_id", Value: id}}

	result, err := r.db.Collection(productCollection).DeleteOne(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return
	}

	return result.DeletedCount, nil
}

func (r *MongoDBCatalogRepositoryImpl) GetProductIDsByOwner(ctx context.Context, email string) (ids []primitive.ObjectID, err error) {
	filter := bson.D{{Key: "userEmail", Value: email}}
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.db.Collection(productCollection).Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductIDsByOwner").Msg("")
		return
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductIDsByOwner").Msg("")
		return
	}

	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	return ids, nil
}

func (r *MongoDBCatalogRepositoryImpl) SetRecommendationCount(ctx context.Context, productID primitive.ObjectID, count int64) (err error) {
	filter := bson.D{{Key: "_id", Value: productID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "recommendationCount", Value: count}}}}

	result, err := r.db.Collection(productCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "SetRecommendationCount").Msg("Failed to update product")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return
}

func (r *MongoDBCatalogRepositoryImpl) AdjustRecommendationCount(ctx context.Context, productID primitive.ObjectID, delta int64) (err error) {
	filter := bson.D{{Key: "_id", Value: productID}}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "recommendationCount", Value: delta}}}}

	result, err := r.db.Collection(productCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AdjustRecommendationCount").Msg("Failed to update product")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return
}

func (r *MongoDBCatalogRepositoryImpl) GetRecommendationByID(ctx context.Context, id primitive.ObjectID) (rec domain.Recommendation, err error) {
	filter := bson.D{{Key: "_id", Value: id}}

	err = r.db.Collection(recommendationCollection).FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return rec, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetRecommendationByID").Msg("")
		return rec, err
	}

	return rec, nil
}

func (r *MongoDBCatalogRepositoryImpl) GetRecommendationsByRecommender(ctx context.Context, email string) (data []domain.Recommendation, err error) {
	filter := bson.D{{Key: "recommenderEmail", Value: email}}

	cursor, err := r.db.Collection(recommendationCollection).Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetRecommendationsByRecommender").Msg("")
		return
	}

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetRecommendationsByRecommender").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBCatalogRepositoryImpl) AddRecommendation(ctx context.Context, rec domain.Recommendation) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(recommendationCollection).InsertOne(ctx, rec)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddRecommendation").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), err
}

func (r *MongoDBCatalogRepositoryImpl) DeleteRecommendation(ctx context.Context, id primitive.ObjectID) (deleted int64, err error) {
	filter := bson.D{{Key: "_id", Value: id}}

	result, err := r.db.Collection(recommendationCollection).DeleteOne(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteRecommendation").Msg("")
		return
	}

	return result.DeletedCount, nil
}

func (r *MongoDBCatalogRepositoryImpl) DeleteRecommendationsByQueryID(ctx context.Context, queryID primitive.ObjectID) (deleted int64, err error) {
	filter := bson.D{{Key: "queryId", Value: queryID}}

	result, err := r.db.Collection(recommendationCollection).DeleteMany(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteRecommendationsByQueryID").Msg("")
		return
	}

	return result.DeletedCount, nil
}

func (r *MongoDBCatalogRepositoryImpl) CountRecommendationsByQueryID(ctx context.Context, queryID primitive.ObjectID) (count int64, err error) {
	filter := bson.D{{Key: "queryId", Value: queryID}}

	count, err = r.db.Collection(recommendationCollection).CountDocuments(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CountRecommendationsByQueryID").Msg("")
		return
	}

	return count, nil
}

func (r *MongoDBCatalogRepositoryImpl) GetIncomingRecommendations(ctx context.Context, queryIDs []primitive.ObjectID, excludeEmail string) (data []domain.RecommendationWithProduct, err error) {
	// Inner join: recommendations whose parent product is gone are dropped by
	// the $unwind stage.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "queryId", Value: bson.D{{Key: "$in", Value: queryIDs}}},
			{Key: "recommenderEmail", Value: bson.D{{Key: "$ne", Value: excludeEmail}}},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: productCollection},
			{Key: "localField", Value: "queryId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "product"},
		}}},
		bson.D{{Key: "$unwind", Value: "$product"}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "productName", Value: "$product.productName"},
			{Key: "queryTitle", Value: "$product.queryTitle"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "product", Value: 0}}}},
	}

	cursor, err := r.db.Collection(recommendationCollection).Aggregate(ctx, pipeline)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetIncomingRecommendations").Msg("")
		return
	}

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetIncomingRecommendations").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBCatalogRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		return err
	}

	// Defers ending the session after the transaction is committed or ended
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		err := fn(sessCtx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		}
		return nil, err
	})

	return err
}
