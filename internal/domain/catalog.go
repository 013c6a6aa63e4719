package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a user-submitted query that other users can attach
// recommendations to. RecommendationCount mirrors the number of live
// recommendations referencing it. Extra carries any additional fields the
// client sent; they are stored as top-level document fields.
type Product struct {
	ID                  primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserEmail           string                 `bson:"userEmail" json:"userEmail"`
	ProductName         string                 `bson:"productName,omitempty" json:"productName,omitempty"`
	QueryTitle          string                 `bson:"queryTitle,omitempty" json:"queryTitle,omitempty"`
	RecommendationCount int64                  `bson:"recommendationCount" json:"recommendationCount"`
	Extra               map[string]interface{} `bson:",inline" json:"extra,omitempty"`
}

type Recommendation struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QueryID            primitive.ObjectID `bson:"queryId" json:"queryId"`
	RecommenderEmail   string             `bson:"recommenderEmail" json:"recommenderEmail"`
	BoycottingReason   string             `bson:"boycottingReason,omitempty" json:"boycottingReason,omitempty"`
	RecommendationText string             `bson:"recommendationText,omitempty" json:"recommendationText,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

// RecommendationWithProduct is the read model produced by joining a
// recommendation to its parent product.
type RecommendationWithProduct struct {
	Recommendation `bson:",inline"`
	ProductName    string `bson:"productName,omitempty" json:"productName,omitempty"`
	QueryTitle     string `bson:"queryTitle,omitempty" json:"queryTitle,omitempty"`
}
