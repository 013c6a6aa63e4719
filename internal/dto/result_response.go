package dto

type InsertResponse struct {
	ID string `json:"id"`
}

type UpdateResponse struct {
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type DeleteResponse struct {
	DeletedCount           int64 `json:"deletedCount"`
	RecommendationsDeleted int64 `json:"recommendationsDeleted,omitempty"`
}
