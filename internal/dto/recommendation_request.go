package dto

type RecommendationRequest struct {
	QueryID            string `json:"queryId"`
	RecommenderEmail   string `json:"recommenderEmail"`
	BoycottingReason   string `json:"boycottingReason"`
	RecommendationText string `json:"recommendationText"`
}
