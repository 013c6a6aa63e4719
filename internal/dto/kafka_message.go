package dto

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type RecommendationEvent struct {
	ID               string `json:"id"`
	QueryID          string `json:"query_id"`
	RecommenderEmail string `json:"recommender_email"`
}
