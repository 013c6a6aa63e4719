package dto

import "encoding/json"

// ProductRequest carries the typed product fields plus an open extension map
// with whatever else the client sent. Server-managed fields are stripped so a
// payload can never smuggle its own id or recommendation count.
type ProductRequest struct {
	UserEmail   string
	ProductName string
	QueryTitle  string
	Extra       map[string]interface{}
}

var reservedProductFields = []string{"id", "_id", "recommendationCount"}

func (r *ProductRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["userEmail"].(string); ok {
		r.UserEmail = v
	}
	if v, ok := raw["productName"].(string); ok {
		r.ProductName = v
	}
	if v, ok := raw["queryTitle"].(string); ok {
		r.QueryTitle = v
	}

	delete(raw, "userEmail")
	delete(raw, "productName")
	delete(raw, "queryTitle")
	for _, field := range reservedProductFields {
		delete(raw, field)
	}

	if len(raw) > 0 {
		r.Extra = raw
	}

	return nil
}
