package public

import publicapp "github.com/sngm3741/review-wall/api/internal/public/application"

type reviewRequest struct {
	Name      string `json:"name"`
	Code      int    `json:"code"`
	Character int    `json:"character"`
	Sat       int    `json:"sat"`
	Text      string `json:"text"`
}

type reviewResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Code       int     `json:"code"`
	Character  int     `json:"character"`
	Sat        int     `json:"sat"`
	Text       string  `json:"text"`
	Total      float64 `json:"total"`
	TotalLabel string  `json:"totalLabel"`
	Time       int64   `json:"time"`
	CreatedAt  string  `json:"createdAt"`
	Mine       bool    `json:"mine"`
}

type summaryResponse struct {
	Count        int     `json:"count"`
	Average      float64 `json:"average"`
	AverageLabel string  `json:"averageLabel"`
	FillPercent  float64 `json:"fillPercent"`
}

type reviewListResponse struct {
	Items        []reviewResponse    `json:"items"`
	Pinned       bool                `json:"pinned"`
	State        publicapp.GateState `json:"state"`
	AdminEnabled bool                `json:"adminEnabled"`
	summaryResponse
}

type myReviewResponse struct {
	State  publicapp.GateState `json:"state"`
	Review *reviewResponse     `json:"review"`
}

type submitResponse struct {
	Status string              `json:"status"`
	State  publicapp.GateState `json:"state"`
	Review reviewResponse      `json:"review"`
}

type deleteResponse struct {
	Removed bool                `json:"removed"`
	State   publicapp.GateState `json:"state"`
}
