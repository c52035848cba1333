package dto

type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type InsightsResponse struct {
	Insights []Insight `json:"insights"`
}
