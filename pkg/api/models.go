package api

type PatternInfo struct {
	Key         string `json:"key"`
	Instruction string `json:"instruction"`
}

type IndexResponse struct {
	Patterns []PatternInfo `json:"patterns"`
}

type GenerateRequest struct {
	Requirement string `schema:"requirement"`
	Pattern     string `schema:"pattern"`
}

type GenerateResponse struct {
	Response string `json:"response"`
}

type LoginRequest struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
}

type RegisterRequest struct {
	Username     string `schema:"username"`
	Password     string `schema:"password"`
	Confirmation string `schema:"confirmation"`
}

// SearchRequest reuses the requirement field name the search form posts.
type SearchRequest struct {
	Requirement string `schema:"requirement"`
}

type HistoryItem struct {
	Pattern string `json:"pattern"`
	Input   string `json:"input"`
	Result  string `json:"result"`
	Time    string `json:"time"`
}

type HistoryResponse struct {
	Histories []HistoryItem `json:"histories"`
}

type SearchResponse struct {
	Results []HistoryItem `json:"results"`
}
