package dto

type SearchResponse struct {
	Conversations  []*ConversationResponse `json:"conversations"`
	MessageMatches int                     `json:"message_matches"`
}

type AnalyticsOverviewResponse struct {
	TotalUsers         int64                   `json:"total_users"`
	TotalConversations int64                   `json:"total_conversations"`
	TotalMessages      int64                   `json:"total_messages"`
	TotalDocuments     int64                   `json:"total_documents"`
	TotalKnowledge     int64                   `json:"total_knowledge_documents"`
	RecentActivity     []*ConversationResponse `json:"recent_activity"`
}

type KnowledgeResult struct {
	DocumentId uint    `json:"document_id"`
	Title      string  `json:"title"`
	Excerpt    string  `json:"excerpt"`
	Score      float64 `json:"score"`
}

type KnowledgeSearchResponse struct {
	Query   string            `json:"query"`
	Results []KnowledgeResult `json:"results"`
}

type KnowledgeCountResponse struct {
	Count int64 `json:"count"`
}
