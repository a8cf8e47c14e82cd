package knowledge

// Entry is one article in the knowledge base.
type Entry struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"keyPoints"`
	Tags      []string `json:"tags"`
}

// Match is an entry together with its relevance score for a query.
type Match struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}
