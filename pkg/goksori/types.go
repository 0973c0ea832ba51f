package goksori

// Trend is the short-term direction reported by the backend for a stock.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Sentiment is the classification of a single crawled comment.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// StockSummary is one row of the paginated stock list.
type StockSummary struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	Score       float64 `json:"score"`
	ScoreChange float64 `json:"score_change"`
	Trend       Trend   `json:"trend"`
	Grade       string  `json:"grade"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// StockPage is the response of GET /api/stocks/.
type StockPage struct {
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Size   int            `json:"size"`
	Stocks []StockSummary `json:"stocks"`
}

// Comment is a crawled discussion-board comment with its classification.
type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Likes     int       `json:"likes"`
	Source    string    `json:"source"`
	Sentiment Sentiment `json:"sentiment"`
	CrawledAt string    `json:"crawled_at,omitempty"`
}

// ScorePoint is a single day of the score history.
type ScorePoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// StockDetail is the response of GET /api/stocks/{code}.
type StockDetail struct {
	StockSummary

	PositiveCount int          `json:"positive_count"`
	NegativeCount int          `json:"negative_count"`
	NeutralCount  int          `json:"neutral_count"`
	TotalCount    int          `json:"total_count"`
	Comments      []Comment    `json:"comments"`
	ScoreHistory  []ScorePoint `json:"score_history"`
	Sources       []string     `json:"sources,omitempty"`
	DartURL       string       `json:"dart_url,omitempty"`
}

// KakaoShare is the feed template content prepared by the backend.
type KakaoShare struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	LinkURL     string `json:"link_url"`
}

// SharePayload is the response of GET /api/share/{code}.
type SharePayload struct {
	StockCode  string     `json:"stock_code"`
	Score      float64    `json:"score"`
	Grade      string     `json:"grade"`
	Emoji      string     `json:"emoji"`
	Trend      string     `json:"trend"`
	ShareText  string     `json:"share_text"`
	KakaoShare KakaoShare `json:"kakao_share"`
}

// historyResponse is the envelope of GET /api/sentiment/{code}/history.
type historyResponse struct {
	StockCode string       `json:"stock_code"`
	History   []ScorePoint `json:"history"`
}
