package models

// Transport shapes for the chart endpoint, shared by the server handler and the client.

type ChartRequest struct {
	Ticker       string `param:"ticker" json:"ticker" validate:"required,max=12,ticker"`
	EarningsDate string `query:"earnings_date" json:"earnings_date" validate:"required,datetime=2006-01-02"`
}

type ChartPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type ChartResponse struct {
	Ticker           string       `json:"ticker"`
	EarningsDate     string       `json:"earnings_date"`
	LatestDate       string       `json:"latest_date"`
	EarningsPrice    float64      `json:"earnings_price"`
	LatestPrice      float64      `json:"latest_price"`
	PriceChangePct   *float64     `json:"price_change_pct"`
	NextDayChangePct *float64     `json:"next_day_change_pct"`
	MinPrice         float64      `json:"min_price"`
	MaxPrice         float64      `json:"max_price"`
	PriceRange       float64      `json:"price_range"`
	Data             []ChartPoint `json:"data"`
}

// ErrorResponse is the body of every non-2xx chart response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ChartServedEvent is published after a chart response is produced.
type ChartServedEvent struct {
	Ticker        string `json:"ticker"`
	RequestedDate string `json:"requested_date"`
	EarningsDate  string `json:"earnings_date"`
	LatestDate    string `json:"latest_date"`
	Points        int    `json:"points"`
	CacheHit      bool   `json:"cache_hit"`
	ServedAt      int64  `json:"served_at"`
}
