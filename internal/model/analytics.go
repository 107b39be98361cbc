package model

// HottestDeal identifies the deal with the highest current temperature.
type HottestDeal struct {
	DealID      int64 `json:"dealId"`
	Temperature int   `json:"temperature"`
}

// AnalyticsResponse is the API response for the analytics endpoint:
// aggregate vote counts plus the hottest deal, if any deals exist.
type AnalyticsResponse struct {
	TotalVotes  int          `json:"totalVotes"`
	HotVotes    int          `json:"hotVotes"`
	ColdVotes   int          `json:"coldVotes"`
	HottestDeal *HottestDeal `json:"hottestDeal"`
}
