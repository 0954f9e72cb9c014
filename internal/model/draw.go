package model

type GenerateScratchCardsRequest struct {
	Day         int    `uri:"day" json:"-"`
	PrizeName   string `json:"prize_name"`
	WinnerCount int    `json:"winner_count"`
}

type GenerateScratchCardsResponse struct {
	Total   int `json:"total"`
	Winners int `json:"winners"`
}

type GetScratchCardSummaryRequest struct {
	Day int `uri:"day" form:"-"`
}

type GetScratchCardSummaryResponse struct {
	Total     int           `json:"total"`
	Scratched int           `json:"scratched"`
	Winners   int           `json:"winners"`
	Cards     []ScratchCard `json:"cards"`
}

type GetScratchCardRequest struct {
	Day int `uri:"day" form:"-"`
}

type GetScratchCardResponse struct {
	Card ScratchCard `json:"card"`
}

type ScratchCardRequest struct {
	Day int `uri:"day" json:"-"`
}

type ScratchCardResponse struct {
	Card ScratchCard `json:"card"`
}

type PreviewBonusDrawRequest struct {
	Day       int    `uri:"day" json:"-"`
	PrizeName string `json:"prize_name"`
}

type PreviewBonusDrawResponse struct {
	Winner    ShortUser `json:"winner"`
	PrizeName string    `json:"prize_name"`
	PoolSize  int       `json:"pool_size"`
}

type ConfirmBonusDrawRequest struct {
	Day       int    `uri:"day" json:"-"`
	WinnerID  string `json:"winner_id"`
	PrizeName string `json:"prize_name"`
}

type ConfirmBonusDrawResponse struct {
	Draw BonusDraw `json:"draw"`
}

type DonateBonusDrawRequest struct {
	Day int `uri:"day" json:"-"`
}

type DonateBonusDrawResponse struct {
	Draw BonusDraw `json:"draw"`
}

type GetBonusDrawRequest struct {
	Day int `uri:"day" form:"-"`
}

type GetBonusDrawResponse struct {
	Active  *BonusDraw  `json:"active,omitempty"`
	Donated []BonusDraw `json:"donated"`
}

type GetAdminBonusDrawRequest struct {
	Day int `uri:"day" form:"-"`
}

type GetAdminBonusDrawResponse struct {
	Active   *BonusDraw  `json:"active,omitempty"`
	Donated  []BonusDraw `json:"donated"`
	Eligible []ShortUser `json:"eligible"`
}
