package model

type CreatePrizeRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type CreatePrizeResponse struct {
	Prize Prize `json:"prize"`
}

type GetPrizesRequest struct{}

type GetPrizesResponse struct {
	Prizes []Prize `json:"prizes"`
}

type DrawLotteryRequest struct {
	PrizeID string `json:"prize_id"`
	Count   int    `json:"count"`
}

type DrawLotteryResponse struct {
	Prize   Prize           `json:"prize"`
	Winners []LotteryTicket `json:"winners"`
}
