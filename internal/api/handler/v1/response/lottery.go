package response

type PurchaseTicketsResponse struct {
	TicketIDs []string `json:"ticketIds"`
}

type DrawWinnerResponse struct {
	OK bool `json:"ok"`
}
