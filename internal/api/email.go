package api

// swagger:model api.SendEmailRequest
type SendEmailRequest struct {
	To      string `json:"to" example:"buyer@example.com"`
	Subject string `json:"subject" example:"Hello"`
	Text    string `json:"text" example:"Thanks for shopping"`
}
