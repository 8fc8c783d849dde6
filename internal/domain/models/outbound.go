package models

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// AskRequest is the body of a natural-language question to the assistant.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
	UserID   string `json:"user_id"`
}

// AskResponse pairs the question with the generated answer.
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
