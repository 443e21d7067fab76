package entity

type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID string  `json:"session_id"`
	Filename  *string `json:"filename,omitempty"`
}

// ChatResult is the outcome of one successful chat turn
type ChatResult struct {
	Content   string
	Sources   []string
	SessionID string
}

type ChatResponse struct {
	Content   string   `json:"content"`
	Sources   []string `json:"sources"`
	SessionID string   `json:"session_id"`
	Success   bool     `json:"success"`
}

type StreamFragment struct {
	Content string `json:"content"`
}

type HistoryMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type HistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
