package entity

// ExtractionPage is one page of text returned by the extraction service
type ExtractionPage struct {
	Number int    `json:"page"`
	Text   string `json:"text"`
}

type ExtractionResponse struct {
	Pages []ExtractionPage `json:"pages"`
}

type AskRequest struct {
	Question string `json:"question"`
	Filename string `json:"filename"`
}

type AskResponse struct {
	Answer       string   `json:"answer"`
	SourceChunks []string `json:"source_chunks"`
}
