package entity

type UploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

type HealthResponse struct {
	Status                      string `json:"status"`
	UploadedFiles               int    `json:"uploaded_files"`
	ActiveSessions              int    `json:"active_sessions"`
	AIServiceConfigured         bool   `json:"ai_service_configured"`
	ExtractionServiceConfigured bool   `json:"extraction_service_configured"`
	Error                       string `json:"error,omitempty"`
}
