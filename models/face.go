package models

type RegisterFaceRequest struct {
	StudentID string    `json:"student_id" binding:"required"`
	Image     string    `json:"image"`
	Embedding []float64 `json:"embedding"`
}

type VerifyFaceRequest struct {
	StudentID string    `json:"student_id" binding:"required"`
	Image     string    `json:"image"`
	Embedding []float64 `json:"embedding"`
}

type VerifyFaceResponse struct {
	Success    bool    `json:"success"`
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
}

type DeleteFaceRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}
