package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendx_backend/models"
	"attendx_backend/pipeline"
)

type FaceHandler struct {
	pipe *pipeline.Pipeline
}

func NewFaceHandler(pipe *pipeline.Pipeline) *FaceHandler {
	return &FaceHandler{pipe: pipe}
}

// RegisterFace enrolls a face for a student owned by the caller's tenant.
func (h *FaceHandler) RegisterFace(c *gin.Context) {
	var req models.RegisterFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInvalidPayload))
		return
	}

	fail := h.pipe.RegisterFace(c.Request.Context(), pipeline.RegisterRequest{
		StudentID:    req.StudentID,
		Sample:       pipeline.Sample{Image: req.Image, Embedding: req.Embedding},
		CallerTenant: c.GetInt("adminID"),
	})
	if fail != nil {
		respondFailure(c, fail)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Face registered successfully"})
}

// VerifyFace is an open pre-check: it reports match and confidence but
// never records attendance.
func (h *FaceHandler) VerifyFace(c *gin.Context) {
	var req models.VerifyFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInvalidPayload))
		return
	}

	result, fail := h.pipe.VerifyFace(c.Request.Context(), req.StudentID,
		pipeline.Sample{Image: req.Image, Embedding: req.Embedding})
	if fail != nil {
		respondFailure(c, fail)
		return
	}

	c.JSON(http.StatusOK, models.VerifyFaceResponse{
		Success:    result.Matched,
		Match:      result.Matched,
		Confidence: result.Confidence,
		Message:    result.Message,
	})
}

// DeleteFace removes a student's stored embedding. Owning tenant only.
func (h *FaceHandler) DeleteFace(c *gin.Context) {
	var req models.DeleteFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInvalidPayload))
		return
	}

	if fail := h.pipe.DeleteFace(c.Request.Context(), c.GetInt("adminID"), req.StudentID); fail != nil {
		respondFailure(c, fail)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Deleted"})
}
