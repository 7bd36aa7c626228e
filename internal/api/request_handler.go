package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"everskills/coaching-app/internal/service"
)

// RequestHandler serves learner requests to learners, coaches and admins.
type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

type SubmitRequestBody struct {
	Objective string `json:"objective" binding:"required"`
	Context   string `json:"context"`
	Weeks     int    `json:"weeks" binding:"omitempty,min=1,max=52"`
}

type SupportUploadBody struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

type AssignCoachBody struct {
	CoachEmail string `json:"coach_email" binding:"required,email"`
}

// Submit godoc
// @Summary Submit a coaching request
// @Tags Learner
// @Security BearerAuth
// @Param request body SubmitRequestBody true "Objective and duration"
// @Success 201 {object} domain.Request
// @Router /requests [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	var body SubmitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	req, err := h.requestService.Submit(c.Request.Context(), actor, service.SubmitRequestInput{
		Objective: body.Objective,
		Context:   body.Context,
		Weeks:     body.Weeks,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// ListMine returns the authenticated learner's requests.
func (h *RequestHandler) ListMine(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	reqs, err := h.requestService.ListMine(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(reqs))
}

// RequestSupportUpload godoc
// @Summary Get a presigned URL to upload a support document
// @Tags Learner
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param body body SupportUploadBody true "File details"
// @Success 200 {object} service.SupportUpload
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /requests/{id}/supports [post]
func (h *RequestHandler) RequestSupportUpload(c *gin.Context) {
	var body SupportUploadBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	up, err := h.requestService.RequestSupportUploadURL(c.Request.Context(), actor, c.Param("id"), body.FileName, body.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

// SupportDownload returns a presigned GET URL for ?key=<object key>.
func (h *RequestHandler) SupportDownload(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'key' is required")
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	url, err := h.requestService.SupportDownloadURL(c.Request.Context(), actor, c.Param("id"), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}

// RemoveSupport deletes the support document ?key=<object key> of a request.
func (h *RequestHandler) RemoveSupport(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'key' is required")
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	req, err := h.requestService.RemoveSupport(c.Request.Context(), actor, c.Param("id"), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Inbox lists the requests assigned to the authenticated coach.
func (h *RequestHandler) Inbox(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	reqs, err := h.requestService.ListInbox(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(reqs))
}

// ListAll lists every request (admin).
func (h *RequestHandler) ListAll(c *gin.Context) {
	reqs, err := h.requestService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(reqs))
}

// ListCoaches lists the coach accounts an admin can assign.
func (h *RequestHandler) ListCoaches(c *gin.Context) {
	coaches, err := h.requestService.ListCoaches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]UserResponse, 0, len(coaches))
	for i := range coaches {
		resp = append(resp, MapUserToResponse(&coaches[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// AssignCoach godoc
// @Summary Assign a coach to a request
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param body body AssignCoachBody true "Coach email"
// @Success 200 {object} domain.Request
// @Router /admin/requests/{id}/assign [post]
func (h *RequestHandler) AssignCoach(c *gin.Context) {
	var body AssignCoachBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	req, err := h.requestService.AssignCoach(c.Request.Context(), actor, c.Param("id"), body.CoachEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

