package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"everskills/coaching-app/internal/service"
)

// LearnerHandler exposes a learner's campaigns.
type LearnerHandler struct {
	learnerService service.LearnerService
}

func NewLearnerHandler(learnerService service.LearnerService) *LearnerHandler {
	return &LearnerHandler{learnerService: learnerService}
}

func (h *LearnerHandler) ListCampaigns(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	campaigns, err := h.learnerService.ListCampaigns(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(campaigns))
}

func (h *LearnerHandler) GetCampaign(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.learnerService.GetCampaign(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Activate godoc
// @Summary Start a published program
// @Tags Learner
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} service.CampaignView
// @Failure 409 {object} gin.H "Program not ready"
// @Router /campaigns/{id}/activate [post]
func (h *LearnerHandler) Activate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.learnerService.Activate(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateWeek godoc
// @Summary Update action statuses and the learner comment of a week
// @Tags Learner
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param week path int true "Week number"
// @Param body body service.LearnerWeekUpdate true "Statuses and comment"
// @Success 200 {object} service.CampaignView
// @Failure 409 {object} gin.H "Week or campaign closed, or campaign not active"
// @Router /campaigns/{id}/weeks/{week} [put]
func (h *LearnerHandler) UpdateWeek(c *gin.Context) {
	week, ok := weekParam(c)
	if !ok {
		return
	}
	var body service.LearnerWeekUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.learnerService.UpdateWeek(c.Request.Context(), actor, c.Param("id"), week, body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *LearnerHandler) AddPostIt(c *gin.Context) {
	week, ok := weekParam(c)
	if !ok {
		return
	}
	var body service.PostItInput
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	body.Week = week
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.learnerService.AddPostIt(c.Request.Context(), actor, c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *LearnerHandler) CurrentWeek(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	week, err := h.learnerService.CurrentWeek(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current_week": week})
}
