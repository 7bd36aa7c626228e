package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"everskills/coaching-app/internal/service"
)

// CoachHandler exposes campaign authoring to coaches.
type CoachHandler struct {
	coachService service.CoachService
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

type ProgramBody struct {
	ProgramText string `json:"program_text"`
}

// ProgramResponse is a campaign view plus whether saving changed the plan.
type ProgramResponse struct {
	*service.CampaignView
	WeeklySynced bool `json:"weekly_synced"`
}

// CreateCampaign godoc
// @Summary Open a draft campaign from an assigned request
// @Tags Coach
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 201 {object} service.CampaignView
// @Failure 409 {object} gin.H "Campaign already exists"
// @Router /coach/requests/{id}/campaign [post]
func (h *CoachHandler) CreateCampaign(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.coachService.CreateCampaignFromRequest(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CoachHandler) ListCampaigns(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	campaigns, err := h.coachService.ListCampaigns(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(campaigns))
}

func (h *CoachHandler) GetCampaign(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.coachService.GetCampaign(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SaveProgram godoc
// @Summary Save the program text and fill empty weeks from it
// @Tags Coach
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param body body ProgramBody true "Program text"
// @Success 200 {object} ProgramResponse
// @Router /coach/campaigns/{id}/program [put]
func (h *CoachHandler) SaveProgram(c *gin.Context) {
	var body ProgramBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, changed, err := h.coachService.SaveProgram(c.Request.Context(), actor, c.Param("id"), body.ProgramText)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgramResponse{CampaignView: view, WeeklySynced: changed})
}

func (h *CoachHandler) EditWeek(c *gin.Context) {
	week, ok := weekParam(c)
	if !ok {
		return
	}
	var body service.WeekEdit
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.coachService.EditWeek(c.Request.Context(), actor, c.Param("id"), week, body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CoachHandler) UpdateMessages(c *gin.Context) {
	var body service.MessagesEdit
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.coachService.UpdateMessages(c.Request.Context(), actor, c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CoachHandler) Publish(c *gin.Context) {
	h.transition(c, h.coachService.PublishProgram)
}

func (h *CoachHandler) CloseCampaign(c *gin.Context) {
	h.transition(c, h.coachService.CloseCampaign)
}

func (h *CoachHandler) SetDraft(c *gin.Context) {
	h.transition(c, h.coachService.SetDraft)
}

func (h *CoachHandler) CloseWeek(c *gin.Context) {
	week, ok := weekParam(c)
	if !ok {
		return
	}
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.coachService.CloseWeek(c.Request.Context(), actor, c.Param("id"), week)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type transitionFunc func(ctx context.Context, coach service.Actor, id string) (*service.CampaignView, error)

func (h *CoachHandler) transition(c *gin.Context, fn transitionFunc) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := fn(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
