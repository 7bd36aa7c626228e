package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/service"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth     service.AuthService
	Requests service.RequestService
	Coach    service.CoachService
	Learner  service.LearnerService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	requestHandler := NewRequestHandler(svc.Requests)
	coachHandler := NewCoachHandler(svc.Coach)
	learnerHandler := NewLearnerHandler(svc.Learner)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			actor, ok := getActor(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": actor.UserID, "email": actor.Email, "role": actor.Role})
		})

		// Supports are readable by the owner, the assigned coach and admins.
		protected.GET("/requests/:id/supports", requestHandler.SupportDownload)

		learner := protected.Group("")
		learner.Use(RoleMiddleware(domain.RoleLearner))
		{
			learner.POST("/requests", requestHandler.Submit)
			learner.GET("/requests", requestHandler.ListMine)
			learner.POST("/requests/:id/supports", requestHandler.RequestSupportUpload)
			learner.DELETE("/requests/:id/supports", requestHandler.RemoveSupport)

			learner.GET("/campaigns", learnerHandler.ListCampaigns)
			learner.GET("/campaigns/:id", learnerHandler.GetCampaign)
			learner.GET("/campaigns/:id/current-week", learnerHandler.CurrentWeek)
			learner.POST("/campaigns/:id/activate", learnerHandler.Activate)
			learner.PUT("/campaigns/:id/weeks/:week", learnerHandler.UpdateWeek)
			learner.POST("/campaigns/:id/weeks/:week/postits", learnerHandler.AddPostIt)
		}

		coach := protected.Group("/coach")
		coach.Use(RoleMiddleware(domain.RoleCoach, domain.RoleAdmin))
		{
			coach.GET("/inbox", requestHandler.Inbox)
			coach.POST("/requests/:id/campaign", coachHandler.CreateCampaign)

			coach.GET("/campaigns", coachHandler.ListCampaigns)
			coach.GET("/campaigns/:id", coachHandler.GetCampaign)
			coach.PUT("/campaigns/:id/program", coachHandler.SaveProgram)
			coach.PUT("/campaigns/:id/messages", coachHandler.UpdateMessages)
			coach.POST("/campaigns/:id/publish", coachHandler.Publish)
			coach.POST("/campaigns/:id/draft", coachHandler.SetDraft)
			coach.PUT("/campaigns/:id/weeks/:week", coachHandler.EditWeek)
			coach.POST("/campaigns/:id/weeks/:week/close", coachHandler.CloseWeek)
			coach.POST("/campaigns/:id/close", coachHandler.CloseCampaign)
		}

		admin := protected.Group("/admin")
		admin.Use(RoleMiddleware(domain.RoleAdmin))
		{
			admin.GET("/requests", requestHandler.ListAll)
			admin.POST("/requests/:id/assign", requestHandler.AssignCoach)
			admin.GET("/coaches", requestHandler.ListCoaches)
		}
	}
}
