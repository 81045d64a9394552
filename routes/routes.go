package routes

import (
	"time"

	"meetsync/handlers"
	"meetsync/middleware"
	"meetsync/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options carries the settings the global middleware needs.
type Options struct {
	AllowedOrigins    []string
	MaxRequestsPerMin int
	Logger            *zap.Logger
}

// RegisterUserRoutes registers attendee and schedule endpoints.
func RegisterUserRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api := r.Group("/users")
	{
		api.POST("", hb.AddUserHandler)

		api.PATCH("/selected", hb.UpdateSelectedUserHandler)
		api.GET("/selected/schedule", hb.GetScheduleHandler)
		api.PUT("/selected/schedule", hb.SaveScheduleHandler)
		api.POST("/selected/calendar", hb.ImportCalendarHandler)

		api.POST("/:id/select", hb.SelectUserHandler)
		api.DELETE("/:id", hb.DeleteUserHandler)
	}
}

// RegisterSubmissionRoutes registers the solver endpoints.
func RegisterSubmissionRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	r.POST("/submit", hb.SubmitHandler)
	r.POST("/submit/async", hb.SubmitAsyncHandler)
	r.GET("/results/latest", hb.LatestHandler)
	r.GET("/results/export", hb.ExportReportHandler)
}

// RegisterTransferRoutes registers the users file endpoints.
func RegisterTransferRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	r.GET("/transfer/users", hb.ExportUsersHandler)
	r.POST("/transfer/users", hb.ImportUsersHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(utils.ErrorHandler())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	r.GET("/ws", hb.EventsHandler)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(opts.MaxRequestsPerMin, logger))
	{
		api.GET("/state", hb.GetStateHandler)
		api.PUT("/settings/meeting-length", hb.SetMeetingLengthHandler)
		RegisterUserRoutes(api, hb)
		RegisterSubmissionRoutes(api, hb)
		RegisterTransferRoutes(api, hb)
	}
}
