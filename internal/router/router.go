package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/activityhub/backend/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Registration *apiHandler.RegistrationHandler
	Activity     *apiHandler.ActivityHandler
	Donation     *apiHandler.DonationHandler
	Task         *apiHandler.TaskHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)

	// Registration
	r.POST("/api/v1/users/register", authMiddleware(handlers.Registration.Register))
	r.GET("/api/v1/users/count", handlers.Registration.Count)
	r.GET("/api/v1/users/{address}/credits", handlers.Registration.Credits)

	// Activities
	r.POST("/api/v1/activities", authMiddleware(handlers.Activity.Create))
	r.GET("/api/v1/activities/count", handlers.Activity.Count)
	r.GET("/api/v1/activities/{id}", handlers.Activity.Get)
	r.POST("/api/v1/activities/{id}/join", authMiddleware(handlers.Activity.Join))
	r.GET("/api/v1/activities/{id}/join-price", handlers.Activity.JoinPrice)
	r.POST("/api/v1/activities/{id}/terms", authMiddleware(handlers.Activity.AddTerm))
	r.GET("/api/v1/activities/{id}/terms", handlers.Activity.Terms)
	r.POST("/api/v1/activities/{id}/whitelist", authMiddleware(handlers.Activity.Whitelist))
	r.GET("/api/v1/activities/{id}/whitelist/{address}", handlers.Activity.WhitelistCheck)

	// Donations
	r.POST("/api/v1/activities/{id}/donations", authMiddleware(handlers.Donation.Donate))
	r.POST("/api/v1/activities/{id}/withdrawals", authMiddleware(handlers.Donation.Withdraw))

	// Tasks
	r.POST("/api/v1/activities/{id}/tasks", authMiddleware(handlers.Task.Create))
	r.GET("/api/v1/activities/{id}/tasks", handlers.Task.List)
	r.POST("/api/v1/activities/{id}/tasks/{taskId}/complete", authMiddleware(handlers.Task.Complete))
	r.GET("/api/v1/tasks/tax-amount", handlers.Task.TaxAmount)

	return r
}
