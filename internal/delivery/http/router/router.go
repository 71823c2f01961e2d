// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bimeh/internal/cascade"
	"bimeh/internal/delivery/http/middleware"
	"bimeh/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds every handler the router registers, injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	LocationHandler     *handler.LocationHandler
	PlanHandler         *handler.PlanHandler
	RegistrationHandler *handler.RegistrationHandler
	PersonHandler       *handler.PersonHandler
	DocumentHandler     *handler.DocumentHandler
	StatisticsHandler   *handler.StatisticsHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	auth := r.params.AuthMiddleware

	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.params.AuthHandler.Register)
		authGroup.POST("/login", r.params.AuthHandler.Login)
		authGroup.POST("/refresh", r.params.AuthHandler.Refresh)
		authGroup.POST("/logout", r.params.AuthHandler.Logout)
		authGroup.GET("/me", r.params.AuthHandler.Me, auth.Authenticate)
		authGroup.PUT("/profile", r.params.UserHandler.UpdateProfile, auth.Authenticate)
	}

	// Public cascade data source, one endpoint per tier
	locationGroup := e.Group("/locations")
	{
		loc := r.params.LocationHandler
		locationGroup.GET("/states", loc.Children(cascade.TierState, ""))
		locationGroup.GET("/cities", loc.Children(cascade.TierCity, "state_id"))
		locationGroup.GET("/counties", loc.Children(cascade.TierCounty, "city_id"))
		locationGroup.GET("/regions", loc.Children(cascade.TierRegion, "county_id"))
		locationGroup.GET("/districts", loc.Children(cascade.TierDistrict, "region_id"))
		locationGroup.GET("/schools", loc.Schools)
		locationGroup.GET("/schools/:id/chain", loc.SchoolChain)
	}

	// Public plan catalog and authenticated registration flow
	insuranceGroup := e.Group("/insurance")
	{
		insuranceGroup.GET("/plans", r.params.PlanHandler.ListPlans)
		insuranceGroup.GET("/plans/:id", r.params.PlanHandler.GetPlan)

		reg := r.params.RegistrationHandler
		insuranceGroup.POST("/register", reg.Create, auth.Authenticate)
		insuranceGroup.GET("/registrations", reg.ListMine, auth.Authenticate)
		insuranceGroup.GET("/registrations/:id", reg.GetMine, auth.Authenticate)
		insuranceGroup.GET("/registrations/:id/card", reg.Card, auth.Authenticate)
	}

	// Covered persons, owner-scoped
	personGroup := e.Group("/persons", auth.Authenticate)
	{
		p := r.params.PersonHandler
		personGroup.GET("", p.ListMine)
		personGroup.POST("", p.Create)
		personGroup.GET("/:id", p.GetMine)
		personGroup.PUT("/:id", p.Update)
		personGroup.DELETE("/:id", p.Delete)
	}

	// Documents: owner-scoped routes plus the admin verification surface
	documentGroup := e.Group("/documents", auth.Authenticate)
	{
		d := r.params.DocumentHandler
		documentGroup.POST("/upload", d.Upload)
		documentGroup.GET("", d.ListMine)
		documentGroup.GET("/:id", d.GetMine)
		documentGroup.PUT("/:id", d.Update)
		documentGroup.GET("/:id/download", d.Download)
		documentGroup.DELETE("/:id", d.Delete)

		requireAdmin := auth.RequireAdmin()
		documentGroup.GET("/admin/all", d.List, requireAdmin)
		documentGroup.PATCH("/:id/verify", d.Verify, requireAdmin)
		documentGroup.PATCH("/:id/unverify", d.Unverify, requireAdmin)
		documentGroup.GET("/admin/:id/download", d.AdminDownload, requireAdmin)
		documentGroup.DELETE("/admin/:id", d.AdminDelete, requireAdmin)
	}

	// Admin mirror of the whole portal
	adminGroup := e.Group("/admin", auth.Authenticate, auth.RequireAdmin())
	{
		loc := r.params.LocationHandler
		tiers := []struct {
			prefix string
			tier   cascade.Tier
		}{
			{"/states", cascade.TierState},
			{"/cities", cascade.TierCity},
			{"/counties", cascade.TierCounty},
			{"/regions", cascade.TierRegion},
			{"/districts", cascade.TierDistrict},
		}
		for _, t := range tiers {
			adminGroup.POST(t.prefix, loc.CreateNode(t.tier))
			adminGroup.PUT(t.prefix+"/:id", loc.UpdateNode(t.tier))
			adminGroup.DELETE(t.prefix+"/:id", loc.DeleteNode(t.tier))
		}
		adminGroup.POST("/schools", loc.CreateSchool)
		adminGroup.PUT("/schools/:id", loc.UpdateSchool)
		adminGroup.DELETE("/schools/:id", loc.DeleteSchool)

		plan := r.params.PlanHandler
		adminGroup.GET("/plans", plan.ListAllPlans)
		adminGroup.POST("/plans", plan.CreatePlan)
		adminGroup.PUT("/plans/:id", plan.UpdatePlan)
		adminGroup.DELETE("/plans/:id", plan.DeletePlan)
		adminGroup.GET("/coverages", plan.ListCoverages)
		adminGroup.POST("/coverages", plan.CreateCoverage)
		adminGroup.PUT("/coverages/:id", plan.UpdateCoverage)
		adminGroup.DELETE("/coverages/:id", plan.DeleteCoverage)

		reg := r.params.RegistrationHandler
		adminGroup.GET("/registrations", reg.List)
		adminGroup.GET("/registrations/:id", reg.Get)
		adminGroup.PUT("/registrations/:id/status", reg.SetStatus)

		adminGroup.GET("/persons", r.params.PersonHandler.List)

		user := r.params.UserHandler
		adminGroup.GET("/users", user.ListUsers)
		adminGroup.GET("/users/:id", user.GetUser)
		adminGroup.PATCH("/users/:id/active", user.SetUserActive)
	}

	// Admin dashboard aggregates
	statsGroup := e.Group("/statistics/admin", auth.Authenticate, auth.RequireAdmin())
	{
		s := r.params.StatisticsHandler
		statsGroup.GET("/overview", s.Overview)
		statsGroup.GET("/registrations", s.Registrations)
		statsGroup.GET("/persons", s.Persons)
		statsGroup.GET("/schools", s.Schools)
		statsGroup.GET("/plans", s.Plans)
		statsGroup.GET("/users", s.Users)
	}
}
