package router

import (
	"tipstock/internal/handlers"
	"tipstock/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	tipHandler := handlers.NewTipHandler()
	engagementHandler := handlers.NewEngagementHandler()
	notificationHandler := handlers.NewNotificationHandler()
	userHandler := handlers.NewUserHandler()
	contactHandler := handlers.NewContactHandler()

	// Public Routes
	r.GET("/", tipHandler.ListPublic)
	r.GET("/tips/public", tipHandler.ListPublic)
	r.GET("/users/:id", userHandler.Profile)

	r.GET("/signup", authHandler.ShowSignup)
	r.POST("/signup", authHandler.Signup)
	r.GET("/verify", authHandler.ShowVerify)
	r.POST("/verify", authHandler.Verify)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/reregistration", authHandler.ShowReregistration)
	r.POST("/reregistration", authHandler.Reregister)

	r.GET("/contact", contactHandler.Show)
	r.POST("/contact", contactHandler.Send)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/tips", tipHandler.ListMine)
		authorized.GET("/tips/new", tipHandler.ShowCreate)
		authorized.POST("/tips/new", tipHandler.Create)
		authorized.GET("/tips/:id", tipHandler.Detail)
		authorized.GET("/tips/:id/edit", tipHandler.ShowEdit)
		authorized.POST("/tips/:id/edit", tipHandler.Update)
		authorized.POST("/tips/:id/delete", tipHandler.Delete)

		authorized.POST("/tips/:id/comment", engagementHandler.AddComment)
		authorized.POST("/tips/:id/comment/:no/delete", engagementHandler.DeleteComment)
		authorized.POST("/tips/:id/like", engagementHandler.AddLike)
		authorized.POST("/tips/:id/unlike", engagementHandler.RemoveLike)

		authorized.POST("/users/:id/follow", engagementHandler.Follow)
		authorized.POST("/users/:id/unfollow", engagementHandler.Unfollow)

		authorized.GET("/notifications", notificationHandler.List)

		authorized.GET("/settings", userHandler.ShowSettings)
		authorized.POST("/settings", userHandler.UpdateSettings)
		authorized.GET("/withdrawal", userHandler.ShowWithdrawal)
		authorized.POST("/withdrawal", userHandler.Withdraw)
	}

	// The done page survives the session clear that withdrawal performs.
	r.GET("/withdrawal/done", userHandler.WithdrawalDone)
}
