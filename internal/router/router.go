package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"

	"buzzline/internal/handlers"
	"buzzline/internal/middleware"
	"buzzline/internal/store"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, st store.Store, authClient *auth.Client,
	identity handlers.Identity, uploader handlers.Uploader, bucket string) {

	authenticated := middleware.FirebaseAuth(authClient, st)

	postHandler := handlers.NewPostHandler(st)
	commentHandler := handlers.NewCommentHandler(st)
	likeHandler := handlers.NewLikeHandler(st)
	authHandler := handlers.NewAuthHandler(st, identity, bucket)
	userHandler := handlers.NewUserHandler(st, uploader)
	notificationHandler := handlers.NewNotificationHandler(st)

	e.GET("/health", handlers.HealthCheck)

	// Post routes
	e.GET("/posts", postHandler.GetPosts)
	e.POST("/post", postHandler.CreatePost, authenticated)
	e.GET("/post/:postId", postHandler.GetPost)
	e.DELETE("/post/:postId", postHandler.DeletePost, authenticated)
	e.GET("/post/:postId/like", likeHandler.LikePost, authenticated)
	e.GET("/post/:postId/unlike", likeHandler.UnlikePost, authenticated)
	e.POST("/post/:postId/comment", commentHandler.CommentOnPost, authenticated)

	// User routes
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)
	e.POST("/user", userHandler.AddUserDetails, authenticated)
	e.GET("/user", userHandler.GetAuthenticatedUser, authenticated)
	e.GET("/user/:handle", userHandler.GetUserDetails)
	e.POST("/user/image", userHandler.UploadImage, authenticated)
	e.POST("/notifications", notificationHandler.MarkNotificationsRead, authenticated)

	log.Println("All routes configured.")
}
