package router

import (
	"time"

	"github.com/askbox/askbox/internal/handlers"
	"github.com/askbox/askbox/internal/middleware"
	"github.com/askbox/askbox/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	writeLimitRPS   = 1
	writeLimitBurst = 10
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// One bucket per IP for the spammable writes: signups and asks.
	limiter := middleware.NewIPRateLimiter(rate.Limit(writeLimitRPS), writeLimitBurst)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", middleware.RateLimit(limiter), handlers.Signup)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
		}

		account := api.Group("/account", middleware.AuthRequired())
		{
			account.GET("", handlers.GetAccount)
			account.PATCH("", handlers.UpdateAccount)
			account.DELETE("", handlers.DeleteAccount)
			account.PUT("/password", handlers.UpdatePassword)
			account.GET("/inbox", handlers.GetInbox)

			account.GET("/categories", handlers.ListCategories)
			account.POST("/categories", handlers.CreateCategory)
			account.GET("/categories/:category_id", handlers.GetCategory)
			account.PUT("/categories/:category_id", handlers.RenameCategory)
			account.DELETE("/categories/:category_id", handlers.DeleteCategory)
		}

		users := api.Group("/users")
		{
			users.GET("", handlers.SearchUsers)
			users.GET("/:handle", handlers.GetProfile)
			users.GET("/:handle/questions", handlers.GetUserFeed)
			users.POST("/:handle/questions", middleware.AuthRequired(), middleware.RateLimit(limiter), handlers.AskQuestion)
		}

		questions := api.Group("/questions")
		{
			questions.GET("", handlers.SearchQuestions)
			questions.GET("/:question_id", middleware.AuthOptional(), handlers.GetQuestion)
			questions.GET("/:question_id/comments", middleware.AuthOptional(), handlers.ListComments)

			authed := questions.Group("", middleware.AuthRequired())
			{
				authed.PUT("/:question_id", handlers.AnswerQuestion)
				authed.DELETE("/:question_id", handlers.DeleteQuestion)
				authed.DELETE("/:question_id/answer", handlers.EraseAnswer)
				authed.PATCH("/:question_id/category", handlers.MoveCategory)
				authed.POST("/:question_id/likes", handlers.LikeQuestion)
				authed.DELETE("/:question_id/likes", handlers.UnlikeQuestion)
				authed.POST("/:question_id/comments", handlers.AddComment)
			}
		}

		comments := api.Group("/comments", middleware.AuthRequired())
		{
			comments.PATCH("/:comment_id", handlers.EditComment)
			comments.DELETE("/:comment_id", handlers.DeleteComment)
		}
	}

	return r
}
