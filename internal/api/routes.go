package api

import (
	"alcyxob/meal-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	mealService service.MealService,
	planService service.PlanService,
) {
	authHandler := NewAuthHandler(authService)
	mealHandler := NewMealHandler(mealService)
	planHandler := NewPlanHandler(planService)

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
			authGroup.POST("/demo", authHandler.Demo)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me/reminder", authHandler.SetReminder)

		// --- Meal Routes ---
		mealGroup := protected.Group("/meals")
		{
			mealGroup.GET("", mealHandler.ListMeals)
			mealGroup.POST("", mealHandler.CreateMeal)
			mealGroup.POST("/seed", mealHandler.SeedDemoMeals)
			mealGroup.DELETE("/:id", mealHandler.DeleteMeal)
			mealGroup.PUT("/:id/favorite", mealHandler.SetFavorite)
			mealGroup.POST("/:id/eaten", mealHandler.MarkEaten)
		}

		// --- Plan Routes ---
		planGroup := protected.Group("/plan")
		{
			planGroup.GET("", planHandler.GetPlan)
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.DELETE("", planHandler.ClearPlan)
			planGroup.POST("/days/:index/swap", planHandler.SwapSlot)
			planGroup.POST("/days/:index/eaten", planHandler.ToggleEaten)
			planGroup.GET("/archive/:key/url", planHandler.ArchiveDownloadURL)
		}
	}
}
