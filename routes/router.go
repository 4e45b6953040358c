package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/fmpickleball/federation-api/config"
	"github.com/fmpickleball/federation-api/internal/auth"
	"github.com/fmpickleball/federation-api/internal/club"
	"github.com/fmpickleball/federation-api/internal/credential"
)

func SetupRoutes(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{appConfig.App.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// QR assets and other uploads are served straight from disk.
	r.Static("/public", "./public")

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":   "Pickleball Federation API",
			"status": "ok",
			"docs":   "/swagger/index.html",
		})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	credential.RegisterCredentialRoutes(api, db, appConfig)
	club.RegisterClubRoutes(api, db, appConfig)

	return r
}
