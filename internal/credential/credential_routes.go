package credential

import (
	"github.com/fmpickleball/federation-api/config"
	mw "github.com/fmpickleball/federation-api/internal/middleware"
	"github.com/fmpickleball/federation-api/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterCredentialRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewCredentialRepository(db)
	qr := NewFileQRGenerator(appConfig.App.UploadDir, appConfig.App.FrontendURL)
	controller := NewCredentialController(repo, qr, appConfig)

	// Public verification is the QR deep-link target and must not require auth.
	router.GET("/digital-credentials/verify/:verificationCode", controller.VerifyCredential)

	authenticated := router.Group("/digital-credentials")
	authenticated.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authenticated.POST("", controller.CreateCredential)
		authenticated.GET("/my-credential", controller.GetMyCredential)
		authenticated.PUT("/:id", controller.UpdateCredential)
		authenticated.POST("/:id/regenerate-qr", controller.RegenerateQRCode)

		admin := authenticated.Group("")
		admin.Use(rmiddleware.AdminMiddleware())
		{
			admin.GET("", controller.GetAllCredentials)
		}
	}
}
