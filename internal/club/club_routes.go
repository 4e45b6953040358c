package club

import (
	"github.com/fmpickleball/federation-api/config"
	mw "github.com/fmpickleball/federation-api/internal/middleware"
	"github.com/fmpickleball/federation-api/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterClubRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	clubRepo := NewClubRepository(db)
	controller := NewClubController(clubRepo)

	publicClubs := router.Group("/clubs")
	{
		publicClubs.GET("", controller.GetAllClubs)
		publicClubs.GET("/:club_id", controller.GetClubByID)
	}

	membership := router.Group("/club-membership")
	membership.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		membership.POST("", controller.JoinClub)
		membership.DELETE("", controller.LeaveClub)
	}

	authenticated := router.Group("/clubs")
	authenticated.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		admin := authenticated.Group("")
		admin.Use(rmiddleware.ClubOrAdminMiddleware())
		{
			admin.POST("", controller.CreateClub)
			admin.PUT("/:club_id", controller.UpdateClub)
		}

		adminOnly := authenticated.Group("")
		adminOnly.Use(rmiddleware.AdminMiddleware())
		{
			adminOnly.DELETE("/:club_id", controller.DeleteClub)
		}
	}
}
