package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fmpickleball/federation-api/config"
	"github.com/fmpickleball/federation-api/internal/middleware"
	"github.com/fmpickleball/federation-api/internal/user"
	"github.com/fmpickleball/federation-api/pkg/responses"
	"github.com/fmpickleball/federation-api/pkg/token"
	"github.com/fmpickleball/federation-api/pkg/validator"
	"github.com/fmpickleball/federation-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const DefaultUserRole = user.RolePlayer

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, config: cfg}
}

func (ac *AuthController) generateAndSaveTokens(u *user.User) (string, string, error) {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}

	accessToken, err := token.GenerateJWT(u.ID, roles, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return "", "", fmt.Errorf("access token generation failed: %w", err)
	}

	refreshTokenString, err := token.GenerateRefreshToken(u.ID, ac.config.JWT.RefreshTokenSecret, ac.config.JWT.RefreshTokenExpiryDays)
	if err != nil {
		return "", "", fmt.Errorf("refresh token generation failed: %w", err)
	}

	rt := &user.RefreshToken{
		UserID:    u.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().AddDate(0, 0, ac.config.JWT.RefreshTokenExpiryDays),
	}
	if err := ac.repo.SaveRefreshToken(rt); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return accessToken, refreshTokenString, nil
}

// Register godoc
// @Summary      Register a new user
// @Description  Create a federation account with name, username, email and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user body RegisterRequest true "Registration details"
// @Success      201 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure      400 {object} responses.ErrorResponse "Validation error"
// @Failure      409 {object} responses.ErrorResponse "Email or username already taken"
// @Failure      500 {object} responses.ErrorResponse
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	if _, err := ac.repo.GetUserByEmail(req.Email); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.SendError(c, http.StatusConflict, "User with this email already exists", nil)
		return
	}
	if _, err := ac.repo.GetUserByUsername(req.Username); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.SendError(c, http.StatusConflict, "User with this username already exists", nil)
		return
	}

	roleNames := req.Roles
	if len(roleNames) == 0 {
		roleNames = []string{DefaultUserRole}
	}
	roles := make([]user.Role, 0, len(roleNames))
	for _, rn := range roleNames {
		role, err := ac.repo.GetRoleByName(strings.ToLower(rn))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.SendError(c, http.StatusBadRequest, fmt.Sprintf("role %q does not exist", rn), nil)
				return
			}
			responses.SendError(c, http.StatusInternalServerError, "Role lookup failed", nil)
			return
		}
		roles = append(roles, *role)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Error hashing password", nil)
		return
	}

	newUser := &user.User{
		Name:             req.Name,
		Username:         req.Username,
		Email:            req.Email,
		Password:         hashedPassword,
		Nationality:      req.Nationality,
		StateAffiliation: req.StateAffiliation,
		Roles:            roles,
	}
	if err := ac.repo.CreateUser(newUser); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create user", err.Error())
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(newUser)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to issue tokens", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "User registered successfully", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(newUser),
	})
}

// Login godoc
// @Summary      Log in
// @Description  Authenticate with email or username plus password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body LoginRequest true "Login credentials"
// @Success      200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure      400 {object} responses.ErrorResponse "Validation error"
// @Failure      401 {object} responses.ErrorResponse "Invalid credentials"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	var u *user.User
	var err error
	if strings.Contains(req.LoginIdentifier, "@") {
		u, err = ac.repo.GetUserByEmail(req.LoginIdentifier)
	} else {
		u, err = ac.repo.GetUserByUsername(req.LoginIdentifier)
	}
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		responses.SendError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(u)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to issue tokens", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Logged in successfully", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(u),
	})
}

// RefreshToken godoc
// @Summary      Refresh the access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        token body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure      401 {object} responses.ErrorResponse "Invalid or expired refresh token"
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	claims, err := token.ValidateJWT(req.RefreshToken, ac.config.JWT.RefreshTokenSecret)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Invalid refresh token: "+err.Error(), nil)
		return
	}

	stored, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil || stored.ExpiresAt.Before(time.Now()) {
		responses.SendError(c, http.StatusUnauthorized, "Refresh token revoked or expired", nil)
		return
	}

	u, err := ac.repo.GetUserByID(claims.UserID)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "User no longer exists", nil)
		return
	}

	// Rotate: the presented token is single-use.
	if err := ac.repo.InvalidateRefreshToken(req.RefreshToken); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to rotate refresh token", nil)
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(u)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to issue tokens", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Token refreshed", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(u),
	})
}

// GetProfile godoc
// @Summary      Current user profile
// @Tags         Auth
// @Produce      json
// @Success      200 {object} responses.SuccessResponse{data=UserResponse}
// @Failure      401 {object} responses.ErrorResponse
// @Router       /auth/me [get]
// @Security     BearerAuth
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.SendError(c, http.StatusNotFound, "User not found", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Profile retrieved", FilterUserRecord(u))
}

// Logout godoc
// @Summary      Log out
// @Description  Invalidate the presented refresh token, or every session for the user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest true "Logout options"
// @Success      200 {object} responses.SuccessResponse
// @Failure      401 {object} responses.ErrorResponse
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	var req LogoutRequest
	_ = c.ShouldBindJSON(&req) // empty body means "just this session is unknown", fall through

	if req.InvalidateAllSessions {
		if err := ac.repo.InvalidateAllRefreshTokensForUser(userID); err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to invalidate sessions", nil)
			return
		}
	} else if req.RefreshToken != "" {
		if err := ac.repo.InvalidateRefreshToken(req.RefreshToken); err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to invalidate session", nil)
			return
		}
	}

	responses.SendSuccess(c, http.StatusOK, "Logged out successfully", nil)
}
