package club

import (
	"net/http"
	"strconv"

	"github.com/fmpickleball/federation-api/internal/middleware"
	"github.com/fmpickleball/federation-api/pkg/responses"
	"github.com/fmpickleball/federation-api/pkg/validator"
	"github.com/gin-gonic/gin"
)

// ClubController manages affiliated clubs and their memberships. Membership
// changes are mirrored onto the player's digital credential inside the
// repository transaction, so the two can never disagree.
type ClubController struct {
	repo ClubRepository
}

func NewClubController(repo ClubRepository) *ClubController {
	return &ClubController{repo: repo}
}

// CreateClub godoc
// @Summary      Register a new club
// @Tags         Clubs
// @Accept       json
// @Produce      json
// @Param        club body CreateClubRequest true "Club details"
// @Success      201 {object} responses.SuccessResponse{data=Club}
// @Failure      400 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse "Club name already taken"
// @Router       /clubs [post]
// @Security     BearerAuth
func (cc *ClubController) CreateClub(c *gin.Context) {
	var req CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	existing, _ := cc.repo.FindClubByName(req.Name)
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "A club with this name already exists", nil)
		return
	}

	club := &Club{
		Name:        req.Name,
		State:       req.State,
		City:        req.City,
		Description: req.Description,
		IsActive:    true,
	}
	if err := cc.repo.CreateClub(club); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create club", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Club created successfully", club)
}

// GetAllClubs godoc
// @Summary      List active clubs
// @Tags         Clubs
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Items per page" default(10)
// @Param        search query string false "Search term for name or city"
// @Param        state query string false "Filter by state"
// @Success      200 {object} responses.PaginatedResponse{data=[]Club}
// @Router       /clubs [get]
func (cc *ClubController) GetAllClubs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	clubs, total, err := cc.repo.GetAllClubs(page, pageSize, c.Query("search"), c.Query("state"))
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve clubs", err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Clubs retrieved successfully", clubs, total, page, pageSize)
}

// GetClubByID godoc
// @Summary      Get a club
// @Tags         Clubs
// @Produce      json
// @Param        club_id path int true "Club ID"
// @Success      200 {object} responses.SuccessResponse{data=Club}
// @Failure      404 {object} responses.ErrorResponse
// @Router       /clubs/{club_id} [get]
func (cc *ClubController) GetClubByID(c *gin.Context) {
	clubID, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid club ID format", nil)
		return
	}

	club, err := cc.repo.GetClubByID(uint(clubID))
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve club", err.Error())
		return
	}
	if club == nil {
		responses.SendError(c, http.StatusNotFound, "Club not found", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Club retrieved successfully", club)
}

// UpdateClub godoc
// @Summary      Update a club
// @Tags         Clubs
// @Accept       json
// @Produce      json
// @Param        club_id path int true "Club ID"
// @Param        club body UpdateClubRequest true "Fields to update"
// @Success      200 {object} responses.SuccessResponse{data=Club}
// @Failure      404 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse
// @Router       /clubs/{club_id} [put]
// @Security     BearerAuth
func (cc *ClubController) UpdateClub(c *gin.Context) {
	clubID, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid club ID format", nil)
		return
	}

	var req UpdateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	club, err := cc.repo.GetClubByID(uint(clubID))
	if err != nil || club == nil {
		responses.SendError(c, http.StatusNotFound, "Club not found", nil)
		return
	}

	if req.Name != nil && *req.Name != club.Name {
		existing, _ := cc.repo.FindClubByName(*req.Name)
		if existing != nil && existing.ID != club.ID {
			responses.SendError(c, http.StatusConflict, "Another club with this name already exists", nil)
			return
		}
		club.Name = *req.Name
	}
	if req.State != nil {
		club.State = *req.State
	}
	if req.City != nil {
		club.City = *req.City
	}
	if req.Description != nil {
		club.Description = *req.Description
	}
	if req.IsActive != nil {
		club.IsActive = *req.IsActive
	}

	if err := cc.repo.UpdateClub(club); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update club", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Club updated successfully", club)
}

// DeleteClub godoc
// @Summary      Delete a club
// @Tags         Clubs
// @Produce      json
// @Param        club_id path int true "Club ID"
// @Success      200 {object} responses.SuccessResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /clubs/{club_id} [delete]
// @Security     BearerAuth
func (cc *ClubController) DeleteClub(c *gin.Context) {
	clubID, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid club ID format", nil)
		return
	}

	club, err := cc.repo.GetClubByID(uint(clubID))
	if err != nil || club == nil {
		responses.SendError(c, http.StatusNotFound, "Club not found to delete", nil)
		return
	}

	if err := cc.repo.DeleteClub(uint(clubID)); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to delete club", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Club deleted successfully", nil)
}

// JoinClub godoc
// @Summary      Join a club
// @Description  Adds the caller to the club and marks their credential club_member.
// @Tags         Clubs
// @Accept       json
// @Produce      json
// @Param        membership body JoinClubRequest true "Club to join"
// @Success      200 {object} responses.SuccessResponse{data=ClubMember}
// @Failure      404 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse "Already a member of a club"
// @Router       /club-membership [post]
// @Security     BearerAuth
func (cc *ClubController) JoinClub(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	var req JoinClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	club, err := cc.repo.GetClubByID(req.ClubID)
	if err != nil || club == nil {
		responses.SendError(c, http.StatusNotFound, "Club not found", nil)
		return
	}
	if !club.IsActive {
		responses.SendError(c, http.StatusConflict, "This club is not accepting members", nil)
		return
	}

	existing, err := cc.repo.GetMembership(userID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to check membership", err.Error())
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "Already a member of a club; leave it first", nil)
		return
	}

	member := &ClubMember{ClubID: club.ID, UserID: userID}
	if err := cc.repo.AddMember(member, club.Name); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to join club", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Joined club successfully", member)
}

// LeaveClub godoc
// @Summary      Leave the current club
// @Description  Removes the caller's membership and reverts their credential to independent.
// @Tags         Clubs
// @Produce      json
// @Success      200 {object} responses.SuccessResponse
// @Failure      404 {object} responses.ErrorResponse "Not a member of any club"
// @Router       /club-membership [delete]
// @Security     BearerAuth
func (cc *ClubController) LeaveClub(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	existing, err := cc.repo.GetMembership(userID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to check membership", err.Error())
		return
	}
	if existing == nil {
		responses.SendError(c, http.StatusNotFound, "Not a member of any club", nil)
		return
	}

	if err := cc.repo.RemoveMember(userID); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to leave club", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Left club successfully", nil)
}
