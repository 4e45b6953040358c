package credential

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fmpickleball/federation-api/config"
	"github.com/fmpickleball/federation-api/internal/middleware"
	"github.com/fmpickleball/federation-api/internal/user"
	"github.com/fmpickleball/federation-api/pkg/badge"
	"github.com/fmpickleball/federation-api/pkg/responses"
	"github.com/fmpickleball/federation-api/pkg/validator"
	"github.com/fmpickleball/federation-api/utils"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const (
	verificationCodeLength = 8
	expiryWarningWindow    = 30 * 24 * time.Hour
	defaultValidityYears   = 1
	createMaxAttempts      = 3
)

// CredentialController handles the digital credential lifecycle.
type CredentialController struct {
	repo        CredentialRepository
	qr          QRGenerator
	config      *config.Config
	verifyCache *gocache.Cache
}

func NewCredentialController(repo CredentialRepository, qr QRGenerator, cfg *config.Config) *CredentialController {
	window := time.Duration(cfg.Verify.IdempotencyWindowMinutes) * time.Minute
	return &CredentialController{
		repo:        repo,
		qr:          qr,
		config:      cfg,
		verifyCache: gocache.New(window, 2*window),
	}
}

// CreateCredential godoc
// @Summary      Issue the caller's digital credential
// @Description  Creates the one credential a player may hold. The credential number,
// @Description  verification code and QR asset are all generated server-side.
// @Tags         DigitalCredentials
// @Produce      json
// @Success      201 {object} responses.SuccessResponse{data=DigitalCredential}
// @Failure      401 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse "Credential already exists"
// @Failure      500 {object} responses.ErrorResponse
// @Router       /digital-credentials [post]
// @Security     BearerAuth
func (cc *CredentialController) CreateCredential(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	existing, err := cc.repo.GetByUserID(userID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to check existing credential", err.Error())
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "A credential already exists for this player", nil)
		return
	}

	u, err := cc.repo.GetUser(userID)
	if err != nil || u == nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to load player record", nil)
		return
	}

	var stateAffiliation *string
	if u.StateAffiliation != "" {
		stateAffiliation = &u.StateAffiliation
	}

	// A player who joined a club before issuance starts out as a club member.
	clubName, err := cc.repo.GetClubName(userID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to resolve club membership", err.Error())
		return
	}
	clubStatus := ClubStatusIndependent
	if clubName != nil {
		clubStatus = ClubStatusMember
	}

	// Concurrent creates can race on the same credential number; the unique
	// index flags the loser and it reallocates.
	var cred *DigitalCredential
	for attempt := 1; ; attempt++ {
		now := time.Now()
		seq, err := cc.repo.NextSequenceForYear(now.Year())
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to allocate credential number", err.Error())
			return
		}
		credentialNumber := fmt.Sprintf("PB%d%03d", now.Year(), seq)

		verificationCode, err := utils.GenerateCode(verificationCodeLength)
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to generate verification code", nil)
			return
		}

		qrURL, qrData, err := cc.qr.Generate(verificationCode)
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to generate QR code", err.Error())
			return
		}

		expiry := now.AddDate(defaultValidityYears, 0, 0)
		cred = &DigitalCredential{
			UserID:            userID,
			CredentialNumber:  credentialNumber,
			VerificationCode:  verificationCode,
			PlayerName:        u.Name,
			StateAffiliation:  stateAffiliation,
			Nationality:       u.Nationality,
			AffiliationStatus: StatusActive,
			ClubStatus:        clubStatus,
			ClubName:          clubName,
			IssuedDate:        now,
			ExpiryDate:        &expiry,
			QRCodeURL:         &qrURL,
			QRCodeData:        qrData,
		}

		err = cc.repo.Create(cred)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The per-player index also fires here when two creates for the
			// same player race; that one is a conflict, not a retry.
			if existing, getErr := cc.repo.GetByUserID(userID); getErr == nil && existing != nil {
				responses.SendError(c, http.StatusConflict, "A credential already exists for this player", nil)
				return
			}
			if attempt < createMaxAttempts {
				continue
			}
		}
		responses.SendError(c, http.StatusInternalServerError, "Failed to create credential", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Credential issued successfully", cred)
}

// GetMyCredential godoc
// @Summary      Get the caller's digital credential
// @Tags         DigitalCredentials
// @Produce      json
// @Success      200 {object} responses.SuccessResponse{data=DigitalCredential}
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse "No credential issued yet"
// @Router       /digital-credentials/my-credential [get]
// @Security     BearerAuth
func (cc *CredentialController) GetMyCredential(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	cred, err := cc.repo.GetByUserID(userID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve credential", err.Error())
		return
	}
	if cred == nil {
		responses.SendError(c, http.StatusNotFound, "No credential found for this player", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Credential retrieved successfully", cred)
}

// VerifyCredential godoc
// @Summary      Publicly verify a credential by its verification code
// @Description  Resolves a verification code to the credential's current state. A
// @Description  successful lookup of an expired or suspended credential is still a
// @Description  200; validity is reported in the verification block. Repeated
// @Description  verifications of the same code within the idempotency window are
// @Description  served from cache and do not increment the verification counter.
// @Tags         DigitalCredentials
// @Produce      json
// @Param        verificationCode path string true "Verification code"
// @Param        method query string false "How the code was obtained (manual or qr)" default(manual)
// @Success      200 {object} responses.SuccessResponse{data=VerifyResponse}
// @Failure      404 {object} responses.ErrorResponse "Unknown verification code"
// @Failure      500 {object} responses.ErrorResponse
// @Router       /digital-credentials/verify/{verificationCode} [get]
func (cc *CredentialController) VerifyCredential(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("verificationCode")))
	if code == "" {
		responses.SendError(c, http.StatusBadRequest, "Verification code is required", nil)
		return
	}
	method := c.DefaultQuery("method", "manual")
	if method != "qr" {
		method = "manual"
	}

	if cached, found := cc.verifyCache.Get(code); found {
		responses.SendSuccess(c, http.StatusOK, "Credential verified", cached)
		return
	}

	cred, err := cc.repo.GetByVerificationCode(code)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Verification failed", err.Error())
		return
	}
	if cred == nil {
		responses.SendError(c, http.StatusNotFound, "Credential not found", nil)
		return
	}

	now := time.Now()
	// The hourly sweep flips overdue rows, but a scan must never report an
	// overdue credential as valid in between runs.
	if cred.AffiliationStatus == StatusActive && cred.ExpiryDate != nil && cred.ExpiryDate.Before(now) {
		cred.AffiliationStatus = StatusExpired
		if err := cc.repo.Update(cred); err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Verification failed", err.Error())
			return
		}
	}
	if err := cc.repo.RecordVerification(cred.ID, now); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to record verification", err.Error())
		return
	}
	cred.VerificationCount++
	cred.LastVerified = &now

	resp := VerifyResponse{
		Credential: cred,
		Verification: VerificationDetails{
			Valid:      cred.AffiliationStatus == StatusActive,
			VerifiedAt: now,
			Method:     method,
			Warning:    verificationWarning(cred, now),
			Badge:      badge.ForStatus(cred.AffiliationStatus),
		},
	}
	cc.verifyCache.Set(code, resp, gocache.DefaultExpiration)

	responses.SendSuccess(c, http.StatusOK, "Credential verified", resp)
}

func verificationWarning(cred *DigitalCredential, now time.Time) string {
	switch cred.AffiliationStatus {
	case StatusExpired:
		return "This credential has expired"
	case StatusSuspended:
		return "This credential is suspended"
	case StatusInactive:
		return "This credential is inactive"
	}
	if cred.ExpiryDate != nil && cred.ExpiryDate.Sub(now) < expiryWarningWindow {
		return fmt.Sprintf("This credential expires on %s", cred.ExpiryDate.Format("2006-01-02"))
	}
	return ""
}

// UpdateCredential godoc
// @Summary      Update credential fields
// @Description  Partial update. Owners may edit their profile fields; affiliation
// @Description  status and expiry are admin-only and silently ignored otherwise.
// @Tags         DigitalCredentials
// @Accept       json
// @Produce      json
// @Param        id path string true "Credential ID"
// @Param        credential body UpdateCredentialRequest true "Fields to update"
// @Success      200 {object} responses.SuccessResponse{data=DigitalCredential}
// @Failure      400 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Not the owner"
// @Failure      404 {object} responses.ErrorResponse
// @Router       /digital-credentials/{id} [put]
// @Security     BearerAuth
func (cc *CredentialController) UpdateCredential(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	var req UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	cred, err := cc.repo.GetByID(c.Param("id"))
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve credential", err.Error())
		return
	}
	if cred == nil {
		responses.SendError(c, http.StatusNotFound, "Credential not found", nil)
		return
	}

	admin := isAdmin(c)
	if !admin && cred.UserID != userID {
		responses.SendError(c, http.StatusForbidden, "You can only update your own credential", nil)
		return
	}

	if req.PlayerName != nil {
		cred.PlayerName = *req.PlayerName
	}
	if req.NRTPLevel != nil {
		cred.NRTPLevel = req.NRTPLevel
	}
	if req.StateAffiliation != nil {
		cred.StateAffiliation = req.StateAffiliation
	}
	if req.Nationality != nil {
		cred.Nationality = *req.Nationality
	}
	if req.RankingPosition != nil {
		cred.RankingPosition = req.RankingPosition
	}
	if admin {
		if req.AffiliationStatus != nil {
			cred.AffiliationStatus = *req.AffiliationStatus
		}
		if req.ExpiryDate != nil {
			cred.ExpiryDate = req.ExpiryDate
		}
	}

	if err := cc.repo.Update(cred); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update credential", err.Error())
		return
	}
	cc.verifyCache.Delete(cred.VerificationCode)

	responses.SendSuccess(c, http.StatusOK, "Credential updated successfully", cred)
}

// RegenerateQRCode godoc
// @Summary      Regenerate the QR asset for a credential
// @Description  Replaces qr_code_url and qr_code_data only; the verification code
// @Description  and credential number never change.
// @Tags         DigitalCredentials
// @Produce      json
// @Param        id path string true "Credential ID"
// @Success      200 {object} responses.SuccessResponse{data=DigitalCredential}
// @Failure      403 {object} responses.ErrorResponse "Not the owner"
// @Failure      404 {object} responses.ErrorResponse
// @Router       /digital-credentials/{id}/regenerate-qr [post]
// @Security     BearerAuth
func (cc *CredentialController) RegenerateQRCode(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	cred, err := cc.repo.GetByID(c.Param("id"))
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve credential", err.Error())
		return
	}
	if cred == nil {
		responses.SendError(c, http.StatusNotFound, "Credential not found", nil)
		return
	}

	if !isAdmin(c) && cred.UserID != userID {
		responses.SendError(c, http.StatusForbidden, "You can only regenerate your own QR code", nil)
		return
	}

	qrURL, qrData, err := cc.qr.Generate(cred.VerificationCode)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to regenerate QR code", err.Error())
		return
	}
	if err := cc.repo.UpdateQRCode(cred.ID, qrURL, qrData); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to store QR code", err.Error())
		return
	}
	cred.QRCodeURL = &qrURL
	cred.QRCodeData = qrData
	cc.verifyCache.Delete(cred.VerificationCode)

	responses.SendSuccess(c, http.StatusOK, "QR code regenerated successfully", cred)
}

// GetAllCredentials godoc
// @Summary      List credentials (admin)
// @Description  Server-side paging and filtering; only the requested page is returned.
// @Tags         DigitalCredentials
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(20)
// @Param        affiliation_status query string false "Filter by affiliation status"
// @Param        state_affiliation query string false "Filter by state"
// @Param        is_verified query boolean false "Filter by whether the credential was ever verified"
// @Param        search query string false "Substring match on player name, credential number or verification code"
// @Success      200 {object} responses.PaginatedResponse{data=[]DigitalCredential}
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Router       /digital-credentials [get]
// @Security     BearerAuth
func (cc *CredentialController) GetAllCredentials(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	params := ListParams{
		Page:              page,
		Limit:             limit,
		AffiliationStatus: c.Query("affiliation_status"),
		StateAffiliation:  c.Query("state_affiliation"),
		Search:            c.Query("search"),
	}
	if v := c.Query("is_verified"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			params.IsVerified = &parsed
		}
	}

	creds, total, err := cc.repo.List(params)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve credentials", err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Credentials retrieved successfully", creds, total, page, limit)
}

func isAdmin(c *gin.Context) bool {
	for _, r := range middleware.GetRolesFromContext(c) {
		if r == user.RoleAdmin {
			return true
		}
	}
	return false
}
