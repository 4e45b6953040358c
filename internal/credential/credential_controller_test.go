package credential

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fmpickleball/federation-api/config"
	"github.com/fmpickleball/federation-api/internal/middleware"
	"github.com/fmpickleball/federation-api/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	byID      map[string]*DigitalCredential
	users     map[uint]*user.User
	clubNames map[uint]string
	listSeen  ListParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:      make(map[string]*DigitalCredential),
		users:     make(map[uint]*user.User),
		clubNames: make(map[uint]string),
	}
}

func (f *fakeRepo) put(cred *DigitalCredential) *DigitalCredential {
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	f.byID[cred.ID] = cred
	return cred
}

func (f *fakeRepo) Create(cred *DigitalCredential) error {
	f.put(cred)
	return nil
}

func (f *fakeRepo) GetByID(id string) (*DigitalCredential, error) {
	return f.byID[id], nil
}

func (f *fakeRepo) GetByUserID(userID uint) (*DigitalCredential, error) {
	for _, c := range f.byID {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetByVerificationCode(code string) (*DigitalCredential, error) {
	for _, c := range f.byID {
		if c.VerificationCode == code {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Update(cred *DigitalCredential) error {
	f.byID[cred.ID] = cred
	return nil
}

func (f *fakeRepo) UpdateQRCode(id, qrURL, qrData string) error {
	c := f.byID[id]
	c.QRCodeURL = &qrURL
	c.QRCodeData = qrData
	return nil
}

func (f *fakeRepo) RecordVerification(id string, at time.Time) error {
	c := f.byID[id]
	c.VerificationCount++
	c.LastVerified = &at
	return nil
}

func (f *fakeRepo) List(params ListParams) ([]DigitalCredential, int64, error) {
	f.listSeen = params
	out := make([]DigitalCredential, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) NextSequenceForYear(year int) (int64, error) {
	return int64(len(f.byID)) + 1, nil
}

func (f *fakeRepo) ExpireOverdue(now time.Time) (int64, error) {
	var n int64
	for _, c := range f.byID {
		if c.ExpiryDate != nil && c.ExpiryDate.Before(now) && c.AffiliationStatus == StatusActive {
			c.AffiliationStatus = StatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) GetUser(userID uint) (*user.User, error) {
	return f.users[userID], nil
}

func (f *fakeRepo) GetClubName(userID uint) (*string, error) {
	if name, ok := f.clubNames[userID]; ok {
		return &name, nil
	}
	return nil, nil
}

// dupOnceRepo rejects the first create with a duplicate-key error, as if a
// concurrent issue won the same credential number.
type dupOnceRepo struct {
	*fakeRepo
	rejected bool
}

func (d *dupOnceRepo) Create(cred *DigitalCredential) error {
	if !d.rejected {
		d.rejected = true
		return gorm.ErrDuplicatedKey
	}
	return d.fakeRepo.Create(cred)
}

// racedRepo simulates losing a same-player create race: the insert hits the
// per-player unique index and the winner's row is already visible.
type racedRepo struct {
	*fakeRepo
	winner *DigitalCredential
}

func (d *racedRepo) Create(cred *DigitalCredential) error {
	d.fakeRepo.put(d.winner)
	return gorm.ErrDuplicatedKey
}

type fakeQR struct {
	calls int
}

func (q *fakeQR) Generate(code string) (string, string, error) {
	q.calls++
	return fmt.Sprintf("/public/uploads/qr/%s.png?t=%d", code, q.calls),
		"http://localhost:3000/verify-credential/" + code, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.FrontendURL = "http://localhost:3000"
	cfg.Verify.IdempotencyWindowMinutes = 5
	return cfg
}

// stubAuth injects an authenticated identity the way AuthMiddleware would.
func stubAuth(userID uint, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AuthUserIDKey, userID)
		c.Set(middleware.AuthRolesKey, roles)
		c.Next()
	}
}

func setupRouter(repo CredentialRepository, qr QRGenerator, userID uint, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewCredentialController(repo, qr, testConfig())

	r := gin.New()
	r.GET("/api/digital-credentials/verify/:verificationCode", controller.VerifyCredential)

	authed := r.Group("/api/digital-credentials")
	authed.Use(stubAuth(userID, roles...))
	{
		authed.POST("", controller.CreateCredential)
		authed.GET("/my-credential", controller.GetMyCredential)
		authed.PUT("/:id", controller.UpdateCredential)
		authed.POST("/:id/regenerate-qr", controller.RegenerateQRCode)
		authed.GET("", controller.GetAllCredentials)
	}
	return r
}

func seedCredential(repo *fakeRepo, userID uint, code, status string) *DigitalCredential {
	url := "/public/uploads/qr/" + code + ".png?t=0"
	expiry := time.Now().AddDate(1, 0, 0)
	return repo.put(&DigitalCredential{
		UserID:            userID,
		CredentialNumber:  fmt.Sprintf("PB2024%03d", len(repo.byID)+1),
		VerificationCode:  code,
		PlayerName:        "Maria Torres",
		Nationality:       "Mexican",
		AffiliationStatus: status,
		ClubStatus:        ClubStatusIndependent,
		IssuedDate:        time.Now().AddDate(0, -6, 0),
		ExpiryDate:        &expiry,
		QRCodeURL:         &url,
		QRCodeData:        "http://localhost:3000/verify-credential/" + code,
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestVerifyCredential_RoundTrip(t *testing.T) {
	repo := newFakeRepo()
	seedCredential(repo, 1, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 1, "player")

	w, body := doJSON(t, r, http.MethodGet, "/api/digital-credentials/verify/PB2024001", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	cred := data["credential"].(map[string]interface{})
	verification := data["verification"].(map[string]interface{})

	assert.Equal(t, "PB2024001", cred["verification_code"])
	assert.Equal(t, true, verification["valid"])
	assert.Equal(t, "manual", verification["method"])
	assert.Equal(t, "green", verification["badge"].(map[string]interface{})["color"])
}

func TestVerifyCredential_UnknownCodeIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	seedCredential(repo, 1, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 1, "player")

	w, body := doJSON(t, r, http.MethodGet, "/api/digital-credentials/verify/NOPE1234", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", body["status"])
}

func TestVerifyCredential_ExpiredIsSuccessNotError(t *testing.T) {
	repo := newFakeRepo()
	seedCredential(repo, 1, "PB2024001", StatusExpired)
	r := setupRouter(repo, &fakeQR{}, 1, "player")

	w, body := doJSON(t, r, http.MethodGet, "/api/digital-credentials/verify/PB2024001", "")
	require.Equal(t, http.StatusOK, w.Code)

	verification := body["data"].(map[string]interface{})["verification"].(map[string]interface{})
	assert.Equal(t, false, verification["valid"])
	assert.Equal(t, "This credential has expired", verification["warning"])

	b := verification["badge"].(map[string]interface{})
	assert.Equal(t, "orange", b["color"])
	assert.Equal(t, "clock", b["icon"])
	assert.Equal(t, "Expired", b["label"])
}

func TestVerifyCredential_IdempotencyWindow(t *testing.T) {
	repo := newFakeRepo()
	cred := seedCredential(repo, 1, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 1, "player")

	w1, _ := doJSON(t, r, http.MethodGet, "/api/digital-credentials/verify/PB2024001", "")
	require.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, 1, cred.VerificationCount)

	// Second call inside the window is served from cache: no second increment.
	w2, body := doJSON(t, r, http.MethodGet, "/api/digital-credentials/verify/PB2024001", "")
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, 1, cred.VerificationCount)

	got := body["data"].(map[string]interface{})["credential"].(map[string]interface{})
	assert.Equal(t, float64(1), got["verification_count"])
}

func TestVerifyCredential_CodeIsCaseInsensitive(t *testing.T) {
	repo := newFakeRepo()
	seedCredential(repo, 1, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 1, "player")

	w, _ := doJSON(t, r, http.MethodGet, "/api/digital-credentials/verify/pb2024001", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateCredential(t *testing.T) {
	repo := newFakeRepo()
	repo.users[7] = &user.User{
		Name:             "Maria Torres",
		Nationality:      "Mexican",
		StateAffiliation: "Jalisco",
	}
	r := setupRouter(repo, &fakeQR{}, 7, "player")

	w, body := doJSON(t, r, http.MethodPost, "/api/digital-credentials", "")
	require.Equal(t, http.StatusCreated, w.Code)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.Regexp(t, `^PB\d{4}\d{3}$`, data["credential_number"])
	assert.Len(t, data["verification_code"], verificationCodeLength)
	assert.Equal(t, "Maria Torres", data["player_name"])
	assert.Equal(t, "Jalisco", data["state_affiliation"])
	assert.Equal(t, StatusActive, data["affiliation_status"])
	assert.Equal(t, ClubStatusIndependent, data["club_status"])
	assert.Contains(t, data["qr_code_data"], "/verify-credential/")
}

func TestCreateCredential_ExistingClubMembershipAtIssue(t *testing.T) {
	repo := newFakeRepo()
	repo.users[7] = &user.User{Name: "Maria Torres"}
	repo.clubNames[7] = "Riverside Paddlers"
	r := setupRouter(repo, &fakeQR{}, 7, "player")

	w, body := doJSON(t, r, http.MethodPost, "/api/digital-credentials", "")
	require.Equal(t, http.StatusCreated, w.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, ClubStatusMember, data["club_status"])
	assert.Equal(t, "Riverside Paddlers", data["club_name"])
}

func TestCreateCredential_RetriesOnDuplicateNumber(t *testing.T) {
	base := newFakeRepo()
	base.users[7] = &user.User{Name: "Maria Torres"}
	repo := &dupOnceRepo{fakeRepo: base}
	qr := &fakeQR{}
	r := setupRouter(repo, qr, 7, "player")

	w, body := doJSON(t, r, http.MethodPost, "/api/digital-credentials", "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Second allocation succeeded: one stored credential, two QR renders.
	assert.Len(t, base.byID, 1)
	assert.Equal(t, 2, qr.calls)
	assert.Regexp(t, `^PB\d{4}\d{3}$`, body["data"].(map[string]interface{})["credential_number"])
}

func TestCreateCredential_LostSamePlayerRaceConflicts(t *testing.T) {
	base := newFakeRepo()
	base.users[7] = &user.User{Name: "Maria Torres"}
	repo := &racedRepo{
		fakeRepo: base,
		winner:   &DigitalCredential{UserID: 7, CredentialNumber: "PB2024001", VerificationCode: "WINNER01"},
	}
	r := setupRouter(repo, &fakeQR{}, 7, "player")

	w, _ := doJSON(t, r, http.MethodPost, "/api/digital-credentials", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, base.byID, 1)
}

func TestCreateCredential_SecondCreateConflicts(t *testing.T) {
	repo := newFakeRepo()
	repo.users[7] = &user.User{Name: "Maria Torres"}
	seedCredential(repo, 7, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 7, "player")

	w, _ := doJSON(t, r, http.MethodPost, "/api/digital-credentials", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetMyCredential_NoneIssued(t *testing.T) {
	repo := newFakeRepo()
	r := setupRouter(repo, &fakeQR{}, 9, "player")

	w, _ := doJSON(t, r, http.MethodGet, "/api/digital-credentials/my-credential", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMyCredential(t *testing.T) {
	repo := newFakeRepo()
	seedCredential(repo, 9, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 9, "player")

	w, body := doJSON(t, r, http.MethodGet, "/api/digital-credentials/my-credential", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "PB2024001", data["verification_code"])
}

func TestUpdateCredential_OwnerPartialUpdate(t *testing.T) {
	repo := newFakeRepo()
	cred := seedCredential(repo, 3, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 3, "player")

	w, body := doJSON(t, r, http.MethodPut, "/api/digital-credentials/"+cred.ID,
		`{"nrtp_level": 4.5, "affiliation_status": "suspended"}`)
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, 4.5, data["nrtp_level"])
	// Non-admins cannot touch the affiliation status.
	assert.Equal(t, StatusActive, data["affiliation_status"])
	// Untouched fields survive a partial update.
	assert.Equal(t, "Maria Torres", data["player_name"])
}

func TestUpdateCredential_AdminCanChangeStatus(t *testing.T) {
	repo := newFakeRepo()
	cred := seedCredential(repo, 3, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 99, "admin")

	w, body := doJSON(t, r, http.MethodPut, "/api/digital-credentials/"+cred.ID,
		`{"affiliation_status": "suspended"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StatusSuspended, body["data"].(map[string]interface{})["affiliation_status"])
}

func TestUpdateCredential_NonOwnerForbidden(t *testing.T) {
	repo := newFakeRepo()
	cred := seedCredential(repo, 3, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 4, "player")

	w, _ := doJSON(t, r, http.MethodPut, "/api/digital-credentials/"+cred.ID, `{"nrtp_level": 4.0}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegenerateQRCode(t *testing.T) {
	repo := newFakeRepo()
	cred := seedCredential(repo, 3, "PB2024001", StatusActive)
	oldURL := *cred.QRCodeURL
	r := setupRouter(repo, &fakeQR{}, 3, "player")

	w, body := doJSON(t, r, http.MethodPost, "/api/digital-credentials/"+cred.ID+"/regenerate-qr", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	assert.NotEqual(t, oldURL, data["qr_code_url"])
	// The verification code and credential number are immutable across regeneration.
	assert.Equal(t, "PB2024001", data["verification_code"])
	assert.Equal(t, cred.CredentialNumber, data["credential_number"])
}

func TestRegenerateQRCode_EvictsVerifyCache(t *testing.T) {
	repo := newFakeRepo()
	cred := seedCredential(repo, 3, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 3, "player")

	w1, _ := doJSON(t, r, http.MethodGet, "/api/digital-credentials/verify/PB2024001", "")
	require.Equal(t, http.StatusOK, w1.Code)

	w2, _ := doJSON(t, r, http.MethodPost, "/api/digital-credentials/"+cred.ID+"/regenerate-qr", "")
	require.Equal(t, http.StatusOK, w2.Code)

	// A verify inside the idempotency window must see the fresh QR URL, not
	// the cached pre-regeneration one.
	w3, body := doJSON(t, r, http.MethodGet, "/api/digital-credentials/verify/PB2024001", "")
	require.Equal(t, http.StatusOK, w3.Code)
	got := body["data"].(map[string]interface{})["credential"].(map[string]interface{})
	assert.Equal(t, *cred.QRCodeURL, got["qr_code_url"])
}

func TestRegenerateQRCode_NonOwnerForbidden(t *testing.T) {
	repo := newFakeRepo()
	cred := seedCredential(repo, 3, "PB2024001", StatusActive)
	r := setupRouter(repo, &fakeQR{}, 8, "player")

	w, _ := doJSON(t, r, http.MethodPost, "/api/digital-credentials/"+cred.ID+"/regenerate-qr", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetAllCredentials_ForwardsFilters(t *testing.T) {
	repo := newFakeRepo()
	seedCredential(repo, 1, "PB2024001", StatusActive)
	seedCredential(repo, 2, "PB2024002", StatusExpired)
	r := setupRouter(repo, &fakeQR{}, 99, "admin")

	w, body := doJSON(t, r, http.MethodGet,
		"/api/digital-credentials?page=2&limit=50&affiliation_status=active&state_affiliation=Jalisco&is_verified=true&search=maria", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 2, repo.listSeen.Page)
	assert.Equal(t, 50, repo.listSeen.Limit)
	assert.Equal(t, "active", repo.listSeen.AffiliationStatus)
	assert.Equal(t, "Jalisco", repo.listSeen.StateAffiliation)
	require.NotNil(t, repo.listSeen.IsVerified)
	assert.True(t, *repo.listSeen.IsVerified)
	assert.Equal(t, "maria", repo.listSeen.Search)

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["current_page"])
	assert.Equal(t, float64(50), pagination["page_size"])
}

func TestGetAllCredentials_ClampsBadPaging(t *testing.T) {
	repo := newFakeRepo()
	r := setupRouter(repo, &fakeQR{}, 99, "admin")

	w, _ := doJSON(t, r, http.MethodGet, "/api/digital-credentials?page=0&limit=9999", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, repo.listSeen.Page)
	assert.Equal(t, 20, repo.listSeen.Limit)
}

func TestExpiryWorkerSweep(t *testing.T) {
	repo := newFakeRepo()
	past := time.Now().Add(-24 * time.Hour)
	cred := seedCredential(repo, 1, "PB2024001", StatusActive)
	cred.ExpiryDate = &past
	fresh := seedCredential(repo, 2, "PB2024002", StatusActive)

	w := NewExpiryWorker(repo, time.Hour)
	w.sweep()

	assert.Equal(t, StatusExpired, cred.AffiliationStatus)
	assert.Equal(t, StatusActive, fresh.AffiliationStatus)
}
