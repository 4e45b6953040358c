package client

import "time"

// Credential mirrors the wire shape of a digital credential.
type Credential struct {
	ID                string     `json:"id"`
	CredentialNumber  string     `json:"credential_number"`
	VerificationCode  string     `json:"verification_code"`
	PlayerName        string     `json:"player_name"`
	NRTPLevel         *float64   `json:"nrtp_level"`
	StateAffiliation  *string    `json:"state_affiliation"`
	Nationality       string     `json:"nationality"`
	AffiliationStatus string     `json:"affiliation_status"`
	ClubStatus        string     `json:"club_status"`
	ClubName          *string    `json:"club_name,omitempty"`
	RankingPosition   *int       `json:"ranking_position"`
	IssuedDate        time.Time  `json:"issued_date"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	LastVerified      *time.Time `json:"last_verified"`
	VerificationCount int        `json:"verification_count"`
	QRCodeURL         *string    `json:"qr_code_url"`
	QRCodeData        string     `json:"qr_code_data"`
}

// Verification is the outcome block returned alongside a verified credential.
type Verification struct {
	Valid      bool      `json:"valid"`
	VerifiedAt time.Time `json:"verified_at"`
	Method     string    `json:"method"`
	Warning    string    `json:"warning,omitempty"`
}

// VerifyResult pairs the resolved credential with its verification outcome.
type VerifyResult struct {
	Credential   *Credential  `json:"credential"`
	Verification Verification `json:"verification"`
}

// UpdateRequest is a partial credential update; nil fields are not sent.
type UpdateRequest struct {
	PlayerName        *string    `json:"player_name,omitempty"`
	NRTPLevel         *float64   `json:"nrtp_level,omitempty"`
	StateAffiliation  *string    `json:"state_affiliation,omitempty"`
	Nationality       *string    `json:"nationality,omitempty"`
	RankingPosition   *int       `json:"ranking_position,omitempty"`
	AffiliationStatus *string    `json:"affiliation_status,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
}

// ListParams select and page the admin collection server-side.
type ListParams struct {
	Page              int
	Limit             int
	AffiliationStatus string
	StateAffiliation  string
	IsVerified        *bool
	Search            string
}

// Pagination is the server's paging block for list responses.
type Pagination struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}
