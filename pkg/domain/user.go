package domain

import "time"

// VerificationStatus tracks a buyer's request to become a seller.
type VerificationStatus string

const (
	VerificationNone     VerificationStatus = ""
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// User represents a marketplace account.
type User struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"nama"`
	Email              string             `json:"email"`
	Avatar             string             `json:"avatar,omitempty"`
	Role               Role               `json:"role"`
	VerificationStatus VerificationStatus `json:"status_verifikasi,omitempty"`
	StudentID          string             `json:"nim,omitempty"`
	Faculty            string             `json:"fakultas,omitempty"`
	Phone              string             `json:"no_hp,omitempty"`
	Banned             bool               `json:"is_banned,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

// DisplayName falls back to the email when the profile has no name yet.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
