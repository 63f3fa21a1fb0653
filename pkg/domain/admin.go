package domain

import "time"

// ReportStatus is the moderation state of a product report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
	ReportRejected ReportStatus = "rejected"
)

// Report is a buyer's complaint about a listing.
type Report struct {
	ID          int64        `json:"id"`
	ProductID   int64        `json:"produk_id"`
	Product     *Product     `json:"produk,omitempty"`
	ReporterID  int64        `json:"pelapor_id"`
	Reporter    *User        `json:"pelapor,omitempty"`
	Reason      string       `json:"alasan"`
	Description string       `json:"deskripsi,omitempty"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ReportReasons are the reasons a report form offers.
var ReportReasons = []string{
	"penipuan",
	"barang_terlarang",
	"informasi_palsu",
	"spam",
	"lainnya",
}

// Banner is a home-page carousel slide managed by admins.
type Banner struct {
	ID        int64     `json:"id"`
	Title     string    `json:"judul"`
	ImageURL  string    `json:"gambar"`
	LinkURL   string    `json:"link,omitempty"`
	Active    bool      `json:"is_active"`
	Order     int       `json:"urutan"`
	CreatedAt time.Time `json:"created_at"`
}

// VerificationRequest is a buyer's application to sell.
type VerificationRequest struct {
	ID         int64              `json:"id"`
	UserID     int64              `json:"user_id"`
	User       *User              `json:"user,omitempty"`
	StudentID  string             `json:"nim"`
	Faculty    string             `json:"fakultas"`
	Phone      string             `json:"no_hp"`
	CardImage  string             `json:"foto_ktm,omitempty"`
	Status     VerificationStatus `json:"status"`
	Note       string             `json:"catatan,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	ReviewedAt *time.Time         `json:"reviewed_at,omitempty"`
}

// ActivityLog is one audited admin action.
type ActivityLog struct {
	ID         int64     `json:"id"`
	AdminID    int64     `json:"admin_id"`
	AdminName  string    `json:"admin_nama"`
	Action     string    `json:"aksi"`
	TargetType string    `json:"target_tipe"`
	TargetID   int64     `json:"target_id"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DashboardStats is the analytics summary on the admin dashboard.
type DashboardStats struct {
	TotalUsers           int `json:"total_users"`
	TotalSellers         int `json:"total_sellers"`
	TotalProducts        int `json:"total_products"`
	ActiveProducts       int `json:"active_products"`
	PendingReports       int `json:"pending_reports"`
	PendingVerifications int `json:"pending_verifications"`
	NewUsersThisWeek     int `json:"new_users_this_week"`
}

// Notification is a single back-office notification.
type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"pesan"`
	RefID     int64     `json:"ref_id,omitempty"`
	Read      bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationSummary is what the admin notification bell polls for.
type NotificationSummary struct {
	PendingVerifications int            `json:"pending_verifications"`
	PendingReports       int            `json:"pending_reports"`
	Unread               int            `json:"unread"`
	Items                []Notification `json:"items"`
}

// Total is the badge count shown next to the bell.
func (s NotificationSummary) Total() int {
	return s.PendingVerifications + s.PendingReports + s.Unread
}
