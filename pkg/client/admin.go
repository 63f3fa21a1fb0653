package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pasarkampus/pasar/pkg/domain"
)

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// GetDashboardStats returns the analytics summary.
func (c *Client) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var s domain.DashboardStats
	if err := c.get(ctx, "/admin/stats", &s); err != nil {
		return nil, fmt.Errorf("client.GetDashboardStats: %w", err)
	}
	return &s, nil
}

// AdminNotifications returns the counts and latest items behind the notification bell.
func (c *Client) AdminNotifications(ctx context.Context) (*domain.NotificationSummary, error) {
	var s domain.NotificationSummary
	if err := c.get(ctx, "/admin/notifications", &s); err != nil {
		return nil, fmt.Errorf("client.AdminNotifications: %w", err)
	}
	return &s, nil
}

// MarkNotificationsRead clears the unread counter.
func (c *Client) MarkNotificationsRead(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPut, "/admin/notifications/read", nil, nil); err != nil {
		return fmt.Errorf("client.MarkNotificationsRead: %w", err)
	}
	return nil
}

// --- Users ---

// ListUsers returns a page of users; q carries page, limit, search and role filter.
func (c *Client) ListUsers(ctx context.Context, q url.Values) (*domain.Page[domain.User], error) {
	var page domain.Page[domain.User]
	if err := c.get(ctx, withQuery("/admin/users", q), &page); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return &page, nil
}

// SetUserBanned bans or unbans a user.
func (c *Client) SetUserBanned(ctx context.Context, id int64, banned bool) error {
	action := "/unban"
	if banned {
		action = "/ban"
	}
	if err := c.doRequest(ctx, http.MethodPut, idPath("/admin/users", id, action), nil, nil); err != nil {
		return fmt.Errorf("client.SetUserBanned: %w", err)
	}
	return nil
}

// SetUserRole changes a user's role. Only super admins may promote to admin.
func (c *Client) SetUserRole(ctx context.Context, id int64, role domain.Role) error {
	body := map[string]string{"role": string(role)}
	if err := c.doRequest(ctx, http.MethodPut, idPath("/admin/users", id, "/role"), body, nil); err != nil {
		return fmt.Errorf("client.SetUserRole: %w", err)
	}
	return nil
}

// --- Products ---

// ListAdminProducts returns a page of all products, including blocked ones.
func (c *Client) ListAdminProducts(ctx context.Context, q url.Values) (*domain.Page[domain.Product], error) {
	var page domain.Page[domain.Product]
	if err := c.get(ctx, withQuery("/admin/products", q), &page); err != nil {
		return nil, fmt.Errorf("client.ListAdminProducts: %w", err)
	}
	return &page, nil
}

// SetProductStatus moderates a listing (e.g. blocks it).
func (c *Client) SetProductStatus(ctx context.Context, id int64, status domain.ProductStatus) error {
	body := map[string]string{"status": string(status)}
	if err := c.doRequest(ctx, http.MethodPut, idPath("/admin/products", id, "/status"), body, nil); err != nil {
		return fmt.Errorf("client.SetProductStatus: %w", err)
	}
	return nil
}

// DeleteProduct removes a listing.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, idPath("/admin/products", id, ""), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteProduct: %w", err)
	}
	return nil
}

// --- Reports ---

// ListReports returns a page of product reports.
func (c *Client) ListReports(ctx context.Context, q url.Values) (*domain.Page[domain.Report], error) {
	var page domain.Page[domain.Report]
	if err := c.get(ctx, withQuery("/admin/reports", q), &page); err != nil {
		return nil, fmt.Errorf("client.ListReports: %w", err)
	}
	return &page, nil
}

// ResolveReport closes a report as resolved or rejected.
func (c *Client) ResolveReport(ctx context.Context, id int64, status domain.ReportStatus) error {
	body := map[string]string{"status": string(status)}
	if err := c.doRequest(ctx, http.MethodPut, idPath("/admin/reports", id, "/status"), body, nil); err != nil {
		return fmt.Errorf("client.ResolveReport: %w", err)
	}
	return nil
}

// --- Banners ---

// BannerRequest is the payload for creating a banner.
type BannerRequest struct {
	Title    string `json:"judul" validate:"required,max=100"`
	ImageURL string `json:"gambar" validate:"required,url"`
	LinkURL  string `json:"link,omitempty" validate:"omitempty,url"`
	Order    int    `json:"urutan" validate:"gte=0"`
}

// ListAdminBanners returns a page of banners, active or not.
func (c *Client) ListAdminBanners(ctx context.Context, q url.Values) (*domain.Page[domain.Banner], error) {
	var page domain.Page[domain.Banner]
	if err := c.get(ctx, withQuery("/admin/banners", q), &page); err != nil {
		return nil, fmt.Errorf("client.ListAdminBanners: %w", err)
	}
	return &page, nil
}

// CreateBanner adds a banner.
func (c *Client) CreateBanner(ctx context.Context, req BannerRequest) (*domain.Banner, error) {
	var b domain.Banner
	if err := c.post(ctx, "/admin/banners", req, &b); err != nil {
		return nil, fmt.Errorf("client.CreateBanner: %w", err)
	}
	return &b, nil
}

// ToggleBanner flips a banner between active and inactive.
func (c *Client) ToggleBanner(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodPut, idPath("/admin/banners", id, "/toggle"), nil, nil); err != nil {
		return fmt.Errorf("client.ToggleBanner: %w", err)
	}
	return nil
}

// DeleteBanner removes a banner.
func (c *Client) DeleteBanner(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, idPath("/admin/banners", id, ""), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteBanner: %w", err)
	}
	return nil
}

// --- Seller verification ---

// ListVerifications returns a page of seller verification requests.
func (c *Client) ListVerifications(ctx context.Context, q url.Values) (*domain.Page[domain.VerificationRequest], error) {
	var page domain.Page[domain.VerificationRequest]
	if err := c.get(ctx, withQuery("/admin/verifications", q), &page); err != nil {
		return nil, fmt.Errorf("client.ListVerifications: %w", err)
	}
	return &page, nil
}

// ReviewVerification approves or rejects a request; note is shown to the applicant.
func (c *Client) ReviewVerification(ctx context.Context, id int64, approve bool, note string) error {
	action := "/reject"
	if approve {
		action = "/approve"
	}
	body := map[string]string{"catatan": note}
	if err := c.doRequest(ctx, http.MethodPut, idPath("/admin/verifications", id, action), body, nil); err != nil {
		return fmt.Errorf("client.ReviewVerification: %w", err)
	}
	return nil
}

// --- Activity log ---

// ListActivityLogs returns a page of audited admin actions (super admin only).
func (c *Client) ListActivityLogs(ctx context.Context, q url.Values) (*domain.Page[domain.ActivityLog], error) {
	var page domain.Page[domain.ActivityLog]
	if err := c.get(ctx, withQuery("/admin/activity-logs", q), &page); err != nil {
		return nil, fmt.Errorf("client.ListActivityLogs: %w", err)
	}
	return &page, nil
}
