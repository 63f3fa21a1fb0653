package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pasarkampus/pasar/pkg/domain"
)

// ProductQuery filters the public product list.
type ProductQuery struct {
	Search   string
	Category string
	Sort     string
	Page     int
	Limit    int
}

func (q ProductQuery) values() url.Values {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("kategori", q.Category)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params
}

// ListProducts fetches a page of active listings.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*domain.Page[domain.Product], error) {
	var page domain.Page[domain.Product]
	if err := c.get(ctx, "/products?"+q.values().Encode(), &page); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return &page, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/products/"+strconv.FormatInt(id, 10), &p); err != nil {
		return nil, fmt.Errorf("client.GetProduct: %w", err)
	}
	return &p, nil
}

// ListBanners returns the active home-page banners.
func (c *Client) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	var banners []domain.Banner
	if err := c.get(ctx, "/banners", &banners); err != nil {
		return nil, fmt.Errorf("client.ListBanners: %w", err)
	}
	return banners, nil
}

// ReportRequest is the payload for reporting a listing.
type ReportRequest struct {
	ProductID   int64  `json:"produk_id" validate:"required,gt=0"`
	Reason      string `json:"alasan" validate:"required"`
	Description string `json:"deskripsi" validate:"max=500"`
}

// ReportProduct files a report against a listing.
func (c *Client) ReportProduct(ctx context.Context, req ReportRequest) (*domain.Report, error) {
	var r domain.Report
	if err := c.post(ctx, "/reports", req, &r); err != nil {
		return nil, fmt.Errorf("client.ReportProduct: %w", err)
	}
	return &r, nil
}

// VerificationSubmission is a buyer's application to become a seller.
type VerificationSubmission struct {
	StudentID string `json:"nim" validate:"required,numeric,min=8,max=15"`
	Faculty   string `json:"fakultas" validate:"required"`
	Phone     string `json:"no_hp" validate:"required,numeric,min=10,max=15"`
}

// SubmitVerification sends the seller verification form.
func (c *Client) SubmitVerification(ctx context.Context, req VerificationSubmission) (*domain.VerificationRequest, error) {
	var v domain.VerificationRequest
	if err := c.post(ctx, "/seller/verification", req, &v); err != nil {
		return nil, fmt.Errorf("client.SubmitVerification: %w", err)
	}
	return &v, nil
}

// GetVerification returns the caller's latest verification request.
func (c *Client) GetVerification(ctx context.Context) (*domain.VerificationRequest, error) {
	var v domain.VerificationRequest
	if err := c.get(ctx, "/seller/verification", &v); err != nil {
		return nil, fmt.Errorf("client.GetVerification: %w", err)
	}
	return &v, nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name  string `json:"nama,omitempty" validate:"omitempty,max=100"`
	Phone string `json:"no_hp,omitempty" validate:"omitempty,numeric,min=10,max=15"`
}

// UpdateProfile saves profile fields and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.doRequest(ctx, http.MethodPut, "/auth/me", req, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &u, nil
}
