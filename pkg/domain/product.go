package domain

import (
	"strconv"
	"time"
)

// ProductStatus is the listing state of a product.
type ProductStatus string

const (
	ProductActive   ProductStatus = "aktif"
	ProductInactive ProductStatus = "nonaktif"
	ProductSold     ProductStatus = "terjual"
	ProductBlocked  ProductStatus = "diblokir"
)

// Product is a listing posted by a verified seller.
type Product struct {
	ID          int64         `json:"id"`
	Name        string        `json:"nama"`
	Description string        `json:"deskripsi,omitempty"`
	Price       int64         `json:"harga"`
	Category    string        `json:"kategori"`
	Condition   string        `json:"kondisi,omitempty"`
	Images      []string      `json:"gambar,omitempty"`
	Status      ProductStatus `json:"status"`
	SellerID    int64         `json:"penjual_id"`
	Seller      *User         `json:"penjual,omitempty"`
	Views       int           `json:"dilihat"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Categories offered by the product filter.
var Categories = []string{
	"buku",
	"elektronik",
	"fashion",
	"makanan",
	"perabot",
	"jasa",
	"lainnya",
}

// FormatRupiah renders an amount the way prices are printed on campus: "Rp 150.000".
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i])
	}
	if neg {
		return "-Rp " + string(out)
	}
	return "Rp " + string(out)
}
