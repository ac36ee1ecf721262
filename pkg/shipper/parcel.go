package shipper

import (
	"context"
	"math"
)

// CartItem is one storefront cart line.
type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ProductDimensions holds per-unit shipping attributes of a catalog
// product. Nullable catalog columns are surfaced as zero.
type ProductDimensions struct {
	Weight float64 // kg
	Length float64 // cm
	Width  float64 // cm
	Height float64 // cm
}

// ProductLookup resolves a product id to its shipping dimensions.
// Implementations return (nil, nil) for unknown ids; only genuine
// lookup failures (e.g. a database error) return an error.
type ProductLookup interface {
	Product(ctx context.Context, id int64) (*ProductDimensions, error)
}

// BuildParcel combines cart lines into a single parcel. Quantity is
// clamped to a minimum of 1, a product missing from the catalog
// contributes zero to every dimension, and each total is rounded to
// two decimal places.
func BuildParcel(ctx context.Context, lookup ProductLookup, items []CartItem) (Parcel, error) {
	var p Parcel
	for _, item := range items {
		dims, err := lookup.Product(ctx, item.ProductID)
		if err != nil {
			return Parcel{}, err
		}
		if dims == nil {
			continue
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		n := float64(qty)
		p.Weight += dims.Weight * n
		p.Length += dims.Length * n
		p.Width += dims.Width * n
		p.Height += dims.Height * n
	}
	p.Weight = round2(p.Weight)
	p.Length = round2(p.Length)
	p.Width = round2(p.Width)
	p.Height = round2(p.Height)
	return p, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
