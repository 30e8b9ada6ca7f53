package images

import (
	"context"
	"io"
)

// Asset is a stored image file as the provider knows it.
type Asset struct {
	PublicID string
	URL      string
}

// AssetProvider stores image bytes outside the database.
type AssetProvider interface {
	Upload(ctx context.Context, content io.Reader, filename string) (*Asset, error)
	Delete(ctx context.Context, publicID string) error
}
