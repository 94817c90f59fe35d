package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MediaStore is the blob store consumed by the publish flow. It wraps the
// Cloudinary SDK behind the small surface the handlers need.
type MediaStore struct {
	client *cloudinary.Cloudinary
}

// UploadResult describes a stored media asset.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
}

// New creates a MediaStore from a CLOUDINARY_URL connection string.
func New(cloudinaryURL string) (*MediaStore, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL not provided")
	}
	client, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("error initializing cloudinary client: %w", err)
	}
	log.Println("Cloudinary media store initialized successfully!")
	return &MediaStore{client: client}, nil
}

// Upload stores a base64 data URI or remote URL under the user's folder and
// returns the asset descriptor.
func (s *MediaStore) Upload(ctx context.Context, payload, userID, folder string) (*UploadResult, error) {
	if folder == "" {
		folder = "posts"
	}
	resp, err := s.client.Upload.Upload(ctx, payload, uploader.UploadParams{
		Folder: fmt.Sprintf("artconnect/%s/%s", folder, userID),
	})
	if err != nil {
		return nil, err
	}
	return &UploadResult{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
		Width:    resp.Width,
		Height:   resp.Height,
		Format:   resp.Format,
		Bytes:    resp.Bytes,
	}, nil
}

// Delete removes an asset by its public ID.
func (s *MediaStore) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// Metadata fetches the stored descriptor of an asset by its public ID.
func (s *MediaStore) Metadata(ctx context.Context, publicID string) (*UploadResult, error) {
	resp, err := s.client.Admin.Asset(ctx, admin.AssetParams{PublicID: publicID})
	if err != nil {
		return nil, err
	}
	return &UploadResult{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
		Width:    resp.Width,
		Height:   resp.Height,
		Format:   resp.Format,
		Bytes:    resp.Bytes,
	}, nil
}
