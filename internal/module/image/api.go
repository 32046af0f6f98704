// Package image manages the image gallery: uploads, downloads and the
// picker used by product and combo forms.
package image

import (
	"context"
	"errors"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

// API binds the image gallery to a transport client.
type API struct {
	tc     *transport.Client
	Images *resource.Client[domain.Image]
}

// NewAPI returns the image API over tc.
func NewAPI(tc *transport.Client) *API {
	return &API{tc: tc, Images: resource.NewClient[domain.Image](tc, domain.PathImages)}
}

// Upload stores one file in the gallery.
func (a *API) Upload(ctx context.Context, file transport.File, description string) (*domain.Image, error) {
	img, err := transport.Upload[domain.Image](ctx, a.tc, a.Images.Path("upload"), file, describe(description))
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// UploadMany stores several files in one request. Every file shares the
// description.
func (a *API) UploadMany(ctx context.Context, files []transport.File, description string) ([]domain.Image, error) {
	if len(files) == 0 {
		return nil, domain.NewAppError(domain.CodeBadRequest, "no files to upload", nil)
	}
	imgs, err := transport.UploadMultiple[[]domain.Image](ctx, a.tc, a.Images.Path("upload-multiple"), files, describe(description))
	if err != nil {
		return nil, err
	}
	if imgs == nil {
		imgs = []domain.Image{}
	}
	return imgs, nil
}

// Download fetches the bytes behind img.URL.
func (a *API) Download(ctx context.Context, img domain.Image) ([]byte, error) {
	if img.URL == "" {
		return nil, domain.NewClientError(errors.New("image has no url"))
	}
	return a.tc.Download(ctx, img.URL, nil)
}

func describe(description string) map[string]string {
	if description == "" {
		return nil
	}
	return map[string]string{"description": description}
}
