package image

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

// Repository absorbs API failures into safe defaults.
type Repository struct {
	api    *API
	logger *slog.Logger
	Images *resource.Repository[domain.Image]
}

// NewRepository wraps api. A nil logger uses slog.Default().
func NewRepository(api *API, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{api: api, logger: logger, Images: resource.NewRepository(api.Images, logger)}
}

// Upload returns the stored image, or nil on failure.
func (r *Repository) Upload(ctx context.Context, file transport.File, description string) resource.Result[*domain.Image] {
	return resource.CollectOne(ctx, r.logger, domain.PathImages, "upload", func(ctx context.Context) (*domain.Image, error) {
		return r.api.Upload(ctx, file, description)
	})
}

// UploadMany returns the stored images, or an empty slice on failure.
func (r *Repository) UploadMany(ctx context.Context, files []transport.File, description string) resource.Result[[]domain.Image] {
	return resource.CollectList(ctx, r.logger, domain.PathImages, "upload multiple", func(ctx context.Context) ([]domain.Image, error) {
		return r.api.UploadMany(ctx, files, description)
	})
}

// Download returns the image bytes, or nil on failure.
func (r *Repository) Download(ctx context.Context, img domain.Image) resource.Result[[]byte] {
	data, err := r.api.Download(ctx, img)
	if err != nil {
		r.logger.ErrorContext(ctx, "api call failed",
			slog.String("resource", domain.PathImages),
			slog.String("op", "download"),
			slog.Int("code", domain.ErrorCode(err)),
			slog.Any("error", err),
		)
		return resource.Result[[]byte]{Outcome: resource.Failed, Err: err}
	}
	if len(data) == 0 {
		return resource.Result[[]byte]{Value: data, Outcome: resource.Empty}
	}
	return resource.Result[[]byte]{Value: data, Outcome: resource.OK}
}

// ImagesCSV renders gallery entries as CSV text.
func ImagesCSV(items []domain.Image) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, img := range items {
		rows = append(rows, []string{
			img.ImageCode, img.FileName, img.ContentType,
			strconv.FormatInt(img.Size, 10),
			img.Description, img.URL,
			img.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return pkg.WriteCSV([]string{"Code", "File", "Type", "Size", "Description", "URL", "Created"}, rows)
}
