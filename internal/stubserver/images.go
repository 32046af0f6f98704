package stubserver

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
)

const maxUploadSize = 32 << 20

type imageHandler struct {
	store *Store
	now   func() time.Time
}

// upload handles POST api/images/upload with a "file" part.
func (h *imageHandler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeBadRequest, "file part is required", err))
		return
	}
	img, err := h.save(c, fh)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, img)
}

// uploadMultiple handles POST api/images/upload-multiple with "files" parts.
func (h *imageHandler) uploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeBadRequest, "multipart form is required", err))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		pkg.Error(c, domain.NewAppError(domain.CodeBadRequest, "files part is required", nil))
		return
	}
	out := make([]domain.Image, 0, len(files))
	for _, fh := range files {
		img, err := h.save(c, fh)
		if err != nil {
			pkg.Error(c, err)
			return
		}
		out = append(out, img)
	}
	pkg.Created(c, out)
}

func (h *imageHandler) save(c *gin.Context, fh *multipart.FileHeader) (domain.Image, error) {
	if fh.Size > maxUploadSize {
		return domain.Image{}, domain.NewAppError(domain.CodeValidation, "file exceeds 32MB", nil)
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Image{}, domain.NewAppError(domain.CodeBadRequest, "open upload", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.Image{}, domain.NewAppError(domain.CodeBadRequest, "read upload", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	name := path.Base(fh.Filename)
	code := pkg.GenerateCode("IMG")

	img := domain.Image{
		ImageCode:   code,
		FileName:    name,
		URL:         publicBase(c) + "/files/" + code + "/" + url.PathEscape(name),
		ContentType: contentType,
		Size:        int64(len(data)),
		Description: c.PostForm("description"),
		CreatedAt:   h.now().UTC(),
	}
	created, err := h.store.Images.Create(img)
	if err != nil {
		return domain.Image{}, err
	}
	h.store.putFile(code, storedFile{name: name, contentType: contentType, data: data})
	return created, nil
}

// serveFile handles GET /files/:code/:name.
func (h *imageHandler) serveFile(c *gin.Context) {
	f, ok := h.store.file(c.Param("code"))
	if !ok || f.name != c.Param("name") {
		pkg.Error(c, domain.ErrNotFound)
		return
	}
	c.Data(http.StatusOK, f.contentType, f.data)
}

func publicBase(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
