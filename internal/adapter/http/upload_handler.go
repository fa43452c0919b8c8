package http

import (
	"context"
	"io"
	"net/http"

	"billit-client/internal/adapter/middleware"
	"billit-client/internal/gateway"
	"billit-client/internal/usecase/session"

	"github.com/labstack/echo/v4"
)

// Uploader forwards a document to the upstream object-store proxy.
type Uploader interface {
	UploadDocument(ctx context.Context, filename string, r io.Reader) (string, error)
}

type UploadHandler struct {
	uploader Uploader
	sessions *session.Usecase
}

func NewUploadHandler(uploader Uploader, sessions *session.Usecase) *UploadHandler {
	return &UploadHandler{uploader: uploader, sessions: sessions}
}

// Upload streams a multipart "file" part upstream and returns the stored
// URL. Wizard drafts only ever hold these returned references, never bytes.
func (h *UploadHandler) Upload(c echo.Context) error {
	p, err := h.sessions.Restore(c.Request().Context(), middleware.ClientID(c))
	if err != nil {
		return writeError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing file part"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable file part"})
	}
	defer src.Close()

	ctx := gateway.WithBearer(c.Request().Context(), p.BearerToken)
	url, err := h.uploader.UploadDocument(ctx, fh.Filename, src)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
