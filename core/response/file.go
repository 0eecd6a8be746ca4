package response

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/simplecdn/core/handler"
)

// Download serves content as an attachment named filename. Range and
// conditional requests are handled by http.ServeContent. The caller keeps
// ownership of content and closes it after the response is rendered.
func Download(content io.ReadSeeker, filename string, modTime time.Time) handler.Response {
	name := sanitizeFilename(filename)

	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))

		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)

		http.ServeContent(w, r, name, modTime, content)
		return nil
	}
}

// Attachment creates a response for downloading in-memory data as a file.
// If contentType is empty it is detected from the filename extension.
func Attachment(data []byte, filename string, contentType string) handler.Response {
	name := sanitizeFilename(filename)

	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))

		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(name))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))

		w.WriteHeader(http.StatusOK)
		_, err := w.Write(data)
		return err
	}
}

// sanitizeFilename strips characters that could break out of the quoted
// Content-Disposition parameter.
func sanitizeFilename(filename string) string {
	name := strings.ReplaceAll(filename, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	return strings.ReplaceAll(name, "\"", "'")
}
