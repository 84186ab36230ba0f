package services

import (
	"net/http"
	"path"
	"strings"

	"github.com/samber/lo"

	"telehealth-app-server/internal/apperr"
)

// Upload is a file received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

var (
	recordContentTypes = contentTypes(
		"application/pdf",
		"image/png", "image/jpeg", "image/jpg", "image/gif", "image/webp",
		"text/plain",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	)
	prescriptionContentTypes = contentTypes("application/pdf", "image/png", "image/jpeg", "image/jpg")
)

func contentTypes(types ...string) map[string]bool {
	return lo.SliceToMap(types, func(t string) (string, bool) { return t, true })
}

// check validates size and type of an upload against maxBytes and allowed.
func (u Upload) check(maxBytes int64, allowed map[string]bool) error {
	if len(u.Data) == 0 {
		return apperr.BadRequest("File is empty")
	}
	if maxBytes > 0 && int64(len(u.Data)) > maxBytes {
		return apperr.New(http.StatusRequestEntityTooLarge, "File is too large")
	}
	if !allowed[baseContentType(u.ContentType)] {
		return apperr.BadRequest("Unsupported file type: " + u.ContentType)
	}
	return nil
}

// baseContentType strips parameters such as charset from a MIME type.
func baseContentType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// safeFileName keeps the last path element of a client supplied name.
func safeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
