// Package handlers adapts HTTP requests to the service layer. Handlers bind
// and validate input, resolve the signed-in user and write the standard
// response envelope; every rule lives in the services.
package handlers

import (
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/middleware"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/storage"
	"telehealth-app-server/internal/utils"
)

// currentUser returns the authenticated user's id and role, writing a 401
// when either is missing.
func currentUser(c *gin.Context) (string, models.Role, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return "", "", false
	}
	role, ok := middleware.GetUserRoleFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return "", "", false
	}
	return userID, role, true
}

// readUpload reads the multipart file in field. At most maxBytes+1 bytes are
// read so the service can reject oversized files without buffering them.
func readUpload(c *gin.Context, field string, maxBytes int64) (services.Upload, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		utils.BadRequest(c, "Please choose a file to upload")
		return services.Upload{}, false
	}

	f, err := header.Open()
	if err != nil {
		utils.BadRequest(c, "Could not read the uploaded file")
		return services.Upload{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		utils.BadRequest(c, "Could not read the uploaded file")
		return services.Upload{}, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return services.Upload{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, true
}

// sendFile writes a stored object as a download named name.
func sendFile(c *gin.Context, name string, obj *storage.Object) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}
