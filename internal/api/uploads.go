package api

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"khmerdownload-api/internal/config"

	"github.com/gin-gonic/gin"
)

// saveUpload stores one multipart form file under the upload directory with
// a timestamped name and returns its public /uploads path. A missing field
// is not an error; the empty path means "field not sent".
func saveUpload(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	return storeFile(c, file)
}

func storeFile(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	dst := filepath.Join(config.AppConfig.UploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return "/uploads/" + name, nil
}
