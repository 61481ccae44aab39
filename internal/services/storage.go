package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"tipstock/internal/config"
	"tipstock/internal/utils"
)

// Local disk storage for user icons and tip attachments. Stored names are
// uuid-based so uploads can never collide or traverse paths.

func SaveIcon(fh *multipart.FileHeader) (string, error) {
	limit := config.Get().IconMaxBytes
	if fh.Size > limit {
		return "", &ValidationError{Field: "icon", Message: fmt.Sprintf("icon must be smaller than %dKB", limit/1024)}
	}
	return saveUpload(fh, "icons")
}

func SaveAttachment(fh *multipart.FileHeader) (string, error) {
	limit := config.Get().AttachmentMaxBytes
	if fh.Size > limit {
		return "", &ValidationError{Field: "uploadfile", Message: fmt.Sprintf("upload must be smaller than %dMB", limit/(1024*1024))}
	}
	return saveUpload(fh, "uploadfiles")
}

func saveUpload(fh *multipart.FileHeader, subdir string) (string, error) {
	dir := filepath.Join(config.Get().UploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := utils.StoredFilename(fh.Filename)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}
