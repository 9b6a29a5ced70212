package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/scene"
)

// avatarFingerprint identifies the avatar file for cache keys. It changes
// whenever the file is replaced or modified.
func avatarFingerprint(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	fi, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", errors.New(errors.ErrCodeFileNotFound, "avatar not found: %s", path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	if fi.IsDir() {
		return "", errors.New(errors.ErrCodeInvalidPath, "avatar is a directory: %s", path)
	}
	return fmt.Sprintf("%s:%d:%d", abs, fi.Size(), fi.ModTime().UnixNano()), nil
}

// LoadAvatar loads the avatar image, or returns nil for the placeholder when
// path is empty.
func LoadAvatar(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	return scene.LoadImage(path)
}
