package assistant

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedAttachment is returned for attachments that are not plain text
var ErrUnsupportedAttachment = errors.New("unsupported attachment type")

// ReadAttachment returns the text of a .txt attachment
func ReadAttachment(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAttachment, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read attachment: %w", err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
