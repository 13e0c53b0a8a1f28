package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	dirPermUserGroupRX = 0o755
	filePermUserRW     = 0o644
)

// TryWriteFile writes content to a file path, handling force/overwrite logic.
//
// If the output file already exists and force is false, the write is skipped
// and the content is returned unchanged. Parent directories are created as
// needed.
func TryWriteFile(content string, output string, force bool) (string, error) {
	if output == "" {
		return "", ErrEmptyOutputPath
	}

	output = filepath.Clean(output)

	if !force {
		_, err := os.Stat(output)
		if err == nil {
			return content, nil // File exists and force is false, skip writing
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to check file %s: %w", output, err)
		}
	}

	dir := filepath.Dir(output)

	err := os.MkdirAll(dir, dirPermUserGroupRX)
	if err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	err = os.WriteFile(output, []byte(content), filePermUserRW)
	if err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", output, err)
	}

	return content, nil
}

// CopyFile copies the file at source to destination byte-for-byte,
// overwriting any existing destination file. The destination's parent
// directory must already exist.
func CopyFile(source, destination string) error {
	if source == "" {
		return ErrEmptySourcePath
	}

	if destination == "" {
		return ErrEmptyOutputPath
	}

	in, err := os.Open(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", source, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(
		filepath.Clean(destination),
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		filePermUserRW,
	)
	if err != nil {
		return fmt.Errorf("failed to open destination file %s: %w", destination, err)
	}

	_, copyErr := io.Copy(out, in)

	closeErr := out.Close()

	if copyErr != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", source, destination, copyErr)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to finalize destination file %s: %w", destination, closeErr)
	}

	return nil
}
