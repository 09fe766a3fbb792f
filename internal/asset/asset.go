// Package asset stores uploaded profile images on the local filesystem under
// a directory per owner and hands back a URL-style reference.
package asset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	dErrors "resa/pkg/domain-errors"
)

// DefaultURLPrefix is the reference prefix for stored files.
const DefaultURLPrefix = "/media"

// Upload is a validated file received from a client.
type Upload struct {
	Filename string
	Content  io.Reader
}

// LocalStore writes assets below Root.
type LocalStore struct {
	root      string
	urlPrefix string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root, urlPrefix: DefaultURLPrefix}
}

// Store writes the upload to {root}/{ownerKey}/{uuid}{ext} and returns
// {prefix}/{ownerKey}/{uuid}{ext}. The file is renamed into place only after
// it is fully written and synced.
func (s *LocalStore) Store(ctx context.Context, ownerKey string, upload Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeTimeout, "asset write aborted")
	}
	if !validOwnerKey(ownerKey) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid asset owner key")
	}
	if upload.Content == nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "asset content is required")
	}

	dir := filepath.Join(s.root, ownerKey)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create asset directory")
	}

	name := uuid.NewString() + filepath.Ext(upload.Filename)
	if err := writeAtomic(filepath.Join(dir, name), upload.Content); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store asset")
	}
	return path.Join(s.urlPrefix, ownerKey, name), nil
}

// Remove deletes a previously stored asset. Missing files are not an error.
func (s *LocalStore) Remove(_ context.Context, ref string) error {
	rel, ok := strings.CutPrefix(ref, s.urlPrefix+"/")
	if !ok {
		return dErrors.New(dErrors.CodeInvalidInput, "asset reference outside store")
	}
	owner, name, ok := strings.Cut(rel, "/")
	if !ok || !validOwnerKey(owner) || !validOwnerKey(name) {
		return dErrors.New(dErrors.CodeInvalidInput, "malformed asset reference")
	}
	if err := os.Remove(filepath.Join(s.root, owner, name)); err != nil && !os.IsNotExist(err) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove asset")
	}
	return nil
}

// validOwnerKey rejects anything that could escape the owner's directory.
func validOwnerKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`) && !strings.Contains(key, "\x00")
}

func writeAtomic(dst string, r io.Reader) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("copy upload: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync upload: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close upload: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod upload: %w", err)
	}
	return os.Rename(tmp.Name(), dst)
}
