package storage

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
)

// UnavailableStore rejects every call. It stands in when MINIO_ENDPOINT is empty.
type UnavailableStore struct{}

var _ portsrepo.BlobStore = UnavailableStore{}

func errNoStorage() error {
	return apperrors.NewAppError(http.StatusServiceUnavailable, "receipt storage is not configured", nil)
}

func (UnavailableStore) Put(context.Context, string, io.Reader, int64, string) error {
	return errNoStorage()
}

func (UnavailableStore) PresignedURL(context.Context, string, time.Duration) (string, error) {
	return "", errNoStorage()
}

func (UnavailableStore) Delete(context.Context, string) error {
	return errNoStorage()
}
