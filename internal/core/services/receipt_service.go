package services

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/google/uuid"
)

// MaxReceiptSize caps uploaded receipt files.
const MaxReceiptSize = 10 << 20

type receiptService struct {
	BaseService
	receiptRepo portsrepo.ReceiptRepositoryFacade
	blobs       portsrepo.BlobStore
	resolver    portssvc.EntityResolver
	urlTTL      time.Duration
}

// NewReceiptService creates the service storing receipt files in blobs.
func NewReceiptService(base BaseService, repos portsrepo.RepositoryProvider, blobs portsrepo.BlobStore, resolver portssvc.EntityResolver, urlTTL time.Duration) portssvc.ReceiptSvcFacade {
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &receiptService{
		BaseService: base,
		receiptRepo: repos.ReceiptRepo,
		blobs:       blobs,
		resolver:    resolver,
		urlTTL:      urlTTL,
	}
}

var _ portssvc.ReceiptSvcFacade = (*receiptService)(nil)

func allowedReceiptType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

func (s *receiptService) UploadReceipt(ctx context.Context, actor domain.Actor, upload portssvc.ReceiptUpload) (*dto.ReceiptResponse, error) {
	if upload.Owner.Type != domain.EntityExpense && upload.Owner.Type != domain.EntityTransport {
		return nil, apperrors.NewValidationFailedError("receipts can only be attached to expenses and transports")
	}
	if upload.Size <= 0 || upload.Size > MaxReceiptSize {
		return nil, apperrors.NewValidationFailedError("receipt must be between 1 byte and 10 MB")
	}
	if !allowedReceiptType(upload.ContentType) {
		return nil, apperrors.NewValidationFailedError("receipt must be an image or a PDF")
	}
	if _, err := s.resolver.Resolve(ctx, upload.Owner); err != nil {
		return nil, err
	}

	now := s.now()
	receiptID := uuid.NewString()
	receipt := domain.Receipt{
		ReceiptID:        receiptID,
		Owner:            upload.Owner,
		ObjectKey:        path.Join(string(upload.Owner.Type), upload.Owner.ID, receiptID+strings.ToLower(path.Ext(upload.Filename))),
		OriginalFilename: path.Base(upload.Filename),
		ContentType:      upload.ContentType,
		Size:             upload.Size,
		UploadedBy:       actor.DisplayName(),
		UploadedAt:       now,
	}

	if err := s.blobs.Put(ctx, receipt.ObjectKey, upload.Body, upload.Size, upload.ContentType); err != nil {
		s.LogError(ctx, err, "Failed to store receipt", slog.String("owner", upload.Owner.String()))
		return nil, err
	}
	if err := s.receiptRepo.SaveReceipt(ctx, receipt); err != nil {
		if delErr := s.blobs.Delete(ctx, receipt.ObjectKey); delErr != nil {
			s.LogError(ctx, delErr, "Failed to remove orphaned receipt", slog.String("object_key", receipt.ObjectKey))
		}
		s.LogError(ctx, err, "Failed to save receipt", slog.String("owner", upload.Owner.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Receipt uploaded",
		slog.String("receipt_id", receipt.ReceiptID),
		slog.String("owner", upload.Owner.String()))
	return s.withURL(ctx, receipt)
}

func (s *receiptService) withURL(ctx context.Context, r domain.Receipt) (*dto.ReceiptResponse, error) {
	url, err := s.blobs.PresignedURL(ctx, r.ObjectKey, s.urlTTL)
	if err != nil {
		return nil, err
	}
	return &dto.ReceiptResponse{Receipt: r, URL: url}, nil
}

func (s *receiptService) ListReceipts(ctx context.Context, owner domain.EntityRef) ([]dto.ReceiptResponse, error) {
	receipts, err := s.receiptRepo.ListReceipts(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		resp, err := s.withURL(ctx, r)
		if err != nil {
			s.LogError(ctx, err, "Failed to sign receipt URL", slog.String("receipt_id", r.ReceiptID))
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *receiptService) DeleteReceipt(ctx context.Context, actor domain.Actor, receiptID string) error {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return err
	}
	if err := s.receiptRepo.DeleteReceipt(ctx, receiptID); err != nil {
		s.LogError(ctx, err, "Failed to delete receipt", slog.String("receipt_id", receiptID))
		return err
	}
	if err := s.blobs.Delete(ctx, receipt.ObjectKey); err != nil {
		s.LogError(ctx, err, "Receipt row deleted but object removal failed",
			slog.String("object_key", receipt.ObjectKey))
	}
	s.LogInfo(ctx, "Receipt deleted",
		slog.String("receipt_id", receiptID),
		slog.String("user_id", actor.UserID))
	return nil
}
