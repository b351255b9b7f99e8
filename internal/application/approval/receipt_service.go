package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/request"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// AllowedReceiptContentTypes is the whitelist of receipt upload types.
// Receipts are proof-of-purchase images or PDFs; everything else is refused
// before any remote call is made.
var AllowedReceiptContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ObjectStorage is the port the receipt sync service needs from durable
// object storage. Implemented by the infrastructure S3 adapter.
type ObjectStorage interface {
	// Put uploads the object and returns a viewable URL for it.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes an object; deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// Exists checks whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)
}

// ReceiptService mirrors receipt images to object storage, exactly once per
// request. It owns the request-to-object mapping and idempotency, not the
// storage mechanics.
type ReceiptService struct {
	expenses   request.ExpenseRepository
	invoices   request.InvoiceRepository
	storage    ObjectStorage
	rootFolder string
	logger     *zap.Logger
}

// NewReceiptService creates a new ReceiptService. rootFolder is the
// configured prefix all receipt objects live under.
func NewReceiptService(
	expenses request.ExpenseRepository,
	invoices request.InvoiceRepository,
	storage ObjectStorage,
	rootFolder string,
	logger *zap.Logger,
) *ReceiptService {
	if rootFolder == "" {
		rootFolder = "receipts"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{
		expenses:   expenses,
		invoices:   invoices,
		storage:    storage,
		rootFolder: rootFolder,
		logger:     logger,
	}
}

// SyncReceipt uploads a request's receipt image and records the reference.
//
// Calling it again with the same arguments and reupload unset returns the
// existing reference without creating a second remote object. With reupload
// set, the new object is uploaded and the reference persisted before the old
// object is removed, so the stored reference never dangles mid-replace.
func (s *ReceiptService) SyncReceipt(
	ctx context.Context,
	requestID uuid.UUID,
	data []byte,
	contentType string,
	reupload bool,
) (ReceiptResult, error) {
	ext, err := validateReceiptPayload(data, contentType)
	if err != nil {
		return ReceiptResult{}, err
	}

	req, err := s.findRequest(ctx, requestID)
	if err != nil {
		return ReceiptResult{}, err
	}
	core := req.RequestCore()

	if core.Receipt != nil && !reupload {
		return ReceiptResult{
			StorageKey: core.Receipt.StorageKey,
			ViewURL:    core.Receipt.ViewURL,
		}, nil
	}

	// The key is deterministic for a given request and content type, so a
	// crash between upload and reference persistence re-syncs to the same
	// object instead of leaking a second one.
	key := s.objectKey(req, ext)

	viewURL, err := s.storage.Put(ctx, key, data, contentType)
	if err != nil {
		return ReceiptResult{}, fmt.Errorf("%w: %s", shared.ErrUploadFailed, err)
	}

	ref := request.ReceiptReference{
		StorageKey: key,
		ViewURL:    viewURL,
		UploadedAt: time.Now(),
	}
	previous := core.Receipt
	if err := core.SetReceipt(ref, reupload); err != nil {
		return ReceiptResult{}, err
	}

	switch req.RequestKind() {
	case request.KindExpense:
		err = s.expenses.UpdateReceipt(ctx, requestID, ref)
	case request.KindInvoice:
		err = s.invoices.UpdateReceipt(ctx, requestID, ref)
	}
	if err != nil {
		return ReceiptResult{}, err
	}

	// Supersede the old object only after the new reference is durable.
	if previous != nil && previous.StorageKey != key {
		if err := s.storage.Delete(ctx, previous.StorageKey); err != nil {
			s.logger.Warn("failed to delete superseded receipt object",
				zap.String("request_id", requestID.String()),
				zap.String("storage_key", previous.StorageKey),
				zap.Error(err))
		}
	}

	s.logger.Info("receipt synced",
		zap.String("request_id", requestID.String()),
		zap.String("storage_key", key))
	return ReceiptResult{StorageKey: key, ViewURL: viewURL}, nil
}

// findRequest loads either request kind by ID
func (s *ReceiptService) findRequest(ctx context.Context, id uuid.UUID) (request.Request, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err == nil {
		return expense, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// objectKey derives the deterministic storage location for a request's
// receipt: root/kind/requester/business-date/request-id.ext
func (s *ReceiptService) objectKey(req request.Request, ext string) string {
	core := req.RequestCore()
	return fmt.Sprintf("%s/%s/%s/%s/%s%s",
		s.rootFolder,
		req.RequestKind(),
		core.RequesterID.String(),
		req.Date().Format("2006-01-02"),
		core.ID.String(),
		ext,
	)
}

// validateReceiptPayload rejects empty buffers and off-whitelist content
// types before any side effect and returns the object extension to use
func validateReceiptPayload(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", shared.ErrInvalidImage)
	}
	ext, ok := AllowedReceiptContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", shared.ErrInvalidImage, contentType)
	}
	return ext, nil
}
