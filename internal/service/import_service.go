package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nossamoto/backend/internal/cache"
	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/repository"
	"github.com/nossamoto/backend/internal/storage"
	"github.com/nossamoto/backend/pkg/extractor"
)

// PendingBatchTTL bounds how long an extracted batch waits for confirmation.
const PendingBatchTTL = time.Hour

// ImportResult reports how many records a confirmed batch appended.
type ImportResult struct {
	Motorcycles  int `json:"motorcycles"`
	Coefficients int `json:"coefficients"`
}

// ImportService runs the two-step bulk import: extraction into a pending
// batch, then confirmation into the reference data.
type ImportService interface {
	// Extract runs the extractor and stores the result as the pending batch
	// of owner, replacing any earlier one.
	Extract(ctx context.Context, owner string, doc extractor.Document) (*model.ImportBatch, error)
	// Confirm appends the pending batch of owner if batchID is still current.
	Confirm(ctx context.Context, owner, batchID string) (*ImportResult, error)
}

type importService struct {
	extractor    extractor.Extractor
	cache        cache.Cache
	motorcycles  repository.MotorcycleRepository
	coefficients repository.CoefficientRepository
	archive      storage.Storage
	now          func() time.Time
}

// ImportOption configures optional collaborators of the import service.
type ImportOption func(*importService)

// WithDocumentArchive keeps every uploaded document under
// imports/<batch-id>/. Documents of superseded batches are removed.
func WithDocumentArchive(s storage.Storage) ImportOption {
	return func(svc *importService) { svc.archive = s }
}

// NewImportService returns an ImportService. A nil extractor disables
// extraction.
func NewImportService(
	ex extractor.Extractor,
	c cache.Cache,
	motorcycles repository.MotorcycleRepository,
	coefficients repository.CoefficientRepository,
	opts ...ImportOption,
) ImportService {
	svc := &importService{
		extractor:    ex,
		cache:        c,
		motorcycles:  motorcycles,
		coefficients: coefficients,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func pendingKey(owner string) string {
	return "import:pending:" + owner
}

func (s *importService) Extract(ctx context.Context, owner string, doc extractor.Document) (*model.ImportBatch, error) {
	if s.extractor == nil {
		return nil, ErrImportNotConfigured
	}
	out, err := s.extractor.Extract(ctx, doc)
	if errors.Is(err, extractor.ErrNotConfigured) {
		return nil, ErrImportNotConfigured
	}
	if err != nil {
		return nil, err
	}

	batch := &model.ImportBatch{
		ID:           uuid.NewString(),
		Motorcycles:  make([]*model.Motorcycle, 0, len(out.Motorcycles)),
		Coefficients: make([]*model.CoefficientRule, 0, len(out.Coefficients)),
		CreatedAt:    s.now().UTC(),
	}
	for _, m := range out.Motorcycles {
		batch.Motorcycles = append(batch.Motorcycles, &model.Motorcycle{Name: m.Name, Price: m.Price})
	}
	for _, c := range out.Coefficients {
		batch.Coefficients = append(batch.Coefficients, &model.CoefficientRule{
			Term:           c.Term,
			DownPaymentMin: c.DownPaymentMin,
			DownPaymentMax: c.DownPaymentMax,
			Value:          c.Value,
			Motorcycle:     c.Motorcycle,
			Bank:           c.Bank,
		})
	}
	if batch.IsEmpty() {
		return nil, extractor.ErrEmptyExtraction
	}

	previous := s.pending(ctx, owner)
	batch.SourceDocument = s.archiveDocument(ctx, batch.ID, doc)

	b, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, pendingKey(owner), string(b), PendingBatchTTL); err != nil {
		return nil, err
	}
	if previous != nil {
		s.discardDocument(ctx, previous.SourceDocument)
	}
	slog.Info("import batch extracted", "batch_id", batch.ID, "document", doc.Name,
		"motorcycles", len(batch.Motorcycles), "coefficients", len(batch.Coefficients))
	return batch, nil
}

func (s *importService) pending(ctx context.Context, owner string) *model.ImportBatch {
	raw, ok := s.cache.Get(ctx, pendingKey(owner))
	if !ok {
		return nil
	}
	var batch model.ImportBatch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		return nil
	}
	return &batch
}

// archiveDocument stores the upload and returns its reference. Archiving is
// best effort: a failure is logged and the batch proceeds without it.
func (s *importService) archiveDocument(ctx context.Context, batchID string, doc extractor.Document) string {
	if s.archive == nil {
		return ""
	}
	name := path.Base(strings.ReplaceAll(doc.Name, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		name = "document"
	}
	ref, err := s.archive.Save(ctx, "imports/"+batchID+"/"+name, bytes.NewReader(doc.Data), doc.MIMEType)
	if err != nil {
		slog.Warn("failed to archive import document", "batch_id", batchID, "error", err)
		return ""
	}
	return ref
}

func (s *importService) discardDocument(ctx context.Context, ref string) {
	if s.archive == nil || ref == "" {
		return
	}
	if err := s.archive.Delete(ctx, ref); err != nil {
		slog.Warn("failed to remove superseded import document", "ref", ref, "error", err)
	}
}

func (s *importService) Confirm(ctx context.Context, owner, batchID string) (*ImportResult, error) {
	raw, ok := s.cache.Get(ctx, pendingKey(owner))
	if !ok {
		return nil, ErrStaleBatch
	}
	var batch model.ImportBatch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		return nil, err
	}
	if batch.ID != batchID {
		return nil, ErrStaleBatch
	}
	if batch.IsEmpty() {
		return nil, extractor.ErrEmptyExtraction
	}

	for _, m := range batch.Motorcycles {
		m.ID = uuid.NewString()
	}
	for _, c := range batch.Coefficients {
		c.ID = uuid.NewString()
	}
	model.BackfillCoefficientDefaults(batch.Coefficients)
	if err := validateBatch(&batch); err != nil {
		return nil, err
	}

	res := &ImportResult{}
	if len(batch.Motorcycles) > 0 {
		if err := s.motorcycles.CreateMany(ctx, batch.Motorcycles); err != nil {
			return nil, err
		}
		res.Motorcycles = len(batch.Motorcycles)
	}
	if len(batch.Coefficients) > 0 {
		if err := s.coefficients.CreateMany(ctx, batch.Coefficients); err != nil {
			if res.Motorcycles > 0 {
				s.keepRemainder(ctx, owner, &batch)
			}
			return nil, fmt.Errorf("%d motorcycles saved, coefficients failed: %w", res.Motorcycles, err)
		}
		res.Coefficients = len(batch.Coefficients)
	}
	if err := s.cache.Delete(ctx, pendingKey(owner)); err != nil {
		slog.Warn("failed to clear pending import batch", "batch_id", batch.ID, "error", err)
	}

	slog.Info("import batch confirmed", "batch_id", batch.ID,
		"motorcycles", res.Motorcycles, "coefficients", res.Coefficients)
	return res, nil
}

// keepRemainder drops the already written motorcycles from the pending
// batch so that a retry appends only the coefficients. If the batch cannot
// be rewritten it is removed.
func (s *importService) keepRemainder(ctx context.Context, owner string, batch *model.ImportBatch) {
	batch.Motorcycles = nil
	b, err := json.Marshal(batch)
	if err == nil {
		err = s.cache.Set(ctx, pendingKey(owner), string(b), PendingBatchTTL)
	}
	if err != nil {
		slog.Warn("failed to keep import remainder; discarding batch", "batch_id", batch.ID, "error", err)
		if err := s.cache.Delete(ctx, pendingKey(owner)); err != nil {
			slog.Warn("failed to clear pending import batch", "batch_id", batch.ID, "error", err)
		}
	}
}

// validateBatch applies the admin edit rules to every row, so nothing is
// written unless the whole batch would be accepted.
func validateBatch(batch *model.ImportBatch) error {
	for i, m := range batch.Motorcycles {
		if err := validateMotorcycle(m); err != nil {
			return fmt.Errorf("motorcycle %d: %w", i, err)
		}
	}
	for i, c := range batch.Coefficients {
		if err := validateRule(c); err != nil {
			return fmt.Errorf("coefficient %d: %w", i, err)
		}
	}
	return nil
}
