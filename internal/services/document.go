package services

import (
  "context"
  "encoding/json"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/logger"
  "github.com/bizzdev-ai/bizzdev-backend/internal/repos"
  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type DocumentService interface {
  GetDocument(ctx context.Context, userID, documentID uuid.UUID) (*types.Document, error)
  ListDocuments(ctx context.Context, userID uuid.UUID) ([]*types.Document, error)
  ListDocumentsByRun(ctx context.Context, userID, runID uuid.UUID) ([]*types.Document, error)
  DeleteDocument(ctx context.Context, userID, documentID uuid.UUID) error

  RenderDocumentHTML(ctx context.Context, userID, documentID uuid.UUID) (string, *types.Document, error)
  ExportDocumentPDF(ctx context.Context, userID, documentID uuid.UUID) ([]byte, string, error)
  EmailDocument(ctx context.Context, userID, documentID uuid.UUID, toEmail string) error
}

type documentService struct {
  db       *gorm.DB
  log      *logger.Logger
  docRepo  repos.DocumentRepo
  runRepo  repos.RunRepo
  markdown MarkdownService
  pdf      PDFService
  notifier NotifierService
}

func NewDocumentService(
  db *gorm.DB,
  log *logger.Logger,
  docRepo repos.DocumentRepo,
  runRepo repos.RunRepo,
  markdown MarkdownService,
  pdf PDFService,
  notifier NotifierService,
) DocumentService {
  return &documentService{
    db:       db,
    log:      log.With("service", "DocumentService"),
    docRepo:  docRepo,
    runRepo:  runRepo,
    markdown: markdown,
    pdf:      pdf,
    notifier: notifier,
  }
}

func (ds *documentService) GetDocument(ctx context.Context, userID, documentID uuid.UUID) (*types.Document, error) {
  docs, err := ds.docRepo.GetByIDs(ctx, nil, []uuid.UUID{documentID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch document: %w", err)
  }
  if len(docs) == 0 || docs[0].UserID != userID {
    return nil, fmt.Errorf("document not found")
  }
  return docs[0], nil
}

func (ds *documentService) ListDocuments(ctx context.Context, userID uuid.UUID) ([]*types.Document, error) {
  return ds.docRepo.ListByUserID(ctx, nil, userID)
}

func (ds *documentService) ListDocumentsByRun(ctx context.Context, userID, runID uuid.UUID) ([]*types.Document, error) {
  runs, err := ds.runRepo.GetByIDs(ctx, nil, []uuid.UUID{runID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch run: %w", err)
  }
  if len(runs) == 0 || runs[0].UserID != userID {
    return nil, fmt.Errorf("run not found")
  }
  return ds.docRepo.ListByRunID(ctx, nil, runID)
}

func (ds *documentService) DeleteDocument(ctx context.Context, userID, documentID uuid.UUID) error {
  if _, err := ds.GetDocument(ctx, userID, documentID); err != nil {
    return err
  }
  if err := ds.docRepo.Delete(ctx, nil, documentID); err != nil {
    return fmt.Errorf("failed to delete document: %w", err)
  }
  return nil
}

func (ds *documentService) RenderDocumentHTML(ctx context.Context, userID, documentID uuid.UUID) (string, *types.Document, error) {
  doc, err := ds.GetDocument(ctx, userID, documentID)
  if err != nil {
    return "", nil, err
  }
  htmlBody, err := ds.markdown.RenderHTML(doc.Markdown)
  if err != nil {
    return "", nil, err
  }
  return htmlBody, doc, nil
}

func (ds *documentService) ExportDocumentPDF(ctx context.Context, userID, documentID uuid.UUID) ([]byte, string, error) {
  htmlBody, doc, err := ds.RenderDocumentHTML(ctx, userID, documentID)
  if err != nil {
    return nil, "", err
  }
  meta := documentMeta(doc)
  pdf, err := ds.pdf.RenderPDF(ctx, htmlBody, meta.FilenameSlug)
  if err != nil {
    return nil, "", err
  }
  return pdf, meta.FilenameSlug + ".pdf", nil
}

func (ds *documentService) EmailDocument(ctx context.Context, userID, documentID uuid.UUID, toEmail string) error {
  htmlBody, doc, err := ds.RenderDocumentHTML(ctx, userID, documentID)
  if err != nil {
    return err
  }
  meta := documentMeta(doc)
  pdf, err := ds.pdf.RenderPDF(ctx, htmlBody, meta.FilenameSlug)
  if err != nil {
    return err
  }
  return ds.notifier.SendPlaybookEmail(ctx, toEmail, meta, pdf)
}

// documentMeta decodes the stored META JSON, falling back to derived
// values for documents persisted before a field existed.
func documentMeta(doc *types.Document) PlaybookMeta {
  var meta PlaybookMeta
  if len(doc.Meta) > 0 {
    _ = json.Unmarshal(doc.Meta, &meta)
  }
  if meta.DocTitle == "" {
    meta.DocTitle = doc.Title
  }
  if meta.DocTitle == "" {
    meta.DocTitle = fallbackDocTitle
  }
  meta.FilenameSlug = resolveSlug(meta.FilenameSlug, meta.DocTitle)
  if meta.EmailSubject == "" {
    meta.EmailSubject = meta.DocTitle + ": tailored playbook attached"
  }
  if meta.EmailPreheader == "" {
    meta.EmailPreheader = "Concise ICP, discovery, objections, KPIs — ready to use"
  }
  return meta
}
