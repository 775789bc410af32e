package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sangkips/quotation-engine/internal/application/render"
	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/layout"
	"github.com/sangkips/quotation-engine/internal/domain/pricing"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/pkg/apperror"
)

// ExportSettings are the issuer details and asset references used by every
// export.
type ExportSettings struct {
	Company        render.Company
	BankAccount    *entity.BankAccount
	FontRef        string
	LogoRef        string
	SealRef        string
	SigningBaseURL string
	PhotosPerPage  int
}

// ExportService renders quotations to downloadable documents.
type ExportService struct {
	quotations *QuotationService
	loader     *render.AssetLoader
	cache      repository.DocumentCache
	geometry   layout.Geometry
	measurer   layout.Measurer
	settings   ExportSettings
	html       *render.HTMLRenderer
	pdf        *render.PDFRenderer
	xlsx       *render.XLSXRenderer
	logger     *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(
	quotations *QuotationService,
	loader *render.AssetLoader,
	cache repository.DocumentCache,
	settings ExportSettings,
	logger *slog.Logger,
) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		quotations: quotations,
		loader:     loader,
		cache:      cache,
		geometry:   layout.A4(),
		measurer:   layout.NewEstimateMeasurer(),
		settings:   settings,
		html:       render.NewHTMLRenderer(),
		pdf:        render.NewPDFRenderer(logger),
		xlsx:       render.NewXLSXRenderer(),
		logger:     logger,
	}
}

// Export renders quotation id in format. The stored document is recomputed
// first so the output never shows stale totals. Results are cached per
// revision.
func (s *ExportService) Export(ctx context.Context, id string, format render.Format) (*render.Document, error) {
	q, err := s.quotations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	q = pricing.Recompute(q)
	s.applyDefaults(q)

	doc := &render.Document{
		Filename:    render.Filename(q, format),
		ContentType: format.ContentType(),
	}
	key := cacheKey(q, format)
	if data, err := s.cache.Get(ctx, key); err == nil {
		doc.Data = data
		return doc, nil
	} else if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("export cache read failed", "key", key, "error", err)
	}

	pages, err := layout.Paginate(q, s.geometry, s.measurer)
	if err != nil {
		return nil, translate(err)
	}
	in := render.Input{Quotation: q, Pages: pages, Geometry: s.geometry, Company: s.settings.Company}

	var missing []string
	switch format {
	case render.FormatXLSX:
		doc.Data, err = s.xlsx.Render(in)
	case render.FormatHTML:
		refs := s.assetRefs(q, false)
		if in.Assets, err = s.loader.Load(ctx, refs, false); err == nil {
			missing = in.Assets.Missing(refs)
			doc.Data, err = s.html.Render(in)
		}
	default:
		refs := s.assetRefs(q, true)
		if in.Assets, err = s.loader.Load(ctx, refs, true); err == nil {
			missing = in.Assets.Missing(refs)
			doc.Data, err = s.pdf.Render(in)
		}
	}
	if err != nil {
		s.logger.Error("export failed", "id", q.ID, "format", string(format), "error", err)
		return nil, translate(err)
	}
	doc.Pages = len(pages)

	if len(missing) > 0 {
		s.logger.Warn("export degraded, not cached", "id", q.ID, "format", string(format), "missing", missing)
	} else if err := s.cache.Set(ctx, key, doc.Data); err != nil {
		s.logger.Warn("export cache write failed", "key", key, "error", err)
	}
	s.logger.Info("quotation exported", "id", q.ID, "format", string(format), "pages", doc.Pages, "bytes", len(doc.Data))
	return doc, nil
}

// ExportPhotoReport renders the site photos as an HTML appendix of the
// quotation, a fixed number of photos per page.
func (s *ExportService) ExportPhotoReport(ctx context.Context, id string, photos []layout.Photo) (*render.Document, error) {
	if len(photos) == 0 {
		return nil, apperror.NewBadRequestError("at least one photo is required")
	}
	for i, p := range photos {
		if !render.PhotoURLAllowed(p.URL) {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("photos[%d].url must be an http(s) url, a relative path or an image data url", i))
		}
	}
	q, err := s.quotations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	assets, err := s.loadAssets(ctx, q, false)
	if err != nil {
		return nil, translate(err)
	}
	pages := layout.PaginatePhotos(photos, s.settings.PhotosPerPage, s.geometry)
	data, err := s.html.Render(render.Input{
		Quotation: q,
		Pages:     pages,
		Geometry:  s.geometry,
		Company:   s.settings.Company,
		Assets:    assets,
	})
	if err != nil {
		return nil, translate(err)
	}
	return &render.Document{
		Filename:    "PhotoReport_" + render.Filename(q, render.FormatHTML),
		ContentType: render.FormatHTML.ContentType(),
		Data:        data,
		Pages:       len(pages),
	}, nil
}

// applyDefaults fills the company bank account when the quotation has none.
func (s *ExportService) applyDefaults(q *entity.Quotation) {
	if s.settings.BankAccount == nil {
		return
	}
	if q.Terms == nil {
		q.Terms = &entity.Terms{}
	}
	if q.Terms.BankAccount == nil {
		bank := *s.settings.BankAccount
		q.Terms.BankAccount = &bank
	}
}

func (s *ExportService) loadAssets(ctx context.Context, q *entity.Quotation, requireFont bool) (*render.Assets, error) {
	return s.loader.Load(ctx, s.assetRefs(q, requireFont), requireFont)
}

func (s *ExportService) assetRefs(q *entity.Quotation, requireFont bool) render.AssetRefs {
	refs := render.AssetRefs{
		Logo:      s.settings.LogoRef,
		Seal:      s.settings.SealRef,
		Signature: q.Signature,
	}
	if requireFont {
		refs.Font = s.settings.FontRef
	}
	if s.settings.SigningBaseURL != "" && layout.AwaitingSignature(q) {
		refs.SigningURL = render.SigningURL(s.settings.SigningBaseURL, q.ID)
	}
	return refs
}

func cacheKey(q *entity.Quotation, format render.Format) string {
	return fmt.Sprintf("export:%s:%d:%s", q.ID, q.UpdatedAt.UnixNano(), format)
}
