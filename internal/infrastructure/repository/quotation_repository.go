package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	domainRepo "github.com/sangkips/quotation-engine/internal/domain/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var sortColumns = map[string]string{
	"created_at":       "created_at",
	"updated_at":       "updated_at",
	"quotation_number": "quotation_number",
	"total_amount":     "total_amount",
	"valid_until":      "valid_until",
}

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a repository that keeps each quotation as a
// jsonb document next to a few indexed columns.
func NewQuotationRepository(db *gorm.DB) domainRepo.QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, q *entity.Quotation) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	rec, err := toRecord(q)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *quotationRepository) GetByID(ctx context.Context, id string) (*entity.Quotation, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	var rec entity.QuotationRecord
	err = r.db.WithContext(ctx).First(&rec, "id = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromRecord(&rec)
}

func (r *quotationRepository) GetByNumber(ctx context.Context, number string) (*entity.Quotation, error) {
	var rec entity.QuotationRecord
	err := r.db.WithContext(ctx).
		Where("quotation_number = ?", number).
		Order("created_at ASC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromRecord(&rec)
}

func (r *quotationRepository) Update(ctx context.Context, q *entity.Quotation) error {
	rec, err := toRecord(q)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&entity.QuotationRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"quotation_number": rec.QuotationNumber,
			"project_id":       rec.ProjectID,
			"customer_id":      rec.CustomerID,
			"project_name":     rec.ProjectName,
			"recipient":        rec.Recipient,
			"status":           rec.Status,
			"version":          rec.Version,
			"total_amount":     rec.TotalAmount,
			"valid_until":      rec.ValidUntil,
			"document":         rec.Document,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quotationRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	return r.db.WithContext(ctx).Model(&entity.QuotationRecord{}).
		Where("id = ?", uid).
		Update("deleted_at", at).Error
}

func (r *quotationRepository) List(ctx context.Context, params *domainRepo.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	var (
		records []entity.QuotationRecord
		total   int64
	)

	query := r.db.WithContext(ctx).Model(&entity.QuotationRecord{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("quotation_number ILIKE ? OR project_name ILIKE ? OR recipient ILIKE ?", like, like, like)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ProjectID != "" {
		query = query.Where("project_id = ?", params.ProjectID)
	}
	if params.Number != "" {
		query = query.Where("quotation_number = ?", params.Number)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	if col, ok := sortColumns[params.SortBy]; ok {
		sortBy = col
	}
	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	out, err := fromRecords(records)
	return out, total, err
}

func (r *quotationRepository) ListByProject(ctx context.Context, projectID string) ([]entity.Quotation, error) {
	var records []entity.QuotationRecord
	err := r.db.WithContext(ctx).Unscoped().
		Where("project_id = ? OR quotation_number LIKE ?", projectID, escapeLike(projectID)+"-%").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return fromRecords(records)
}

func (r *quotationRepository) ListExpirable(ctx context.Context, before time.Time) ([]entity.Quotation, error) {
	var records []entity.QuotationRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", enum.QuotationStatusSent, before).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return fromRecords(records)
}

func toRecord(q *entity.Quotation) (*entity.QuotationRecord, error) {
	uid, err := uuid.Parse(q.ID)
	if err != nil {
		return nil, fmt.Errorf("quotation id %q: %w", q.ID, err)
	}
	doc, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode quotation: %w", err)
	}
	rec := &entity.QuotationRecord{
		ID:              uid,
		QuotationNumber: q.QuotationNumber,
		ProjectID:       q.ProjectID,
		CustomerID:      q.CustomerID,
		ProjectName:     q.Header.ProjectName,
		Recipient:       q.Header.To,
		Status:          q.Status,
		Version:         q.Version,
		ValidUntil:      q.ValidUntil,
		Document:        datatypes.JSON(doc),
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
	if opt := q.SelectedOption(); opt != nil {
		rec.TotalAmount = opt.Summary.TotalAmount
	}
	return rec, nil
}

func fromRecord(rec *entity.QuotationRecord) (*entity.Quotation, error) {
	var q entity.Quotation
	if err := json.Unmarshal(rec.Document, &q); err != nil {
		return nil, fmt.Errorf("decode quotation %s: %w", rec.ID, err)
	}
	q.ID = rec.ID.String()
	q.Status = rec.Status
	if rec.DeletedAt.Valid {
		at := rec.DeletedAt.Time
		q.DeletedAt = &at
	}
	return &q, nil
}

func fromRecords(records []entity.QuotationRecord) ([]entity.Quotation, error) {
	out := make([]entity.Quotation, 0, len(records))
	for i := range records {
		q, err := fromRecord(&records[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
