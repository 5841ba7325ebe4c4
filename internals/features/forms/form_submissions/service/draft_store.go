package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"impala_backend/internals/features/forms/form_submissions/model"
)

var ErrDraftNotFound = errors.New("draft tidak ditemukan")

// DraftStore menyimpan draft form publik supaya sesi bisa dipulihkan.
type DraftStore interface {
	Save(ctx context.Context, d model.Draft) error
	Get(ctx context.Context, id uuid.UUID) (model.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type GormDraftStore struct {
	DB *gorm.DB
}

func NewGormDraftStore(db *gorm.DB) *GormDraftStore {
	return &GormDraftStore{DB: db}
}

// Save melakukan upsert berdasarkan id.
func (s *GormDraftStore) Save(ctx context.Context, d model.Draft) error {
	row, err := model.FromDraft(d)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"form_values", "category", "terms_accepted", "auto_filled", "status", "submission_id", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *GormDraftStore) Get(ctx context.Context, id uuid.UUID) (model.Draft, error) {
	var row model.FormDraftModel
	err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Draft{}, ErrDraftNotFound
	}
	if err != nil {
		return model.Draft{}, err
	}
	return row.ToDraft()
}

func (s *GormDraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.FormDraftModel{}).Error
}

// PurgeBefore menghapus draft yang tidak disentuh sejak cutoff.
func (s *GormDraftStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&model.FormDraftModel{})
	return res.RowsAffected, res.Error
}
