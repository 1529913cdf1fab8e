package service

import (
	"context"
	"errors"
	"fmt"

	"report-desk/internal/model"
	"report-desk/internal/report"

	"gorm.io/gorm"
)

// MaxReportsPerUser caps report creation only; updates to existing
// reports are never blocked.
const MaxReportsPerUser = 30

// ReportStore is the persistence boundary for report aggregates.
type ReportStore struct{ db *gorm.DB }

func NewReportStore(db *gorm.DB) *ReportStore { return &ReportStore{db: db} }

// Migrate creates the backing tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &report.Report{})
}

// List returns the user's reports, newest createdAt first.
func (s *ReportStore) List(ctx context.Context, userID string) ([]report.Report, error) {
	var reports []report.Report
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Get loads a single report by id.
func (s *ReportStore) Get(ctx context.Context, id string) (*report.Report, error) {
	var r report.Report
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &r, nil
}

// Upsert inserts the report when it has no id, otherwise updates it in
// place. The per-user cap applies to inserts only, and createdAt is
// never overwritten after the initial creation.
func (s *ReportStore) Upsert(ctx context.Context, r *report.Report) error {
	if r.UserID == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	if r.ID == "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&report.Report{}).
			Where("user_id = ?", r.UserID).Count(&count).Error; err != nil {
			return fmt.Errorf("count reports: %w", err)
		}
		if count >= MaxReportsPerUser {
			return fmt.Errorf("%w: max %d reports allowed", ErrLimitReached, MaxReportsPerUser)
		}
		r.ID = report.NewID()
		if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
		return nil
	}

	var existing report.Report
	err := s.db.WithContext(ctx).Where("id = ?", r.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	r.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

// Delete removes a report by id.
func (s *ReportStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&report.Report{})
	if res.Error != nil {
		return fmt.Errorf("delete report: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
