package repositories

import (
	"mediscan_backend/internal/models"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(activity *models.AnalysisActivity) error
	FindRecentByUser(userID string, limit int) ([]models.AnalysisActivity, error)
}

type ActivityRepositoryImpl struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (r *ActivityRepositoryImpl) Create(activity *models.AnalysisActivity) error {
	return r.db.Create(activity).Error
}

func (r *ActivityRepositoryImpl) FindRecentByUser(userID string, limit int) ([]models.AnalysisActivity, error) {
	var activities []models.AnalysisActivity
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
