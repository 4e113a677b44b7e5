package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisActivity is the append-only audit record of one completed
// analysis. Read back only for the dashboard history view.
type AnalysisActivity struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID     string         `gorm:"type:uuid;not null;index"`
	ModelID    string         `gorm:"type:varchar(64);not null"`
	Result     string         `gorm:"not null"`
	Confidence float64        `gorm:"not null;default:0"`
	Details    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"default:CURRENT_TIMESTAMP;index"`
}

func (AnalysisActivity) TableName() string {
	return "analysis_activities"
}
