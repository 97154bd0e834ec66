package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Interaction is append-only: rows are never updated or deleted, so the
// model carries no UpdatedAt/DeletedAt.
type Interaction struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId       string         `gorm:"type:varchar(64);not null;index"`
	Role            string         `gorm:"type:varchar(40);not null"`
	Query           string         `gorm:"type:text"`
	Answer          string         `gorm:"type:text"`
	QueryType       string         `gorm:"type:varchar(20);index"`
	GroundingStatus string         `gorm:"type:varchar(20)"`
	LatencyMs       int64          `gorm:"not null"`
	Success         bool           `gorm:"not null"`
	Metadata        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// RetrievalQuality captures how retrieval performed for one interaction.
// At most one row per interaction, present only when retrieval ran.
type RetrievalQuality struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InteractionId uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	ChunkIds      datatypes.JSON `gorm:"type:jsonb"`
	Scores        datatypes.JSON `gorm:"type:jsonb"`
	TopScore      float64        `gorm:"not null"`
	Path          string         `gorm:"type:varchar(32)"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (RetrievalQuality) TableName() string {
	return "retrieval_quality"
}
