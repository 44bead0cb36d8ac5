// Package store persists finished match results in postgres.
package store

import (
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dmaples/ninja-fight-backend/internal/match"
)

var ErrNotFound = errors.New("result not found")

type MatchResult struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	Code      string `gorm:"uniqueIndex" json:"code"`
	Mode      string `json:"mode"`
	Preset    string `json:"preset"`
	Map       string `json:"map"`
	Won       bool   `json:"won"`
	CreatedAt time.Time `json:"created_at"`

	Teams []TeamScore `gorm:"foreignKey:MatchResultID" json:"teams"`
}

type TeamScore struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	MatchResultID uint   `json:"-"`
	Team          string `json:"team"`
	ScoreMS       *int64 `json:"score_ms"` // null = loss
}

type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&MatchResult{}, &TeamScore{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// RecordResult satisfies match.Recorder.
func (s *Store) RecordResult(res match.Result) error {
	return s.db.Create(toModel(res)).Error
}

func (s *Store) GetResult(code string) (*MatchResult, error) {
	var mr MatchResult
	err := s.db.Preload("Teams").Where("code = ?", code).First(&mr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mr, nil
}

func toModel(res match.Result) *MatchResult {
	mr := &MatchResult{
		Code:   res.Code,
		Mode:   res.Mode,
		Preset: res.Preset,
		Map:    res.Map,
		Won:    res.Won,
	}
	for _, t := range res.Teams {
		mr.Teams = append(mr.Teams, TeamScore{Team: t.Team, ScoreMS: t.ScoreMS})
	}
	return mr
}
