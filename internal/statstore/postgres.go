package statstore

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type matchRow struct {
	ID            uint `gorm:"primarykey"`
	GameID        string
	Winner        string
	Loser         string
	WinnerElement int
	LoserElement  int
	WinnerShots   int
	LoserShots    int
	DurationMS    int64
	FinishedAt    time.Time
}

func (matchRow) TableName() string { return "match_results" }

// Postgres appends one row per finished match.
type Postgres struct {
	db  *gorm.DB
	log *zap.Logger
}

// OpenPostgres connects and migrates the results table.
func OpenPostgres(dsn string, log *zap.Logger) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&matchRow{}); err != nil {
		return nil, err
	}
	return &Postgres{db: db, log: log}, nil
}

// Record inserts the match. Insert failures are logged, not returned:
// losing an archive row must never disturb match teardown.
func (p *Postgres) Record(m Match) {
	row := matchRow{
		GameID:        m.GameID,
		Winner:        m.Winner,
		Loser:         m.Loser,
		WinnerElement: m.WinnerElement,
		LoserElement:  m.LoserElement,
		WinnerShots:   m.WinnerShots,
		LoserShots:    m.LoserShots,
		DurationMS:    m.Duration.Milliseconds(),
		FinishedAt:    m.FinishedAt,
	}
	if err := p.db.Create(&row).Error; err != nil {
		p.log.Error("failed to archive match result",
			zap.String("game", m.GameID), zap.Error(err))
	}
}
