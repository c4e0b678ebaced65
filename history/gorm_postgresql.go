// history/gorm_postgresql.go
package history

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/robotserver/models"
)

// GormPostgreSQL persists the command journal through GORM.
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL opens a PostgreSQL-backed journal and migrates its table.
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormCommandLog{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func (s *GormPostgreSQL) Append(rec models.CommandRecord) error {
	row := models.GormCommandLog{
		Command:  rec.Command,
		Outcome:  rec.Outcome,
		X:        rec.State.X,
		Y:        rec.State.Y,
		Facing:   rec.State.Facing,
		IsPlaced: rec.State.IsPlaced,
	}
	return s.db.Create(&row).Error
}

func (s *GormPostgreSQL) Recent(limit int) ([]models.CommandRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	var rows []models.GormCommandLog
	if err := s.db.Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]models.CommandRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.CommandRecord{
			Command:   row.Command,
			Outcome:   row.Outcome,
			CreatedAt: row.CreatedAt,
			State: models.StateResponse{
				X:        row.X,
				Y:        row.Y,
				Facing:   row.Facing,
				IsPlaced: row.IsPlaced,
			},
		})
	}
	return records, nil
}

func (s *GormPostgreSQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
