package model

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var snowflakeNode *snowflake.Node

var Models = []interface{}{
	&User{}, &Image{}, &Tag{}, &Comment{}, &Rating{}, &AuditEvent{},
}

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

func GenerateID() uint {
	return uint(snowflakeNode.Generate())
}

// newGormLogger writes gorm warnings and errors through the default slog
// handler. Lookups that find nothing are expected and stay silent.
func newGormLogger() logger.Interface {
	return logger.New(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// GormConfig is the gorm configuration shared by every driver.
func GormConfig(tablePrefix string) *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   tablePrefix,
			SingularTable: true,
		},
		TranslateError: true,
		Logger:         newGormLogger(),
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
