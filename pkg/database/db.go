package database

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection. TranslateError maps driver
// unique-violation errors onto gorm.ErrDuplicatedKey, which the toggle
// ledgers rely on.
func Connect(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect database")
	}
	return db
}
