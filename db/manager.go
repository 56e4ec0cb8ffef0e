package db

import (
	"context"
	"fmt"
	"log"
	"platebook/config"
	"platebook/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

var ORM *gorm.DB

func dsnFromConfig(dbConf config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConf.Host, dbConf.Port, dbConf.User, dbConf.Password, dbConf.DBName,
	)
}

func dialectorFromConfig(dbConf config.DBConfig) gorm.Dialector {
	if dbConf.Driver == "sqlite" {
		// Для тестов: Name трактуется как путь к файлу или :memory:
		return sqlite.Open(dbConf.DBName)
	}
	return postgres.Open(dsnFromConfig(dbConf))
}

func ConnectDB() (err error) {
	if ORM != nil {
		log.Println("ORM is already initialized")
		return nil
	}

	if config.AppConfig == nil {
		return fmt.Errorf("AppConfig is not loaded")
	}

	var conf = config.AppConfig
	if conf.Databases.Master.Driver != "sqlite" && conf.Databases.Master.Host == "" {
		return fmt.Errorf("Master database configuration is missing")
	}

	// Реплики для чтения (ленты и списки постов ходят в слейвы)
	replicaDialectors := make([]gorm.Dialector, 0, len(conf.Databases.Replicas))
	for _, r := range conf.Databases.Replicas {
		replicaDialectors = append(replicaDialectors, dialectorFromConfig(r))
	}

	db, err := gorm.Open(dialectorFromConfig(conf.Databases.Master), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
			NoLowerCase:   false,
		},
	})
	if err != nil {
		return err
	}

	if len(replicaDialectors) > 0 {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicaDialectors,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return
		}
	}

	err = db.AutoMigrate(&models.User{}, &models.Migration{}, &models.Post{}, &models.PostLike{}, &models.Comment{})
	if err != nil {
		return err
	}

	if err = EnsureLikeSetIndex(db); err != nil {
		return err
	}

	ORM = db
	return nil
}

// GetReadOnlyDB возвращает подключение для чтения (слейвы)
func GetReadOnlyDB(ctx context.Context) *gorm.DB {
	return ORM.WithContext(ctx).Clauses(dbresolver.Read)
}

// GetWriteDB возвращает подключение для записи (мастер)
func GetWriteDB(ctx context.Context) *gorm.DB {
	return ORM.WithContext(ctx).Clauses(dbresolver.Write)
}
