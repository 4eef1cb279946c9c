package database

import (
	"fmt"
	"log"

	"gamification_backend/internal/config"
	"gamification_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.QuestionCategory{},
		&model.TokenValue{},
		&model.Question{},
		&model.UserQuestionJunction{},
		&model.Submission{},
		&model.Action{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认分类及其代币系数，首次启动时写入
	var count int64
	db.Model(&model.QuestionCategory{}).Count(&count)
	if count == 0 {
		category := &model.QuestionCategory{
			Name:        "General",
			Description: "未分类题目的默认分类",
		}
		if err := db.Create(category).Error; err == nil {
			for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyNormal, model.DifficultyHard} {
				db.Create(&model.TokenValue{
					CategoryID: category.ID,
					Difficulty: d,
					Value:      model.DefaultTokenValue(d),
				})
			}
		}
	}

	return db, nil
}
