package main

import (
	"time"

	"github.com/yurline/yurline/internal/config"
	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 演示用户
	users := []models.User{
		{TelegramID: 111000111, Username: "aziz_demo", FullName: "Aziz Karimov", PhoneNumber: "+998901234567", Language: "uz", Status: constants.UserStatusActive},
		{TelegramID: 222000222, Username: "elena_demo", FullName: "Елена Иванова", PhoneNumber: "+998907654321", Language: "ru", Status: constants.UserStatusActive},
	}
	for i := range users {
		var existing models.User
		if err := models.DB.Where("telegram_id = ?", users[i].TelegramID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&users[i]).Error; err != nil {
				stdLog.Printf("Failed to create user %d: %v", users[i].TelegramID, err)
				continue
			}
			stdLog.Printf("Created user: %s", users[i].Username)
		} else {
			users[i] = existing
			stdLog.Printf("User already exists: %s", existing.Username)
		}
	}

	// 演示咨询
	var count int64
	models.DB.Model(&models.Consultation{}).Count(&count)
	if count == 0 && len(users) > 0 {
		consultation := models.Consultation{
			UserID:      users[0].ID,
			Type:        constants.ConsultationTypeOnline,
			Status:      constants.ConsultationStatusPending,
			Amount:      models.NewMoneyFromDecimal(decimal.NewFromInt(150000)),
			Currency:    "UZS",
			PhoneNumber: users[0].PhoneNumber,
			Description: "Консультация по трудовому договору",
		}
		if err := models.DB.Create(&consultation).Error; err != nil {
			stdLog.Printf("Failed to create consultation: %v", err)
		} else {
			event := models.ConsultationEvent{
				ConsultationID: consultation.ID,
				Type:           constants.EventTypeCreated,
				CreatedAt:      time.Now(),
			}
			if err := models.DB.Create(&event).Error; err != nil {
				stdLog.Printf("Failed to create consultation event: %v", err)
			}
			stdLog.Printf("Created consultation #%d", consultation.ID)
		}
	}

	// 演示问题
	models.DB.Model(&models.Question{}).Count(&count)
	if count == 0 && len(users) > 1 {
		question := models.Question{
			UserID:   users[1].ID,
			Text:     "Как оформить наследство на квартиру?",
			Category: "inheritance",
			Language: "ru",
			Status:   constants.QuestionStatusPending,
		}
		if err := models.DB.Create(&question).Error; err != nil {
			stdLog.Printf("Failed to create question: %v", err)
		} else {
			stdLog.Printf("Created question #%d", question.ID)
		}
	}

	stdLog.Println("Seed completed")
}
