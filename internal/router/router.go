package router

import (
	"fmt"
	"strings"

	"github.com/yurline/yurline/internal/cache"
	"github.com/yurline/yurline/internal/config"
	adminhandlers "github.com/yurline/yurline/internal/http/handlers/admin"
	publichandlers "github.com/yurline/yurline/internal/http/handlers/public"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/管理端分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "yl"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.too_many_requests",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/health", publicHandler.Health)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.GET("/slots/days", publicHandler.GetAvailableDays)
			public.GET("/slots", publicHandler.GetDaySlots)
		}

		// 机器人侧接口
		bot := apiV1.Group("/bot")
		{
			bot.POST("/users/register", publicHandler.RegisterUser)
			bot.GET("/users/:telegram_id", publicHandler.GetUserByTelegramID)
			bot.POST("/consultations", publicHandler.CreateConsultation)
			bot.GET("/consultations", publicHandler.ListUserConsultations)
			bot.GET("/consultations/:id", publicHandler.GetUserConsultation)
			bot.POST("/consultations/:id/cancel", publicHandler.CancelUserConsultation)
			bot.POST("/payments", publicHandler.CreatePayment)
			bot.POST("/questions", publicHandler.CreateQuestion)
			bot.GET("/questions", publicHandler.ListUserQuestions)
			bot.GET("/faq", publicHandler.ListFAQs)
			bot.GET("/faq/search", publicHandler.SearchFAQs)
			bot.GET("/faq/:id", publicHandler.GetFAQ)
		}

		// 支付回调
		apiV1.POST("/payments/callback/:provider", publicHandler.PaymentCallback)
		apiV1.GET("/payments/callback/:provider", publicHandler.PaymentCallback)

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/profile", adminHandler.GetAdminProfile)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 仪表盘
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.GetDashboardTrends)

				// 咨询管理
				authorized.GET("/consultations", adminHandler.GetAdminConsultations)
				authorized.GET("/consultations/:id", adminHandler.GetAdminConsultation)
				authorized.GET("/consultations/:id/timeline", adminHandler.GetAdminConsultationTimeline)
				authorized.POST("/consultations/:id/approve", adminHandler.ApproveConsultation)
				authorized.POST("/consultations/:id/schedule", adminHandler.ScheduleConsultation)
				authorized.POST("/consultations/:id/cancel", adminHandler.CancelConsultation)
				authorized.POST("/consultations/:id/complete", adminHandler.CompleteConsultation)

				// 支付管理
				authorized.GET("/payments", adminHandler.GetAdminPayments)
				authorized.GET("/payments/:id", adminHandler.GetAdminPayment)
				authorized.POST("/payments/:id/refund", adminHandler.RefundPayment)

				// 用户管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.GET("/users/:id", adminHandler.GetAdminUser)
				authorized.POST("/users/:id/block", adminHandler.BlockUser)
				authorized.POST("/users/:id/unblock", adminHandler.UnblockUser)

				// 问题管理
				authorized.GET("/questions", adminHandler.GetAdminQuestions)
				authorized.GET("/questions/:id", adminHandler.GetAdminQuestion)
				authorized.POST("/questions/:id/answer", adminHandler.AnswerQuestion)

				authorized.GET("/faqs", adminHandler.GetAdminFAQs)
				authorized.GET("/faqs/:id", adminHandler.GetAdminFAQ)
				authorized.POST("/faqs", adminHandler.CreateFAQ)
				authorized.PUT("/faqs/:id", adminHandler.UpdateFAQ)
				authorized.DELETE("/faqs/:id", adminHandler.DeleteFAQ)
			}
		}
	}

	return r
}
