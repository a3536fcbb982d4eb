package provider

import (
	"github.com/yurline/yurline/internal/cache"
	"github.com/yurline/yurline/internal/config"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/payment/click"
	"github.com/yurline/yurline/internal/payment/payme"
	"github.com/yurline/yurline/internal/payment/uzum"
	"github.com/yurline/yurline/internal/queue"
	"github.com/yurline/yurline/internal/repository"
	"github.com/yurline/yurline/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	ConsultationRepo repository.ConsultationRepository
	PaymentRepo      repository.PaymentRepository
	QuestionRepo     repository.QuestionRepository
	FAQRepo          repository.FAQRepository
	DashboardRepo    repository.DashboardRepository

	// Services
	AuthService         *service.AuthService
	CaptchaService      *service.CaptchaService
	UserService         *service.UserService
	AvailabilityService *service.AvailabilityService
	ConsultationService *service.ConsultationService
	PaymentService      *service.PaymentService
	QuestionService     *service.QuestionService
	FAQService          *service.FAQService
	NotificationService *service.NotificationService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.ConsultationRepo = repository.NewConsultationRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.QuestionRepo = repository.NewQuestionRepository(db)
	c.FAQRepo = repository.NewFAQRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserService = service.NewUserService(c.UserRepo)

	consCfg := c.Config.Consultation
	c.AvailabilityService = service.NewAvailabilityService(
		c.ConsultationRepo,
		consCfg.WorkHourStart,
		consCfg.WorkHourEnd,
		consCfg.WorkingDays,
		consCfg.SlotMinutes,
		consCfg.SlotCacheTTLSeconds,
		consCfg.BookingHorizonDays,
	)
	c.ConsultationService = service.NewConsultationService(
		c.ConsultationRepo,
		c.PaymentRepo,
		c.UserRepo,
		c.QueueClient,
		c.AvailabilityService,
		consCfg.MinAmount,
		consCfg.MaxAmount,
		consCfg.Currency,
	)

	payCfg := c.Config.Payment
	c.PaymentService = service.NewPaymentService(
		c.PaymentRepo,
		c.ConsultationRepo,
		c.UserRepo,
		c.QueueClient,
		c.ConsultationService,
		buildGatewayRegistry(&payCfg),
		payCfg.MinAmount,
		payCfg.MaxAmount,
		payCfg.ExpireMinutes,
	)

	notificationSvc, err := service.NewNotificationService(
		c.Config.Telegram.BotToken,
		c.ConsultationRepo,
		c.PaymentRepo,
		c.UserRepo,
	)
	if err != nil {
		logger.Errorw("provider_init_notification_failed", "error", err)
		notificationSvc, _ = service.NewNotificationService("", c.ConsultationRepo, c.PaymentRepo, c.UserRepo)
	}
	c.NotificationService = notificationSvc

	c.QuestionService = service.NewQuestionService(c.QuestionRepo, c.UserRepo, c.NotificationService)
	c.FAQService = service.NewFAQService(c.FAQRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}

func buildGatewayRegistry(cfg *config.PaymentConfig) *service.GatewayRegistry {
	gateways := make([]service.PaymentGateway, 0, 3)
	if cfg.Click.Enabled {
		gateways = append(gateways, service.NewClickGateway(&click.Config{
			MerchantID: cfg.Click.MerchantID,
			SecretKey:  cfg.Click.SecretKey,
			BaseURL:    cfg.Click.BaseURL,
			ReturnURL:  cfg.Click.ReturnURL,
			TimeoutMS:  cfg.Click.TimeoutMS,
		}))
	}
	if cfg.Payme.Enabled {
		gateways = append(gateways, service.NewPaymeGateway(&payme.Config{
			MerchantID: cfg.Payme.MerchantID,
			SecretKey:  cfg.Payme.SecretKey,
			BaseURL:    cfg.Payme.BaseURL,
			ReturnURL:  cfg.Payme.ReturnURL,
			TimeoutMS:  cfg.Payme.TimeoutMS,
		}))
	}
	if cfg.Uzum.Enabled {
		gateways = append(gateways, service.NewUzumGateway(&uzum.Config{
			MerchantID: cfg.Uzum.MerchantID,
			SecretKey:  cfg.Uzum.SecretKey,
			BaseURL:    cfg.Uzum.BaseURL,
			ReturnURL:  cfg.Uzum.ReturnURL,
			TimeoutMS:  cfg.Uzum.TimeoutMS,
		}))
	}
	return service.NewGatewayRegistry(gateways...)
}
