package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/yurline/yurline/internal/config"
	"github.com/yurline/yurline/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 高优队列名称
	CriticalQueue = constants.QueueCritical
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueConsultationReminder 在指定时刻投递咨询提醒
func (c *Client) EnqueueConsultationReminder(consultationID uint, kind string, fireAt time.Time) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewConsultationReminderTask(ConsultationReminderPayload{
		ConsultationID: consultationID,
		Kind:           kind,
	})
	if err != nil {
		return err
	}
	options := []asynq.Option{asynq.Queue(c.defaultQueue), asynq.ProcessAt(fireAt)}
	_, err = c.client.Enqueue(task, options...)
	return err
}

// EnqueueConsultationNotify 推送咨询状态通知任务
func (c *Client) EnqueueConsultationNotify(consultationID uint, kind string, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewConsultationNotifyTask(ConsultationNotifyPayload{
		ConsultationID: consultationID,
		Kind:           kind,
	})
	if err != nil {
		return err
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

// EnqueuePaymentExpire 在支付到期时刻投递关闭任务
func (c *Client) EnqueuePaymentExpire(paymentID uint, expireAt time.Time) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewPaymentExpireTask(PaymentExpirePayload{PaymentID: paymentID})
	if err != nil {
		return err
	}
	options := []asynq.Option{asynq.Queue(CriticalQueue), asynq.ProcessAt(expireAt)}
	_, err = c.client.Enqueue(task, options...)
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
