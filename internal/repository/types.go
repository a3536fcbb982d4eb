package repository

import "time"

// ConsultationListFilter 查询咨询列表的过滤条件
type ConsultationListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	Status        string
	Type          string
	PhoneNumber   string
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// PaymentListFilter 查询支付列表的过滤条件
type PaymentListFilter struct {
	Page           int
	PageSize       int
	UserID         uint
	ConsultationID uint
	Provider       string
	Status         string
	TransactionID  string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

// QuestionListFilter 查询法律问题列表的过滤条件
type QuestionListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	Category string
	Search   string
}

// FAQListFilter 查询常见问题列表的过滤条件
type FAQListFilter struct {
	Page          int
	PageSize      int
	Category      string
	Search        string
	PublishedOnly bool
}
