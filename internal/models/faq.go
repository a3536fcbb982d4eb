package models

import (
	"time"

	"gorm.io/gorm"
)

// FAQ 常见问题条目，俄/乌双语内容
type FAQ struct {
	ID          uint           `gorm:"primarykey" json:"id"`                    // 主键
	Category    string         `gorm:"index" json:"category,omitempty"`         // 分类
	SortOrder   int            `gorm:"index;default:0" json:"sort_order"`       // 展示顺序
	QuestionRu  string         `gorm:"type:text;not null" json:"question_ru"`   // 问题（俄语）
	AnswerRu    string         `gorm:"type:text;not null" json:"answer_ru"`     // 回答（俄语）
	QuestionUz  string         `gorm:"type:text" json:"question_uz,omitempty"`  // 问题（乌兹别克语）
	AnswerUz    string         `gorm:"type:text" json:"answer_uz,omitempty"`    // 回答（乌兹别克语）
	IsPublished bool           `gorm:"index;default:false" json:"is_published"` // 是否发布
	ViewCount   int64          `gorm:"default:0" json:"view_count"`             // 查看次数
	CreatedAt   time.Time      `json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (FAQ) TableName() string {
	return "faqs"
}

// LocalizedQuestion 按语言返回问题，缺失时回退俄语
func (f *FAQ) LocalizedQuestion(language string) string {
	if language == "uz" && f.QuestionUz != "" {
		return f.QuestionUz
	}
	return f.QuestionRu
}

// LocalizedAnswer 按语言返回回答，缺失时回退俄语
func (f *FAQ) LocalizedAnswer(language string) string {
	if language == "uz" && f.AnswerUz != "" {
		return f.AnswerUz
	}
	return f.AnswerRu
}
