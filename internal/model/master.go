package model

import "time"

// Division 事业部
type Division struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code      string    `json:"code" gorm:"type:varchar(20);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Division) TableName() string {
	return "divisions"
}

// Department 部门，归属于某个事业部
type Department struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DivisionID string    `json:"division_id" gorm:"type:varchar(36);not null;index"`
	Code       string    `json:"code" gorm:"type:varchar(20);uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"type:varchar(100);not null"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Division *Division `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
}

func (Department) TableName() string {
	return "departments"
}

// Category 提案分类（Safety / Quality / Cost / Delivery 等，由管理员维护）
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}

// Event 活动/专项（提案可挂靠到某次改善活动）
type Event struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string     `json:"name" gorm:"type:varchar(100);not null"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}
