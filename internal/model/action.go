package model

type ActionKind string

const (
	ActionComplete ActionKind = "COMPLETE"
)

// Action 不可变审计流水，记录一次代币结算，供活动时间线消费
// swagger:model Action
type Action struct {
	BaseModel
	UserID      uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Description string     `gorm:"size:500" json:"description"`
	TokenChange float64    `json:"tokenChange"`
	Kind        ActionKind `gorm:"size:20;default:'COMPLETE'" json:"kind"`
}

func (Action) TableName() string {
	return "actions"
}
