package model

import "fmt"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyNormal Difficulty = "NORMAL"
	DifficultyHard   Difficulty = "HARD"
)

// QuestionCategory 表示题目分类，parent 构成分类树，NextCategories 构成学习路径DAG
// 约定 parent 不允许出现环，结构上不强制
// swagger:model QuestionCategory
type QuestionCategory struct {
	BaseModel
	Name           string             `gorm:"size:100;not null" json:"name"`
	Description    string             `gorm:"type:text" json:"description"`
	ParentID       *uint              `gorm:"index;type:bigint unsigned" json:"parentId"`
	Parent         *QuestionCategory  `gorm:"foreignKey:ParentID" json:"-"`
	NextCategories []QuestionCategory `gorm:"many2many:category_next_categories" json:"-"`
}

func (QuestionCategory) TableName() string {
	return "question_categories"
}

func (c *QuestionCategory) FullName() string {
	if c.Parent == nil {
		return c.Name
	}
	return fmt.Sprintf("%s :: %s", c.Parent.FullName(), c.Name)
}

// TokenValue 按 (分类, 难度) 配置的代币奖励系数，二者联合唯一
// swagger:model TokenValue
type TokenValue struct {
	BaseModel
	Value      float64    `json:"value"`
	CategoryID uint       `gorm:"uniqueIndex:idx_category_difficulty;type:bigint unsigned;not null" json:"categoryId"`
	Difficulty Difficulty `gorm:"uniqueIndex:idx_category_difficulty;size:100" json:"difficulty"`
}

func (TokenValue) TableName() string {
	return "token_values"
}

// DefaultTokenValue 创建时未给定数值使用的难度默认值
func DefaultTokenValue(difficulty Difficulty) float64 {
	switch difficulty {
	case DifficultyEasy:
		return 1
	case DifficultyNormal:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}
