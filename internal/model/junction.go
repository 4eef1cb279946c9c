package model

import (
	"fmt"
	"math/rand"
	"time"
)

// UserQuestionJunction 用户与题目的关联记录，(user, question) 联合唯一，
// 持有一次性分配、不可变的随机种子以及从提交历史推导出的完成状态
// swagger:model UserQuestionJunction
type UserQuestionJunction struct {
	BaseModel
	UserID     uint      `gorm:"uniqueIndex:idx_user_question;type:bigint unsigned;not null" json:"userId"`
	QuestionID uint      `gorm:"uniqueIndex:idx_user_question;type:bigint unsigned;not null" json:"questionId"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"-"`

	RandomSeed     int64      `gorm:"not null" json:"randomSeed"`
	LastViewed     *time.Time `gorm:"index" json:"lastViewed"`
	OpenedTutorial bool       `gorm:"default:false" json:"openedTutorial"`
	TokensReceived float64    `gorm:"default:0" json:"tokensReceived"`

	IsSolved          bool `gorm:"default:false;index" json:"isSolved"`
	IsPartiallySolved bool `gorm:"default:false;index" json:"isPartiallySolved"`

	Submissions []Submission `gorm:"foreignKey:JunctionID" json:"-"`
}

func (UserQuestionJunction) TableName() string {
	return "user_question_junctions"
}

// NewRandomSeed 生成 8 位十进制种子，与既有部署的种子取值范围保持一致
func NewRandomSeed() int64 {
	return rand.Int63n(100000000)
}

// RecomputeStatus 从完整提交历史重算完成标志，二者只能由这里写入
func (j *UserQuestionJunction) RecomputeStatus(submissions []Submission) {
	j.IsSolved = false
	j.IsPartiallySolved = false
	for _, s := range submissions {
		if s.IsCorrect {
			j.IsSolved = true
		}
	}
	if !j.IsSolved {
		for _, s := range submissions {
			if s.IsPartiallyCorrect {
				j.IsPartiallySolved = true
				break
			}
		}
	}
}

// CanSubmit 提交资格判定。特权角色无条件放行；打开过教程或已解出的不再允许；
// 其余情况要求未用完配额且题目处于开放窗口
func (j *UserQuestionJunction) CanSubmit(user *User, question *Question, submissionCount int) bool {
	if user.IsElevated() {
		return true
	}
	if j.OpenedTutorial {
		return false
	}
	if j.IsSolved {
		return false
	}
	return submissionCount < question.MaxSubmissionAllowed && question.IsOpen()
}

// Status 面向活动流的状态文案
func (j *UserQuestionJunction) Status(submissionCount int) string {
	if j.IsSolved {
		return "Solved"
	}
	if j.IsPartiallySolved {
		return "Partially Solved"
	}
	if submissionCount > 0 {
		return "Wrong"
	}
	if j.LastViewed != nil {
		return "Unsolved"
	}
	return "New"
}

func (j *UserQuestionJunction) FormattedAttempts(submissionCount int, question *Question) string {
	return fmt.Sprintf("Used %d out of %d", submissionCount, question.MaxSubmissionAllowed)
}
