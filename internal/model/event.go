package model

import "time"

type EventType string

const (
	EventAssignment EventType = "ASSIGNMENT"
	EventExam       EventType = "EXAM"
)

// Event 表示课程内的一次活动（作业或考试），题目通过绑定活动获得开放窗口
// swagger:model Event
type Event struct {
	BaseModel
	Name      string    `gorm:"size:255;not null" json:"name"`
	Type      EventType `gorm:"type:enum('ASSIGNMENT','EXAM');default:'ASSIGNMENT'" json:"type"`
	CourseID  uint      `gorm:"index;type:bigint unsigned" json:"courseId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (Event) TableName() string {
	return "events"
}

// IsOpen 活动当前是否接受提交
func (e *Event) IsOpen() bool {
	now := time.Now()
	return !now.Before(e.StartDate) && !now.After(e.EndDate)
}

func (e *Event) IsExam() bool {
	return e.Type == EventExam
}

func (e *Event) IsExamAndOpen() bool {
	return e.IsExam() && e.IsOpen()
}
