package model

import (
	"encoding/json"
	"strings"
)

type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "mc"
	KindCheckbox       QuestionKind = "checkbox"
	KindJava           QuestionKind = "java"
)

// 未显式设置提交配额时的默认值
const (
	DefaultMaxSubmissionsExam    = 10
	DefaultMaxSubmissionsRegular = 100
)

// VariableSpec 描述一个随机变量的生成规则
type VariableSpec struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"` // int, float, choice
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Precision int      `json:"precision,omitempty"`
	Options   []string `json:"options,omitempty"`
}

// Choice 是一个选择题选项，切片顺序即录入顺序
type Choice struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type InputFile struct {
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
}

// Question 题目，Kind 区分封闭的变体集合 {mc, checkbox, java}，
// 共享字段摊平存储，按变体使用对应的 JSON 列
// swagger:model Question
type Question struct {
	BaseModel
	Kind                 QuestionKind      `gorm:"size:20;index;not null" json:"kind"`
	Title                string            `gorm:"size:300" json:"title"`
	Text                 string            `gorm:"type:text" json:"text"`
	Answer               string            `gorm:"type:text" json:"answer,omitempty"`
	Tutorial             string            `gorm:"type:text" json:"tutorial,omitempty"`
	MaxSubmissionAllowed int               `json:"maxSubmissionAllowed"`
	AuthorID             *uint             `gorm:"type:bigint unsigned" json:"authorId"`
	CategoryID           *uint             `gorm:"index;type:bigint unsigned" json:"categoryId"`
	Category             *QuestionCategory `gorm:"foreignKey:CategoryID" json:"-"`
	Difficulty           Difficulty        `gorm:"size:100;default:'EASY'" json:"difficulty"`
	IsVerified           bool              `gorm:"default:false" json:"isVerified"`
	IsSample             bool              `gorm:"default:false" json:"isSample"`
	EventID              *uint             `gorm:"index;type:bigint unsigned" json:"eventId"`
	Event                *Event            `gorm:"foreignKey:EventID" json:"-"`

	// 变量题字段
	Variables json.RawMessage `gorm:"type:json" json:"variables,omitempty"`

	// 选择题字段
	Choices                json.RawMessage `gorm:"type:json" json:"choices,omitempty"`
	VisibleDistractorCount int             `json:"visibleDistractorCount,omitempty"`

	// 代码题字段
	JUnitTemplate  string          `gorm:"type:text" json:"junitTemplate,omitempty"`
	InputFileNames json.RawMessage `gorm:"type:json" json:"inputFileNames,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) IsMultipleChoice() bool {
	return q.Kind == KindMultipleChoice || q.Kind == KindCheckbox
}

func (q *Question) IsCode() bool {
	return q.Kind == KindJava
}

// IsOpen 题目是否开放提交：必须绑定一个当前开放的活动
func (q *Question) IsOpen() bool {
	return q.Event != nil && q.Event.IsOpen()
}

func (q *Question) IsExam() bool {
	return q.Event != nil && q.Event.IsExam()
}

func (q *Question) IsExamAndOpen() bool {
	return q.Event != nil && q.Event.IsExamAndOpen()
}

// ApplyDefaults 构造期的默认值策略，入库前调用
func (q *Question) ApplyDefaults() {
	if q.MaxSubmissionAllowed == 0 {
		if q.Event != nil && q.Event.Type == EventExam {
			q.MaxSubmissionAllowed = DefaultMaxSubmissionsExam
		} else {
			q.MaxSubmissionAllowed = DefaultMaxSubmissionsRegular
		}
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyEasy
	}
}

// VariableSpecs 解析变量生成规则，非变量题返回空切片
func (q *Question) VariableSpecs() ([]VariableSpec, error) {
	if len(q.Variables) == 0 {
		return nil, nil
	}
	var specs []VariableSpec
	if err := json.Unmarshal(q.Variables, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// ChoiceList 解析选项，保持录入顺序
func (q *Question) ChoiceList() ([]Choice, error) {
	if len(q.Choices) == 0 {
		return nil, nil
	}
	var choices []Choice
	if err := json.Unmarshal(q.Choices, &choices); err != nil {
		return nil, err
	}
	return choices, nil
}

func (q *Question) InputFiles() ([]InputFile, error) {
	if len(q.InputFileNames) == 0 {
		return nil, nil
	}
	var files []InputFile
	if err := json.Unmarshal(q.InputFileNames, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// InputFileNameList 输入文件名列表，空格拼接供评测模板使用
func (q *Question) InputFileNameList() (string, error) {
	files, err := q.InputFiles()
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return strings.Join(names, " "), nil
}
