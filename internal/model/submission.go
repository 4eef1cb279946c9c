package model

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

type SubmissionKind string

const (
	SubmissionMultipleChoice SubmissionKind = "mc"
	SubmissionCode           SubmissionKind = "code"
)

// 外部评测服务的状态码,与既有 Judge0 部署保持一致
const (
	JudgeStatusInQueue      = 1
	JudgeStatusProcessing   = 2
	JudgeStatusAccepted     = 3
	JudgeStatusWrongAnswer  = 4
	JudgeStatusTimeLimit    = 5
	JudgeStatusCompileError = 6
)

// JudgeStatus 单个测试用例的评测状态
type JudgeStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// JudgeResult 外部评测服务返回的单个测试用例结果，stdout/stderr 为 base64 编码
type JudgeResult struct {
	Token  string      `json:"token,omitempty"`
	Status JudgeStatus `json:"status"`
	Stdout string      `json:"stdout"`
	Stderr string      `json:"stderr"`
}

// Submission 一次作答，Kind 区分 {mc, code}。
// finalized 置位后 grade/correct 字段不再变更
// swagger:model Submission
type Submission struct {
	BaseModel
	JunctionID uint                  `gorm:"index;type:bigint unsigned;not null" json:"junctionId"`
	Junction   *UserQuestionJunction `gorm:"foreignKey:JunctionID" json:"-"`
	Kind       SubmissionKind        `gorm:"size:20;index;not null" json:"kind"`

	SubmissionTime time.Time `gorm:"autoCreateTime" json:"submissionTime"`
	Answer         string    `gorm:"type:text" json:"answer"`

	Grade              float64 `gorm:"default:0" json:"grade"`
	IsCorrect          bool    `gorm:"default:false" json:"isCorrect"`
	IsPartiallyCorrect bool    `gorm:"default:false" json:"isPartiallyCorrect"`
	Finalized          bool    `gorm:"default:false" json:"finalized"`

	// 代码题字段：评测服务的提交凭据与原始用例结果
	JudgeTokens json.RawMessage `gorm:"type:json" json:"-"`
	Results     json.RawMessage `gorm:"type:json" json:"results,omitempty"`

	// 提交的附加源文件（文件名 -> 内容）
	AnswerFiles json.RawMessage `gorm:"type:json" json:"answerFiles,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// ResultEntries 解析评测用例结果，无结果时返回空切片
func (s *Submission) ResultEntries() []JudgeResult {
	if len(s.Results) == 0 {
		return nil
	}
	var results []JudgeResult
	if err := json.Unmarshal(s.Results, &results); err != nil {
		return nil
	}
	return results
}

func (s *Submission) SetResultEntries(results []JudgeResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	s.Results = raw
	return nil
}

// InProgress 是否仍在等待外部评测结束。选择题永远为 false。
// 尚无用例结果的代码题视为评测中（派发失败后等待重试，而非定格为零分）
func (s *Submission) InProgress() bool {
	if s.Kind != SubmissionCode {
		return false
	}
	results := s.ResultEntries()
	if len(results) == 0 {
		return true
	}
	for _, r := range results {
		if r.Status.ID == JudgeStatusInQueue || r.Status.ID == JudgeStatusProcessing {
			return true
		}
	}
	return false
}

// IsCompileError 所有用例均为编译错误时成立，此时短路计分
func (s *Submission) IsCompileError() bool {
	results := s.ResultEntries()
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Status.ID != JudgeStatusCompileError {
			return false
		}
	}
	return true
}

// DecodedStdout 第一个用例的 stdout，解码失败按空输出处理
func (s *Submission) DecodedStdout() string {
	results := s.ResultEntries()
	if len(results) == 0 {
		return ""
	}
	out, err := base64.StdEncoding.DecodeString(results[0].Stdout)
	if err != nil {
		return ""
	}
	return string(out)
}

func (s *Submission) DecodedStderr() string {
	results := s.ResultEntries()
	if len(results) == 0 {
		return ""
	}
	out, err := base64.StdEncoding.DecodeString(results[0].Stderr)
	if err != nil {
		return ""
	}
	return string(out)
}

// Status 面向学习者的状态文案；评测未结束时显示 Evaluating 而非错误的成绩
func (s *Submission) Status() string {
	if s.InProgress() {
		return "Evaluating"
	}
	if s.IsCorrect {
		return "Correct"
	}
	if s.IsPartiallyCorrect {
		return "Partially Correct"
	}
	return "Wrong"
}

// Description 写入审计流水的文案
func (s *Submission) Description(questionTitle string) string {
	if s.IsPartiallyCorrect {
		return "Partially Solved Question " + questionTitle
	}
	return "Solved Question " + questionTitle
}

func (s *Submission) AnswerFileMap() map[string]string {
	if len(s.AnswerFiles) == 0 {
		return nil
	}
	var files map[string]string
	if err := json.Unmarshal(s.AnswerFiles, &files); err != nil {
		return nil
	}
	return files
}
