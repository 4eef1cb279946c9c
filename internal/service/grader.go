package service

import (
	"gamification_backend/internal/model"
)

// Grader 按题目变体计算一次作答的成绩
type Grader interface {
	// Grade 返回 (是否完全正确, [0,1] 区间的得分)
	Grade(submission *model.Submission, question *model.Question) (bool, float64)
}

// AsyncGrader 评测在外部服务异步进行的变体，创建作答后需要先派发
type AsyncGrader interface {
	Grader
	Dispatch(submission *model.Submission, question *model.Question) error
}

// MultipleChoiceGrader 同步判分：提交的选项键与标准答案完全一致得满分，无部分分
type MultipleChoiceGrader struct{}

func (MultipleChoiceGrader) Grade(submission *model.Submission, question *model.Question) (bool, float64) {
	if submission.Answer != "" && submission.Answer == question.Answer {
		return true, 1.0
	}
	return false, 0.0
}

// CodeJudgeGrader 异步判分：派发到外部评测服务，
// 从用例 stdout 的 JUnit 报告统计通过数计算得分
type CodeJudgeGrader struct {
	Judge *JudgeClient
}

func (g *CodeJudgeGrader) Dispatch(submission *model.Submission, question *model.Question) error {
	return g.Judge.Submit(submission, question)
}

// Grade 在评测结束前每次访问都会重新计算。
// 所有用例均为编译错误时短路为零分；畸形报告按零个通过处理
func (g *CodeJudgeGrader) Grade(submission *model.Submission, question *model.Question) (bool, float64) {
	if submission.IsCompileError() {
		return false, 0.0
	}

	report := ParseJUnitReport(submission.DecodedStdout())
	if len(report) == 0 {
		return false, 0.0
	}

	passed := 0
	for _, test := range report {
		if test.Status == "PASS" {
			passed++
		}
	}

	score := float64(passed) / float64(len(report))
	return passed == len(report), score
}

// GraderFor 按变体标签分派判分策略
func GraderFor(kind model.QuestionKind, judge *JudgeClient) Grader {
	switch kind {
	case model.KindJava:
		return &CodeJudgeGrader{Judge: judge}
	default:
		return MultipleChoiceGrader{}
	}
}
