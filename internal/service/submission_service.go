package service

import (
	"encoding/json"
	"sync"

	"gamification_backend/internal/model"
	"gamification_backend/internal/repository"
	"gamification_backend/internal/util"
	"gamification_backend/pkg/logger"

	"go.uber.org/zap"
)

// SubmissionService 驱动作答的生命周期：创建、异步评测、定格、代币结算与关联状态聚合。
// 流水线步骤按固定顺序显式编排：判分 -> 结清则定格并结算 -> 重算关联状态。
// 判分与重算幂等；结算靠按提交粒度的互斥锁保证每次结清至多执行一次，
// 结算失败会回滚定格标记，保证配置故障不吞掉学习者的代币
type SubmissionService struct {
	SubmissionRepo *repository.SubmissionRepository
	JunctionRepo   *repository.JunctionRepository
	QuestionRepo   *repository.QuestionRepository
	TokenValueRepo *repository.TokenValueRepository
	ActionRepo     *repository.ActionRepository
	UserRepo       *repository.UserRepository
	Judge          *JudgeClient

	locks sync.Map // submission ID -> *sync.Mutex
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	junctionRepo *repository.JunctionRepository,
	questionRepo *repository.QuestionRepository,
	tokenValueRepo *repository.TokenValueRepository,
	actionRepo *repository.ActionRepository,
	userRepo *repository.UserRepository,
	judge *JudgeClient,
) *SubmissionService {
	return &SubmissionService{
		SubmissionRepo: submissionRepo,
		JunctionRepo:   junctionRepo,
		QuestionRepo:   questionRepo,
		TokenValueRepo: tokenValueRepo,
		ActionRepo:     actionRepo,
		UserRepo:       userRepo,
		Judge:          judge,
	}
}

func (s *SubmissionService) lockFor(submissionID uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(submissionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// releaseLock 在提交定格后回收互斥锁，防止映射随历史提交无限增长
func (s *SubmissionService) releaseLock(submissionID uint) {
	s.locks.Delete(submissionID)
}

type SubmitRequest struct {
	QuestionID  uint              `json:"questionId" binding:"required"`
	Answer      string            `json:"answer"`
	AnswerFiles map[string]string `json:"answerFiles,omitempty"`
}

// Submit 创建一次作答。同步变体当场判分定格；代码变体派发到外部评测服务后保持评测中
func (s *SubmissionService) Submit(user *model.User, req SubmitRequest) (*model.Submission, error) {
	question, err := s.QuestionRepo.FindByID(req.QuestionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	junction, err := s.JunctionRepo.FindOrCreate(user.ID, question.ID)
	if err != nil {
		return nil, err
	}

	count, err := s.SubmissionRepo.CountByJunction(junction.ID)
	if err != nil {
		return nil, err
	}
	if !junction.CanSubmit(user, question, count) {
		return nil, util.ErrSubmissionQuota
	}

	kind := model.SubmissionMultipleChoice
	if question.IsCode() {
		kind = model.SubmissionCode
	}

	submission := &model.Submission{
		JunctionID: junction.ID,
		Junction:   junction,
		Kind:       kind,
		Answer:     req.Answer,
	}
	if len(req.AnswerFiles) > 0 {
		raw, err := json.Marshal(req.AnswerFiles)
		if err != nil {
			return nil, err
		}
		submission.AnswerFiles = raw
	}

	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, err
	}

	// 派发和结算都在提交锁内执行，避免并发刷新重复派发
	mu := s.lockFor(submission.ID)
	mu.Lock()
	defer mu.Unlock()

	if question.IsCode() {
		// 派发失败不是致命错误：提交停留在评测中，由后续轮询重试
		if err := s.dispatch(submission, question); err != nil {
			logger.Log.Warn("judge dispatch failed, submission stays evaluating",
				zap.Uint("submission", submission.ID), zap.Error(err))
		}
	}

	if err := s.settle(submission, question, junction, user); err != nil {
		return nil, err
	}
	return submission, nil
}

// Refresh 重新拉取外部评测结果并推进状态机。
// 已定格的提交不再判分，重复调用是安全的空操作
func (s *SubmissionService) Refresh(user *model.User, submissionID uint) (*model.Submission, error) {
	mu := s.lockFor(submissionID)
	mu.Lock()
	defer mu.Unlock()

	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		return nil, util.ErrSubmissionNotFound
	}

	junction, err := s.JunctionRepo.FindByID(submission.JunctionID)
	if err != nil {
		return nil, err
	}
	if junction.UserID != user.ID && !user.IsElevated() {
		return nil, util.ErrPermissionDenied
	}
	submission.Junction = junction

	question, err := s.QuestionRepo.FindByID(junction.QuestionID)
	if err != nil {
		return nil, err
	}

	if submission.Finalized {
		s.releaseLock(submission.ID)
		return submission, nil
	}

	if submission.Kind == model.SubmissionCode {
		if len(submission.JudgeTokens) == 0 {
			// 上次派发失败，重试
			if err := s.dispatch(submission, question); err != nil {
				logger.Log.Warn("judge dispatch retry failed",
					zap.Uint("submission", submission.ID), zap.Error(err))
			}
		} else if err := s.Judge.FetchResults(submission); err != nil {
			// 拉取失败保持评测中，留给下一次轮询
			logger.Log.Warn("judge poll failed", zap.Uint("submission", submission.ID), zap.Error(err))
		}
	}

	owner := junction.User
	if owner == nil {
		owner, err = s.UserRepo.FindByID(junction.UserID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.settle(submission, question, junction, owner); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *SubmissionService) ListForQuestion(user *model.User, questionID uint) ([]model.Submission, error) {
	junction, err := s.JunctionRepo.FindOrCreate(user.ID, questionID)
	if err != nil {
		return nil, err
	}
	return s.SubmissionRepo.FindByJunction(junction.ID)
}

func (s *SubmissionService) dispatch(submission *model.Submission, question *model.Question) error {
	if len(submission.JudgeTokens) > 0 {
		return nil
	}
	grader, ok := GraderFor(question.Kind, s.Judge).(AsyncGrader)
	if !ok {
		return nil
	}
	if err := grader.Dispatch(submission, question); err != nil {
		return err
	}
	return s.SubmissionRepo.Update(submission)
}

// settle 推进状态机一步。调用方必须持有该提交的互斥锁
func (s *SubmissionService) settle(submission *model.Submission, question *model.Question, junction *model.UserQuestionJunction, user *model.User) error {
	if !submission.Finalized {
		// 1. 判分
		correct, score := GraderFor(question.Kind, s.Judge).Grade(submission, question)
		submission.IsCorrect = correct
		submission.Grade = score
		submission.IsPartiallyCorrect = !correct && score > 0

		// 2+3. 结清则定格并结算代币。结算只在结清转换的这一次走到，配合锁保证至多一次记账
		if !submission.InProgress() {
			var creditStep func() error
			if submission.IsCorrect || submission.IsPartiallyCorrect || question.IsExam() {
				creditStep = func() error {
					return s.credit(submission, question, junction, user)
				}
			}
			if err := finalizeWithCredit(submission, creditStep); err != nil {
				// 定格已回滚：把成绩落库但保持未定格，配置修复后的刷新可以重试结算
				if uerr := s.SubmissionRepo.Update(submission); uerr != nil {
					logger.Log.Error("failed to persist unsettled submission",
						zap.Uint("submission", submission.ID), zap.Error(uerr))
				}
				return err
			}
		}

		if err := s.SubmissionRepo.Update(submission); err != nil {
			return err
		}
	}

	// 4. 从完整历史重算关联状态
	submissions, err := s.SubmissionRepo.FindByJunction(junction.ID)
	if err != nil {
		return err
	}
	junction.RecomputeStatus(submissions)
	if err := s.JunctionRepo.Update(junction); err != nil {
		return err
	}

	if submission.Finalized {
		s.releaseLock(submission.ID)
	}
	return nil
}

// finalizeWithCredit 定格提交并执行结算一步。结算失败时回滚定格标记，
// 让代币价值未配置之类的配置故障保持可恢复：提交停留在评测完成但未定格，
// 后续刷新会重新走到结算
func finalizeWithCredit(submission *model.Submission, credit func() error) error {
	submission.Finalized = true
	if credit == nil {
		return nil
	}
	if err := credit(); err != nil {
		submission.Finalized = false
		return err
	}
	return nil
}

// creditDecision 计算应得代币并判定是否覆盖当前值。
// 考试模式无条件覆盖；平时模式只允许增加
func creditDecision(isExam bool, score, tokenValue, current float64) (received float64, overwrite bool) {
	received = score * tokenValue
	return received, isExam || received > current
}

// credit 代币结算。考试模式无条件覆盖（允许重判后下调）；
// 平时模式只在新成绩更高时覆盖，学习者的最好成绩保持有效。
// 配置缺失是明确的故障，绝不静默使用默认值
func (s *SubmissionService) credit(submission *model.Submission, question *model.Question, junction *model.UserQuestionJunction, user *model.User) error {
	if question.CategoryID == nil {
		return util.ErrTokenValueNotSet
	}
	tokenValue, err := s.TokenValueRepo.FindByCategoryAndDifficulty(*question.CategoryID, question.Difficulty)
	if err != nil {
		return util.ErrTokenValueNotSet
	}

	received, overwrite := creditDecision(question.IsExam(), submission.Grade, tokenValue.Value, junction.TokensReceived)
	if !overwrite {
		return nil
	}

	delta := received - junction.TokensReceived
	junction.TokensReceived = received
	if err := s.JunctionRepo.Update(junction); err != nil {
		return err
	}
	if err := s.UserRepo.AddTokens(user.ID, delta); err != nil {
		return err
	}

	// 审计流水是旁路通知，失败只记日志
	action := &model.Action{
		UserID:      user.ID,
		Description: submission.Description(question.Title),
		TokenChange: received,
		Kind:        model.ActionComplete,
	}
	if err := s.ActionRepo.Create(action); err != nil {
		logger.Log.Error("failed to record completion action",
			zap.Uint("user", user.ID), zap.Error(err))
	}
	return nil
}
