package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"gamification_backend/internal/model"
	"gamification_backend/internal/repository"
	"gamification_backend/internal/util"
)

type QuestionService struct {
	QuestionRepo   *repository.QuestionRepository
	EventRepo      *repository.EventRepository
	JunctionRepo   *repository.JunctionRepository
	SubmissionRepo *repository.SubmissionRepository
	TokenValueRepo *repository.TokenValueRepository
}

func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	eventRepo *repository.EventRepository,
	junctionRepo *repository.JunctionRepository,
	submissionRepo *repository.SubmissionRepository,
	tokenValueRepo *repository.TokenValueRepository,
) *QuestionService {
	return &QuestionService{
		QuestionRepo:   questionRepo,
		EventRepo:      eventRepo,
		JunctionRepo:   junctionRepo,
		SubmissionRepo: submissionRepo,
		TokenValueRepo: tokenValueRepo,
	}
}

type QuestionCreateRequest struct {
	Kind                   model.QuestionKind `json:"kind" binding:"required"`
	Title                  string             `json:"title" binding:"required"`
	Text                   string             `json:"text"`
	Answer                 string             `json:"answer"`
	Tutorial               string             `json:"tutorial"`
	MaxSubmissionAllowed   int                `json:"maxSubmissionAllowed"`
	CategoryID             *uint              `json:"categoryId"`
	Difficulty             model.Difficulty   `json:"difficulty"`
	EventID                *uint              `json:"eventId"`
	Variables              json.RawMessage    `json:"variables"`
	Choices                json.RawMessage    `json:"choices"`
	VisibleDistractorCount int                `json:"visibleDistractorCount"`
	JUnitTemplate          string             `json:"junitTemplate"`
	InputFileNames         json.RawMessage    `json:"inputFileNames"`
}

func (s *QuestionService) CreateQuestion(authorID uint, req QuestionCreateRequest) (*model.Question, error) {
	question := &model.Question{
		Kind:                   req.Kind,
		Title:                  req.Title,
		Text:                   req.Text,
		Answer:                 req.Answer,
		Tutorial:               req.Tutorial,
		MaxSubmissionAllowed:   req.MaxSubmissionAllowed,
		AuthorID:               &authorID,
		CategoryID:             req.CategoryID,
		Difficulty:             req.Difficulty,
		EventID:                req.EventID,
		Variables:              req.Variables,
		Choices:                req.Choices,
		VisibleDistractorCount: req.VisibleDistractorCount,
		JUnitTemplate:          req.JUnitTemplate,
		InputFileNames:         req.InputFileNames,
	}

	if req.EventID != nil {
		event, err := s.EventRepo.FindByID(*req.EventID)
		if err != nil {
			return nil, errors.New("event not found")
		}
		question.Event = event
	}

	if err := validateQuestionPayload(question); err != nil {
		return nil, err
	}

	// 默认值在构造期应用，而不是藏在持久化钩子里
	question.ApplyDefaults()

	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func validateQuestionPayload(q *model.Question) error {
	if _, err := q.VariableSpecs(); err != nil {
		return fmt.Errorf("invalid variables: %w", err)
	}
	switch q.Kind {
	case model.KindMultipleChoice, model.KindCheckbox:
		choices, err := q.ChoiceList()
		if err != nil {
			return fmt.Errorf("invalid choices: %w", err)
		}
		if len(choices) == 0 {
			return errors.New("multiple choice question requires choices")
		}
		if q.VisibleDistractorCount < 0 {
			return errors.New("visible distractor count must not be negative")
		}
	case model.KindJava:
		if q.JUnitTemplate == "" {
			return errors.New("code question requires a test harness template")
		}
		if _, err := q.InputFiles(); err != nil {
			return fmt.Errorf("invalid input files: %w", err)
		}
	default:
		return fmt.Errorf("unknown question kind %q", q.Kind)
	}
	return nil
}

// UpdateQuestion 更新题目，载荷校验与默认值策略同创建
func (s *QuestionService) UpdateQuestion(id uint, req QuestionCreateRequest) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	question.Kind = req.Kind
	question.Title = req.Title
	question.Text = req.Text
	question.Answer = req.Answer
	question.Tutorial = req.Tutorial
	question.MaxSubmissionAllowed = req.MaxSubmissionAllowed
	question.CategoryID = req.CategoryID
	question.Difficulty = req.Difficulty
	question.EventID = req.EventID
	question.Variables = req.Variables
	question.Choices = req.Choices
	question.VisibleDistractorCount = req.VisibleDistractorCount
	question.JUnitTemplate = req.JUnitTemplate
	question.InputFileNames = req.InputFileNames

	if req.EventID != nil {
		event, err := s.EventRepo.FindByID(*req.EventID)
		if err != nil {
			return nil, errors.New("event not found")
		}
		question.Event = event
	} else {
		question.Event = nil
	}

	if err := validateQuestionPayload(question); err != nil {
		return nil, err
	}
	question.ApplyDefaults()

	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

// QuestionView 渲染后的学习者视角：题面按个人种子实例化，
// 变量生成的诊断信息随题面一起返回，不阻断显示
type QuestionView struct {
	ID             uint               `json:"id"`
	Kind           model.QuestionKind `json:"kind"`
	Title          string             `json:"title"`
	Text           string             `json:"text"`
	Choices        []model.Choice     `json:"choices,omitempty"`
	Difficulty     model.Difficulty   `json:"difficulty"`
	Status         string             `json:"status"`
	Attempts       string             `json:"attempts"`
	CanSubmit      bool               `json:"canSubmit"`
	TokensReceived float64            `json:"tokensReceived"`
	VariableErrors []string           `json:"variableErrors,omitempty"`
}

// GetRenderedQuestion 取学习者视角的题目：生成变量、渲染题面与可见选项，
// 并把本次查看打点到关联记录
func (s *QuestionService) GetRenderedQuestion(user *model.User, questionID uint) (*QuestionView, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	junction, err := s.JunctionRepo.FindOrCreate(user.ID, question.ID)
	if err != nil {
		return nil, err
	}
	if err := s.JunctionRepo.MarkViewed(junction); err != nil {
		return nil, err
	}

	specs, err := question.VariableSpecs()
	if err != nil {
		return nil, err
	}
	values, varErrs := GenerateVariables(specs, junction.RandomSeed)

	view := &QuestionView{
		ID:             question.ID,
		Kind:           question.Kind,
		Title:          question.Title,
		Text:           RenderText(question.Text, values),
		Difficulty:     question.Difficulty,
		TokensReceived: junction.TokensReceived,
		VariableErrors: varErrs,
	}

	if question.IsMultipleChoice() {
		choices, err := question.ChoiceList()
		if err != nil {
			return nil, err
		}
		view.Choices = VisibleChoices(choices, question.VisibleDistractorCount, junction.RandomSeed, values)
	}

	count, err := s.SubmissionRepo.CountByJunction(junction.ID)
	if err != nil {
		return nil, err
	}
	view.Status = junction.Status(count)
	view.Attempts = junction.FormattedAttempts(count, question)
	view.CanSubmit = junction.CanSubmit(user, question, count)

	return view, nil
}

// OpenTutorial 打开题目教程。打开教程后该题不再允许提交
func (s *QuestionService) OpenTutorial(user *model.User, questionID uint) (string, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return "", util.ErrQuestionNotFound
	}

	junction, err := s.JunctionRepo.FindOrCreate(user.ID, question.ID)
	if err != nil {
		return "", err
	}
	if !junction.OpenedTutorial {
		junction.OpenedTutorial = true
		if err := s.JunctionRepo.Update(junction); err != nil {
			return "", err
		}
	}

	specs, err := question.VariableSpecs()
	if err != nil {
		return "", err
	}
	values, _ := GenerateVariables(specs, junction.RandomSeed)
	return RenderText(question.Tutorial, values), nil
}

// ListSamples 示例题列表，未登录也可浏览
func (s *QuestionService) ListSamples() ([]model.Question, error) {
	return s.QuestionRepo.FindSamples()
}

func (s *QuestionService) ListByEvent(eventID uint) ([]model.Question, error) {
	if _, err := s.EventRepo.FindByID(eventID); err != nil {
		return nil, errors.New("event not found")
	}
	return s.QuestionRepo.FindByEvent(eventID)
}

func (s *QuestionService) DeleteQuestion(id uint) error {
	if _, err := s.QuestionRepo.FindByID(id); err != nil {
		return util.ErrQuestionNotFound
	}
	return s.QuestionRepo.Delete(id)
}

func (s *QuestionService) ListByCategory(categoryID uint, page, limit int) ([]model.Question, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.QuestionRepo.FindByCategoryWithPagination(categoryID, page, limit)
}

// ProgressEntry 学习者在单个题目上的进度
type ProgressEntry struct {
	QuestionID      uint    `json:"questionId"`
	Title           string  `json:"title"`
	Solved          bool    `json:"solved"`
	PartiallySolved bool    `json:"partiallySolved"`
	TokensReceived  float64 `json:"tokensReceived"`
}

// ListProgress 学习者的全部题目进度，按最近活动排序
func (s *QuestionService) ListProgress(userID uint) ([]ProgressEntry, error) {
	junctions, err := s.JunctionRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	entries := make([]ProgressEntry, 0, len(junctions))
	for _, j := range junctions {
		e := ProgressEntry{
			QuestionID:      j.QuestionID,
			Solved:          j.IsSolved,
			PartiallySolved: j.IsPartiallySolved,
			TokensReceived:  j.TokensReceived,
		}
		if j.Question != nil {
			e.Title = j.Question.Title
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SuccessRate 解出人数占尝试过人数的比例
func (s *QuestionService) SuccessRate(questionID uint) (float64, error) {
	solved, tried, err := s.QuestionRepo.SolvedAndTried(questionID)
	if err != nil {
		return 0, err
	}
	if tried == 0 {
		return 0, nil
	}
	return float64(solved) / float64(tried), nil
}

// ResolveTokenValue 查询 (分类, 难度) 的代币系数，未配置视为配置故障
func (s *QuestionService) ResolveTokenValue(question *model.Question) (float64, error) {
	if question.CategoryID == nil {
		return 0, util.ErrTokenValueNotSet
	}
	tv, err := s.TokenValueRepo.FindByCategoryAndDifficulty(*question.CategoryID, question.Difficulty)
	if err != nil {
		return 0, util.ErrTokenValueNotSet
	}
	return tv.Value, nil
}
