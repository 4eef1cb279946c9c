package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gamification_backend/internal/config"
	"gamification_backend/internal/model"
	"gamification_backend/pkg/logger"

	"go.uber.org/zap"
)

// Judge0 的 Java 语言编号
const judgeLanguageJava = 62

// JudgeClient 对接外部代码评测服务（Judge0 兼容部署）。
// 派发后立即返回评测凭据，结果通过轮询获取
type JudgeClient struct {
	Config  *config.Judge0Config
	Storage *StorageService
	HTTP    *http.Client
}

func NewJudgeClient(cfg *config.Judge0Config, storage *StorageService) *JudgeClient {
	return &JudgeClient{
		Config:  cfg,
		Storage: storage,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type judgeSubmissionRequest struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
	Stdin      string `json:"stdin,omitempty"`
}

type judgeBatchRequest struct {
	Submissions []judgeSubmissionRequest `json:"submissions"`
}

type judgeTokenResponse struct {
	Token string `json:"token"`
}

type judgeBatchResults struct {
	Submissions []model.JudgeResult `json:"submissions"`
}

// Submit 打包提交代码、评测模板和输入文件并派发。
// 每个输入文件对应一个测试用例；无输入文件时派发单个用例。
// 调用返回时评测尚未完成，所有用例以排队状态入库
func (c *JudgeClient) Submit(submission *model.Submission, question *model.Question) error {
	ctx := context.Background()

	source, err := c.buildSource(ctx, submission, question)
	if err != nil {
		return err
	}

	files, err := question.InputFiles()
	if err != nil {
		return err
	}

	batch := judgeBatchRequest{}
	if len(files) == 0 {
		batch.Submissions = append(batch.Submissions, judgeSubmissionRequest{
			LanguageID: judgeLanguageJava,
			SourceCode: base64.StdEncoding.EncodeToString([]byte(source)),
		})
	}
	for _, file := range files {
		content := file.Content
		if content == "" {
			content, err = c.Storage.ReadFile(ctx, file.Name)
			if err != nil {
				return fmt.Errorf("input file %q: %w", file.Name, err)
			}
		}
		batch.Submissions = append(batch.Submissions, judgeSubmissionRequest{
			LanguageID: judgeLanguageJava,
			SourceCode: base64.StdEncoding.EncodeToString([]byte(source)),
			Stdin:      base64.StdEncoding.EncodeToString([]byte(content)),
		})
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	url := strings.TrimSuffix(c.Config.URL, "/") + "/submissions/batch?base64_encoded=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("judge dispatch failed with status %d", resp.StatusCode)
	}

	var tokens []judgeTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return err
	}

	// 凭据入库，用例以排队状态占位，等待轮询
	pending := make([]model.JudgeResult, 0, len(tokens))
	tokenList := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenList = append(tokenList, t.Token)
		pending = append(pending, model.JudgeResult{
			Token:  t.Token,
			Status: model.JudgeStatus{ID: model.JudgeStatusInQueue, Description: "In Queue"},
		})
	}

	rawTokens, err := json.Marshal(tokenList)
	if err != nil {
		return err
	}
	submission.JudgeTokens = rawTokens
	return submission.SetResultEntries(pending)
}

// FetchResults 按凭据拉取最新的用例结果。
// 拉取失败保持原结果不变，提交停留在评测中等待重试
func (c *JudgeClient) FetchResults(submission *model.Submission) error {
	var tokens []string
	if err := json.Unmarshal(submission.JudgeTokens, &tokens); err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	url := fmt.Sprintf("%s/submissions/batch?tokens=%s&base64_encoded=true&fields=token,status,stdout,stderr",
		strings.TrimSuffix(c.Config.URL, "/"), strings.Join(tokens, ","))
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("judge poll failed with status %d", resp.StatusCode)
	}

	var results judgeBatchResults
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return err
	}

	return submission.SetResultEntries(results.Submissions)
}

// buildSource 用变量值渲染评测模板并拼接提交的代码
func (c *JudgeClient) buildSource(ctx context.Context, submission *model.Submission, question *model.Question) (string, error) {
	specs, err := question.VariableSpecs()
	if err != nil {
		return "", err
	}

	values := map[string]string{}
	if submission.Junction != nil {
		var errs []string
		values, errs = GenerateVariables(specs, submission.Junction.RandomSeed)
		for _, e := range errs {
			logger.Log.Warn("variable generation error during dispatch", zap.String("detail", e))
		}
	}

	names, err := question.InputFileNameList()
	if err != nil {
		return "", err
	}
	values["input_file_names"] = names

	harness := RenderText(question.JUnitTemplate, values)
	answer := submission.Answer
	for name, content := range submission.AnswerFileMap() {
		answer += "\n// file: " + name + "\n" + content
	}

	return answer + "\n" + harness, nil
}

func (c *JudgeClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.Config.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.Config.APIKey)
	}
	if c.Config.Host != "" {
		req.Header.Set("X-RapidAPI-Host", c.Config.Host)
	}
}
