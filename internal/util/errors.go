package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrSubmissionQuota     = errors.New("submission not allowed for this question")
	ErrQuestionClosed      = errors.New("question is not open for submissions")
	ErrSubmissionFinalized = errors.New("submission already finalized")
	ErrTokenValueNotSet    = errors.New("no token value configured for category and difficulty")
	ErrCategorySelfParent  = errors.New("category cannot be its own parent")
)
