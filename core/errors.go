package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）、模块（Module）和消息（Message）
//   - 可选包装底层错误（Err），支持 errors.Is / errors.As
//
// 错误分类（与推荐链路的降级策略一一对应）：
//   - CATALOG_UNAVAILABLE：目录索引构建失败或为空，只在引擎构建时致命
//   - FUNNEL_FAILURE：单个召回漏斗出错/超时，局部吞掉，视为零贡献
//   - FEATURE_BUILD：候选或画像异常，丢弃该候选，其余继续
//   - MODEL_SCHEMA_MISMATCH：模型文件与特征版本不匹配，回退规则模型
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "FUNNEL_FAILURE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recall", "model"）
	Err     error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is 按 Module + Code 比较，便于 errors.Is(err, ErrFunnelFailure) 这种写法。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Module == t.Module
}

// Wrap 基于当前错误生成一个携带底层原因的新错误。
func (e *DomainError) Wrap(err error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Module: e.Module, Err: err}
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound            = "NOT_FOUND"
	ErrorCodeNotSupported        = "NOT_SUPPORTED"
	ErrorCodeUnavailable         = "UNAVAILABLE"
	ErrorCodeInvalidInput        = "INVALID_INPUT"
	ErrorCodeInternalError       = "INTERNAL_ERROR"
	ErrorCodeCatalogUnavailable  = "CATALOG_UNAVAILABLE"
	ErrorCodeFunnelFailure       = "FUNNEL_FAILURE"
	ErrorCodeFeatureBuild        = "FEATURE_BUILD"
	ErrorCodeModelSchemaMismatch = "MODEL_SCHEMA_MISMATCH"
)

// 模块名称常量
const (
	ModuleStore   = "store"
	ModuleCatalog = "catalog"
	ModuleRecall  = "recall"
	ModuleFeature = "feature"
	ModuleModel   = "model"
	ModuleEngine  = "engine"
)

var (
	// ErrCatalogUnavailable 目录不可用（加载失败或为空）
	ErrCatalogUnavailable = NewDomainError(ModuleCatalog, ErrorCodeCatalogUnavailable, "catalog: unavailable")

	// ErrFunnelFailure 单个召回漏斗失败（错误、panic 或超时）
	ErrFunnelFailure = NewDomainError(ModuleRecall, ErrorCodeFunnelFailure, "recall: funnel failed")

	// ErrFeatureBuild 特征构建失败，候选会被丢弃
	ErrFeatureBuild = NewDomainError(ModuleFeature, ErrorCodeFeatureBuild, "feature: build failed")

	// ErrModelSchemaMismatch 模型文件的特征 schema 与当前 Builder 不一致
	ErrModelSchemaMismatch = NewDomainError(ModuleModel, ErrorCodeModelSchemaMismatch, "model: schema version mismatch")
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}

// IsCatalogUnavailable 检查错误是否为目录不可用
func IsCatalogUnavailable(err error) bool {
	return hasCode(err, ErrorCodeCatalogUnavailable)
}

// IsFunnelFailure 检查错误是否为召回漏斗失败
func IsFunnelFailure(err error) bool {
	return hasCode(err, ErrorCodeFunnelFailure)
}

// IsFeatureBuild 检查错误是否为特征构建失败
func IsFeatureBuild(err error) bool {
	return hasCode(err, ErrorCodeFeatureBuild)
}

// IsModelSchemaMismatch 检查错误是否为模型 schema 不匹配
func IsModelSchemaMismatch(err error) bool {
	return hasCode(err, ErrorCodeModelSchemaMismatch)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}
