package model

import (
	"github.com/rs/zerolog"
)

// Select 在启动时选择一次排序模型：模型文件加载成功用 Wide&Deep，否则用规则模型。
// 模型文件缺失或不兼容不是致命错误，只记一条 Warn。
func Select(artifactPath string, rules *RuleModel, logger zerolog.Logger) RankModel {
	if artifactPath == "" {
		return rules
	}
	a, err := LoadArtifact(artifactPath)
	if err == nil {
		var m *WideDeepModel
		if m, err = NewWideDeepModel(a); err == nil {
			logger.Info().Str("path", artifactPath).Str("schema", a.SchemaVersion).Msg("learned ranking model loaded")
			return m
		}
	}
	logger.Warn().Err(err).Str("path", artifactPath).Msg("model artifact unusable, falling back to rule-based ranking")
	return rules
}
