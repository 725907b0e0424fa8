// Package config 加载服务配置：默认值 → YAML 文件 → 环境变量（FOODREC_ 前缀），
// 后者覆盖前者，最后用 validator 校验。
package config

import (
	"time"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/engine"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/feature"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/foodcard"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/model"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/recall"
)

// Config 是服务的完整配置。
type Config struct {
	Server    ServerConfig       `koanf:"server"`
	Log       LogConfig          `koanf:"log"`
	Catalog   CatalogConfig      `koanf:"catalog"`
	Recall    RecallConfig       `koanf:"recall"`
	Engine    engine.Config      `koanf:"engine"`
	Feature   feature.Config     `koanf:"feature"`
	Bias      feature.BiasPolicy `koanf:"bias"`
	Rank      RankConfig         `koanf:"rank"`
	Foodcard  FoodcardConfig     `koanf:"foodcard"`
	Blacklist BlacklistConfig    `koanf:"blacklist"`
}

// ServerConfig HTTP 服务。
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `koanf:"request_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"` // 每 IP 每分钟请求数，0 表示不限
}

// LogConfig 日志。
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// CatalogConfig 目录来源：Path 指向本地快照文件，否则从 Store 读取版本化快照。
type CatalogConfig struct {
	Path           string        `koanf:"path"`
	Store          StoreConfig   `koanf:"store"`
	Strict         bool          `koanf:"strict"`
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"gte=0"`
}

// StoreConfig 快照存储。
type StoreConfig struct {
	Type      string `koanf:"type" validate:"oneof=none memory redis"`
	Addr      string `koanf:"addr" validate:"required_if=Type redis"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db" validate:"gte=0"`
	KeyPrefix string `koanf:"key_prefix"`
}

// RecallConfig 候选生成。
type RecallConfig struct {
	Funnels  []string          `koanf:"funnels" validate:"min=1,dive,required"`
	Limits   map[string]int    `koanf:"limits" validate:"dive,gte=0"`
	MaxTotal int               `koanf:"max_total" validate:"gte=1"`
	Timeout  time.Duration     `koanf:"timeout" validate:"gt=0"`
	Regions  map[string]string `koanf:"regions"`
}

// RankConfig 排序模型。ModelPath 为空时使用规则模型。
type RankConfig struct {
	ModelPath string       `koanf:"model_path"`
	Rules     []model.Rule `koanf:"rules" validate:"dive"`
}

// FoodcardConfig 饭卡余额服务，URL 为空表示不启用。
type FoodcardConfig struct {
	URL     string                 `koanf:"url" validate:"omitempty,url"`
	Breaker foodcard.BreakerConfig `koanf:"breaker"`
}

// BlacklistConfig 运营屏蔽名单。
type BlacklistConfig struct {
	ShopIDs []int64 `koanf:"shop_ids"`
	Key     string  `koanf:"key"`
}

// Default 返回默认配置。
func Default() *Config {
	limits := make(map[string]int, len(recall.DefaultLimits))
	for k, v := range recall.DefaultLimits {
		limits[k] = v
	}
	regions := make(map[string]string, len(catalog.DefaultRegions))
	for k, v := range catalog.DefaultRegions {
		regions[k] = v
	}
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  2 * time.Second,
		},
		Log:     LogConfig{Level: "info", Format: "json"},
		Catalog: CatalogConfig{Store: StoreConfig{Type: "none", KeyPrefix: "catalog"}},
		Recall: RecallConfig{
			Funnels:  []string{core.FunnelPopularity, core.FunnelContextual, core.FunnelContent, core.FunnelCollaborative},
			Limits:   limits,
			MaxTotal: recall.DefaultMaxTotal,
			Timeout:  recall.DefaultTimeout,
			Regions:  regions,
		},
		Engine:   engine.DefaultConfig(),
		Feature:  feature.DefaultConfig(),
		Bias:     feature.DefaultBiasPolicy(),
		Foodcard: FoodcardConfig{Breaker: foodcard.DefaultBreakerConfig()},
	}
}
