package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/recall"
)

// EnvPrefix 环境变量前缀。层级用双下划线分隔：
// FOODREC_ENGINE__TOP_K=20 → engine.top_k。
const EnvPrefix = "FOODREC_"

// PathEnvVar 指定配置文件路径的环境变量。
const PathEnvVar = "FOODREC_CONFIG"

// DefaultPaths 未指定路径时依次查找的配置文件。
var DefaultPaths = []string{"foodrec.yaml", "foodrec.yml", "/etc/foodrec/config.yaml"}

// sliceKeys 来自环境变量时按逗号切分的配置项。
var sliceKeys = []string{"recall.funnels", "blacklist.shop_ids", "server.cors_origins"}

// Load 按 默认值 → 配置文件 → 环境变量 的顺序加载并校验配置。
// path 为空时先看 FOODREC_CONFIG，再查 DefaultPaths，都没有就只用默认值和环境变量。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKey FOODREC_CATALOG__STORE__ADDR → catalog.store.addr
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验字段约束与跨字段规则。
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := BuildFunnels(c.Recall.Funnels, nil, nil); err != nil {
		return err
	}
	if c.Catalog.Strict && c.Catalog.Path == "" && c.Catalog.Store.Type == "none" {
		return errors.New("catalog.strict requires catalog.path or catalog.store")
	}
	// 加权后的内容分超过归一化上限会被截断，layer1_base 就分不出高低
	if peak := recall.MaxContentScore * (1 + c.Engine.Weighting.VectorSearchWeight); peak > c.Feature.ScoreScale {
		return fmt.Errorf("engine.weighting.vector_search_weight %.2f lifts content score to %.0f, above feature.score_scale %.0f",
			c.Engine.Weighting.VectorSearchWeight, peak, c.Feature.ScoreScale)
	}
	for name, p := range c.Bias.Attributes {
		if p.Weight < 0 {
			return fmt.Errorf("bias.attributes.%s.weight must be >= 0", name)
		}
	}
	return nil
}
