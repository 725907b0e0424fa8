package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// Loader 读取一份版本化的目录快照。
type Loader interface {
	Name() string
	Load(ctx context.Context) (*Catalog, *LoadReport, error)
}

// Parse 按格式解析快照字节；format 为 "yaml"/"yml" 时用 YAML，否则按 JSON。
func Parse(data []byte, format string) (*Catalog, *LoadReport, error) {
	var raw any
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("parse json: %w", err)
		}
	}
	return Decode(raw)
}

// FileLoader 从本地文件加载快照，按扩展名选择格式。
type FileLoader struct {
	Path string
}

func (l *FileLoader) Name() string { return "file" }

func (l *FileLoader) Load(_ context.Context) (*Catalog, *LoadReport, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	format := strings.TrimPrefix(filepath.Ext(l.Path), ".")
	return Parse(data, format)
}

// 快照在 Store 中的 key 约定。
const (
	DefaultKeyPrefix = "catalog"
	versionSuffix    = ":version"
	snapshotInfix    = ":snapshot:"
)

// StoreLoader 从 core.Store 读取快照：先读 <prefix>:version，再读 <prefix>:snapshot:<version>。
// 快照内容为 JSON。
type StoreLoader struct {
	Store     core.Store
	KeyPrefix string
}

func (l *StoreLoader) Name() string { return "store." + l.Store.Name() }

func (l *StoreLoader) prefix() string {
	if l.KeyPrefix == "" {
		return DefaultKeyPrefix
	}
	return l.KeyPrefix
}

func (l *StoreLoader) Load(ctx context.Context) (*Catalog, *LoadReport, error) {
	if l.Store == nil {
		return nil, nil, core.ErrCatalogUnavailable.Wrap(fmt.Errorf("store loader: nil store"))
	}
	version, err := l.Store.Get(ctx, l.prefix()+versionSuffix)
	if err != nil {
		return nil, nil, fmt.Errorf("get catalog version: %w", err)
	}
	data, err := l.Store.Get(ctx, l.prefix()+snapshotInfix+string(version))
	if err != nil {
		return nil, nil, fmt.Errorf("get catalog snapshot %s: %w", version, err)
	}
	c, report, err := Parse(data, "json")
	if err != nil {
		return nil, nil, err
	}
	if c.Version == "" {
		c.Version = string(version)
		report.Version = c.Version
	}
	return c, report, nil
}

// Publish 写入一份新快照并切换版本指针（先写快照，后写版本）。
func (l *StoreLoader) Publish(ctx context.Context, version string, snapshot []byte) error {
	if err := l.Store.Set(ctx, l.prefix()+snapshotInfix+version, snapshot, 0); err != nil {
		return fmt.Errorf("set catalog snapshot: %w", err)
	}
	if err := l.Store.Set(ctx, l.prefix()+versionSuffix, []byte(version), 0); err != nil {
		return fmt.Errorf("set catalog version: %w", err)
	}
	return nil
}

// StaticLoader 直接返回内存中的目录（测试/嵌入使用）。
type StaticLoader struct {
	Catalog *Catalog
}

func (l *StaticLoader) Name() string { return "static" }

func (l *StaticLoader) Load(_ context.Context) (*Catalog, *LoadReport, error) {
	if l.Catalog == nil {
		return nil, nil, core.ErrCatalogUnavailable
	}
	return l.Catalog, &LoadReport{
		Version: l.Catalog.Version,
		Shops:   len(l.Catalog.Shops),
		Menus:   len(l.Catalog.Menus),
		Coupons: len(l.Catalog.Coupons),
	}, nil
}
