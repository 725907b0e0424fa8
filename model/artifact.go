package model

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// IDMap 是训练时按出现顺序分配的 ID → embedding 行号表。
// 第 0 行保留给未见过的 ID。
type IDMap map[string]int

// Row 返回 id 对应的行号；未见过或越界的 ID 返回 0。
func (m IDMap) Row(id string, rows int) int {
	r, ok := m[id]
	if !ok || r <= 0 || r >= rows {
		return 0
	}
	return r
}

// Embeddings 三张 embedding 表，每张第 0 行是 unknown。
type Embeddings struct {
	User     [][]float64 `json:"user"`
	Shop     [][]float64 `json:"shop"`
	Category [][]float64 `json:"category"`
}

// Artifact 是离线训练产出的模型文件。
type Artifact struct {
	SchemaVersion string     `json:"schema_version"`
	WideSize      int        `json:"wide_size"`
	DenseSize     int        `json:"dense_size"`
	Wide          Linear     `json:"wide"`
	Embeddings    Embeddings `json:"embeddings"`
	Deep          DNN        `json:"deep"`
	Final         Linear     `json:"final"`

	UserIDMap     IDMap `json:"user_id_map"`
	ShopIDMap     IDMap `json:"shop_id_map"`
	CategoryIDMap IDMap `json:"category_id_map"`
}

// LoadArtifact 读取并校验模型文件。
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return ParseArtifact(data)
}

// ParseArtifact 解析并校验模型文件内容。schema 版本不一致返回 ErrModelSchemaMismatch。
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate 检查 schema 版本与各部分维度。
func (a *Artifact) Validate() error {
	if a.SchemaVersion != core.FeatureSchemaVersion {
		return core.ErrModelSchemaMismatch.Wrap(
			fmt.Errorf("artifact %q, builder %q", a.SchemaVersion, core.FeatureSchemaVersion))
	}
	if a.WideSize != core.DefaultWideSize || a.DenseSize != core.DefaultDenseSize {
		return core.ErrModelSchemaMismatch.Wrap(
			fmt.Errorf("artifact sizes %d/%d, builder %d/%d", a.WideSize, a.DenseSize, core.DefaultWideSize, core.DefaultDenseSize))
	}
	if err := a.Wide.Validate(a.WideSize); err != nil {
		return fmt.Errorf("wide: %w", err)
	}
	deepIn := a.DenseSize
	tables := []struct {
		name string
		rows [][]float64
	}{
		{"user", a.Embeddings.User},
		{"shop", a.Embeddings.Shop},
		{"category", a.Embeddings.Category},
	}
	for _, t := range tables {
		dim, err := tableDim(t.rows)
		if err != nil {
			return fmt.Errorf("embeddings.%s: %w", t.name, err)
		}
		deepIn += dim
	}
	if err := a.Deep.Validate(deepIn); err != nil {
		return fmt.Errorf("deep: %w", err)
	}
	if err := a.Final.Validate(2); err != nil {
		return fmt.Errorf("final: %w", err)
	}
	return nil
}

// tableDim 返回 embedding 维度，要求至少有 unknown 行且每行等长。
func tableDim(table [][]float64) (int, error) {
	if len(table) == 0 {
		return 0, fmt.Errorf("missing unknown row")
	}
	dim := len(table[0])
	for i, row := range table {
		if len(row) != dim {
			return 0, fmt.Errorf("row %d has dim %d, want %d", i, len(row), dim)
		}
	}
	return dim, nil
}
