// Package dsl 是基于 CEL 的规则表达式解释器，用于给规则排序模型追加可配置的加分项。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 定义表达式可见的变量。
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("wide", cel.ListType(cel.DoubleType)),
		cel.Variable("dense", cel.ListType(cel.DoubleType)),
		cel.Variable("shop_id", cel.StringType),
		cel.Variable("user_id", cel.StringType),
		cel.Variable("category", cel.StringType),
	)
}

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Vars 是一次求值的输入。
type Vars struct {
	Wide     []float64
	Dense    []float64
	ShopID   string
	UserID   string
	Category string
}

func (v Vars) activation() map[string]any {
	wide, dense := v.Wide, v.Dense
	if wide == nil {
		wide = []float64{}
	}
	if dense == nil {
		dense = []float64{}
	}
	return map[string]any{
		"wide":     wide,
		"dense":    dense,
		"shop_id":  v.ShopID,
		"user_id":  v.UserID,
		"category": v.Category,
	}
}

// Program 是编译好的表达式，可并发求值。
//
// 表达式语法（CEL 标准语法）：
//   - 槽位：wide[24] > 0.5 && wide[11] == 1.0
//   - 稠密：dense[3] >= 0.8
//   - 字符串：category.contains("한식") / user_id == "u-1"
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("compile %q: expression must return bool, got %v", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 执行表达式。越界下标等运行期错误会原样返回。
func (p *Program) Eval(v Vars) (bool, error) {
	out, _, err := p.prg.Eval(v.activation())
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: expression must return bool, got %T", p.expr, out.Value())
	}
	return result, nil
}
