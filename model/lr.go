package model

import "fmt"

// Linear 是一层线性变换：z = Bias + sum(Weights_i * x_i)。
// 学习模型的 wide 部分和最终输出层都用它。
type Linear struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Validate 检查输入维度。
func (l *Linear) Validate(dim int) error {
	if len(l.Weights) != dim {
		return fmt.Errorf("linear: %d weights, want %d", len(l.Weights), dim)
	}
	return nil
}

// Apply 计算线性输出，输入长度不足的部分按 0 处理。
func (l *Linear) Apply(x []float64) float64 {
	z := l.Bias
	for i, w := range l.Weights {
		if i < len(x) {
			z += w * x[i]
		}
	}
	return z
}
