package model

import (
	"fmt"
	"math"
)

// Layer 是一层全连接：Weights[out][in]。
type Layer struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// DNN 是多层全连接网络，隐藏层使用 ReLU，最后一层不激活且输出 1 维。
type DNN struct {
	Layers []Layer `json:"layers"`
}

// Validate 检查各层维度首尾相接，最后一层输出 1 维。
func (m *DNN) Validate(inputDim int) error {
	if len(m.Layers) == 0 {
		return fmt.Errorf("dnn: no layers")
	}
	in := inputDim
	for i, l := range m.Layers {
		if len(l.Weights) == 0 || len(l.Bias) != len(l.Weights) {
			return fmt.Errorf("dnn: layer %d has %d rows and %d biases", i, len(l.Weights), len(l.Bias))
		}
		for j, row := range l.Weights {
			if len(row) != in {
				return fmt.Errorf("dnn: layer %d row %d has %d inputs, want %d", i, j, len(row), in)
			}
		}
		in = len(l.Weights)
	}
	if in != 1 {
		return fmt.Errorf("dnn: output dim %d, want 1", in)
	}
	return nil
}

// Forward 前向传播，返回最后一层的标量输出。
func (m *DNN) Forward(input []float64) float64 {
	current := input
	for layer, l := range m.Layers {
		next := make([]float64, len(l.Weights))
		for j, row := range l.Weights {
			sum := l.Bias[j]
			for k, w := range row {
				if k < len(current) {
					sum += w * current[k]
				}
			}
			// ReLU 激活（最后一层除外）
			if layer < len(m.Layers)-1 {
				sum = relu(sum)
			}
			next[j] = sum
		}
		current = next
	}
	if len(current) == 0 {
		return 0
	}
	return current[0]
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
