package model

import "github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"

// learnedReason 学习模型没有逐项加分，解释时使用固定描述。
const learnedReason = "personalized ranking by learned model"

// WideDeepModel 是 Wide&Deep 模型。
//
//   - Wide 部分：宽特征上的线性模型，记忆显式交叉
//   - Deep 部分：用户/店铺/类目 embedding 拼接稠密特征，经 DNN 泛化
//   - 两部分的输出拼接后过最终线性层，再 sigmoid 压到 (0,1)
type WideDeepModel struct {
	a *Artifact
}

// NewWideDeepModel 基于已校验的模型文件创建模型。
func NewWideDeepModel(a *Artifact) (*WideDeepModel, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &WideDeepModel{a: a}, nil
}

func (m *WideDeepModel) Name() string { return MethodWideDeep }

func (m *WideDeepModel) Score(
	wide core.WideFeatures,
	dense core.DenseFeatures,
	candidateID, userID, categoryID string,
) (float64, []string, error) {
	wideOut := m.a.Wide.Apply(wide)
	deepOut := m.a.Deep.Forward(m.deepInput(dense, candidateID, userID, categoryID))
	z := m.a.Final.Apply([]float64{wideOut, deepOut})
	return sigmoid(z), []string{learnedReason}, nil
}

// deepInput = user_emb ++ shop_emb ++ category_emb ++ dense。
func (m *WideDeepModel) deepInput(dense core.DenseFeatures, candidateID, userID, categoryID string) []float64 {
	e := m.a.Embeddings
	in := make([]float64, 0, len(e.User[0])+len(e.Shop[0])+len(e.Category[0])+m.a.DenseSize)
	in = append(in, e.User[m.a.UserIDMap.Row(userID, len(e.User))]...)
	in = append(in, e.Shop[m.a.ShopIDMap.Row(candidateID, len(e.Shop))]...)
	in = append(in, e.Category[m.a.CategoryIDMap.Row(categoryID, len(e.Category))]...)
	for i := 0; i < m.a.DenseSize; i++ {
		in = append(in, dense.At(i))
	}
	return in
}
