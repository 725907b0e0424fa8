package model

import (
	"fmt"
	"math"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pkg/dsl"
)

// DefaultScoreScale 宽特征 0-7 槽位的归一化系数，需与 feature.Config.ScoreScale 一致。
const DefaultScoreScale = 200

// Rule 是一条可配置的额外加分规则，Expr 为 CEL 表达式。
type Rule struct {
	Name  string  `koanf:"name" validate:"required"`
	Expr  string  `koanf:"expr" validate:"required"`
	Bonus float64 `koanf:"bonus"`
}

type compiledRule struct {
	Rule
	prg *dsl.Program
}

// RuleModel 规则排序模型：final = layer1_base + 交叉加分。
//
// layer1_base 是四个漏斗分数的最大值，由宽特征 4 号槽位还原；
// 加分项只读宽特征，同一个向量永远得到同一个分数。
type RuleModel struct {
	scale float64
	rules []compiledRule
}

// NewRuleModel 编译额外规则；任何一条编译失败都返回错误。
func NewRuleModel(scale float64, rules []Rule) (*RuleModel, error) {
	if scale <= 0 {
		scale = DefaultScoreScale
	}
	m := &RuleModel{scale: scale}
	for _, r := range rules {
		prg, err := dsl.Compile(r.Expr)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		m.rules = append(m.rules, compiledRule{Rule: r, prg: prg})
	}
	return m, nil
}

func (m *RuleModel) Name() string { return MethodRuleBased }

// Layer1Base 从宽特征还原 layer1_base，保留 6 位小数以消除归一化的浮点误差。
func (m *RuleModel) Layer1Base(wide core.WideFeatures) float64 {
	return math.Round(wide.At(core.SlotMaxScore)*m.scale*1e6) / 1e6
}

func (m *RuleModel) Score(
	wide core.WideFeatures,
	dense core.DenseFeatures,
	candidateID, userID, categoryID string,
) (float64, []string, error) {
	return m.ScoreWithBase(m.Layer1Base(wide), wide, dense, candidateID, userID, categoryID)
}

// ScoreWithBase 在给定 base 上累加交叉加分。
func (m *RuleModel) ScoreWithBase(
	base float64,
	wide core.WideFeatures,
	dense core.DenseFeatures,
	candidateID, userID, categoryID string,
) (float64, []string, error) {
	bonus, reasons := crossBonus(wide)
	score := base + bonus

	vars := dsl.Vars{Wide: wide, Dense: dense, ShopID: candidateID, UserID: userID, Category: categoryID}
	for _, r := range m.rules {
		ok, err := r.prg.Eval(vars)
		if err != nil {
			return base, nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		if ok && r.Bonus != 0 {
			score += r.Bonus
			reasons = append(reasons, r.Name)
		}
	}
	return score, reasons, nil
}

// crossBonus 按阈值门控的固定加分表。
func crossBonus(w core.WideFeatures) (float64, []string) {
	var (
		bonus   float64
		reasons []string
	)
	add := func(points float64, reason string) {
		if points > 0 {
			bonus += points
			reasons = append(reasons, reason)
		}
	}

	if w.At(core.SlotCategoryPref) > 0.7 {
		add(3, "matches your favorite category")
	}
	if w.At(core.SlotCategoryXRating) > 0.8 {
		add(5, "well rated in a category you like")
	}
	add(10*w.At(core.SlotGoodInfluence), "good influence shop")
	add(5*w.At(core.SlotFoodcard), "accepts foodcard")
	add(3*w.At(core.SlotVerified), "verified merchant")
	if v := w.At(core.SlotBudgetCompat); v >= 0.8 {
		add(5*v, "fits your budget")
	}
	if w.At(core.SlotLocationConv) >= 0.8 {
		add(4, "close to you")
	}
	if w.At(core.SlotTimePref) >= 0.8 {
		add(3, "good for this time of day")
	}
	switch v := w.At(core.SlotSourceCount); {
	case v >= 0.75:
		add(6, "found by several recommenders")
	case v >= 0.5:
		add(3, "found by multiple recommenders")
	}
	if w.At(core.SlotFavorite) > 0 {
		add(5, "one of your favorites")
	}
	add(2*w.At(core.SlotFavoriteXOpen), "favorite shop open now")
	if w.At(core.SlotRating) >= 0.8 {
		add(3, "highly rated")
	}
	if w.At(core.SlotReviewCount) >= 0.6 {
		add(2, "many reviews")
	}
	if w.At(core.SlotOpenNow) >= 1 {
		add(3, "open now")
	}
	if w.At(core.SlotAffordable) >= 1 {
		add(2, "covered by your foodcard balance")
	}
	return bonus, reasons
}
