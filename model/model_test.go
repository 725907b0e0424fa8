package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

func zeroWide() core.WideFeatures { return make(core.WideFeatures, core.DefaultWideSize) }

func TestRuleScenarioNoBonus(t *testing.T) {
	m, err := NewRuleModel(DefaultScoreScale, nil)
	if err != nil {
		t.Fatal(err)
	}
	w := zeroWide()
	w[core.SlotMaxScore] = 7.5 / DefaultScoreScale

	score, reasons, err := m.Score(w, nil, "1", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if score != 7.5 || len(reasons) != 0 {
		t.Fatalf("score = %v reasons = %v", score, reasons)
	}

	score, _, _ = m.ScoreWithBase(7.5, zeroWide(), nil, "1", "", "")
	if score != 7.5 {
		t.Fatalf("ScoreWithBase = %v", score)
	}
}

func TestRuleBonuses(t *testing.T) {
	m, _ := NewRuleModel(0, nil)
	tests := []struct {
		name string
		set  map[int]float64
		want float64
	}{
		{"good influence", map[int]float64{core.SlotGoodInfluence: 1}, 10},
		{"foodcard weighted", map[int]float64{core.SlotFoodcard: 0.3}, 1.5},
		{"budget below gate", map[int]float64{core.SlotBudgetCompat: 0.7}, 0},
		{"budget", map[int]float64{core.SlotBudgetCompat: 1}, 5},
		{"two funnels", map[int]float64{core.SlotSourceCount: 0.5}, 3},
		{"three funnels", map[int]float64{core.SlotSourceCount: 0.75}, 6},
		{"favorite open", map[int]float64{core.SlotFavorite: 1, core.SlotFavoriteXOpen: 1, core.SlotOpenNow: 1}, 10},
		{"category pref gate", map[int]float64{core.SlotCategoryPref: 0.7}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := zeroWide()
			for slot, v := range tt.set {
				w[slot] = v
			}
			got, _, err := m.ScoreWithBase(0, w, nil, "", "", "")
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("bonus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleExtraRules(t *testing.T) {
	m, err := NewRuleModel(0, []Rule{
		{Name: "korean lunch", Expr: `category.contains("한식") && wide[23] >= 0.9`, Bonus: 4},
		{Name: "vip", Expr: `user_id == "vip"`, Bonus: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	w := zeroWide()
	w[core.SlotTimePref] = 1
	got, reasons, err := m.ScoreWithBase(10, w, nil, "1", "u", "한식")
	if err != nil {
		t.Fatal(err)
	}
	// 时段加分 3 + 规则 4
	if got != 17 || reasons[len(reasons)-1] != "korean lunch" {
		t.Fatalf("score = %v reasons = %v", got, reasons)
	}

	if _, err := NewRuleModel(0, []Rule{{Name: "bad", Expr: "wide[0] +"}}); err == nil {
		t.Fatal("expected compile error")
	}
	if _, err := NewRuleModel(0, []Rule{{Name: "not bool", Expr: "wide[0] + 1.0"}}); err == nil {
		t.Fatal("expected non-bool error")
	}
}

func testArtifact() *Artifact {
	ones := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = 1
		}
		return out
	}
	return &Artifact{
		SchemaVersion: core.FeatureSchemaVersion,
		WideSize:      core.DefaultWideSize,
		DenseSize:     core.DefaultDenseSize,
		Wide:          Linear{Weights: make([]float64, core.DefaultWideSize)},
		Embeddings: Embeddings{
			User:     [][]float64{{0, 0}, {1, 1}},
			Shop:     [][]float64{{0, 0}},
			Category: [][]float64{{0, 0}},
		},
		Deep: DNN{Layers: []Layer{
			{Weights: [][]float64{ones(16), ones(16)}, Bias: []float64{0, 0}},
			{Weights: [][]float64{{1, 1}}, Bias: []float64{0}},
		}},
		Final:     Linear{Weights: []float64{1, 1}, Bias: -4},
		UserIDMap: IDMap{"known": 1, "corrupt": 7},
	}
}

func TestWideDeepUnknownIDs(t *testing.T) {
	m, err := NewWideDeepModel(testArtifact())
	if err != nil {
		t.Fatal(err)
	}
	known, reasons, err := m.Score(zeroWide(), make(core.DenseFeatures, core.DefaultDenseSize), "1", "known", "한식")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(known-0.5) > 1e-12 || len(reasons) != 1 {
		t.Fatalf("known = %v %v", known, reasons)
	}
	for _, user := range []string{"stranger", "corrupt", ""} {
		got, _, err := m.Score(zeroWide(), nil, "999", user, "")
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-sigmoid(-4)) > 1e-12 {
			t.Fatalf("user %q = %v, want unknown row", user, got)
		}
	}
}

func TestArtifactValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(a *Artifact)
		mismatch bool
	}{
		{"schema", func(a *Artifact) { a.SchemaVersion = "wide44-v0" }, true},
		{"sizes", func(a *Artifact) { a.WideSize = 44 }, true},
		{"wide dims", func(a *Artifact) { a.Wide.Weights = a.Wide.Weights[:10] }, false},
		{"ragged embeddings", func(a *Artifact) { a.Embeddings.Shop = [][]float64{{0, 0}, {1}} }, false},
		{"deep input", func(a *Artifact) { a.Embeddings.User = [][]float64{{0, 0, 0}} }, false},
		{"final dims", func(a *Artifact) { a.Final.Weights = []float64{1} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testArtifact()
			tt.mutate(a)
			err := a.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if core.IsModelSchemaMismatch(err) != tt.mismatch {
				t.Fatalf("mismatch = %v for %v", core.IsModelSchemaMismatch(err), err)
			}
		})
	}
}

func TestSelectFallsBack(t *testing.T) {
	rules, _ := NewRuleModel(0, nil)
	dir := t.TempDir()

	if got := Select("", rules, zerolog.Nop()); got.Name() != MethodRuleBased {
		t.Fatalf("empty path = %s", got.Name())
	}
	if got := Select(filepath.Join(dir, "missing.json"), rules, zerolog.Nop()); got.Name() != MethodRuleBased {
		t.Fatalf("missing file = %s", got.Name())
	}

	stale := testArtifact()
	stale.SchemaVersion = "old"
	write := func(name string, a *Artifact) string {
		data, err := json.Marshal(a)
		if err != nil {
			t.Fatal(err)
		}
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	if got := Select(write("stale.json", stale), rules, zerolog.Nop()); got.Name() != MethodRuleBased {
		t.Fatalf("stale artifact = %s", got.Name())
	}
	if got := Select(write("ok.json", testArtifact()), rules, zerolog.Nop()); got.Name() != MethodWideDeep {
		t.Fatalf("valid artifact = %s", got.Name())
	}
}
