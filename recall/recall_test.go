package recall

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/catalog"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

var lunchtime = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func scenarioIndex() *catalog.Index {
	return catalog.NewIndex(&catalog.Catalog{
		Shops: []core.Shop{{ID: 1, Category: "한식", GoodInfluence: true}},
		Menus: []core.Menu{{ShopID: 1, Name: "김치찌개", Price: 7000}},
	})
}

func clock(s string) *core.ClockTime {
	c, err := core.ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return &c
}

func sampleIndex() *catalog.Index {
	return catalog.NewIndex(&catalog.Catalog{
		Shops: []core.Shop{
			{ID: 1, Name: "엄마손 김밥", Category: "분식", District: "강남구",
				Hours: core.OperatingHours{Open: clock("08:00"), Close: clock("20:00")}},
			{ID: 2, Name: "스시 오마카세", Category: "일식", District: "서초구",
				Hours: core.OperatingHours{Open: clock("17:00"), Close: clock("23:00")}},
			{ID: 3, Name: "한그릇 국밥", Category: "한식", District: "마포구", GoodInfluence: true},
			{ID: 4, Name: "샐러드 가게", Category: "샐러드", District: "강남구",
				Hours: core.OperatingHours{Open: clock("12:30"), Close: clock("21:00")}},
		},
		Menus: []core.Menu{
			{ShopID: 1, Name: "참치김밥", Price: 4500},
			{ShopID: 1, Name: "라볶이", Price: 6000},
			{ShopID: 2, Name: "오마카세 코스", Price: 80000},
			{ShopID: 3, Name: "돼지국밥", Price: 9000},
			{ShopID: 4, Name: "닭가슴살 샐러드", Price: 11000},
		},
	})
}

func defaultFanout(idx *catalog.Index) *Fanout {
	h := catalog.NewHolder(idx)
	return &Fanout{Funnels: []Funnel{
		&Popularity{Catalog: h},
		&Contextual{Catalog: h},
		&Content{Catalog: h},
		&Collaborative{Catalog: h},
	}}
}

func ids(cs []*core.Candidate) []int64 {
	out := make([]int64, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ShopID)
	}
	return out
}

func TestScenarioPopularityOnly(t *testing.T) {
	h := catalog.NewHolder(scenarioIndex())
	rctx := &core.RecommendContext{Filters: core.Filters{Category: "한식"}, Now: lunchtime}

	got, err := (&Popularity{Catalog: h}).GetCandidates(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].BaseScore == nil || *got[0].BaseScore != 40 {
		t.Fatalf("popularity = %+v", got)
	}

	rctx.Query = "비빔밥"
	content, err := (&Content{Catalog: h}).GetCandidates(context.Background(), rctx)
	if err != nil || len(content) != 0 {
		t.Fatalf("content = %v, %v; want empty", content, err)
	}

	merged, report, err := defaultFanout(scenarioIndex()).Generate(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(merged) != 1 || merged[0].ContentScore != nil || *merged[0].BaseScore != 40 {
		t.Fatalf("merged = %+v", merged[0])
	}
	if merged[0].HasSource(core.FunnelContent) {
		t.Fatalf("content must not be a source: %v", merged[0].FunnelSources)
	}
	if report.Breakdown()[core.FunnelContent] != 0 || report.Breakdown()[core.FunnelPopularity] != 1 {
		t.Fatalf("breakdown = %v", report.Breakdown())
	}
}

func TestContentRequiresQuery(t *testing.T) {
	h := catalog.NewHolder(sampleIndex())
	got, err := (&Content{Catalog: h}).GetCandidates(context.Background(), &core.RecommendContext{Query: "   "})
	if err != nil || len(got) != 0 {
		t.Fatalf("empty query = %v, %v", got, err)
	}
}

func TestContentScoring(t *testing.T) {
	idx := sampleIndex()
	tests := []struct {
		name  string
		shop  int64
		query string
		want  float64
	}{
		// 菜单包含查询 50 + token "김밥" 命中 5 + 店名包含 15
		{name: "menu and name", shop: 1, query: "김밥", want: 50 + 5 + 15},
		// 查询包含菜单名（反向）50 + token 命中 "돼지국밥" 5
		{name: "query contains menu", shop: 3, query: "돼지국밥 먹고 싶어", want: 50 + 5},
		// 类目命中 30 + token 5
		{name: "category token", shop: 2, query: "일식 추천", want: 30 + 5},
		{name: "no match", shop: 4, query: "피자", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := idx.Entry(tt.shop)
			got, _ := ContentScore(e, tt.query, uniqueTokens(tt.query))
			if got != tt.want {
				t.Fatalf("ContentScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentPrefersSemanticQuery(t *testing.T) {
	h := catalog.NewHolder(sampleIndex())
	rctx := &core.RecommendContext{Query: "아무거나", SemanticQuery: "국밥"}
	got, err := (&Content{Catalog: h}).GetCandidates(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids(got), []int64{3}) {
		t.Fatalf("content ids = %v", ids(got))
	}
}

func TestContextualScoring(t *testing.T) {
	h := catalog.NewHolder(sampleIndex())
	rctx := &core.RecommendContext{Location: "강남구", Now: lunchtime, TimeOfDay: core.Lunch}
	got, err := (&Contextual{Catalog: h}).GetCandidates(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int64]float64{
		1: 40 + 30 + 25, // 同区 + 营业中 + 午餐 분식
		2: 25 + 0 + 22,  // 同生活圈 + 未营业 + 午餐 일식
		3: 10 + 20 + 30, // 远 + 营业时间未知 + 午餐 한식
		4: 40 + 15 + 20, // 同区 + 60 分钟内开门 + 午餐 샐러드
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates", len(got))
	}
	for _, c := range got {
		if *c.ContextScore != want[c.ShopID] {
			t.Fatalf("shop %d context = %v, want %v", c.ShopID, *c.ContextScore, want[c.ShopID])
		}
	}
	if !reflect.DeepEqual(ids(got), []int64{1, 4, 3, 2}) {
		t.Fatalf("order = %v", ids(got))
	}
}

func TestResolveArchetype(t *testing.T) {
	tests := []struct {
		name string
		rctx *core.RecommendContext
		want catalog.Archetype
	}{
		{"explicit wins", &core.RecommendContext{UserType: "Gourmet", Filters: core.Filters{GoodInfluenceOnly: true}}, catalog.Gourmet},
		{"unknown explicit falls through", &core.RecommendContext{UserType: "robot", Filters: core.Filters{GoodInfluenceOnly: true}}, catalog.HealthyEater},
		{"good only", &core.RecommendContext{Filters: core.Filters{GoodInfluenceOnly: true, MaxPrice: 5000}}, catalog.HealthyEater},
		{"low budget", &core.RecommendContext{Filters: core.Filters{MaxPrice: 8000}}, catalog.BudgetConscious},
		{"high budget", &core.RecommendContext{Filters: core.Filters{MaxPrice: 20000}}, catalog.Gourmet},
		{"keyword", &core.RecommendContext{Query: "다이어트 메뉴"}, catalog.HealthyEater},
		{"default", &core.RecommendContext{Query: "배고파"}, catalog.DefaultArchetype},
		{"nil", nil, catalog.DefaultArchetype},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveArchetype(tt.rctx); got != tt.want {
				t.Fatalf("ResolveArchetype = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCollaborativeThreshold(t *testing.T) {
	idx := catalog.NewIndexWithProfiles(&catalog.Catalog{
		Shops: []core.Shop{{ID: 1, Category: "샐러드"}, {ID: 2, Category: "기타"}, {ID: 3, Category: "기타"}},
		Menus: []core.Menu{{ShopID: 2, Price: 30000}, {ShopID: 3, Price: 5000}},
	}, map[catalog.Archetype]catalog.ArchetypeProfile{
		catalog.DefaultArchetype: {Categories: []string{"샐러드"}, PriceSensitivity: 1},
	})
	got, err := (&Collaborative{Catalog: catalog.NewHolder(idx)}).GetCandidates(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatal(err)
	}
	// 店铺 1：类目 40 + 价格未知 12.5；店铺 3：低价 25；店铺 2：高价只有 5 分，不召回
	if !reflect.DeepEqual(ids(got), []int64{1, 3}) {
		t.Fatalf("ids = %v", ids(got))
	}
	if *got[0].CollaborativeScore != 52.5 || *got[1].CollaborativeScore != 25 {
		t.Fatalf("scores = %v, %v", *got[0].CollaborativeScore, *got[1].CollaborativeScore)
	}
}

func TestFunnelsOnEmptyCatalog(t *testing.T) {
	f := defaultFanout(catalog.NewIndex(nil))
	rctx := &core.RecommendContext{Query: "김밥", Now: lunchtime}
	for _, fn := range f.Funnels {
		got, err := fn.GetCandidates(context.Background(), rctx)
		if err != nil || len(got) != 0 {
			t.Fatalf("%s on empty catalog = %v, %v", fn.Name(), got, err)
		}
	}
	merged, _, err := f.Generate(context.Background(), rctx)
	if err != nil || len(merged) != 0 {
		t.Fatalf("Generate on empty catalog = %v, %v", merged, err)
	}
}

func cand(id int64, funnel string, field int, score float64) *core.Candidate {
	c := core.NewCandidate(&core.Shop{ID: id})
	c.AddSource(funnel)
	*c.ScoreField(field) = core.Float(score)
	return c
}

func TestMergeScenarioTwoShops(t *testing.T) {
	in := []*core.Candidate{
		cand(1, core.FunnelPopularity, core.ScoreBase, 40),
		cand(2, core.FunnelPopularity, core.ScoreBase, 30),
		cand(2, core.FunnelContent, core.ScoreContent, 80),
		cand(1, core.FunnelContent, core.ScoreContent, 50),
	}
	out := Merge(in)
	if len(out) != 2 {
		t.Fatalf("merged %d entries, want 2", len(out))
	}
	for _, c := range out {
		if !reflect.DeepEqual(c.FunnelSources, []string{core.FunnelPopularity, core.FunnelContent}) {
			t.Fatalf("shop %d sources = %v", c.ShopID, c.FunnelSources)
		}
		if c.ContentScore == nil || c.BaseScore == nil {
			t.Fatalf("shop %d lost a score: %+v", c.ShopID, c)
		}
	}
	if c := out[1]; *c.ContentScore != 80 || *c.BaseScore != 30 {
		t.Fatalf("shop 2 scores = %v/%v", *c.ContentScore, *c.BaseScore)
	}
}

func TestMergeKeepsFirstValue(t *testing.T) {
	out := Merge([]*core.Candidate{
		cand(1, core.FunnelContextual, core.ScoreContext, 70),
		cand(1, core.FunnelContent, core.ScoreContext, 10),
	})
	if *out[0].ContextScore != 70 {
		t.Fatalf("context score = %v, want first occurrence 70", *out[0].ContextScore)
	}
}

func TestMergeIdempotent(t *testing.T) {
	f := defaultFanout(sampleIndex())
	rctx := &core.RecommendContext{Query: "김밥", Location: "강남구", Now: lunchtime}
	once, _, err := f.Generate(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	snapshot := make([]core.Candidate, len(once))
	for i, c := range once {
		snapshot[i] = *c
	}
	twice := Merge(once)
	if len(twice) != len(once) {
		t.Fatalf("len %d -> %d", len(once), len(twice))
	}
	for i, c := range twice {
		if c.ShopID != snapshot[i].ShopID || !reflect.DeepEqual(c.FunnelSources, snapshot[i].FunnelSources) ||
			c.RawScores() != snapshot[i].RawScores() {
			t.Fatalf("entry %d changed on second merge", i)
		}
	}
}

func TestMergeScoreConservation(t *testing.T) {
	idx := sampleIndex()
	h := catalog.NewHolder(idx)
	rctx := &core.RecommendContext{Query: "김밥", Location: "강남구", Now: lunchtime}
	funnels := []Funnel{&Popularity{Catalog: h}, &Contextual{Catalog: h}, &Content{Catalog: h}, &Collaborative{Catalog: h}}

	// 每个漏斗各自给出的分数
	contributed := map[int64]map[int][]float64{}
	var all []*core.Candidate
	for _, f := range funnels {
		items, err := f.GetCandidates(context.Background(), rctx)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range items {
			if contributed[c.ShopID] == nil {
				contributed[c.ShopID] = map[int][]float64{}
			}
			for i := 0; i < core.NumScores; i++ {
				if p := *c.ScoreField(i); p != nil {
					contributed[c.ShopID][i] = append(contributed[c.ShopID][i], *p)
				}
			}
		}
		all = append(all, items...)
	}

	for _, c := range Merge(all) {
		for i := 0; i < core.NumScores; i++ {
			p := *c.ScoreField(i)
			if p == nil {
				if len(contributed[c.ShopID][i]) != 0 {
					t.Fatalf("shop %d field %d dropped", c.ShopID, i)
				}
				continue
			}
			found := false
			for _, v := range contributed[c.ShopID][i] {
				if v == *p {
					found = true
				}
			}
			if !found {
				t.Fatalf("shop %d field %d = %v not contributed by any funnel", c.ShopID, i, *p)
			}
		}
	}
}

// fixedFunnel 返回 n 个不同 ID 的候选。
type fixedFunnel struct {
	name  string
	start int64
	n     int
	field int
}

func (f *fixedFunnel) Name() string { return f.name }
func (f *fixedFunnel) GetCandidates(_ context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	var out []*core.Candidate
	for i := 0; i < f.n; i++ {
		out = append(out, cand(f.start+int64(i), f.name, f.field, float64(f.n-i)))
	}
	return out, nil
}

func TestFanoutCaps(t *testing.T) {
	f := &Fanout{Funnels: []Funnel{
		&fixedFunnel{name: core.FunnelPopularity, start: 1, n: 100, field: core.ScoreBase},
		&fixedFunnel{name: core.FunnelContextual, start: 1000, n: 100, field: core.ScoreContext},
		&fixedFunnel{name: core.FunnelContent, start: 2000, n: 100, field: core.ScoreContent},
		&fixedFunnel{name: core.FunnelCollaborative, start: 3000, n: 100, field: core.ScoreCollaborative},
	}}
	out, report, err := f.Generate(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != DefaultMaxTotal {
		t.Fatalf("len = %d, want %d", len(out), DefaultMaxTotal)
	}
	want := map[string]int{core.FunnelPopularity: 30, core.FunnelContextual: 30, core.FunnelContent: 50, core.FunnelCollaborative: 50}
	if !reflect.DeepEqual(report.Breakdown(), want) {
		t.Fatalf("breakdown = %v", report.Breakdown())
	}
	if report.Merged != 160 || report.Truncated != 10 {
		t.Fatalf("report = %+v", report)
	}
	// 发现顺序：先热门，再场景
	if out[0].ShopID != 1 || out[30].ShopID != 1000 {
		t.Fatalf("order = %d, %d", out[0].ShopID, out[30].ShopID)
	}

	f.MaxTotal = 500
	f.Limits = map[string]int{core.FunnelPopularity: 5}
	out, _, _ = f.Generate(context.Background(), &core.RecommendContext{})
	if len(out) != 5+30+50+50 {
		t.Fatalf("len = %d, want sum of limits", len(out))
	}
}

type panicFunnel struct{}

func (panicFunnel) Name() string { return core.FunnelContextual }
func (panicFunnel) GetCandidates(context.Context, *core.RecommendContext) ([]*core.Candidate, error) {
	panic("index out of range")
}

type slowFunnel struct{ d time.Duration }

func (slowFunnel) Name() string { return core.FunnelContent }
func (s slowFunnel) GetCandidates(context.Context, *core.RecommendContext) ([]*core.Candidate, error) {
	time.Sleep(s.d)
	return []*core.Candidate{cand(99, core.FunnelContent, core.ScoreContent, 1)}, nil
}

type errFunnel struct{}

func (errFunnel) Name() string { return core.FunnelCollaborative }
func (errFunnel) GetCandidates(context.Context, *core.RecommendContext) ([]*core.Candidate, error) {
	return nil, errors.New("affinity table missing")
}

func TestFanoutIsolatesFailures(t *testing.T) {
	f := &Fanout{
		Funnels: []Funnel{
			&fixedFunnel{name: core.FunnelPopularity, start: 1, n: 3, field: core.ScoreBase},
			panicFunnel{},
			slowFunnel{d: time.Second},
			errFunnel{},
		},
		Timeout: 20 * time.Millisecond,
	}
	start := time.Now()
	out, report, err := f.Generate(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("slow funnel blocked the join")
	}
	if !reflect.DeepEqual(ids(out), []int64{1, 2, 3}) {
		t.Fatalf("ids = %v", ids(out))
	}
	failed := report.Failed()
	if !reflect.DeepEqual(failed, []string{core.FunnelContextual, core.FunnelContent, core.FunnelCollaborative}) {
		t.Fatalf("failed = %v", failed)
	}
	for _, fr := range report.Funnels[1:] {
		if !core.IsFunnelFailure(fr.Err) {
			t.Fatalf("%s err = %v, want funnel failure", fr.Name, fr.Err)
		}
	}
}

func TestFanoutCancellation(t *testing.T) {
	f := &Fanout{
		Funnels: []Funnel{
			&fixedFunnel{name: core.FunnelPopularity, start: 1, n: 3, field: core.ScoreBase},
			slowFunnel{d: 200 * time.Millisecond},
		},
		Timeout: time.Second,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	out, _, err := f.Generate(ctx, &core.RecommendContext{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if out != nil {
		t.Fatalf("partial results returned: %v", ids(out))
	}
}

func TestFanoutDeterministic(t *testing.T) {
	rctx := &core.RecommendContext{Query: "김밥 국밥", Location: "강남구", Now: lunchtime}
	first, _, _ := defaultFanout(sampleIndex()).Generate(context.Background(), rctx)
	for i := 0; i < 20; i++ {
		again, _, _ := defaultFanout(sampleIndex()).Generate(context.Background(), rctx)
		if !reflect.DeepEqual(ids(first), ids(again)) {
			t.Fatalf("run %d order %v != %v", i, ids(again), ids(first))
		}
	}
}
