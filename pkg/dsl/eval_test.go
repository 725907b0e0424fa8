package dsl

import "testing"

func TestCompileAndEval(t *testing.T) {
	vars := Vars{
		Wide:     []float64{0, 0.5, 1},
		Dense:    []float64{0.9},
		ShopID:   "7",
		UserID:   "u-1",
		Category: "한식",
	}
	tests := []struct {
		expr string
		want bool
	}{
		{"wide[2] == 1.0", true},
		{"wide[1] > 0.5", false},
		{"dense[0] >= 0.8 && user_id == 'u-1'", true},
		{`category.contains("한")`, true},
		{"shop_id == '8'", false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err != nil {
				t.Fatal(err)
			}
			got, err := p.Eval(vars)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if p.String() != tt.expr {
				t.Fatalf("String() = %q", p.String())
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, expr := range []string{"wide[0] +", "wide[0] * 2.0", "unknown_var > 1"} {
		if _, err := Compile(expr); err == nil {
			t.Fatalf("%q: expected error", expr)
		}
	}
}

func TestEvalOutOfRange(t *testing.T) {
	p, err := Compile("wide[60] > 0.0")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Eval(Vars{Wide: make([]float64, 50)}); err == nil {
		t.Fatal("expected index error")
	}
}
