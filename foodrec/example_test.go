package foodrec_test

import (
	"context"
	"fmt"
	"time"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/foodrec"
)

func ExampleNewEngine() {
	e, err := foodrec.NewEngine(&foodrec.Catalog{
		Version: "demo",
		Shops:   []core.Shop{{ID: 1, Name: "한그릇", Category: "한식", District: "강남구", GoodInfluence: true}},
		Menus:   []core.Menu{{ShopID: 1, Name: "김치찌개", Price: 7000}},
	})
	if err != nil {
		panic(err)
	}
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	resp := e.Recommend(context.Background(), foodrec.Request{Location: "강남구", Time: &now})
	for _, r := range resp.Recommendations {
		fmt.Println(r.ShopID, r.ShopName, r.RankingMethod)
	}
	// Output: 1 한그릇 rule_based
}
