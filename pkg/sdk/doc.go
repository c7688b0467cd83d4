// Package dinemite provides a Go client for the dinemite restaurant
// recommendation service.
//
//	client, _ := dinemite.New("http://localhost:8080", dinemite.WithAPIKey(key))
//	recs, _ := client.Recommend(ctx, dinemite.Query{
//	    Text:    "조용한 분위기에서 소개팅하기 좋은 파스타 맛집",
//	    Filters: &dinemite.Filters{PriceRange: "$$"},
//	})
//
// The client tracks the lifecycle of the latest query. State moves from IDLE
// to LOADING on every call and ends in SUCCESS, EMPTY or ERROR.
package dinemite
