// Package gigmarket embeds the gigmarket recommendation engine and public
// listing reads in a Go program, without running the HTTP API.
//
// The client talks to the marketplace PostgreSQL database directly. Redis is
// optional and enables the keyword cache and persistent token budgets.
//
//	client, err := gigmarket.New(ctx,
//	    gigmarket.WithPostgres("host=localhost dbname=gigmarket sslmode=disable"),
//	    gigmarket.WithOpenAI(os.Getenv("OPENAI_API_KEY"), ""),
//	    gigmarket.WithRedis("localhost:6379", ""),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	rec, _ := client.Recommend(ctx, "I need a logo designer in Austin")
//	for _, g := range rec.Gigs {
//	    fmt.Println(g.Title, g.Price)
//	}
//
//	page, _ := client.Gigs().Search(ctx, gigmarket.SearchQuery{Term: "logo", Page: 1})
//
// Any type implementing Completer can replace the built-in providers.
package gigmarket
