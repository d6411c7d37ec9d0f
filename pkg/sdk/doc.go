// Package recipedex embeds paginated recipe search sessions over a
// food2fork-compatible recipe API.
//
// A Session keeps the query, the selected category, the scroll positions and
// the pages loaded so far. Pages are fetched 30 at a time as the list is
// scrolled:
//
//	client, _ := recipedex.New(ctx,
//	    recipedex.WithBaseURL("https://food2fork.ca/api/recipe"),
//	    recipedex.WithToken(token),
//	)
//	defer client.Close()
//
//	s, _ := client.NewSession(ctx)
//	s.SelectCategory(ctx, "Beef") // searches page 1 of "Beef"
//	s.SetScrollPosition(ctx, 29)
//	st, _, _ := s.NextPage(ctx)
//	fmt.Println(len(st.Results)) // 60
//
// With WithValkey or WithRedis the session slots survive restarts and
// OpenSession resumes a session by id, re-fetching the pages it had loaded.
package recipedex
