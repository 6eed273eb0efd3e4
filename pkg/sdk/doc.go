// Package stashfilter provides an in-process Go client for the stashfilter
// dynamic filter model: criterion catalogs, saved filter compilation, URL
// round trips, hierarchical selection and faceted candidate lookup.
//
// The client talks to a remote query backend for searches and facet counts
// and can cache facet responses in Redis or Valkey.
//
//	client, _ := stashfilter.New(ctx,
//	    stashfilter.WithBackend("http://localhost:9999/graphql-facets", token),
//	    stashfilter.WithValkey("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	compiled, _ := client.Filters("scenes").Compile(saved)
//	res, _ := client.Candidates("scenes").Resolve(ctx, "performers", saved, "ann", 20)
package stashfilter
