// Package query_builder builds Graylog search queries using a fluent API.
//
// The package focuses on two goals:
//
//   - Composability: chainable methods for terms, fields, fuzzy and range matches,
//     boolean operators, grouping and raw fragments.
//   - Safety: text values are quoted and reserved characters escaped, and dangling
//     AND/OR/NOT operators are dropped when an optional value is missing.
//
// Values are passed as a Literal, built with Text, Int, Float or Value.
//
// Basic usage:
//
//	q := query_builder.New().
//		OpenParen().
//		Term(query_builder.Text("ssh login")).
//		And().
//		Field("source", query_builder.Text("example.org")).
//		CloseParen().
//		Or().
//		Exists("always_find_me")
//
//	q.Build() // ( "ssh login" AND source:"example.org" ) OR _exists_:always_find_me
//
// Builders can be combined with From, which copies another builder, and Append.
// The package never parses or validates the resulting query.
package query_builder
