// Package schema builds the JSON Schema documents used to constrain
// structured model output.
//
// Schemas are assembled with a fluent API and validated when built:
//
//	critique := schema.Object().
//		Field("title", schema.String().Required()).
//		Field("mood", schema.String().MaxLength(40).Required()).
//		MustBuild()
//
// Providers that take a decoded schema rather than raw JSON can use [ToMap].
package schema
