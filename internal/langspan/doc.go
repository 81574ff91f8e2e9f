// Package langspan keeps the project-side record of language spans used in
// scene content.
//
// yWriter has no native notion of a multi-language manuscript. Spans are
// written as [lang=xx-YY] tags and backed by a pair of project variables per
// language, so yWriter's own exports can turn them into HTML. The Codec
// interface hides that convention from the flavor parsers.
package langspan
