// Package markup converts yWriter inline markup to document paragraphs and
// back.
//
// Supported: [i] emphasis, [b] strong emphasis, [lang=xx-YY] language spans,
// /* */ comments (annotations), and the "> " quotation and "- " list line
// prefixes. Underline, strike-through, alignment and highlight tags have no
// document counterpart and are dropped on decode.
package markup
