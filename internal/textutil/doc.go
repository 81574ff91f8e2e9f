// Package textutil provides content digests used to recognise documents and
// projects across commands.
//
// Digests are hex-encoded BLAKE3 sums. Line endings are normalised before
// hashing text so a document saved on another platform keeps its digest.
package textutil
