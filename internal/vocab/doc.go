// Package vocab defines the vocabulary term value type and the parser that
// turns word-list document text into term sets. The same parser is applied to
// remote document exports and to locally cached copies so that the two
// results can be diffed meaningfully.
package vocab
