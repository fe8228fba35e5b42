package document

import "strings"

// WordList is a keyword table: a set of lowercase words with plain and
// prefixed membership queries. Entries ending in a marker character such as
// "len(" denote callable names and are matched by ContainsPrefixed.
type WordList struct {
	words map[string]struct{}
}

// NewWordList builds a word list from individual words.
func NewWordList(words ...string) WordList {
	wl := WordList{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w != "" {
			wl.words[w] = struct{}{}
		}
	}
	return wl
}

// NewWordListFromString builds a word list from a whitespace-separated string,
// the way keyword files store them.
func NewWordListFromString(s string) WordList {
	return NewWordList(strings.Fields(s)...)
}

// Contains reports whether word is in the list.
func (wl WordList) Contains(word string) bool {
	_, ok := wl.words[word]
	return ok
}

// ContainsPrefixed reports whether the list holds word itself or the entry
// word+marker (e.g. "mid(" for word "mid" and marker '(').
func (wl WordList) ContainsPrefixed(word string, marker byte) bool {
	if wl.Contains(word) {
		return true
	}
	_, ok := wl.words[word+string(marker)]
	return ok
}

// Len returns the number of entries.
func (wl WordList) Len() int { return len(wl.words) }
