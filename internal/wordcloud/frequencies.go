package wordcloud

import (
	"bufio"
	_ "embed"
	"maps"
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

//go:embed stopwords.txt
var stopwordList string

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_][\p{L}\p{M}\p{N}_']*`)

// DefaultCollocationThreshold is the bigram score above which two adjacent
// words are plotted as one phrase.
const DefaultCollocationThreshold = 30

// DefaultStopwords returns a fresh copy of the built-in English stopword set.
func DefaultStopwords() map[string]struct{} {
	set := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(stopwordList))
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

type WordCount struct {
	Word  string
	Count int
}

// TextOptions controls how a corpus is turned into word counts.
type TextOptions struct {
	Stopwords map[string]struct{}
	// MaxWords <= 0 keeps every word.
	MaxWords int
	// MinWordLength <= 1 keeps single-character words.
	MinWordLength        int
	Collocations         bool
	CollocationThreshold float64
}

// Frequencies counts the words of text for a cloud. Possessive "'s" is
// dropped, as are numbers, stopwords and words shorter than MinWordLength. A
// plural is folded into its singular when both occur. With Collocations set,
// adjacent non-stopword pairs that score above CollocationThreshold are
// counted as phrases and their counts taken from the single words.
//
// Words are compared lowercased. The result is ordered by count, most frequent
// first, ties in order of first appearance.
func Frequencies(text string, opts TextOptions) []WordCount {
	words := tokenize(text, opts.MinWordLength)

	var counts *tally
	if opts.Collocations {
		counts = unigramsAndBigrams(words, opts.Stopwords, opts.CollocationThreshold)
	} else {
		kept := words[:0:0]
		for _, w := range words {
			if !isStopword(opts.Stopwords, w) {
				kept = append(kept, w)
			}
		}
		counts, _ = countTokens(kept)
	}

	out := counts.wordCounts()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if opts.MaxWords > 0 && len(out) > opts.MaxWords {
		out = out[:opts.MaxWords]
	}
	return out
}

func tokenize(text string, minLength int) []string {
	var words []string
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if strings.HasSuffix(strings.ToLower(tok), "'s") {
			tok = tok[:len(tok)-2]
		}
		if isDigits(tok) {
			continue
		}
		if minLength > 1 && utf8.RuneCountInString(tok) < minLength {
			continue
		}
		words = append(words, tok)
	}
	return words
}

func isStopword(stopwords map[string]struct{}, w string) bool {
	_, ok := stopwords[strings.ToLower(w)]
	return ok
}

// tally is an insertion-ordered word count.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(w string, n int) {
	if _, ok := t.counts[w]; !ok {
		t.order = append(t.order, w)
	}
	t.counts[w] += n
}

func (t *tally) wordCounts() []WordCount {
	out := make([]WordCount, 0, len(t.counts))
	for _, w := range t.order {
		if c, ok := t.counts[w]; ok {
			out = append(out, WordCount{Word: w, Count: c})
		}
	}
	return out
}

// countTokens counts lowercased tokens and folds plurals into singulars.
// standard maps every counted token, plurals included, to the key it is
// counted under.
func countTokens(tokens []string) (*tally, map[string]string) {
	t := newTally()
	for _, tok := range tokens {
		t.add(strings.ToLower(tok), 1)
	}

	standard := make(map[string]string, len(t.counts))
	for _, key := range slices.Clone(t.order) {
		if !strings.HasSuffix(key, "s") || strings.HasSuffix(key, "ss") {
			continue
		}
		singular := key[:len(key)-1]
		if _, ok := t.counts[singular]; !ok {
			continue
		}
		t.counts[singular] += t.counts[key]
		delete(t.counts, key)
		standard[key] = singular
	}
	for key := range t.counts {
		standard[key] = key
	}
	return t, standard
}

func unigramsAndBigrams(words []string, stopwords map[string]struct{}, threshold float64) *tally {
	var unigrams, bigrams []string
	for i, w := range words {
		if isStopword(stopwords, w) {
			continue
		}
		unigrams = append(unigrams, w)
		if i+1 < len(words) && !isStopword(stopwords, words[i+1]) {
			bigrams = append(bigrams, w+" "+words[i+1])
		}
	}

	counts, standard := countTokens(unigrams)
	bigramCounts, _ := countTokens(bigrams)
	orig := maps.Clone(counts.counts)

	for _, bigram := range bigramCounts.order {
		c, ok := bigramCounts.counts[bigram]
		if !ok {
			continue
		}
		first, second, _ := strings.Cut(bigram, " ")
		w1, ok1 := standard[first]
		w2, ok2 := standard[second]
		if !ok1 || !ok2 {
			continue
		}
		if collocationScore(c, orig[w1], orig[w2], len(unigrams)) > threshold {
			counts.counts[w1] -= c
			counts.counts[w2] -= c
			counts.add(bigram, c)
		}
	}

	for w, c := range counts.counts {
		if c <= 0 {
			delete(counts.counts, w)
		}
	}
	return counts
}

// collocationScore is Dunning's log-likelihood ratio for the bigram (w1, w2)
// seen c12 times, where w1 occurs c1 times and w2 c2 times among n words.
func collocationScore(c12, c1, c2, n int) float64 {
	if n <= c1 || n <= c2 {
		return 0
	}
	p := float64(c2) / float64(n)
	p1 := float64(c12) / float64(c1)
	p2 := float64(c2-c12) / float64(n-c1)
	score := logLikelihood(c12, c1, p) + logLikelihood(c2-c12, n-c1, p) -
		logLikelihood(c12, c1, p1) - logLikelihood(c2-c12, n-c1, p2)
	return -2 * score
}

func logLikelihood(k, n int, x float64) float64 {
	return math.Log(math.Max(x, 1e-10))*float64(k) + math.Log(math.Max(1-x, 1e-10))*float64(n-k)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
