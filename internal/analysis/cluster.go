package analysis

import (
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/dgallion1/sustainparse/internal/outline"
)

var wordRe = regexp.MustCompile(`[a-z][a-z0-9]+`)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "that": true,
	"this": true, "with": true, "from": true, "our": true, "have": true,
	"has": true, "was": true, "were": true, "will": true, "which": true,
	"their": true, "its": true, "not": true, "can": true, "all": true,
	"been": true, "also": true, "more": true, "other": true, "such": true,
	"these": true, "into": true, "than": true, "over": true, "per": true,
	"including": true, "through": true, "across": true, "during": true,
	"year": true, "years": true, "report": true, "reporting": true,
}

// vectorizer turns section text into a feature-hashed TF-IDF vector. Tokens
// are hashed into a fixed-width vector with a sign trick, so the vocabulary
// never needs materializing.
type vectorizer struct {
	dims     int
	idf      map[string]float64
	docCount int
}

func newVectorizer(dims int) *vectorizer {
	if dims <= 0 {
		dims = 256
	}
	return &vectorizer{dims: dims, idf: map[string]float64{}}
}

func (v *vectorizer) buildIDF(texts []string) {
	v.docCount = len(texts)
	docFreq := map[string]int{}
	for _, text := range texts {
		seen := map[string]bool{}
		for _, tok := range tokenize(text) {
			if !seen[tok] {
				docFreq[tok]++
				seen[tok] = true
			}
		}
	}
	for tok, df := range docFreq {
		v.idf[tok] = math.Log(float64(v.docCount+1) / float64(df+1))
	}
}

func (v *vectorizer) vectorize(text string) []float64 {
	vec := make([]float64, v.dims)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vec
	}

	tf := map[string]int{}
	for _, tok := range tokens {
		tf[tok]++
	}
	total := float64(len(tokens))
	for tok, count := range tf {
		idf := 1.0
		if w, ok := v.idf[tok]; ok {
			idf = w
		}
		weight := float64(count) / total * idf
		vec[hashIndex(tok, v.dims)] += hashSign(tok) * weight
	}
	normalize(vec)
	return vec
}

func tokenize(text string) []string {
	var tokens []string
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) < 3 || stopwords[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

func hashIndex(s string, dims int) int {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32() % uint32(dims))
}

func hashSign(s string) float64 {
	h := fnv.New32()
	h.Write([]byte(s))
	if h.Sum32()%2 == 0 {
		return 1.0
	}
	return -1.0
}

func normalize(vec []float64) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

const kmeansMaxIter = 50

// ClusterSections groups sections into k topic clusters over feature-hashed
// TF-IDF vectors. Centroids seed from evenly spaced sections, so the result
// is deterministic for a given document. Returns nil when there are fewer
// sections than clusters.
func ClusterSections(recs []outline.Record, k, dims int) []int {
	if k < 1 || len(recs) < k {
		return nil
	}

	texts := make([]string, len(recs))
	for i, r := range recs {
		texts[i] = r.Text
	}
	v := newVectorizer(dims)
	v.buildIDF(texts)
	vecs := make([][]float64, len(texts))
	for i, text := range texts {
		vecs[i] = v.vectorize(text)
	}

	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		src := vecs[c*len(vecs)/k]
		centroids[c] = append([]float64(nil), src...)
	}

	labels := make([]int, len(vecs))
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, vec := range vecs {
			best, bestSim := 0, math.Inf(-1)
			for c, cent := range centroids {
				if sim := dot(vec, cent); sim > bestSim {
					best, bestSim = c, sim
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		for c := range centroids {
			mean := make([]float64, v.dims)
			n := 0
			for i, vec := range vecs {
				if labels[i] != c {
					continue
				}
				for d := range vec {
					mean[d] += vec[d]
				}
				n++
			}
			if n == 0 {
				continue
			}
			for d := range mean {
				mean[d] /= float64(n)
			}
			normalize(mean)
			centroids[c] = mean
		}
	}
	return labels
}
