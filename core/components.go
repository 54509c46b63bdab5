package core

import (
	"errors"
	"fmt"
	"math"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/quantifio/codemetrics/schema"
)

// componentNameThreshold is the minimum center weight a term needs to appear
// in a cluster's name.
const componentNameThreshold = 0.4

// tokenRe matches terms of two or more word characters, so single-letter
// directory names carry no signal.
var tokenRe = regexp.MustCompile(`\w\w+`)

// GuessComponents infers a logical component for each path from its
// directory name. Directory names are tokenized and embedded as TF-IDF
// vectors, clustered with k-means into at most nClusters groups, and each
// cluster is named by its dominant terms joined by dots. Paths sharing a
// directory always land in the same component. Terms listed in stopWords
// are dropped from the vocabulary.
//
// Clustering is randomly seeded, so assignments can differ between runs on
// the same input; rows always come back sorted by component, then path.
func GuessComponents(paths []string, stopWords []string, nClusters int) ([]schema.ComponentRow, error) {
	if len(paths) == 0 {
		return []schema.ComponentRow{}, nil
	}
	if nClusters < 1 {
		return nil, fmt.Errorf("cluster count must be positive, got %d", nClusters)
	}

	dirs := make([]string, len(paths))
	for i, p := range paths {
		dirs[i] = dirName(p)
	}

	model, err := fitTFIDF(dirs, stopWords)
	if err != nil {
		return nil, err
	}

	observations := make(clusters.Observations, len(dirs))
	for i, d := range dirs {
		observations[i] = model.vectorize(d)
	}

	// k-means needs at least as many observations as clusters.
	k := min(nClusters, len(observations))
	km := kmeans.New()
	cc, err := km.Partition(observations, k)
	if err != nil {
		return nil, fmt.Errorf("cannot cluster paths: %w", err)
	}

	names := make([]string, len(cc))
	for i, c := range cc {
		names[i] = clusterName(c.Center, model.features, componentNameThreshold)
	}

	rows := make([]schema.ComponentRow, len(paths))
	for i, p := range paths {
		rows[i] = schema.ComponentRow{
			Path:      p,
			Component: names[cc.Nearest(observations[i])],
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Component != rows[j].Component {
			return rows[i].Component < rows[j].Component
		}
		return rows[i].Path < rows[j].Path
	})
	return rows, nil
}

// ComponentLookup converts component rows into a path lookup usable as a
// co-change grouping key.
func ComponentLookup(rows []schema.ComponentRow) map[string]string {
	byPath := make(map[string]string, len(rows))
	for _, r := range rows {
		byPath[r.Path] = r.Component
	}
	return byPath
}

// dirName returns the directory part of p with separators normalized, the
// way the grouping sees it. Files at the repository root map to the empty
// document.
func dirName(p string) string {
	d := path.Dir(strings.ReplaceAll(p, "\\", "/"))
	if d == "." {
		return ""
	}
	return d
}

// tfidfModel embeds documents as l2-normalized TF-IDF vectors with smoothed
// inverse document frequencies: idf(t) = ln((1+n)/(1+df(t))) + 1.
type tfidfModel struct {
	features []string
	index    map[string]int
	idf      []float64
}

// fitTFIDF builds the vocabulary and document frequencies over docs.
func fitTFIDF(docs []string, stopWords []string) (*tfidfModel, error) {
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc, stop) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, errors.New("no usable terms in any directory name")
	}

	features := make([]string, 0, len(df))
	for t := range df {
		features = append(features, t)
	}
	sort.Strings(features)

	index := make(map[string]int, len(features))
	idf := make([]float64, len(features))
	n := float64(len(docs))
	for i, t := range features {
		index[t] = i
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return &tfidfModel{features: features, index: index, idf: idf}, nil
}

// vectorize returns the embedding of doc. Terms outside the fitted
// vocabulary are ignored; a doc with no known terms embeds as the zero
// vector.
func (m *tfidfModel) vectorize(doc string) clusters.Coordinates {
	vec := make(clusters.Coordinates, len(m.features))
	for _, tok := range tokenize(doc, nil) {
		if i, ok := m.index[tok]; ok {
			vec[i]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= m.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// tokenize lowercases doc and extracts word-character runs of length two or
// more, dropping any listed in stop.
func tokenize(doc string, stop map[string]struct{}) []string {
	toks := tokenRe.FindAllString(strings.ToLower(doc), -1)
	if len(stop) == 0 {
		return toks
	}
	kept := toks[:0]
	for _, t := range toks {
		if _, drop := stop[t]; !drop {
			kept = append(kept, t)
		}
	}
	return kept
}

// clusterName names a cluster after the terms its center weights above
// threshold, strongest first, joined by dots. A center with no term above
// threshold gets the empty name.
func clusterName(center clusters.Coordinates, features []string, threshold float64) string {
	type term struct {
		feature string
		weight  float64
	}
	terms := make([]term, 0, len(center))
	for i, w := range center {
		if w > threshold {
			terms = append(terms, term{feature: features[i], weight: w})
		}
	}
	if len(terms) == 0 {
		return ""
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].weight != terms[j].weight {
			return terms[i].weight > terms[j].weight
		}
		return terms[i].feature > terms[j].feature
	})

	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.feature
	}
	return strings.Join(parts, ".")
}
