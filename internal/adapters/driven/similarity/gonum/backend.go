// Package gonum provides a driven.SimilarityBackend built on gonum's
// dense matrices. Pairwise similarity is cosine similarity over the
// embedding vectors; clustering is density-based over a precomputed
// distance matrix.
package gonum

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.SimilarityBackend = (*Backend)(nil)

// Cluster labels for points not yet visited and for noise.
const (
	labelUnvisited = -2
	labelNoise     = -1
)

// Backend computes similarity and clusters documents in-process.
// It is stateless and safe for concurrent use.
type Backend struct{}

// NewBackend creates a new in-process similarity backend.
func NewBackend() *Backend {
	return &Backend{}
}

// PairwiseSimilarity returns the n x n cosine-similarity matrix of the
// given embedding vectors. The diagonal is always 1. A zero vector has
// similarity 0 to every other vector.
func (b *Backend) PairwiseSimilarity(embeddings [][]float32) [][]float64 {
	n := len(embeddings)
	result := make([][]float64, n)
	for i := range result {
		result[i] = make([]float64, n)
		result[i][i] = 1
	}
	if n < 2 {
		return result
	}

	dim := len(embeddings[0])
	data := make([]float64, 0, n*dim)
	norms := make([]float64, n)
	for i, vec := range embeddings {
		var sum float64
		for _, v := range vec {
			f := float64(v)
			data = append(data, f)
			sum += f * f
		}
		norms[i] = math.Sqrt(sum)
	}

	m := mat.NewDense(n, dim, data)
	var products mat.Dense
	products.Mul(m, m.T())

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if norms[i] == 0 || norms[j] == 0 {
				continue
			}
			sim := products.At(i, j) / (norms[i] * norms[j])
			// Floating-point round-off can push cosine beyond [-1, 1].
			sim = math.Max(-1, math.Min(1, sim))
			result[i][j] = sim
			result[j][i] = sim
		}
	}

	return result
}

// Cluster runs DBSCAN over a precomputed distance matrix. Points within
// eps of each other are neighbours; a point with at least minSamples
// neighbours (itself included) is a core point. Returns one label per
// point; noise points get -1. Labels are assigned in scan order, so the
// output is deterministic for a given input.
func (b *Backend) Cluster(distances [][]float64, eps float64, minSamples int) []int {
	n := len(distances)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = labelUnvisited
	}

	neighbours := func(p int) []int {
		var out []int
		for q := 0; q < n; q++ {
			if distances[p][q] <= eps {
				out = append(out, q)
			}
		}
		return out
	}

	cluster := 0
	for p := 0; p < n; p++ {
		if labels[p] != labelUnvisited {
			continue
		}

		seeds := neighbours(p)
		if len(seeds) < minSamples {
			labels[p] = labelNoise
			continue
		}

		labels[p] = cluster

		// Expand the cluster breadth-first from the seed set.
		for i := 0; i < len(seeds); i++ {
			q := seeds[i]
			if labels[q] == labelNoise {
				labels[q] = cluster
			}
			if labels[q] != labelUnvisited {
				continue
			}
			labels[q] = cluster

			qn := neighbours(q)
			if len(qn) >= minSamples {
				seeds = append(seeds, qn...)
			}
		}

		cluster++
	}

	return labels
}
