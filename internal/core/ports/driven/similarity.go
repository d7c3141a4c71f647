package driven

// SimilarityBackend provides the vector-space primitives the similarity
// analyzer is built on: a pairwise similarity matrix and a density-based
// clustering pass over its distance complement.
//
// Implementations may include:
//   - gonum (exact cosine matrix + DBSCAN, the default)
//   - approximate backends for pre-sharded corpora
type SimilarityBackend interface {
	// PairwiseSimilarity computes the full NxN cosine similarity matrix
	// for the given embedding vectors. The matrix is symmetric with a
	// unit diagonal. O(n^2) in both memory and compute; callers needing
	// to scale beyond a few thousand vectors must pre-shard.
	PairwiseSimilarity(embeddings [][]float32) [][]float64

	// Cluster runs density-based clustering over a precomputed distance
	// matrix. eps is the neighbourhood radius, minSamples the minimum
	// neighbourhood size (including the point itself) for a core point.
	// The returned slice assigns each point a cluster label; noise points
	// are labelled -1.
	Cluster(distances [][]float64, eps float64, minSamples int) []int
}
