package search

import (
	"testing"

	"pgregory.net/rapid"
)

func TestCosineSimilarity_Properties(t *testing.T) {
	genValue := rapid.Float64Range(-1e6, 1e6)

	t.Run("result stays within [0,1]", rapid.MakeCheck(func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "dim")
		a := rapid.SliceOfN(genValue, n, n).Draw(t, "a")
		b := rapid.SliceOfN(genValue, n, n).Draw(t, "b")

		sim := cosineSimilarity(a, b)
		if sim < 0 || sim > 1 {
			t.Fatalf("similarity %v out of range", sim)
		}
	}))

	t.Run("mismatched dimensions always score zero", rapid.MakeCheck(func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "dimA")
		m := rapid.IntRange(1, 64).Filter(func(v int) bool { return v != n }).Draw(t, "dimB")
		a := rapid.SliceOfN(genValue, n, n).Draw(t, "a")
		b := rapid.SliceOfN(genValue, m, m).Draw(t, "b")

		if sim := cosineSimilarity(a, b); sim != 0 {
			t.Fatalf("mismatched dimensions scored %v", sim)
		}
	}))

	t.Run("symmetric", rapid.MakeCheck(func(t *rapid.T) {
		n := rapid.IntRange(1, 32).Draw(t, "dim")
		a := rapid.SliceOfN(genValue, n, n).Draw(t, "a")
		b := rapid.SliceOfN(genValue, n, n).Draw(t, "b")

		if cosineSimilarity(a, b) != cosineSimilarity(b, a) {
			t.Fatalf("similarity is not symmetric")
		}
	}))
}
