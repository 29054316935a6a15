// Package kmeans implements seeded, deterministic Lloyd's k-means with
// k-means++ initialization.
package kmeans

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerate is returned when fewer than K distinct points exist.
var ErrDegenerate = eris.New("kmeans: fewer distinct points than clusters")

// Options configures a fit. Zero values fall back to defaults.
type Options struct {
	K         int
	Seed      uint64
	NInit     int     // independent k-means++ restarts, best inertia wins
	MaxIter   int     // Lloyd iterations per restart
	Tolerance float64 // relative to the mean per-dimension variance
}

func (o Options) withDefaults() Options {
	if o.NInit < 1 {
		o.NInit = 10
	}
	if o.MaxIter < 1 {
		o.MaxIter = 300
	}
	if o.Tolerance < 0 {
		o.Tolerance = 0
	}
	return o
}

// Result is the best clustering found.
type Result struct {
	Labels     []int       // cluster id per input point
	Centroids  [][]float64 // indexed by cluster id
	Inertia    float64     // sum of squared distances to assigned centroids
	Iterations int
}

// Fit clusters points (all of equal dimension) into opts.K groups. The same
// points, order and seed always produce the same result.
func Fit(points [][]float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if opts.K < 1 {
		return nil, eris.Errorf("kmeans: k must be >= 1, got %d", opts.K)
	}
	if len(points) == 0 {
		return nil, eris.New("kmeans: no points")
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, eris.Errorf("kmeans: point %d has dimension %d, want %d", i, len(p), dim)
		}
	}
	if Distinct(points) < opts.K {
		return nil, ErrDegenerate
	}

	tol := opts.Tolerance * meanVariance(points, dim)
	master := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var best *Result
	for range opts.NInit {
		rng := rand.New(rand.NewPCG(master.Uint64(), master.Uint64()))
		res := lloyd(points, seedPlusPlus(points, opts.K, rng), opts.MaxIter, tol)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

// Distinct counts distinct points.
func Distinct(points [][]float64) int {
	return len(lo.UniqBy(points, pointKey))
}

func pointKey(p []float64) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func meanVariance(points [][]float64, dim int) float64 {
	if len(points) < 2 {
		return 0
	}
	col := make([]float64, len(points))
	var sum float64
	for d := range dim {
		for i, p := range points {
			col[i] = p[d]
		}
		sum += stat.PopVariance(col, nil)
	}
	return sum / float64(dim)
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// seedPlusPlus picks k initial centers: the first uniformly, each next one
// with probability proportional to its squared distance from the nearest
// chosen center.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	chosen := make(map[int]bool, k)

	first := rng.IntN(len(points))
	centers = append(centers, clone(points[first]))
	chosen[first] = true

	nearest := make([]float64, len(points))
	for i, p := range points {
		nearest[i] = sqDist(p, centers[0])
	}

	for len(centers) < k {
		total := floats.Sum(nearest)
		next := -1
		if total > 0 {
			target := rng.Float64() * total
			var acc float64
			for i, d := range nearest {
				if d == 0 {
					continue
				}
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
			if next < 0 {
				next = floats.MaxIdx(nearest)
			}
		} else {
			for i := range points {
				if !chosen[i] {
					next = i
					break
				}
			}
		}

		centers = append(centers, clone(points[next]))
		chosen[next] = true
		for i, p := range points {
			if d := sqDist(p, points[next]); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return centers
}

func lloyd(points [][]float64, centers [][]float64, maxIter int, tol float64) *Result {
	k := len(centers)
	dim := len(points[0])
	labels := make([]int, len(points))

	iter := 0
	for iter < maxIter {
		iter++
		assign(points, centers, labels)

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(next[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range next {
			if counts[c] > 0 {
				floats.Scale(1/float64(counts[c]), next[c])
			}
		}
		repairEmpty(points, labels, next, counts)

		var shift float64
		for c := range centers {
			shift += sqDist(centers[c], next[c])
		}
		centers = next
		if shift <= tol {
			break
		}
	}

	inertia := assign(points, centers, labels)
	return &Result{Labels: labels, Centroids: centers, Inertia: inertia, Iterations: iter}
}

// assign labels each point with its nearest center (lowest id on ties) and
// returns the inertia.
func assign(points, centers [][]float64, labels []int) float64 {
	var inertia float64
	for i, p := range points {
		bestC, bestD := 0, math.Inf(1)
		for c, center := range centers {
			if d := sqDist(p, center); d < bestD {
				bestC, bestD = c, d
			}
		}
		labels[i] = bestC
		inertia += bestD
	}
	return inertia
}

// repairEmpty moves the point farthest from its centroid into each empty
// cluster, taking only from clusters that keep at least one member.
func repairEmpty(points [][]float64, labels []int, centers [][]float64, counts []int) {
	for c := range centers {
		if counts[c] > 0 {
			continue
		}
		far, farD := -1, -1.0
		for i, p := range points {
			if counts[labels[i]] < 2 {
				continue
			}
			if d := sqDist(p, centers[labels[i]]); d > farD {
				far, farD = i, d
			}
		}
		if far < 0 {
			return
		}
		counts[labels[far]]--
		labels[far] = c
		counts[c] = 1
		centers[c] = clone(points[far])
	}
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
