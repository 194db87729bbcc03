package embed

import (
	"fmt"
	"math"

	matrix "github.com/katalvlaran/hyperroute/linalg"
	"github.com/katalvlaran/hyperroute/linalg/ops"

	"github.com/katalvlaran/hyperroute/bfs"
	"github.com/katalvlaran/hyperroute/core"
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/identity"
)

// LandmarkResult is the output of BuildLandmarkMDS.
type LandmarkResult struct {
	Coordinates      map[string]identity.RoutingCoordinate
	Landmarks        []string
	CoveringRadius   int
	LandmarkDistance map[string][]int // per-node distance to each landmark, same order as Landmarks
}

// landmarkConfig holds Landmark-MDS's tunable parameters.
type landmarkConfig struct {
	numLandmarks          int // 0 means "compute from graph size"
	landmarkIterations    int
	triangulationIters    int
	stepSize              float64
	boundaryMargin        float64
	eigenTol              float64
	eigenMaxIter          int
}

// LandmarkOption configures BuildLandmarkMDS.
type LandmarkOption func(*landmarkConfig)

// WithLandmarkCount overrides the number of landmarks selected (default
// min(2*sqrt(n), 64), floor 4). This is the config.EmbedConfig.LandmarkCount
// knob from spec §6's configuration table.
func WithLandmarkCount(k int) LandmarkOption {
	return func(cfg *landmarkConfig) { cfg.numLandmarks = k }
}

// WithStressIterations overrides the gradient-descent iteration counts for
// landmark refinement and per-node triangulation (default 100 / 50).
func WithStressIterations(landmarkIters, triangulationIters int) LandmarkOption {
	return func(cfg *landmarkConfig) {
		cfg.landmarkIterations = landmarkIters
		cfg.triangulationIters = triangulationIters
	}
}

// WithStepSize overrides the gradient descent step size (default 0.1).
func WithStepSize(step float64) LandmarkOption {
	return func(cfg *landmarkConfig) { cfg.stepSize = step }
}

// WithBoundaryMargin overrides how far inside the unit disk coordinates
// must stay (default 0.02, matching config.HyperbolicConfig.BoundaryMargin).
func WithBoundaryMargin(margin float64) LandmarkOption {
	return func(cfg *landmarkConfig) { cfg.boundaryMargin = margin }
}

func newLandmarkConfig(opts ...LandmarkOption) landmarkConfig {
	cfg := landmarkConfig{
		numLandmarks:       0,
		landmarkIterations: 100,
		triangulationIters: 50,
		stepSize:           0.1,
		boundaryMargin:     0.02,
		eigenTol:           1e-9,
		eigenMaxIter:       100,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// BuildLandmarkMDS embeds g's vertices using graph-distance-aware
// Landmark-MDS: farthest-point-sampled landmarks, classical MDS via
// eigendecomposition of the double-centered distance matrix
// (linalg/ops.Eigen), hyperbolic stress refinement of the landmarks, then
// triangulation of every other node against the refined landmarks.
//
// Unlike BuildPIE, this does not require g to be a tree and uses actual
// shortest-path distances, at the cost of only an approximate (not
// guaranteed loop-free) greedy-forwarding property — ricci.Refine is
// expected to run afterward to tighten it.
func BuildLandmarkMDS(g *core.Graph, opts ...LandmarkOption) (*LandmarkResult, error) {
	if g == nil {
		return nil, ErrEmptyGraph
	}
	vertices := g.Vertices()
	n := len(vertices)
	if n == 0 {
		return nil, ErrEmptyGraph
	}
	cfg := newLandmarkConfig(opts...)

	numLandmarks := cfg.numLandmarks
	if numLandmarks <= 0 {
		sqrtN := int(math.Sqrt(float64(n)))
		numLandmarks = min(max(2*sqrtN, 4), 64)
		numLandmarks = min(numLandmarks, n)
	}

	landmarks, err := selectLandmarks(g, vertices, numLandmarks)
	if err != nil {
		return nil, err
	}
	if len(landmarks) == 0 {
		return nil, fmt.Errorf("embed: no landmarks selected")
	}

	landmarkDist, coveringRadius, err := distancesToLandmarks(g, vertices, landmarks)
	if err != nil {
		return nil, err
	}

	initCoords, err := classicalMDS(landmarks, landmarkDist, cfg)
	if err != nil {
		return nil, err
	}
	refined := refineLandmarkCoords(landmarks, initCoords, landmarkDist, cfg)

	refinedVec := make([][2]float64, len(landmarks))
	for i, l := range landmarks {
		refinedVec[i] = refined[l]
	}

	coords := make(map[string]identity.RoutingCoordinate, n)
	for _, id := range vertices {
		var x, y float64
		if c, ok := refined[id]; ok {
			x, y = c[0], c[1]
		} else {
			x, y = triangulateNode(landmarkDist[id], refinedVec, cfg)
		}
		point, ok := clampToDisk(x, y, cfg.boundaryMargin)
		if !ok {
			point = hyperbolic.Point{}
		}
		coords[id] = identity.NewRoutingCoordinate(point)
	}

	return &LandmarkResult{
		Coordinates:      coords,
		Landmarks:        landmarks,
		CoveringRadius:   coveringRadius,
		LandmarkDistance: landmarkDist,
	}, nil
}

// selectLandmarks runs farthest-point sampling: start from the
// highest-degree vertex, then repeatedly add whichever unselected vertex
// is furthest (by BFS hop count) from the nearest landmark chosen so far.
func selectLandmarks(g *core.Graph, vertices []string, k int) ([]string, error) {
	first, err := highestDegreeVertex(g, vertices)
	if err != nil {
		return nil, err
	}
	landmarks := []string{first}

	minDist, err := bfsDistances(g, first)
	if err != nil {
		return nil, err
	}

	isLandmark := map[string]bool{first: true}
	for len(landmarks) < k {
		next := ""
		nextDist := -1
		for _, id := range vertices {
			if isLandmark[id] {
				continue
			}
			d, ok := minDist[id]
			if !ok {
				d = math.MaxInt32
			}
			if d > nextDist || (d == nextDist && id < next) {
				next = id
				nextDist = d
			}
		}
		if next == "" {
			break
		}
		landmarks = append(landmarks, next)
		isLandmark[next] = true

		dists, err := bfsDistances(g, next)
		if err != nil {
			return nil, err
		}
		for id, d := range dists {
			if cur, ok := minDist[id]; !ok || d < cur {
				minDist[id] = d
			}
		}
	}

	return landmarks, nil
}

// bfsDistances runs bfs.BFS from source and returns hop-count distances.
func bfsDistances(g *core.Graph, source string) (map[string]int, error) {
	res, err := bfs.BFS(g, source)
	if err != nil {
		return nil, fmt.Errorf("embed: bfs from %q: %w", source, err)
	}
	return res.Depth, nil
}

// distancesToLandmarks computes, for every vertex, its hop distance to
// every landmark (math.MaxInt32 when disconnected), and the covering
// radius (the maximum over all vertices of the distance to its nearest
// landmark).
func distancesToLandmarks(g *core.Graph, vertices, landmarks []string) (map[string][]int, int, error) {
	perLandmark := make([]map[string]int, len(landmarks))
	for i, l := range landmarks {
		d, err := bfsDistances(g, l)
		if err != nil {
			return nil, 0, err
		}
		perLandmark[i] = d
	}

	result := make(map[string][]int, len(vertices))
	coveringRadius := 0
	for _, id := range vertices {
		dists := make([]int, len(landmarks))
		nearest := math.MaxInt32
		for i := range landmarks {
			d, ok := perLandmark[i][id]
			if !ok {
				d = math.MaxInt32
			}
			dists[i] = d
			if d < nearest {
				nearest = d
			}
		}
		result[id] = dists
		if nearest != math.MaxInt32 && nearest > coveringRadius {
			coveringRadius = nearest
		}
	}
	return result, coveringRadius, nil
}

// classicalMDS positions landmarks in 2D Euclidean space by
// double-centering their pairwise hop-distance matrix and taking its top
// two eigenvectors (linalg/ops.Eigen), scaled into the unit disk.
func classicalMDS(landmarks []string, landmarkDist map[string][]int, cfg landmarkConfig) (map[string][2]float64, error) {
	k := len(landmarks)
	if k < 2 {
		out := make(map[string][2]float64, k)
		for _, l := range landmarks {
			out[l] = [2]float64{0, 0}
		}
		return out, nil
	}

	dsq, err := matrix.NewDense(k, k)
	if err != nil {
		return nil, fmt.Errorf("embed: NewDense: %w", err)
	}
	for i, li := range landmarks {
		for j := range landmarks {
			d := float64(landmarkDist[li][j])
			_ = dsq.Set(i, j, d*d)
		}
	}

	// Double centering: B = -1/2 * J * D^2 * J, J = I - (1/k) * 11^T.
	rowMean := make([]float64, k)
	grandMean := 0.0
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			v, _ := dsq.At(i, j)
			rowMean[i] += v
			grandMean += v
		}
		rowMean[i] /= float64(k)
	}
	grandMean /= float64(k * k)

	b, err := matrix.NewDense(k, k)
	if err != nil {
		return nil, fmt.Errorf("embed: NewDense: %w", err)
	}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			dij, _ := dsq.At(i, j)
			_ = b.Set(i, j, -0.5*(dij-rowMean[i]-rowMean[j]+grandMean))
		}
	}

	eigenvalues, eigenvectors, err := ops.Eigen(b, cfg.eigenTol, cfg.eigenMaxIter)
	if err != nil {
		return nil, fmt.Errorf("embed: classicalMDS eigen: %w", err)
	}

	i1, i2 := topTwoEigenIndices(eigenvalues)
	coordsX := make([]float64, k)
	coordsY := make([]float64, k)
	scale1 := math.Sqrt(math.Max(eigenvalues[i1], 0))
	scale2 := math.Sqrt(math.Max(eigenvalues[i2], 0))
	maxCoord := 0.0
	for i := 0; i < k; i++ {
		v1, _ := eigenvectors.At(i, i1)
		v2, _ := eigenvectors.At(i, i2)
		coordsX[i] = v1 * scale1
		coordsY[i] = v2 * scale2
		maxCoord = math.Max(maxCoord, math.Max(math.Abs(coordsX[i]), math.Abs(coordsY[i])))
	}

	scale := 1.0
	if maxCoord > 1e-10 {
		scale = (1.0 - cfg.boundaryMargin*2) / maxCoord
	}

	out := make(map[string][2]float64, k)
	for i, l := range landmarks {
		out[l] = [2]float64{coordsX[i] * scale, coordsY[i] * scale}
	}
	return out, nil
}

// topTwoEigenIndices returns the indices of the two largest eigenvalues.
func topTwoEigenIndices(eigenvalues []float64) (int, int) {
	i1, i2 := 0, 1
	if len(eigenvalues) < 2 {
		return 0, 0
	}
	if eigenvalues[i2] > eigenvalues[i1] {
		i1, i2 = i2, i1
	}
	for i := 2; i < len(eigenvalues); i++ {
		if eigenvalues[i] > eigenvalues[i1] {
			i2 = i1
			i1 = i
		} else if eigenvalues[i] > eigenvalues[i2] {
			i2 = i
		}
	}
	return i1, i2
}

// refineLandmarkCoords runs hyperbolic stress-minimization gradient descent
// so the landmarks' pairwise hyperbolic distances approach their true
// graph-hop distances, using the Poincaré disk's Riemannian metric scale
// factor (1-|p|^2)^2/4 to convert Euclidean gradients into disk-aware
// steps.
func refineLandmarkCoords(landmarks []string, init map[string][2]float64, landmarkDist map[string][]int, cfg landmarkConfig) map[string][2]float64 {
	coords := make(map[string][2]float64, len(init))
	for k, v := range init {
		coords[k] = v
	}
	k := len(landmarks)

	for iter := 0; iter < cfg.landmarkIterations; iter++ {
		grad := make(map[string][2]float64, k)
		for i := 0; i < k; i++ {
			li := landmarks[i]
			xi, yi := coords[li][0], coords[li][1]
			for j := i + 1; j < k; j++ {
				lj := landmarks[j]
				xj, yj := coords[lj][0], coords[lj][1]

				target := float64(landmarkDist[li][j])
				current, err := hyperbolic.Distance(hyperbolic.Point{X: xi, Y: yi}, hyperbolic.Point{X: xj, Y: yj})
				if err != nil || current < 1e-10 {
					continue
				}

				stress := current - target
				dx, dy := xj-xi, yj-yi
				eucl := math.Max(math.Sqrt(dx*dx+dy*dy), 1e-10)

				confI := 2.0 / math.Max(1-(xi*xi+yi*yi), 0.01)
				confJ := 2.0 / math.Max(1-(xj*xj+yj*yj), 0.01)
				gradMag := stress * confI * confJ / eucl * cfg.stepSize

				gx, gy := dx/eucl*gradMag, dy/eucl*gradMag
				gi := grad[li]
				gi[0] += gx
				gi[1] += gy
				grad[li] = gi
				gj := grad[lj]
				gj[0] -= gx
				gj[1] -= gy
				grad[lj] = gj
			}
		}

		for _, l := range landmarks {
			x, y := coords[l][0], coords[l][1]
			g := grad[l]
			rSq := x*x + y*y
			metric := math.Max((1-rSq)*(1-rSq)/4, 0.001)
			newX, newY := x-g[0]*metric, y-g[1]*metric
			if p, ok := clampToDisk(newX, newY, cfg.boundaryMargin); ok {
				coords[l] = [2]float64{p.X, p.Y}
			} else {
				coords[l] = [2]float64{newX, newY}
			}
		}
	}
	return coords
}

// triangulateNode positions a non-landmark node as the inverse-distance
// weighted centroid of the landmarks, then refines it by the same
// hyperbolic stress gradient descent used for the landmarks themselves.
func triangulateNode(nodeDist []int, landmarkCoords [][2]float64, cfg landmarkConfig) (float64, float64) {
	if len(landmarkCoords) == 0 {
		return 0, 0
	}

	var x, y, totalWeight float64
	for i, lc := range landmarkCoords {
		d := nodeDist[i]
		if d == 0 {
			return lc[0], lc[1]
		}
		w := 1.0 / (float64(d) + 1.0)
		x += lc[0] * w
		y += lc[1] * w
		totalWeight += w
	}
	if totalWeight > 1e-10 {
		x /= totalWeight
		y /= totalWeight
	}

	for iter := 0; iter < cfg.triangulationIters; iter++ {
		var gx, gy float64
		for i, lc := range landmarkCoords {
			target := float64(nodeDist[i])
			current, err := hyperbolic.Distance(hyperbolic.Point{X: x, Y: y}, hyperbolic.Point{X: lc[0], Y: lc[1]})
			if err != nil || current < 1e-10 {
				continue
			}
			stress := current - target
			dx, dy := lc[0]-x, lc[1]-y
			eucl := math.Max(math.Sqrt(dx*dx+dy*dy), 1e-10)
			weight := 1.0 / (target + 1.0)
			gradMag := stress * weight * cfg.stepSize * 0.5
			gx += dx / eucl * gradMag
			gy += dy / eucl * gradMag
		}

		rSq := x*x + y*y
		metric := math.Max((1-rSq)*(1-rSq)/4, 0.001)
		newX, newY := x+gx*metric, y+gy*metric
		if p, ok := clampToDisk(newX, newY, cfg.boundaryMargin); ok {
			x, y = p.X, p.Y
		} else {
			x, y = newX, newY
		}
	}
	return x, y
}

// clampToDisk projects (x,y) back inside the unit disk with the given
// boundary margin if it has drifted outside, and reports whether the
// result is a valid hyperbolic.Point.
func clampToDisk(x, y, margin float64) (hyperbolic.Point, bool) {
	rSq := x*x + y*y
	maxR := 1.0 - margin
	if rSq >= maxR*maxR {
		norm := math.Sqrt(rSq)
		scale := (maxR - 0.01) / norm
		x *= scale
		y *= scale
	}
	p := hyperbolic.Point{X: x, Y: y}
	return p, p.Validate() == nil
}
