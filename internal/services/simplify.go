package services

import (
	"log/slog"
	"math"

	"github.com/twpayne/go-geom"
)

// Constants for ring complexity thresholds
const (
	// Maximum number of points before simplification is considered
	maxRingPoints = 700
	// Minimum number of points to consider for simplification
	minRingPoints = 400
	// Base percentage of bounding box diagonal for epsilon
	baseEpsilonPercent = 0.1 // 0.1% of the diagonal
)

// SimplifyRing reduces the vertex count of a dense boundary ring with the
// Ramer-Douglas-Peucker algorithm. Rings below the complexity thresholds
// come back unchanged. The first and last point always survive, so a
// closed ring stays closed.
func SimplifyRing(ring []geom.Coord) []geom.Coord {
	needsSimplification, epsilon := ringComplexity(ring)
	if !needsSimplification {
		return ring
	}

	simplified := simplifyRing(ring, epsilon)
	slog.Debug("ring simplified", "from", len(ring), "to", len(simplified), "epsilon", epsilon)
	return simplified
}

// ringArea calculates the area of a ring using the shoelace formula
func ringArea(ring []geom.Coord) float64 {
	area := 0.0
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		area += (ring[j][0] + ring[i][0]) * (ring[j][1] - ring[i][1])
		j = i
	}
	return math.Abs(area) / 2
}

// ringDiagonal calculates the diagonal length of the ring's bounding box
func ringDiagonal(ring []geom.Coord) float64 {
	if len(ring) == 0 {
		return 0
	}

	minX, minY := ring[0][0], ring[0][1]
	maxX, maxY := ring[0][0], ring[0][1]

	for _, p := range ring {
		if p[0] < minX {
			minX = p[0]
		}
		if p[0] > maxX {
			maxX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
	}

	dx := maxX - minX
	dy := maxY - minY
	return math.Sqrt(dx*dx + dy*dy)
}

// ringComplexity determines if a ring needs simplification and returns an
// appropriate epsilon value
func ringComplexity(ring []geom.Coord) (bool, float64) {
	numPoints := len(ring)

	if numPoints < minRingPoints {
		return false, 0
	}

	area := ringArea(ring)
	pointsPerArea := float64(numPoints) / area

	needsSimplification := numPoints > maxRingPoints || pointsPerArea > 700
	if !needsSimplification {
		return false, 0
	}

	diagonal := ringDiagonal(ring)
	baseEpsilon := diagonal * baseEpsilonPercent / 100.0

	// More points = larger epsilon (more simplification)
	epsilon := baseEpsilon * math.Pow(float64(numPoints)/float64(minRingPoints), 0.55)

	// Cap the epsilon to prevent over-simplification
	maxEpsilon := diagonal * 0.01
	if epsilon > maxEpsilon {
		epsilon = maxEpsilon
	}

	return true, epsilon
}

// perpendicularDistance calculates the perpendicular distance from a point
// to a line segment
func perpendicularDistance(point, lineStart, lineEnd geom.Coord) float64 {
	// If the line segment is actually a point, return distance to that point
	if lineStart[0] == lineEnd[0] && lineStart[1] == lineEnd[1] {
		return math.Sqrt(math.Pow(point[0]-lineStart[0], 2) + math.Pow(point[1]-lineStart[1], 2))
	}

	// Calculate the area of the triangle * 2
	area := math.Abs((lineEnd[1]-lineStart[1])*point[0] - (lineEnd[0]-lineStart[0])*point[1] + lineEnd[0]*lineStart[1] - lineEnd[1]*lineStart[0])

	// Calculate the length of the line segment
	lineLength := math.Sqrt(math.Pow(lineEnd[0]-lineStart[0], 2) + math.Pow(lineEnd[1]-lineStart[1], 2))

	// Return the height of the triangle
	return area / lineLength
}

// simplifyRing applies the Ramer-Douglas-Peucker algorithm to a ring
func simplifyRing(ring []geom.Coord, epsilon float64) []geom.Coord {
	if len(ring) <= 2 {
		return ring
	}

	// Find the point with the maximum distance
	maxDistance := 0.0
	maxIndex := 0

	for i := 1; i < len(ring)-1; i++ {
		distance := perpendicularDistance(ring[i], ring[0], ring[len(ring)-1])
		if distance > maxDistance {
			maxDistance = distance
			maxIndex = i
		}
	}

	// If max distance is greater than epsilon, recursively simplify
	if maxDistance > epsilon {
		firstLine := simplifyRing(ring[:maxIndex+1], epsilon)
		secondLine := simplifyRing(ring[maxIndex:], epsilon)

		return append(firstLine[:len(firstLine)-1], secondLine...)
	}

	// Return the endpoints
	return []geom.Coord{ring[0], ring[len(ring)-1]}
}
