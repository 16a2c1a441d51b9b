package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/twpayne/go-geom"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// GeoService fetches the department boundary file and converts its
// features into drawable departments. When a local file path is set it
// takes precedence over the network.
type GeoService struct {
	url      string
	filePath string
	logger   *slog.Logger
	client   *http.Client
}

// NewGeoService creates a new GeoService instance
func NewGeoService(url, filePath string, timeout time.Duration, logger *slog.Logger) *GeoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeoService{
		url:      url,
		filePath: filePath,
		logger:   logger.With("component", "boundaries"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// LoadDepartments returns every department of the boundary file with
// normalized codes. A malformed file fails the whole load.
func (s *GeoService) LoadDepartments(ctx context.Context) ([]models.Department, error) {
	start := time.Now()

	data, err := s.boundaryData(ctx)
	if err != nil {
		return nil, err
	}

	departments, err := parseDepartments(data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("department boundaries loaded", "departments", len(departments), "duration", time.Since(start))
	return departments, nil
}

// boundaryData reads the raw GeoJSON bytes from the local file or the
// configured URL.
func (s *GeoService) boundaryData(ctx context.Context) ([]byte, error) {
	if s.filePath != "" {
		data, err := os.ReadFile(s.filePath)
		if err != nil {
			return nil, fmt.Errorf("error reading boundaries file: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating boundaries request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching boundaries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("boundaries server returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading boundaries response: %w", err)
	}
	return data, nil
}

// parseDepartments converts a GeoJSON FeatureCollection into
// departments. Only the outer ring of each polygon is kept; holes do
// not occur in the department file.
func parseDepartments(data []byte) ([]models.Department, error) {
	var collection struct {
		Type     string `json:"type"`
		Features []struct {
			Type       string `json:"type"`
			Properties struct {
				Code string `json:"code"`
				Name string `json:"nom"`
			} `json:"properties"`
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}

	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("error parsing boundaries GeoJSON: %w", err)
	}

	if collection.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unsupported boundaries GeoJSON type: %s", collection.Type)
	}

	if len(collection.Features) == 0 {
		return nil, fmt.Errorf("boundaries file contains no features")
	}

	departments := make([]models.Department, 0, len(collection.Features))
	for i, feature := range collection.Features {
		code := models.CleanDepartmentCode(feature.Properties.Code)
		if code == "" {
			return nil, fmt.Errorf("feature %d has no department code", i)
		}

		rings, err := featureRings(feature.Geometry.Type, feature.Geometry.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", code, err)
		}

		for j := range rings {
			rings[j] = SimplifyRing(rings[j])
		}

		departments = append(departments, models.NewDepartment(code, feature.Properties.Name, rings))
	}

	return departments, nil
}

// featureRings extracts the outer ring of each polygon in a feature
// geometry as raw coordinates.
func featureRings(geometryType string, coordinates json.RawMessage) ([][]geom.Coord, error) {
	switch geometryType {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(coordinates, &coords); err != nil {
			return nil, fmt.Errorf("error parsing polygon coordinates: %w", err)
		}
		if len(coords) == 0 {
			return nil, fmt.Errorf("empty polygon coordinates")
		}
		return [][]geom.Coord{ringCoords(coords[0])}, nil

	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(coordinates, &coords); err != nil {
			return nil, fmt.Errorf("error parsing multipolygon coordinates: %w", err)
		}
		if len(coords) == 0 {
			return nil, fmt.Errorf("empty multipolygon coordinates")
		}
		rings := make([][]geom.Coord, 0, len(coords))
		for _, polygon := range coords {
			if len(polygon) == 0 {
				continue
			}
			rings = append(rings, ringCoords(polygon[0]))
		}
		if len(rings) == 0 {
			return nil, fmt.Errorf("multipolygon has no outer rings")
		}
		return rings, nil

	default:
		return nil, fmt.Errorf("unsupported geometry type: %s", geometryType)
	}
}

// ringCoords converts one GeoJSON coordinate ring to go-geom coords.
func ringCoords(ring [][]float64) []geom.Coord {
	coords := make([]geom.Coord, 0, len(ring))
	for _, point := range ring {
		if len(point) < 2 {
			continue
		}
		coords = append(coords, geom.Coord{point[0], point[1]})
	}
	return coords
}
