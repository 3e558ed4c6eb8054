// Package analytics computes the summary report for a city layout.
package analytics

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/geo"
	"github.com/ChicagoDave/citymesh/pkg/output"
)

// NoFacility is reported as the distance when no facility of a kind exists.
const NoFacility = -1.0

// Summary holds the headline statistics of a layout. Field order is the
// order of the keys in the written report.
type Summary struct {
	GridSize              int     `json:"gridSize"`
	TotalBuildings        int     `json:"totalBuildings"`
	ResidentialCells      int     `json:"residentialCells"`
	CommercialCells       int     `json:"commercialCells"`
	IndustrialCells       int     `json:"industrialCells"`
	GreenCells            int     `json:"greenCells"`
	UndevelopedCells      int     `json:"undevelopedCells"`
	NumHospitals          int     `json:"numHospitals"`
	NumSchools            int     `json:"numSchools"`
	MaxDistanceToSchool   float64 `json:"maxDistanceToSchool"`
	MaxDistanceToHospital float64 `json:"maxDistanceToHospital"`
	MaxResidentialHeight  int     `json:"maxResidentialHeight"`
	MaxCommercialHeight   int     `json:"maxCommercialHeight"`
	MaxIndustrialHeight   int     `json:"maxIndustrialHeight"`
}

// Cells returns the number of zoning cells counted across all zones.
func (s Summary) Cells() int {
	return s.ResidentialCells + s.CommercialCells + s.IndustrialCells + s.GreenCells + s.UndevelopedCells
}

// Summarize computes the summary of l.
//
// Distances are measured from each residential footprint centre to the
// nearest facility of a kind; the reported value is the largest of those,
// i.e. how far the worst-served residential parcel has to travel.
func Summarize(l *city.Layout) Summary {
	s := Summary{
		GridSize:              l.Size,
		MaxDistanceToSchool:   NoFacility,
		MaxDistanceToHospital: NoFacility,
	}

	for _, z := range l.Zones {
		switch z {
		case city.ZoneNone:
			s.UndevelopedCells++
		case city.ZoneResidential:
			s.ResidentialCells++
		case city.ZoneCommercial:
			s.CommercialCells++
		case city.ZoneIndustrial:
			s.IndustrialCells++
		case city.ZoneGreen:
			s.GreenCells++
		}
	}

	var schools, hospitals []geo.Point2D
	for _, f := range l.Facilities {
		switch f.Kind {
		case city.FacilitySchool:
			schools = append(schools, f.Position())
		case city.FacilityHospital:
			hospitals = append(hospitals, f.Position())
		}
	}
	s.NumSchools = len(schools)
	s.NumHospitals = len(hospitals)

	for _, b := range l.Buildings {
		if b.Zone != city.ZoneNone && b.Zone != city.ZoneGreen {
			s.TotalBuildings++
		}
		switch b.Zone {
		case city.ZoneResidential:
			s.MaxResidentialHeight = max(s.MaxResidentialHeight, b.Height)
			c := b.Footprint.Centre()
			if d := nearest(c, schools); d > s.MaxDistanceToSchool {
				s.MaxDistanceToSchool = d
			}
			if d := nearest(c, hospitals); d > s.MaxDistanceToHospital {
				s.MaxDistanceToHospital = d
			}
		case city.ZoneCommercial:
			s.MaxCommercialHeight = max(s.MaxCommercialHeight, b.Height)
		case city.ZoneIndustrial:
			s.MaxIndustrialHeight = max(s.MaxIndustrialHeight, b.Height)
		}
	}
	return s
}

// nearest returns the distance from p to the closest point in pts, or
// NoFacility when pts is empty.
func nearest(p geo.Point2D, pts []geo.Point2D) float64 {
	if len(pts) == 0 {
		return NoFacility
	}
	best := math.Inf(1)
	for _, q := range pts {
		best = math.Min(best, p.Distance(q))
	}
	return best
}

// Marshal encodes s as JSON indented with two spaces.
func Marshal(s Summary) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteSummary writes s to path. Write failures match output.ErrUnwritable.
func WriteSummary(path string, s Summary) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return output.WriteFile(path, data)
}
