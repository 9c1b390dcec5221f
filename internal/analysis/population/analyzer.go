package population

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/spatial"
	"github.com/citycircuit/transit-backend-go/internal/stats"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

const (
	// localDensityRadiusKm is the circle used for local density around a
	// density point.
	localDensityRadiusKm = 1.0

	// coverageRadiusKm is how far a candidate stop is assumed to serve.
	coverageRadiusKm = 1.0

	// stopSpacingKm is the minimum separation enforced between greedily
	// placed candidate stops.
	stopSpacingKm = 0.5

	// defaultMaxStops is the target number of candidate stop locations.
	defaultMaxStops = 20

	// significantPopulation is the minimum population for a point to count
	// as a coverage gap.
	significantPopulation = 500
)

// Analyzer derives transit planning insights from population density data:
// high-density areas, demographics, candidate stop placement and coverage
// gaps.
type Analyzer struct {
	log logger.Logger
}

func NewAnalyzer(log logger.Logger) *Analyzer {
	return &Analyzer{log: log}
}

// Analyze runs the full population analysis for a dataset.
func (a *Analyzer) Analyze(data models.PopulationDensityData) (models.PopulationAnalysisResult, error) {
	if err := models.ValidatePopulationData(data); err != nil {
		return models.PopulationAnalysisResult{}, fmt.Errorf("analyze population data for %q: %w", data.Region, err)
	}

	a.log.Info("starting population analysis", "region", data.Region, "points", len(data.DensityPoints))

	totalPopulation := data.TotalPopulation()
	area := spatial.BoundsAreaKm2(data.Bounds)
	density := 0.0
	if area > 0 {
		density = float64(totalPopulation) / area
	}

	optimalStops := a.OptimalStopLocations(data, defaultMaxStops)

	result := models.PopulationAnalysisResult{
		Region:               data.Region,
		TotalPopulation:      totalPopulation,
		PopulationDensity:    density,
		HighDensityAreas:     highDensityAreas(data),
		DemographicInsights:  analyzeDemographics(data),
		OptimalStopLocations: optimalStops,
		CoverageGaps:         CoverageGaps(data, optimalStops),
		AnalyzedAt:           time.Now().UTC(),
	}

	a.log.Info("population analysis completed",
		"region", data.Region,
		"high_density_areas", len(result.HighDensityAreas),
		"coverage_gaps", len(result.CoverageGaps))
	return result, nil
}

// highDensityAreas selects points in the top 20% by population (at least
// one) and annotates them with local density and a priority score, sorted
// by priority descending.
func highDensityAreas(data models.PopulationDensityData) []models.HighDensityArea {
	points := data.DensityPoints
	if len(points) == 0 {
		return nil
	}

	populations := make([]int, len(points))
	for i, p := range points {
		populations[i] = p.Population
	}
	sort.Sort(sort.Reverse(sort.IntSlice(populations)))
	thresholdIndex := len(populations) / 5
	if thresholdIndex < 1 {
		thresholdIndex = 1
	}
	threshold := populations[thresholdIndex-1]

	var areas []models.HighDensityArea
	for _, point := range points {
		if point.Population < threshold {
			continue
		}
		local := localDensity(point, points)
		areas = append(areas, models.HighDensityArea{
			Coordinates:        point.Coordinates,
			Population:         point.Population,
			LocalDensity:       local,
			DemographicProfile: summarizeDemographics(point.DemographicData),
			PriorityScore:      priorityScore(point, local),
		})
	}

	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].PriorityScore > areas[j].PriorityScore
	})
	return areas
}

// localDensity is the population of all points within the radius, divided
// by the circle's area
func localDensity(center models.DensityPoint, points []models.DensityPoint) float64 {
	total := 0
	for _, p := range points {
		if spatial.Haversine(center.Coordinates, p.Coordinates) <= localDensityRadiusKm {
			total += p.Population
		}
	}
	return float64(total) / (math.Pi * localDensityRadiusKm * localDensityRadiusKm)
}

// priorityScore weighs population, local density, working-age share and
// income into a 0-100 placement priority.
func priorityScore(point models.DensityPoint, local float64) float64 {
	score := math.Min(50, float64(point.Population)/1000)
	score += math.Min(30, local/1000)

	// working age riders are the most likely transit users
	score += point.DemographicData.AgeGroups["25-64"] * 0.2

	if income, ok := point.DemographicData.EconomicIndicators["income"]; ok {
		if income >= 20000 && income <= 60000 {
			score += 10
		} else if income < 20000 {
			score += 15
		}
	}

	return math.Min(100, score)
}

func summarizeDemographics(d models.DemographicData) models.DemographicProfile {
	profile := models.DemographicProfile{
		AgeGroups:          d.AgeGroups,
		EconomicIndicators: d.EconomicIndicators,
	}
	if group, pct, ok := dominantEntry(d.AgeGroups); ok {
		profile.DominantAgeGroup = group
		profile.DominantAgePercent = pct
	}
	return profile
}

// dominantEntry returns the highest-valued key; ties resolve to the
// alphabetically first key so map iteration order cannot leak into results
func dominantEntry(m map[string]float64) (string, float64, bool) {
	if len(m) == 0 {
		return "", 0, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if m[k] > m[best] {
			best = k
		}
	}
	return best, m[best], true
}

func analyzeDemographics(data models.PopulationDensityData) models.DemographicInsights {
	points := data.DensityPoints
	if len(points) == 0 {
		return models.DemographicInsights{}
	}

	ageTotals := make(map[string]float64)
	economicTotals := make(map[string]float64)
	economicCounts := make(map[string]int)
	for _, point := range points {
		for group, pct := range point.DemographicData.AgeGroups {
			ageTotals[group] += pct
		}
		for indicator, value := range point.DemographicData.EconomicIndicators {
			economicTotals[indicator] += value
			economicCounts[indicator]++
		}
	}

	avgAges := make(map[string]float64, len(ageTotals))
	for group, total := range ageTotals {
		avgAges[group] = total / float64(len(points))
	}
	avgEconomic := make(map[string]float64, len(economicTotals))
	for indicator, total := range economicTotals {
		avgEconomic[indicator] = total / float64(economicCounts[indicator])
	}

	insights := models.DemographicInsights{
		AverageAgeDistribution:    avgAges,
		AverageEconomicIndicators: avgEconomic,
		TotalDataPoints:           len(points),
		DemographicDiversity:      diversityIndex(avgAges),
	}
	if group, pct, ok := dominantEntry(avgAges); ok {
		insights.DominantAgeGroup = group
		insights.DominantAgePercent = pct
	}

	if income, ok := avgEconomic["income"]; ok {
		switch {
		case income < 30000:
			insights.TransportDependency = "high"
			insights.TransportNotes = "Lower income areas typically have higher public transport dependency"
		case income > 80000:
			insights.TransportDependency = "low"
			insights.TransportNotes = "Higher income areas may prefer private transport"
		default:
			insights.TransportDependency = "moderate"
			insights.TransportNotes = "Mixed transport preferences expected"
		}
	}

	return insights
}

// diversityIndex is the normalized Shannon entropy over age-group shares
func diversityIndex(ageGroups map[string]float64) float64 {
	if len(ageGroups) == 0 {
		return 0
	}
	keys := make([]string, 0, len(ageGroups))
	for k := range ageGroups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]float64, 0, len(keys))
	for _, k := range keys {
		values = append(values, ageGroups[k])
	}
	return stats.NormalizedEntropy(values)
}

// OptimalStopLocations proposes candidate stop coordinates. With at most
// maxStops points every positive-population point is used directly;
// otherwise the highest-scoring remaining point is picked greedily and all
// points within 500 m of it removed, until the target count is reached.
// Score ties keep the earlier input point.
func (a *Analyzer) OptimalStopLocations(data models.PopulationDensityData, maxStops int) []models.Coordinates {
	points := data.DensityPoints
	if len(points) == 0 {
		return nil
	}

	if len(points) <= maxStops {
		var locations []models.Coordinates
		for _, p := range points {
			if p.Population > 0 {
				locations = append(locations, p.Coordinates)
			}
		}
		return locations
	}

	var locations []models.Coordinates
	remaining := make([]models.DensityPoint, len(points))
	copy(remaining, points)

	for len(locations) < maxStops && len(remaining) > 0 {
		bestIdx := 0
		bestScore := stopScore(remaining[0], remaining)
		for i := 1; i < len(remaining); i++ {
			if score := stopScore(remaining[i], remaining); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		best := remaining[bestIdx]
		locations = append(locations, best.Coordinates)

		filtered := remaining[:0]
		for _, p := range remaining {
			if spatial.Haversine(p.Coordinates, best.Coordinates) > stopSpacingKm {
				filtered = append(filtered, p)
			}
		}
		remaining = filtered
	}

	return locations
}

// stopScore is the point's own population plus linearly decaying
// contributions from other points within 1 km
func stopScore(point models.DensityPoint, all []models.DensityPoint) float64 {
	score := float64(point.Population)
	for _, other := range all {
		if other.Coordinates == point.Coordinates {
			continue
		}
		distance := spatial.Haversine(point.Coordinates, other.Coordinates)
		if distance <= 1.0 {
			score += float64(other.Population) * math.Max(0, 1.0-distance)
		}
	}
	return score
}

// CoverageGaps finds density points with significant population that no
// candidate stop serves, sorted by population descending.
func CoverageGaps(data models.PopulationDensityData, candidateStops []models.Coordinates) []models.CoverageGap {
	if len(data.DensityPoints) == 0 || len(candidateStops) == 0 {
		return nil
	}

	var gaps []models.CoverageGap
	for _, point := range data.DensityPoints {
		covered := false
		minDistance := math.Inf(1)
		for _, stop := range candidateStops {
			distance := spatial.Haversine(point.Coordinates, stop)
			if distance < minDistance {
				minDistance = distance
			}
			if distance <= coverageRadiusKm {
				covered = true
				break
			}
		}

		if covered || point.Population <= significantPopulation {
			continue
		}

		severity := models.SeverityMedium
		if point.Population > 2000 {
			severity = models.SeverityHigh
		}
		gaps = append(gaps, models.CoverageGap{
			Coordinates:           point.Coordinates,
			Population:            point.Population,
			DistanceToNearestStop: minDistance,
			Severity:              severity,
			DemographicProfile:    summarizeDemographics(point.DemographicData),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Population > gaps[j].Population
	})
	return gaps
}

// RouteRecommendations derives new-route and new-stop suggestions from an
// analysis result: pairs of top high-density areas 2-15 km apart, plus the
// three worst coverage gaps, ordered by priority then population impact,
// at most ten.
func (a *Analyzer) RouteRecommendations(result models.PopulationAnalysisResult) []models.RouteRecommendation {
	var recommendations []models.RouteRecommendation

	if len(result.HighDensityAreas) >= 2 {
		topAreas := result.HighDensityAreas
		if len(topAreas) > 5 {
			topAreas = topAreas[:5]
		}
		for i := 0; i < len(topAreas)-1; i++ {
			for j := i + 1; j < len(topAreas); j++ {
				origin, destination := topAreas[i], topAreas[j]
				distance := spatial.Haversine(origin.Coordinates, destination.Coordinates)
				if distance < 2.0 || distance > 15.0 {
					continue
				}
				combined := origin.Population + destination.Population
				originCoords, destCoords := origin.Coordinates, destination.Coordinates
				recommendations = append(recommendations, models.RouteRecommendation{
					Type:               "new_route",
					Priority:           models.SeverityHigh,
					Origin:             &originCoords,
					Destination:        &destCoords,
					DistanceKm:         math.Round(distance*100) / 100,
					CombinedPopulation: combined,
					Description:        fmt.Sprintf("Connect high-density areas with %d total population", combined),
				})
			}
		}
	}

	gaps := result.CoverageGaps
	if len(gaps) > 3 {
		gaps = gaps[:3]
	}
	for _, gap := range gaps {
		location := gap.Coordinates
		recommendations = append(recommendations, models.RouteRecommendation{
			Type:             "new_stop",
			Priority:         gap.Severity,
			Location:         &location,
			PopulationServed: gap.Population,
			Description:      fmt.Sprintf("Add stop to serve %d people in underserved area", gap.Population),
		})
	}

	priorityRank := map[string]int{"high": 3, "medium": 2, "low": 1}
	sort.SliceStable(recommendations, func(i, j int) bool {
		ri, rj := priorityRank[recommendations[i].Priority], priorityRank[recommendations[j].Priority]
		if ri != rj {
			return ri > rj
		}
		return impact(recommendations[i]) > impact(recommendations[j])
	})

	if len(recommendations) > 10 {
		recommendations = recommendations[:10]
	}
	return recommendations
}

func impact(r models.RouteRecommendation) int {
	if r.CombinedPopulation > 0 {
		return r.CombinedPopulation
	}
	return r.PopulationServed
}
