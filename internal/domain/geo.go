package domain

import "math"

// EarthRadiusMiles is the mean Earth radius used for segment distances.
const EarthRadiusMiles = 3958.7613

// HaversineMiles returns the great-circle distance in statute miles between two
// points given in decimal degrees.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// Float error can push a past 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))

	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
