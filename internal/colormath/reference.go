package colormath

import "fmt"

// Observer is the standard observer angle of a reference white.
type Observer int

const (
	TwoDeg Observer = iota
	TenDeg
)

// Illuminant is a CIE standard illuminant.
type Illuminant int

const (
	IlluminantA Illuminant = iota
	IlluminantB
	IlluminantC
	IlluminantD50
	IlluminantD55
	IlluminantD65
	IlluminantD75
	IlluminantE
	IlluminantF1
	IlluminantF2
	IlluminantF3
	IlluminantF4
	IlluminantF5
	IlluminantF6
	IlluminantF7
	IlluminantF8
	IlluminantF9
	IlluminantF10
	IlluminantF11
	IlluminantF12

	numIlluminants
)

// references holds the XYZ tristimulus values of each reference white,
// indexed by observer then illuminant.
var references = [2][numIlluminants][3]float64{
	TwoDeg: {
		{109.850, 100.000, 35.585},
		{99.0927, 100.000, 85.313},
		{98.074, 100.000, 118.232},
		{96.422, 100.000, 82.521},
		{95.682, 100.000, 92.149},
		{95.047, 100.000, 108.883},
		{94.972, 100.000, 122.638},
		{100.000, 100.000, 100.000},
		{92.834, 100.000, 103.665},
		{99.187, 100.000, 67.395},
		{103.754, 100.000, 49.861},
		{109.147, 100.000, 38.813},
		{90.872, 100.000, 98.723},
		{97.309, 100.000, 60.191},
		{95.044, 100.000, 108.755},
		{96.413, 100.000, 82.333},
		{100.365, 100.000, 67.868},
		{96.174, 100.000, 81.712},
		{100.966, 100.000, 64.370},
		{108.046, 100.000, 39.228},
	},
	TenDeg: {
		{111.144, 100.000, 35.200},
		{99.178, 100.000, 84.3493},
		{97.285, 100.000, 116.145},
		{96.720, 100.000, 81.427},
		{95.799, 100.000, 90.926},
		{94.811, 100.000, 107.304},
		{94.416, 100.000, 120.641},
		{100.000, 100.000, 100.000},
		{94.791, 100.000, 103.191},
		{103.280, 100.000, 69.026},
		{108.968, 100.000, 51.965},
		{114.961, 100.000, 40.963},
		{93.369, 100.000, 98.636},
		{102.148, 100.000, 62.074},
		{95.792, 100.000, 107.687},
		{97.115, 100.000, 81.135},
		{102.116, 100.000, 67.826},
		{99.001, 100.000, 83.134},
		{103.866, 100.000, 65.627},
		{111.428, 100.000, 40.353},
	},
}

// D65 is the 2° D65 reference white used by CIELabDistance.
var D65 = references[TwoDeg][IlluminantD65]

// Reference returns the XYZ reference white for the observer/illuminant pair.
func Reference(obs Observer, ill Illuminant) ([3]float64, error) {
	if obs < TwoDeg || obs > TenDeg {
		return [3]float64{}, fmt.Errorf("unknown observer %d", obs)
	}
	if ill < IlluminantA || ill >= numIlluminants {
		return [3]float64{}, fmt.Errorf("unknown illuminant %d", ill)
	}
	return references[obs][ill], nil
}
