package dynamics

import "math"

// The optical gain cell is modeled with measured lookup tables rather
// than closed-form curves. Exponential tables are indexed by the
// binary exponent of the input (one entry per octave-ish step), linear
// tables by a plain [0,1] fraction. Table numbering follows the order
// the values feed the gain computation.

// ratio to feedback depth
var opticalTable3 = []float64{
	0.999999, 0.99, 0.5626293, 0.2993541, 0.1536661, 0.07558671,
	0.036547, 0.01702715,
	0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01,
	0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01,
}

// feedback depth to sidechain blend
var opticalTable4 = []float64{
	0.0, 0.03416149, 0.07852706, 0.1228926, 0.1672582, 0.2116238,
	0.2559893, 0.3003549, 0.3447205, 0.3890861, 0.4334517, 0.4778172,
	0.5221828, 0.5665483, 0.6109139, 0.6552795, 0.6996451, 0.7440106,
	0.7883762, 0.8327418, 0.8771074, 0.921473, 0.9658385, 0.999999,
}

// feedback level to cell response
var opticalTable5 = []float64{
	0.01, 1.0, 0.9947661, 0.9844928, 0.9651101, 0.9302186,
	0.8630559, 0.755419, 0.6082814, 0.4397123, 0.2796561, 0.162245,
	0.08780019, 0.04508, 0.02209106, 0.01019185, 0.004130001,
	0.001069335, 0.00001, 0.00001, 0.00001, 0.00001, 0.00001,
	0.00001, 0.00001,
}

// cell response to multiplier fraction
var opticalTable6 = []float64{
	0.0, 0.0434687, 0.08694739, 0.1304261, 0.1739048, 0.2173835,
	0.2608622, 0.3043409, 0.3478196, 0.3912983, 0.434777, 0.4782557,
	0.5217344, 0.565213, 0.6086918, 0.6521704, 0.6956491, 0.7391278,
	0.7826065, 0.8260852, 0.8695639, 0.9130426, 0.9565213, 0.999999,
}

// manual attack setting to envelope step
var opticalTable8 = []float64{
	0.002257127, 0.002257127, 0.002257127, 0.002257127, 0.002257127,
	0.002257127, 0.002257127, 0.002257127, 0.002257127, 0.002257127,
	0.002257127,
	0.000807641, 0.0002590034, 0.0001466583, 0.000105361,
	0.00008688696, 0.00007712693, 0.00007082194, 0.00006535164,
	0.00005942077, 0.00005248035, 0.00004474115, 0.00003699339,
	0.00002985739, 0.0000237745, 0.00001915936, 0.00001565825,
	0.00001302099, 0.00001102717, 0.000009554097, 0.000008418394,
	0.000007519858, 0.000006788958, 0.000006188009, 0.000005677829,
	0.000005232528, 0.000004838532, 0.000004491788, 0.000004193505,
	0.000003938723, 0.000003725471, 0.000003552736, 0.00000342182,
	0.000003326748, 0.00000326755, 0.00000324566,
}

// manual release setting to envelope droop
var opticalTable9 = []float64{
	0.00004848326, 0.00004848326, 0.00004848326, 0.00004188835,
	0.00002785662, 0.00001560057, 0.00001201397, 0.000008427365,
	0.000005328864, 0.000004453937, 0.000003579009, 0.000002704082,
	0.000002101815, 0.000001772209, 0.000001442603, 0.000001112997,
	8.481028e-7, 6.281776e-7, 4.082524e-7, 2.060375e-7, 1.126142e-7,
	1.919095e-8, 3.280834e-10, -4.3328e-9,
}

// ratio to output makeup
var opticalTable10 = []float64{
	0.8766871, 0.8766871, 0.9343757, 0.966794, 0.9838194, 0.9926132,
	0.9970101, 0.9992085,
	1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0,
	1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0,
}

// detector transfer, signed input (center index 23)
var opticalTable12 = []float64{
	0.000002987261, 0.000005974523, 0.00001194905, 0.00002389809,
	0.00004779618, 0.00009559237, 0.0001911847, 0.0003823695,
	0.0007647389, 0.001529478, 0.003058956, 0.006117912, 0.01223582,
	0.02447165, 0.04894329, 0.09788658, 0.1957732, 0.3915463,
	0.7830927, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0,
	0.7810927, 0.3895463, 0.1937732, 0.09588659, 0.04694329,
	0.02247165, 0.01023582, 0.004117912, 0.001058956,
	0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0,
}

// detector level to gain cell drive
var opticalTable13 = func() []float64 {
	t := []float64{
		0.0, 0.002895139, 0.01001967, 0.01859283, 0.0278201,
		0.03739988, 0.04719125, 0.05711957, 0.06714159, 0.07723056,
		0.087369, 0.09754504, 0.1077503, 0.1179788, 0.1282261,
		0.1384886, 0.1487638, 0.1590496, 0.1693444, 0.1796468,
		0.1899559, 0.2002707, 0.2105905, 0.2209146, 0.2312426,
		0.2415741, 0.2519086, 0.2622458, 0.2725855, 0.2829274,
		0.2932713, 0.303617, 0.3139643, 0.3243132, 0.3346635,
		0.345015, 0.3553677, 0.3657215, 0.3760763, 0.3864319,
		0.3967885, 0.4071458, 0.4175039, 0.4278626, 0.4382221,
		0.4485821, 0.4589426, 0.4693037, 0.4796653, 0.4900274,
		0.5003899, 0.5107529, 0.5211161, 0.5314798, 0.5418439,
		0.5522082, 0.562573, 0.5729379, 0.5833032, 0.5936688,
		0.6040345, 0.6144006, 0.6247668, 0.6351333, 0.6455,
		0.6558669, 0.666234, 0.6766013, 0.6869688, 0.6973364,
		0.7077042, 0.7180721, 0.7284402, 0.7388085, 0.7491769,
		0.7595453, 0.769914, 0.7802827, 0.7906516, 0.8010206,
		0.8113897, 0.8217589, 0.8321282, 0.8424976, 0.8528671,
		0.8632367, 0.8736063, 0.883976, 0.8943459, 0.9047158,
		0.9150858, 0.9254559, 0.935826, 0.9461962, 0.9565665,
		0.9669368, 0.9773072, 0.9876777, 0.9980482,
	}
	for len(t) < 252 {
		t = append(t, 1.0)
	}
	return t
}()

const tableClampLimit = 0.99999988

func tableClamp(x float64) float64 {
	if x > tableClampLimit {
		return tableClampLimit
	}
	if x < -tableClampLimit {
		return -tableClampLimit
	}
	return x
}

// interpolateLin reads a linear table with x in [0, 1].
func interpolateLin(x float64, table []float64) float64 {
	x = tableClamp(x)
	if x < 0 {
		x = 0
	}

	n := len(table)
	x *= float64(n - 1)
	i := int(math.Floor(x))
	if i >= n-1 {
		return table[n-1]
	}

	f := x - float64(i)
	return table[i]*(1-f) + table[i+1]*f
}

// frexpTable splits x into mantissa and exponent the way the table
// format expects: mantissa in [0.5, 1) with a ceil-based exponent so
// exact powers of two land on the lower entry.
func frexpTable(x float64) (mant float64, exp int) {
	sign := 1.0
	if x < 0 {
		x = -x
		sign = -1
	}

	exp = int(math.Ceil(math.Log(x) / math.Ln2))
	mant = x / math.Pow(2, float64(exp))
	if mant == 1 {
		mant = 0.5
		exp++
	}

	return sign * mant, exp
}

// interpolateExp reads an exponent-indexed table: each table entry
// covers one halving of the input, with the mantissa interpolating
// between adjacent entries. Signed tables carry their negative half
// below the center index.
func interpolateExp(x float64, table []float64, signed bool) float64 {
	base := 0
	if signed {
		base = 23
	}

	x = tableClamp(x)
	if x*1000000 == 0 {
		return table[base+23]
	}

	mant, exp := frexpTable(x)

	index := 1 - exp
	if index < 0 {
		index = 0
	}

	var frac float64
	if index > 22 {
		frac = mant * math.Pow(2, float64(22+exp))
		index = 23
	} else {
		if mant <= 0 {
			frac = (mant + 0.5) * 2
		} else {
			frac = (mant - 0.5) * 2
		}
	}

	if x < 0 && signed {
		index = -index
		frac++
	}

	return frac*(table[base+index]-table[base+index+1]) + table[base+index+1]
}
