package faultmodel

// The two tables below are compiled into the binary. The configuration
// database holds one record per tabulated router configuration: buffers per
// VC, total VCs per input port, and one percentage per fault type. The
// temperature database holds (temperature, weight) pairs. Both are
// terminated by a negative sentinel.

var configurationDB = []float64{
	1, 8, 0.49, 0.12, 0.38, 0.31, 0.26, 0.29, 0.24, 0.52, 0.44, 0.18,
	1, 16, 0.59, 0.14, 0.45, 0.37, 0.31, 0.34, 0.28, 0.63, 0.52, 0.22,
	1, 20, 0.64, 0.16, 0.49, 0.40, 0.33, 0.37, 0.31, 0.68, 0.57, 0.24,
	1, 24, 0.69, 0.17, 0.53, 0.43, 0.36, 0.40, 0.33, 0.73, 0.61, 0.25,
	1, 32, 0.78, 0.19, 0.60, 0.49, 0.41, 0.46, 0.38, 0.83, 0.70, 0.29,
	1, 40, 0.88, 0.21, 0.68, 0.56, 0.46, 0.51, 0.42, 0.94, 0.78, 0.32,
	2, 8, 0.67, 0.16, 0.52, 0.42, 0.35, 0.39, 0.32, 0.71, 0.60, 0.25,
	2, 16, 0.80, 0.20, 0.62, 0.51, 0.42, 0.47, 0.39, 0.85, 0.71, 0.30,
	2, 20, 0.87, 0.21, 0.67, 0.55, 0.46, 0.51, 0.42, 0.92, 0.77, 0.32,
	2, 24, 0.94, 0.23, 0.72, 0.59, 0.49, 0.54, 0.45, 0.99, 0.83, 0.35,
	2, 32, 1.07, 0.26, 0.82, 0.67, 0.56, 0.62, 0.51, 1.13, 0.95, 0.39,
	2, 40, 1.20, 0.29, 0.92, 0.76, 0.63, 0.70, 0.58, 1.27, 1.06, 0.44,
	4, 8, 0.90, 0.22, 0.69, 0.57, 0.47, 0.52, 0.43, 0.95, 0.80, 0.33,
	4, 16, 1.07, 0.26, 0.82, 0.68, 0.56, 0.62, 0.52, 1.14, 0.95, 0.40,
	4, 20, 1.16, 0.28, 0.89, 0.73, 0.61, 0.67, 0.56, 1.23, 1.03, 0.43,
	4, 24, 1.25, 0.30, 0.96, 0.79, 0.66, 0.73, 0.60, 1.33, 1.11, 0.46,
	4, 32, 1.42, 0.35, 1.09, 0.90, 0.75, 0.83, 0.69, 1.51, 1.26, 0.53,
	4, 40, 1.60, 0.39, 1.23, 1.01, 0.84, 0.93, 0.77, 1.70, 1.42, 0.59,
	5, 40, 1.76, 0.43, 1.35, 1.11, 0.92, 1.02, 0.85, 1.87, 1.56, 0.65,
	-1,
}

var temperatureWeightsDB = []int{
	40, 1, 41, 1, 42, 1, 43, 1, 44, 1, 45, 1,
	46, 1, 47, 1, 48, 1, 49, 1, 50, 1, 51, 1,
	52, 1, 53, 1, 54, 1, 55, 1, 56, 1, 57, 1,
	58, 1, 59, 1, 60, 1, 61, 1, 62, 1, 63, 1,
	64, 1, 65, 1, 66, 1, 67, 1, 68, 1, 69, 1,
	70, 1, 71, 1, 72, 1, 73, 1, 74, 1, 75, 1,
	76, 1, 77, 1, 78, 1, 79, 1, 80, 2, 81, 2,
	82, 2, 83, 2, 84, 2, 85, 2, 86, 2, 87, 2,
	88, 2, 89, 2, 90, 2, 91, 2, 92, 2, 93, 2,
	94, 2, 95, 3, 96, 3, 97, 3, 98, 3, 99, 3,
	100, 3, 101, 3, 102, 3, 103, 3, 104, 3, 105, 4,
	106, 4, 107, 4, 108, 4, 109, 4, 110, 4,
	-1,
}
