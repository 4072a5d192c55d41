package converter

// CallSampleTypes describes the call profile's sample types for the
// ingest server.
var CallSampleTypes = map[string]map[string]interface{}{
	"cumulative": {
		"units":        "nanoseconds",
		"display-name": "cumulative-time",
		"aggregation":  "sum",
		"cumulative":   true,
		"sampled":      false,
	},
	"resident": {
		"units":        "nanoseconds",
		"display-name": "resident-time",
		"aggregation":  "sum",
		"cumulative":   false,
		"sampled":      false,
	},
	"calls": {
		"units":        "count",
		"display-name": "call-count",
		"aggregation":  "sum",
		"cumulative":   false,
		"sampled":      false,
	},
}

// CoverageSampleTypes describes the coverage profile's sample types for
// the ingest server.
var CoverageSampleTypes = map[string]map[string]interface{}{
	"executions": {
		"units":        "count",
		"display-name": "line-executions",
		"aggregation":  "sum",
		"cumulative":   false,
		"sampled":      false,
	},
}
