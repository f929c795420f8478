// Package metrics provides constants used across metric definitions.
package metrics

import "strings"

// Operation type constants accepted by EstimatorMetrics.
const (
	// OpTrain represents a full training run: dataset generation plus fitting.
	OpTrain = "train"
	// OpPredict represents a yield prediction. Use "predict:<crop>" to label by crop.
	OpPredict = "predict"
	// OpValidate represents input validation.
	OpValidate = "validate"
	// OpCacheGet represents a prediction cache lookup.
	OpCacheGet = "cache_get"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusHit     = "hit"
	StatusMiss    = "miss"
)

// LabelAll is used when an operation carries no crop.
const LabelAll = "all"

// opSeparator splits an operation from its crop label
const opSeparator = ":"

// PredictOp returns the predict operation labelled with crop.
func PredictOp(crop string) string {
	return OpPredict + opSeparator + crop
}

// parseCropFromOperation splits "predict:Rice" into ("predict", "Rice").
// Operations without a crop get LabelAll.
func parseCropFromOperation(operation string) (op, crop string) {
	op, crop, found := strings.Cut(operation, opSeparator)
	if !found || crop == "" {
		return op, LabelAll
	}
	return op, crop
}
