// Package decision turns validation results and retrieved evidence into an
// explainable claim decision.
//
// Four independent factors are scored in [0,1]: validation compliance,
// evidence support, entity completeness, and risk. Their mean, adjusted by
// an outcome modifier, becomes the confidence score. The engine is the
// terminal error boundary of the query path: any internal fault degrades
// to a safe rejection with zero confidence rather than propagating.
package decision
