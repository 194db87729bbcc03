// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults shared by Dense and its algorithms.
package linalg

// DefaultValidateNaNInf toggles strict finite-value validation on ingestion
// and Set. NewDense starts every matrix with this policy; callers needing a
// relaxed policy (e.g. to Set +Inf as a "no path" sentinel before running
// FloydWarshall) use newDenseWithPolicy directly.
const DefaultValidateNaNInf = true
