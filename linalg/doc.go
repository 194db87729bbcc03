// Package linalg provides the dense-matrix primitives embed builds its
// numeric routines on: the Matrix interface, a row-major Dense
// implementation, and the all-pairs-shortest-path (Floyd–Warshall) kernel
// used as ground truth for compact routing-table stretch tests. Eigen
// decomposition (Jacobi) lives in the linalg/ops subpackage and powers
// embed's classical-MDS landmark placement.
//
// Matrices are best for dense or small inputs where O(n²) memory and
// O(n³) algorithmic cost (eigen decomposition, APSP) are acceptable — both
// embed's landmark set and a node's local neighborhood bunch are small by
// construction (spec §4.2, §4.7).
package linalg
