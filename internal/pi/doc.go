// Package pi estimates π by Monte-Carlo sampling on a worker pool.
//
// Each task draws uniform points in the unit square and counts those inside the
// quarter circle; the counts are summed once every task has finished.
package pi
