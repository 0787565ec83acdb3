package comparison

import (
	"sort"

	domain "github.com/callsight/callsight/internal/domain/calls"
)

const performerLimit = 5

// TopPerformers: conversion score descending, first n. Stable sort keeps
// store order on ties; a missing score sorts as 0.
func TopPerformers(records []*domain.CallRecord, n int) []*domain.CallRecord {
	return rank(records, n, func(a, b *domain.CallRecord) bool {
		return a.ConversionScore() > b.ConversionScore()
	})
}

// BottomPerformers: conversion score ascending, first n.
func BottomPerformers(records []*domain.CallRecord, n int) []*domain.CallRecord {
	return rank(records, n, func(a, b *domain.CallRecord) bool {
		return a.ConversionScore() < b.ConversionScore()
	})
}

func rank(records []*domain.CallRecord, n int, less func(a, b *domain.CallRecord) bool) []*domain.CallRecord {
	sorted := make([]*domain.CallRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
