package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
)

// ReferenceValidator checks that the batches and items tables agree
type ReferenceValidator struct{}

// NewReferenceValidator creates a new reference validator
func NewReferenceValidator() *ReferenceValidator {
	return &ReferenceValidator{}
}

// ValidationResult contains the findings of one validation run. None of them
// stop a render; they are reported as warnings.
type ValidationResult struct {
	OrphanedBatches  []entities.BatchNumber
	DuplicateItemIDs []entities.ItemID
	DuplicateBatches []entities.BatchNumber
	UnusedItems      []entities.ItemID
	Warnings         []string
}

// Clean reports whether no finding was recorded
func (r *ValidationResult) Clean() bool {
	return len(r.Warnings) == 0
}

// Validate cross-checks batches against items. Orphaned batches keep their
// place in the left join with empty item columns.
func (v *ReferenceValidator) Validate(items []*entities.Item, batches []*entities.Batch) *ValidationResult {
	result := &ValidationResult{
		OrphanedBatches:  make([]entities.BatchNumber, 0),
		DuplicateItemIDs: make([]entities.ItemID, 0),
		DuplicateBatches: make([]entities.BatchNumber, 0),
		UnusedItems:      make([]entities.ItemID, 0),
		Warnings:         make([]string, 0),
	}

	known := make(map[entities.ItemID]bool, len(items))
	for _, item := range items {
		if known[item.ID] {
			result.DuplicateItemIDs = append(result.DuplicateItemIDs, item.ID)
			continue
		}
		known[item.ID] = true
	}

	used := make(map[entities.ItemID]bool, len(items))
	seen := make(map[entities.BatchNumber]bool, len(batches))
	for _, batch := range batches {
		if seen[batch.BatchNumber] {
			result.DuplicateBatches = append(result.DuplicateBatches, batch.BatchNumber)
		}
		seen[batch.BatchNumber] = true

		if !known[batch.ItemID] {
			result.OrphanedBatches = append(result.OrphanedBatches, batch.BatchNumber)
			continue
		}
		used[batch.ItemID] = true
	}

	for id := range known {
		if !used[id] {
			result.UnusedItems = append(result.UnusedItems, id)
		}
	}
	sort.Slice(result.UnusedItems, func(i, j int) bool { return result.UnusedItems[i] < result.UnusedItems[j] })

	if len(result.DuplicateItemIDs) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Duplicate item ids found: %v", result.DuplicateItemIDs))
	}
	if len(result.DuplicateBatches) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Duplicate batch numbers found: %v", result.DuplicateBatches))
	}
	if len(result.OrphanedBatches) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Found %d batches without a matching item", len(result.OrphanedBatches)))
	}
	if len(result.UnusedItems) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Found %d items without batches", len(result.UnusedItems)))
	}

	return result
}
