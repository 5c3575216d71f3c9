package partitions

import (
	"fmt"
)

// Partition represents a collection of items (mesh cells, degrees of
// freedom, grid rows) that are processed together by one worker
type Partition struct {
	// Unique identifier for this partition
	ID int

	// Item membership
	Elements    []int // Global item indices in this partition
	NumElements int   // Actual number of active items
	MaxElements int   // Size of the largest partition in the layout
}

// PartitionLayout manages the complete decomposition
type PartitionLayout struct {
	// All partitions
	Partitions []Partition

	// Global sizing information
	KpartMax      int // max(NumElements) across all partitions
	TotalElements int // Sum of all actual items across partitions
	NumPartitions int // Total number of partitions

	// Item to partition mapping
	EToP []int // Length TotalElements: item k belongs to partition EToP[k]
}

// PartitionedArray holds one contiguous block of values per partition
type PartitionedArray struct {
	// Layout: [Partition 0 Data][Partition 1 Data]...[Partition N-1 Data]
	GlobalData []float64

	// Partition p's data is GlobalData[Offsets[p]:Offsets[p+1]]
	Offsets []int

	// Number of values per item, zero for accumulators
	Stride int
}

// GetPartition returns the partition containing item k
func (pl *PartitionLayout) GetPartition(elementID int) int {
	if elementID < 0 || elementID >= len(pl.EToP) {
		return -1
	}
	return pl.EToP[elementID]
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	actualMax, total := 0, 0
	for _, p := range pl.Partitions {
		if p.NumElements > actualMax {
			actualMax = p.NumElements
		}
		if p.MaxElements != pl.KpartMax {
			return fmt.Errorf("partition %d: MaxElements %d != KpartMax %d",
				p.ID, p.MaxElements, pl.KpartMax)
		}
		for _, k := range p.Elements {
			if pl.GetPartition(k) != p.ID {
				return fmt.Errorf("partition %d: item %d mapped to partition %d",
					p.ID, k, pl.GetPartition(k))
			}
		}
		total += p.NumElements
	}
	if actualMax != pl.KpartMax {
		return fmt.Errorf("computed KpartMax %d != stored KpartMax %d",
			actualMax, pl.KpartMax)
	}
	if total != pl.TotalElements {
		return fmt.Errorf("partitions hold %d items, expected %d", total, pl.TotalElements)
	}
	return nil
}

// NewPartitionedArray allocates stride values per item of every partition
func (pl *PartitionLayout) NewPartitionedArray(stride int) *PartitionedArray {
	pa := &PartitionedArray{
		Offsets: make([]int, pl.NumPartitions+1),
		Stride:  stride,
	}
	for i, p := range pl.Partitions {
		pa.Offsets[i+1] = pa.Offsets[i] + p.NumElements*stride
	}
	pa.GlobalData = make([]float64, pa.Offsets[pl.NumPartitions])
	return pa
}

// GetPartitionData returns a slice for partition p's data
func (pa *PartitionedArray) GetPartitionData(partitionID int) []float64 {
	if partitionID < 0 || partitionID >= len(pa.Offsets)-1 {
		return nil
	}
	start := pa.Offsets[partitionID]
	end := pa.Offsets[partitionID+1]
	return pa.GlobalData[start:end]
}

// NewAccumulator allocates width values for every partition. Workers add
// into their own block and Reduce combines the blocks.
func (pl *PartitionLayout) NewAccumulator(width int) *PartitionedArray {
	pa := &PartitionedArray{Offsets: make([]int, pl.NumPartitions+1)}
	for i := range pl.Partitions {
		pa.Offsets[i+1] = pa.Offsets[i] + width
	}
	pa.GlobalData = make([]float64, pa.Offsets[pl.NumPartitions])
	return pa
}

// Zero clears partition p's data
func (pa *PartitionedArray) Zero(partitionID int) {
	d := pa.GetPartitionData(partitionID)
	for i := range d {
		d[i] = 0
	}
}

// Reduce sets dst to the sum of the partition blocks, added in partition
// order so the result does not depend on scheduling. Every block must have
// len(dst) values.
func (pa *PartitionedArray) Reduce(dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	for p := 0; p < len(pa.Offsets)-1; p++ {
		for i, v := range pa.GetPartitionData(p) {
			dst[i] += v
		}
	}
}
