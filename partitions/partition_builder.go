package partitions

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PartitionBuilder splits a range of items into blocks of consecutive items
type PartitionBuilder struct {
	NumElements         int // Items to distribute
	TargetPartitionSize int // Desired items per partition
}

// NewWorkerLayout partitions n items into one block per worker. A
// non-positive worker count uses one worker per available CPU.
func NewWorkerLayout(n, workers int) *PartitionLayout {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pb := &PartitionBuilder{
		NumElements:         n,
		TargetPartitionSize: int(math.Ceil(float64(n) / float64(workers))),
	}
	layout, err := pb.BuildPartitions()
	if err != nil {
		// A block layout is consistent by construction
		panic(err)
	}
	return layout
}

// BuildPartitions creates a partition layout
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumElements < 0 {
		return nil, fmt.Errorf("negative item count %d", pb.NumElements)
	}
	numPartitions := pb.calculateNumPartitions()
	eToP := pb.partitionElements(numPartitions)
	partitions := pb.createPartitions(eToP, numPartitions)

	kpartMax := 0
	for _, p := range partitions {
		if p.NumElements > kpartMax {
			kpartMax = p.NumElements
		}
	}
	for i := range partitions {
		partitions[i].MaxElements = kpartMax
	}

	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      kpartMax,
		TotalElements: pb.NumElements,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}

	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

// calculateNumPartitions determines the partition count
func (pb *PartitionBuilder) calculateNumPartitions() int {
	size := pb.TargetPartitionSize
	if size < 1 {
		size = 1
	}
	numPartitions := int(math.Ceil(float64(pb.NumElements) / float64(size)))
	if numPartitions < 1 {
		numPartitions = 1
	}
	return numPartitions
}

// partitionElements assigns consecutive items to each partition
func (pb *PartitionBuilder) partitionElements(numPartitions int) []int {
	eToP := make([]int, pb.NumElements)
	elementsPerPartition := int(math.Ceil(float64(pb.NumElements) / float64(numPartitions)))
	for i := 0; i < pb.NumElements; i++ {
		eToP[i] = i / elementsPerPartition
		if eToP[i] >= numPartitions {
			eToP[i] = numPartitions - 1
		}
	}
	return eToP
}

// createPartitions builds partition structures from item assignments
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i] = Partition{
			ID:       i,
			Elements: make([]int, 0),
		}
	}
	for elem, part := range eToP {
		partitions[part].Elements = append(partitions[part].Elements, elem)
		partitions[part].NumElements++
	}
	return partitions
}

// ForEach runs fn once per partition, concurrently. The first error in
// partition order is returned after all workers finish.
func (pl *PartitionLayout) ForEach(fn func(p Partition) error) error {
	var (
		g    errgroup.Group
		errs = make([]error, pl.NumPartitions)
	)
	for i, p := range pl.Partitions {
		g.Go(func() error {
			errs[i] = fn(p)
			return errs[i]
		})
	}
	if g.Wait() == nil {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Sum evaluates fn over every partition concurrently and adds the
// per-partition results in partition order, so the total is deterministic.
func (pl *PartitionLayout) Sum(fn func(p Partition) float64) float64 {
	partial := make([]float64, pl.NumPartitions)
	_ = pl.ForEach(func(p Partition) error {
		partial[p.ID] = fn(p)
		return nil
	})
	var total float64
	for _, v := range partial {
		total += v
	}
	return total
}
