package partitions

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPartitions_Block(t *testing.T) {
	pb := &PartitionBuilder{NumElements: 10, TargetPartitionSize: 4}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)

	assert.Equal(t, 3, layout.NumPartitions)
	assert.Equal(t, 4, layout.KpartMax)
	assert.Equal(t, []int{0, 1, 2, 3}, layout.Partitions[0].Elements)
	assert.Equal(t, []int{8, 9}, layout.Partitions[2].Elements)
	assert.Equal(t, 2, layout.GetPartition(9))
	assert.Equal(t, -1, layout.GetPartition(10))
}

func TestBuildPartitions_Empty(t *testing.T) {
	layout, err := (&PartitionBuilder{}).BuildPartitions()
	require.NoError(t, err)
	assert.Equal(t, 1, layout.NumPartitions)
	assert.Equal(t, 0, layout.KpartMax)

	_, err = (&PartitionBuilder{NumElements: -1}).BuildPartitions()
	assert.Error(t, err)
}

func TestValidateLayout_Inconsistent(t *testing.T) {
	layout := &PartitionLayout{
		Partitions:    []Partition{{ID: 0, Elements: []int{0, 1}, NumElements: 2, MaxElements: 2}},
		KpartMax:      2,
		TotalElements: 2,
		NumPartitions: 1,
		EToP:          []int{0, 1},
	}
	assert.Error(t, layout.ValidateLayout())
}

func TestForEachAndSum(t *testing.T) {
	layout := NewWorkerLayout(1000, 4)
	assert.Equal(t, 4, layout.NumPartitions)
	total := layout.Sum(func(p Partition) (s float64) {
		for _, k := range p.Elements {
			s += float64(k)
		}
		return
	})
	assert.Equal(t, float64(999*1000/2), total)

	sentinel := errors.New("boom")
	err := layout.ForEach(func(p Partition) error {
		if p.ID == layout.NumPartitions-1 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)

	// with several failures the lowest partition wins
	err = layout.ForEach(func(p Partition) error {
		if p.ID > 0 {
			return fmt.Errorf("partition %d", p.ID)
		}
		return nil
	})
	assert.EqualError(t, err, "partition 1")
}

func TestPartitionedArray(t *testing.T) {
	pb := &PartitionBuilder{NumElements: 5, TargetPartitionSize: 2}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)

	pa := layout.NewPartitionedArray(3)
	assert.Len(t, pa.GlobalData, 15)
	assert.Len(t, pa.GetPartitionData(0), 6)
	assert.Len(t, pa.GetPartitionData(2), 3)
	assert.Nil(t, pa.GetPartitionData(3))
}

func TestAccumulator(t *testing.T) {
	layout := NewWorkerLayout(100, 3)
	acc := layout.NewAccumulator(4)
	assert.Len(t, acc.GlobalData, 12)

	require.NoError(t, layout.ForEach(func(p Partition) error {
		d := acc.GetPartitionData(p.ID)
		for _, k := range p.Elements {
			d[k%4] += 1
		}
		return nil
	}))
	sum := make([]float64, 4)
	acc.Reduce(sum)
	assert.Equal(t, []float64{25, 25, 25, 25}, sum)

	acc.Zero(1)
	acc.Reduce(sum)
	assert.InDelta(t, 100-float64(layout.Partitions[1].NumElements), sum[0]+sum[1]+sum[2]+sum[3], 0)
}
