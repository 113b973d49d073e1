package neuralnet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Dataset provides the instances that data driven performance terms are evaluated over. The
// training partition is used for evaluation and derivatives, and the validation partition,
// which may be empty, for generalization.
type Dataset interface {
	InputCount() int
	TargetCount() int

	TrainingCount() int
	TrainingInput(i int) []float64
	TrainingTarget(i int) []float64

	ValidationCount() int
	ValidationInput(i int) []float64
	ValidationTarget(i int) []float64
}

// MemoryDataset is a Dataset held entirely in memory.
type MemoryDataset struct {
	inputs, targets int

	training   [][][]float64
	validation [][][]float64
}

// NewDataset returns a MemoryDataset from training and validation instances, each formatted
// as [instance][0: inputs, 1: targets][values]. Every instance must have the same number of
// inputs and of targets, and there must be at least one training instance.
func NewDataset(training, validation [][][]float64) (*MemoryDataset, error) {
	if len(training) == 0 {
		return nil, ConfigErrorf("Can't make dataset, no training instances")
	} else if len(training[0]) != 2 {
		return nil, ConfigErrorf("Can't make dataset, training instance 0 has %d parts, expected 2", len(training[0]))
	}

	d := &MemoryDataset{
		inputs:  len(training[0][0]),
		targets: len(training[0][1]),
	}

	check := func(part string, set [][][]float64) error {
		for i, inst := range set {
			if len(inst) != 2 {
				return ConfigErrorf("Can't make dataset, %s instance %d has %d parts, expected 2", part, i, len(inst))
			} else if len(inst[0]) != d.inputs {
				return errors.Wrapf(SizeMismatchError{d.inputs, len(inst[0]), "inputs"}, "Bad %s instance %d\n", part, i)
			} else if len(inst[1]) != d.targets {
				return errors.Wrapf(SizeMismatchError{d.targets, len(inst[1]), "targets"}, "Bad %s instance %d\n", part, i)
			}
		}

		return nil
	}

	if err := check("training", training); err != nil {
		return nil, err
	} else if err = check("validation", validation); err != nil {
		return nil, err
	}

	d.training = copyInstances(training)
	d.validation = copyInstances(validation)
	return d, nil
}

func copyInstances(set [][][]float64) [][][]float64 {
	c := make([][][]float64, len(set))
	for i, inst := range set {
		c[i] = [][]float64{
			append([]float64(nil), inst[0]...),
			append([]float64(nil), inst[1]...),
		}
	}

	return c
}

func (d *MemoryDataset) InputCount() int  { return d.inputs }
func (d *MemoryDataset) TargetCount() int { return d.targets }

func (d *MemoryDataset) TrainingCount() int              { return len(d.training) }
func (d *MemoryDataset) TrainingInput(i int) []float64  { return d.training[i][0] }
func (d *MemoryDataset) TrainingTarget(i int) []float64 { return d.training[i][1] }

func (d *MemoryDataset) ValidationCount() int              { return len(d.validation) }
func (d *MemoryDataset) ValidationInput(i int) []float64  { return d.validation[i][0] }
func (d *MemoryDataset) ValidationTarget(i int) []float64 { return d.validation[i][1] }

// statistics returns the statistics of each column produced by get over the training partition
func statistics(n, width int, get func(int) []float64) []Statistics {
	stats := make([]Statistics, width)
	if n == 0 {
		return stats
	}

	col := make([]float64, n)
	for j := range stats {
		for i := range col {
			col[i] = get(i)[j]
		}

		st := Statistics{
			Minimum: floats.Min(col),
			Maximum: floats.Max(col),
		}

		if n < 2 {
			st.Mean = col[0]
		} else {
			st.Mean, st.StandardDeviation = stat.MeanStdDev(col, nil)
		}

		stats[j] = st
	}

	return stats
}

// InputStatistics returns the statistics of every input variable over the training partition,
// for use with a scaling layer.
func InputStatistics(d Dataset) []Statistics {
	return statistics(d.TrainingCount(), d.InputCount(), d.TrainingInput)
}

// TargetStatistics returns the statistics of every target variable over the training
// partition, for use with an unscaling layer.
func TargetStatistics(d Dataset) []Statistics {
	return statistics(d.TrainingCount(), d.TargetCount(), d.TrainingTarget)
}
