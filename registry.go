package neuralnet

import (
	"sort"

	"github.com/pkg/errors"
)

// TermConfig gives a registered PerformanceTerm what it may need to be built. Terms take only
// the fields that they use.
type TermConfig struct {
	Network *Network
	Dataset Dataset
	Model   MathematicalModel
}

// TermFactory builds a PerformanceTerm from its configuration, with default settings.
type TermFactory func(TermConfig) (PerformanceTerm, error)

// AlgorithmFactory builds a TrainingAlgorithm over a PerformanceFunctional, with default
// settings.
type AlgorithmFactory func(*PerformanceFunctional) TrainingAlgorithm

var (
	termTypes      = make(map[string]TermFactory)
	algorithmTypes = make(map[string]AlgorithmFactory)
	hpTypes        = make(map[string]func() HyperParameter)
	initTypes      = make(map[string]func() Initializer)
)

// RegisterTerm makes a PerformanceTerm available by name to NewTerm. It is typically called in
// the init() of the package implementing the term.
func RegisterTerm(name string, f TermFactory) error {
	if f == nil {
		return errors.Wrapf(ErrNilFactory, "Can't register term %q\n", name)
	} else if _, ok := termTypes[name]; ok {
		return errors.Wrapf(ErrDuplicateType, "Can't register term %q\n", name)
	}

	termTypes[name] = f
	return nil
}

// NewTerm builds the PerformanceTerm registered under name.
func NewTerm(name string, c TermConfig) (PerformanceTerm, error) {
	f, ok := termTypes[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "Can't make term %q\n", name)
	}

	t, err := f(c)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to make term %q\n", name)
	}

	return t, nil
}

// TermTypes returns the names of every registered PerformanceTerm, sorted.
func TermTypes() []string {
	names := make([]string, 0, len(termTypes))
	for s := range termTypes {
		names = append(names, s)
	}

	sort.Strings(names)
	return names
}

// RegisterAlgorithm makes a TrainingAlgorithm available by name to NewAlgorithm.
func RegisterAlgorithm(name string, f AlgorithmFactory) error {
	if f == nil {
		return errors.Wrapf(ErrNilFactory, "Can't register algorithm %q\n", name)
	} else if _, ok := algorithmTypes[name]; ok {
		return errors.Wrapf(ErrDuplicateType, "Can't register algorithm %q\n", name)
	}

	algorithmTypes[name] = f
	return nil
}

// NewAlgorithm builds the TrainingAlgorithm registered under name, over f.
func NewAlgorithm(name string, f *PerformanceFunctional) (TrainingAlgorithm, error) {
	fac, ok := algorithmTypes[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "Can't make algorithm %q\n", name)
	} else if f == nil {
		return nil, errors.WithStack(NilArgError{"PerformanceFunctional"})
	}

	return fac(f), nil
}

// AlgorithmTypes returns the names of every registered TrainingAlgorithm, sorted.
func AlgorithmTypes() []string {
	names := make([]string, 0, len(algorithmTypes))
	for s := range algorithmTypes {
		names = append(names, s)
	}

	sort.Strings(names)
	return names
}

// RegisterHyperParameter makes a HyperParameter available by name to NewHyperParameter. f
// should return the HyperParameter with its default values.
func RegisterHyperParameter(name string, f func() HyperParameter) error {
	if f == nil {
		return errors.Wrapf(ErrNilFactory, "Can't register hyperparameter %q\n", name)
	} else if _, ok := hpTypes[name]; ok {
		return errors.Wrapf(ErrDuplicateType, "Can't register hyperparameter %q\n", name)
	}

	hpTypes[name] = f
	return nil
}

// NewHyperParameter returns the default HyperParameter registered under name.
func NewHyperParameter(name string) (HyperParameter, error) {
	f, ok := hpTypes[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "Can't make hyperparameter %q\n", name)
	}

	return f(), nil
}

// HyperParameterTypes returns the names of every registered HyperParameter, sorted.
func HyperParameterTypes() []string {
	names := make([]string, 0, len(hpTypes))
	for s := range hpTypes {
		names = append(names, s)
	}

	sort.Strings(names)
	return names
}

// RegisterInitializer makes an Initializer available by name to NewInitializer.
func RegisterInitializer(name string, f func() Initializer) error {
	if f == nil {
		return errors.Wrapf(ErrNilFactory, "Can't register initializer %q\n", name)
	} else if _, ok := initTypes[name]; ok {
		return errors.Wrapf(ErrDuplicateType, "Can't register initializer %q\n", name)
	}

	initTypes[name] = f
	return nil
}

// NewInitializer returns the Initializer registered under name, with its default settings.
func NewInitializer(name string) (Initializer, error) {
	f, ok := initTypes[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "Can't make initializer %q\n", name)
	}

	return f(), nil
}

// InitializerTypes returns the names of every registered Initializer, sorted.
func InitializerTypes() []string {
	names := make([]string, 0, len(initTypes))
	for s := range initTypes {
		names = append(names, s)
	}

	sort.Strings(names)
	return names
}
