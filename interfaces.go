package neuralnet

import (
	"gonum.org/v1/gonum/mat"
)

// PerformanceTerm is one addend of a PerformanceFunctional: an objective, a regularization or a
// constraints term. Terms borrow the Network (and the Dataset or MathematicalModel) that they
// are given; they never own them.
//
// Implementations can be found in the subpackages "costfuncs", "penalties" and "constraints".
type PerformanceTerm interface {
	// TypeString gives the name that the term is registered under
	TypeString() string

	// Check returns a ConfigError if the term cannot be evaluated with what it has been given,
	// before any numeric work is done. Every other method runs Check first.
	Check() error

	// Evaluate returns the value of the term at the current parameters of the Network
	Evaluate() (float64, error)

	// EvaluateAt returns the value of the term with the parameters of the Network set to the
	// given vector, without changing the Network
	EvaluateAt([]float64) (float64, error)
	// EvaluateAt(parameters []float64) (float64, error)

	// Gradient returns the gradient of the term with respect to the full parameter vector
	Gradient() ([]float64, error)

	// Hessian returns the Hessian of the term with respect to the full parameter vector
	Hessian() (*mat.SymDense, error)
}

// LeastSquaresTerm is a PerformanceTerm that is the sum of the squares of a vector of terms.
// For all implementations,
//	Evaluate() == Σ Terms()[i]²
//	Gradient() == 2 TermsJacobian()ᵀ Terms()
type LeastSquaresTerm interface {
	PerformanceTerm

	Terms() ([]float64, error)

	// TermsJacobian has one row per term and one column per parameter
	TermsJacobian() (*mat.Dense, error)
}

// Generalizer is implemented by performance terms that can be evaluated over the validation
// partition of their Dataset. Generalization returns ErrNoValidation if the partition is
// empty.
type Generalizer interface {
	Generalization() (float64, error)
}

// Solution is the trajectory of a MathematicalModel over its independent variable. There is
// one row of Dependent for each value of Independent.
type Solution struct {
	Independent []float64
	Dependent   [][]float64
}

// Final returns the dependent variables at the last value of the independent variable.
func (s *Solution) Final() []float64 {
	return s.Dependent[len(s.Dependent)-1]
}

// MathematicalModel is an external system, such as an ordinary differential equation, that is
// driven by the outputs of a Network.
//
// Implementations can be found in the subpackage "models".
type MathematicalModel interface {
	// DependentCount returns the number of dependent variables in each row of a Solution
	DependentCount() int

	// Solve computes the trajectory of the model, using the outputs of the given Network as
	// the controls. It must not modify the Network.
	Solve(*Network) (*Solution, error)
	// Solve(net *Network) (*Solution, error)
}

// SensitivityModel is a MathematicalModel that can provide the derivatives of its final
// dependent variables with respect to the parameter vector of the Network.
type SensitivityModel interface {
	MathematicalModel

	// FinalJacobian has one row per dependent variable and one column per parameter. It
	// returns ErrNoSensitivity if it cannot be computed with the current configuration.
	FinalJacobian(*Network) (*mat.Dense, error)
}

// HyperParameter is a value, such as a step length, scheduled by training iteration.
//
// Implementations can be found in the subpackage "hyperparams".
type HyperParameter interface {
	TypeString() string

	// Value returns the value at the given iteration, counting from 0
	Value(int) float64
	// Value(iteration int) float64
}

// TrainingAlgorithm minimizes a PerformanceFunctional by changing the parameters of its
// Network.
//
// Implementations can be found in the subpackage "training".
type TrainingAlgorithm interface {
	TypeString() string

	// Train runs the algorithm until one of its stopping criteria is met. On error, the
	// parameters of the Network are restored to what they were when Train was called.
	Train() (*Results, error)
}
