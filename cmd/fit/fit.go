// fit approximates a noisy sine curve with a network, using any of the registered training
// algorithms, objectives, regularization terms and initializers. Every fifth instance is used
// for validation.
//
// Example usage:
//	fit -algorithm levenberg-marquardt -regularization neural-parameters-norm -hidden 8
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/pkg/errors"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
	_ "github.com/JackieXie168/libNeuralNet-sub003/costfuncs"
	_ "github.com/JackieXie168/libNeuralNet-sub003/hyperparams"
	_ "github.com/JackieXie168/libNeuralNet-sub003/initializers"
	_ "github.com/JackieXie168/libNeuralNet-sub003/penalties"
	"github.com/JackieXie168/libNeuralNet-sub003/training"
)

var (
	algorithm      = flag.String("algorithm", "quasi-newton", "training algorithm, one of: "+strings.Join(nn.AlgorithmTypes(), ", "))
	objective      = flag.String("objective", "normalized-squared-error", "objective term")
	regularization = flag.String("regularization", "", "regularization term, or none if empty")
	initializer    = flag.String("init", "", "initializer for the weights, or the default if empty")
	hidden         = flag.Int("hidden", 5, "number of hidden neurons")
	instances      = flag.Int("instances", 50, "number of instances, training and validation")
	noise          = flag.Float64("noise", 0.05, "standard deviation of the noise on the targets")
	seed           = flag.Int64("seed", nn.DefaultSeed, "seed of the data and of the network")
	maxIterations  = flag.Int("iterations", 500, "maximum number of iterations")
	display        = flag.Int("display", training.DefaultDisplayPeriod, "iterations between lines of progress, none if 0")
	failures       = flag.Int("failures", 0, "maximum generalization failures, unlimited if 0")
	firstStep      = flag.String("first-step", "", "schedule of the first step of each iteration, one of: "+strings.Join(nn.HyperParameterTypes(), ", "))
)

type settings interface {
	Settings() *training.Common
}

type scheduled interface {
	SetFirstStep(nn.HyperParameter)
}

// sine returns the dataset of sin(2x) over [-π/2, π/2]
func sine(rng *rand.Rand, n int, σ float64) (*nn.MemoryDataset, error) {
	if n < 2 {
		return nil, errors.Errorf("Need at least 2 instances (%d)", n)
	}

	var train, valid [][][]float64
	for i := 0; i < n; i++ {
		x := -math.Pi/2 + math.Pi*float64(i)/float64(n-1)
		inst := [][]float64{{x}, {math.Sin(2*x) + σ*rng.NormFloat64()}}

		if i%5 == 4 {
			valid = append(valid, inst)
		} else {
			train = append(train, inst)
		}
	}

	return nn.NewDataset(train, valid)
}

func setup(rng *rand.Rand) (*nn.PerformanceFunctional, error) {
	data, err := sine(rng, *instances, *noise)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't make dataset\n")
	}

	net, err := nn.NewNetwork([]int{1, *hidden, 1}, rng)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't make network\n")
	}

	if *initializer != "" {
		in, err := nn.NewInitializer(*initializer)
		if err != nil {
			return nil, err
		}
		net.SetInitializer(in).InitializeWeights()
	}

	if err = net.SetScaling(nn.NewScalingLayer(nn.MinimumMaximum, nn.InputStatistics(data))); err != nil {
		return nil, err
	} else if err = net.SetUnscaling(nn.NewScalingLayer(nn.MinimumMaximum, nn.TargetStatistics(data))); err != nil {
		return nil, err
	}

	c := nn.TermConfig{Network: net, Dataset: data}
	obj, err := nn.NewTerm(*objective, c)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't make objective\n")
	}

	f := nn.NewPerformanceFunctional(net).SetObjective(obj)
	if *regularization != "" {
		reg, err := nn.NewTerm(*regularization, c)
		if err != nil {
			return nil, errors.Wrapf(err, "Couldn't make regularization\n")
		}
		f.SetRegularization(reg)
	}

	return f, nil
}

func main() {
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	f, err := setup(rng)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	alg, err := nn.NewAlgorithm(*algorithm, f)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	if s, ok := alg.(settings); ok {
		c := s.Settings()
		c.Criteria.MaximumIterations = *maxIterations
		c.Criteria.MaximumGeneralizationFailures = *failures
		c.RestoreBestGeneralization = *failures != 0
		c.History = nn.PerformanceHistory | nn.GeneralizationHistory
		if *display > 0 {
			c.Display = log.New(os.Stderr, alg.TypeString()+": ", 0)
			c.DisplayPeriod = *display
		}
	}

	if *firstStep != "" {
		s, ok := alg.(scheduled)
		if !ok {
			log.Fatalf("%s has no first step to schedule", alg.TypeString())
		}

		hp, err := nn.NewHyperParameter(*firstStep)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		s.SetFirstStep(hp)
	}

	log.Printf("Training %v with %s on %d instances", f.Network().Architecture(), alg.TypeString(), *instances)
	res, err := alg.Train()
	if err != nil {
		log.Fatalf("%+v", err)
	}

	fmt.Printf("algorithm:      %s\n", res.Algorithm)
	fmt.Printf("state:          %s (%s)\n", res.State(), res.Condition)
	fmt.Printf("iterations:     %d\n", res.Iterations)
	fmt.Printf("elapsed:        %v\n", res.Elapsed)
	fmt.Printf("performance:    %g\n", res.FinalPerformance)
	fmt.Printf("generalization: %g\n", res.FinalGeneralization)
	fmt.Printf("gradient norm:  %g\n", res.FinalGradientNorm)
	fmt.Printf("parameter norm: %g\n", res.FinalParametersNorm)
}
