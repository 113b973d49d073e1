// xor trains a small network on the exclusive or of two inputs, with the quasi-Newton method
// and the normalized squared error.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
	"github.com/JackieXie168/libNeuralNet-sub003/costfuncs"
	"github.com/JackieXie168/libNeuralNet-sub003/training"
)

const (
	hidden        int     = 3
	goal          float64 = 1e-4
	displayPeriod int     = 20
)

var (
	seed          = flag.Int64("seed", nn.DefaultSeed, "seed of the random source of the network")
	maxIterations = flag.Int("iterations", 500, "maximum number of iterations")
	dotFile       = flag.String("dot", "", "if set, write the graphviz rendering of the network to this file")
)

func format(fs ...float64) (str string) {
	for i := range fs {
		if i != 0 {
			str += ", "
		}
		str += fmt.Sprintf("%.4f", fs[i])
	}

	return
}

func main() {
	flag.Parse()

	dataset := [][][]float64{
		{{-1, -1}, {0}},
		{{-1, 1}, {1}},
		{{1, -1}, {1}},
		{{1, 1}, {0}},
	}

	fmt.Println("Setting up network...")
	data, err := nn.NewDataset(dataset, nil)
	if err != nil {
		panic(err.Error())
	}

	net, err := nn.NewNetwork([]int{2, hidden, 1}, rand.New(rand.NewSource(*seed)))
	if err != nil {
		panic(err.Error())
	}
	net.RandomizeParameters(-1, 1)

	if *dotFile != "" {
		if err = os.WriteFile(*dotFile, []byte(net.ToDot()), 0644); err != nil {
			panic(err.Error())
		}
	}
	fmt.Println("Done!")

	f := nn.NewPerformanceFunctional(net).SetObjective(costfuncs.NSE(net, data))

	qn := training.QuasiNewton(f)
	qn.Criteria.PerformanceGoal = goal
	qn.Criteria.MaximumIterations = *maxIterations
	qn.Display = log.New(os.Stdout, "", 0)
	qn.DisplayPeriod = displayPeriod

	fmt.Println("Starting training...")
	res, err := qn.Train()
	if err != nil {
		fmt.Printf("%+v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Done training! %s after %d iterations (%v)\n", res.Condition, res.Iterations, res.Elapsed)

	fmt.Println("Inputs, Target, Output")
	for i := 0; i < data.TrainingCount(); i++ {
		outs, err := net.Outputs(data.TrainingInput(i))
		if err != nil {
			panic(err.Error())
		}

		fmt.Printf("%s, %s, %s\n", format(data.TrainingInput(i)...), format(data.TrainingTarget(i)...), format(outs...))
	}
}
