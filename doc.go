// Package neuralnet provides feed-forward neural networks together with the performance
// functionals that they are trained against and the interfaces of the training algorithms that
// minimize them.
//
// Creating Networks
//
// The center of everything is the Network, built from its architecture:
//
//		net, err := nn.NewNetwork([]int{inputs, hidden, outputs}, rand.New(rand.NewSource(seed)))
//
// For brevity, neuralnet is abbreviated 'nn'.
//
// The architecture gives the number of inputs, followed by the width of each perceptron layer.
// Hidden layers use the hyperbolic tangent and the output layer is linear, which can be changed
// with SetActivation(). Around the perceptron layers, a Network may have a scaling layer on its
// inputs and unscaling, probabilistic, bounding and conditions layers on its outputs:
//
//		net.SetScaling(nn.NewScalingLayer(nn.MinimumMaximum, nn.InputStatistics(data)))
//		net.SetUnscaling(nn.NewScalingLayer(nn.MinimumMaximum, nn.TargetStatistics(data)))
//
// Each of these can later be turned off and on with Enable(). Every trainable value of the
// Network is held in a single parameter vector, given by Parameters(). Its order is, for each
// perceptron layer, the biases of the layer and then its weights, neuron by neuron, followed by
// any independent parameters.
//
// Performance
//
// A Network is trained by minimizing a PerformanceFunctional: the sum of an objective, a
// regularization and a constraints term, each of which is optional.
//
//		f := nn.NewPerformanceFunctional(net).
//			SetObjective(costfuncs.NormalizedSquaredError(net, data)).
//			SetRegularization(penalties.NeuralParametersNorm(net, 1e-3))
//
// Performance terms can be found in the subpackages "costfuncs", "penalties" and "constraints".
// Terms that compare the Network against an external system use the MathematicalModels in
// "models".
//
// Training
//
// The training algorithms are in the subpackage "training":
//
//		qn := training.QuasiNewton(f)
//		qn.Criteria.GradientNormGoal = 1e-3
//		res, err := qn.Train()
//
// Terms and training algorithms register themselves by name when their packages are imported,
// so they can also be built with NewTerm() and NewAlgorithm().
package neuralnet
