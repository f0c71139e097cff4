// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers and networks the Grad-CAM engine explains.
//
// # Layers and names
//
// A Network is a tree of named Layers. Containers such as Sequential name
// their children, so every layer has a dotted qualified name:
//
//	net := nn.NewNetwork(backend,
//	    nn.Named("features", nn.NewSequential[B](
//	        nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend), // features.0
//	        nn.NewReLU[B](),                                // features.1
//	    )),
//	    nn.Named("classifier", nn.NewSequential[B](
//	        nn.NewFlatten[B](),
//	        nn.NewLinear(16*32*32, 10, backend),
//	    )),
//	)
//
// # Hooks
//
// Every layer accepts forward hooks, called with the layer output, and
// backward hooks, called with the gradient of that output. Registration
// returns a HookHandle whose Remove unregisters the hook:
//
//	relu, _ := net.Layer("features.1")
//	h := relu.RegisterForwardHook(func(name string, out *tensor.Tensor[B]) {
//	    fmt.Println(name, out.Shape())
//	})
//	defer h.Remove()
//
// Backward hooks need a backend wrapped with autodiff.New.
//
// # Modes
//
// Networks start in training mode. Eval switches modules such as Dropout to
// inference behavior.
package nn
