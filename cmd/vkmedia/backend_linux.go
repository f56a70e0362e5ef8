//go:build linux

package main

import "github.com/vkngwrapper/vkmedia/sim"

func openSimBackend() (backend, error) {
	return backend{
		graphics: sim.NewGraphics(sim.GraphicsOptions{}),
		compute:  sim.NewCompute(sim.ComputeOptions{}),
	}, nil
}
