package main

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/config"
	"github.com/vkngwrapper/vkmedia/cuda"
	"github.com/vkngwrapper/vkmedia/ports"
	"github.com/vkngwrapper/vkmedia/vulkan"
	"golang.org/x/exp/slog"
)

type backend struct {
	graphics ports.GraphicsDriver
	compute  ports.ComputeDriver
}

// deviceNamer is implemented by compute drivers that can name their devices
type deviceNamer interface {
	DeviceName(deviceIndex int) (string, error)
}

func openBackend(logger *slog.Logger, cfg config.Config) (backend, error) {
	switch cfg.Backend {
	case config.BackendSim:
		return openSimBackend()
	case config.BackendVulkan:
		compute, err := cuda.NewDriver(logger)
		if err != nil {
			return backend{}, err
		}
		graphics := vulkan.NewDriver(logger, vulkan.DriverOptions{
			ApplicationName: "vkmedia",
			Validation:      cfg.ValidationLayers,
		})
		return backend{graphics: graphics, compute: compute}, nil
	default:
		return backend{}, errors.Newf("unknown backend %q", cfg.Backend)
	}
}
