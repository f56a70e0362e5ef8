package vulkan

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/ext_debug_utils"
	"golang.org/x/exp/slog"
)

const validationLayerName = "VK_LAYER_KHRONOS_validation"

func debugMessengerCreateInfo(logger *slog.Logger) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			level := slog.LevelWarn
			if severity&ext_debug_utils.SeverityError != 0 {
				level = slog.LevelError
			}
			logger.Log(context.Background(), level, data.Message,
				slog.String("type", msgType.String()),
				slog.String("id", data.MessageIDName))
			return false
		},
	}
}

func createDebugMessenger(instance core1_0.Instance, logger *slog.Logger) (ext_debug_utils.DebugUtilsMessenger, error) {
	extension := ext_debug_utils.CreateExtensionFromInstance(instance)
	messenger, _, err := extension.CreateDebugUtilsMessenger(instance, nil, debugMessengerCreateInfo(logger))
	if err != nil {
		return nil, errors.Wrap(err, "create debug messenger")
	}
	return messenger, nil
}

type layerLister interface {
	AvailableLayers() (map[string]*core1_0.LayerProperties, common.VkResult, error)
}

// loaderLayers returns the instance layers the loader offers, or nothing if they cannot be listed
func loaderLayers(loader layerLister) map[string]*core1_0.LayerProperties {
	layers, _, err := loader.AvailableLayers()
	if err != nil {
		return nil
	}
	return layers
}
