package app

import (
	"github.com/vk/mfnet/internal/registry"
	"github.com/vk/mfnet/modules/list"
	"github.com/vk/mfnet/modules/math"
	"github.com/vk/mfnet/modules/scene"
	"github.com/vk/mfnet/modules/text"
)

// coreModules is the definitive list of all function libraries that are
// compiled into the mfnet binary.
var coreModules = []registry.Module{
	&math.Module{},
	&text.Module{},
	&list.Module{},
	&scene.Module{},
}
