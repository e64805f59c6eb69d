package app

import (
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/limbs/arm"
	"github.com/vk/riggen/limbs/leg"
	"github.com/vk/riggen/limbs/simple"
	"github.com/vk/riggen/limbs/torso"
)

// coreModules is the definitive list of all limb generators that are
// compiled into the riggen binary.
var coreModules = []limb.Module{
	&simple.Module{},
	&torso.Module{},
	&leg.Module{},
	&arm.Module{},
}
