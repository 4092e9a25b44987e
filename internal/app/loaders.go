package app

import (
	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/hclconfig"
	"github.com/specialistvlad/ninjagen/internal/yamlconfig"
)

// DefaultLoaders returns the loaders of every supported configuration format.
func DefaultLoaders() config.Loaders {
	y := yamlconfig.NewLoader()
	loaders := config.Loaders{hclconfig.Extension: hclconfig.NewLoader()}
	for _, ext := range yamlconfig.Extensions {
		loaders[ext] = y
	}
	return loaders
}
