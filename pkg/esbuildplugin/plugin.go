// Package esbuildplugin exposes the import transform as an esbuild plugin.
package esbuildplugin

import (
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/gnana997/transform-imports/pkg/transform"
	"github.com/gnana997/transform-imports/pkg/util"
)

// Name is the plugin name reported in esbuild messages.
const Name = "transform-imports"

// DefaultFilter matches every extension the parser supports.
const DefaultFilter = `\.[cm]?[jt]sx?$`

// Options configures the plugin.
type Options struct {
	// Filter is the esbuild OnLoad path regexp. Default: DefaultFilter
	Filter string

	// Namespace restricts the plugin to one esbuild namespace. Default: "file"
	Namespace string
}

// New returns an esbuild plugin that rewrites imports of every loaded file
// through t. Files without configured imports are left to esbuild's own
// loader.
func New(t *transform.Transformer, opts Options) api.Plugin {
	if opts.Filter == "" {
		opts.Filter = DefaultFilter
	}
	if opts.Namespace == "" {
		opts.Namespace = "file"
	}

	return api.Plugin{
		Name: Name,
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: opts.Filter, Namespace: opts.Namespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					source, err := util.ReadSource(args.Path)
					if err != nil {
						return api.OnLoadResult{}, err
					}

					result, err := t.TransformFile(args.Path, source)
					if err != nil {
						return api.OnLoadResult{}, err
					}
					if !result.Changed {
						return api.OnLoadResult{}, nil
					}

					contents := string(result.Code)
					return api.OnLoadResult{
						Contents: &contents,
						Loader:   loaderFor(args.Path),
					}, nil
				})
		},
	}
}

func loaderFor(path string) api.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsx":
		return api.LoaderJSX
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	default:
		return api.LoaderJS
	}
}
