package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/vpbrowse/internal/build"
)

func buildCmd(flags *globalFlags) *cobra.Command {
	var (
		output  string
		pkg     string
		noHash  bool
		ldflags string
		tags    []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the WebAssembly client and its assets",
		Long: `Compile the client for js/wasm and collect everything the server
serves into one directory: app.wasm, wasm_exec.js, the static files and
manifest.json.

Examples:
  vpbrowse build
  vpbrowse build --out=dist --no-hash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(flags)
			if err != nil {
				return err
			}

			b := build.New(build.Options{
				Dir:         flags.dir,
				Output:      output,
				Package:     pkg,
				Static:      staticPath(cfg, flags.dir),
				Fingerprint: !noHash,
				LDFlags:     ldflags,
				Tags:        tags,
				OnProgress:  func(step string) { info("%s...", step) },
			})
			result, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			success("Built %s in %s (app.wasm %d KB)", result.Output, result.Duration.Round(1e6), result.WasmSize/1024)
			info("Serve it with: vpbrowse serve --static=%s", result.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "dist", "Output directory")
	cmd.Flags().StringVar(&pkg, "package", build.DefaultPackage, "Client main package")
	cmd.Flags().BoolVar(&noHash, "no-hash", false, "Keep plain file names")
	cmd.Flags().StringVar(&ldflags, "ldflags", "", "Extra linker flags")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Build tags")
	return cmd
}
