package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openkraft/autograder/internal/domain"
	"github.com/spf13/cobra"
)

const configFileName = ".autograder.yaml"

// toolchains are the presets offered by init.
var toolchains = map[string]struct {
	extension string
	toolchain domain.Toolchain
}{
	"java": {
		extension: domain.DefaultExtension,
		toolchain: domain.Toolchain{Compile: domain.DefaultCompileTemplate, Run: domain.DefaultRunTemplate},
	},
	"python": {
		extension: ".py",
		toolchain: domain.Toolchain{Compile: "python3 -m py_compile {source}", Run: "python3 {source}"},
	},
	"c": {
		extension: ".c",
		toolchain: domain.Toolchain{Compile: "cc -o {name} {source}", Run: "{dir}/{name}"},
	},
}

func newInitCmd() *cobra.Command {
	var (
		toolchain string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .autograder.yaml configuration file",
		Long:  "Create a .autograder.yaml for a submissions directory with a toolchain preset.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, configFileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
				}
			}

			if _, ok := toolchains[toolchain]; !ok {
				return fmt.Errorf("unknown toolchain %q (valid: %s)", toolchain, strings.Join(toolchainNames(), ", "))
			}

			if err := os.WriteFile(dest, []byte(generateConfig(toolchain)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&toolchain, "toolchain", "java", "Toolchain preset ("+strings.Join(toolchainNames(), ", ")+")")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .autograder.yaml")

	return cmd
}

func toolchainNames() []string {
	names := make([]string, 0, len(toolchains))
	for n := range toolchains {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func generateConfig(name string) string {
	preset := toolchains[name]

	var b strings.Builder
	b.WriteString("# autograder configuration\n")
	b.WriteString("# Templates may use {source}, {dir}, {name} and {file}.\n\n")
	fmt.Fprintf(&b, "extension: %s\n\n", preset.extension)
	b.WriteString("toolchain:\n")
	fmt.Fprintf(&b, "  compile: %q\n", preset.toolchain.Compile)
	fmt.Fprintf(&b, "  run: %q\n\n", preset.toolchain.Run)
	b.WriteString("timeout: 10s\n\n")
	fmt.Fprintf(&b, "expected_output: %q\n\n", domain.DefaultExpectedOutput)

	b.WriteString(`# expected_file: expected.txt
# expected_outputs:
#   HelloWorld: "Hello, World!"

# rubric:
#   markers:
#     logic_design: ["if", "while", "for"]

# min_total: 60
`)

	return b.String()
}
