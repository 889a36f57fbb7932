package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/dynamicsector/dynamicsector/internal/config"
	"github.com/dynamicsector/dynamicsector/internal/starmap"
	"github.com/dynamicsector/dynamicsector/internal/table"
	"github.com/dynamicsector/dynamicsector/internal/viz"
	"github.com/spf13/cobra"
)

var (
	renderSystems string
	renderSectors string
	renderMode    string
	renderSeed    uint64
	renderOutput  string
	renderTitle   string
)

func init() {
	renderCmd.Flags().StringVar(&renderSystems, "systems", "", "System data table (csv, xlsx or json)")
	renderCmd.Flags().StringVar(&renderSectors, "sectors", "", "Sector map table (csv, xlsx or json)")
	renderCmd.Flags().StringVar(&renderMode, "mode", "", "Render mode: 3d or 2d (default: config mode)")
	renderCmd.Flags().Uint64Var(&renderSeed, "seed", 0, "Random seed for colors and layout (default: config seed, else random)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file path (default: stdout)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "Page title (default: config title)")
	renderCmd.MarkFlagRequired("systems")
	renderCmd.MarkFlagRequired("sectors")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a star map to HTML",
	Long: `Render a star map from a system data table and a sector map table.

Systems of type "Sun" are drawn with the sun image; other bodies get a
random earthy color. Route weights are inverted (weight 4 draws as 0.25),
Hidden routes are invisible and Unpredictable routes are dashed.
When the system data has x and y (and z in 3D) columns those positions
are used; otherwise a spring layout places the systems.

Examples:
  # 3D page to stdout
  dsector render --systems systems.csv --sectors sectors.csv > map.html

  # 2D page to a file with a fixed seed
  dsector render --systems systems.xlsx --sectors sectors.json --mode 2d --seed 42 -o map.html`,
	RunE: runRender,
}

// RenderResponse is the response for render when writing a file.
type RenderResponse struct {
	Output  string          `json:"output"`
	Mode    viz.Mode        `json:"mode"`
	Seed    uint64          `json:"seed"`
	Summary starmap.Summary `json:"summary"`
}

// renderRequest carries resolved render inputs.
type renderRequest struct {
	Systems  string
	Sectors  string
	Mode     viz.Mode
	Seed     uint64
	Title    string
	SunImage string
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	req, err := resolveRender(cfg, renderFlags{
		Systems: renderSystems,
		Sectors: renderSectors,
		Mode:    renderMode,
		Seed:    renderSeed,
		Title:   renderTitle,
	})
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	scene, err := loadScene(req)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	html, err := viz.Document(scene, req.Mode, viz.Options{Title: req.Title})
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}

	if renderOutput == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(renderOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Star map (%s, seed %d) written to %s\n", req.Mode, req.Seed, renderOutput)
		return nil
	}
	return outputJSON(RenderResponse{
		Output:  renderOutput,
		Mode:    req.Mode,
		Seed:    req.Seed,
		Summary: scene.Summarize(),
	})
}

// renderFlags are the raw command-line inputs; zero values defer to config.
type renderFlags struct {
	Systems string
	Sectors string
	Mode    string
	Seed    uint64
	Title   string
}

// resolveRender merges flags over config. A seed of zero in both picks a
// random one so the output can still be reproduced from the report.
func resolveRender(cfg *config.Config, f renderFlags) (renderRequest, error) {
	m := f.Mode
	if m == "" {
		m = cfg.Mode
	}
	mode, err := viz.ParseMode(m)
	if err != nil {
		return renderRequest{}, err
	}

	req := renderRequest{
		Systems:  f.Systems,
		Sectors:  f.Sectors,
		Mode:     mode,
		Seed:     f.Seed,
		Title:    f.Title,
		SunImage: cfg.SunImage,
	}
	if req.Seed == 0 {
		req.Seed = cfg.Seed
	}
	if req.Seed == 0 {
		req.Seed = rand.Uint64()
	}
	if req.Title == "" {
		req.Title = cfg.Title
	}
	return req, nil
}

// readTable parses a table file, detecting the format from its name.
func readTable(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := table.Parse(filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", err, table.Cause(err))
	}
	return t, nil
}

func readTables(req renderRequest) (systems, sectors *table.Table, err error) {
	if systems, err = readTable(req.Systems); err != nil {
		return nil, nil, err
	}
	if sectors, err = readTable(req.Sectors); err != nil {
		return nil, nil, err
	}
	return systems, sectors, nil
}

// loadScene reads both tables and builds the scene.
func loadScene(req renderRequest) (*starmap.Scene, error) {
	systems, sectors, err := readTables(req)
	if err != nil {
		return nil, err
	}
	return buildScene(req, systems, sectors)
}

func buildScene(req renderRequest, systems, sectors *table.Table) (*starmap.Scene, error) {
	return starmap.FromTables(systems, sectors, starmap.Options{
		Dim:      req.Mode.Dim(),
		Seed:     req.Seed,
		SunImage: req.SunImage,
	})
}
