package main

import (
	"fmt"

	"github.com/dynamicsector/dynamicsector/internal/logger"
	"github.com/dynamicsector/dynamicsector/internal/starmap"
	"github.com/dynamicsector/dynamicsector/internal/table"
	"github.com/spf13/cobra"
)

var (
	inspectSystems string
	inspectSectors string
	inspectMode    string
)

func init() {
	inspectCmd.Flags().StringVar(&inspectSystems, "systems", "", "System data table (csv, xlsx or json)")
	inspectCmd.Flags().StringVar(&inspectSectors, "sectors", "", "Sector map table (csv, xlsx or json)")
	inspectCmd.Flags().StringVar(&inspectMode, "mode", "", "Render mode: 3d or 2d (default: config mode)")
	inspectCmd.MarkFlagRequired("systems")
	inspectCmd.MarkFlagRequired("sectors")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Validate tables and summarize the star map",
	Long: `Parse and validate both tables, build the scene and report what
would be drawn: star and route counts, hidden routes, isolated systems and
whether coordinates come from the table or the spring layout.

Exits with code 3 when either table is invalid.`,
	RunE: runInspect,
}

// TableInfo describes a parsed input table.
type TableInfo struct {
	File    string   `json:"file"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
}

// InspectResponse is the response for inspect.
type InspectResponse struct {
	Systems TableInfo       `json:"systems"`
	Sectors TableInfo       `json:"sectors"`
	Summary starmap.Summary `json:"summary"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	req, err := resolveRender(cfg, renderFlags{
		Systems: inspectSystems,
		Sectors: inspectSectors,
		Mode:    inspectMode,
	})
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	resp, err := inspect(req)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	logger.Section("Tables")
	logger.Stats("System data", fmt.Sprintf("%s (%d rows)", resp.Systems.File, resp.Systems.Rows))
	logger.Stats("Sector map", fmt.Sprintf("%s (%d rows)", resp.Sectors.File, resp.Sectors.Rows))
	logger.Section("Scene")
	logger.Stats("Dimensions", resp.Summary.Dimensions)
	logger.Stats("Stars", resp.Summary.Stars)
	logger.Stats("Suns", resp.Summary.Suns)
	logger.Stats("Routes", resp.Summary.Links)
	logger.Stats("Hidden routes", resp.Summary.HiddenLinks)
	logger.Stats("Isolated", resp.Summary.Isolated)
	logger.Stats("Coordinates", resp.Summary.Coordinates)
	return nil
}

func inspect(req renderRequest) (*InspectResponse, error) {
	systems, sectors, err := readTables(req)
	if err != nil {
		return nil, err
	}
	scene, err := buildScene(req, systems, sectors)
	if err != nil {
		return nil, err
	}
	return &InspectResponse{
		Systems: tableInfo(req.Systems, systems),
		Sectors: tableInfo(req.Sectors, sectors),
		Summary: scene.Summarize(),
	}, nil
}

func tableInfo(path string, t *table.Table) TableInfo {
	return TableInfo{File: path, Columns: t.Columns, Rows: t.Len()}
}
