package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"randoexport/internal/catalog"
	"randoexport/internal/export"
	"randoexport/internal/input"
	"randoexport/internal/persistence/indexdb"
	persistlog "randoexport/internal/persistence/log"
	"randoexport/internal/persistence/profile"
	"randoexport/internal/settings"
)

var exportFlags struct {
	configDir    string
	settingsPath string
	inputPath    string
	outDir       string
	dbPath       string
	disableDB    bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build a profile from a randomizer output document",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.configDir, "configs", "./configs", "catalog directory")
	f.StringVar(&exportFlags.settingsPath, "settings", "", "path to settings.yaml (default: <configs>/settings.yaml)")
	f.StringVar(&exportFlags.inputPath, "input", "", "randomizer output document")
	f.StringVar(&exportFlags.outDir, "out", "./out", "output directory")
	f.StringVar(&exportFlags.dbPath, "db", "", "index database path (default: <out>/index.sqlite)")
	f.BoolVar(&exportFlags.disableDB, "disable_db", false, "skip indexing the export")
	_ = exportCmd.MarkFlagRequired("input")
}

func runExport(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(exportFlags.configDir)
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}

	sp := strings.TrimSpace(exportFlags.settingsPath)
	if sp == "" {
		sp = filepath.Join(exportFlags.configDir, "settings.yaml")
	}
	gs, err := settings.Load(sp)
	if err != nil {
		if !os.IsNotExist(err) || exportFlags.settingsPath != "" {
			return fmt.Errorf("load settings: %w", err)
		}
		logger.Info("settings not found; using defaults", zap.String("path", sp))
		gs = settings.Defaults()
	}

	doc, err := input.Load(exportFlags.inputPath)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}

	p, err := export.Run(cat, gs, doc.ItemPlacements, doc.TransitionPlacements, logger)
	if err != nil {
		return err
	}

	profilePath := filepath.Join(exportFlags.outDir, "profile.json.zst")
	if err := profile.Write(profilePath, p); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	tl := persistlog.NewTrackerLogger(exportFlags.outDir)
	if err := tl.WriteProfile(p); err != nil {
		_ = tl.Close()
		return fmt.Errorf("tracker log: %w", err)
	}
	if err := tl.Close(); err != nil {
		return fmt.Errorf("tracker log: %w", err)
	}

	if !exportFlags.disableDB {
		if err := indexExport(cat, gs, profilePath, p); err != nil {
			// The profile is already on disk; a failed index only loses lookups.
			logger.Warn("index export", zap.Error(err))
		}
	}

	printSummary(cmd.OutOrStdout(), profilePath, p)
	return nil
}

func indexExport(cat *catalog.Catalog, gs settings.GenerationSettings, profilePath string, p *export.Profile) error {
	dbPath := strings.TrimSpace(exportFlags.dbPath)
	if dbPath == "" {
		dbPath = filepath.Join(exportFlags.outDir, "index.sqlite")
	}
	idx, err := indexdb.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer idx.Close()
	if err := idx.UpsertCatalogs(exportFlags.configDir, cat, gs); err != nil {
		return fmt.Errorf("upsert catalogs: %w", err)
	}
	if err := idx.RecordExport(profilePath, p); err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	logger.Debug("export indexed", zap.String("db", dbPath), zap.String("export_id", p.ID))
	return nil
}
