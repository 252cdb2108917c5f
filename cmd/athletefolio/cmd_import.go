package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/athletefolio/internal/models"
	"github.com/meur/athletefolio/internal/schema"
	"github.com/meur/athletefolio/internal/storage"
	"github.com/meur/athletefolio/internal/transcode"
	"github.com/meur/athletefolio/internal/validate"
)

var importStrict bool

var importCmd = &cobra.Command{
	Use:   "import <profiles.json>",
	Short: "Bulk upsert profile records from a JSON array",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "Refuse records that fail wizard validation")
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read profiles: %w", err)
	}

	var profiles []models.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("failed to parse profiles: %w", err)
	}

	// Records are checked the way the wizard would see them when edited
	sc := schema.Athlete()
	tc := transcode.New(logger.Named("transcode"))
	invalid := 0
	for i := range profiles {
		errs := validate.All(sc, tc.Decode(&profiles[i]))
		if errs.Valid() {
			continue
		}
		invalid++
		logger.Warn("record fails validation",
			zap.Int("index", i),
			zap.String("owner", profiles[i].OwnerID),
			zap.Strings("fields", errs.Fields()))
	}
	if importStrict && invalid > 0 {
		return fmt.Errorf("%d of %d records invalid", invalid, len(profiles))
	}

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.BulkSaveProfiles(cmd.Context(), profiles); err != nil {
		return fmt.Errorf("failed to import profiles: %w", err)
	}

	logger.Info("import complete", zap.Int("profiles", len(profiles)), zap.Int("invalid", invalid))
	return nil
}
