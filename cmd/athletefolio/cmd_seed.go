package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/athletefolio/internal/draft"
	"github.com/meur/athletefolio/internal/schema"
	"github.com/meur/athletefolio/internal/storage"
	"github.com/meur/athletefolio/internal/transcode"
	"github.com/meur/athletefolio/internal/validate"
)

var seedOwner string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo profiles and a session token",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedOwner, "owner", "demo-owner", "Owner to issue a session token for")
}

type demoAthlete struct {
	owner string
	draft draft.Draft
}

func demoAthletes() []demoAthlete {
	avatar := func(name string) draft.Value {
		return draft.Files(draft.Uploaded("https://placehold.co/400x400?text=" + name))
	}
	return []demoAthlete{
		{owner: "demo-alex", draft: draft.Draft{
			schema.FirstName:      draft.Text("Alex"),
			schema.LastName:       draft.Text("Morgan"),
			schema.Sport:          draft.Text("Soccer"),
			schema.Position:       draft.Text("Goalkeeper"),
			schema.GraduationYear: draft.Text("2026"),
			schema.Location:       draft.Text("Austin, TX"),
			schema.ProfilePicture: avatar("AM"),
			schema.JourneyTeams: draft.Items(
				draft.Item{"team": "Austin Tigers", "position": "Goalie", "explanation": "Started every match in the 2024 season"},
			),
			schema.Opportunities: draft.Text(schema.Yes),
		}},
		{owner: "demo-jordan", draft: draft.Draft{
			schema.FirstName:      draft.Text("Jordan"),
			schema.LastName:       draft.Text("Reyes"),
			schema.Sport:          draft.Text("Basketball"),
			schema.Position:       draft.Text("Point Guard"),
			schema.GraduationYear: draft.Text("2025"),
			schema.Location:       draft.Text("Phoenix, AZ"),
			schema.ProfilePicture: avatar("JR"),
			schema.Achievements: draft.Items(
				draft.Item{"title": "All-State First Team", "year": "2024", "description": "Averaged 21 points"},
			),
		}},
		{owner: "demo-sam", draft: draft.Draft{
			schema.FirstName:      draft.Text("Sam"),
			schema.LastName:       draft.Text("Alexander"),
			schema.Sport:          draft.Text("Volleyball"),
			schema.Position:       draft.Text("Setter"),
			schema.GraduationYear: draft.Text("2026"),
			schema.Location:       draft.Text("San Diego, CA"),
			schema.ProfilePicture: avatar("SA"),
			schema.VideoLinks: draft.Items(
				draft.Item{"title": "Highlights", "url": "https://example.com/sam-highlights"},
			),
		}},
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	sc := schema.Athlete()
	for _, a := range demoAthletes() {
		if errs := validate.All(sc, a.draft); !errs.Valid() {
			logger.Warn("skipping invalid demo athlete", zap.String("owner", a.owner), zap.Any("errors", errs))
			continue
		}
		rec := transcode.Encode(a.draft)
		saved, err := store.SaveProfile(cmd.Context(), a.owner, &rec)
		if err != nil {
			logger.Warn("failed to seed athlete", zap.String("owner", a.owner), zap.Error(err))
			continue
		}
		logger.Info("seeded athlete", zap.String("id", saved.ID), zap.String("name", saved.FullName()))
	}

	token, err := store.CreateSession(cmd.Context(), seedOwner)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Session token for %s: %s\n", seedOwner, token)
	return nil
}
