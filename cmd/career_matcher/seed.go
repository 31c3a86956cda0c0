package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/schemas"
	"github.com/jonathan/career-matcher/internal/types"
)

var (
	seedProfileFile   string
	seedJobsFile      string
	seedResourcesFile string
	seedDeactivate    []string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load profiles, job postings and learning resources into the database",
	Long: `Validate JSON files against their schemas and write them to PostgreSQL.
Job postings and learning resources are stored as active. --deactivate retires
job postings by ID after the files are loaded.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedProfileFile, "profile", "", "Profile JSON file")
	seedCmd.Flags().StringVar(&seedJobsFile, "jobs", "", "Job postings JSON file")
	seedCmd.Flags().StringVar(&seedResourcesFile, "resources", "", "Learning resources JSON file")
	seedCmd.Flags().StringSliceVar(&seedDeactivate, "deactivate", nil, "Job posting IDs to mark inactive")
	rootCmd.AddCommand(seedCmd)
}

// seeder is the write side of the database used by seed
type seeder interface {
	SaveProfile(ctx context.Context, p *types.Profile) error
	UpsertJobPosting(ctx context.Context, p *types.JobPosting) (*types.JobPosting, error)
	UpsertLearningResource(ctx context.Context, r *types.LearningResource) (*types.LearningResource, error)
	DeactivateJobPosting(ctx context.Context, id uuid.UUID) error
}

var _ seeder = (*db.DB)(nil)

// seedInput names the files and IDs one seed run applies
type seedInput struct {
	ProfilePath   string
	JobsPath      string
	ResourcesPath string
	Deactivate    []string
}

func runSeed(cmd *cobra.Command, _ []string) error {
	in := seedInput{
		ProfilePath:   seedProfileFile,
		JobsPath:      seedJobsFile,
		ResourcesPath: seedResourcesFile,
		Deactivate:    seedDeactivate,
	}
	if in.ProfilePath == "" && in.JobsPath == "" && in.ResourcesPath == "" && len(in.Deactivate) == 0 {
		return fmt.Errorf("nothing to seed: provide --profile, --jobs, --resources or --deactivate")
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if rt.cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable (or database_url config) is required")
	}
	database, err := db.Connect(cmd.Context(), rt.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	return seed(cmd.Context(), database, in, cmd.OutOrStdout())
}

// seed validates every input before writing anything
func seed(ctx context.Context, store seeder, in seedInput, out io.Writer) error {
	var p *types.Profile
	if in.ProfilePath != "" {
		p = &types.Profile{}
		if err := loadValidated(schemas.KindProfile, in.ProfilePath, p); err != nil {
			return err
		}
		if p.UserID == uuid.Nil {
			return fmt.Errorf("%s: user_id is required to seed a profile", in.ProfilePath)
		}
	}
	var jobs []types.JobPosting
	if in.JobsPath != "" {
		if err := loadValidated(schemas.KindJobPostings, in.JobsPath, &jobs); err != nil {
			return err
		}
	}
	var resources []types.LearningResource
	if in.ResourcesPath != "" {
		if err := loadValidated(schemas.KindLearningResources, in.ResourcesPath, &resources); err != nil {
			return err
		}
	}
	deactivate := make([]uuid.UUID, 0, len(in.Deactivate))
	for _, raw := range in.Deactivate {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid --deactivate ID %q: %w", raw, err)
		}
		deactivate = append(deactivate, id)
	}

	if p != nil {
		if err := store.SaveProfile(ctx, p); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Saved profile %s\n", p.UserID)
	}
	for i := range jobs {
		jobs[i].IsActive = true
		if _, err := store.UpsertJobPosting(ctx, &jobs[i]); err != nil {
			return fmt.Errorf("job %q: %w", jobs[i].Title, err)
		}
	}
	for i := range resources {
		resources[i].IsActive = true
		if _, err := store.UpsertLearningResource(ctx, &resources[i]); err != nil {
			return fmt.Errorf("resource %q: %w", resources[i].Title, err)
		}
	}
	for _, id := range deactivate {
		if err := store.DeactivateJobPosting(ctx, id); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(out, "Seeded %d job postings and %d learning resources, deactivated %d\n",
		len(jobs), len(resources), len(deactivate))
	return nil
}
