package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-matcher/internal/logging"
	"github.com/jonathan/career-matcher/internal/observability"
	"github.com/jonathan/career-matcher/internal/recommend"
	"github.com/jonathan/career-matcher/internal/schemas"
	"github.com/jonathan/career-matcher/internal/types"
)

var (
	recUser          string
	recProfileFile   string
	recJobsFile      string
	recResourcesFile string
	recJob           string
	recKind          string
	recLimit         int
	recBestEffort    bool
	recPretty        bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score and rank job and learning recommendations",
	Long: `Score job postings and learning resources for one profile.

With --user the profile and candidates come from the database. Otherwise
--profile, --jobs and --resources name JSON files, which are validated against
their schemas before scoring.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recUser, "user", "", "User ID to load from the database")
	recommendCmd.Flags().StringVar(&recProfileFile, "profile", "", "Profile JSON file (offline mode)")
	recommendCmd.Flags().StringVar(&recJobsFile, "jobs", "", "Job postings JSON file (offline mode)")
	recommendCmd.Flags().StringVar(&recResourcesFile, "resources", "", "Learning resources JSON file (offline mode)")
	recommendCmd.Flags().StringVar(&recJob, "job", "", "Job ID for job-specific learning recommendations")
	recommendCmd.Flags().StringVar(&recKind, "kind", "all", "What to recommend: jobs, learning or all")
	recommendCmd.Flags().IntVar(&recLimit, "limit", 0, "Maximum results per list (0 uses the configured default)")
	recommendCmd.Flags().BoolVar(&recBestEffort, "best-effort", false, "Return empty results instead of failing when the profile is missing")
	recommendCmd.Flags().BoolVar(&recPretty, "pretty", false, "Print a human-readable summary instead of JSON")
	rootCmd.AddCommand(recommendCmd)
}

// recommendOutput is the combined command result
type recommendOutput struct {
	Jobs     *types.Recommendations[types.JobPosting]       `json:"jobs,omitempty"`
	Learning *types.Recommendations[types.LearningResource] `json:"learning,omitempty"`
}

// recommendRequest selects what recommendOnce computes
type recommendRequest struct {
	UserID     uuid.UUID
	JobID      uuid.UUID
	Kind       string
	Limit      int
	BestEffort bool
	Pretty     bool
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	req := recommendRequest{Kind: recKind, Limit: recLimit, BestEffort: recBestEffort, Pretty: recPretty}
	if recJob != "" {
		if req.JobID, err = uuid.Parse(recJob); err != nil {
			return fmt.Errorf("invalid --job: %w", err)
		}
	}

	if recUser != "" {
		if recProfileFile != "" || recJobsFile != "" || recResourcesFile != "" {
			return fmt.Errorf("cannot use --user with --profile/--jobs/--resources")
		}
		if req.UserID, err = uuid.Parse(recUser); err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		b, err := openBackend(ctx, rt)
		if err != nil {
			return err
		}
		defer b.Close()
		return recommendOnce(ctx, b.svc, req, cmd.OutOrStdout())
	}

	if recProfileFile == "" {
		return fmt.Errorf("must provide either --user or --profile")
	}
	svc, userID, err := offlineService(recProfileFile, recJobsFile, recResourcesFile, serviceOptions(rt.cfg, rt.logger))
	if err != nil {
		return err
	}
	req.UserID = userID
	return recommendOnce(ctx, svc, req, cmd.OutOrStdout())
}

// offlineService validates and loads the input files into an in-memory store
func offlineService(profilePath, jobsPath, resourcesPath string, opts recommend.Options) (*recommend.Service, uuid.UUID, error) {
	var p types.Profile
	if err := loadValidated(schemas.KindProfile, profilePath, &p); err != nil {
		return nil, uuid.Nil, err
	}
	if p.UserID == uuid.Nil {
		p.UserID = uuid.New()
	}

	var jobs []types.JobPosting
	if jobsPath != "" {
		if err := loadValidated(schemas.KindJobPostings, jobsPath, &jobs); err != nil {
			return nil, uuid.Nil, err
		}
	}
	var resources []types.LearningResource
	if resourcesPath != "" {
		if err := loadValidated(schemas.KindLearningResources, resourcesPath, &resources); err != nil {
			return nil, uuid.Nil, err
		}
	}

	store := newMemoryStore(jobs, resources)
	store.put(p)
	opts.Logger = logging.OrNop(opts.Logger)
	return recommend.New(store, nil, opts), p.UserID, nil
}

func loadValidated(kind schemas.Kind, path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	if err := schemas.Validate(kind, data); err != nil {
		return fmt.Errorf("%s does not validate against the %s schema: %w", path, kind, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// recommendOnce runs the requested recommendations and writes them as JSON or,
// with req.Pretty, as summary boxes
func recommendOnce(ctx context.Context, svc *recommend.Service, req recommendRequest, out io.Writer) error {
	var result recommendOutput
	var err error

	switch req.Kind {
	case "jobs", "learning", "all":
	default:
		return fmt.Errorf("unknown --kind %q (expected jobs, learning or all)", req.Kind)
	}

	if req.Kind != "learning" {
		result.Jobs, err = svc.GetJobRecommendations(ctx, req.UserID, req.Limit)
		if req.BestEffort {
			result.Jobs, err = recommend.BestEffort(result.Jobs, err)
		}
		if err != nil {
			return err
		}
	}

	if req.Kind != "jobs" {
		if req.JobID != uuid.Nil {
			result.Learning, err = svc.GetJobSpecificLearningRecommendations(ctx, req.UserID, req.JobID, req.Limit)
		} else {
			result.Learning, err = svc.GetLearningRecommendations(ctx, req.UserID, req.Limit)
		}
		if req.BestEffort {
			result.Learning, err = recommend.BestEffort(result.Learning, err)
		}
		if err != nil {
			return err
		}
	}

	if req.Pretty {
		printer := observability.NewPrinter(out)
		printer.PrintJobRecommendations(result.Jobs)
		printer.PrintLearningRecommendations(result.Learning)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
