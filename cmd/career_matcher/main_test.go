package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/parsing"
	"github.com/jonathan/career-matcher/internal/recommend"
	"github.com/jonathan/career-matcher/internal/schemas"
	"github.com/jonathan/career-matcher/internal/types"
)

const (
	offlineUser = "6b1f0c1e-8f5e-4f8a-9c43-1d2f7e0a9b10"
	goJob       = "bbbbbbbb-0000-4000-8000-000000000001"
	accountJob  = "bbbbbbbb-0000-4000-8000-000000000002"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func offlineFixtures(t *testing.T) (profilePath, jobsPath, resourcesPath string) {
	t.Helper()
	dir := t.TempDir()
	profilePath = writeFile(t, dir, "profile.json", `{
		"user_id": "`+offlineUser+`",
		"skills": ["Go", "PostgreSQL", "Docker"],
		"education": [{"degree": "Bachelor of Science", "field": "Computer Science"}],
		"work_experience": [{"company": "Acme", "position": "Backend Engineer", "start_date": "2018-01", "end_date": "2024-01"}],
		"languages": [{"language": "English", "proficiency": "native"}]
	}`)
	jobsPath = writeFile(t, dir, "jobs.json", `[
		{"id": "`+accountJob+`", "title": "Junior Accountant", "required_skills": ["Excel", "Accounting"], "experience_level": "entry", "posted_at": "2024-05-02T00:00:00Z"},
		{"id": "`+goJob+`", "title": "Go Engineer", "required_skills": ["Go", "PostgreSQL"], "experience_level": "senior", "remote": true, "posted_at": "2024-05-01T00:00:00Z"}
	]`)
	resourcesPath = writeFile(t, dir, "resources.json", `[
		{"id": "cccccccc-0000-4000-8000-000000000001", "title": "Kubernetes Fundamentals", "skills": ["Kubernetes"], "difficulty": "intermediate", "category": "technical", "language": "en"},
		{"id": "cccccccc-0000-4000-8000-000000000002", "title": "Writing a Strong CV", "category": "resume"}
	]`)
	return profilePath, jobsPath, resourcesPath
}

func TestParseCVFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cv.txt", "John Doe\njohn@x.com\nSkills: Python, SQL")

	var out bytes.Buffer
	require.NoError(t, parseCVFile(path, &out, zap.NewNop(), false))

	var parsed types.ParsedProfile
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))
	assert.Equal(t, "John Doe", parsed.Name)
	assert.Equal(t, "john@x.com", parsed.Email)
	assert.Equal(t, []string{"Python", "Sql"}, parsed.Skills)
}

func TestParseCVFile_Missing(t *testing.T) {
	err := parseCVFile(filepath.Join(t.TempDir(), "nope.pdf"), &bytes.Buffer{}, zap.NewNop(), false)
	assert.ErrorContains(t, err, "failed to read CV")
}

func TestRecommendOffline(t *testing.T) {
	profilePath, jobsPath, resourcesPath := offlineFixtures(t)

	svc, userID, err := offlineService(profilePath, jobsPath, resourcesPath, recommend.Options{})
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse(offlineUser), userID)

	var out bytes.Buffer
	require.NoError(t, recommendOnce(context.Background(), svc, recommendRequest{UserID: userID, Kind: "all"}, &out))

	var result recommendOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.NotNil(t, result.Jobs)
	require.NotEmpty(t, result.Jobs.Items)
	assert.Equal(t, "Go Engineer", result.Jobs.Items[0].Candidate.Title)
	for _, item := range result.Jobs.Items {
		assert.NotEqual(t, "Junior Accountant", item.Candidate.Title)
	}
	require.NotNil(t, result.Learning)
	assert.NotEmpty(t, result.Learning.Items)
}

func TestParseCVFile_Pretty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cv.txt", "John Doe\njohn@x.com\nSkills: Python, SQL")

	var out bytes.Buffer
	require.NoError(t, parseCVFile(path, &out, zap.NewNop(), true))
	assert.Contains(t, out.String(), "PARSED CV")
	assert.Contains(t, out.String(), "John Doe")
}

func TestRecommendOffline_Pretty(t *testing.T) {
	profilePath, jobsPath, resourcesPath := offlineFixtures(t)
	svc, userID, err := offlineService(profilePath, jobsPath, resourcesPath, recommend.Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	req := recommendRequest{UserID: userID, Kind: "all", Pretty: true}
	require.NoError(t, recommendOnce(context.Background(), svc, req, &out))
	assert.Contains(t, out.String(), "JOB RECOMMENDATIONS")
	assert.Contains(t, out.String(), "#1  Go Engineer")
	assert.Contains(t, out.String(), "LEARNING RECOMMENDATIONS")
}

func TestRecommendOffline_JobsOnly(t *testing.T) {
	profilePath, jobsPath, _ := offlineFixtures(t)
	svc, userID, err := offlineService(profilePath, jobsPath, "", recommend.Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, recommendOnce(context.Background(), svc, recommendRequest{UserID: userID, Kind: "jobs", Limit: 1}, &out))

	var result recommendOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Len(t, result.Jobs.Items, 1)
	assert.Nil(t, result.Learning)
}

func TestRecommendOffline_JobSpecificLearning(t *testing.T) {
	profilePath, jobsPath, resourcesPath := offlineFixtures(t)
	svc, userID, err := offlineService(profilePath, jobsPath, resourcesPath, recommend.Options{})
	require.NoError(t, err)

	req := recommendRequest{UserID: userID, Kind: "learning", JobID: uuid.New()}
	err = recommendOnce(context.Background(), svc, req, &bytes.Buffer{})
	var notFound *recommend.ErrJobNotFound
	assert.ErrorAs(t, err, &notFound)

	req.JobID = uuid.MustParse(goJob)
	assert.NoError(t, recommendOnce(context.Background(), svc, req, &bytes.Buffer{}))
}

func TestRecommendOnce_BestEffortMissingProfile(t *testing.T) {
	profilePath, jobsPath, _ := offlineFixtures(t)
	svc, _, err := offlineService(profilePath, jobsPath, "", recommend.Options{})
	require.NoError(t, err)

	req := recommendRequest{UserID: uuid.New(), Kind: "all"}
	err = recommendOnce(context.Background(), svc, req, &bytes.Buffer{})
	var missing *recommend.ErrProfileNotFound
	require.ErrorAs(t, err, &missing)

	req.BestEffort = true
	var out bytes.Buffer
	require.NoError(t, recommendOnce(context.Background(), svc, req, &out))
	var result recommendOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Empty(t, result.Jobs.Items)
	assert.Empty(t, result.Learning.Items)
}

func TestRecommendOnce_UnknownKind(t *testing.T) {
	svc := recommend.New(newMemoryStore(nil, nil), nil, recommend.Options{})
	err := recommendOnce(context.Background(), svc, recommendRequest{Kind: "everything"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown --kind")
}

func TestOfflineService_RejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", `{"skills": ["Go"]}`)
	badJobs := writeFile(t, dir, "jobs.json", `[{"title": "No ID"}]`)

	_, _, err := offlineService(profilePath, badJobs, "", recommend.Options{})

	require.Error(t, err)
	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestOfflineService_AssignsUserID(t *testing.T) {
	profilePath := writeFile(t, t.TempDir(), "profile.json", `{"skills": []}`)

	_, userID, err := offlineService(profilePath, "", "", recommend.Options{})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, userID)
}

func TestMemoryStore(t *testing.T) {
	older := types.JobPosting{ID: uuid.New(), Title: "older"}
	newer := types.JobPosting{ID: uuid.New(), Title: "newer"}
	newer.PostedAt = older.PostedAt.AddDate(0, 1, 0)
	store := newMemoryStore([]types.JobPosting{older, newer}, nil)
	ctx := context.Background()

	jobs, err := store.QueryActiveJobs(ctx, types.JobFilter{}, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "newer", jobs[0].Title)

	missing, err := store.GetJobPosting(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	userID := uuid.New()
	parsed := types.NewParsedProfile()
	parsed.Skills = []string{"Go"}
	merged, summary, err := store.MergeProfileFields(ctx, userID, parsed)
	require.NoError(t, err)
	assert.Equal(t, userID, merged.UserID)
	assert.Equal(t, []string{"Go"}, summary.AddedSkills)

	stored, err := store.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, stored.Skills)
}

func TestParseKind(t *testing.T) {
	kind, err := parseKind("job_postings")
	require.NoError(t, err)
	assert.Equal(t, schemas.KindJobPostings, kind)

	_, err = parseKind("resume")
	assert.ErrorContains(t, err, "profile, job_postings, learning_resources")
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "worker", "enqueue-cv", "migrate", "parse-cv", "recommend", "validate", "seed", "vocabulary"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestValidateArgs(t *testing.T) {
	profilePath, jobsPath, _ := offlineFixtures(t)
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "title.schema.json", `{
		"type": "object",
		"properties": {"title": {"type": "string"}},
		"required": ["title"]
	}`)

	t.Run("embedded kind", func(t *testing.T) {
		path, label, err := validateArgs([]string{"profile", profilePath}, "")
		require.NoError(t, err)
		assert.Equal(t, profilePath, path)
		assert.Equal(t, "profile", label)
	})

	t.Run("embedded kind mismatch", func(t *testing.T) {
		_, _, err := validateArgs([]string{"profile", jobsPath}, "")
		var ve *schemas.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("schema file", func(t *testing.T) {
		doc := writeFile(t, dir, "ok.json", `{"title": "Go Engineer"}`)
		path, label, err := validateArgs([]string{doc}, schemaPath)
		require.NoError(t, err)
		assert.Equal(t, doc, path)
		assert.Equal(t, schemaPath, label)
	})

	t.Run("schema file rejects document", func(t *testing.T) {
		doc := writeFile(t, dir, "bad.json", `{"name": "Go Engineer"}`)
		_, _, err := validateArgs([]string{doc}, schemaPath)
		var ve *schemas.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("argument counts", func(t *testing.T) {
		_, _, err := validateArgs([]string{"profile", profilePath}, schemaPath)
		assert.ErrorContains(t, err, "exactly one file")

		_, _, err = validateArgs([]string{profilePath}, "")
		assert.ErrorContains(t, err, "expected <kind> <file>")
	})
}

type recordingSeeder struct {
	profiles    []uuid.UUID
	jobs        []types.JobPosting
	resources   []types.LearningResource
	deactivated []uuid.UUID
}

func (r *recordingSeeder) SaveProfile(_ context.Context, p *types.Profile) error {
	r.profiles = append(r.profiles, p.UserID)
	return nil
}

func (r *recordingSeeder) UpsertJobPosting(_ context.Context, p *types.JobPosting) (*types.JobPosting, error) {
	r.jobs = append(r.jobs, *p)
	return p, nil
}

func (r *recordingSeeder) UpsertLearningResource(_ context.Context, res *types.LearningResource) (*types.LearningResource, error) {
	r.resources = append(r.resources, *res)
	return res, nil
}

func (r *recordingSeeder) DeactivateJobPosting(_ context.Context, id uuid.UUID) error {
	r.deactivated = append(r.deactivated, id)
	return nil
}

func TestSeed(t *testing.T) {
	profilePath, jobsPath, resourcesPath := offlineFixtures(t)
	store := &recordingSeeder{}

	var out bytes.Buffer
	err := seed(context.Background(), store, seedInput{
		ProfilePath:   profilePath,
		JobsPath:      jobsPath,
		ResourcesPath: resourcesPath,
		Deactivate:    []string{accountJob},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{uuid.MustParse(offlineUser)}, store.profiles)
	require.Len(t, store.jobs, 2)
	require.Len(t, store.resources, 2)
	for _, job := range store.jobs {
		assert.True(t, job.IsActive, job.Title)
	}
	for _, res := range store.resources {
		assert.True(t, res.IsActive, res.Title)
	}
	assert.Equal(t, []uuid.UUID{uuid.MustParse(accountJob)}, store.deactivated)
	assert.Contains(t, out.String(), "Seeded 2 job postings and 2 learning resources, deactivated 1")
}

func TestSeed_ValidatesBeforeWriting(t *testing.T) {
	_, jobsPath, _ := offlineFixtures(t)
	badResources := writeFile(t, t.TempDir(), "resources.json", `[{"skills": ["Go"]}]`)
	store := &recordingSeeder{}

	err := seed(context.Background(), store, seedInput{JobsPath: jobsPath, ResourcesPath: badResources}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Empty(t, store.jobs)
	assert.Empty(t, store.resources)
}

func TestSeed_RejectsBadDeactivateID(t *testing.T) {
	store := &recordingSeeder{}
	err := seed(context.Background(), store, seedInput{Deactivate: []string{"not-a-uuid"}}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid --deactivate ID")
	assert.Empty(t, store.deactivated)
}

func TestListVocabulary(t *testing.T) {
	v := parsing.NewVocabulary("test", map[parsing.SkillGroup][]string{
		parsing.GroupSoftSkills: {"empathy", "mentoring"},
		"healthcare":            {"nursing"},
	})

	listing := listVocabulary(v)
	assert.Equal(t, "test", listing.Version)
	require.Len(t, listing.Groups, 2)
	assert.Equal(t, parsing.GroupSoftSkills, listing.Groups[0].Group)
	assert.Equal(t, []string{"empathy", "mentoring"}, listing.Groups[0].Terms)
	assert.Equal(t, parsing.SkillGroup("healthcare"), listing.Groups[1].Group)
	assert.Equal(t, []string{"nursing"}, listing.Groups[1].Terms)
}

func TestWriteVocabulary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeVocabulary(&out, parsing.DefaultVocabulary(), true))

	var listing vocabularyListing
	require.NoError(t, json.Unmarshal(out.Bytes(), &listing))
	assert.Equal(t, parsing.VocabularyVersion, listing.Version)
	require.Len(t, listing.Groups, 4)
	assert.Contains(t, listing.Groups[0].Terms, "golang")

	out.Reset()
	require.NoError(t, writeVocabulary(&out, parsing.DefaultVocabulary(), false))
	assert.Contains(t, out.String(), "soft_skills (")
	assert.Contains(t, out.String(), "  project management\n")
}
