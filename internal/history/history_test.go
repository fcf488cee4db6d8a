package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/scholarnav/internal/kv"
	"github.com/abhisek/scholarnav/internal/scholarship"
)

func profile(name string) scholarship.StudentProfile {
	return scholarship.StudentProfile{
		Name:          name,
		State:         "Bihar",
		Category:      scholarship.CategorySC,
		AnnualIncome:  "120000",
		LastClass:     "10th",
		Percentage:    "78",
		CurrentCourse: "Diploma in Civil Engineering",
	}
}

func analysis(p int) scholarship.AnalysisResult {
	return scholarship.AnalysisResult{
		EligibilityStatus:     "Eligible",
		AcceptanceProbability: p,
		RiskFactors:           []string{"Aadhaar not seeded"},
		MatchedScholarships: []scholarship.MatchedScholarship{
			{Name: "Bihar Post-Matric", Provider: "Govt of Bihar", URL: "https://pmsonline.bih.nic.in"},
		},
		DetailedReasoning: "Meets income and category criteria.",
		ActionPlan: scholarship.ActionPlan{
			ShouldApply:        true,
			Reason:             "Good fit",
			EssentialDocuments: []string{"Caste certificate"},
		},
	}
}

func newRepo(t *testing.T) (*Repository, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	return NewRepository(store, nil), store
}

func TestLoad_Empty(t *testing.T) {
	repo, _ := newRepo(t)
	got := repo.Load(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	records := []SavedRecord{
		{ID: "b", Timestamp: 2000, StudentInfo: profile("Ravi"), Analysis: analysis(0)},
		{ID: "a", Timestamp: 1000, StudentInfo: profile("Meena"), Analysis: analysis(100)},
	}
	require.NoError(t, repo.Save(ctx, records))

	if diff := cmp.Diff(records, repo.Load(ctx)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_PrependsWithFreshID(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	clock := time.UnixMilli(1_767_225_600_000)
	repo.now = func() time.Time { return clock }

	first, err := repo.Add(ctx, profile("Ravi"), analysis(40))
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	second, err := repo.Add(ctx, profile("Meena"), analysis(90))
	require.NoError(t, err)

	_, err = uuid.Parse(first.ID)
	require.NoError(t, err, "id should be a UUID")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(1_767_225_660_000), second.Timestamp)
	assert.Equal(t, clock, second.SavedAt())

	got := repo.Load(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID, "newest first")
	assert.Equal(t, "Meena", got[0].StudentInfo.Name)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestGet(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	rec, err := repo.Add(ctx, profile("Ravi"), analysis(55))
	require.NoError(t, err)

	got, ok := repo.Get(ctx, rec.ID)
	require.True(t, ok)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("get mismatch (-want +got):\n%s", diff)
	}

	_, ok = repo.Get(ctx, "nope")
	assert.False(t, ok)
}

func TestDelete_Idempotent(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	keep, err := repo.Add(ctx, profile("Ravi"), analysis(55))
	require.NoError(t, err)
	drop, err := repo.Add(ctx, profile("Meena"), analysis(65))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, drop.ID))
	once := repo.Load(ctx)
	require.NoError(t, repo.Delete(ctx, drop.ID))
	twice := repo.Load(ctx)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second delete changed state:\n%s", diff)
	}
	require.Len(t, twice, 1)
	assert.Equal(t, keep.ID, twice[0].ID)
}

func TestClear(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()
	_, err := repo.Add(ctx, profile("Ravi"), analysis(55))
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx))
	assert.Empty(t, repo.Load(ctx))
	_, ok, _ := store.Get(ctx, Key)
	assert.False(t, ok)
}

func TestLoad_CorruptValueIsEmpty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := kv.NewMemory()
	repo := NewRepository(store, zap.New(core))
	ctx := context.Background()

	for _, bad := range []string{`{not json`, `{"id":"x"}`, `[{"timestamp":"yesterday"}]`} {
		require.NoError(t, store.Put(ctx, Key, []byte(bad)))
		assert.Empty(t, repo.Load(ctx), "value %q", bad)
	}
	assert.Equal(t, 3, logs.FilterMessage("discarding unparsable saved records").Len())

	// A corrupt list is replaced on the next add.
	_, err := repo.Add(ctx, profile("Ravi"), analysis(55))
	require.NoError(t, err)
	assert.Len(t, repo.Load(ctx), 1)
}

type failingStore struct{ kv.Memory }

func (f *failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (f *failingStore) Put(context.Context, string, []byte) error {
	return errors.New("connection refused")
}

func TestBackendErrors(t *testing.T) {
	repo := NewRepository(&failingStore{}, nil)
	ctx := context.Background()

	assert.Empty(t, repo.Load(ctx))
	_, err := repo.Add(ctx, profile("Ravi"), analysis(1))
	assert.Error(t, err)
}
