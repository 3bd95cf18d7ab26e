package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

type memoryCardRepo struct {
	mu      sync.Mutex
	seq     int
	cards   map[string]*models.ReportCard
	upserts int
}

func newMemoryCardRepo() *memoryCardRepo {
	return &memoryCardRepo{cards: map[string]*models.ReportCard{}}
}

func (r *memoryCardRepo) find(studentID, periodID string) *models.ReportCard {
	for _, c := range r.cards {
		if c.StudentID == studentID && c.PeriodID == periodID {
			return c
		}
	}
	return nil
}

func (r *memoryCardRepo) Upsert(ctx context.Context, card *models.ReportCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if existing := r.find(card.StudentID, card.PeriodID); existing != nil {
		if existing.Status == models.ReportCardShared {
			*card = *existing
			return nil
		}
		card.ID = existing.ID
	} else {
		r.seq++
		card.ID = fmt.Sprintf("card-%d", r.seq)
	}
	clone := *card
	r.cards[card.ID] = &clone
	return nil
}

func (r *memoryCardRepo) FindByID(ctx context.Context, id string) (*models.ReportCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cards[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r *memoryCardRepo) FindByStudentPeriod(ctx context.Context, studentID, periodID string) (*models.ReportCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.find(studentID, periodID); c != nil {
		clone := *c
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r *memoryCardRepo) ListByClassPeriod(ctx context.Context, classID, periodID string) ([]models.ReportCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ReportCard
	for _, c := range r.cards {
		if c.ClassID == classID && c.PeriodID == periodID {
			out = append(out, *c)
		}
	}
	sortByRank(out)
	return out, nil
}

func (r *memoryCardRepo) MarkShared(ctx context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok || c.Status != models.ReportCardClosed {
		return false, nil
	}
	c.Status = models.ReportCardShared
	c.SharedAt = &at
	return true, nil
}

type recordingNotifier struct {
	shared []models.ReportCard
}

func (n *recordingNotifier) ReportCardShared(card models.ReportCard) {
	n.shared = append(n.shared, card)
}

type reportCardFixture struct {
	svc         *ReportCardService
	cards       *memoryCardRepo
	evaluations *memoryEvaluationRepo
	periods     *stubPeriodRepo
	enrollments *stubEnrollmentRepo
	rules       *PromotionRuleService
	ruleRepo    *memoryRuleRepo
	notifier    *recordingNotifier
}

func newReportCardFixture() *reportCardFixture {
	evaluations := &memoryEvaluationRepo{}
	periods := &stubPeriodRepo{periods: map[string]*models.Period{
		"S1": {ID: "S1", SchoolYear: "2024-2025", Semester: 1},
	}}
	enrollments := &stubEnrollmentRepo{classes: map[string]string{"alice": "6A", "bob": "6A", "carla": "6A", "dan": "6A"}}
	subjects := &stubSubjectRepo{subjects: []models.ClassSubject{
		{SubjectID: "math", SubjectName: "Mathématiques", Coefficient: 4},
		{SubjectID: "fr", SubjectName: "Français", Coefficient: 3},
	}}
	grades := NewEvaluationService(evaluations, periods, enrollments, subjects, DefaultGradingPolicy(), nil, nil)
	classes := &stubClassRepo{classes: map[string]*models.Class{"6A": {ID: "6A", Name: "6e A", SchoolYear: "2024-2025"}}}
	ruleRepo := &memoryRuleRepo{}
	rules := newRuleService(ruleRepo)
	cards := newMemoryCardRepo()
	notifier := &recordingNotifier{}

	svc := NewReportCardService(ReportCardDeps{
		Cards:       cards,
		Grades:      grades,
		Periods:     periods,
		Enrollments: enrollments,
		Classes:     classes,
		Rules:       rules,
		Notifier:    notifier,
		Cache:       NewCacheService(newMemoryCache(), nil, time.Minute, nil, true),
		CacheTTL:    time.Minute,
	})

	evaluations.add("alice", "math", models.CategoryFormal, 17)
	evaluations.add("bob", "math", models.CategoryFormal, 17)
	evaluations.add("carla", "math", models.CategoryFormal, 15)
	evaluations.add("dan", "math", models.CategoryFormal, 12)

	return &reportCardFixture{
		svc: svc, cards: cards, evaluations: evaluations, periods: periods,
		enrollments: enrollments, rules: rules, ruleRepo: ruleRepo, notifier: notifier,
	}
}

func (f *reportCardFixture) closePeriod() {
	f.periods.periods["S1"].Closed = true
}

func TestReportCardOpenPeriodWithholdsAggregates(t *testing.T) {
	f := newReportCardFixture()
	card, err := f.svc.Generate(context.Background(), GenerateReportCardRequest{StudentID: "alice", PeriodID: "S1"})
	require.NoError(t, err)

	assert.Equal(t, models.ReportCardInProgress, card.Status)
	assert.Equal(t, "en préparation", card.StatusLabel)
	assert.Nil(t, card.OverallAverage)
	assert.Nil(t, card.Rank)
	assert.Nil(t, card.Mention)
	assert.Nil(t, card.Passed)
	require.Len(t, card.Subjects, 2)
	assert.Equal(t, 17.0, card.Subjects[0].Average)
	assert.Zero(t, f.cards.upserts)
}

func TestReportCardClassRanking(t *testing.T) {
	f := newReportCardFixture()
	f.closePeriod()

	cards, err := f.svc.GenerateForClass(context.Background(), "6A", "S1")
	require.NoError(t, err)
	require.Len(t, cards, 4)

	ranks := make([]int, 0, len(cards))
	for _, card := range cards {
		require.NotNil(t, card.Rank)
		ranks = append(ranks, *card.Rank)
		assert.Equal(t, 4, card.ClassSize)
		assert.Equal(t, models.ReportCardClosed, card.Status)
		require.NotNil(t, card.PromotionEligible)
		assert.True(t, *card.PromotionEligible)
		assert.NotEmpty(t, card.ID)
	}
	assert.Equal(t, []int{1, 1, 3, 4}, ranks)
	assert.Equal(t, []string{"alice", "bob", "carla", "dan"}, []string{cards[0].StudentID, cards[1].StudentID, cards[2].StudentID, cards[3].StudentID})
	assert.Equal(t, models.MentionTresBien, *cards[0].Mention)
	assert.Equal(t, models.MentionBien, *cards[2].Mention)
	assert.Equal(t, models.MentionAssezBien, *cards[3].Mention)
	assert.Equal(t, 4, f.cards.upserts)
}

func TestReportCardStudentWithoutGradesStaysInProgress(t *testing.T) {
	f := newReportCardFixture()
	f.enrollments.classes["eve"] = "6A"
	f.closePeriod()

	eve, err := f.svc.Generate(context.Background(), GenerateReportCardRequest{StudentID: "eve", PeriodID: "S1"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportCardInProgress, eve.Status)
	assert.Nil(t, eve.OverallAverage)

	dan, err := f.svc.Generate(context.Background(), GenerateReportCardRequest{StudentID: "dan", PeriodID: "S1"})
	require.NoError(t, err)
	assert.Equal(t, 4, *dan.Rank)
	assert.Equal(t, 5, dan.ClassSize)
}

func TestReportCardPromotionConditions(t *testing.T) {
	f := newReportCardFixture()
	_, err := f.rules.SetActive(context.Background(), SetPromotionRuleRequest{
		MinimumAverage: 10,
		Conditions:     models.RuleConditions{"math": 16},
	}, adminActor)
	require.NoError(t, err)
	f.closePeriod()

	cards, err := f.svc.GenerateForClass(context.Background(), "6A", "S1")
	require.NoError(t, err)
	eligible := map[string]bool{}
	for _, card := range cards {
		eligible[card.StudentID] = *card.PromotionEligible
	}
	assert.Equal(t, map[string]bool{"alice": true, "bob": true, "carla": false, "dan": false}, eligible)
}

func TestReportCardShare(t *testing.T) {
	f := newReportCardFixture()
	f.closePeriod()
	ctx := context.Background()

	card, err := f.svc.Generate(ctx, GenerateReportCardRequest{StudentID: "carla", PeriodID: "S1"})
	require.NoError(t, err)

	_, err = f.svc.Share(ctx, card.ID, teacherActor)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	shared, err := f.svc.Share(ctx, card.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, models.ReportCardShared, shared.Status)
	assert.Equal(t, "partagé", shared.StatusLabel)
	require.NotNil(t, shared.SharedAt)
	require.Len(t, f.notifier.shared, 1)
	assert.Equal(t, card.ID, f.notifier.shared[0].ID)

	again, err := f.svc.Share(ctx, card.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, models.ReportCardShared, again.Status)
	assert.Len(t, f.notifier.shared, 1)

	_, err = f.svc.Share(ctx, "missing", adminActor)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestReportCardSharedSnapshotIsNotRecomputed(t *testing.T) {
	f := newReportCardFixture()
	f.closePeriod()
	ctx := context.Background()

	card, err := f.svc.Generate(ctx, GenerateReportCardRequest{StudentID: "carla", PeriodID: "S1"})
	require.NoError(t, err)
	_, err = f.svc.Share(ctx, card.ID, adminActor)
	require.NoError(t, err)

	f.evaluations.add("carla", "math", models.CategoryFormal, 20)

	again, err := f.svc.Generate(ctx, GenerateReportCardRequest{StudentID: "carla", PeriodID: "S1"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportCardShared, again.Status)
	assert.Equal(t, 15.0, *again.OverallAverage)

	cards, err := f.svc.GenerateForClass(ctx, "6A", "S1")
	require.NoError(t, err)
	for _, c := range cards {
		if c.StudentID == "carla" {
			assert.Equal(t, 15.0, *c.OverallAverage)
			assert.Equal(t, models.ReportCardShared, c.Status)
		}
	}
}

func TestReportCardExports(t *testing.T) {
	f := newReportCardFixture()
	ctx := context.Background()

	_, _, err := f.svc.ExportClassCSV(ctx, "6A", "S1")
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed))

	f.closePeriod()
	payload, filename, err := f.svc.ExportClassCSV(ctx, "6A", "S1")
	require.NoError(t, err)
	assert.Equal(t, "classement_6A_2024-2025_S1.csv", filename)
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(payload), "\ufeff")), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "rang;eleve_id;moyenne_generale;mention;reussi;promotion;statut", lines[0])
	assert.Equal(t, "1;alice;17.00;Très Bien;oui;oui;clôturé", lines[1])

	card, err := f.cards.FindByStudentPeriod(ctx, "dan", "S1")
	require.NoError(t, err)
	pdf, pdfName, err := f.svc.ExportPDF(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "bulletin_dan_2024-2025_S1.pdf", pdfName)
}

func TestBulletinDocumentInProgress(t *testing.T) {
	card := BuildReportCard(models.Period{ID: "S1", SchoolYear: "2024-2025", Semester: 1}, []models.SubjectAverage{
		{SubjectID: "math", SubjectName: "Mathématiques", Coefficient: 4, Average: 12, Evaluated: true},
	}, nil)
	doc := bulletinDocument(card, "6e A")
	assert.Empty(t, doc.Summary)
	assert.NotEmpty(t, doc.Note)
	assert.Equal(t, "12.00", doc.Table.Rows[0]["Moyenne"])
}

func TestReportCardEligibilityUsesStoredRuleOverCachedCopy(t *testing.T) {
	f := newReportCardFixture()
	ctx := context.Background()
	_, err := f.rules.SetActive(ctx, SetPromotionRuleRequest{MinimumAverage: 10}, adminActor)
	require.NoError(t, err)
	cached, err := f.rules.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, cached.MinimumAverage)

	// A stricter rule activated by another instance, while this one still caches the old rule.
	require.NoError(t, f.ruleRepo.Activate(ctx, &models.PromotionRule{MinimumAverage: 16, Conditions: models.RuleConditions{}}))
	f.closePeriod()

	cards, err := f.svc.GenerateForClass(ctx, "6A", "S1")
	require.NoError(t, err)
	eligible := map[string]bool{}
	for _, card := range cards {
		require.NotNil(t, card.PromotionEligible)
		eligible[card.StudentID] = *card.PromotionEligible
	}
	assert.True(t, eligible["alice"])
	assert.False(t, eligible["carla"])
	assert.False(t, eligible["dan"])

	served, err := f.rules.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16.0, served.MinimumAverage)
}
