package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/export"
)

type reportCardRepository interface {
	Upsert(ctx context.Context, card *models.ReportCard) error
	FindByID(ctx context.Context, id string) (*models.ReportCard, error)
	FindByStudentPeriod(ctx context.Context, studentID, periodID string) (*models.ReportCard, error)
	ListByClassPeriod(ctx context.Context, classID, periodID string) ([]models.ReportCard, error)
	MarkShared(ctx context.Context, id string, at time.Time) (bool, error)
}

type gradeSource interface {
	ClassSubjectAverages(ctx context.Context, classID string, period models.Period, studentIDs []string) (map[string][]models.SubjectAverage, error)
}

type activeRuleSource interface {
	ConfirmActive(ctx context.Context) (*models.PromotionRule, error)
}

type shareNotifier interface {
	ReportCardShared(card models.ReportCard)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// GenerateReportCardRequest asks for one student's card. ClassID defaults to
// the student's active enrollment for the period's school year.
type GenerateReportCardRequest struct {
	StudentID string `json:"eleve_id" validate:"required"`
	PeriodID  string `json:"periode_id" validate:"required"`
	ClassID   string `json:"classe_id"`
}

// ReportCardDeps groups the collaborators of ReportCardService.
type ReportCardDeps struct {
	Cards       reportCardRepository
	Grades      gradeSource
	Periods     periodReader
	Enrollments enrollmentReader
	Classes     classReader
	Rules       activeRuleSource
	Notifier    shareNotifier
	Cache       *CacheService
	CacheTTL    time.Duration
	Metrics     *MetricsService
	PDF         pdfRenderer
	CSV         csvRenderer
	Logger      *zap.Logger
}

// ReportCardService builds, stores and publishes report cards.
type ReportCardService struct {
	cards       reportCardRepository
	grades      gradeSource
	periods     periodReader
	enrollments enrollmentReader
	classes     classReader
	rules       activeRuleSource
	notifier    shareNotifier
	cache       *CacheService
	cacheTTL    time.Duration
	metrics     *MetricsService
	pdf         pdfRenderer
	csv         csvRenderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewReportCardService constructs the report card service.
func NewReportCardService(deps ReportCardDeps) *ReportCardService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.PDF == nil {
		deps.PDF = export.NewPDFExporter()
	}
	if deps.CSV == nil {
		deps.CSV = export.NewCSVExporter(0)
	}
	return &ReportCardService{
		cards:       deps.Cards,
		grades:      deps.Grades,
		periods:     deps.Periods,
		enrollments: deps.Enrollments,
		classes:     deps.Classes,
		rules:       deps.Rules,
		notifier:    deps.Notifier,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		metrics:     deps.Metrics,
		pdf:         deps.PDF,
		csv:         deps.CSV,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// Generate builds the card of one student. Cards of closed periods are stored;
// a shared card is returned as stored.
func (s *ReportCardService) Generate(ctx context.Context, req GenerateReportCardRequest) (*models.ReportCard, error) {
	if req.StudentID == "" || req.PeriodID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student and period are required")
	}
	period, err := s.loadPeriod(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}
	if stored, err := s.cards.FindByStudentPeriod(ctx, req.StudentID, period.ID); err == nil && stored.Status == models.ReportCardShared {
		stored.StatusLabel = stored.Status.Label()
		return stored, nil
	} else if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report card")
	}

	classID := req.ClassID
	if classID == "" {
		enrollment, err := s.enrollments.FindActiveByStudent(ctx, req.StudentID, period.SchoolYear)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no active enrollment for the period")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
		}
		classID = enrollment.ClassID
	}

	cards, err := s.buildClass(ctx, classID, *period)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].StudentID == req.StudentID {
			return &cards[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this class")
}

// GenerateForClass builds the cards of every student of a class, best rank first.
func (s *ReportCardService) GenerateForClass(ctx context.Context, classID, periodID string) ([]models.ReportCard, error) {
	if _, err := s.loadClass(ctx, classID); err != nil {
		return nil, err
	}
	period, err := s.loadPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	cards, err := s.buildClass(ctx, classID, *period)
	if err != nil {
		return nil, err
	}
	sortByRank(cards)
	s.logger.Info("class report cards generated",
		zap.String("class_id", classID),
		zap.String("period_id", period.ID),
		zap.Int("count", len(cards)),
		zap.Bool("closed", period.Closed))
	return cards, nil
}

// Get returns a stored report card.
func (s *ReportCardService) Get(ctx context.Context, id string) (*models.ReportCard, error) {
	var cached models.ReportCard
	if hit, _ := s.cache.Get(ctx, reportCardCacheKey(id), &cached); hit {
		cached.StatusLabel = cached.Status.Label()
		return &cached, nil
	}
	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report card not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report card")
	}
	card.StatusLabel = card.Status.Label()
	if card.Status == models.ReportCardShared {
		_ = s.cache.Set(ctx, reportCardCacheKey(card.ID), card, s.cacheTTL)
	}
	return card, nil
}

// Share publishes a closed card to the student's family. Sharing a shared card
// returns it unchanged without a second notification.
func (s *ReportCardService) Share(ctx context.Context, id string, actor *models.JWTClaims) (*models.ReportCard, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.IsAdministrator() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators may share report cards")
	}
	card, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.Status == models.ReportCardShared {
		return card, nil
	}
	if card.Status != models.ReportCardClosed {
		return nil, appErrors.Clone(appErrors.ErrInvalidStateTransition, fmt.Sprintf("report card is %s", card.Status.Label()))
	}

	moved, err := s.cards.MarkShared(ctx, id, s.now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to share report card")
	}
	card, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !moved {
		if card.Status == models.ReportCardShared {
			return card, nil
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidStateTransition, fmt.Sprintf("report card is %s", card.Status.Label()))
	}

	s.metrics.RecordReportCard(string(models.ReportCardShared))
	if s.notifier != nil {
		s.notifier.ReportCardShared(*card)
	}
	s.logger.Info("report card shared",
		zap.String("report_card_id", card.ID),
		zap.String("student_id", card.StudentID),
		zap.String("shared_by", actor.UserID))
	return card, nil
}

// ExportPDF renders a stored card as a printable bulletin.
func (s *ReportCardService) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	className := card.ClassID
	if class, err := s.classes.FindByID(ctx, card.ClassID); err == nil {
		className = class.Name
	}
	payload, err := s.pdf.Render(bulletinDocument(*card, className))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render bulletin")
	}
	filename := fmt.Sprintf("bulletin_%s_%s_S%d.pdf", card.StudentID, card.SchoolYear, card.Semester)
	return payload, filename, nil
}

// ExportClassCSV renders the ranking sheet of a closed period.
func (s *ReportCardService) ExportClassCSV(ctx context.Context, classID, periodID string) ([]byte, string, error) {
	period, err := s.loadPeriod(ctx, periodID)
	if err != nil {
		return nil, "", err
	}
	if !period.Closed {
		return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "ranking is available once the period is closed")
	}
	cards, err := s.cards.ListByClassPeriod(ctx, classID, period.ID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list report cards")
	}
	if len(cards) == 0 {
		if cards, err = s.GenerateForClass(ctx, classID, period.ID); err != nil {
			return nil, "", err
		}
	}
	payload, err := s.csv.Render(rankingDataset(cards))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render ranking")
	}
	return payload, fmt.Sprintf("classement_%s_%s_S%d.csv", classID, period.SchoolYear, period.Semester), nil
}

// buildClass computes every card of the roster in one pass so ranks are consistent.
func (s *ReportCardService) buildClass(ctx context.Context, classID string, period models.Period) ([]models.ReportCard, error) {
	studentIDs, err := s.enrollments.ListActiveStudentIDs(ctx, classID, period.SchoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	averages, err := s.grades.ClassSubjectAverages(ctx, classID, period, studentIDs)
	if err != nil {
		return nil, err
	}
	roster := make([]*float64, len(studentIDs))
	for i, id := range studentIDs {
		roster[i] = ComputePeriodAverage(averages[id])
	}

	var rule *models.PromotionRule
	if period.Closed {
		if rule, err = s.rules.ConfirmActive(ctx); err != nil {
			return nil, err
		}
	}

	cards := make([]models.ReportCard, 0, len(studentIDs))
	for _, id := range studentIDs {
		card := BuildReportCard(period, averages[id], roster)
		card.StudentID = id
		card.ClassID = classID
		card.GeneratedAt = s.now().UTC()
		if card.Status == models.ReportCardClosed {
			eligible := RuleSatisfiedBy(*rule, *card.OverallAverage, subjectScores(card.Subjects))
			card.PromotionEligible = &eligible
			if err := s.cards.Upsert(ctx, &card); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report card")
			}
			card.StatusLabel = card.Status.Label()
		}
		s.metrics.RecordReportCard(string(card.Status))
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *ReportCardService) loadPeriod(ctx context.Context, id string) (*models.Period, error) {
	period, err := s.periods.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	return period, nil
}

func (s *ReportCardService) loadClass(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

func reportCardCacheKey(id string) string {
	return "report_cards:" + id
}

// subjectScores exposes evaluated subject averages by subject id so promotion
// conditions can target a subject.
func subjectScores(subjects []models.SubjectAverage) map[string]float64 {
	scores := make(map[string]float64, len(subjects))
	for _, subject := range subjects {
		if subject.Evaluated {
			scores[subject.SubjectID] = subject.Average
		}
	}
	return scores
}

func sortByRank(cards []models.ReportCard) {
	sort.SliceStable(cards, func(i, j int) bool {
		ri, rj := cards[i].Rank, cards[j].Rank
		switch {
		case ri != nil && rj != nil && *ri != *rj:
			return *ri < *rj
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		}
		return cards[i].StudentID < cards[j].StudentID
	})
}

func bulletinDocument(card models.ReportCard, className string) export.Document {
	doc := export.Document{
		Title: "Bulletin de notes",
		Fields: []export.Field{
			{Label: "Élève", Value: card.StudentID},
			{Label: "Classe", Value: className},
			{Label: "Année scolaire", Value: card.SchoolYear},
			{Label: "Semestre", Value: strconv.Itoa(card.Semester)},
			{Label: "Statut", Value: card.Status.Label()},
		},
		Table: export.Dataset{Headers: []string{"Matière", "Coef.", "Contrôle continu", "Composition", "Moyenne"}},
	}
	for _, subject := range card.Subjects {
		name := subject.SubjectName
		if name == "" {
			name = subject.SubjectID
		}
		average := "-"
		if subject.Evaluated {
			average = formatGrade(&subject.Average)
		}
		doc.Table.Rows = append(doc.Table.Rows, map[string]string{
			"Matière":          name,
			"Coef.":            strconv.FormatFloat(subject.Coefficient, 'f', -1, 64),
			"Contrôle continu": formatGrade(subject.ContinuousAverage),
			"Composition":      formatGrade(subject.FormalAverage),
			"Moyenne":          average,
		})
	}
	if card.OverallAverage == nil {
		doc.Note = "Bulletin en préparation : la moyenne générale, le rang et la mention seront disponibles à la clôture de la période."
		return doc
	}
	decision := "Non admis"
	if card.Passed != nil && *card.Passed {
		decision = "Admis"
	}
	doc.Summary = []export.Field{
		{Label: "Moyenne générale", Value: formatGrade(card.OverallAverage)},
		{Label: "Rang", Value: fmt.Sprintf("%s / %d", formatRank(card.Rank), card.ClassSize)},
		{Label: "Mention", Value: formatMention(card.Mention)},
		{Label: "Décision", Value: decision},
	}
	return doc
}

func rankingDataset(cards []models.ReportCard) export.Dataset {
	data := export.Dataset{Headers: []string{"rang", "eleve_id", "moyenne_generale", "mention", "reussi", "promotion", "statut"}}
	for _, card := range cards {
		data.Rows = append(data.Rows, map[string]string{
			"rang":             formatRank(card.Rank),
			"eleve_id":         card.StudentID,
			"moyenne_generale": formatGrade(card.OverallAverage),
			"mention":          formatMention(card.Mention),
			"reussi":           formatBool(card.Passed),
			"promotion":        formatBool(card.PromotionEligible),
			"statut":           card.Status.Label(),
		})
	}
	return data
}

func formatGrade(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(models.DisplayGrade(*v), 'f', 2, 64)
}

func formatRank(rank *int) string {
	if rank == nil {
		return ""
	}
	return strconv.Itoa(*rank)
}

func formatMention(mention *models.Mention) string {
	if mention == nil {
		return ""
	}
	return string(*mention)
}

func formatBool(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "oui"
	}
	return "non"
}
