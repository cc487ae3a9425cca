package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// 答案查询必须 JOIN 实例表并带公司条件。
func TestSurveyAnswerRepository_FindByInstances_ScopedByCompany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyAnswerRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT survey_answers.\\* FROM `survey_answers` JOIN survey_instances ON survey_instances.id = survey_answers.instance_id WHERE survey_instances.company_id = \\? AND survey_answers.instance_id IN \\(\\?,\\?\\)").
		WithArgs(uint(1), uint(5), uint(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "instance_id", "question_id", "value", "created_at", "updated_at"}).
			AddRow(1, 5, "A1.1", 5, now, now).
			AddRow(2, 6, "A1.1", 3, now, now))

	answers, err := repo.FindByInstances(context.Background(), 1, []uint{5, 6})
	if err != nil {
		t.Fatalf("FindByInstances() error: %v", err)
	}
	if len(answers) != 2 || answers[1].Value != 3 {
		t.Fatalf("unexpected answers: %+v", answers)
	}
	expectMet(t, mock)
}

func TestSurveyAnswerRepository_FindByInstances_EmptyIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyAnswerRepository(db)

	answers, err := repo.FindByInstances(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("FindByInstances() error: %v", err)
	}
	if len(answers) != 0 {
		t.Fatalf("expect no answers, got %d", len(answers))
	}
	expectMet(t, mock)
}

func TestSurveyAnswerRepository_CountByInstances(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyAnswerRepository(db)

	mock.ExpectQuery("SELECT survey_answers.instance_id AS instance_id, COUNT\\(\\*\\) AS total FROM `survey_answers` JOIN survey_instances .* GROUP BY .*instance_id").
		WithArgs(uint(1), uint(5), uint(6)).
		WillReturnRows(sqlmock.NewRows([]string{"instance_id", "total"}).AddRow(5, 12))

	counts, err := repo.CountByInstances(context.Background(), 1, []uint{5, 6})
	if err != nil {
		t.Fatalf("CountByInstances() error: %v", err)
	}
	if counts[5] != 12 || counts[6] != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	expectMet(t, mock)
}
