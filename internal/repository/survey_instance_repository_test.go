package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"changeready_go/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/gorm"
)

const lockQuery = "SELECT \\* FROM `survey_instances` WHERE id = \\? AND company_id = \\? ORDER BY .* LIMIT \\? FOR UPDATE"

func intPtr(v int) *int { return &v }

func TestSurveyInstanceRepository_SaveAnswers_UpsertAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyInstanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(uint(5), uint(1), 1).
		WillReturnRows(instanceRows("DRAFT", nil))
	mock.ExpectExec("INSERT INTO `survey_answers` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM `survey_answers` WHERE instance_id = \\? AND question_id = \\?").
		WithArgs(uint(5), "A1.2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE `survey_instances` SET .* WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	guardCalled := false
	err := repo.SaveAnswers(context.Background(), 5, 1, func(inst *model.SurveyInstance) error {
		guardCalled = true
		if inst.Status != model.StatusDraft {
			t.Fatalf("expect DRAFT instance in guard, got %s", inst.Status)
		}
		return nil
	}, []model.AnswerChange{
		{QuestionID: "A1.1", Value: intPtr(4)},
		{QuestionID: "A1.2", Value: nil},
	})
	if err != nil {
		t.Fatalf("SaveAnswers() error: %v", err)
	}
	if !guardCalled {
		t.Fatalf("guard should be called inside the transaction")
	}
	expectMet(t, mock)
}

// guard 拒绝时整个批次回滚，不会写入任何答案。
func TestSurveyInstanceRepository_SaveAnswers_GuardRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyInstanceRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(uint(5), uint(1), 1).
		WillReturnRows(instanceRows("SUBMITTED", &now))
	mock.ExpectRollback()

	rejected := errors.New("not draft")
	err := repo.SaveAnswers(context.Background(), 5, 1, func(inst *model.SurveyInstance) error {
		return rejected
	}, []model.AnswerChange{{QuestionID: "A1.1", Value: intPtr(2)}})
	if !errors.Is(err, rejected) {
		t.Fatalf("expect guard error, got %v", err)
	}
	expectMet(t, mock)
}

func TestSurveyInstanceRepository_SaveAnswers_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyInstanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(uint(5), uint(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.SaveAnswers(context.Background(), 5, 2, nil, nil)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expect ErrRecordNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestSurveyInstanceRepository_Submit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyInstanceRepository(db)

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(uint(5), uint(1), 1).
		WillReturnRows(instanceRows("DRAFT", nil))
	mock.ExpectExec("UPDATE `survey_instances` SET .* WHERE id = \\? AND status = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inst, err := repo.Submit(context.Background(), 5, 1, nil, at)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if inst.Status != model.StatusSubmitted || inst.SubmittedAt == nil || !inst.SubmittedAt.Equal(at) {
		t.Fatalf("unexpected instance after submit: %+v", inst)
	}
	expectMet(t, mock)
}

// 条件更新未命中（并发提交已抢先）时返回 ErrInstanceNotDraft 并回滚。
func TestSurveyInstanceRepository_Submit_LostRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyInstanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(uint(5), uint(1), 1).
		WillReturnRows(instanceRows("DRAFT", nil))
	mock.ExpectExec("UPDATE `survey_instances` SET .* WHERE id = \\? AND status = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Submit(context.Background(), 5, 1, nil, time.Now())
	if !errors.Is(err, ErrInstanceNotDraft) {
		t.Fatalf("expect ErrInstanceNotDraft, got %v", err)
	}
	expectMet(t, mock)
}

func TestSurveyInstanceRepository_DeleteWithAnswers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyInstanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `survey_instances` WHERE id = \\? AND company_id = \\?").
		WithArgs(uint(5), uint(1), 1).
		WillReturnRows(instanceRows("SUBMITTED", nil))
	mock.ExpectExec("DELETE FROM `survey_answers` WHERE instance_id = \\?").
		WithArgs(uint(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `survey_instances` WHERE id = \\? AND company_id = \\?").
		WithArgs(uint(5), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.DeleteWithAnswers(context.Background(), 5, 1); err != nil {
		t.Fatalf("DeleteWithAnswers() error: %v", err)
	}
	expectMet(t, mock)
}

func TestSurveyInstanceRepository_DeleteWithAnswers_OtherCompany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyInstanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `survey_instances` WHERE id = \\? AND company_id = \\?").
		WithArgs(uint(5), uint(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.DeleteWithAnswers(context.Background(), 5, 2)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expect ErrRecordNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestSurveyInstanceRepository_CountByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyInstanceRepository(db)

	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) AS total FROM `survey_instances` WHERE company_id = \\? GROUP BY .*status").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).
			AddRow("DRAFT", 2).
			AddRow("SUBMITTED", 5))

	counts, err := repo.CountByStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("CountByStatus() error: %v", err)
	}
	if counts[model.StatusDraft] != 2 || counts[model.StatusSubmitted] != 5 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	expectMet(t, mock)
}

func TestSurveyInstanceRepository_FindSubmittedByCompany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSurveyInstanceRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `survey_instances` WHERE company_id = \\? AND status = \\? ORDER BY submitted_at ASC, id ASC").
		WithArgs(uint(1), model.StatusSubmitted).
		WillReturnRows(instanceRows("SUBMITTED", &now))

	list, err := repo.FindSubmittedByCompany(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindSubmittedByCompany() error: %v", err)
	}
	if len(list) != 1 || list[0].Department != model.DepartmentIT {
		t.Fatalf("unexpected list: %+v", list)
	}
	expectMet(t, mock)
}
