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

func groupRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "icon", "impact", "description", "company_id", "created_at", "updated_at",
	}).AddRow(3, "IT", "people", "HOCH", "", 1, now, now)
}

func TestStakeholderRepository_CreateGroup_Validation(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewStakeholderRepository(db)

	if err := repo.CreateGroup(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil group, got nil")
	}
	if err := repo.CreateGroup(context.Background(), &model.StakeholderGroup{Name: "IT"}); err == nil {
		t.Fatal("expected error for missing company, got nil")
	}
}

func TestStakeholderRepository_DeleteGroup_PersonsFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStakeholderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `stakeholder_groups` WHERE id = \\? AND company_id = \\?").
		WithArgs(uint(3), uint(1), 1).
		WillReturnRows(groupRows())
	mock.ExpectExec("DELETE FROM `stakeholder_persons` WHERE group_id = \\?").
		WithArgs(uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `stakeholder_groups` WHERE id = \\? AND company_id = \\?").
		WithArgs(uint(3), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.DeleteGroup(context.Background(), 3, 1); err != nil {
		t.Fatalf("DeleteGroup() error: %v", err)
	}
	expectMet(t, mock)
}

func TestStakeholderRepository_DeleteGroup_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStakeholderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `stakeholder_groups` WHERE id = \\? AND company_id = \\?").
		WithArgs(uint(3), uint(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.DeleteGroup(context.Background(), 3, 2)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got: %v", err)
	}
	expectMet(t, mock)
}

func TestStakeholderRepository_UpdateGroup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStakeholderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `stakeholder_groups` WHERE id = \\? AND company_id = \\?").
		WithArgs(uint(3), uint(1), 1).
		WillReturnRows(groupRows())
	mock.ExpectExec("UPDATE `stakeholder_groups` SET .* WHERE id = \\? AND company_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	g := &model.StakeholderGroup{ID: 3, CompanyID: 1, Name: "IT", Icon: "laptop", Impact: model.ImpactHoch}
	if err := repo.UpdateGroup(context.Background(), g); err != nil {
		t.Fatalf("UpdateGroup() error: %v", err)
	}
	expectMet(t, mock)
}

func TestStakeholderRepository_AddPerson_ForeignGroup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStakeholderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `stakeholder_groups` WHERE id = \\? AND company_id = \\?").
		WithArgs(uint(3), uint(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.AddPerson(context.Background(), 2, &model.StakeholderPerson{GroupID: 3, Name: "Eva"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got: %v", err)
	}
	expectMet(t, mock)
}

func TestStakeholderRepository_CountPersonsByCompany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStakeholderRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `stakeholder_persons` JOIN stakeholder_groups .* WHERE stakeholder_groups.company_id = \\?").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(4))

	n, err := repo.CountPersonsByCompany(context.Background(), 1)
	if err != nil {
		t.Fatalf("CountPersonsByCompany() error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expect 4, got %d", n)
	}
	expectMet(t, mock)
}

func TestMeasureRepository_CountActiveByCompany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMeasureRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `measures` WHERE company_id = \\? AND status IN \\(\\?,\\?\\)").
		WithArgs(uint(1), model.MeasureOpen, model.MeasureInProgress).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	n, err := repo.CountActiveByCompany(context.Background(), 1)
	if err != nil {
		t.Fatalf("CountActiveByCompany() error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expect 3, got %d", n)
	}
	expectMet(t, mock)
}
