package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newPGRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PGRepo{DB: db}, mock
}

func docColumns() []string {
	return []string{"id", "user_id", "file_name", "file_id", "file_url", "size_bytes", "uploaded_at", "analysis"}
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "u1", "report.pdf", "pdf_1_report.pdf", "https://x/pdf_1_report.pdf", int64(123), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), Document{
		ID:         "doc-1",
		UserID:     "u1",
		FileName:   "report.pdf",
		FileID:     "pdf_1_report.pdf",
		FileURL:    "https://x/pdf_1_report.pdf",
		Size:       123,
		UploadedAt: now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGRepoGetByFileIDScansAnalysis(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Now().UTC()
	analysisJSON := `{"summary":"Report.","key_figures":["1M"],"dates":["2024-01-01"],"topics":["revenue"]}`

	mock.ExpectQuery(`(?s)SELECT (.+) FROM documents`).
		WithArgs("u1", "pdf_1_report.pdf").
		WillReturnRows(sqlmock.NewRows(docColumns()).
			AddRow("doc-1", "u1", "report.pdf", "pdf_1_report.pdf", "https://x/p", int64(123), now, []byte(analysisJSON)))

	doc, err := repo.GetByFileID(context.Background(), "u1", "pdf_1_report.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Analysis == nil || doc.Analysis.Summary != "Report." {
		t.Fatalf("analysis not decoded: %+v", doc.Analysis)
	}
	if len(doc.Analysis.KeyFigures) != 1 || doc.Analysis.KeyFigures[0] != "1M" {
		t.Fatalf("key figures wrong: %+v", doc.Analysis.KeyFigures)
	}
}

func TestPGRepoGetByFileIDNotFound(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectQuery(`(?s)SELECT (.+) FROM documents`).
		WithArgs("u1", "pdf_missing").
		WillReturnRows(sqlmock.NewRows(docColumns()))

	_, err := repo.GetByFileID(context.Background(), "u1", "pdf_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPGRepoListAppliesFiltersAndSort(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Now().UTC()
	start := now.AddDate(0, -1, 0)

	mock.ExpectQuery(`(?s)SELECT (.+) FROM documents\s+WHERE user_id = \$1 AND file_name ILIKE \$2 AND uploaded_at >= \$3 ORDER BY size_bytes ASC`).
		WithArgs("u1", "%invoice%", start).
		WillReturnRows(sqlmock.NewRows(docColumns()).
			AddRow("doc-1", "u1", "invoice.pdf", "pdf_1_invoice.pdf", "https://x/p", int64(99), now, nil))

	docs, err := repo.List(context.Background(), "u1", ListQuery{
		Search:    "invoice",
		StartDate: &start,
		SortBy:    "size",
		SortOrder: "asc",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].Analysis != nil {
		t.Fatalf("unexpected docs: %+v", docs)
	}
}

func TestPGRepoListUnknownSortFallsBack(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectQuery(`(?s)SELECT (.+) FROM documents\s+WHERE user_id = \$1 ORDER BY uploaded_at DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(docColumns()))

	if _, err := repo.List(context.Background(), "u1", ListQuery{SortBy: "user_id; DROP TABLE documents"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGRepoSaveAnalysisNotFound(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectExec("UPDATE documents").
		WithArgs(sqlmock.AnyArg(), "u1", "pdf_missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveAnalysis(context.Background(), "u1", "pdf_missing", Analysis{Summary: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteByFileID(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("u1", "pdf_1_report.pdf").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByFileID(context.Background(), "u1", "pdf_1_report.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("u1", "pdf_gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByFileID(context.Background(), "u1", "pdf_gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
