package applications

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func seedMemoryRepo(t *testing.T, repo *MemoryRepo, userID string, n int) {
	t.Helper()
	base := time.Now().UTC().Add(-time.Duration(n) * time.Hour)
	for i := 0; i < n; i++ {
		app := testApplication()
		app.ID = fmt.Sprintf("app-%d", i+1)
		app.UserID = userID
		app.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := repo.Create(context.Background(), app); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
}

func TestMemoryRepoGetByIDScopesToUser(t *testing.T) {
	repo := NewMemoryRepo()
	seedMemoryRepo(t, repo, "user-a", 1)

	if _, err := repo.GetByID(context.Background(), "user-a", "app-1"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "user-b", "app-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	seedMemoryRepo(t, repo, "user-a", 3)

	apps, err := repo.ListByUser(context.Background(), "user-a", 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(apps) != 3 {
		t.Fatalf("expected 3 applications, got %d", len(apps))
	}
	if apps[0].ID != "app-3" || apps[2].ID != "app-1" {
		t.Fatalf("expected newest first, got %s .. %s", apps[0].ID, apps[2].ID)
	}
}

func TestMemoryRepoListPagination(t *testing.T) {
	repo := NewMemoryRepo()
	seedMemoryRepo(t, repo, "user-a", 5)

	page, err := repo.ListByUser(context.Background(), "user-a", 2, 2)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(page))
	}
	if page[0].ID != "app-3" {
		t.Fatalf("expected app-3 at offset 2, got %s", page[0].ID)
	}

	empty, err := repo.ListByUser(context.Background(), "user-a", 10, 99)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(empty))
	}
}

func TestMemoryRepoListZeroLimitUsesDefault(t *testing.T) {
	repo := NewMemoryRepo()
	seedMemoryRepo(t, repo, "user-a", 25)

	apps, err := repo.ListByUser(context.Background(), "user-a", 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(apps) != 20 {
		t.Fatalf("expected default limit of 20, got %d", len(apps))
	}
	if apps[0].ID != "app-25" {
		t.Fatalf("expected newest first, got %s", apps[0].ID)
	}
}
