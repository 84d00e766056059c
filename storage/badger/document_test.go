package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/storage"
)

func TestDocumentBasics(t *testing.T) {
	// Create in-memory repositories
	docRepo, linkRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		linkRepo.Close()
		docRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	doc := &core.Document{
		Name: "villa_catalog.csv",
		Path: "/corpus/villa_catalog.csv",
		Type: core.DocTypeCSV,
	}

	added, err := docRepo.AddDocuments(ctx, doc)
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(added))
	}

	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	if added[0].InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	retrieved, err := docRepo.GetDocument(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}

	if retrieved.Name != "villa_catalog.csv" {
		t.Fatalf("Expected 'villa_catalog.csv', got '%s'", retrieved.Name)
	}
	if retrieved.Type != core.DocTypeCSV {
		t.Fatalf("Expected csv type, got '%s'", retrieved.Type)
	}
}

func TestDocumentUpdate(t *testing.T) {
	docRepo, linkRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { linkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := docRepo.AddDocuments(ctx, &core.Document{
		Name: "guide.pdf",
		Path: "/corpus/guide.pdf",
		Type: core.DocTypePDF,
	})
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	added[0].Path = "/corpus/v2/guide.pdf"
	updated, err := docRepo.UpdateDocuments(ctx, added[0])
	if err != nil {
		t.Fatalf("Failed to update document: %v", err)
	}

	if !updated[0].UpdatedAt.After(updated[0].InsertedAt) {
		t.Fatal("Expected UpdatedAt to advance past InsertedAt")
	}

	retrieved, err := docRepo.GetDocument(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Path != "/corpus/v2/guide.pdf" {
		t.Fatalf("Expected updated path, got '%s'", retrieved.Path)
	}

	// Updating a missing document must fail
	_, err = docRepo.UpdateDocuments(ctx, &core.Document{Id: 9999, Name: "x", Path: "/x", Type: core.DocTypeTXT})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDocumentDelete(t *testing.T) {
	docRepo, linkRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { linkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := docRepo.AddDocuments(ctx, &core.Document{
		Name: "notes.txt",
		Path: "/corpus/notes.txt",
		Type: core.DocTypeTXT,
	})
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	if err := docRepo.DeleteDocuments(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}

	_, err = docRepo.GetDocument(ctx, added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := docRepo.DeleteDocuments(ctx, added[0].Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestDocumentListOrdering(t *testing.T) {
	docRepo, linkRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { linkRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	docs := []*core.Document{
		{Name: "a.txt", Path: "/corpus/a.txt", Type: core.DocTypeTXT},
		{Name: "b.html", Path: "/corpus/b.html", Type: core.DocTypeHTML},
		{Name: "c.docx", Path: "/corpus/c.docx", Type: core.DocTypeDOCX},
	}
	if _, err := docRepo.AddDocuments(ctx, docs...); err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	all, err := docRepo.GetDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Id >= all[i].Id {
			t.Fatalf("Expected ascending ID order, got %d before %d", all[i-1].Id, all[i].Id)
		}
	}
}
