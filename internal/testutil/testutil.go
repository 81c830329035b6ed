// Package testutil provides shared test helpers for setting up services and databases.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/calendar"
	"github.com/starford/dagaz/internal/index"
	"github.com/starford/dagaz/internal/models"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestService creates a calendar service with a small fixed category set,
// no holidays, and UTC slot arithmetic.
func TestService(t *testing.T) *calendar.Service {
	t.Helper()
	categories := []models.EventCategory{
		{ID: "work", Name: "Work", Visible: true},
		{ID: "personal", Name: "Personal", Visible: true},
	}
	return calendar.NewService(categories, nil, calendar.Options{Location: time.UTC})
}
