package recipe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-importer/internal/core/cache"
	"recipe-importer/internal/core/parser"
	"recipe-importer/internal/core/queue"
	"recipe-importer/internal/core/service"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const pastedSheet = "Recipe Name\tGarlic Bread\n\n\n1\tSlice the bread\n2\tSpread garlic butter"

func newImportService(t *testing.T) *ImportService {
	t.Helper()
	cm := cache.NewManager(config.CacheConfig{
		Enabled:         true,
		MaxSize:         10,
		TTL:             time.Minute,
		CleanupInterval: time.Hour,
	}, nil)
	t.Cleanup(func() { _ = cm.Close() })
	return NewImportService(NewService(cm), parser.New(parser.Options{}))
}

func TestImportUsesCache(t *testing.T) {
	svc := newImportService(t)
	ctx := context.Background()

	first, err := svc.Import(ctx, pastedSheet)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if first.Cached || first.Recipe.RecipeID != "garlic-bread" || len(first.Recipe.Preparation) != 2 {
		t.Fatalf("first = %+v", first)
	}

	second, err := svc.Import(ctx, pastedSheet)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !second.Cached {
		t.Error("second import should come from cache")
	}
	if second.Recipe.Name != first.Recipe.Name || len(second.Recipe.Preparation) != 2 {
		t.Errorf("cached recipe = %+v", second.Recipe)
	}
}

func TestImportLogsSummary(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	prev := common.Logger
	common.SetLogger(zap.New(core))
	defer common.SetLogger(prev)

	svc := NewImportService(NewService(nil), parser.New(parser.Options{}))
	if _, err := svc.Import(context.Background(), pastedSheet); err != nil {
		t.Fatalf("Import: %v", err)
	}

	entries := observed.FilterMessage("解析完成").All()
	if len(entries) != 1 {
		t.Fatalf("summary entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["recipe_id"] != "garlic-bread" || fields["steps"] != int64(2) {
		t.Errorf("fields = %v", fields)
	}
}

func TestImportTooShort(t *testing.T) {
	svc := newImportService(t)
	if _, err := svc.Import(context.Background(), "Recipe Name\tX"); !errors.Is(err, parser.ErrTooShortInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestImportBatchKeepsOrder(t *testing.T) {
	svc := newImportService(t)
	q := queue.NewManager(config.QueueConfig{Workers: 3, MaxSize: 10}, svc.Parse)
	defer q.Close()
	batch := NewBatchService(q, 10)

	docs := []string{
		pastedSheet,
		"too short",
		strings.Replace(pastedSheet, "Garlic Bread", "Toast", 1),
	}
	items := batch.ImportBatch(context.Background(), docs)
	if len(items) != 3 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Err != nil || items[0].Result.Recipe.RecipeID != "garlic-bread" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if !errors.Is(items[1].Err, parser.ErrTooShortInput) || items[1].Index != 1 {
		t.Errorf("item 1 = %+v", items[1])
	}
	if items[2].Err != nil || items[2].Result.Recipe.RecipeID != "toast" {
		t.Errorf("item 2 = %+v", items[2])
	}
}

func TestSaveFillsReviewFields(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":false}`))
	}))
	defer srv.Close()

	svc := NewSaveService(service.NewRecipeStore(config.StoreConfig{BaseURL: srv.URL, Timeout: time.Second}))
	resp, err := svc.Save(context.Background(), SaveRequest{
		Recipe:        common.Recipe{Name: " Garlic Bread "},
		DaysAvailable: []string{"fri"},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if gotPath != "/recipes/garlic-bread" || resp.RecipeID != "garlic-bread" {
		t.Errorf("path = %q resp = %+v", gotPath, resp)
	}

	_, err = svc.Save(context.Background(), SaveRequest{Recipe: common.Recipe{Name: "Garlic Bread"}})
	if !common.IsValidationError(err) {
		t.Errorf("missing daysAvailable: err = %v", err)
	}
}
