package export

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend-roadcover/internal/coverage"
	"backend-roadcover/internal/network"

	"github.com/gofiber/fiber/v2"
)

func testState(t *testing.T) (*network.Index, *coverage.Store) {
	t.Helper()
	idx, err := network.Parse([]byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type":"Feature","properties":{"id":"S1","polygon":"north","highway":"residential"},"geometry":{"type":"LineString","coordinates":[[106.8,-6.2],[106.81,-6.21],[106.82,-6.22]]}},
			{"type":"Feature","properties":{"id":"S2"},"geometry":{"type":"LineString","coordinates":[[1,1],[1,1.001]]}}
		]
	}`))
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	return idx, coverage.NewStore(idx)
}

func TestExportGeoJSONPreservesCoordinateOrder(t *testing.T) {
	idx, store := testState(t)
	store.MarkAutoCovered("S1", time.Now(), -6.2, 106.8, 5)

	payload, contentType, err := Export(store.Snapshot(), idx, FormatGeoJSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if contentType != "application/geo+json" {
		t.Fatalf("unexpected content type: %s", contentType)
	}

	var fc featureCollection
	if err := json.Unmarshal(payload, &fc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected exactly one feature, got %d", len(fc.Features))
	}

	feat := fc.Features[0]
	if feat.Properties["id"] != "S1" {
		t.Fatalf("unexpected feature: %+v", feat.Properties)
	}
	// Longitude first, exactly as in the input catalog.
	if feat.Geometry.Coordinates[0] != [2]float64{106.8, -6.2} {
		t.Fatalf("coordinate order not preserved: %v", feat.Geometry.Coordinates[0])
	}
}

func TestExportJSONAndCSV(t *testing.T) {
	idx, store := testState(t)
	store.MarkAutoCovered("S1", time.Now(), -6.2, 106.8, 5)
	store.SetManual("S2", coverage.ManualComplete)

	payload, _, err := Export(store.Snapshot(), idx, FormatJSON)
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	var out map[string][]string
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out["covered_roads"]) != 2 || out["covered_roads"][0] != "S1" {
		t.Fatalf("unexpected json export: %v", out)
	}

	payload, contentType, err := Export(store.Snapshot(), idx, FormatCSV)
	if err != nil {
		t.Fatalf("csv export: %v", err)
	}
	if contentType != "text/csv" {
		t.Fatalf("unexpected content type: %s", contentType)
	}
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	if len(lines) != 3 || lines[0] != "feature_id,status" {
		t.Fatalf("unexpected csv: %q", lines)
	}
	if lines[1] != "S1,covered" || lines[2] != "S2,complete" {
		t.Fatalf("unexpected csv rows: %q", lines)
	}
}

func TestExportExcludesUncoveredAndIncomplete(t *testing.T) {
	idx, store := testState(t)
	store.MarkAutoCovered("S1", time.Now(), -6.2, 106.8, 5)
	store.SetManual("S1", coverage.ManualIncomplete)

	payload, _, err := Export(store.Snapshot(), idx, FormatJSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var out map[string][]string
	json.Unmarshal(payload, &out)
	if len(out["covered_roads"]) != 0 {
		t.Fatalf("incomplete segment must not export: %v", out)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	idx, store := testState(t)
	if _, _, err := Export(store.Snapshot(), idx, "xml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExportHandler(t *testing.T) {
	idx, store := testState(t)
	store.MarkAutoCovered("S1", time.Now(), -6.2, 106.8, 5)

	app := fiber.New()
	RegisterRoutes(app.Group("/export"), store, idx)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/export/geojson", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("geojson: %v %d", err, resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Disposition"); got != "attachment; filename=covered_roads.geojson" {
		t.Fatalf("unexpected disposition: %s", got)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/export/xml", nil))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported format")
	}
}
