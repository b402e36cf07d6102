package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pollumap/pollumap/services/api/analytics"
	"github.com/pollumap/pollumap/services/api/chat"
	"github.com/pollumap/pollumap/services/api/config"
	"github.com/pollumap/pollumap/services/api/db"
)

type stubStore struct {
	stations []db.Station
	readings []analytics.Reading

	upserted []db.Station
	inserted []analytics.Reading
	lastQ    db.ReadingQuery
}

func (s *stubStore) ListStations(ctx context.Context) ([]db.Station, error) {
	return s.stations, nil
}

func (s *stubStore) GetStation(ctx context.Context, stationID string) (*db.Station, error) {
	for i := range s.stations {
		if s.stations[i].ID == stationID {
			return &s.stations[i], nil
		}
	}
	return nil, nil
}

func (s *stubStore) FetchReadings(ctx context.Context, q db.ReadingQuery) ([]analytics.Reading, error) {
	s.lastQ = q
	return s.readings, nil
}

func (s *stubStore) UpsertStations(ctx context.Context, stations []db.Station) error {
	s.upserted = append(s.upserted, stations...)
	return nil
}

func (s *stubStore) InsertReadings(ctx context.Context, readings []analytics.Reading) error {
	s.inserted = append(s.inserted, readings...)
	return nil
}

type stubChat struct {
	reply chat.Reply
	err   error
	asked string
}

func (s *stubChat) Ask(ctx context.Context, userMessage string, a analytics.Analysis) (chat.Reply, error) {
	s.asked = userMessage
	return s.reply, s.err
}

func testConfig() config.Config {
	return config.Config{Port: 8080, DefaultLimit: 200, ChatTimeout: 5 * time.Second}
}

func testReadings() []analytics.Reading {
	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []analytics.Reading{
		{StationID: "ST01", StationName: "Riverside", Lat: 40.41, Lon: -3.70, SampleDate: ts, PollutantA: 8, PollutantB: 1, Unit: "ug/m3"},
		{StationID: "ST01", StationName: "Riverside", Lat: 40.41, Lon: -3.70, SampleDate: ts.AddDate(0, 0, 1), PollutantA: 9, PollutantB: 1, Unit: "ug/m3"},
		{StationID: "ST02", StationName: "Plaza", Lat: 40.42, Lon: -3.69, SampleDate: ts, PollutantA: 2, PollutantB: 2, Unit: "ug/m3"},
	}
}

func doRequest(s *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := New(testConfig(), &stubStore{}, nil)

	w := doRequest(s, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", w.Code)
	}
}

func TestV1ListStations(t *testing.T) {
	store := &stubStore{stations: []db.Station{{ID: "ST01", Name: "Riverside"}}}
	s := New(testConfig(), store, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/core/stations", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-API-Version"); got != "v1" {
		t.Fatalf("X-API-Version = %q", got)
	}

	var resp struct {
		Data []db.Station `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Meta.Count != 1 || len(resp.Data) != 1 || resp.Data[0].ID != "ST01" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestV1GetStationNotFound(t *testing.T) {
	s := New(testConfig(), &stubStore{}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/core/stations/NOPE", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestV1ListReadingsBadParams(t *testing.T) {
	s := New(testConfig(), &stubStore{}, nil)

	for _, path := range []string{
		"/api/v1/core/readings?last_n=zero",
		"/api/v1/core/readings?last_n_days=-1",
		"/api/v1/core/readings?start=june",
	} {
		if w := doRequest(s, http.MethodGet, path, "", nil); w.Code != http.StatusBadRequest {
			t.Fatalf("%s status = %d, want 400", path, w.Code)
		}
	}
}

func TestV1Analysis(t *testing.T) {
	store := &stubStore{readings: testReadings()}
	s := New(testConfig(), store, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/analysis?station_id=ST01", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data analytics.Analysis `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.TotalReadings != 3 || resp.Data.StationCount != 2 {
		t.Fatalf("analysis counts = %d/%d", resp.Data.TotalReadings, resp.Data.StationCount)
	}

	// The analysis endpoint must not apply the listing row limit.
	if store.lastQ.Limit != 0 {
		t.Fatalf("analysis query limit = %d, want 0", store.lastQ.Limit)
	}
	if store.lastQ.StationID != "ST01" {
		t.Fatalf("analysis station filter = %q", store.lastQ.StationID)
	}
}

func TestV1Import(t *testing.T) {
	store := &stubStore{}
	s := New(testConfig(), store, nil)

	csv := "station_id,station_name,lat,lon,sample_dt,pol_a,pol_b,unit\n" +
		"ST01,Riverside,40.41,-3.70,2024-06-01,3.2,1.1,ug/m3\n" +
		"broken,row\n"

	w := doRequest(s, http.MethodPost, "/api/v1/import", csv, map[string]string{"Content-Type": "text/csv"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ImportID string `json:"import_id"`
			Readings int    `json:"readings"`
			Stations int    `json:"stations"`
			Skipped  int    `json:"skipped"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Readings != 1 || resp.Data.Stations != 1 || resp.Data.Skipped != 1 {
		t.Fatalf("import counts = %+v", resp.Data)
	}
	if resp.Data.ImportID == "" {
		t.Fatal("missing import id")
	}
	if len(store.upserted) != 1 || len(store.inserted) != 1 {
		t.Fatalf("store received %d stations / %d readings", len(store.upserted), len(store.inserted))
	}
}

func TestV1ImportEmpty(t *testing.T) {
	s := New(testConfig(), &stubStore{}, nil)

	w := doRequest(s, http.MethodPost, "/api/v1/import", "station_id,station_name,lat,lon,sample_dt,pol_a,pol_b,unit\n", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestV1ChatValidation(t *testing.T) {
	s := New(testConfig(), &stubStore{}, nil)

	w := doRequest(s, http.MethodPost, "/api/v1/chat", `{}`, map[string]string{"Content-Type": "application/json"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestV1ChatFallbackWithoutService(t *testing.T) {
	store := &stubStore{readings: testReadings()}
	s := New(testConfig(), store, nil)

	w := doRequest(s, http.MethodPost, "/api/v1/chat", `{"message":"how bad is it?"}`, map[string]string{"Content-Type": "application/json"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var reply chat.Reply
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(reply.Message, "3 readings") {
		t.Fatalf("fallback message = %q", reply.Message)
	}
	if reply.MapCommands == nil {
		t.Fatal("map_commands must be an empty list, not null")
	}
}

func TestV1ChatServiceReply(t *testing.T) {
	store := &stubStore{readings: testReadings()}
	chatStub := &stubChat{reply: chat.Reply{Message: "ST01 runs hottest.", MapCommands: []chat.MapCommand{}}}
	s := New(testConfig(), store, chatStub)

	w := doRequest(s, http.MethodPost, "/api/v1/chat", `{"message":"which station is worst?"}`, map[string]string{"Content-Type": "application/json"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if chatStub.asked != "which station is worst?" {
		t.Fatalf("service got question %q", chatStub.asked)
	}

	var reply chat.Reply
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Message != "ST01 runs hottest." {
		t.Fatalf("reply = %q", reply.Message)
	}
}

func TestV1ChatFallbackOnServiceError(t *testing.T) {
	store := &stubStore{readings: testReadings()}
	chatStub := &stubChat{err: context.DeadlineExceeded}
	s := New(testConfig(), store, chatStub)

	w := doRequest(s, http.MethodPost, "/api/v1/chat", `{"message":"hello"}`, map[string]string{"Content-Type": "application/json"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 fallback", w.Code)
	}
	var reply chat.Reply
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(reply.Message, "unavailable") {
		t.Fatalf("expected fallback, got %q", reply.Message)
	}
}

func TestBearerAuth(t *testing.T) {
	cfg := testConfig()
	cfg.BearerToken = "sekrit"
	s := New(cfg, &stubStore{}, nil)

	if w := doRequest(s, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", w.Code)
	}
	w := doRequest(s, http.MethodGet, "/healthz", "", map[string]string{"Authorization": "Bearer sekrit"})
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", w.Code)
	}
}
