package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mamadbah2/herd-admin/internal/config"
)

func serve(t *testing.T, handler http.HandlerFunc) config.UpstreamConfig {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return config.UpstreamConfig{
		ActivityURL: srv.URL + "/",
		BovineURL:   srv.URL,
		HealthURL:   srv.URL,
		EconomicURL: srv.URL,
		Timeout:     2 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestListWeighingsForwardsTokenAndPaging(t *testing.T) {
	cfg := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/weightings/search" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("size"); got != "999" {
			t.Errorf("size: want=999 got=%q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("authorization: want=%q got=%q", "Bearer abc", got)
		}
		if got := r.Header.Get("X-Request-Id"); got != "req-1" {
			t.Errorf("request id: want=%q got=%q", "req-1", got)
		}
		writeJSON(w, http.StatusOK, `[{"executionDate":"2021-05-01","weight":320,"category":"vaca","bovineTag":"A1"},{"executionDate":"2021-06-01","weight":null}]`)
	})

	ctx := WithRequestID(WithAuthToken(context.Background(), "Bearer abc"), "req-1")
	out, err := NewActivityClient(cfg, nil).ListWeighings(ctx)
	if err != nil {
		t.Fatalf("ListWeighings: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len: want=2 got=%d", len(out))
	}
	if out[0].WeightSafely() != 320 || out[0].Category != "vaca" || out[0].ExecutionDate.Year() != 2021 {
		t.Fatalf("decoded weighing: %+v", out[0])
	}
	if out[1].Weight != nil {
		t.Fatalf("null weight decoded as %d", *out[1].Weight)
	}
}

func TestListRecentWeighingsSendsBovineTag(t *testing.T) {
	cfg := serve(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["bovineTag"] != "A7" {
			t.Errorf("bovineTag: want=A7 got=%q", body["bovineTag"])
		}
		if got := r.URL.Query().Get("size"); got != "10" {
			t.Errorf("size: want=10 got=%q", got)
		}
		writeJSON(w, http.StatusOK, `[]`)
	})

	if _, err := NewActivityClient(cfg, nil).ListRecentWeighings(context.Background(), "A7"); err != nil {
		t.Fatalf("ListRecentWeighings: %v", err)
	}
}

func TestGetBovineNotFound(t *testing.T) {
	cfg := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bovines/A9" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		writeJSON(w, http.StatusNotFound, `{"title":"Not Found","message":"Bovine not found"}`)
	})

	_, err := NewBovineClient(cfg, nil).GetBovine(context.Background(), "A9")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListEndpointsTreatNotFoundAsEmpty(t *testing.T) {
	cfg := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message":"nothing here"}`)
	})

	batches, err := NewBovineClient(cfg, nil).ListBatches(context.Background())
	if err != nil || len(batches) != 0 {
		t.Fatalf("ListBatches: want empty, got %v err=%v", batches, err)
	}
	illnesses, err := NewHealthClient(cfg, nil).ListIllnesses(context.Background())
	if err != nil || len(illnesses) != 0 {
		t.Fatalf("ListIllnesses: want empty, got %v err=%v", illnesses, err)
	}
}

func TestListBovinesNotFoundIsRemoteError(t *testing.T) {
	cfg := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bovines/search" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		writeJSON(w, http.StatusNotFound, `{"message":"no route"}`)
	})

	_, err := NewBovineClient(cfg, nil).ListBovines(context.Background())
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 *RemoteError, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("bovine search 404 must not read as an empty herd")
	}
}

func TestListBovinesByTagsSkipsEmptyInput(t *testing.T) {
	cfg := serve(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no call expected, got %s %s", r.Method, r.URL.Path)
	})

	out, err := NewBovineClient(cfg, nil).ListBovinesByTags(context.Background(), nil)
	if err != nil || out != nil {
		t.Fatalf("want nil result, got %v err=%v", out, err)
	}
}

func TestRemoteErrorCarriesMessage(t *testing.T) {
	cfg := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"title":"Bad Request","message":"Supply maiz not found"}`)
	})

	_, err := NewEconomicClient(cfg, nil).GetSupply(context.Background(), "maiz")
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("want *RemoteError, got %v", err)
	}
	if remote.StatusCode != http.StatusBadRequest || remote.Message != "Supply maiz not found" {
		t.Fatalf("remote error: %+v", remote)
	}
	if remote.Service != "economic" || remote.Operation != "get supply" {
		t.Fatalf("remote error origin: %+v", remote)
	}
}

func TestRemoteErrorFallsBackToBodyText(t *testing.T) {
	cfg := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "gateway down")
	})

	_, err := NewEconomicClient(cfg, nil).ListSupplyOperations(context.Background())
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.Message != "gateway down" {
		t.Fatalf("want body text message, got %v", err)
	}
}

func TestSupplyNotFoundIsRemoteError(t *testing.T) {
	cfg := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message":"Supply not found"}`)
	})

	_, err := NewEconomicClient(cfg, nil).GetSupply(context.Background(), "avena")
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("missing supply must not be reported as ErrNotFound")
	}
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 *RemoteError, got %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	cfg := config.UpstreamConfig{HealthURL: "http://127.0.0.1:1", Timeout: time.Second}

	_, err := NewHealthClient(cfg, nil).ListIllnesses(context.Background())
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.StatusCode != 0 || remote.Err == nil {
		t.Fatalf("want transport *RemoteError, got %v", err)
	}
}
