package postal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *ViaCEPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewViaCEPClient(srv.URL, 2*time.Second)
}

func TestViaCEPClient_Lookup_Success(t *testing.T) {
	var gotPath string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	})

	addr, err := c.Lookup(context.Background(), "01310-100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/01310100/json/" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if addr.Street != "Avenida Paulista" || addr.District != "Bela Vista" || addr.City != "São Paulo" || addr.State != "SP" {
		t.Errorf("unexpected address %+v", addr)
	}
	if addr.PostalCode != "01310100" {
		t.Errorf("expected normalized code, got %q", addr.PostalCode)
	}
}

func TestViaCEPClient_Lookup_NotFound(t *testing.T) {
	for _, body := range []string{`{"erro": true}`, `{"erro": "true"}`} {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		if _, err := c.Lookup(context.Background(), "99999999"); !errors.Is(err, ErrNotFound) {
			t.Errorf("body %s: expected ErrNotFound, got %v", body, err)
		}
	}
}

func TestViaCEPClient_Lookup_InvalidCode(t *testing.T) {
	c := NewViaCEPClient("http://127.0.0.1:0", time.Second)
	if _, err := c.Lookup(context.Background(), "1234"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
}

func TestViaCEPClient_Lookup_ServerError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Lookup(context.Background(), "01310100")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected a transport error, got %v", err)
	}
}
