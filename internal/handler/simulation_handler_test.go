package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nossamoto/backend/internal/export"
	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/pricing"
	"github.com/nossamoto/backend/internal/service"
	"github.com/nossamoto/backend/internal/validation"
)

func TestSimulationHandler_Quote(t *testing.T) {
	var got model.Application
	mock := &mockSimulationService{
		quoteFunc: func(_ context.Context, app model.Application) (pricing.Quote, error) {
			got = app
			return pricing.Quote{Available: true, Installment: 123456, Lender: "Banco A"}, nil
		},
	}
	h := NewSimulationHandler(mock)
	body := `{"motorcycle":"CG 160","price":1500000,"down_payment":300000,"term":36}`
	rec := httptest.NewRecorder()
	h.Quote(rec, httptest.NewRequest(http.MethodPost, "/api/simulations/quote", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Motorcycle != "CG 160" || got.DownPaymentValue() != 300000 || got.Term != 36 {
		t.Errorf("unexpected application %+v", got)
	}
	var resp quoteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Available || resp.Lender != "Banco A" {
		t.Errorf("unexpected quote %+v", resp)
	}
	if resp.InstallmentFormatted != "R$ 1.234,56" {
		t.Errorf("expected formatted installment, got %q", resp.InstallmentFormatted)
	}
}

func TestSimulationHandler_Quote_NoEstimate(t *testing.T) {
	h := NewSimulationHandler(&mockSimulationService{})
	rec := httptest.NewRecorder()
	h.Quote(rec, httptest.NewRequest(http.MethodPost, "/api/simulations/quote", strings.NewReader(`{}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "installment_formatted") {
		t.Errorf("no formatted installment expected, got %s", rec.Body.String())
	}
}

func TestSimulationHandler_Submit_Created(t *testing.T) {
	h := NewSimulationHandler(&mockSimulationService{})
	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/api/simulations", strings.NewReader(`{"full_name":"Ana"}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var sub model.Submission
	if err := json.NewDecoder(rec.Body).Decode(&sub); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.ID != "s1" || sub.FullName != "Ana" {
		t.Errorf("unexpected submission %+v", sub)
	}
}

func TestSimulationHandler_Submit_ValidationFailed(t *testing.T) {
	mock := &mockSimulationService{
		submitFunc: func(_ context.Context, _ model.Application) (*model.Submission, error) {
			return nil, &service.ValidationError{
				Fields:         validation.FieldErrors{"email": "invalid"},
				Focus:          "email",
				ExpandOptional: true,
			}
		},
	}
	h := NewSimulationHandler(mock)
	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/api/simulations", strings.NewReader(`{}`)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp validationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation_failed" || resp.Focus != "email" || !resp.ExpandOptional {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Fields["email"] != "invalid" {
		t.Errorf("expected email error, got %v", resp.Fields)
	}
}

func TestSimulationHandler_Submit_StoreFailure(t *testing.T) {
	mock := &mockSimulationService{
		submitFunc: func(_ context.Context, _ model.Application) (*model.Submission, error) {
			return nil, errors.New("disk full")
		},
	}
	h := NewSimulationHandler(mock)
	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/api/simulations", strings.NewReader(`{}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if code := errorCode(rec.Body.Bytes()); code != "submit_failed" {
		t.Errorf("expected submit_failed, got %q", code)
	}
}

func TestSimulationHandler_List(t *testing.T) {
	mock := &mockSimulationService{
		listFunc: func(_ context.Context) ([]*model.Submission, error) {
			return []*model.Submission{{ID: "new"}, {ID: "old"}}, nil
		},
	}
	h := NewSimulationHandler(mock)
	rec := httptest.NewRecorder()
	h.List(rec, adminRequest(http.MethodGet, "/api/admin/submissions", nil))

	var resp struct {
		Submissions []*model.Submission `json:"submissions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Submissions) != 2 || resp.Submissions[0].ID != "new" {
		t.Errorf("unexpected order %+v", resp.Submissions)
	}
}

func TestSimulationHandler_Export(t *testing.T) {
	mock := &mockSimulationService{
		exportFunc: func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "\ufeffcol\r\n")
			return err
		},
	}
	h := NewSimulationHandler(mock)
	rec := httptest.NewRecorder()
	h.Export(rec, adminRequest(http.MethodGet, "/api/admin/submissions/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != export.ContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, export.FileName) {
		t.Errorf("unexpected disposition %q", cd)
	}
	if rec.Body.String() != "\ufeffcol\r\n" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestSimulationHandler_Export_NoSubmissions(t *testing.T) {
	h := NewSimulationHandler(&mockSimulationService{})
	rec := httptest.NewRecorder()
	h.Export(rec, adminRequest(http.MethodGet, "/api/admin/submissions/export", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if code := errorCode(rec.Body.Bytes()); code != "no_submissions" {
		t.Errorf("expected no_submissions, got %q", code)
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("no attachment expected on failure")
	}
}
