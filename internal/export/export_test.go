package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/nossamoto/backend/internal/model"
)

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{57000, "R$ 570,00"},
		{123456, "R$ 1.234,56"},
		{2199000, "R$ 21.990,00"},
		{123456789, "R$ 1.234.567,89"},
		{-150, "-R$ 1,50"},
	}
	for _, c := range cases {
		if got := FormatBRL(c.cents); got != c.want {
			t.Errorf("FormatBRL(%d): expected %q, got %q", c.cents, c.want, got)
		}
	}
}

func sampleSubmission() *model.Submission {
	dp := int64(500000)
	income := int64(350000)
	return &model.Submission{
		ID: "s1",
		Application: model.Application{
			FullName:      "Ana \"Aninha\" Souza",
			TaxID:         "52998224725",
			Phone:         "11987654321",
			BirthDate:     "01/02/1990",
			Motorcycle:    "Bros 160",
			Price:         2000000,
			DownPayment:   &dp,
			Term:          24,
			TermsAccepted: true,
			Email:         "ana@example.com",
			MaritalStatus: "Casado(a)",
			MonthlyIncome: &income,
			Occupation:    "Engenheira",
			PostalCode:    "01001000",
			Street:        "Praça da Sé",
			Number:        "100",
			District:      "Sé",
			City:          "São Paulo",
			State:         "SP",
			Notes:         "linha 1, linha 2",
		},
		Installment: 57000,
		Lender:      "Banco A",
		SubmittedAt: time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC),
	}
}

func TestRow(t *testing.T) {
	row := Row(sampleSubmission())
	if len(row) != len(Header) {
		t.Fatalf("expected %d columns, got %d", len(Header), len(row))
	}
	want := map[int]string{
		0:  "01/03/2026 12:04:05",
		2:  "529.982.247-25",
		4:  "(11) 98765-4321",
		7:  "R$ 3.500,00",
		9:  "01001-000",
		10: "Praça da Sé, 100 - Sé, São Paulo/SP",
		12: "R$ 20.000,00",
		13: "R$ 5.000,00",
		14: "24",
		15: "R$ 570,00",
		16: "Banco A",
	}
	for i, w := range want {
		if row[i] != w {
			t.Errorf("column %q: expected %q, got %q", Header[i], w, row[i])
		}
	}
}

func TestRow_BlankOptionalFields(t *testing.T) {
	s := &model.Submission{
		Application: model.Application{FullName: "Bruno", Price: 990000, Term: 12},
		SubmittedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	row := Row(s)
	for _, i := range []int{7, 10, 13, 15} {
		if row[i] != "" {
			t.Errorf("column %q: expected blank, got %q", Header[i], row[i])
		}
	}
}

func TestWriteSubmissions(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSubmissions(&buf, []*model.Submission{sampleSubmission()}); err != nil {
		t.Fatalf("WriteSubmissions: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\ufeff") {
		t.Fatal("expected output to start with a UTF-8 BOM")
	}
	if !strings.Contains(out, `"Ana ""Aninha"" Souza"`) {
		t.Errorf("expected embedded quotes to be doubled, got %s", out)
	}

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one row, got %d records", len(records))
	}
	if records[0][0] != "Data da Simulação" || records[0][17] != "Observações" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][17] != "linha 1, linha 2" {
		t.Errorf("expected notes to survive quoting, got %q", records[1][17])
	}
}
