// Package export renders stored simulations as a spreadsheet-friendly CSV.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/validation"
)

// FileName is the download name of the export.
const FileName = "simulacoes_nossamoto.csv"

// ContentType is sent with the export.
const ContentType = "text/csv; charset=utf-8"

const (
	bom        = "\ufeff"
	dateLayout = "02/01/2006 15:04:05"
)

// Header lists the export columns in order.
var Header = []string{
	"Data da Simulação",
	"Nome Completo",
	"CPF",
	"E-mail",
	"Telefone",
	"Estado Civil",
	"Data de Nascimento",
	"Renda Mensal",
	"Profissão",
	"CEP",
	"Endereço Completo",
	"Modelo da Moto",
	"Valor da Moto",
	"Valor de Entrada",
	"Prazo (Meses)",
	"Valor da Parcela Estimado",
	"Banco",
	"Observações",
}

// Location is the time zone submission dates are rendered in.
var Location = mustLoad("America/Sao_Paulo")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// WriteSubmissions writes a UTF-8 BOM, the header row and one row per
// submission, in the order given.
func WriteSubmissions(w io.Writer, subs []*model.Submission) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, s := range subs {
		if err := cw.Write(Row(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Row renders one submission in Header order.
func Row(s *model.Submission) []string {
	installment := ""
	if s.Installment > 0 {
		installment = FormatBRL(s.Installment)
	}
	return []string{
		s.SubmittedAt.In(Location).Format(dateLayout),
		s.FullName,
		validation.FormatTaxID(s.TaxID),
		s.Email,
		validation.FormatPhone(s.Phone),
		s.MaritalStatus,
		s.BirthDate,
		optionalBRL(s.MonthlyIncome),
		s.Occupation,
		validation.FormatPostalCode(s.PostalCode),
		fullAddress(s),
		s.Motorcycle,
		FormatBRL(s.Price),
		optionalBRL(s.DownPayment),
		strconv.Itoa(s.Term),
		installment,
		s.Lender,
		s.Notes,
	}
}

func optionalBRL(v *int64) string {
	if v == nil {
		return ""
	}
	return FormatBRL(*v)
}

// fullAddress renders "street, number - district, city/state", or an empty
// string when no address part was given.
func fullAddress(s *model.Submission) string {
	parts := []string{s.Street, s.Number, s.District, s.City, s.State}
	if strings.TrimSpace(strings.Join(parts, "")) == "" {
		return ""
	}
	return s.Street + ", " + s.Number + " - " + s.District + ", " + s.City + "/" + s.State
}
