// Package postal looks up Brazilian addresses by CEP using the ViaCEP API.
package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br/ws"

var (
	// ErrInvalidCode is returned for codes that do not have exactly 8 digits.
	ErrInvalidCode = errors.New("postal: code must have 8 digits")
	// ErrNotFound is returned when the service knows no address for the code.
	ErrNotFound = errors.New("postal: code not found")
)

// Address is a resolved postal address.
type Address struct {
	PostalCode string
	Street     string
	District   string
	City       string
	State      string
}

// Client resolves a postal code to an address.
type Client interface {
	Lookup(ctx context.Context, code string) (*Address, error)
}

// ViaCEPClient is the raw HTTP implementation of Client.
type ViaCEPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewViaCEPClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewViaCEPClient(baseURL string, timeout time.Duration) *ViaCEPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ViaCEPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// viaCEPResponse mirrors the JSON returned by ViaCEP. Unknown codes come back
// with 200 and erro=true (boolean, or the string "true" on newer versions).
type viaCEPResponse struct {
	CEP        string          `json:"cep"`
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"`
}

func (r viaCEPResponse) notFound() bool {
	v := strings.Trim(string(r.Erro), `"`)
	return v == "true"
}

// Lookup fetches the address for code. Formatting characters are ignored.
func (c *ViaCEPClient) Lookup(ctx context.Context, code string) (*Address, error) {
	cep := NormalizeCode(code)
	if len(cep) != 8 {
		return nil, ErrInvalidCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, cep), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postal: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, ErrInvalidCode
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postal: unexpected status %d", resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("postal: decode: %w", err)
	}
	if body.notFound() {
		return nil, ErrNotFound
	}

	return &Address{
		PostalCode: cep,
		Street:     body.Logradouro,
		District:   body.Bairro,
		City:       body.Localidade,
		State:      body.UF,
	}, nil
}

// NormalizeCode strips everything but digits from code.
func NormalizeCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
