package renderapi_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skbarnwal/gst-invoice-service/internal/model"
	"github.com/skbarnwal/gst-invoice-service/internal/renderapi"
)

var pdfBytes = []byte("%PDF-1.4 fake invoice body")

func testRequest() *model.RenderRequest {
	return &model.RenderRequest{
		InvoiceNo:     "134",
		InvoiceDate:   "05-Dec-2025",
		To:            "The Director",
		Items:         []model.RenderItem{{Name: "PA System", HSN: "997329", Qty: 1, Rate: "25400", Amount: "25400"}},
		TaxableAmount: "25400",
		CGST:          "2286.00",
		SGST:          "2286.00",
		Total:         "29972.00",
	}
}

func TestGeneratePDFDirectBinary(t *testing.T) {
	var gotBody []byte
	var gotContentType, gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAPIKey = r.Header.Get("x-api-key")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdfBytes)
	}))
	defer srv.Close()

	client := renderapi.NewClient(&renderapi.Config{Endpoint: srv.URL, APIKey: "secret-key"})

	pdf, err := client.GeneratePDF(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, pdf)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "secret-key", gotAPIKey)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	assert.Equal(t, "134", sent["invoice_no"])
}

func TestGeneratePDFGatewayEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"body":            base64.StdEncoding.EncodeToString(pdfBytes),
			"isBase64Encoded": true,
		})
	}))
	defer srv.Close()

	client := renderapi.NewClient(&renderapi.Config{Endpoint: srv.URL})

	pdf, err := client.GeneratePDF(context.Background(), testRequest())
	require.NoError(t, err)

	// Both response shapes must normalise to the same bytes
	assert.Equal(t, pdfBytes, pdf)
}

func TestGeneratePDFOmitsAPIKeyHeaderWhenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["X-Api-Key"]
		assert.False(t, present, "x-api-key must not be sent when not configured")
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdfBytes)
	}))
	defer srv.Close()

	client := renderapi.NewClient(&renderapi.Config{Endpoint: srv.URL})
	_, err := client.GeneratePDF(context.Background(), testRequest())
	require.NoError(t, err)
}

func TestGeneratePDFNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Missing required fields: invoice_no"}`))
	}))
	defer srv.Close()

	client := renderapi.NewClient(&renderapi.Config{Endpoint: srv.URL})

	_, err := client.GeneratePDF(context.Background(), testRequest())
	require.Error(t, err)

	var rErr *renderapi.RenderError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "check_api_response", rErr.Op)
	assert.Contains(t, err.Error(), "API Error: 400")
	assert.Contains(t, err.Error(), "Missing required fields: invoice_no")
}

func TestGeneratePDFMalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not JSON", "this is not json"},
		{"no body field", `{"statusCode": 200}`},
		{"bad base64", `{"body": "!!! not base64 !!!"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := renderapi.NewClient(&renderapi.Config{Endpoint: srv.URL})
			_, err := client.GeneratePDF(context.Background(), testRequest())

			var rErr *renderapi.RenderError
			require.ErrorAs(t, err, &rErr)
		})
	}
}

func TestGeneratePDFUnconfiguredEndpoint(t *testing.T) {
	client := renderapi.NewClient(nil)

	_, err := client.GeneratePDF(context.Background(), testRequest())
	require.Error(t, err)

	var rErr *renderapi.RenderError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "validate_configuration", rErr.Op)
}
