package rates

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tau-rai/fintrekapi/internal/config"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<ValCurs Date="28.08.2026" name="Foreign Currency Market">
	<Valute ID="R01235">
		<NumCode>840</NumCode>
		<CharCode>USD</CharCode>
		<Nominal>1</Nominal>
		<Name>US Dollar</Name>
		<Value>90,50</Value>
	</Valute>
	<Valute ID="R01820">
		<NumCode>392</NumCode>
		<CharCode>JPY</CharCode>
		<Nominal>100</Nominal>
		<Name>Japanese Yen</Name>
		<Value>61,00</Value>
	</Valute>
</ValCurs>`

func TestFetchCentralBank(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		io.WriteString(w, sampleFeed)
	}))
	defer srv.Close()

	client := NewClient(&config.Config{CentralBankURL: srv.URL}, quietLogger())
	rates, err := client.fetchCentralBank(context.Background())
	if err != nil {
		t.Fatalf("fetchCentralBank failed: %v", err)
	}

	if rates.Base != "RUB" || rates.Source != "central_bank" {
		t.Errorf("unexpected metadata: %+v", rates)
	}
	if got := rates.Rates["USD"]; got != 90.5 {
		t.Errorf("USD = %v, want 90.5", got)
	}
	// Nominal of 100 scales the quoted value down
	if got := rates.Rates["JPY"]; got != 0.61 {
		t.Errorf("JPY = %v, want 0.61", got)
	}
}

func TestFetchCentralBankEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<ValCurs Date="28.08.2026"></ValCurs>`)
	}))
	defer srv.Close()

	client := NewClient(&config.Config{CentralBankURL: srv.URL}, quietLogger())
	if _, err := client.fetchCentralBank(context.Background()); err == nil {
		t.Error("expected an error for a feed without currency data")
	}
}

func TestFetchCentralBankMalformedXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not": "xml"}`)
	}))
	defer srv.Close()

	client := NewClient(&config.Config{CentralBankURL: srv.URL}, quietLogger())
	if _, err := client.fetchCentralBank(context.Background()); err == nil {
		t.Error("expected an error for a malformed feed")
	}
}
