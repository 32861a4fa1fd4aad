package universe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const constituentsPage = `<html><body>
<table id="constituents">
<tbody>
<tr><th>Symbol</th><th>Security</th></tr>
<tr><td>MSFT</td><td>Microsoft</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td></tr>
<tr><td>AAPL</td><td>Apple</td></tr>
</tbody>
</table>
<table id="changes"><tbody><tr><td>XYZ</td></tr></tbody></table>
</body></html>`

const holdingsCSV = `Account,StockTicker,SecurityName,Weightings,Shares,Price,MarketValue
SPUS,AAPL,Apple Inc,6.5,1000,230.10,230100
SPUS,MSFT,Microsoft Corp,6.1,500,420.00,210000
SPUS,Cash,Cash & Other,1.2,,,
SPUS,X123,Some Note,0.1,,,
SPUS,,Blank Row,,,,
SPUS,GOOG,"Alphabet, Inc",3.9,notanumber,180.55,90275
`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.Client(), Config{
		SP500URL:  server.URL + "/wiki",
		SPUSURL:   server.URL + "/holdings.csv",
		UserAgent: "test-agent",
	}, zerolog.Nop())
}

func TestSP500Tickers(t *testing.T) {
	t.Run("parses and cleans constituents", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			w.Write([]byte(constituentsPage))
		})

		tickers, err := client.SP500Tickers(context.Background())
		require.NoError(t, err)
		// Sorted, class shares dash-normalized, other tables ignored.
		assert.Equal(t, []string{"AAPL", "BRK-B", "MSFT"}, tickers)
	})

	t.Run("empty page is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body></body></html>"))
		})

		_, err := client.SP500Tickers(context.Background())
		assert.Error(t, err)
	})

	t.Run("http failure surfaces", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.SP500Tickers(context.Background())
		assert.Error(t, err)
	})
}

func TestSPUSHoldings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(holdingsCSV))
	})

	holdings, err := client.SPUSHoldings(context.Background())
	require.NoError(t, err)

	// Cash, numeric-ticker and blank rows are filtered out.
	require.Len(t, holdings, 3)
	assert.Equal(t, "AAPL", holdings[0].Ticker)
	assert.Equal(t, "Apple Inc", holdings[0].Name)
	require.NotNil(t, holdings[0].Weight)
	assert.Equal(t, 6.5, *holdings[0].Weight)
	require.NotNil(t, holdings[0].Price)
	assert.Equal(t, 230.10, *holdings[0].Price)

	// Unparseable numeric cells become nil, not zero.
	assert.Equal(t, "GOOG", holdings[2].Ticker)
	assert.Nil(t, holdings[2].Shares)
	require.NotNil(t, holdings[2].Price)
}

func TestSPUSTickers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(holdingsCSV))
	})

	tickers, err := client.SPUSTickers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "GOOG", "MSFT"}, tickers)
}
