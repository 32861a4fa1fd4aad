package yahoo

import (
	"time"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

// value is Yahoo's {"raw": n, "fmt": "..."} wrapper. Only the raw number
// matters; a missing or empty object decodes to a nil Raw.
type value struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryEnvelope struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	AssetProfile struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"assetProfile"`

	Price struct {
		ShortName           string `json:"shortName"`
		LongName            string `json:"longName"`
		MarketCap           value  `json:"marketCap"`
		RegularMarketPrice  value  `json:"regularMarketPrice"`
		RegularMarketVolume value  `json:"regularMarketVolume"`
	} `json:"price"`

	SummaryDetail struct {
		TrailingPE       value `json:"trailingPE"`
		ForwardPE        value `json:"forwardPE"`
		DividendYield    value `json:"dividendYield"`
		PayoutRatio      value `json:"payoutRatio"`
		FiftyTwoWeekHigh value `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  value `json:"fiftyTwoWeekLow"`
	} `json:"summaryDetail"`

	FinancialData struct {
		CurrentPrice     value `json:"currentPrice"`
		TotalDebt        value `json:"totalDebt"`
		TotalCash        value `json:"totalCash"`
		TotalRevenue     value `json:"totalRevenue"`
		DebtToEquity     value `json:"debtToEquity"`
		CurrentRatio     value `json:"currentRatio"`
		FreeCashflow     value `json:"freeCashflow"`
		GrossMargins     value `json:"grossMargins"`
		OperatingMargins value `json:"operatingMargins"`
		ProfitMargins    value `json:"profitMargins"`
		ReturnOnEquity   value `json:"returnOnEquity"`
		ReturnOnAssets   value `json:"returnOnAssets"`
		RevenueGrowth    value `json:"revenueGrowth"`
		EarningsGrowth   value `json:"earningsGrowth"`
	} `json:"financialData"`

	DefaultKeyStatistics struct {
		PriceToBook          value `json:"priceToBook"`
		PegRatio             value `json:"pegRatio"`
		EnterpriseToEbitda   value `json:"enterpriseToEbitda"`
		ShortTermInvestments value `json:"shortTermInvestments"`
		NetReceivables       value `json:"netReceivables"`
		InterestIncome       value `json:"interestIncome"`
		InterestExpense      value `json:"interestExpense"`
	} `json:"defaultKeyStatistics"`
}

// toSnapshot flattens the module soup into the engine's snapshot shape.
func (r *quoteSummaryResult) toSnapshot(ticker string) *domain.Snapshot {
	name := r.Price.ShortName
	if name == "" {
		name = r.Price.LongName
	}

	price := r.FinancialData.CurrentPrice.Raw
	if price == nil {
		price = r.Price.RegularMarketPrice.Raw
	}

	return &domain.Snapshot{
		Ticker:      ticker,
		Name:        name,
		Sector:      r.AssetProfile.Sector,
		Industry:    r.AssetProfile.Industry,
		Description: r.AssetProfile.LongBusinessSummary,

		MarketCap:            r.Price.MarketCap.Raw,
		TotalDebt:            r.FinancialData.TotalDebt.Raw,
		TotalCash:            r.FinancialData.TotalCash.Raw,
		ShortTermInvestments: r.DefaultKeyStatistics.ShortTermInvestments.Raw,
		NetReceivables:       r.DefaultKeyStatistics.NetReceivables.Raw,
		TotalRevenue:         r.FinancialData.TotalRevenue.Raw,
		InterestIncome:       r.DefaultKeyStatistics.InterestIncome.Raw,
		InterestExpense:      r.DefaultKeyStatistics.InterestExpense.Raw,

		TrailingPE:  r.SummaryDetail.TrailingPE.Raw,
		ForwardPE:   r.SummaryDetail.ForwardPE.Raw,
		PriceToBook: r.DefaultKeyStatistics.PriceToBook.Raw,
		PEGRatio:    r.DefaultKeyStatistics.PegRatio.Raw,
		EVToEBITDA:  r.DefaultKeyStatistics.EnterpriseToEbitda.Raw,

		GrossMargin:     r.FinancialData.GrossMargins.Raw,
		OperatingMargin: r.FinancialData.OperatingMargins.Raw,
		NetMargin:       r.FinancialData.ProfitMargins.Raw,
		ROE:             r.FinancialData.ReturnOnEquity.Raw,
		ROA:             r.FinancialData.ReturnOnAssets.Raw,

		RevenueGrowth:  r.FinancialData.RevenueGrowth.Raw,
		EarningsGrowth: r.FinancialData.EarningsGrowth.Raw,

		DebtToEquity: r.FinancialData.DebtToEquity.Raw,
		CurrentRatio: r.FinancialData.CurrentRatio.Raw,
		FreeCashFlow: r.FinancialData.FreeCashflow.Raw,

		DividendYield: r.SummaryDetail.DividendYield.Raw,
		PayoutRatio:   r.SummaryDetail.PayoutRatio.Raw,

		CurrentPrice:     price,
		FiftyTwoWeekHigh: r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		FiftyTwoWeekLow:  r.SummaryDetail.FiftyTwoWeekLow.Raw,
	}
}

type chartEnvelope struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// toSeries pairs timestamps with the quote arrays, dropping observations
// whose close is null (halted sessions and partial candles).
func (r *chartResult) toSeries() domain.PriceSeries {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	quote := r.Indicators.Quote[0]

	series := make(domain.PriceSeries, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		series = append(series, domain.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  *quote.Close[i],
			Volume: at(quote.Volume, i),
		})
	}
	return series
}

func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}
