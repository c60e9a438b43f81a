package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/adrpulse/internal/calendar"
	"github.com/guttosm/adrpulse/internal/domain/models"
)

const (
	twseSource     = "twse"
	twseMISPath    = "/stock/api/getStockInfo.jsp"
	twseReportPath = "/exchangeReport/STOCK_DAY"
	rocYearOffset  = 1911
)

// TWSE reads home-market prices from the Taiwan Stock Exchange: realtime
// quotes from the MIS endpoint and monthly daily closes from STOCK_DAY.
type TWSE struct {
	mis    *Client
	report *Client
	now    func() time.Time
}

// NewTWSE creates a TWSE client. misURL serves realtime quotes, reportURL
// serves the monthly STOCK_DAY report.
func NewTWSE(misURL, reportURL string, opts ...ClientOption) *TWSE {
	return &TWSE{
		mis:    NewClient(misURL, opts...),
		report: NewClient(reportURL, opts...),
		now:    time.Now,
	}
}

type misResponse struct {
	MsgArray []struct {
		Code      string `json:"c"`
		LastTrade string `json:"z"`
		Price     string `json:"p"`
		PrevClose string `json:"y"`
		TimeMilli string `json:"tlong"`
	} `json:"msgArray"`
	RtCode string `json:"rtcode"`
}

// Realtime returns the latest price of stockNo: last trade, then the
// reference price, then the previous close. "-" marks an unavailable field.
func (t *TWSE) Realtime(ctx context.Context, stockNo string) (models.Quote, error) {
	body, err := t.mis.get(ctx, twseMISPath, url.Values{"ex_ch": {"tse_" + stockNo + ".tw"}})
	if err != nil {
		return models.Quote{}, err
	}
	if strings.TrimSpace(string(body)) == "" {
		return models.Quote{}, fmt.Errorf("%w: empty MIS response", ErrNoData)
	}

	var out misResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return models.Quote{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.MsgArray) == 0 {
		return models.Quote{}, fmt.Errorf("%w: no MIS entry for %s", ErrNoData, stockNo)
	}

	msg := out.MsgArray[0]
	for _, candidate := range []string{msg.LastTrade, msg.Price, msg.PrevClose} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || candidate == "-" {
			continue
		}
		price, err := parsePrice(candidate)
		if err != nil {
			continue
		}
		ts := t.now().UTC()
		if ms, err := strconv.ParseInt(msg.TimeMilli, 10, 64); err == nil && ms > 0 {
			ts = time.UnixMilli(ms).UTC()
		}
		return models.Quote{InstrumentID: stockNo, Price: price, Currency: "TWD", Timestamp: ts, Source: twseSource}, nil
	}
	return models.Quote{}, fmt.Errorf("%w: no valid price for %s", ErrNoData, stockNo)
}

type stockDayResponse struct {
	Stat   string     `json:"stat"`
	Fields []string   `json:"fields"`
	Data   [][]string `json:"data"`
}

// closeField is the STOCK_DAY column header for the closing price.
const closeField = "收盤價"

// MonthlyCloses returns the daily closes of stockNo for the month containing
// month, oldest first. Dates are midnight Taipei.
func (t *TWSE) MonthlyCloses(ctx context.Context, stockNo string, month time.Time) ([]models.Quote, error) {
	q := url.Values{
		"response": {"json"},
		"date":     {month.Format("200601") + "01"},
		"stockNo":  {stockNo},
	}
	body, err := t.report.get(ctx, twseReportPath, q)
	if err != nil {
		return nil, err
	}

	var out stockDayResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if out.Stat != "OK" {
		return nil, fmt.Errorf("%w: STOCK_DAY %s %s: %s", ErrNoData, stockNo, month.Format("2006-01"), out.Stat)
	}

	closeIdx := 6
	dateIdx := 0
	for i, f := range out.Fields {
		if strings.TrimSpace(f) == closeField {
			closeIdx = i
		}
	}

	quotes := make([]models.Quote, 0, len(out.Data))
	for _, row := range out.Data {
		if len(row) <= closeIdx {
			return nil, fmt.Errorf("STOCK_DAY row has %d columns, want > %d", len(row), closeIdx)
		}
		d, err := parseROCDate(row[dateIdx])
		if err != nil {
			return nil, err
		}
		price, err := parsePrice(row[closeIdx])
		if err != nil {
			// "--" on suspended days
			continue
		}
		quotes = append(quotes, models.Quote{InstrumentID: stockNo, Price: price, Currency: "TWD", Timestamp: d, Source: twseSource})
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Timestamp.Before(quotes[j].Timestamp) })
	return quotes, nil
}

// parseROCDate parses "YYY/MM/DD" in the Republic of China calendar
// (year + 1911 = Gregorian year).
func parseROCDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid ROC date %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid ROC date %q: %w", s, err)
		}
		nums[i] = n
	}
	if nums[1] < 1 || nums[1] > 12 || nums[2] < 1 || nums[2] > 31 {
		return time.Time{}, fmt.Errorf("invalid ROC date %q", s)
	}
	return time.Date(nums[0]+rocYearOffset, time.Month(nums[1]), nums[2], 0, 0, 0, 0, calendar.Taipei), nil
}
