package provider

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guttosm/adrpulse/internal/domain/models"
)

const (
	botSource    = "bankoftaiwan"
	botDailyPath = "/xrt/flcsv/0/day"

	// botRateColumn is the selling-side rate column of the daily CSV.
	botRateColumn = 12
)

// BankOfTaiwan reads the daily foreign-exchange board published as CSV.
type BankOfTaiwan struct {
	client *Client
	now    func() time.Time
}

// NewBankOfTaiwan creates a Bank of Taiwan client.
func NewBankOfTaiwan(baseURL string, opts ...ClientOption) *BankOfTaiwan {
	return &BankOfTaiwan{client: NewClient(baseURL, opts...), now: time.Now}
}

// SpotRate returns the TWD price of one unit of currency (e.g. "USD").
func (b *BankOfTaiwan) SpotRate(ctx context.Context, currency string) (models.Quote, error) {
	body, err := b.client.get(ctx, botDailyPath, nil)
	if err != nil {
		return models.Quote{}, err
	}
	rate, err := parseBoardCSV(body, currency)
	if err != nil {
		return models.Quote{}, err
	}
	return models.Quote{
		InstrumentID: currency + "/TWD",
		Price:        rate,
		Currency:     "TWD",
		Timestamp:    b.now().UTC(),
		Source:       botSource,
	}, nil
}

// parseBoardCSV finds the row whose first cell is currency and returns its
// rate column. Rows may have trailing empty cells; a UTF-8 BOM is tolerated.
func parseBoardCSV(body []byte, currency string) (float64, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(body))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read line after %d: %w", line, err)
		}
		line++

		if len(rec) == 0 || strings.TrimSpace(rec[0]) != currency {
			continue
		}
		if len(rec) <= botRateColumn {
			return 0, fmt.Errorf("invalid column count on line %d: expected > %d got %d", line, botRateColumn, len(rec))
		}
		rate, err := parsePrice(rec[botRateColumn])
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		return rate, nil
	}
	return 0, fmt.Errorf("%w: currency %s not on board", ErrNoData, currency)
}
