package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"backend/internal/errors"
	"backend/internal/models"
	"backend/internal/timeutil"
)

// copenhagen is the local timezone API ingest groups raw registrations
// by, per §4.11: pages are requested in UTC but the resulting records
// are bucketed into DailyRecord by local calendar date.
var copenhagen = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// apiTimeEntry is the wire shape of one registration row returned by the
// upstream REST feed.
type apiTimeEntry struct {
	Worker     string    `json:"worker"`
	StartUTC   time.Time `json:"start"`
	EndUTC     time.Time `json:"end"`
	Activity   string    `json:"activity"`
	CaseNumber string    `json:"case_number"`
}

// apiPage is one page of the upstream registrations endpoint.
type apiPage struct {
	Records    []apiTimeEntry `json:"records"`
	TotalCount int            `json:"total_count"`
}

const apiPageSize = 100

// APIClient pulls time registrations from the upstream REST feed (C2),
// paging until every record for the requested range has been fetched.
type APIClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logrus.Logger
}

// NewAPIClient creates an APIClient bound to baseURL, authenticated with
// a bearer token.
func NewAPIClient(baseURL, token string, log *logrus.Logger) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// FetchRecords pulls every registration for employeeID between
// fromLocal and toLocal (inclusive, interpreted in Europe/Copenhagen
// local time), converts the range to UTC page boundaries, pages until
// the upstream total is satisfied, and groups the result into
// DailyRecord by local date.
func (c *APIClient) FetchRecords(ctx context.Context, employeeID string, fromLocal, toLocal time.Time) ([]models.DailyRecord, error) {
	fl, tl := fromLocal.In(copenhagen), toLocal.In(copenhagen)
	fromUTC := time.Date(fl.Year(), fl.Month(), fl.Day(), 0, 0, 0, 0, copenhagen).In(time.UTC)
	toUTC := time.Date(tl.Year(), tl.Month(), tl.Day()+1, 0, 0, 0, 0, copenhagen).In(time.UTC)

	var all []apiTimeEntry
	offset := 0
	for {
		page, err := c.fetchPage(ctx, employeeID, fromUTC, toUTC, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)

		if len(all) >= page.TotalCount || len(page.Records) < apiPageSize {
			break
		}
		offset += len(page.Records)
	}

	return groupByLocalDate(all), nil
}

func (c *APIClient) fetchPage(ctx context.Context, employeeID string, fromUTC, toUTC time.Time, offset int) (apiPage, error) {
	endpoint := fmt.Sprintf("%s/time-registrations", c.baseURL)

	q := url.Values{
		"employee_id": {employeeID},
		"from":        {fromUTC.Format(time.RFC3339)},
		"to":          {toUTC.Format(time.RFC3339)},
		"limit":       {fmt.Sprintf("%d", apiPageSize)},
		"offset":      {fmt.Sprintf("%d", offset)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return apiPage{}, errors.Wrap(err, errors.ErrInternal)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return apiPage{}, errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiPage{}, errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.WithField("status", resp.StatusCode).Error("time registration upstream request failed")
		return apiPage{}, errors.ErrUpstreamHTTPError.WithMessage(string(body))
	}

	var page apiPage
	if err := json.Unmarshal(body, &page); err != nil {
		return apiPage{}, errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}
	return page, nil
}

// groupByLocalDate buckets raw registrations by their Europe/Copenhagen
// calendar date and builds one DailyRecord per (worker, date).
func groupByLocalDate(entries []apiTimeEntry) []models.DailyRecord {
	type key struct {
		worker string
		date   string
	}
	byKey := make(map[key]*models.DailyRecord)
	var order []key

	for _, e := range entries {
		localStart := e.StartUTC.In(copenhagen)
		localEnd := e.EndUTC.In(copenhagen)
		date := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, time.UTC)

		k := key{worker: e.Worker, date: date.Format("2006-01-02")}
		record, ok := byKey[k]
		if !ok {
			record = &models.DailyRecord{
				WorkerName: e.Worker,
				Date:       date,
				DayName:    timeutil.DanishDayName(date),
				DayType:    timeutil.ClassifyDay(date),
			}
			record.Year, record.WeekNumber = timeutil.ISOWeek(date)
			byKey[k] = record
			order = append(order, k)
		}

		entryStart := time.Date(date.Year(), date.Month(), date.Day(), localStart.Hour(), localStart.Minute(), 0, 0, time.UTC)
		entryEnd := time.Date(date.Year(), date.Month(), date.Day(), localEnd.Hour(), localEnd.Minute(), 0, 0, time.UTC)

		record.Entries = append(record.Entries, models.TimeEntry{
			Activity:   e.Activity,
			CaseNumber: e.CaseNumber,
			Start:      entryStart,
			End:        entryEnd,
			TotalHours: entryEnd.Sub(entryStart).Hours(),
		})
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].worker != order[j].worker {
			return order[i].worker < order[j].worker
		}
		return order[i].date < order[j].date
	})

	records := make([]models.DailyRecord, 0, len(order))
	for _, k := range order {
		records = append(records, finalizeRecord(*byKey[k]))
	}
	return records
}
