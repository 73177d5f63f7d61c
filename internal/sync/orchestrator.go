/*
Package sync implements the sync orchestrator (C12): pulling a cached
preview session, resolving each worker to a Danløn employee through a
three-stage lookup, and submitting one batched createPayParts mutation.
*/
package sync

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"backend/internal/cache"
	"backend/internal/danlon"
	"backend/internal/errors"
	"backend/internal/models"
	"backend/internal/repositories"
)

// employeeListQuery resolves the live employee roster for the
// connected company, used to build the name/id resolution indices.
const employeeListQuery = `query { employees { id name } }`

const createPayPartsMutationTemplate = `mutation { createPayParts(input: %s) { created } }`

// liveEmployee is one entry of the upstream employee roster.
type liveEmployee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type employeeListResult struct {
	Employees []liveEmployee `json:"employees"`
}

// payPart is one line submitted in the batched mutation.
type payPart struct {
	EmployeeID string `json:"employeeId"`
	Code       string `json:"code"`
	Units      *int64 `json:"units,omitempty"`
	Amount     *int64 `json:"amount,omitempty"`
}

// SkippedItem records one DailyOutput that could not be resolved to a
// Danløn employee, carrying the reason for display.
type SkippedItem struct {
	Worker string `json:"worker"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// Result is the structured outcome of one sync run, returned whether or
// not every row resolved - per-row mapping failures never abort the
// batch (§7).
type Result struct {
	Created           int           `json:"created"`
	Skipped           int           `json:"skipped"`
	CreatedPayParts   []payPart     `json:"created_payparts"`
	SkippedItems      []SkippedItem `json:"skipped_items"`
	UnmatchedWorkers  []string      `json:"unmatched_workers"`
}

// Orchestrator wires the preview cache, the mapping repositories, and
// the GraphQL/OAuth broker together to drive C12.
type Orchestrator struct {
	cache        *cache.Store
	payCodes     *repositories.PayCodeMappingRepository
	employeeMaps *repositories.EmployeeMappingRepository
	broker       *danlon.OAuthBroker
	graph        *danlon.GraphQLClient
	log          *logrus.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	store *cache.Store,
	payCodes *repositories.PayCodeMappingRepository,
	employeeMaps *repositories.EmployeeMappingRepository,
	broker *danlon.OAuthBroker,
	graph *danlon.GraphQLClient,
	log *logrus.Logger,
) *Orchestrator {
	return &Orchestrator{
		cache:        store,
		payCodes:     payCodes,
		employeeMaps: employeeMaps,
		broker:       broker,
		graph:        graph,
		log:          log,
	}
}

// Sync runs the full C12 pipeline for sessionID against (userID,
// companyID): load cache, load mappings, resolve each worker, build pay
// parts, and submit one batched mutation.
func (o *Orchestrator) Sync(ctx context.Context, sessionID, userID, companyID string) (Result, error) {
	session, ok := o.cache.Get(sessionID)
	if !ok {
		return Result{}, errors.ErrSessionNotFound
	}

	accessToken, err := o.broker.GetValidAccessToken(ctx, userID, companyID)
	if err != nil {
		return Result{}, err
	}

	payCodes, err := o.payCodes.Get(userID, companyID)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrInternal)
	}
	explicitMappings, err := o.employeeMaps.List(userID, companyID)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrInternal)
	}

	var employees employeeListResult
	if err := o.graph.Query(ctx, accessToken, employeeListQuery, nil, &employees); err != nil {
		return Result{}, err
	}

	byLowerName := make(map[string]liveEmployee, len(employees.Employees))
	byID := make(map[string]liveEmployee, len(employees.Employees))
	for _, e := range employees.Employees {
		byLowerName[strings.ToLower(e.Name)] = e
		byID[e.ID] = e
	}

	explicitByName := make(map[string]models.EmployeeMapping)
	var fallback *models.EmployeeMapping
	for i, m := range explicitMappings {
		if m.IsFallback {
			fb := explicitMappings[i]
			fallback = &fb
			continue
		}
		explicitByName[strings.ToLower(m.FtzEmployeeName)] = m
	}

	result := Result{}
	unmatched := make(map[string]bool)

	for _, output := range session.Daily {
		if output.NormalHours <= 0 && output.TotalOvertime() <= 0 && !output.CallOutApplied {
			continue
		}

		employeeID, resolved := resolveEmployee(output.Worker, byLowerName, explicitByName, fallback)
		if !resolved {
			result.Skipped++
			result.SkippedItems = append(result.SkippedItems, SkippedItem{
				Worker: output.Worker,
				Date:   output.Date,
				Reason: "no matching Danløn employee",
			})
			unmatched[output.Worker] = true
			continue
		}

		if output.NormalHours > 0 {
			units := toCentesimalUnits(output.NormalHours)
			result.CreatedPayParts = append(result.CreatedPayParts, payPart{
				EmployeeID: employeeID,
				Code:       payCodes.NormalCode,
				Units:      &units,
			})
			result.Created++
		}
		if ot := output.TotalOvertime(); ot > 0 {
			units := toCentesimalUnits(ot)
			result.CreatedPayParts = append(result.CreatedPayParts, payPart{
				EmployeeID: employeeID,
				Code:       payCodes.OvertimeCode,
				Units:      &units,
			})
			result.Created++
		}
		if output.CallOutApplied {
			amount := toRoundedAmount(output.CallOutPayment)
			result.CreatedPayParts = append(result.CreatedPayParts, payPart{
				EmployeeID: employeeID,
				Code:       payCodes.CalloutCode,
				Amount:     &amount,
			})
			result.Created++
		}
	}

	for worker := range unmatched {
		result.UnmatchedWorkers = append(result.UnmatchedWorkers, worker)
	}

	if len(result.CreatedPayParts) == 0 {
		return result, nil
	}

	mutation := fmt.Sprintf(createPayPartsMutationTemplate, buildInputLiteral(companyID, result.CreatedPayParts))
	if err := o.graph.Query(ctx, accessToken, mutation, nil, nil); err != nil {
		return Result{}, err
	}

	return result, nil
}

// resolveEmployee applies the three-stage lookup from §4.8: live-roster
// name match, then an explicit EmployeeMapping row, then the single
// fallback row.
func resolveEmployee(
	worker string,
	byLowerName map[string]liveEmployee,
	explicitByName map[string]models.EmployeeMapping,
	fallback *models.EmployeeMapping,
) (string, bool) {
	if e, ok := byLowerName[strings.ToLower(worker)]; ok {
		return e.ID, true
	}
	if m, ok := explicitByName[strings.ToLower(worker)]; ok {
		return m.DanlonEmployeeID, true
	}
	if fallback != nil {
		return fallback.DanlonEmployeeID, true
	}
	return "", false
}

// toCentesimalUnits encodes hours as the wire-protocol integer unit:
// round(hours * 100).
func toCentesimalUnits(hours float64) int64 {
	return int64(math.Round(hours * 100))
}

// toRoundedAmount encodes a DKK amount as a rounded integer.
func toRoundedAmount(dkk float64) int64 {
	return int64(math.Round(dkk))
}

// buildInputLiteral renders the pay-parts batch as a GraphQL literal
// rather than typed variables, matching §9's documented upstream
// type-name fragility workaround. Every string value is quoted with
// Go's %q, which escapes quotes, backslashes and \n, \t, \r, \b, \f the
// way GraphQL string literals do; any other control character gets a
// Go-only escape such as \a, \v or \x...
func buildInputLiteral(companyID string, parts []payPart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{ companyId: %q, payParts: [", companyID)
	for i, p := range parts {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{ employeeId: %q, code: %q", p.EmployeeID, p.Code)
		if p.Units != nil {
			fmt.Fprintf(&b, ", units: %d", *p.Units)
		}
		if p.Amount != nil {
			fmt.Fprintf(&b, ", amount: %d", *p.Amount)
		}
		b.WriteString(" }")
	}
	b.WriteString("] }")
	return b.String()
}
