package engine

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/schema"
	"github.com/Domenick1991/offercheck/internal/validation"
)

func fixture(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile("testdata/offers.json")
	require.NoError(t, err)
	return string(raw)
}

func TestEngine_Fixture(t *testing.T) {
	result, err := NewDefault().Run([]byte(fixture(t)))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusValid, result.Report.Status)
	assert.Empty(t, result.Report.Violations)
	assert.Equal(t, 0, result.Report.Count(domain.RulePriceMismatch))
	assert.Equal(t, 0, result.Report.Count(domain.RuleDanglingReference))
	require.NotEmpty(t, result.Canonical)
	assert.Contains(t, string(result.Canonical), `"taxes":[{"amount":"10.72","code":"AY"},{"amount":"6.00","code":"US"},{"amount":"17.24","code":"XF"},{"amount":"19.92","code":"ZP"}]`)
}

func TestEngine_CabinBrandNotADefaultRule(t *testing.T) {
	result, err := NewDefault().Run([]byte(fixture(t)))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Report.Count(domain.RuleCabinBrandMismatch))

	rules, err := validation.RulesByID([]string{domain.RuleCabinBrandMismatch}, validation.DefaultSettings())
	require.NoError(t, err)
	strict := New(validation.NewValidator(append(validation.DefaultRules(validation.DefaultSettings()), rules...)...))

	result, err = strict.Run([]byte(fixture(t)))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusValidWithWarnings, result.Report.Status)
	assert.Equal(t, 4, result.Report.Count(domain.RuleCabinBrandMismatch))
	assert.NotEmpty(t, result.Canonical)
}

func TestEngine_DanglingSegment(t *testing.T) {
	raw := strings.Replace(fixture(t), `"segmentId": "64"`, `"segmentId": "99"`, 1)

	result, err := NewDefault().Run([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.Count(domain.RuleDanglingReference))
	assert.Equal(t, domain.StatusInvalid, result.Report.Status)
	assert.Nil(t, result.Canonical)
}

func TestEngine_DuplicateSegmentID(t *testing.T) {
	raw := strings.Replace(fixture(t), `"id": "24"`, `"id": "23"`, 1)

	result, err := NewDefault().Run([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.Count(domain.RuleDuplicateSegmentID))
	// "24" is gone; "23", "63" and "64" still resolve
	assert.Equal(t, 1, result.Report.Count(domain.RuleDanglingReference))
	assert.Equal(t, domain.StatusInvalid, result.Report.Status)
}

func TestEngine_ParseFailureIsReported(t *testing.T) {
	raw := strings.Replace(fixture(t), `"duration": "PT1H7M"`, `"duration": "PT1X"`, 1)

	result, err := NewDefault().Run([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.Count(domain.RuleMalformedDuration))
	assert.Empty(t, result.Payload.Offers)
	assert.Len(t, result.Payload.Travelers, 1)
	assert.Equal(t, domain.StatusInvalid, result.Report.Status)
}

func TestEngine_MultipleViolationsCollected(t *testing.T) {
	raw := fixture(t)
	raw = strings.Replace(raw, `"numberOfStops": 0`, `"numberOfStops": 2`, 1)
	raw = strings.Replace(raw, `"segmentId": "63"`, `"segmentId": "99"`, 1)
	raw = strings.Replace(raw, `"billingCurrency": "EUR"`, `"billingCurrency": "USD"`, 1)

	result, err := NewDefault().Run([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.Count(domain.RuleInconsistentStopCount))
	assert.Equal(t, 1, result.Report.Count(domain.RuleDanglingReference))
	assert.Equal(t, 1, result.Report.Count(domain.RuleSegmentCoverage))
	assert.Equal(t, 1, result.Report.Count(domain.RuleCurrencyMismatch))
}

func TestEngine_MalformedDocument(t *testing.T) {
	_, err := NewDefault().Run([]byte(`not json`))
	assert.True(t, errors.Is(err, schema.ErrMalformedDocument))
}

func TestEngine_Concurrent(t *testing.T) {
	e := NewDefault()
	raw := []byte(fixture(t))

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := e.Run(raw)
			if err == nil {
				results[i] = string(r.Canonical)
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
	assert.NotEmpty(t, results[0])
}
