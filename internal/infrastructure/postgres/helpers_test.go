package postgres

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// sqlFragments acepta la consulta si contiene cada fragmento (separado por espacios) de la esperada.
var sqlFragments = pgxmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
	actual := strings.Join(strings.Fields(actualSQL), " ")
	for _, frag := range strings.Fields(expectedSQL) {
		if !strings.Contains(actual, frag) {
			return fmt.Errorf("falta %q en:\n%s", frag, actual)
		}
	}
	return nil
})

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(sqlFragments))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// decArg compara decimales por valor (200 == 200.00).
type decArg string

func (d decArg) Match(v any) bool {
	got, ok := v.(decimal.Decimal)
	return ok && got.Equal(decimal.RequireFromString(string(d)))
}

func strp(s string) *string { return &s }

func i64p(v int64) *int64 { return &v }

var (
	nilStr *string
	nilID  *int64
)
