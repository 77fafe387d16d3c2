package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

func buildTable(t *testing.T, rows int, build func(tbl *table.Table)) *table.Table {
	t.Helper()
	tbl := table.New(rows)
	build(tbl)
	return tbl
}

func TestValidate(t *testing.T) {
	schema := map[string]table.Kind{
		"state": table.String,
		"value": table.Float,
	}

	tests := []struct {
		name     string
		build    func(tbl *table.Table)
		rows     int
		wantKind apperrors.Kind
	}{
		{
			name: "valid table passes",
			rows: 2,
			build: func(tbl *table.Table) {
				tbl.AddString("state", []string{"Illinois", "Ohio"}, nil)
				tbl.AddFloat("value", []float64{1, 2}, nil)
			},
		},
		{
			name:     "empty table rejected",
			rows:     0,
			build:    func(tbl *table.Table) {},
			wantKind: apperrors.KindEmptyOrDuplicate,
		},
		{
			name: "duplicate rows rejected",
			rows: 2,
			build: func(tbl *table.Table) {
				tbl.AddString("state", []string{"Illinois", "Illinois"}, nil)
				tbl.AddFloat("value", []float64{1, 1}, nil)
			},
			wantKind: apperrors.KindEmptyOrDuplicate,
		},
		{
			name: "missing column rejected",
			rows: 1,
			build: func(tbl *table.Table) {
				tbl.AddString("state", []string{"Illinois"}, nil)
			},
			wantKind: apperrors.KindSchema,
		},
		{
			name: "wrong kind rejected",
			rows: 1,
			build: func(tbl *table.Table) {
				tbl.AddString("state", []string{"Illinois"}, nil)
				tbl.AddString("value", []string{"high"}, nil)
			},
			wantKind: apperrors.KindTypeMismatch,
		},
		{
			name: "null in required column rejected",
			rows: 2,
			build: func(tbl *table.Table) {
				tbl.AddString("state", []string{"Illinois", "Ohio"}, nil)
				tbl.AddFloat("value", []float64{1, 0}, []bool{true, false})
			},
			wantKind: apperrors.KindNullValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := buildTable(t, tt.rows, tt.build)
			err := Validate(tbl, schema)
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
		})
	}
}
