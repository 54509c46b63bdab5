package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/quantifio/codemetrics/schema"
)

// lizard --csv column positions.
const (
	lizardNLOC = iota
	lizardCCN
	lizardTokenCount
	lizardParamCount
	lizardLength
	lizardLocation
	lizardFile
	lizardFunction
	lizardLongName
	lizardStartLine
	lizardEndLine
	lizardFieldCount
)

// ParseLizardOutput converts the CSV report of lizard --csv into
// FunctionComplexity rows tagged with the analyzed path and revision.
// Rows come back sorted by cyclomatic complexity descending so the worst
// functions lead; ties break by start line ascending.
//
// The reported file column is ignored: lizard sees a temp copy of the
// downloaded content, not the repository path.
func ParseLizardOutput(out []byte, filePath, revision string) ([]schema.FunctionComplexity, error) {
	reader := csv.NewReader(bytes.NewReader(out))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse complexity report: %w", err)
	}

	rows := make([]schema.FunctionComplexity, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 || rec[0] == "NLOC" {
			continue
		}
		if len(rec) < lizardFieldCount {
			return nil, fmt.Errorf("complexity record too short: %v", rec)
		}

		ints := make([]int, lizardFieldCount)
		for _, idx := range []int{lizardNLOC, lizardCCN, lizardTokenCount, lizardParamCount, lizardLength, lizardStartLine, lizardEndLine} {
			v, err := strconv.Atoi(rec[idx])
			if err != nil {
				return nil, fmt.Errorf("bad number in complexity record %v: %w", rec, err)
			}
			ints[idx] = v
		}

		rows = append(rows, schema.FunctionComplexity{
			Path:                 filePath,
			Revision:             revision,
			Name:                 rec[lizardFunction],
			LongName:             rec[lizardLongName],
			CyclomaticComplexity: ints[lizardCCN],
			NLOC:                 ints[lizardNLOC],
			TokenCount:           ints[lizardTokenCount],
			ParamCount:           ints[lizardParamCount],
			Length:               ints[lizardLength],
			StartLine:            ints[lizardStartLine],
			EndLine:              ints[lizardEndLine],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CyclomaticComplexity != rows[j].CyclomaticComplexity {
			return rows[i].CyclomaticComplexity > rows[j].CyclomaticComplexity
		}
		return rows[i].StartLine < rows[j].StartLine
	})
	return rows, nil
}

// ComplexityTotals sums function-level NLOC and token counts for the report
// footer. Lizard's CSV mode reports functions only, so file totals are
// approximated by the sum over functions.
func ComplexityTotals(rows []schema.FunctionComplexity) (nloc, tokens int) {
	for _, r := range rows {
		nloc += r.NLOC
		tokens += r.TokenCount
	}
	return nloc, tokens
}
