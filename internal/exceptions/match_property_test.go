package exceptions

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/repolint/repolint/internal/model"
)

// TestFilterPartitionProperties checks the structural guarantees of the
// suppression filter over arbitrary violation sets: the filter is a clean
// partition, it is deterministic, and re-filtering the remaining set is a
// fixed point.
func TestFilterPartitionProperties(t *testing.T) {
	e := loadTestEngine(t, matchRoster)
	properties := gopter.NewProperties(nil)

	properties.Property("filter partitions without loss or invention", prop.ForAll(
		func(vs []model.Violation) bool {
			res := e.Filter("python", vs, nil)
			return len(res.Remaining)+len(res.Suppressed) == len(vs)
		},
		genViolations(),
	))

	properties.Property("filter is deterministic", prop.ForAll(
		func(vs []model.Violation) bool {
			a := e.Filter("python", vs, nil)
			b := e.Filter("python", vs, nil)
			if len(a.Remaining) != len(b.Remaining) || len(a.Suppressed) != len(b.Suppressed) {
				return false
			}
			for i := range a.Remaining {
				if a.Remaining[i] != b.Remaining[i] {
					return false
				}
			}
			return a.Counts == b.Counts
		},
		genViolations(),
	))

	properties.Property("remaining set is a fixed point", prop.ForAll(
		func(vs []model.Violation) bool {
			first := e.Filter("python", vs, nil)
			second := e.Filter("python", first.Remaining, nil)
			return len(second.Suppressed) == 0 && len(second.Remaining) == len(first.Remaining)
		},
		genViolations(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func genViolations() gopter.Gen {
	return gen.SliceOf(genViolation())
}

func genViolation() gopter.Gen {
	tools := gen.OneConstOf("ruff", "pylint", "shellcheck", "black")
	codes := gen.OneConstOf("E501", "F401", "C0114", "SC2086", "")
	paths := gen.OneConstOf(
		"src/legacy.py", "src/app.py", "generated/api.py",
		"scripts/run.sh", "a.py", "deep/nested/x.py",
	)
	return gopter.CombineGens(tools, codes, paths, gen.IntRange(0, 500)).
		Map(func(vals []interface{}) model.Violation {
			path := vals[2].(string)
			return model.Violation{
				Tool:       vals[0].(string),
				Code:       vals[1].(string),
				File:       path[lastSlash(path)+1:],
				Line:       model.Line(vals[3].(int)),
				Message:    vals[1].(string) + ": generated finding",
				SourcePath: path,
			}
		})
}
