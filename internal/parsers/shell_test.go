package parsers

import (
	"testing"
)

func TestParseShellcheck(t *testing.T) {
	stdout := `[{"file":"scripts/run.sh","line":12,"column":8,"level":"warning","code":2086,"message":"Double quote to prevent globbing and word splitting."}]`
	res := ParseShellcheck([]byte(stdout), nil)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Code != "SC2086" {
		t.Errorf("numeric codes must gain the SC prefix, got %q", rec.Code)
	}
	if rec.Path != "scripts/run.sh" || rec.Line != 12 {
		t.Errorf("unexpected location %s:%d", rec.Path, rec.Line)
	}
}

func TestParseShellcheckEmpty(t *testing.T) {
	for _, out := range []string{"", "[]", "  \n"} {
		res := ParseShellcheck([]byte(out), nil)
		if len(res.Records) != 0 || len(res.Anomalies) != 0 {
			t.Errorf("output %q: expected empty result, got %+v", out, res)
		}
	}
}

func TestParseShellcheckBadJSON(t *testing.T) {
	res := ParseShellcheck([]byte("{not json"), nil)
	if len(res.Records) != 0 {
		t.Fatalf("invalid JSON must not yield records: %+v", res.Records)
	}
	if len(res.Anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %v", res.Anomalies)
	}
}

func TestParseShfmt(t *testing.T) {
	res := ParseShfmt([]byte("scripts/a.sh\nscripts/b.sh\n"), nil)
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	for _, rec := range res.Records {
		if rec.Line != 0 {
			t.Errorf("listing output has no line numbers, got %d", rec.Line)
		}
	}
}

func TestParseShfmtSyntaxError(t *testing.T) {
	res := ParseShfmt(nil, []byte("scripts/bad.sh:4:1: > must be followed by a word\n"))
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %+v", res)
	}
	rec := res.Records[0]
	if rec.Path != "scripts/bad.sh" || rec.Line != 4 {
		t.Errorf("unexpected location %s:%d", rec.Path, rec.Line)
	}
}
