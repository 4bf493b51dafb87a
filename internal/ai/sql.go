package ai

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var (
	fenceRe     = regexp.MustCompile("(?is)```(?:sql)?\\s*(.*?)```")
	sqlPrefixRe = regexp.MustCompile(`(?i)^sql\s+`)
	writeRe     = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE|DROP|ALTER|TRUNCATE|CREATE|RENAME|ATTACH|DETACH|SYSTEM|OPTIMIZE|GRANT|REVOKE|KILL)\b`)
	limitRe     = regexp.MustCompile(`(?i)\bLIMIT\s+\d+`)
)

func sqlPrompt(database, question string) string {
	return fmt.Sprintf(`You write ClickHouse SQL for a multi-chain swap service.
%s
Answer with exactly one SELECT statement and nothing else.
Always read %[2]s.swap_records with FINAL.
Amounts are UInt256 base units of their token; group by chain_id and symbol before summing.
For "top" or "largest" questions use ORDER BY ... DESC with LIMIT.

Question: %[3]s
`, swapRecordsSchema(database), database, question)
}

func summaryPrompt(question, query, rowsJSON string) string {
	return fmt.Sprintf(`Question: %s

Query: %s

Rows (JSON): %s

Answer the question in a few short bullet points. Say so when there are no rows.
Quote the key counts and amounts and note that amounts are in token base units.
`, question, query, rowsJSON)
}

// sanitizeSQL extracts the statement from a model reply: code fences, a
// leading "sql" tag and a trailing semicolon are removed.
func sanitizeSQL(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.TrimSpace(s)
	s = sqlPrefixRe.ReplaceAllString(s, "")
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	return strings.TrimSpace(s)
}

// validateSQL accepts a single read-only query over swap_records.
func validateSQL(s, database string) error {
	if s == "" {
		return fmt.Errorf("model returned no sql")
	}
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("only SELECT queries are allowed")
	}
	if strings.Contains(s, ";") {
		return fmt.Errorf("multiple statements are not allowed")
	}
	if kw := writeRe.FindString(s); kw != "" {
		return fmt.Errorf("disallowed keyword %q in generated query", strings.ToUpper(kw))
	}

	tableRe := regexp.MustCompile(`(?i)\bFROM\s+(?:` + regexp.QuoteMeta(database) + `\.)?swap_records\b`)
	if !tableRe.MatchString(s) {
		return fmt.Errorf("query must read %s.swap_records", database)
	}
	return nil
}

// withRowLimit appends a LIMIT when the query has none.
func withRowLimit(query string, n int) string {
	if limitRe.MatchString(query) {
		return query
	}
	return query + " LIMIT " + strconv.Itoa(n)
}

// jsonValue makes scanned ClickHouse values JSON friendly. UInt256 columns
// come back as big integers and are rendered as decimal strings.
func jsonValue(v any) any {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil
		}
		return x.String()
	case big.Int:
		return x.String()
	case []byte:
		return string(x)
	}
	return v
}
