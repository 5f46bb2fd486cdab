package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dialect kapselt die wenigen SQL-Ausdrücke, die sich zwischen SQLite und PostgreSQL unterscheiden.
type dialect struct {
	postgres bool
}

func dialectOf(db *gorm.DB) dialect {
	return dialect{postgres: db.Dialector.Name() == "postgres"}
}

// like returns the case-insensitive LIKE operator with an explicit escape character.
func (d dialect) like(expr string) string {
	if d.postgres {
		return expr + ` ILIKE ? ESCAPE '\'`
	}
	return expr + ` LIKE ? ESCAPE '\'`
}

// jsonArray is the column with NULL replaced by an empty array.
func (d dialect) jsonArray(col string) string {
	if d.postgres {
		return fmt.Sprintf("COALESCE(%s, '[]'::jsonb)", col)
	}
	return fmt.Sprintf("COALESCE(%s, '[]')", col)
}

// jsonObject is the column with NULL (and on SQLite the empty string) replaced by {}.
func (d dialect) jsonObject(col string) string {
	if d.postgres {
		return fmt.Sprintf("COALESCE(%s, '{}'::jsonb)", col)
	}
	return fmt.Sprintf("COALESCE(NULLIF(%s, ''), '{}')", col)
}

// totalScore extracts opportunity_scores.total_score as a number.
func (d dialect) totalScore() string {
	if d.postgres {
		return "COALESCE((opportunity_scores->>'total_score')::numeric, 0)"
	}
	return "COALESCE(CAST(json_extract(" + d.jsonObject("opportunity_scores") + ", '$.total_score') AS REAL), 0)"
}

// arrayTextMatch matches the term against the text field of every element of a JSON array
// column. Columns that are not valid arrays never match.
func (d dialect) arrayTextMatch(col string) string {
	if d.postgres {
		return fmt.Sprintf(`EXISTS (SELECT 1 FROM jsonb_array_elements(CASE WHEN jsonb_typeof(%[1]s) = 'array' THEN %[1]s ELSE '[]'::jsonb END) AS je WHERE je->>'text' ILIKE ? ESCAPE '\')`, col)
	}
	return fmt.Sprintf(`EXISTS (SELECT 1 FROM json_each(CASE WHEN json_valid(%[1]s) THEN CASE WHEN json_type(%[1]s) = 'array' THEN %[1]s ELSE '[]' END ELSE '[]' END) AS je WHERE CASE WHEN je.type = 'object' THEN json_extract(je.value, '$.text') END LIKE ? ESCAPE '\')`, col)
}

// likePattern escapes LIKE wildcards in term and wraps it for a substring match.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// isMalformedJSONError erkennt JSON-Fehler, die die Datenbank selbst beim Auswerten von
// json_each, json_extract oder jsonb-Casts meldet.
func isMalformedJSONError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed json") ||
		strings.Contains(msg, "invalid input syntax for type json")
}
