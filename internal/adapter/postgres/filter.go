package postgres

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TagsMatch matches rows whose column contains any of tags as a
// case-insensitive substring. It returns nil when tags is empty.
func TagsMatch(column string, tags []string) sq.Sqlizer {
	if len(tags) == 0 {
		return nil
	}
	or := make(sq.Or, 0, len(tags))
	for _, tag := range tags {
		or = append(or, sq.ILike{column: "%" + likeEscaper.Replace(tag) + "%"})
	}
	return or
}

// HasTaggedExample matches words (aliased wordAlias) linked to at least one
// example whose tags match. It returns nil when tags is empty.
func HasTaggedExample(wordAlias string, tags []string) (sq.Sqlizer, error) {
	match := TagsMatch("e.tags", tags)
	if match == nil {
		return nil, nil
	}
	cond, args, err := match.ToSql()
	if err != nil {
		return nil, err
	}
	return sq.Expr(
		"EXISTS (SELECT 1 FROM word_examples we JOIN examples e ON e.id = we.example_id WHERE we.word_id = "+
			wordAlias+".id AND "+cond+")",
		args...,
	), nil
}

// LevelIn matches words whose level is one of levels. It returns nil when
// levels is empty.
func LevelIn(column string, levels []domain.JLPTLevel) sq.Sqlizer {
	if len(levels) == 0 {
		return nil
	}
	vals := make([]string, len(levels))
	for i, l := range levels {
		vals[i] = string(l)
	}
	return sq.Eq{column: vals}
}
