package importer

import (
	"strings"

	"visadesk-data/internal/domain"
	"visadesk-data/internal/schema"
)

// Grouping clusters parsed rows into per-employee buckets. Order lists the
// identity keys in first-seen order; rows inside a bucket keep their source
// file order, which is semantically meaningful (later rows are more recent
// case events).
type Grouping struct {
	Order   []string
	Buckets map[string][]*domain.RawRow
	Dropped int // rows with no derivable identity
}

// IdentityKey derives the grouping key for one row: the folded institutional
// email when present, else "last|first" from the folded name pair. Returns
// "" when the row carries neither, in which case it cannot be attributed to
// any identity.
//
// Two distinct people sharing a name with no email column collide into one
// key. That coalescing is a known boundary of the matching scheme, kept as
// observed rather than silently disambiguated.
func IdentityKey(row *domain.RawRow) string {
	if email := row.GetString(schema.HeaderEmail); email != "" {
		return schema.Fold(email)
	}
	last := schema.Fold(row.GetString(schema.HeaderLastName))
	first := schema.Fold(row.GetString(schema.HeaderFirstName))
	if last == "" && first == "" {
		return ""
	}
	return last + "|" + first
}

// GroupRows buckets rows by identity key, preserving both bucket discovery
// order and intra-bucket row order.
func GroupRows(rows []*domain.RawRow) *Grouping {
	g := &Grouping{Buckets: map[string][]*domain.RawRow{}}
	for _, row := range rows {
		key := IdentityKey(row)
		if key == "" {
			g.Dropped++
			continue
		}
		if _, ok := g.Buckets[key]; !ok {
			g.Order = append(g.Order, key)
		}
		g.Buckets[key] = append(g.Buckets[key], row)
	}
	return g
}

// employeeIdentityKey mirrors IdentityKey for an already-reconciled record,
// so merge imports can match buckets against the existing population.
func employeeIdentityKey(e *domain.Employee) string {
	if email := strings.TrimSpace(e.Email); email != "" {
		return schema.Fold(email)
	}
	last := schema.Fold(strings.TrimSpace(e.LastName))
	first := schema.Fold(strings.TrimSpace(e.FirstName))
	if last == "" && first == "" {
		return ""
	}
	return last + "|" + first
}
