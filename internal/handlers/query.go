package handlers

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/diewo77/go-library/internal/repository"
	"github.com/diewo77/go-library/validation"
)

// ListOptions whitelists the query parameters of one listing. Each map goes
// from the public (JSON) field name to its column.
type ListOptions struct {
	Filter map[string]string
	Sort   map[string]string
	Fields map[string]string
}

var (
	bookList = ListOptions{
		Filter: map[string]string{"title": "title"},
		Sort:   map[string]string{"title": "title"},
		Fields: map[string]string{"title": "title", "description": "description"},
	}
	genreList = ListOptions{
		Filter: map[string]string{"name": "name"},
		Sort:   map[string]string{"name": "name"},
		Fields: map[string]string{"name": "name"},
	}
	userList = ListOptions{
		Filter: map[string]string{"username": "username"},
		Sort:   map[string]string{"username": "username"},
		Fields: map[string]string{"username": "username", "externalId": "external_id", "roles": "roles"},
	}
)

// ParseListQuery reads page[number], page[size], filter[<field>],
// sort[<field>]=ASC|DESC and fields[target]=a,b from values.
func ParseListQuery(values url.Values, opts ListOptions) (repository.Query, validation.Violations) {
	v := make(validation.Violations)
	q := repository.Query{Page: repository.Page{
		Number: repository.DefaultPageNumber,
		Size:   repository.DefaultPageSize,
	}}

	if raw := values.Get("page[number]"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			v["page[number]"] = "int"
		case n < 1:
			v["page[number]"] = "min"
		default:
			q.Page.Number = n
		}
	}
	if raw := values.Get("page[size]"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			v["page[size]"] = "int"
		} else {
			validation.RangeInt("page[size]", n, 1, repository.MaxPageSize, v)
			q.Page.Size = n
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := values.Get(key)
		switch group, field, ok := bracketed(key); {
		case !ok:
			continue
		case group == "filter":
			col, allowed := opts.Filter[field]
			if !allowed {
				v[key] = "not_allowed"
				continue
			}
			if q.Filter == nil {
				q.Filter = make(map[string]any)
			}
			q.Filter[col] = val
		case group == "sort":
			col, allowed := opts.Sort[field]
			if !allowed {
				v[key] = "not_allowed"
				continue
			}
			dir := strings.ToUpper(val)
			validation.OneOf(key, dir, []string{string(repository.Asc), string(repository.Desc)}, v)
			q.Sort = append(q.Sort, repository.Order{Column: col, Direction: repository.Direction(dir)})
		case group == "fields" && field == "target":
			for _, name := range strings.Split(val, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				col, allowed := opts.Fields[name]
				if !allowed {
					v[key] = "not_allowed"
					continue
				}
				q.Fields = append(q.Fields, col)
			}
		}
	}
	return q, v
}

// bracketed splits "filter[title]" into "filter" and "title".
func bracketed(key string) (group, field string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	field = key[open+1 : len(key)-1]
	if field == "" {
		return "", "", false
	}
	return key[:open], field, true
}
